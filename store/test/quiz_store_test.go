package test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/quizflow/store"
)

func TestUserSkillUpdate(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	user, err := ts.CreateUser(ctx, &store.User{Username: "alice"})
	require.NoError(t, err)
	assert.Equal(t, 0.5, user.Skill)
	assert.False(t, user.DriftDetected)

	skill := 0.6
	drift := true
	updated, err := ts.UpdateUser(ctx, &store.UpdateUser{ID: user.ID, Skill: &skill, DriftDetected: &drift})
	require.NoError(t, err)
	assert.Equal(t, 0.6, updated.Skill)
	assert.True(t, updated.DriftDetected)

	// Cached read reflects the update.
	got, err := ts.GetUser(ctx, &store.FindUser{ID: &user.ID})
	require.NoError(t, err)
	assert.Equal(t, 0.6, got.Skill)
}

func TestQuestionFilterByDifficulty(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	for _, q := range []*store.Question{
		{Topic: "Arrays", Difficulty: store.DifficultyEasy, Text: "q1", Answer: "a1"},
		{Topic: "Arrays", Difficulty: store.DifficultyMedium, Text: "q2", Answer: "a2"},
		{Topic: "DP", Difficulty: store.DifficultyEasy, Text: "q3", Answer: "a3"},
	} {
		_, err := ts.CreateQuestion(ctx, q)
		require.NoError(t, err)
	}

	easy := store.DifficultyEasy
	questions, err := ts.ListQuestions(ctx, &store.FindQuestion{Difficulty: &easy})
	require.NoError(t, err)
	assert.Len(t, questions, 2)
	for _, q := range questions {
		assert.Equal(t, store.DifficultyEasy, q.Difficulty)
	}
}

func TestAttemptLogOrderedNewestFirst(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	user, err := ts.CreateUser(ctx, &store.User{Username: "bob"})
	require.NoError(t, err)
	question, err := ts.CreateQuestion(ctx, &store.Question{
		Topic: "Arrays", Difficulty: store.DifficultyEasy, Text: "q", Answer: "a",
	})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := ts.CreateAttempt(ctx, &store.Attempt{
			UserID:     user.ID,
			QuestionID: question.ID,
			UserAnswer: "a",
			IsCorrect:  i%2 == 0,
			CreatedTs:  int64(1000 + i),
		})
		require.NoError(t, err)
	}

	limit := 2
	attempts, err := ts.ListAttempts(ctx, &store.FindAttempt{UserID: &user.ID, Limit: &limit})
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.Equal(t, int64(1002), attempts[0].CreatedTs)
	assert.Equal(t, int64(1001), attempts[1].CreatedTs)
	assert.Equal(t, "Arrays", attempts[0].Topic)
	assert.Equal(t, store.DifficultyEasy, attempts[0].Difficulty)
}

func TestTopicMastery(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	user, err := ts.CreateUser(ctx, &store.User{Username: "carol"})
	require.NoError(t, err)
	question, err := ts.CreateQuestion(ctx, &store.Question{
		Topic: "DP", Difficulty: store.DifficultyMedium, Text: "q", Answer: "a",
	})
	require.NoError(t, err)

	for _, correct := range []bool{true, true, false} {
		_, err := ts.CreateAttempt(ctx, &store.Attempt{
			UserID: user.ID, QuestionID: question.ID, UserAnswer: "a", IsCorrect: correct,
		})
		require.NoError(t, err)
	}

	mastery, err := ts.ListTopicMastery(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, mastery, 1)
	assert.Equal(t, "DP", mastery[0].Topic)
	assert.Equal(t, 3, mastery[0].Total)
	assert.Equal(t, 2, mastery[0].Correct)
}

func TestSearchNoteChunksRanking(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	note, err := ts.CreateNote(ctx, &store.Note{Title: "Arrays", Topic: "Arrays"})
	require.NoError(t, err)

	chunks := []*store.NoteChunk{
		{NoteID: note.ID, ChunkIndex: 0, Content: "far", Embedding: []float32{0, 1, 0, 0}},
		{NoteID: note.ID, ChunkIndex: 1, Content: "near", Embedding: []float32{1, 0, 0, 0}},
		{NoteID: note.ID, ChunkIndex: 2, Content: "close", Embedding: []float32{0.9, 0.1, 0, 0}},
	}
	for _, chunk := range chunks {
		_, err := ts.CreateNoteChunk(ctx, chunk)
		require.NoError(t, err)
	}

	results, err := ts.SearchNoteChunks(ctx, []float32{1, 0, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "near", results[0].Content)
	assert.Equal(t, "close", results[1].Content)
}

func TestSearchNoteChunksEmptyStore(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	results, err := ts.SearchNoteChunks(ctx, []float32{1, 0, 0, 0}, 3)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestEmbeddingBackfill(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	note, err := ts.CreateNote(ctx, &store.Note{Title: "DP", Topic: "DP"})
	require.NoError(t, err)
	chunk, err := ts.CreateNoteChunk(ctx, &store.NoteChunk{NoteID: note.ID, Content: "pending"})
	require.NoError(t, err)

	pending, err := ts.FindNoteChunksWithoutEmbedding(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Nil(t, pending[0].Embedding)

	require.NoError(t, ts.UpdateNoteChunkEmbedding(ctx, chunk.ID, []float32{0, 0, 1, 0}))

	pending, err = ts.FindNoteChunksWithoutEmbedding(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	results, err := ts.SearchNoteChunks(ctx, []float32{0, 0, 1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "pending", results[0].Content)
}
