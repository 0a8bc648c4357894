package quiz

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/quizflow/server/drift"
	qerrors "github.com/hrygo/quizflow/internal/errors"
	"github.com/hrygo/quizflow/store"
	storetest "github.com/hrygo/quizflow/store/test"
)

type fakeClassifier struct {
	result  drift.Result
	err     error
	windows [][]*store.Attempt
}

func (f *fakeClassifier) Classify(ctx context.Context, userID int32, window []*store.Attempt) (drift.Result, error) {
	f.windows = append(f.windows, window)
	if f.err != nil {
		return drift.Result{}, f.err
	}
	return f.result, nil
}

type fakeExplainer struct {
	calls int
	text  string
	err   error
}

func (f *fakeExplainer) Explain(ctx context.Context, topic, userAnswer string) (string, error) {
	f.calls++
	return f.text, f.err
}

type serviceFixture struct {
	service    *Service
	store      *store.Store
	classifier *fakeClassifier
	explainer  *fakeExplainer
	user       *store.User
	questions  map[store.Difficulty]*store.Question
}

func newServiceFixture(ctx context.Context, t *testing.T, skill float64) *serviceFixture {
	t.Helper()

	ts := storetest.NewTestingStore(ctx, t)
	user, err := ts.CreateUser(ctx, &store.User{Username: "alice", Skill: skill})
	require.NoError(t, err)

	questions := make(map[store.Difficulty]*store.Question)
	for _, difficulty := range []store.Difficulty{store.DifficultyEasy, store.DifficultyMedium, store.DifficultyHard} {
		q, err := ts.CreateQuestion(ctx, &store.Question{
			Topic:      "arrays",
			Difficulty: difficulty,
			Text:       "q-" + string(difficulty),
			Answer:     "0",
		})
		require.NoError(t, err)
		questions[difficulty] = q
	}

	classifier := &fakeClassifier{}
	explainer := &fakeExplainer{text: "grounded explanation"}
	service := NewService(ts, newFirstPickSelector(), classifier, explainer)
	return &serviceFixture{
		service:    service,
		store:      ts,
		classifier: classifier,
		explainer:  explainer,
		user:       user,
		questions:  questions,
	}
}

func TestSubmitAnswerCorrect(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(ctx, t, 0.5)

	result, err := f.service.SubmitAnswer(ctx, f.user.ID, &SubmitRequest{
		QuestionID:       f.questions[store.DifficultyMedium].ID,
		Answer:           "0",
		TimeTakenSeconds: 10,
	})
	require.NoError(t, err)
	assert.True(t, result.Correct)
	assert.Equal(t, feedbackCorrect, result.Feedback)
	assert.InDelta(t, 0.6, result.Skill, 1e-9)
	assert.NotNil(t, result.NextQuestion)
	assert.Zero(t, f.explainer.calls, "correct answers need no explanation")

	limit := 10
	attempts, err := f.store.ListAttempts(ctx, &store.FindAttempt{UserID: &f.user.ID, Limit: &limit})
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.True(t, attempts[0].IsCorrect)
}

func TestSubmitAnswerGradingIsTrimmedAndCaseFolded(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(ctx, t, 0.5)

	q, err := f.store.CreateQuestion(ctx, &store.Question{
		Topic: "sorting", Difficulty: store.DifficultyMedium,
		Text: "avg quicksort?", Answer: "O(n log n)",
	})
	require.NoError(t, err)

	result, err := f.service.SubmitAnswer(ctx, f.user.ID, &SubmitRequest{
		QuestionID: q.ID,
		Answer:     "  o(N LOG n) ",
	})
	require.NoError(t, err)
	assert.True(t, result.Correct)
}

func TestSubmitAnswerIncorrectWithoutDrift(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(ctx, t, 0.5)

	result, err := f.service.SubmitAnswer(ctx, f.user.ID, &SubmitRequest{
		QuestionID:       f.questions[store.DifficultyMedium].ID,
		Answer:           "1",
		TimeTakenSeconds: 10,
	})
	require.NoError(t, err)
	assert.False(t, result.Correct)
	assert.InDelta(t, 0.4, result.Skill, 1e-9)
	assert.Contains(t, result.Feedback, "The right answer is '0'")
	assert.Zero(t, f.explainer.calls, "a single miss is not drift; no AI spend")

	limit := 10
	attempts, err := f.store.ListAttempts(ctx, &store.FindAttempt{UserID: &f.user.ID, Limit: &limit})
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Empty(t, attempts[0].Explanation)
}

func TestSubmitAnswerDriftTriggersRemediation(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(ctx, t, 0.5)
	f.classifier.result = drift.Result{Drift: true, Reason: "consecutive errors"}

	result, err := f.service.SubmitAnswer(ctx, f.user.ID, &SubmitRequest{
		QuestionID:       f.questions[store.DifficultyMedium].ID,
		Answer:           "1",
		TimeTakenSeconds: 10,
	})
	require.NoError(t, err)
	assert.False(t, result.Correct)
	assert.True(t, strings.HasPrefix(result.Feedback, "Drift detected!"))
	assert.Contains(t, result.Feedback, "The right answer is '0'")
	assert.Contains(t, result.Feedback, "grounded explanation")
	assert.Equal(t, 1, f.explainer.calls)

	limit := 10
	attempts, err := f.store.ListAttempts(ctx, &store.FindAttempt{UserID: &f.user.ID, Limit: &limit})
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, "grounded explanation", attempts[0].Explanation)
}

func TestSubmitAnswerSkillClamped(t *testing.T) {
	ctx := context.Background()

	f := newServiceFixture(ctx, t, 0.05)
	result, err := f.service.SubmitAnswer(ctx, f.user.ID, &SubmitRequest{
		QuestionID: f.questions[store.DifficultyEasy].ID,
		Answer:     "wrong",
	})
	require.NoError(t, err)
	assert.Zero(t, result.Skill)

	f = newServiceFixture(ctx, t, 0.95)
	result, err = f.service.SubmitAnswer(ctx, f.user.ID, &SubmitRequest{
		QuestionID: f.questions[store.DifficultyEasy].ID,
		Answer:     "0",
	})
	require.NoError(t, err)
	assert.Equal(t, 1.0, result.Skill)
}

func TestSubmitAnswerClassifierFailureUsesHeuristic(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(ctx, t, 0.9)
	f.classifier.err = qerrors.RateLimitExceeded("429")

	// Two consecutive incorrect answers trip the heuristic.
	_, err := f.service.SubmitAnswer(ctx, f.user.ID, &SubmitRequest{
		QuestionID: f.questions[store.DifficultyMedium].ID,
		Answer:     "wrong",
	})
	require.NoError(t, err)

	result, err := f.service.SubmitAnswer(ctx, f.user.ID, &SubmitRequest{
		QuestionID: f.questions[store.DifficultyMedium].ID,
		Answer:     "wrong",
	})
	require.NoError(t, err)
	assert.True(t, result.Drift.Drift)
	assert.True(t, strings.HasPrefix(result.Feedback, "Drift detected!"))
	// Drift steps the next question down regardless of skill.
	assert.Equal(t, store.DifficultyEasy, result.NextQuestion.Difficulty)

	user, err := f.store.GetUser(ctx, &store.FindUser{ID: &f.user.ID})
	require.NoError(t, err)
	assert.True(t, user.DriftDetected, "drift flag must be persisted")
}

func TestSubmitAnswerClassifierVerdictWins(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(ctx, t, 0.5)
	f.classifier.result = drift.Result{Drift: true, Reason: "model verdict"}

	result, err := f.service.SubmitAnswer(ctx, f.user.ID, &SubmitRequest{
		QuestionID: f.questions[store.DifficultyMedium].ID,
		Answer:     "0",
	})
	require.NoError(t, err)
	assert.True(t, result.Drift.Drift)
	assert.Equal(t, "model verdict", result.Drift.Reason)
}

func TestSubmitAnswerWindowIncludesNewAttempt(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(ctx, t, 0.5)

	for i := 0; i < 7; i++ {
		_, err := f.service.SubmitAnswer(ctx, f.user.ID, &SubmitRequest{
			QuestionID: f.questions[store.DifficultyMedium].ID,
			Answer:     "0",
		})
		require.NoError(t, err)
	}

	require.Len(t, f.classifier.windows, 7)
	first := f.classifier.windows[0]
	require.Len(t, first, 1, "the in-flight attempt heads the window")
	assert.True(t, first[0].IsCorrect)
	last := f.classifier.windows[6]
	assert.Len(t, last, attemptWindowSize, "window is capped at the last %d attempts", attemptWindowSize)
}

func TestSubmitAnswerExplainerFailureDegrades(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(ctx, t, 0.5)
	f.classifier.result = drift.Result{Drift: true, Reason: "consecutive errors"}
	f.explainer.err = qerrors.Transport("down", nil)

	result, err := f.service.SubmitAnswer(ctx, f.user.ID, &SubmitRequest{
		QuestionID: f.questions[store.DifficultyMedium].ID,
		Answer:     "wrong",
	})
	require.NoError(t, err, "a failed explanation must not fail the submission")
	assert.Contains(t, result.Feedback, explanationUnavailable)
}

func TestSubmitAnswerUnknownQuestion(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(ctx, t, 0.5)

	_, err := f.service.SubmitAnswer(ctx, f.user.ID, &SubmitRequest{QuestionID: 9999, Answer: "0"})
	require.Error(t, err)
	assert.True(t, qerrors.IsCode(err, qerrors.ErrCodeNotFound))
}

func TestNextQuestionUnknownUser(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(ctx, t, 0.5)

	_, err := f.service.NextQuestion(ctx, 9999)
	require.Error(t, err)
	assert.True(t, qerrors.IsCode(err, qerrors.ErrCodeNotFound))
}

func TestEnsureSeedQuestionsIdempotent(t *testing.T) {
	ctx := context.Background()
	ts := storetest.NewTestingStore(ctx, t)
	service := NewService(ts, NewSelector(), nil, nil)

	require.NoError(t, service.EnsureSeedQuestions(ctx))
	first, err := ts.ListQuestions(ctx, &store.FindQuestion{})
	require.NoError(t, err)
	assert.Len(t, first, len(defaultQuestions))

	require.NoError(t, service.EnsureSeedQuestions(ctx))
	second, err := ts.ListQuestions(ctx, &store.FindQuestion{})
	require.NoError(t, err)
	assert.Len(t, second, len(first))
}
