package store

import "context"

// Attempt is one graded answer submission. Attempts are immutable once
// persisted; the per-user log is append-only and queried newest-first.
type Attempt struct {
	ID               int32
	UserID           int32
	QuestionID       int32
	UserAnswer       string
	IsCorrect        bool
	TimeTakenSeconds int
	Explanation      string
	CreatedTs        int64

	// Joined question fields, populated on reads.
	Topic      string
	Difficulty Difficulty
	Question   string
}

// FindAttempt is the filter for listing attempts. Results are ordered by
// created_ts descending; that ordering is the query contract drift
// evaluation depends on.
type FindAttempt struct {
	UserID *int32
	Limit  *int
}

// TopicMastery aggregates per-topic correctness for a user.
type TopicMastery struct {
	Topic   string
	Total   int
	Correct int
}

func (s *Store) CreateAttempt(ctx context.Context, create *Attempt) (*Attempt, error) {
	return s.driver.CreateAttempt(ctx, create)
}

func (s *Store) ListAttempts(ctx context.Context, find *FindAttempt) ([]*Attempt, error) {
	return s.driver.ListAttempts(ctx, find)
}

func (s *Store) ListTopicMastery(ctx context.Context, userID int32) ([]*TopicMastery, error) {
	return s.driver.ListTopicMastery(ctx, userID)
}
