package store

import "context"

// Difficulty is a question difficulty tier.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// IsValid reports whether d is a known tier.
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Question is a quiz question. Read-only from the quiz service's
// perspective; the admin surface creates and deletes them.
type Question struct {
	ID         int32
	Topic      string
	Difficulty Difficulty
	Text       string
	Answer     string
	CreatedTs  int64
}

// FindQuestion is the filter for listing questions.
type FindQuestion struct {
	ID         *int32
	Difficulty *Difficulty
}

// DeleteQuestion identifies a question to delete.
type DeleteQuestion struct {
	ID int32
}

func (s *Store) CreateQuestion(ctx context.Context, create *Question) (*Question, error) {
	return s.driver.CreateQuestion(ctx, create)
}

func (s *Store) ListQuestions(ctx context.Context, find *FindQuestion) ([]*Question, error) {
	return s.driver.ListQuestions(ctx, find)
}

func (s *Store) GetQuestion(ctx context.Context, find *FindQuestion) (*Question, error) {
	questions, err := s.driver.ListQuestions(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, nil
	}
	return questions[0], nil
}

func (s *Store) DeleteQuestion(ctx context.Context, delete *DeleteQuestion) error {
	return s.driver.DeleteQuestion(ctx, delete)
}
