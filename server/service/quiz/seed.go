package quiz

import (
	"context"
	"log/slog"

	"github.com/hrygo/quizflow/store"
)

// defaultQuestions is the starter bank loaded into an empty question store
// so a fresh deployment is immediately usable.
var defaultQuestions = []*store.Question{
	{Topic: "arrays", Difficulty: store.DifficultyEasy, Text: "What index does the first element of an array have?", Answer: "0"},
	{Topic: "arrays", Difficulty: store.DifficultyMedium, Text: "What is the time complexity of accessing an array element by index?", Answer: "O(1)"},
	{Topic: "arrays", Difficulty: store.DifficultyHard, Text: "What is the amortized time complexity of appending to a dynamic array?", Answer: "O(1)"},
	{Topic: "recursion", Difficulty: store.DifficultyEasy, Text: "What do we call the condition that stops a recursive function?", Answer: "base case"},
	{Topic: "recursion", Difficulty: store.DifficultyMedium, Text: "What error occurs when recursion never reaches its base case?", Answer: "stack overflow"},
	{Topic: "recursion", Difficulty: store.DifficultyHard, Text: "What technique rewrites a recursive call in tail position into a loop?", Answer: "tail call optimization"},
	{Topic: "sorting", Difficulty: store.DifficultyEasy, Text: "Is bubble sort a comparison sort? (yes/no)", Answer: "yes"},
	{Topic: "sorting", Difficulty: store.DifficultyMedium, Text: "What is the average time complexity of quicksort?", Answer: "O(n log n)"},
	{Topic: "sorting", Difficulty: store.DifficultyHard, Text: "What is the worst-case time complexity of quicksort with a naive pivot?", Answer: "O(n^2)"},
}

// EnsureSeedQuestions loads the starter bank when the question store is
// empty. Idempotent across restarts.
func (s *Service) EnsureSeedQuestions(ctx context.Context) error {
	existing, err := s.store.ListQuestions(ctx, &store.FindQuestion{})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	for _, question := range defaultQuestions {
		if _, err := s.store.CreateQuestion(ctx, question); err != nil {
			return err
		}
	}
	slog.Info("seeded starter question bank", "count", len(defaultQuestions))
	return nil
}
