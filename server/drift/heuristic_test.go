package drift

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hrygo/quizflow/store"
)

func attempt(correct bool, difficulty store.Difficulty, seconds int) *store.Attempt {
	return &store.Attempt{IsCorrect: correct, Difficulty: difficulty, TimeTakenSeconds: seconds}
}

func reverse(window []*store.Attempt) []*store.Attempt {
	out := make([]*store.Attempt, len(window))
	for i, a := range window {
		out[len(window)-1-i] = a
	}
	return out
}

func TestEvaluateWindowEmpty(t *testing.T) {
	result := EvaluateWindow(nil)
	assert.False(t, result.Drift)
	assert.Equal(t, ReasonInsufficientData, result.Reason)
}

func TestEvaluateWindowSingleAttemptNoDrift(t *testing.T) {
	// Fewer than 2 attempts can never trip the consecutive-error rule.
	result := EvaluateWindow([]*store.Attempt{attempt(false, store.DifficultyMedium, 30)})
	assert.False(t, result.Drift)
}

func TestEvaluateWindowConsecutiveErrors(t *testing.T) {
	window := []*store.Attempt{
		attempt(true, store.DifficultyMedium, 20),
		attempt(false, store.DifficultyMedium, 20),
		attempt(false, store.DifficultyHard, 20),
		attempt(true, store.DifficultyMedium, 20),
	}
	result := EvaluateWindow(window)
	assert.True(t, result.Drift)
	assert.Equal(t, reasonConsecutiveErrors, result.Reason)
}

func TestEvaluateWindowErrorsSeparatedByCorrect(t *testing.T) {
	window := []*store.Attempt{
		attempt(false, store.DifficultyMedium, 20),
		attempt(true, store.DifficultyMedium, 20),
		attempt(false, store.DifficultyMedium, 20),
	}
	result := EvaluateWindow(window)
	assert.False(t, result.Drift)
}

func TestEvaluateWindowSlowEasyQuestion(t *testing.T) {
	// One correct, one incorrect, zero consecutive errors; the easy attempt
	// at 61 seconds still fires the slow-easy rule.
	window := []*store.Attempt{
		attempt(true, store.DifficultyEasy, 61),
		attempt(false, store.DifficultyMedium, 20),
	}
	result := EvaluateWindow(window)
	assert.True(t, result.Drift)
	assert.Equal(t, reasonSlowEasyQuestion, result.Reason)
}

func TestEvaluateWindowSlowEasyBoundary(t *testing.T) {
	// Exactly 60 seconds does not fire.
	window := []*store.Attempt{
		attempt(true, store.DifficultyEasy, 60),
		attempt(true, store.DifficultyMedium, 20),
	}
	assert.False(t, EvaluateWindow(window).Drift)
}

func TestEvaluateWindowConsecutiveErrorsTakePriority(t *testing.T) {
	window := []*store.Attempt{
		attempt(false, store.DifficultyEasy, 90),
		attempt(false, store.DifficultyEasy, 90),
	}
	result := EvaluateWindow(window)
	assert.True(t, result.Drift)
	assert.Equal(t, reasonConsecutiveErrors, result.Reason)
}

func TestEvaluateWindowTraversalSymmetry(t *testing.T) {
	// The verdict must not depend on whether the window is newest-first or
	// oldest-first.
	windows := [][]*store.Attempt{
		{
			attempt(true, store.DifficultyMedium, 20),
			attempt(false, store.DifficultyMedium, 20),
			attempt(false, store.DifficultyMedium, 20),
		},
		{
			attempt(false, store.DifficultyMedium, 20),
			attempt(true, store.DifficultyMedium, 20),
			attempt(false, store.DifficultyMedium, 20),
		},
		{
			attempt(true, store.DifficultyEasy, 61),
			attempt(true, store.DifficultyMedium, 20),
		},
	}
	for _, window := range windows {
		forward := EvaluateWindow(window)
		backward := EvaluateWindow(reverse(window))
		assert.Equal(t, forward.Drift, backward.Drift)
	}
}
