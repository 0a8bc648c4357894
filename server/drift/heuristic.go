// Package drift detects declines in learner performance over a short window
// of recent attempts. The heuristic evaluator is the deterministic baseline;
// the AI classifier layers an external call on top and always degrades back
// to the heuristic on failure.
package drift

import (
	"github.com/hrygo/quizflow/store"
)

// Result is a drift verdict with a human-readable reason.
type Result struct {
	Drift  bool   `json:"driftDetected"`
	Reason string `json:"reason"`
}

const (
	// ReasonInsufficientData is returned for windows too short to judge.
	ReasonInsufficientData = "insufficient data"

	reasonConsecutiveErrors = "consecutive errors"
	reasonSlowEasyQuestion  = "slow on easy question"
	reasonNoDrift           = "no drift detected"

	// consecutiveErrorThreshold is the run of incorrect answers that counts
	// as drift.
	consecutiveErrorThreshold = 2
	// slowEasySeconds is the time budget for an easy question.
	slowEasySeconds = 60
)

// EvaluateWindow applies the heuristic drift rule to a window of recent
// attempts. Drift fires on a run of 2+ consecutive incorrect answers
// anywhere in the window, or on any easy question that took longer than 60
// seconds. The consecutive-error rule is symmetric in traversal order, so
// the window may be supplied newest-first or oldest-first.
func EvaluateWindow(window []*store.Attempt) Result {
	if len(window) == 0 {
		return Result{Drift: false, Reason: ReasonInsufficientData}
	}

	consecutive := 0
	maxConsecutive := 0
	slowEasy := false
	for _, attempt := range window {
		if attempt.IsCorrect {
			consecutive = 0
		} else {
			consecutive++
			if consecutive > maxConsecutive {
				maxConsecutive = consecutive
			}
		}
		if attempt.Difficulty == store.DifficultyEasy && attempt.TimeTakenSeconds > slowEasySeconds {
			slowEasy = true
		}
	}

	// Consecutive errors take priority over the slow-easy rule when both fire.
	if maxConsecutive >= consecutiveErrorThreshold {
		return Result{Drift: true, Reason: reasonConsecutiveErrors}
	}
	if slowEasy {
		return Result{Drift: true, Reason: reasonSlowEasyQuestion}
	}
	return Result{Drift: false, Reason: reasonNoDrift}
}
