package drift

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	qerrors "github.com/hrygo/quizflow/internal/errors"
	"github.com/hrygo/quizflow/store"
)

// CompletionService is the slice of the AI provider the classifier needs.
type CompletionService interface {
	IsConfigured() bool
	Complete(ctx context.Context, prompt string) (string, error)
}

// Classifier asks the generation model for a drift verdict, bounded by a
// per-user cooldown. Every failure mode except rate limiting degrades to
// EvaluateWindow; rate limiting is surfaced so the caller can apply its own
// fallback policy.
type Classifier struct {
	completion CompletionService
	cooldown   time.Duration

	mu       sync.Mutex
	lastCall map[int32]time.Time

	now func() time.Time
}

// NewClassifier creates a drift classifier with the given per-user cooldown.
func NewClassifier(completion CompletionService, cooldown time.Duration) *Classifier {
	return &Classifier{
		completion: completion,
		cooldown:   cooldown,
		lastCall:   make(map[int32]time.Time),
		now:        time.Now,
	}
}

// Classify returns a drift verdict for the user's recent attempt window.
// A rate-limited upstream returns a RATE_LIMIT_EXCEEDED error and no result;
// the caller decides the fallback. All other upstream failures are absorbed
// here by delegating to the heuristic.
func (c *Classifier) Classify(ctx context.Context, userID int32, window []*store.Attempt) (Result, error) {
	if len(window) == 0 {
		return Result{Drift: false, Reason: ReasonInsufficientData}, nil
	}
	if c.completion == nil || !c.completion.IsConfigured() {
		return EvaluateWindow(window), nil
	}
	if !c.tryAcquire(userID) {
		return EvaluateWindow(window), nil
	}

	text, err := c.completion.Complete(ctx, buildPrompt(window))
	if err != nil {
		if qerrors.IsCode(err, qerrors.ErrCodeRateLimitExceeded) {
			return Result{}, err
		}
		slog.Warn("drift classification failed, using heuristic",
			"user_id", userID, "error", err)
		return EvaluateWindow(window), nil
	}

	result, ok := parseVerdict(text)
	if !ok {
		slog.Warn("drift classification returned malformed verdict, using heuristic",
			"user_id", userID)
		return EvaluateWindow(window), nil
	}
	return result, nil
}

// tryAcquire checks the per-user cooldown and stamps the call time before
// the network call is issued, so concurrent submissions from the same user
// cannot burst through. Races only affect cooldown precision.
func (c *Classifier) tryAcquire(userID int32) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if last, ok := c.lastCall[userID]; ok && now.Sub(last) < c.cooldown {
		return false
	}
	c.lastCall[userID] = now
	return true
}

type attemptLog struct {
	Correct          bool   `json:"correct"`
	Difficulty       string `json:"difficulty"`
	TimeTakenSeconds int    `json:"time_taken_seconds"`
}

func buildPrompt(window []*store.Attempt) string {
	logs := make([]attemptLog, len(window))
	for i, attempt := range window {
		logs[i] = attemptLog{
			Correct:          attempt.IsCorrect,
			Difficulty:       string(attempt.Difficulty),
			TimeTakenSeconds: attempt.TimeTakenSeconds,
		}
	}
	encoded, _ := json.Marshal(logs)

	var b strings.Builder
	b.WriteString("You are a strict evaluator for student skill drift.\n")
	b.WriteString("Drift is defined as 2+ consecutive errors OR taking >60s on an 'easy' question.\n")
	b.WriteString("Return ONLY valid JSON with keys drift_detected (boolean) and reason (string). No markdown.\n")
	b.WriteString("Logs: ")
	b.Write(encoded)
	return b.String()
}

// parseVerdict parses the model output defensively. A missing drift key or
// wrong-typed field collapses to a malformed verdict; the payload is never
// partially trusted.
func parseVerdict(text string) (Result, bool) {
	text = strings.TrimSpace(text)
	// Models sometimes fence the JSON despite instructions.
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var parsed struct {
		DriftDetected *bool  `json:"drift_detected"`
		Reason        string `json:"reason"`
	}
	if err := json.Unmarshal([]byte(text), &parsed); err != nil || parsed.DriftDetected == nil {
		return Result{}, false
	}
	return Result{Drift: *parsed.DriftDetected, Reason: parsed.Reason}, true
}
