package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	qerrors "github.com/hrygo/quizflow/internal/errors"
)

const (
	// generateMaxAttempts bounds the retry loop for rate-limited calls.
	generateMaxAttempts = 3

	// emptyGenerationMessage stands in when the model returns no content.
	emptyGenerationMessage = "I could not generate an explanation right now. Please review your notes on this topic."
)

// CompletionService is the slice of the AI provider the generator needs.
type CompletionService interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Generator produces a grounded explanation from retrieved note chunks.
// Rate limiting is the only retryable failure: each 429 backs off
// exponentially before the next attempt, and exhausting all attempts
// surfaces RATE_LIMIT_EXCEEDED to the caller. Any other upstream error is
// fatal to the call.
type Generator struct {
	completion CompletionService

	sleep func(time.Duration)
}

// NewGenerator creates a generator over the given completion service.
func NewGenerator(completion CompletionService) *Generator {
	return &Generator{
		completion: completion,
		sleep:      time.Sleep,
	}
}

// Generate asks the model to explain the topic using the retrieved chunks
// as grounding. The chunks must be non-empty; the caller handles the
// no-content case before generation.
func (g *Generator) Generate(ctx context.Context, topic, userAnswer string, chunks []string) (string, error) {
	prompt := buildGenerationPrompt(topic, userAnswer, chunks)

	for attempt := 0; attempt < generateMaxAttempts; attempt++ {
		text, err := g.completion.Complete(ctx, prompt)
		if err != nil {
			if !qerrors.IsCode(err, qerrors.ErrCodeRateLimitExceeded) {
				return "", err
			}
			if attempt == generateMaxAttempts-1 {
				return "", qerrors.Wrap(err, qerrors.ErrCodeRateLimitExceeded,
					"explanation generation rate limit exhausted")
			}
			delay := time.Duration(1<<attempt) * time.Second
			slog.Warn("explanation generation rate limited, backing off",
				"attempt", attempt+1, "delay", delay)
			g.sleep(delay)
			continue
		}
		if strings.TrimSpace(text) == "" {
			return emptyGenerationMessage, nil
		}
		return text, nil
	}
	// Unreachable; the loop always returns.
	return "", qerrors.RateLimitExceeded("explanation generation rate limit exhausted")
}

func buildGenerationPrompt(topic, userAnswer string, chunks []string) string {
	var b strings.Builder
	b.WriteString("The student failed a question on the topic '")
	b.WriteString(topic)
	b.WriteString("' and answered: '")
	b.WriteString(userAnswer)
	b.WriteString("'.\n")
	b.WriteString("Using ONLY the study notes below, explain the underlying concept simply and point out the likely misunderstanding. Keep it under 120 words.\n\n")
	for i, chunk := range chunks {
		fmt.Fprintf(&b, "Note %d: %s\n\n", i+1, chunk)
	}
	return b.String()
}
