// Package rag generates study-note-grounded explanations for incorrect
// answers. The pipeline is cache, retrieve, generate, with a degraded
// rendering of the raw chunks when generation is rate limited.
package rag

import (
	"context"
	"strings"

	qerrors "github.com/hrygo/quizflow/internal/errors"
)

const (
	// noNotesMessage is returned when the content store has nothing relevant.
	// It is never cached: ingesting notes should take effect immediately.
	noNotesMessage = "I couldn't find any study notes on this topic yet. Ask your teacher to add some!"

	// fallbackHeader prefixes the raw-chunk rendering used when generation
	// stays rate limited.
	fallbackHeader = "Here are key notes to review:"

	// fallbackChunkCount is how many retrieved chunks the degraded rendering
	// includes.
	fallbackChunkCount = 2
)

// Orchestrator runs the explanation pipeline for a topic.
type Orchestrator struct {
	cache     *ExplanationCache
	retriever *Retriever
	generator *Generator
	topK      int
}

// NewOrchestrator wires the pipeline stages together. topK is the number of
// chunks retrieved per explanation.
func NewOrchestrator(cache *ExplanationCache, retriever *Retriever, generator *Generator, topK int) *Orchestrator {
	return &Orchestrator{
		cache:     cache,
		retriever: retriever,
		generator: generator,
		topK:      topK,
	}
}

// Explain returns an explanation for a failed attempt on the topic. Results
// are cached per topic; the degraded rate-limit rendering is cached too, so
// a rate-limited upstream is not hammered again for the same topic within
// the cooldown. Retrieval and non-429 generation errors propagate to the
// caller, which owns the generic-message fallback.
func (o *Orchestrator) Explain(ctx context.Context, topic, userAnswer string) (string, error) {
	if text, ok := o.cache.Get(topic); ok {
		return text, nil
	}

	chunks, err := o.retriever.Retrieve(ctx, topic, o.topK)
	if err != nil {
		return "", err
	}
	if len(chunks) == 0 {
		return noNotesMessage, nil
	}

	text, err := o.generator.Generate(ctx, topic, userAnswer, chunks)
	if err != nil {
		if qerrors.IsCode(err, qerrors.ErrCodeRateLimitExceeded) {
			text = renderFallback(chunks)
			o.cache.Set(topic, text)
			return text, nil
		}
		return "", err
	}

	o.cache.Set(topic, text)
	return text, nil
}

func renderFallback(chunks []string) string {
	if len(chunks) > fallbackChunkCount {
		chunks = chunks[:fallbackChunkCount]
	}
	return fallbackHeader + "\n\n" + strings.Join(chunks, "\n\n")
}
