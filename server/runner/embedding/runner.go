// Package embedding backfills vectors for note chunks ingested before the
// AI provider was reachable, or whose embedding call failed at ingestion.
package embedding

import (
	"context"
	"log/slog"
	"time"

	"github.com/hrygo/quizflow/plugin/ai"
	qerrors "github.com/hrygo/quizflow/internal/errors"
	"github.com/hrygo/quizflow/store"
)

// EmbeddingService is the slice of the AI provider the runner needs.
type EmbeddingService interface {
	IsConfigured() bool
	Embedding(ctx context.Context, text string, mode ai.EmbeddingMode) ([]float32, error)
}

// Runner periodically embeds note chunks that have no vector yet.
type Runner struct {
	store     *store.Store
	embedding EmbeddingService
	interval  time.Duration
	batchSize int
}

// NewRunner creates an embedding backfill runner.
func NewRunner(st *store.Store, embedding EmbeddingService) *Runner {
	return &Runner{
		store:     st,
		embedding: embedding,
		interval:  2 * time.Minute,
		batchSize: 16,
	}
}

// Run processes once at startup, then on every tick until the context ends.
func (r *Runner) Run(ctx context.Context) {
	r.RunOnce(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.RunOnce(ctx)
		case <-ctx.Done():
			slog.Info("embedding runner stopped")
			return
		}
	}
}

// RunOnce embeds one batch of pending chunks. Chunk content is embedded in
// document mode; queries use query mode at retrieval time.
func (r *Runner) RunOnce(ctx context.Context) {
	if r.embedding == nil || !r.embedding.IsConfigured() {
		return
	}

	chunks, err := r.store.FindNoteChunksWithoutEmbedding(ctx, r.batchSize)
	if err != nil {
		slog.Error("failed to list chunks pending embedding", "error", err)
		return
	}
	if len(chunks) == 0 {
		return
	}

	slog.Info("embedding pending note chunks", "count", len(chunks))
	for _, chunk := range chunks {
		select {
		case <-ctx.Done():
			return
		default:
		}

		vector, err := r.embedding.Embedding(ctx, chunk.Content, ai.EmbeddingModeDocument)
		if err != nil {
			slog.Error("failed to embed chunk", "chunk_id", chunk.ID, "error", err)
			if qerrors.IsCode(err, qerrors.ErrCodeRateLimitExceeded) {
				// The rest of the batch would hit the same limit; the next
				// tick retries.
				return
			}
			continue
		}
		if err := r.store.UpdateNoteChunkEmbedding(ctx, chunk.ID, vector); err != nil {
			slog.Error("failed to store chunk embedding", "chunk_id", chunk.ID, "error", err)
		}
	}
}
