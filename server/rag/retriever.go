package rag

import (
	"context"

	"github.com/hrygo/quizflow/plugin/ai"
	"github.com/hrygo/quizflow/store"
)

// EmbeddingService is the slice of the AI provider the retriever needs.
type EmbeddingService interface {
	Embedding(ctx context.Context, text string, mode ai.EmbeddingMode) ([]float32, error)
}

// ChunkSearcher is the slice of the store the retriever needs.
type ChunkSearcher interface {
	SearchNoteChunks(ctx context.Context, embedding []float32, limit int) ([]*store.NoteChunk, error)
}

// Retriever embeds a topic query and fetches the nearest note chunks.
type Retriever struct {
	embedding EmbeddingService
	searcher  ChunkSearcher
}

// NewRetriever creates a retriever over the given embedding service and
// chunk store.
func NewRetriever(embedding EmbeddingService, searcher ChunkSearcher) *Retriever {
	return &Retriever{embedding: embedding, searcher: searcher}
}

// Retrieve returns the contents of the top-k chunks nearest to the topic,
// ranked nearest first. The topic is embedded in query mode; chunks are
// embedded in document mode at ingestion, and the asymmetry matters for
// retrieval-tuned models. An empty content store yields an empty slice.
func (r *Retriever) Retrieve(ctx context.Context, topic string, limit int) ([]string, error) {
	vector, err := r.embedding.Embedding(ctx, topic, ai.EmbeddingModeQuery)
	if err != nil {
		return nil, err
	}

	chunks, err := r.searcher.SearchNoteChunks(ctx, vector, limit)
	if err != nil {
		return nil, err
	}

	contents := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		contents = append(contents, chunk.Content)
	}
	return contents, nil
}
