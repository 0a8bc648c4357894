package store

import "context"

// Note is an ingested knowledge-base document.
type Note struct {
	ID        int32
	Title     string
	Topic     string
	CreatedTs int64
}

// NoteChunk is a bounded-length slice of ingested note text stored with its
// embedding for nearest-neighbor retrieval. All embeddings must share the
// same dimension and embedding model; mixing models invalidates distance
// comparisons.
type NoteChunk struct {
	ID         int32
	NoteID     int32
	ChunkIndex int
	Content    string
	// Embedding is nil until the embedding runner has processed the chunk.
	Embedding []float32
	CreatedTs int64
}

func (s *Store) CreateNote(ctx context.Context, create *Note) (*Note, error) {
	return s.driver.CreateNote(ctx, create)
}

func (s *Store) CreateNoteChunk(ctx context.Context, create *NoteChunk) (*NoteChunk, error) {
	return s.driver.CreateNoteChunk(ctx, create)
}

// SearchNoteChunks returns up to limit chunks ranked by cosine distance to
// the query embedding, nearest first. An empty content store yields an empty
// slice, not an error.
func (s *Store) SearchNoteChunks(ctx context.Context, embedding []float32, limit int) ([]*NoteChunk, error) {
	return s.driver.SearchNoteChunks(ctx, embedding, limit)
}

// FindNoteChunksWithoutEmbedding returns chunks pending embedding.
func (s *Store) FindNoteChunksWithoutEmbedding(ctx context.Context, limit int) ([]*NoteChunk, error) {
	return s.driver.FindNoteChunksWithoutEmbedding(ctx, limit)
}

// UpdateNoteChunkEmbedding stores the embedding vector for a chunk.
func (s *Store) UpdateNoteChunkEmbedding(ctx context.Context, id int32, embedding []float32) error {
	return s.driver.UpdateNoteChunkEmbedding(ctx, id, embedding)
}
