package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"math"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/quizflow/store"
)

func (d *DB) CreateNote(ctx context.Context, create *store.Note) (*store.Note, error) {
	if create.CreatedTs == 0 {
		create.CreatedTs = time.Now().Unix()
	}

	stmt := `
		INSERT INTO note (title, topic, created_ts)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	if err := d.db.QueryRowContext(ctx, stmt, create.Title, create.Topic, create.CreatedTs).Scan(&create.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create note")
	}
	return create, nil
}

func (d *DB) CreateNoteChunk(ctx context.Context, create *store.NoteChunk) (*store.NoteChunk, error) {
	if create.CreatedTs == 0 {
		create.CreatedTs = time.Now().Unix()
	}

	var embedding any
	if create.Embedding != nil {
		raw, err := json.Marshal(create.Embedding)
		if err != nil {
			return nil, errors.Wrap(err, "failed to encode embedding")
		}
		embedding = string(raw)
	}

	stmt := `
		INSERT INTO note_chunk (note_id, chunk_index, content, embedding, created_ts)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.NoteID,
		create.ChunkIndex,
		create.Content,
		embedding,
		create.CreatedTs,
	).Scan(&create.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create note chunk")
	}
	return create, nil
}

// SearchNoteChunks ranks all embedded chunks by cosine distance in memory.
// SQLite has no vector index; acceptable for the dev/test chunk volumes.
func (d *DB) SearchNoteChunks(ctx context.Context, embedding []float32, limit int) ([]*store.NoteChunk, error) {
	chunks, err := d.listChunks(ctx, `embedding IS NOT NULL ORDER BY id`, nil)
	if err != nil {
		return nil, err
	}

	distances := make(map[int32]float64, len(chunks))
	for _, chunk := range chunks {
		distances[chunk.ID] = cosineDistance(embedding, chunk.Embedding)
	}
	// Stable keeps natural storage order for equal distances.
	sort.SliceStable(chunks, func(i, j int) bool {
		return distances[chunks[i].ID] < distances[chunks[j].ID]
	})

	if limit > 0 && len(chunks) > limit {
		chunks = chunks[:limit]
	}
	return chunks, nil
}

func (d *DB) FindNoteChunksWithoutEmbedding(ctx context.Context, limit int) ([]*store.NoteChunk, error) {
	if limit <= 0 {
		limit = 100
	}
	return d.listChunks(ctx, `embedding IS NULL ORDER BY id LIMIT `+placeholder(1), []any{limit})
}

func (d *DB) UpdateNoteChunkEmbedding(ctx context.Context, id int32, embedding []float32) error {
	raw, err := json.Marshal(embedding)
	if err != nil {
		return errors.Wrap(err, "failed to encode embedding")
	}
	result, err := d.db.ExecContext(ctx, `UPDATE note_chunk SET embedding = $1 WHERE id = $2`, string(raw), id)
	if err != nil {
		return errors.Wrap(err, "failed to update note chunk embedding")
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return errors.Errorf("note chunk %d not found", id)
	}
	return nil
}

func (d *DB) listChunks(ctx context.Context, condition string, args []any) ([]*store.NoteChunk, error) {
	query := `
		SELECT id, note_id, chunk_index, content, embedding, created_ts
		FROM note_chunk
		WHERE ` + condition
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list note chunks")
	}
	defer rows.Close()

	list := []*store.NoteChunk{}
	for rows.Next() {
		var chunk store.NoteChunk
		var embedding sql.NullString
		if err := rows.Scan(
			&chunk.ID,
			&chunk.NoteID,
			&chunk.ChunkIndex,
			&chunk.Content,
			&embedding,
			&chunk.CreatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan note chunk")
		}
		if embedding.Valid {
			if err := json.Unmarshal([]byte(embedding.String), &chunk.Embedding); err != nil {
				return nil, errors.Wrap(err, "failed to decode embedding")
			}
		}
		list = append(list, &chunk)
	}
	return list, rows.Err()
}

// cosineDistance returns 1 - cosine similarity. Mismatched or zero vectors
// rank last.
func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 2
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 2
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
