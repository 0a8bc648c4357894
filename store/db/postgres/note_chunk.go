package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/pgvector/pgvector-go"
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
		embedding = pgvector.NewVector(create.Embedding)
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

// SearchNoteChunks performs vector similarity search using pgvector.
// The <=> operator computes cosine distance, so ordering ascending returns
// the nearest chunks first; id breaks ties to keep storage order stable.
func (d *DB) SearchNoteChunks(ctx context.Context, embedding []float32, limit int) ([]*store.NoteChunk, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT id, note_id, chunk_index, content, embedding, created_ts
		FROM note_chunk
		WHERE embedding IS NOT NULL
		ORDER BY embedding <=> $1, id
		LIMIT $2
	`
	vector := pgvector.NewVector(embedding)
	rows, err := d.db.QueryContext(ctx, query, vector, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to search note chunks")
	}
	defer rows.Close()

	return scanChunks(rows)
}

func (d *DB) FindNoteChunksWithoutEmbedding(ctx context.Context, limit int) ([]*store.NoteChunk, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, note_id, chunk_index, content, embedding, created_ts
		FROM note_chunk
		WHERE embedding IS NULL
		ORDER BY id
		LIMIT $1
	`
	rows, err := d.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find note chunks without embedding")
	}
	defer rows.Close()

	return scanChunks(rows)
}

func (d *DB) UpdateNoteChunkEmbedding(ctx context.Context, id int32, embedding []float32) error {
	vector := pgvector.NewVector(embedding)
	result, err := d.db.ExecContext(ctx, `UPDATE note_chunk SET embedding = $1 WHERE id = $2`, vector, id)
	if err != nil {
		return errors.Wrap(err, "failed to update note chunk embedding")
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return errors.Errorf("note chunk %d not found", id)
	}
	return nil
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanChunks(rows rowScanner) ([]*store.NoteChunk, error) {
	list := []*store.NoteChunk{}
	for rows.Next() {
		var chunk store.NoteChunk
		var raw sql.NullString
		if err := rows.Scan(
			&chunk.ID,
			&chunk.NoteID,
			&chunk.ChunkIndex,
			&chunk.Content,
			&raw,
			&chunk.CreatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan note chunk")
		}
		if raw.Valid {
			var vector pgvector.Vector
			if err := vector.Scan(raw.String); err != nil {
				return nil, errors.Wrap(err, "failed to parse embedding")
			}
			chunk.Embedding = vector.Slice()
		}
		list = append(list, &chunk)
	}
	return list, rows.Err()
}
