// Package postgres implements the store driver for PostgreSQL.
//
// PostgreSQL is the reference implementation for production: vector search
// runs on the pgvector extension with an index-backed cosine distance
// operator.
package postgres

import (
	"database/sql"
	"fmt"
	"time"

	// Import the PostgreSQL driver.
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/hrygo/quizflow/internal/profile"
	"github.com/hrygo/quizflow/store"
)

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

const schemaTemplate = `
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS "user" (
	id SERIAL PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	skill DOUBLE PRECISION NOT NULL DEFAULT 0.5,
	drift_detected BOOLEAN NOT NULL DEFAULT FALSE,
	created_ts BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())
);

CREATE TABLE IF NOT EXISTS question (
	id SERIAL PRIMARY KEY,
	topic TEXT NOT NULL,
	difficulty TEXT NOT NULL,
	text TEXT NOT NULL,
	answer TEXT NOT NULL,
	created_ts BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())
);

CREATE TABLE IF NOT EXISTS attempt (
	id SERIAL PRIMARY KEY,
	user_id INTEGER NOT NULL,
	question_id INTEGER NOT NULL,
	user_answer TEXT NOT NULL,
	is_correct BOOLEAN NOT NULL DEFAULT FALSE,
	time_taken_seconds INTEGER NOT NULL DEFAULT 0,
	explanation TEXT NOT NULL DEFAULT '',
	created_ts BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())
);
CREATE INDEX IF NOT EXISTS idx_attempt_user_created ON attempt (user_id, created_ts DESC);

CREATE TABLE IF NOT EXISTS note (
	id SERIAL PRIMARY KEY,
	title TEXT NOT NULL,
	topic TEXT NOT NULL DEFAULT '',
	created_ts BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())
);

CREATE TABLE IF NOT EXISTS note_chunk (
	id SERIAL PRIMARY KEY,
	note_id INTEGER NOT NULL,
	chunk_index INTEGER NOT NULL DEFAULT 0,
	content TEXT NOT NULL,
	embedding vector(%d),
	created_ts BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())
);
`

// NewDB opens a PostgreSQL connection and bootstraps the schema.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile == nil {
		return nil, errors.New("profile is nil")
	}

	db, err := sql.Open("postgres", profile.DSN)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database: %s", profile.DSN)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(2 * time.Hour)
	db.SetConnMaxIdleTime(15 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	// The vector column dimension is fixed at startup; all embeddings must
	// share it and the same embedding model.
	if _, err := db.Exec(fmt.Sprintf(schemaTemplate, profile.AIEmbeddingDim)); err != nil {
		return nil, errors.Wrap(err, "failed to bootstrap schema")
	}

	return &DB{db: db, profile: profile}, nil
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}
