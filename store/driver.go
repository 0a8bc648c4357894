package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that a store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	// User model related methods.
	CreateUser(ctx context.Context, create *User) (*User, error)
	ListUsers(ctx context.Context, find *FindUser) ([]*User, error)
	UpdateUser(ctx context.Context, update *UpdateUser) (*User, error)

	// Question model related methods.
	CreateQuestion(ctx context.Context, create *Question) (*Question, error)
	ListQuestions(ctx context.Context, find *FindQuestion) ([]*Question, error)
	DeleteQuestion(ctx context.Context, delete *DeleteQuestion) error

	// Attempt model related methods. The attempt log is append-only.
	CreateAttempt(ctx context.Context, create *Attempt) (*Attempt, error)
	ListAttempts(ctx context.Context, find *FindAttempt) ([]*Attempt, error)
	ListTopicMastery(ctx context.Context, userID int32) ([]*TopicMastery, error)

	// Note and chunk model related methods.
	CreateNote(ctx context.Context, create *Note) (*Note, error)
	CreateNoteChunk(ctx context.Context, create *NoteChunk) (*NoteChunk, error)

	// SearchNoteChunks ranks stored chunks by cosine distance to the query
	// embedding and returns the nearest limit chunks.
	SearchNoteChunks(ctx context.Context, embedding []float32, limit int) ([]*NoteChunk, error)
	FindNoteChunksWithoutEmbedding(ctx context.Context, limit int) ([]*NoteChunk, error)
	UpdateNoteChunkEmbedding(ctx context.Context, id int32, embedding []float32) error
}
