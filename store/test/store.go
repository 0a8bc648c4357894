// Package test provides store helpers for tests.
package test

import (
	"context"
	"testing"

	"github.com/hrygo/quizflow/internal/profile"
	"github.com/hrygo/quizflow/store"
	"github.com/hrygo/quizflow/store/db"
)

// NewTestingStore creates a SQLite-backed store in a temporary directory.
func NewTestingStore(ctx context.Context, t *testing.T) *store.Store {
	t.Helper()

	p := &profile.Profile{
		Mode:           "dev",
		Driver:         "sqlite",
		DSN:            t.TempDir() + "/quizflow_test.db",
		AIEmbeddingDim: 4,
		RAGTopK:        3,
	}
	driver, err := db.NewDBDriver(p)
	if err != nil {
		t.Fatalf("failed to create testing db driver: %v", err)
	}

	ts := store.New(driver, p)
	t.Cleanup(func() {
		_ = ts.Close()
	})
	return ts
}
