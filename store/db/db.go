// Package db provides the database driver factory.
package db

import (
	"github.com/pkg/errors"

	"github.com/hrygo/quizflow/internal/profile"
	"github.com/hrygo/quizflow/store"
	"github.com/hrygo/quizflow/store/db/postgres"
	"github.com/hrygo/quizflow/store/db/sqlite"
)

// NewDBDriver creates a new db driver based on profile.
// PostgreSQL is the production driver (pgvector-backed retrieval);
// SQLite serves development and testing.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "sqlite":
		driver, err = sqlite.NewDB(profile)
	case "postgres":
		driver, err = postgres.NewDB(profile)
	default:
		return nil, errors.Errorf("unknown db driver: %s (only 'postgres' and 'sqlite' are supported)", profile.Driver)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
