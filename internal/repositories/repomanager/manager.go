// Package repomanager selects the relational engine once at startup and
// vends repository implementations plus the schema migration hook for it.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avolkovs/paintrack/internal/dbx"
	"github.com/avolkovs/paintrack/internal/repositories/miniatures"
	"github.com/avolkovs/paintrack/internal/repositories/photos"
	"github.com/avolkovs/paintrack/internal/repositories/projects"
	"github.com/avolkovs/paintrack/internal/repositories/recipes"
)

// Engine names accepted by New and Open.
const (
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

// RepositoryManager vends engine-specific repositories bound to the provided
// DBTX and exposes a schema migration hook. Repositories obtained from the
// same DBTX share its transaction.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Projects(db dbx.DBTX) projects.Repository
	Miniatures(db dbx.DBTX) miniatures.Repository
	Photos(db dbx.DBTX) photos.Repository
	Recipes(db dbx.DBTX) recipes.Repository
}

// New returns the manager for the configured engine.
func New(engine string) (RepositoryManager, error) {
	switch engine {
	case EnginePostgres:
		return &PostgresRepositoryManager{}, nil
	case EngineSQLite:
		return &SQLiteRepositoryManager{}, nil
	}
	return nil, fmt.Errorf("unknown database engine %q", engine)
}

// Open opens the connection pool for the configured engine. SQLite
// connections get foreign keys enforced, matching the cascades declared in
// the schema.
func Open(engine, dsn string) (*sql.DB, error) {
	switch engine {
	case EnginePostgres:
		db, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("db open error: %w", err)
		}
		return db, nil
	case EngineSQLite:
		db, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("db open error: %w", err)
		}
		if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
		return db, nil
	}
	return nil, fmt.Errorf("unknown database engine %q", engine)
}
