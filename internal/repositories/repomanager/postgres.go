package repomanager

import (
	"context"
	"database/sql"

	"github.com/avolkovs/paintrack/internal/dbx"
	pgmigrations "github.com/avolkovs/paintrack/internal/migrations/postgres"
	"github.com/avolkovs/paintrack/internal/repositories/miniatures"
	"github.com/avolkovs/paintrack/internal/repositories/photos"
	"github.com/avolkovs/paintrack/internal/repositories/projects"
	"github.com/avolkovs/paintrack/internal/repositories/recipes"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository
// implementations and runs the PostgreSQL migration history.
type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Projects(db dbx.DBTX) projects.Repository {
	return projects.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Miniatures(db dbx.DBTX) miniatures.Repository {
	return miniatures.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Photos(db dbx.DBTX) photos.Repository {
	return photos.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Recipes(db dbx.DBTX) recipes.Repository {
	return recipes.NewPostgresRepository(db)
}

// RunMigrations applies the embedded migrations. Goose tracks applied
// versions in its own table, so repeated startup is safe.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(pgmigrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}
