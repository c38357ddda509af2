package repomanager

import (
	"context"
	"database/sql"

	"github.com/avolkovs/paintrack/internal/dbx"
	litemigrations "github.com/avolkovs/paintrack/internal/migrations/sqlite"
	"github.com/avolkovs/paintrack/internal/repositories/miniatures"
	"github.com/avolkovs/paintrack/internal/repositories/photos"
	"github.com/avolkovs/paintrack/internal/repositories/projects"
	"github.com/avolkovs/paintrack/internal/repositories/recipes"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// SQLiteRepositoryManager vends SQLite-backed repository implementations and
// runs the SQLite migration history.
type SQLiteRepositoryManager struct{}

func (m *SQLiteRepositoryManager) Projects(db dbx.DBTX) projects.Repository {
	return projects.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Miniatures(db dbx.DBTX) miniatures.Repository {
	return miniatures.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Photos(db dbx.DBTX) photos.Repository {
	return photos.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Recipes(db dbx.DBTX) recipes.Repository {
	return recipes.NewSQLiteRepository(db)
}

// RunMigrations applies the embedded migrations. Goose tracks applied
// versions in its own table, so repeated startup is safe.
func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(litemigrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}
