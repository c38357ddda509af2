package projects

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/avolkovs/paintrack/internal/common"
	"github.com/avolkovs/paintrack/internal/dbx"
	"github.com/avolkovs/paintrack/internal/models"
)

// SQLiteRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
// Timestamps are stored as fixed-width UTC text so lexical index order equals
// chronological order.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository constructs a repository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, p *models.Project) error {
	query := `
		INSERT INTO projects (id, name, game_system, army, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, string(p.GameSystem), p.Army, p.Description,
		dbx.FormatTime(p.CreatedAt), dbx.FormatTime(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	query := `
		SELECT id, name, game_system, army, description, created_at, updated_at
		FROM projects WHERE id=?
	`
	row := r.db.QueryRowContext(ctx, query, id)

	p, err := scanProject(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan project: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) List(ctx context.Context, filter Filter) ([]*models.Project, error) {
	query := `
		SELECT id, name, game_system, army, description, created_at, updated_at
		FROM projects
	`
	var args []any
	if filter.GameSystem != nil {
		query += ` WHERE game_system=?`
		args = append(args, string(*filter.GameSystem))
	}
	query += ` ORDER BY game_system, army, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select projects: %w", err)
	}
	defer rows.Close()

	var result []*models.Project
	for rows.Next() {
		p, err := scanProject(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, p *models.Project, expectedUpdatedAt time.Time) error {
	query := `
		UPDATE projects
		SET name=?, game_system=?, army=?, description=?, updated_at=?
		WHERE id=? AND updated_at=?
	`
	res, err := r.db.ExecContext(ctx, query,
		p.Name, string(p.GameSystem), p.Army, p.Description,
		dbx.FormatTime(p.UpdatedAt), p.ID, dbx.FormatTime(expectedUpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 1 {
		return nil
	}
	if _, err := r.GetByID(ctx, p.ID); err != nil {
		return err
	}
	return common.ErrConflict
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func scanProject(scan func(dest ...any) error) (*models.Project, error) {
	p := &models.Project{}
	var gs, created, updated string
	if err := scan(&p.ID, &p.Name, &gs, &p.Army, &p.Description, &created, &updated); err != nil {
		return nil, err
	}
	p.GameSystem = models.GameSystem(gs)

	var err error
	if p.CreatedAt, err = dbx.ParseTime(created); err != nil {
		return nil, fmt.Errorf("bad created_at: %w", err)
	}
	if p.UpdatedAt, err = dbx.ParseTime(updated); err != nil {
		return nil, fmt.Errorf("bad updated_at: %w", err)
	}
	return p, nil
}
