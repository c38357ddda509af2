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

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, p *models.Project) error {
	query := `
		INSERT INTO projects (id, name, game_system, army, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, string(p.GameSystem), p.Army, p.Description, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	query := `
		SELECT id, name, game_system, army, description, created_at, updated_at
		FROM projects WHERE id=$1
	`
	row := r.db.QueryRowContext(ctx, query, id)

	p := &models.Project{}
	var gs string
	err := row.Scan(&p.ID, &p.Name, &gs, &p.Army, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan project: %w", err)
	}
	p.GameSystem = models.GameSystem(gs)
	return p, nil
}

func (r *PostgresRepository) List(ctx context.Context, filter Filter) ([]*models.Project, error) {
	query := `
		SELECT id, name, game_system, army, description, created_at, updated_at
		FROM projects
	`
	var args []any
	if filter.GameSystem != nil {
		query += ` WHERE game_system=$1`
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
		p := &models.Project{}
		var gs string
		if err := rows.Scan(&p.ID, &p.Name, &gs, &p.Army, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		p.GameSystem = models.GameSystem(gs)
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, p *models.Project, expectedUpdatedAt time.Time) error {
	query := `
		UPDATE projects
		SET name=$1, game_system=$2, army=$3, description=$4, updated_at=$5
		WHERE id=$6 AND updated_at=$7
	`
	res, err := r.db.ExecContext(ctx, query,
		p.Name, string(p.GameSystem), p.Army, p.Description, p.UpdatedAt, p.ID, expectedUpdatedAt)
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
	return r.missOrConflict(ctx, p.ID)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id=$1`, id)
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

// missOrConflict distinguishes a stale updated_at guard from a missing row.
func (r *PostgresRepository) missOrConflict(ctx context.Context, id string) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return common.ErrConflict
}
