package miniatures

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

func (r *PostgresRepository) Insert(ctx context.Context, m *models.Miniature) error {
	query := `
		INSERT INTO miniatures (id, project_id, name, miniature_type, progress_status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		m.ID, m.ProjectID, m.Name, string(m.MiniatureType), string(m.ProgressStatus),
		m.Notes, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert miniature: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Miniature, error) {
	query := `
		SELECT id, project_id, name, miniature_type, progress_status, notes, created_at, updated_at
		FROM miniatures WHERE id=$1
	`
	row := r.db.QueryRowContext(ctx, query, id)

	m := &models.Miniature{}
	var mt, ps string
	err := row.Scan(&m.ID, &m.ProjectID, &m.Name, &mt, &ps, &m.Notes, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan miniature: %w", err)
	}
	m.MiniatureType = models.MiniatureType(mt)
	m.ProgressStatus = models.ProgressStatus(ps)
	return m, nil
}

func (r *PostgresRepository) ListByProject(ctx context.Context, projectID string) ([]*models.Miniature, error) {
	query := `
		SELECT id, project_id, name, miniature_type, progress_status, notes, created_at, updated_at
		FROM miniatures WHERE project_id=$1
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to select miniatures: %w", err)
	}
	defer rows.Close()

	var result []*models.Miniature
	for rows.Next() {
		m := &models.Miniature{}
		var mt, ps string
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.Name, &mt, &ps, &m.Notes, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		m.MiniatureType = models.MiniatureType(mt)
		m.ProgressStatus = models.ProgressStatus(ps)
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, m *models.Miniature, expectedUpdatedAt time.Time) error {
	query := `
		UPDATE miniatures
		SET name=$1, miniature_type=$2, progress_status=$3, notes=$4, updated_at=$5
		WHERE id=$6 AND updated_at=$7
	`
	res, err := r.db.ExecContext(ctx, query,
		m.Name, string(m.MiniatureType), string(m.ProgressStatus), m.Notes,
		m.UpdatedAt, m.ID, expectedUpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update miniature: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 1 {
		return nil
	}
	if _, err := r.GetByID(ctx, m.ID); err != nil {
		return err
	}
	return common.ErrConflict
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM miniatures WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete miniature: %w", err)
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

func (r *PostgresRepository) DeleteByProject(ctx context.Context, projectID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM miniatures WHERE project_id=$1`, projectID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete miniatures: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
