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

// SQLiteRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository constructs a repository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, m *models.Miniature) error {
	query := `
		INSERT INTO miniatures (id, project_id, name, miniature_type, progress_status, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		m.ID, m.ProjectID, m.Name, string(m.MiniatureType), string(m.ProgressStatus),
		m.Notes, dbx.FormatTime(m.CreatedAt), dbx.FormatTime(m.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert miniature: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Miniature, error) {
	query := `
		SELECT id, project_id, name, miniature_type, progress_status, notes, created_at, updated_at
		FROM miniatures WHERE id=?
	`
	row := r.db.QueryRowContext(ctx, query, id)

	m, err := scanMiniature(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan miniature: %w", err)
	}
	return m, nil
}

func (r *SQLiteRepository) ListByProject(ctx context.Context, projectID string) ([]*models.Miniature, error) {
	query := `
		SELECT id, project_id, name, miniature_type, progress_status, notes, created_at, updated_at
		FROM miniatures WHERE project_id=?
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to select miniatures: %w", err)
	}
	defer rows.Close()

	var result []*models.Miniature
	for rows.Next() {
		m, err := scanMiniature(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, m *models.Miniature, expectedUpdatedAt time.Time) error {
	query := `
		UPDATE miniatures
		SET name=?, miniature_type=?, progress_status=?, notes=?, updated_at=?
		WHERE id=? AND updated_at=?
	`
	res, err := r.db.ExecContext(ctx, query,
		m.Name, string(m.MiniatureType), string(m.ProgressStatus), m.Notes,
		dbx.FormatTime(m.UpdatedAt), m.ID, dbx.FormatTime(expectedUpdatedAt))
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

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM miniatures WHERE id=?`, id)
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

func (r *SQLiteRepository) DeleteByProject(ctx context.Context, projectID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM miniatures WHERE project_id=?`, projectID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete miniatures: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

func scanMiniature(scan func(dest ...any) error) (*models.Miniature, error) {
	m := &models.Miniature{}
	var mt, ps, created, updated string
	if err := scan(&m.ID, &m.ProjectID, &m.Name, &mt, &ps, &m.Notes, &created, &updated); err != nil {
		return nil, err
	}
	m.MiniatureType = models.MiniatureType(mt)
	m.ProgressStatus = models.ProgressStatus(ps)

	var err error
	if m.CreatedAt, err = dbx.ParseTime(created); err != nil {
		return nil, fmt.Errorf("bad created_at: %w", err)
	}
	if m.UpdatedAt, err = dbx.ParseTime(updated); err != nil {
		return nil, fmt.Errorf("bad updated_at: %w", err)
	}
	return m, nil
}
