package photos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

func (r *SQLiteRepository) Insert(ctx context.Context, p *models.Photo) error {
	query := `
		INSERT INTO photos (id, miniature_id, filename, storage_key, file_size, mime_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.MiniatureID, p.Filename, p.StorageKey, p.FileSize, p.MimeType,
		dbx.FormatTime(p.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert photo: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Photo, error) {
	query := `
		SELECT id, miniature_id, filename, storage_key, file_size, mime_type, created_at
		FROM photos WHERE id=?
	`
	row := r.db.QueryRowContext(ctx, query, id)

	p, err := scanPhoto(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan photo: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) ListByMiniature(ctx context.Context, miniatureID string) ([]*models.Photo, error) {
	query := `
		SELECT id, miniature_id, filename, storage_key, file_size, mime_type, created_at
		FROM photos WHERE miniature_id=?
		ORDER BY created_at
	`
	return r.queryPhotos(ctx, query, miniatureID)
}

func (r *SQLiteRepository) ListByProject(ctx context.Context, projectID string) ([]*models.Photo, error) {
	query := `
		SELECT p.id, p.miniature_id, p.filename, p.storage_key, p.file_size, p.mime_type, p.created_at
		FROM photos p
		JOIN miniatures m ON m.id = p.miniature_id
		WHERE m.project_id=?
		ORDER BY p.created_at
	`
	return r.queryPhotos(ctx, query, projectID)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM photos WHERE id=?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete photo: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) DeleteByMiniature(ctx context.Context, miniatureID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM photos WHERE miniature_id=?`, miniatureID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete photos: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) DeleteByProject(ctx context.Context, projectID string) (int64, error) {
	query := `
		DELETE FROM photos
		WHERE miniature_id IN (SELECT id FROM miniatures WHERE project_id=?)
	`
	res, err := r.db.ExecContext(ctx, query, projectID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete photos: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) queryPhotos(ctx context.Context, query string, args ...any) ([]*models.Photo, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select photos: %w", err)
	}
	defer rows.Close()

	var result []*models.Photo
	for rows.Next() {
		p, err := scanPhoto(rows.Scan)
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

func scanPhoto(scan func(dest ...any) error) (*models.Photo, error) {
	p := &models.Photo{}
	var created string
	if err := scan(&p.ID, &p.MiniatureID, &p.Filename, &p.StorageKey, &p.FileSize, &p.MimeType, &created); err != nil {
		return nil, err
	}

	var err error
	if p.CreatedAt, err = dbx.ParseTime(created); err != nil {
		return nil, fmt.Errorf("bad created_at: %w", err)
	}
	return p, nil
}
