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

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, p *models.Photo) error {
	query := `
		INSERT INTO photos (id, miniature_id, filename, storage_key, file_size, mime_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.MiniatureID, p.Filename, p.StorageKey, p.FileSize, p.MimeType, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert photo: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Photo, error) {
	query := `
		SELECT id, miniature_id, filename, storage_key, file_size, mime_type, created_at
		FROM photos WHERE id=$1
	`
	row := r.db.QueryRowContext(ctx, query, id)

	p := &models.Photo{}
	err := row.Scan(&p.ID, &p.MiniatureID, &p.Filename, &p.StorageKey, &p.FileSize, &p.MimeType, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan photo: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) ListByMiniature(ctx context.Context, miniatureID string) ([]*models.Photo, error) {
	query := `
		SELECT id, miniature_id, filename, storage_key, file_size, mime_type, created_at
		FROM photos WHERE miniature_id=$1
		ORDER BY created_at
	`
	return r.queryPhotos(ctx, query, miniatureID)
}

func (r *PostgresRepository) ListByProject(ctx context.Context, projectID string) ([]*models.Photo, error) {
	query := `
		SELECT p.id, p.miniature_id, p.filename, p.storage_key, p.file_size, p.mime_type, p.created_at
		FROM photos p
		JOIN miniatures m ON m.id = p.miniature_id
		WHERE m.project_id=$1
		ORDER BY p.created_at
	`
	return r.queryPhotos(ctx, query, projectID)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM photos WHERE id=$1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete photo: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n > 0, nil
}

func (r *PostgresRepository) DeleteByMiniature(ctx context.Context, miniatureID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM photos WHERE miniature_id=$1`, miniatureID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete photos: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) DeleteByProject(ctx context.Context, projectID string) (int64, error) {
	query := `
		DELETE FROM photos
		WHERE miniature_id IN (SELECT id FROM miniatures WHERE project_id=$1)
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

func (r *PostgresRepository) queryPhotos(ctx context.Context, query string, args ...any) ([]*models.Photo, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select photos: %w", err)
	}
	defer rows.Close()

	var result []*models.Photo
	for rows.Next() {
		p := &models.Photo{}
		if err := rows.Scan(&p.ID, &p.MiniatureID, &p.Filename, &p.StorageKey, &p.FileSize, &p.MimeType, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
