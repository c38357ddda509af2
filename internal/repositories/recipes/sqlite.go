package recipes

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

func (r *SQLiteRepository) Insert(ctx context.Context, rec *models.Recipe) error {
	steps, paints, techniques, err := encodeRecipeLists(rec)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO recipes (id, name, miniature_type, steps, paints_used, techniques, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		rec.ID, rec.Name, string(rec.MiniatureType), steps, paints, techniques,
		rec.Notes, dbx.FormatTime(rec.CreatedAt), dbx.FormatTime(rec.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert recipe: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Recipe, error) {
	query := `
		SELECT id, name, miniature_type, steps, paints_used, techniques, notes, created_at, updated_at
		FROM recipes WHERE id=?
	`
	row := r.db.QueryRowContext(ctx, query, id)

	rec, err := scanSQLiteRecipe(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan recipe: %w", err)
	}
	return rec, nil
}

func (r *SQLiteRepository) List(ctx context.Context, filter Filter) ([]*models.Recipe, error) {
	query := `
		SELECT id, name, miniature_type, steps, paints_used, techniques, notes, created_at, updated_at
		FROM recipes
	`
	var args []any
	if filter.MiniatureType != nil {
		query += ` WHERE miniature_type=?`
		args = append(args, string(*filter.MiniatureType))
	}
	query += ` ORDER BY name`

	return r.queryRecipes(ctx, query, args...)
}

func (r *SQLiteRepository) Update(ctx context.Context, rec *models.Recipe, expectedUpdatedAt time.Time) error {
	steps, paints, techniques, err := encodeRecipeLists(rec)
	if err != nil {
		return err
	}

	query := `
		UPDATE recipes
		SET name=?, miniature_type=?, steps=?, paints_used=?, techniques=?, notes=?, updated_at=?
		WHERE id=? AND updated_at=?
	`
	res, err := r.db.ExecContext(ctx, query,
		rec.Name, string(rec.MiniatureType), steps, paints, techniques, rec.Notes,
		dbx.FormatTime(rec.UpdatedAt), rec.ID, dbx.FormatTime(expectedUpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to update recipe: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 1 {
		return nil
	}
	if _, err := r.GetByID(ctx, rec.ID); err != nil {
		return err
	}
	return common.ErrConflict
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recipes WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
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

func (r *SQLiteRepository) Link(ctx context.Context, miniatureID, recipeID string) error {
	query := `
		INSERT INTO miniature_recipes (miniature_id, recipe_id)
		VALUES (?, ?)
		ON CONFLICT (miniature_id, recipe_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, miniatureID, recipeID); err != nil {
		return fmt.Errorf("failed to link recipe: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Unlink(ctx context.Context, miniatureID, recipeID string) error {
	query := `DELETE FROM miniature_recipes WHERE miniature_id=? AND recipe_id=?`
	if _, err := r.db.ExecContext(ctx, query, miniatureID, recipeID); err != nil {
		return fmt.Errorf("failed to unlink recipe: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListForMiniature(ctx context.Context, miniatureID string) ([]*models.Recipe, error) {
	query := `
		SELECT r.id, r.name, r.miniature_type, r.steps, r.paints_used, r.techniques, r.notes, r.created_at, r.updated_at
		FROM recipes r
		JOIN miniature_recipes mr ON mr.recipe_id = r.id
		WHERE mr.miniature_id=?
		ORDER BY r.name
	`
	return r.queryRecipes(ctx, query, miniatureID)
}

func (r *SQLiteRepository) DeleteLinksByMiniature(ctx context.Context, miniatureID string) error {
	query := `DELETE FROM miniature_recipes WHERE miniature_id=?`
	if _, err := r.db.ExecContext(ctx, query, miniatureID); err != nil {
		return fmt.Errorf("failed to delete recipe links: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteLinksByRecipe(ctx context.Context, recipeID string) error {
	query := `DELETE FROM miniature_recipes WHERE recipe_id=?`
	if _, err := r.db.ExecContext(ctx, query, recipeID); err != nil {
		return fmt.Errorf("failed to delete recipe links: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteLinksByProject(ctx context.Context, projectID string) error {
	query := `
		DELETE FROM miniature_recipes
		WHERE miniature_id IN (SELECT id FROM miniatures WHERE project_id=?)
	`
	if _, err := r.db.ExecContext(ctx, query, projectID); err != nil {
		return fmt.Errorf("failed to delete recipe links: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) queryRecipes(ctx context.Context, query string, args ...any) ([]*models.Recipe, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select recipes: %w", err)
	}
	defer rows.Close()

	var result []*models.Recipe
	for rows.Next() {
		rec, err := scanSQLiteRecipe(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanSQLiteRecipe(scan func(dest ...any) error) (*models.Recipe, error) {
	rec := &models.Recipe{}
	var mt, steps, paints, techniques, created, updated string
	if err := scan(&rec.ID, &rec.Name, &mt, &steps, &paints, &techniques, &rec.Notes, &created, &updated); err != nil {
		return nil, err
	}
	rec.MiniatureType = models.MiniatureType(mt)

	var err error
	if rec.Steps, err = decodeList(steps); err != nil {
		return nil, fmt.Errorf("bad steps: %w", err)
	}
	if rec.PaintsUsed, err = decodeList(paints); err != nil {
		return nil, fmt.Errorf("bad paints_used: %w", err)
	}
	if rec.Techniques, err = decodeList(techniques); err != nil {
		return nil, fmt.Errorf("bad techniques: %w", err)
	}
	if rec.CreatedAt, err = dbx.ParseTime(created); err != nil {
		return nil, fmt.Errorf("bad created_at: %w", err)
	}
	if rec.UpdatedAt, err = dbx.ParseTime(updated); err != nil {
		return nil, fmt.Errorf("bad updated_at: %w", err)
	}
	return rec, nil
}
