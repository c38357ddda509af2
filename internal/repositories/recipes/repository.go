// Package recipes provides row-level recipe persistence and the
// miniature-recipe link table for both supported engines.
//
// The steps, paints_used and techniques columns hold JSON arrays of strings;
// element order is preserved exactly as written. An empty sequence is stored
// as "[]", never NULL.
package recipes

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/avolkovs/paintrack/internal/models"
)

// Filter narrows List output. All filters are exact-match.
type Filter struct {
	MiniatureType *models.MiniatureType
}

// Repository is the row-level contract for the recipes table and the
// miniature_recipes join relation. Link operations only ever touch the join
// rows; they never read or mutate either side's other fields.
type Repository interface {
	// Insert writes a new recipe row.
	Insert(ctx context.Context, rec *models.Recipe) error

	// GetByID returns one recipe or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Recipe, error)

	// List returns recipes ordered by name, optionally filtered by
	// miniature type.
	List(ctx context.Context, filter Filter) ([]*models.Recipe, error)

	// Update rewrites mutable fields guarded by the stored updated_at.
	Update(ctx context.Context, rec *models.Recipe, expectedUpdatedAt time.Time) error

	// Delete removes the row or returns common.ErrNotFound. Join rows go
	// with it; linked miniatures are untouched.
	Delete(ctx context.Context, id string) error

	// Link records the association; linking twice is a no-op.
	Link(ctx context.Context, miniatureID, recipeID string) error

	// Unlink removes the association; an absent link is a no-op.
	Unlink(ctx context.Context, miniatureID, recipeID string) error

	// ListForMiniature returns recipes linked to the miniature, by name.
	ListForMiniature(ctx context.Context, miniatureID string) ([]*models.Recipe, error)

	// DeleteLinksByMiniature removes all of a miniature's link rows.
	DeleteLinksByMiniature(ctx context.Context, miniatureID string) error

	// DeleteLinksByRecipe removes all of a recipe's link rows.
	DeleteLinksByRecipe(ctx context.Context, recipeID string) error

	// DeleteLinksByProject removes link rows for every miniature in the
	// project. Used by the project cascade.
	DeleteLinksByProject(ctx context.Context, projectID string) error
}

// encodeList serializes an ordered string sequence for storage.
func encodeList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	b, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("encode list: %w", err)
	}
	return string(b), nil
}

// decodeList restores an ordered string sequence from storage.
func decodeList(raw string) ([]string, error) {
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	return values, nil
}
