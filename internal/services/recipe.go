package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/avolkovs/paintrack/internal/dbx"
	"github.com/avolkovs/paintrack/internal/logging"
	"github.com/avolkovs/paintrack/internal/models"
	"github.com/avolkovs/paintrack/internal/repositories/recipes"
	"github.com/avolkovs/paintrack/internal/repositories/repomanager"
	"github.com/google/uuid"
)

// RecipeService manages recipes and their links to miniatures. Recipes have
// an independent lifecycle: no project or miniature delete ever reaches them.
type RecipeService struct {
	db      *sql.DB
	rm      repomanager.RepositoryManager
	log     logging.Logger
	timeout time.Duration
}

// RecipeUpdate carries the fields a caller wants changed; nil means keep.
type RecipeUpdate struct {
	Name          *string
	MiniatureType *models.MiniatureType
	Steps         *[]string
	PaintsUsed    *[]string
	Techniques    *[]string
	Notes         *string
}

// Create validates and inserts a new recipe.
func (s *RecipeService) Create(ctx context.Context, name string, miniatureType models.MiniatureType, steps, paintsUsed, techniques []string, notes string) (*models.Recipe, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	ts := now()
	rec := &models.Recipe{
		ID:            uuid.NewString(),
		Name:          name,
		MiniatureType: miniatureType,
		Steps:         steps,
		PaintsUsed:    paintsUsed,
		Techniques:    techniques,
		Notes:         notes,
		CreatedAt:     ts,
		UpdatedAt:     ts,
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	if err := s.rm.Recipes(s.db).Insert(ctx, rec); err != nil {
		return nil, relational("recipe insert", err)
	}
	return rec, nil
}

// Get returns one recipe.
func (s *RecipeService) Get(ctx context.Context, id string) (*models.Recipe, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	rec, err := s.rm.Recipes(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, relational("recipe get", err)
	}
	return rec, nil
}

// List returns recipes, optionally narrowed to one miniature type. The
// filter is exact-match.
func (s *RecipeService) List(ctx context.Context, filter recipes.Filter) ([]*models.Recipe, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	out, err := s.rm.Recipes(s.db).List(ctx, filter)
	if err != nil {
		return nil, relational("recipe list", err)
	}
	return out, nil
}

// Update applies the partial update under the optimistic updated_at guard.
func (s *RecipeService) Update(ctx context.Context, id string, upd RecipeUpdate) (*models.Recipe, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	var updated *models.Recipe
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.rm.Recipes(tx)

		rec, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		expected := rec.UpdatedAt
		if upd.Name != nil {
			rec.Name = *upd.Name
		}
		if upd.MiniatureType != nil {
			rec.MiniatureType = *upd.MiniatureType
		}
		if upd.Steps != nil {
			rec.Steps = *upd.Steps
		}
		if upd.PaintsUsed != nil {
			rec.PaintsUsed = *upd.PaintsUsed
		}
		if upd.Techniques != nil {
			rec.Techniques = *upd.Techniques
		}
		if upd.Notes != nil {
			rec.Notes = *upd.Notes
		}
		if err := rec.Validate(); err != nil {
			return err
		}

		rec.UpdatedAt = now()
		if err := repo.Update(ctx, rec, expected); err != nil {
			return err
		}
		updated = rec
		return nil
	})
	if err != nil {
		return nil, relational("recipe update", err)
	}
	return updated, nil
}

// Delete removes the recipe and its link rows. Linked miniatures are
// untouched.
func (s *RecipeService) Delete(ctx context.Context, id string) error {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.rm.Recipes(tx)
		if err := repo.DeleteLinksByRecipe(ctx, id); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
	return relational("recipe delete", err)
}

// Link associates a recipe with a miniature. Both must exist; linking twice
// is a no-op. Only the join relation is touched.
func (s *RecipeService) Link(ctx context.Context, miniatureID, recipeID string) error {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	if _, err := s.rm.Miniatures(s.db).GetByID(ctx, miniatureID); err != nil {
		return relational("miniature get", err)
	}
	if _, err := s.rm.Recipes(s.db).GetByID(ctx, recipeID); err != nil {
		return relational("recipe get", err)
	}

	if err := s.rm.Recipes(s.db).Link(ctx, miniatureID, recipeID); err != nil {
		return relational("recipe link", err)
	}
	return nil
}

// Unlink removes the association. An absent link is a no-op.
func (s *RecipeService) Unlink(ctx context.Context, miniatureID, recipeID string) error {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	if err := s.rm.Recipes(s.db).Unlink(ctx, miniatureID, recipeID); err != nil {
		return relational("recipe unlink", err)
	}
	return nil
}

// ListForMiniature returns the recipes linked to a miniature.
func (s *RecipeService) ListForMiniature(ctx context.Context, miniatureID string) ([]*models.Recipe, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	out, err := s.rm.Recipes(s.db).ListForMiniature(ctx, miniatureID)
	if err != nil {
		return nil, relational("recipe list", err)
	}
	return out, nil
}
