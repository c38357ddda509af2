// Package projects provides row-level project persistence for both
// supported engines.
package projects

import (
	"context"
	"time"

	"github.com/avolkovs/paintrack/internal/models"
)

// Filter narrows List output. All filters are exact-match.
type Filter struct {
	GameSystem *models.GameSystem
}

// Repository is the row-level contract for the projects table. Engine
// failures are returned wrapped; absent rows surface common.ErrNotFound and
// a failed updated_at guard surfaces common.ErrConflict.
type Repository interface {
	// Insert writes a new project row.
	Insert(ctx context.Context, p *models.Project) error

	// GetByID returns one project or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Project, error)

	// List returns projects ordered by (game_system, army, created_at desc).
	// This ordering is the canonical organization used by all callers.
	List(ctx context.Context, filter Filter) ([]*models.Project, error)

	// Update rewrites mutable fields guarded by the stored updated_at.
	// A moved timestamp yields common.ErrConflict, an absent row
	// common.ErrNotFound.
	Update(ctx context.Context, p *models.Project, expectedUpdatedAt time.Time) error

	// Delete removes the row or returns common.ErrNotFound.
	Delete(ctx context.Context, id string) error
}
