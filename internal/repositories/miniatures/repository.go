// Package miniatures provides row-level miniature persistence for both
// supported engines.
package miniatures

import (
	"context"
	"time"

	"github.com/avolkovs/paintrack/internal/models"
)

// Repository is the row-level contract for the miniatures table.
type Repository interface {
	// Insert writes a new miniature row.
	Insert(ctx context.Context, m *models.Miniature) error

	// GetByID returns one miniature or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Miniature, error)

	// ListByProject returns a project's miniatures in creation order.
	ListByProject(ctx context.Context, projectID string) ([]*models.Miniature, error)

	// Update rewrites mutable fields guarded by the stored updated_at.
	Update(ctx context.Context, m *models.Miniature, expectedUpdatedAt time.Time) error

	// Delete removes the row or returns common.ErrNotFound.
	Delete(ctx context.Context, id string) error

	// DeleteByProject removes all of a project's miniature rows and returns
	// the count. Used by the project cascade.
	DeleteByProject(ctx context.Context, projectID string) (int64, error)
}
