// Package photos provides row-level photo metadata persistence for both
// supported engines. Blob bytes live in the storage adapter; only the
// storage_key is recorded here.
package photos

import (
	"context"

	"github.com/avolkovs/paintrack/internal/models"
)

// Repository is the row-level contract for the photos table.
type Repository interface {
	// Insert writes a new photo row.
	Insert(ctx context.Context, p *models.Photo) error

	// GetByID returns one photo or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Photo, error)

	// ListByMiniature returns a miniature's photos in chronological order.
	ListByMiniature(ctx context.Context, miniatureID string) ([]*models.Photo, error)

	// ListByProject returns every photo under any of the project's
	// miniatures. Used to enumerate blobs before a project cascade.
	ListByProject(ctx context.Context, projectID string) ([]*models.Photo, error)

	// Delete removes the row and reports whether one existed. An absent row
	// is not an error; photo deletion is idempotent at the service level.
	Delete(ctx context.Context, id string) (bool, error)

	// DeleteByMiniature removes all of a miniature's photo rows.
	DeleteByMiniature(ctx context.Context, miniatureID string) (int64, error)

	// DeleteByProject removes every photo row under the project.
	DeleteByProject(ctx context.Context, projectID string) (int64, error)
}
