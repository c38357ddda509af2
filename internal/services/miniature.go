package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/avolkovs/paintrack/internal/blob"
	"github.com/avolkovs/paintrack/internal/dbx"
	"github.com/avolkovs/paintrack/internal/logging"
	"github.com/avolkovs/paintrack/internal/models"
	"github.com/avolkovs/paintrack/internal/repositories/repomanager"
	"github.com/google/uuid"
)

// MiniatureService manages the miniature aggregate and its cascade.
type MiniatureService struct {
	db      *sql.DB
	rm      repomanager.RepositoryManager
	store   blob.Store
	log     logging.Logger
	timeout time.Duration
}

// MiniatureUpdate carries the fields a caller wants changed; nil means keep.
type MiniatureUpdate struct {
	Name           *string
	MiniatureType  *models.MiniatureType
	ProgressStatus *models.ProgressStatus
	Notes          *string
}

// Create validates and inserts a new miniature under an existing project.
// Progress defaults to unpainted when left empty; this is the only place an
// empty status is accepted.
func (s *MiniatureService) Create(ctx context.Context, projectID, name string, miniatureType models.MiniatureType, progress models.ProgressStatus, notes string) (*models.Miniature, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	if progress == "" {
		progress = models.ProgressUnpainted
	}

	ts := now()
	m := &models.Miniature{
		ID:             uuid.NewString(),
		ProjectID:      projectID,
		Name:           name,
		MiniatureType:  miniatureType,
		ProgressStatus: progress,
		Notes:          notes,
		CreatedAt:      ts,
		UpdatedAt:      ts,
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.rm.Projects(s.db).GetByID(ctx, projectID); err != nil {
		return nil, relational("project get", err)
	}

	if err := s.rm.Miniatures(s.db).Insert(ctx, m); err != nil {
		return nil, relational("miniature insert", err)
	}
	return m, nil
}

// Get returns one miniature.
func (s *MiniatureService) Get(ctx context.Context, id string) (*models.Miniature, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	m, err := s.rm.Miniatures(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, relational("miniature get", err)
	}
	return m, nil
}

// ListByProject returns a project's miniatures in creation order.
func (s *MiniatureService) ListByProject(ctx context.Context, projectID string) ([]*models.Miniature, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	out, err := s.rm.Miniatures(s.db).ListByProject(ctx, projectID)
	if err != nil {
		return nil, relational("miniature list", err)
	}
	return out, nil
}

// Update applies the partial update under the optimistic updated_at guard.
// updated_at is stamped to the time of this call even when the only change
// is the progress status, and even when the new status equals the old one.
func (s *MiniatureService) Update(ctx context.Context, id string, upd MiniatureUpdate) (*models.Miniature, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	var updated *models.Miniature
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.rm.Miniatures(tx)

		m, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		expected := m.UpdatedAt
		if upd.Name != nil {
			m.Name = *upd.Name
		}
		if upd.MiniatureType != nil {
			m.MiniatureType = *upd.MiniatureType
		}
		if upd.ProgressStatus != nil {
			m.ProgressStatus = *upd.ProgressStatus
		}
		if upd.Notes != nil {
			m.Notes = *upd.Notes
		}
		if err := m.Validate(); err != nil {
			return err
		}

		m.UpdatedAt = now()
		if err := repo.Update(ctx, m, expected); err != nil {
			return err
		}
		updated = m
		return nil
	})
	if err != nil {
		return nil, relational("miniature update", err)
	}
	return updated, nil
}

// UpdateStatus moves the miniature to the given stage. Any stage is
// reachable from any other; no linear progression is enforced.
func (s *MiniatureService) UpdateStatus(ctx context.Context, id string, status models.ProgressStatus) (*models.Miniature, error) {
	return s.Update(ctx, id, MiniatureUpdate{ProgressStatus: &status})
}

// Delete removes the miniature, its photos (rows and blobs) and its recipe
// links. Linked recipes survive. Blob failures become warnings; the row
// cascade still commits.
func (s *MiniatureService) Delete(ctx context.Context, id string) ([]string, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	if _, err := s.rm.Miniatures(s.db).GetByID(ctx, id); err != nil {
		return nil, relational("miniature get", err)
	}

	descendants, err := s.rm.Photos(s.db).ListByMiniature(ctx, id)
	if err != nil {
		return nil, relational("photo list", err)
	}

	var warnings []string
	for _, p := range descendants {
		if err := s.store.Delete(ctx, p.StorageKey); err != nil {
			s.log.Warn(ctx, "cascade blob delete failed", "photo_id", p.ID, "key", p.StorageKey, "error", err)
			warnings = append(warnings, fmt.Sprintf("blob %s: %v", p.StorageKey, err))
		}
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.rm.Photos(tx).DeleteByMiniature(ctx, id); err != nil {
			return err
		}
		if err := s.rm.Recipes(tx).DeleteLinksByMiniature(ctx, id); err != nil {
			return err
		}
		return s.rm.Miniatures(tx).Delete(ctx, id)
	})
	if err != nil {
		return warnings, relational("miniature cascade delete", err)
	}
	return warnings, nil
}
