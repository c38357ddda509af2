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
	"github.com/avolkovs/paintrack/internal/repositories/projects"
	"github.com/avolkovs/paintrack/internal/repositories/repomanager"
	"github.com/google/uuid"
)

// ProjectService manages the project aggregate and its cascade.
type ProjectService struct {
	db      *sql.DB
	rm      repomanager.RepositoryManager
	store   blob.Store
	log     logging.Logger
	timeout time.Duration
}

// ProjectUpdate carries the fields a caller wants changed; nil means keep.
type ProjectUpdate struct {
	Name        *string
	GameSystem  *models.GameSystem
	Army        *string
	Description *string
}

// Create validates and inserts a new project.
func (s *ProjectService) Create(ctx context.Context, name string, gameSystem models.GameSystem, army, description string) (*models.Project, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	ts := now()
	p := &models.Project{
		ID:          uuid.NewString(),
		Name:        name,
		GameSystem:  gameSystem,
		Army:        army,
		Description: description,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.rm.Projects(s.db).Insert(ctx, p); err != nil {
		return nil, relational("project insert", err)
	}
	return p, nil
}

// Get returns one project.
func (s *ProjectService) Get(ctx context.Context, id string) (*models.Project, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	p, err := s.rm.Projects(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, relational("project get", err)
	}
	return p, nil
}

// List returns projects in the canonical organization: game system, then
// army, then newest first.
func (s *ProjectService) List(ctx context.Context, filter projects.Filter) ([]*models.Project, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	out, err := s.rm.Projects(s.db).List(ctx, filter)
	if err != nil {
		return nil, relational("project list", err)
	}
	return out, nil
}

// Update applies the partial update under the optimistic updated_at guard
// and returns the stored entity.
func (s *ProjectService) Update(ctx context.Context, id string, upd ProjectUpdate) (*models.Project, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	var updated *models.Project
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.rm.Projects(tx)

		p, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		expected := p.UpdatedAt
		if upd.Name != nil {
			p.Name = *upd.Name
		}
		if upd.GameSystem != nil {
			p.GameSystem = *upd.GameSystem
		}
		if upd.Army != nil {
			p.Army = *upd.Army
		}
		if upd.Description != nil {
			p.Description = *upd.Description
		}
		if err := p.Validate(); err != nil {
			return err
		}

		p.UpdatedAt = now()
		if err := repo.Update(ctx, p, expected); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, relational("project update", err)
	}
	return updated, nil
}

// Progress averages the progress of the project's miniatures using the
// fixed stage percentages.
func (s *ProjectService) Progress(ctx context.Context, id string) (float64, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	if _, err := s.rm.Projects(s.db).GetByID(ctx, id); err != nil {
		return 0, relational("project get", err)
	}
	minis, err := s.rm.Miniatures(s.db).ListByProject(ctx, id)
	if err != nil {
		return 0, relational("miniature list", err)
	}
	return models.CompletionPercent(minis), nil
}

// Delete removes the project, its miniatures, their photos and recipe links.
// Descendant blobs are enumerated and deleted first; blob failures are
// collected as warnings while the row cascade still commits, since the rows
// are the authoritative state. Recipes themselves are never touched.
func (s *ProjectService) Delete(ctx context.Context, id string) ([]string, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	if _, err := s.rm.Projects(s.db).GetByID(ctx, id); err != nil {
		return nil, relational("project get", err)
	}

	descendants, err := s.rm.Photos(s.db).ListByProject(ctx, id)
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
		if _, err := s.rm.Photos(tx).DeleteByProject(ctx, id); err != nil {
			return err
		}
		if err := s.rm.Recipes(tx).DeleteLinksByProject(ctx, id); err != nil {
			return err
		}
		if _, err := s.rm.Miniatures(tx).DeleteByProject(ctx, id); err != nil {
			return err
		}
		return s.rm.Projects(tx).Delete(ctx, id)
	})
	if err != nil {
		return warnings, relational("project cascade delete", err)
	}
	return warnings, nil
}
