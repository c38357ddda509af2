package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/avolkovs/paintrack/internal/blob"
	"github.com/avolkovs/paintrack/internal/common"
	"github.com/avolkovs/paintrack/internal/dbx"
	"github.com/avolkovs/paintrack/internal/logging"
	"github.com/avolkovs/paintrack/internal/models"
	"github.com/avolkovs/paintrack/internal/repositories/repomanager"
	"github.com/google/uuid"
)

// PhotoService manages photo rows and their blobs together. The ordering of
// row and blob operations keeps the two stores consistent: no orphan blob,
// no dangling row, except transiently inside one operation.
type PhotoService struct {
	db        *sql.DB
	rm        repomanager.RepositoryManager
	store     blob.Store
	log       logging.Logger
	timeout   time.Duration
	allowHEIC bool
}

// PhotoUpload is the caller-supplied payload: already-decoded image bytes
// plus a declared MIME type.
type PhotoUpload struct {
	MiniatureID string
	Filename    string
	MimeType    string
	Data        []byte
}

// Create validates the upload, writes the blob, then inserts the row inside
// a transaction. If the insert fails, the just-written blob is removed
// best-effort (logged, not re-raised) and the original error surfaces. The
// blob is never durable under a committed row that failed.
func (s *PhotoService) Create(ctx context.Context, up PhotoUpload) (*models.Photo, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	if !models.AllowedMimeType(up.MimeType, s.allowHEIC) {
		return nil, common.NewValidationError("mime_type", "unsupported value: "+up.MimeType)
	}

	photo := &models.Photo{
		ID:          uuid.NewString(),
		MiniatureID: up.MiniatureID,
		Filename:    up.Filename,
		FileSize:    int64(len(up.Data)),
		MimeType:    up.MimeType,
		CreatedAt:   now(),
	}
	if err := photo.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.rm.Miniatures(s.db).GetByID(ctx, up.MiniatureID); err != nil {
		return nil, relational("miniature get", err)
	}

	key, err := s.store.Put(ctx, up.MiniatureID, up.Data, up.MimeType)
	if err != nil {
		return nil, err
	}
	photo.StorageKey = key

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.rm.Photos(tx).Insert(ctx, photo)
	})
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.log.Warn(ctx, "orphan blob cleanup failed", "key", key, "error", delErr)
		}
		return nil, relational("photo insert", err)
	}
	return photo, nil
}

// Get returns one photo row.
func (s *PhotoService) Get(ctx context.Context, id string) (*models.Photo, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	p, err := s.rm.Photos(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, relational("photo get", err)
	}
	return p, nil
}

// Content returns the photo's blob bytes.
func (s *PhotoService) Content(ctx context.Context, id string) ([]byte, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	p, err := s.rm.Photos(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, relational("photo get", err)
	}
	return s.store.Get(ctx, p.StorageKey)
}

// ListByMiniature returns photos in upload order, oldest first.
func (s *PhotoService) ListByMiniature(ctx context.Context, miniatureID string) ([]*models.Photo, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	out, err := s.rm.Photos(s.db).ListByMiniature(ctx, miniatureID)
	if err != nil {
		return nil, relational("photo list", err)
	}
	return out, nil
}

// Delete removes the row inside a transaction first, then the blob after
// commit. A blob failure is returned as a warning while the delete still
// succeeds: the row is the authoritative state and a cleanup sweep can
// reconcile later. Deleting an already-absent photo is a success.
func (s *PhotoService) Delete(ctx context.Context, id string) ([]string, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	var key string
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.rm.Photos(tx)

		p, err := repo.GetByID(ctx, id)
		if errors.Is(err, common.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		key = p.StorageKey

		_, err = repo.Delete(ctx, id)
		return err
	})
	if err != nil {
		return nil, relational("photo delete", err)
	}

	if key == "" {
		return nil, nil
	}

	var warnings []string
	if err := s.store.Delete(ctx, key); err != nil {
		s.log.Warn(ctx, "blob delete failed after row delete", "photo_id", id, "key", key, "error", err)
		warnings = append(warnings, fmt.Sprintf("blob %s: %v", key, err))
	}
	return warnings, nil
}
