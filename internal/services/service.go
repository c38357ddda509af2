// Package services implements the persistence operations exposed to the
// presentation layer: CRUD per aggregate, the photo storage protocols and
// the cascading lifecycle rules. Each operation acquires one pooled
// connection for its duration, runs under a bounded timeout, and returns
// validated entities or typed errors.
package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/avolkovs/paintrack/internal/blob"
	"github.com/avolkovs/paintrack/internal/common"
	"github.com/avolkovs/paintrack/internal/logging"
	"github.com/avolkovs/paintrack/internal/repositories/repomanager"
)

// Options tunes service behavior.
type Options struct {
	// OpTimeout bounds every operation, storage calls included. Zero means
	// no bound.
	OpTimeout time.Duration
	// AllowHEIC admits image/heic uploads (mobile deployment variant).
	AllowHEIC bool
}

// Services bundles the per-aggregate services wired to one connection pool,
// one repository manager and one blob store.
type Services struct {
	Projects   *ProjectService
	Miniatures *MiniatureService
	Recipes    *RecipeService
	Photos     *PhotoService
}

// New constructs the full service set.
func New(db *sql.DB, rm repomanager.RepositoryManager, store blob.Store, log logging.Logger, opts Options) *Services {
	return &Services{
		Projects:   &ProjectService{db: db, rm: rm, store: store, log: log, timeout: opts.OpTimeout},
		Miniatures: &MiniatureService{db: db, rm: rm, store: store, log: log, timeout: opts.OpTimeout},
		Recipes:    &RecipeService{db: db, rm: rm, log: log, timeout: opts.OpTimeout},
		Photos:     &PhotoService{db: db, rm: rm, store: store, log: log, timeout: opts.OpTimeout, allowHEIC: opts.AllowHEIC},
	}
}

// opContext bounds one operation with the configured timeout.
func opContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// relational classifies a repository error: domain outcomes pass through,
// everything else is wrapped as a retryable relational failure.
func relational(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, common.ErrNotFound) || errors.Is(err, common.ErrConflict) {
		return err
	}
	var ve *common.ValidationError
	if errors.As(err, &ve) {
		return err
	}
	var se *common.StorageError
	if errors.As(err, &se) {
		return err
	}
	return &common.RelationalError{Op: op, Err: err}
}

// now returns the timestamp used for created_at/updated_at stamping,
// truncated so the value survives a round trip through either engine.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
