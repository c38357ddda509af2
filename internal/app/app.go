// Package app initializes and runs the tracker process. It selects the
// relational engine and blob backend from config, applies migrations, wires
// the service set explicitly, and tears everything down on shutdown. There
// is no ambient persistence singleton; callers receive the Services value.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/avolkovs/paintrack/internal/blob"
	"github.com/avolkovs/paintrack/internal/config"
	"github.com/avolkovs/paintrack/internal/logging"
	"github.com/avolkovs/paintrack/internal/repositories/repomanager"
	"github.com/avolkovs/paintrack/internal/services"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	services *services.Services
}

// NewApp opens the configured database, runs migrations, builds the blob
// store and wires the service set.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	rm, err := repomanager.New(cfg.DatabaseEngine)
	if err != nil {
		return nil, fmt.Errorf("repo manager init error: %w", err)
	}

	db, err := repomanager.Open(cfg.DatabaseEngine, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	store, err := newBlobStore(ctx, cfg)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("blob store init error: %w", err)
	}

	svcs := services.New(db, rm, store, logger, services.Options{
		OpTimeout: cfg.OpTimeout,
		AllowHEIC: cfg.AllowHEIC,
	})

	return &App{config: cfg, logger: logger, db: db, services: svcs}, nil
}

func newBlobStore(ctx context.Context, cfg *config.Config) (blob.Store, error) {
	switch cfg.StorageBackend {
	case "local":
		return blob.NewLocalStore(cfg.PhotoDir)
	case "s3":
		return blob.NewS3Store(ctx, blob.S3Config{
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			BaseEndpoint: cfg.S3BaseEndpoint,
		})
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}

// Services exposes the wired service set to the embedding layer.
func (app *App) Services() *services.Services {
	return app.services
}

// Run blocks until the context is cancelled or a termination signal
// arrives, then closes the connection pool.
func (app *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app.logger.Info(ctx, "starting app",
		"engine", app.config.DatabaseEngine, "storage", app.config.StorageBackend)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case <-sigs:
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
