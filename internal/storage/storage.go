// Package storage opens the document repository selected by configuration.
package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-docbind/internal/config"
	"github.com/goliatone/go-docbind/internal/storage/postgres"
	"github.com/goliatone/go-docbind/internal/storage/remote"
	"github.com/goliatone/go-docbind/internal/storage/sqlite"
	"github.com/goliatone/go-docbind/pkg/document"
)

// Backend is an opened repository plus its lifecycle hooks. Repository is
// nil for the "none" driver.
type Backend struct {
	Driver     string
	Repository document.Repository
	migrate    func(ctx context.Context) error
	close      func()
}

// Open connects the configured driver. Schema changes are not applied;
// call Migrate for that.
func Open(ctx context.Context, cfg config.StorageConfig, logger zerolog.Logger) (*Backend, error) {
	b := &Backend{Driver: cfg.Driver, close: func() {}, migrate: func(context.Context) error { return nil }}

	switch cfg.Driver {
	case config.DriverNone:
		return b, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("storage: %w", err)
		}
		b.Repository = sqlite.NewRepository(db)
		b.migrate = func(ctx context.Context) error {
			applied, err := db.MigrateUp(ctx)
			if err != nil {
				return err
			}
			logger.Info().Int("applied", applied).Str("path", cfg.SQLitePath).Msg("sqlite migrations applied")
			return nil
		}
		b.close = func() { _ = db.Close() }

	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.MaxConns, cfg.MinConns)
		if err != nil {
			return nil, fmt.Errorf("storage: %w", err)
		}
		repo := postgres.NewRepository(pool)
		b.Repository = repo
		b.migrate = func(ctx context.Context) error {
			if err := repo.Migrate(ctx); err != nil {
				return err
			}
			logger.Info().Msg("postgres migrations applied")
			return nil
		}
		b.close = pool.Close

	case config.DriverRemote:
		client, err := remote.New(cfg.RemoteURL, remote.WithToken(cfg.RemoteToken))
		if err != nil {
			return nil, fmt.Errorf("storage: %w", err)
		}
		b.Repository = client

	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.Driver)
	}

	logger.Debug().Str("driver", cfg.Driver).Msg("storage opened")
	return b, nil
}

// Migrate applies pending schema changes. It is a no-op for drivers
// without a local schema.
func (b *Backend) Migrate(ctx context.Context) error {
	if err := b.migrate(ctx); err != nil {
		return fmt.Errorf("storage: migrate %s: %w", b.Driver, err)
	}
	return nil
}

// Saver returns the repository as a saver, or nil when storage is disabled.
func (b *Backend) Saver() document.Saver {
	if b.Repository == nil {
		return nil
	}
	return b.Repository
}

// Close releases connections.
func (b *Backend) Close() {
	b.close()
}
