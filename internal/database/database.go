// Package database opens the store named by the database config.
package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/claude/liftlog/internal/config"
	"github.com/claude/liftlog/internal/localstore"
	"github.com/claude/liftlog/internal/storage"
)

// Open connects to the configured store. For Postgres the embedded
// migrations are applied first. The returned func closes the store.
func Open(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (storage.Repository, func(), error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		st, err := localstore.Open(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		log.Info("sqlite store opened", "path", cfg.Path)
		return st, func() { st.Close() }, nil

	case config.DriverPostgres, "":
		dsn := cfg.DSN()
		if err := storage.RunMigrations(dsn); err != nil {
			return nil, nil, fmt.Errorf("migrating: %w", err)
		}
		log.Info("migrations applied")

		db, err := storage.New(ctx, dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting database: %w", err)
		}
		log.Info("database connected")
		return db, db.Close, nil

	default:
		return nil, nil, fmt.Errorf("database driver %q is not supported", cfg.Driver)
	}
}
