package services

import (
	"context"
	"log/slog"

	"salonpro-crm/config"
)

// SelectBackend picks the storage once at startup. A configured and reachable
// database wins; anything else falls back to the JSON file at cfg.DataFile.
func SelectBackend(ctx context.Context, cfg config.Config, logger *slog.Logger) CustomerService {
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, using file-based customer store", "path", cfg.DataFile)
		return NewFileStore(cfg.DataFile, logger)
	}

	db, err := config.OpenDatabase(ctx, cfg)
	if err != nil {
		logger.Warn("database unavailable, using file-based customer store", "error", err, "path", cfg.DataFile)
		return NewFileStore(cfg.DataFile, logger)
	}

	store := NewDBStore(db, logger)
	if err := ApplySchema(ctx, db); err != nil {
		logger.Warn("database schema failed, using file-based customer store", "error", err, "path", cfg.DataFile)
		store.Close()
		return NewFileStore(cfg.DataFile, logger)
	}

	logger.Info("using database-backed customer store", "driver", db.Dialector.Name())
	return store
}
