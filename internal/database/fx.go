package database

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/aerayy/fithub-backend/internal/config"
)

var Module = fx.Module(
	"database",
	fx.Provide(NewDB),
)

// NewDB connects, applies pending migrations and closes the pool on stop.
func NewDB(lc fx.Lifecycle, cfg *config.Config, log zerolog.Logger) (*sql.DB, error) {
	db, err := Open(context.Background(), cfg.Database, log)
	if err != nil {
		return nil, err
	}
	if err := MigrateUp(cfg.Database); err != nil {
		db.Close()
		return nil, err
	}
	log.Info().Msg("database connected and migrations completed")

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("closing database connection...")
			return db.Close()
		},
	})
	return db, nil
}
