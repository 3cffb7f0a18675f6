package main

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/pickswap/go/internal/dbconfig"
)

func setupDatabase(ctx context.Context) (*sql.DB, dbconfig.Config, error) {
	cfg := dbconfig.NewConfigFromEnv()
	database, err := dbconfig.Open(ctx, cfg)
	if err != nil {
		return nil, cfg, err
	}

	log.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Database).
		Msg("connected to database")
	return database, cfg, nil
}
