package main

import (
	"database/sql"
	"fmt"

	"github.com/jonboulle/clockwork"

	"github.com/mcdev12/pickswap/go/internal/admin"
	"github.com/mcdev12/pickswap/go/internal/auth"
	"github.com/mcdev12/pickswap/go/internal/claims"
	"github.com/mcdev12/pickswap/go/internal/draft/pick"
	"github.com/mcdev12/pickswap/go/internal/leagues"
	"github.com/mcdev12/pickswap/go/internal/metrics"
	"github.com/mcdev12/pickswap/go/internal/player"
	"github.com/mcdev12/pickswap/go/internal/store"
	"github.com/mcdev12/pickswap/go/internal/trades"
	"github.com/mcdev12/pickswap/go/internal/users"
)

type Services struct {
	Trades *trades.Service
	League *leagues.Service
	Admin  *admin.Service
	Auth   *users.Service

	Issuer  *auth.Issuer
	Metrics *metrics.Metrics
}

func setupServices(database *sql.DB, cfg *Config, clock clockwork.Clock) (*Services, error) {
	// Wire up dependency injection chain
	// Database → Store → App layer → Service layer
	secret := getEnv("SESSION_SECRET", "")
	issuer, err := auth.NewIssuer(secret, cfg.Session.TTL, clock)
	if err != nil {
		return nil, fmt.Errorf("failed to create session issuer: %w", err)
	}
	internalToken := getEnv("INTERNAL_TOKEN", "")
	if internalToken == "" {
		return nil, fmt.Errorf("INTERNAL_TOKEN environment variable is required")
	}

	m := metrics.New()
	authz := auth.NewAuthorizer(cfg.League.AdminEmails)
	s := store.New(database)

	tradesApp := trades.NewApp(s, clock, m)
	claimsApp := claims.NewApp(s, clock, m)
	pickApp := pick.NewApp(s, clock, tradesApp)
	playerApp := player.NewApp(s, tradesApp)
	usersApp := users.NewApp(s, clock, authz, tradesApp, users.Config{
		InitialPickRounds: cfg.League.InitialPickRounds,
	})

	return &Services{
		Trades:  trades.NewService(tradesApp, authz),
		League:  leagues.NewService(pickApp, playerApp, usersApp, claimsApp),
		Admin:   admin.NewService(authz, tradesApp, usersApp, pickApp, playerApp, claimsApp),
		Auth:    users.NewService(usersApp, issuer, authz, internalToken),
		Issuer:  issuer,
		Metrics: m,
	}, nil
}
