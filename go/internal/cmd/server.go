package main

import (
	"fmt"
	"net/http"

	"connectrpc.com/connect"
	"github.com/jonboulle/clockwork"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mcdev12/pickswap/go/internal/api/adminv1"
	"github.com/mcdev12/pickswap/go/internal/api/authv1"
	"github.com/mcdev12/pickswap/go/internal/api/leaguev1"
	"github.com/mcdev12/pickswap/go/internal/api/tradev1"
	"github.com/mcdev12/pickswap/go/internal/auth"
	"github.com/mcdev12/pickswap/go/internal/ratelimit"
	"github.com/mcdev12/pickswap/go/internal/rpc"
)

// mutatingProcedures are rate limited per member
var mutatingProcedures = []string{
	tradev1.TradeServiceCreateTradeProcedure,
	tradev1.TradeServiceDecideTradeProcedure,
	leaguev1.LeagueServiceCreateClaimProcedure,
	leaguev1.LeagueServiceCancelClaimProcedure,
}

func setupServer(services *Services, cfg *Config, limiter *ratelimit.Limiter, clock clockwork.Clock) *http.Server {
	mux := http.NewServeMux()

	// Setup CORS middleware
	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{rpc.ErrorKindHeader},
		AllowCredentials: true,
	})

	interceptors := connect.WithInterceptors(
		rpc.ObserveInterceptor(services.Metrics, clock),
		auth.NewInterceptor(services.Issuer, authv1.AuthServiceCompleteSignInProcedure),
		limiter.Interceptor(),
	)

	// Register services
	registerServices(mux, services, interceptors)

	// Add health check and metrics endpoints
	setupHealthCheck(mux)
	mux.Handle("/metrics", services.Metrics.Handler())

	// Wrap with CORS
	handler := c.Handler(mux)

	// Setup HTTP/2 server
	return &http.Server{
		Addr:    fmt.Sprintf(":%s", getEnv("PORT", "8080")),
		Handler: h2c.NewHandler(handler, &http2.Server{}),
	}
}

func registerServices(mux *http.ServeMux, services *Services, opts ...connect.HandlerOption) {
	rpc.Mount(mux, tradev1.NewTradeServiceHandler(services.Trades, opts...)...)
	rpc.Mount(mux, leaguev1.NewLeagueServiceHandler(services.League, opts...)...)
	rpc.Mount(mux, adminv1.NewAdminServiceHandler(services.Admin, opts...)...)
	rpc.Mount(mux, authv1.NewAuthServiceHandler(services.Auth, opts...)...)
}

func setupHealthCheck(mux *http.ServeMux) {
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Error().Err(err).Msg("failed to write health check response")
		}
	})
}
