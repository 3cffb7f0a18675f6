package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/pickswap/go/internal/dbconfig"
	"github.com/mcdev12/pickswap/go/internal/metrics"
	"github.com/mcdev12/pickswap/go/internal/outbox"
)

func main() {
	// load .env
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	// configure zerolog console output and level
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	level, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// DB config
	dbCfg := dbconfig.NewConfigFromEnv()
	db, err := dbconfig.Open(ctx, dbCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()
	log.Info().
		Str("host", dbCfg.Host).
		Int("port", dbCfg.Port).
		Str("database", dbCfg.Database).
		Msg("connected to database")

	clock := clockwork.NewRealClock()
	m := metrics.New()

	// Publisher
	var (
		publisher outbox.EventPublisher
		bus       outbox.BusConn
	)
	if getEnv("OUTBOX_PUBLISHER", "jetstream") == "log" {
		publisher = outbox.LogPublisher{}
	} else {
		jsCfg := outbox.DefaultJetStreamConfig()
		jsCfg.URL = getEnv("NATS_URL", jsCfg.URL)
		jsCfg.StreamName = getEnv("OUTBOX_STREAM", jsCfg.StreamName)
		js, err := outbox.NewJetStreamPublisher(ctx, jsCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("create JetStream publisher")
		}
		defer func() {
			if err := js.Close(); err != nil {
				log.Error().Err(err).Msg("close publisher")
			}
		}()
		publisher, bus = js, js.Conn()
	}

	cfg := outbox.DefaultConfig()
	cfg.PollInterval = getEnvAsDuration("POLL_INTERVAL", cfg.PollInterval)
	cfg.RetryDelay = getEnvAsDuration("RETRY_DELAY", cfg.RetryDelay)
	repo := outbox.NewRepository(db)
	relay := outbox.NewRelay(repo, outbox.NewMetricPublisher(publisher, m, clock), m, clock, cfg)

	// Relay loop: LISTEN/NOTIFY with fallback sweep, or plain polling
	var active func() bool
	errCh := make(chan error, 1)
	if getEnv("OUTBOX_MODE", "listen") == "poll" {
		worker := outbox.NewWorker(relay, clock, cfg)
		if err := worker.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("start outbox worker")
		}
		defer func() { _ = worker.Stop() }()
		active = worker.Running
	} else {
		ltCfg := outbox.DefaultListenerConfig()
		ltCfg.DatabaseURL = dbCfg.DSN()
		ltCfg.FallbackInterval = getEnvAsDuration("FALLBACK_INTERVAL", ltCfg.FallbackInterval)
		notifier, err := outbox.NewPQNotifier(ltCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("create outbox listener")
		}
		listener := outbox.NewListener(relay, notifier, clock, ltCfg)
		done := make(chan struct{})
		go func() {
			log.Info().Msg("starting realtime listener")
			errCh <- listener.Start(ctx)
			close(done)
		}()
		active = func() bool {
			select {
			case <-done:
				return false
			default:
				return true
			}
		}
	}

	// Health and metrics
	mux := http.NewServeMux()
	mux.Handle("/health", outbox.NewHealthChecker(relay, repo, bus, active, clock, 5*time.Minute))
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: getEnv("HEALTH_ADDR", ":8081"), Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("health server failed")
		}
	}()

	// wait for shutdown or error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("listener exited unexpectedly")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info().Msg("graceful shutdown complete")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
