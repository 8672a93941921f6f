// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the ERP console HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL and run migrations (postgres store driver only).
//  4. Connect to Redis (when REDIS_URL is set) for the session store.
//  5. Open the entity stores and register the list screens.
//  6. Wire the session service and HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/erpconsole/internal/api"
	"github.com/taibuivan/erpconsole/internal/console"
	"github.com/taibuivan/erpconsole/internal/notify"
	"github.com/taibuivan/erpconsole/internal/platform/config"
	"github.com/taibuivan/erpconsole/internal/platform/constants"
	"github.com/taibuivan/erpconsole/internal/platform/migration"
	pgstore "github.com/taibuivan/erpconsole/internal/platform/postgres"
	redisstore "github.com/taibuivan/erpconsole/internal/platform/redis"
	"github.com/taibuivan/erpconsole/internal/platform/sec"
	"github.com/taibuivan/erpconsole/internal/session"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("store_driver", cfg.StoreDriver),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	var checks []api.Check
	source := console.Source{Driver: cfg.StoreDriver, Latency: cfg.MockLatency, Logger: log}

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	if cfg.StoreDriver == config.StorePostgres {
		pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
		must(log, err, "connect to postgres")
		defer func() {
			log.Info("closing_postgres_pool")
			pool.Close()
		}()

		must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

		source.DB = pool
		checks = append(checks, api.Check{Name: "postgres", Check: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		}})
	}

	// ── 4. Session Store ──────────────────────────────────────────────────
	var sessions session.Store = session.NewMemoryStore()
	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing_redis_client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis_close_failed", slog.Any("error", cerr))
			}
		}()

		sessions = session.NewRedisStore(rdb)
		checks = append(checks, api.Check{Name: "redis", Check: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		}})
	}

	// ── 5. Screens ────────────────────────────────────────────────────────
	hub := notify.NewHub(cfg.NotificationCapacity, cfg.NotificationTTL)
	screens, err := console.Build(startupCtx, source, hub, log)
	must(log, err, "open entity stores")

	// ── 6. Sessions ───────────────────────────────────────────────────────
	tokens, err := sec.NewTokenService(cfg.SessionSecret, constants.AuthIssuer)
	must(log, err, "initialize session tokens")

	admin, err := session.MockAdministrator()
	must(log, err, "prepare console accounts")

	sessionService := session.NewService(sessions, tokens, []session.Account{admin}, cfg.SessionTTL, session.WithLogger(log))
	sessionService.OnEnd(screens.Unmount)
	sessionService.OnEnd(hub.Drop)

	liveness, readiness := api.NewHealthHandlers(checks, log)

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	server := api.NewServer(rootCtx, cfg, log, sessionService, api.Handlers{
		Liveness:      liveness,
		Readiness:     readiness,
		Auth:          session.NewHandler(sessionService),
		Notifications: console.NewNotifications(hub),
		Screens:       screens,
	})

	// Expired sessions release their screens and toasts.
	go sessionService.RunSweeper(rootCtx, cfg.SessionSweepInterval)

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_failed", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("server_shutting_down", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown_failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped")
}

// newLogger builds the JSON logger every log line goes through.
func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failed",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
