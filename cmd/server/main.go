// Package main is the entry point for the flowdeck console server.
// The server polls the orchestrator for schedule state, serves the JSON API
// under /v1 and the web console under /ui, and keeps its control-plane state
// (API keys, audit log, refresh history) in SQLite.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/mattn/go-sqlite3"

	"flowdeck/internal/api"
	"flowdeck/internal/app"
	"flowdeck/internal/config"
	"flowdeck/internal/db"
	"flowdeck/internal/domain"
	"flowdeck/internal/middleware"
	"flowdeck/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file (if present)
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not load .env: %v\n", err)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	for _, w := range cfg.Warnings {
		logger.Warn(w)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	// writeDB: single-connection pool for serialized writes (WAL + txlock=immediate).
	// readDB:  4-connection pool for concurrent reads (WAL, no txlock).
	writeDB, readDB, err := db.OpenSQLitePair(cfg.MetaDBPath, 4)
	if err != nil {
		return fmt.Errorf("open state db: %w", err)
	}
	defer writeDB.Close()
	defer readDB.Close()

	// DDL requires write access
	if err := db.RunMigrations(writeDB); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	application, err := app.New(ctx, app.Deps{
		Cfg:     cfg,
		WriteDB: writeDB,
		ReadDB:  readDB,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("wire app: %w", err)
	}

	if cfg.PollEnabled {
		if err := application.Poller.Start(ctx); err != nil {
			return fmt.Errorf("start poller: %w", err)
		}
		defer application.Poller.Stop()
		logger.Info("schedule poller started", "interval", application.Poller.Interval())
	} else {
		logger.Info("schedule poller disabled; views refresh on demand only")
	}

	// A nil key repository disables the API-key path in the auth middleware.
	var keyRepo domain.APIKeyRepository
	if cfg.Auth.APIKeyEnabled {
		keyRepo = application.APIKeyRepo
	}
	authMW := middleware.Auth(application.Validator, keyRepo, cfg.Auth.APIKeyHeader, logger)

	apiHandler := api.NewHandler(
		application.Services.Schedules,
		application.Poller,
		application.Services.Docs,
		application.Services.Keys,
		application.AuditRepo,
		application.RefreshRepo,
		logger,
	)
	uiHandler := ui.NewHandler(
		application.Services.Schedules,
		application.Poller,
		application.Services.Docs,
		application.AuditRepo,
		application.RefreshRepo,
		cfg.Auth,
		cfg.IsProduction(),
	)

	startTime := time.Now()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", cfg.Auth.APIKeyHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.RateLimiter(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		Burst:             cfg.RateLimitBurst,
	}))

	// Public endpoints, no auth required
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":         "ok",
			"uptime_seconds": int(time.Since(startTime).Seconds()),
			"poller_running": application.Poller.Running(),
		})
	})

	// Authenticated API routes under /v1
	r.Group(func(r chi.Router) {
		r.Use(authMW)
		api.MountRoutes(r, apiHandler)
	})

	// Web console under /ui; the login page inside handles its own auth.
	r.Route("/ui", func(r chi.Router) {
		ui.MountRoutes(r, uiHandler, authMW)
	})
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ui", http.StatusSeeOther)
	})

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	scheme := "http"
	if cfg.TLSCertFile != "" {
		scheme = "https"
	}
	logger.Info("flowdeck console listening", "addr", cfg.ListenAddr, "env", cfg.Env)
	logger.Info(fmt.Sprintf("try: curl -H '%s: <key>' %s://%s/v1/schedules/view",
		cfg.Auth.APIKeyHeader, scheme, curlHostForListenAddr(cfg.ListenAddr)))

	if cfg.TLSCertFile != "" {
		err = srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
	} else {
		err = srv.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// curlHostForListenAddr turns a listen address into a host suitable for a
// copy-pasteable curl line. Wildcard and empty hosts become localhost.
func curlHostForListenAddr(listenAddr string) string {
	addr := strings.TrimSpace(listenAddr)
	if addr == "" {
		return "localhost:8080"
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	switch host {
	case "", "0.0.0.0", "::":
		return "localhost:" + port
	}
	return net.JoinHostPort(host, port)
}
