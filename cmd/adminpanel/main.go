// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/naby001/admin-panel/internal/audit"
	"github.com/naby001/admin-panel/internal/cache"
	"github.com/naby001/admin-panel/internal/config"
	"github.com/naby001/admin-panel/internal/handler"
	"github.com/naby001/admin-panel/internal/middleware"
	"github.com/naby001/admin-panel/internal/model"
	"github.com/naby001/admin-panel/internal/scheduler"
	"github.com/naby001/admin-panel/internal/seed"
	"github.com/naby001/admin-panel/internal/service"
	"github.com/naby001/admin-panel/internal/session"
	"github.com/naby001/admin-panel/internal/store"
	"github.com/naby001/admin-panel/internal/store/ops"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "admin-panel - Festival administration panel\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ADMIN_PANEL_SESSION_SECRET       Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ADMIN_PANEL_MONGO_URI            Registration database URI (default: mongodb://127.0.0.1:27017)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ADMIN_PANEL_MONGO_DB             Registration database name (default: festival)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ADMIN_PANEL_OPS_DB_PATH          Operational SQLite path (default: ./data/adminpanel.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ADMIN_PANEL_SERVER_PORT          Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ADMIN_PANEL_ENV                  Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ADMIN_PANEL_ADMIN_EMAILS         Comma-separated admin allow-list\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ADMIN_PANEL_ADMIN_EMAIL          Sign-in account email\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ADMIN_PANEL_ADMIN_PASSWORD_HASH  Argon2id hash of the sign-in password\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ADMIN_PANEL_REDIS_URL            Redis URL for distributed caching (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("admin-panel %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Ensure data directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.OpsDBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	// Operational database: sessions and audit log
	slog.Info("initializing operational database", "path", cfg.OpsDBPath)
	opsDB, err := ops.NewDB(cfg.OpsDBPath)
	if err != nil {
		return fmt.Errorf("initializing operational database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing operational database", "error", err)
		}
	}(opsDB)

	slog.Info("running migrations")
	if err := ops.Migrate(opsDB); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// Upgrade logger to also write WARN and ERROR records to the audit log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(audit.NewHandler(textHandler, opsDB))
	slog.SetDefault(logger)
	slog.Info("audit log integration enabled", "min_level", "warn")

	// Registration database (read-only from this panel's perspective)
	ctx := context.Background()
	slog.Info("connecting to registration database", "uri", cfg.MongoURI, "db", cfg.MongoDatabase)
	client, err := store.Open(ctx, cfg.MongoURI)
	if err != nil {
		return fmt.Errorf("connecting to registration database: %w", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			slog.Error("error disconnecting registration database", "error", err)
		}
	}()
	st := store.New(client, cfg.MongoDatabase)

	if cfg.DoSeed {
		if err := seed.New(st, logger).Run(ctx); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
	}

	// Sessions
	sessionManager := session.New(opsDB, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	// Event summary cache
	cacher, err := cache.New(cache.Config{
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      time.Duration(cfg.CacheTTL) * time.Second,
		MaxSize:         cfg.CacheMaxSize,
		CleanupInterval: time.Minute,
	})
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() {
		if err := cacher.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()
	if cfg.UseRedisCache() {
		slog.Info("cache initialized", "backend", "redis", "url", cfg.RedisURL)
	} else {
		slog.Info("cache initialized", "backend", "memory")
	}

	// Services
	summaryCache := cache.NewTypedCache[model.EventSummary](cacher, time.Duration(cfg.CacheTTL)*time.Second)
	eventService := service.NewEventService(st.Events)
	teamService := service.NewTeamService(st.Teams, st.Events, st.Users, summaryCache)

	// Audit recorder and scheduler
	recorder := audit.NewRecorder(opsDB)
	sched := scheduler.New(recorder, cacher, cfg.AuditRetentionDays, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	// Handlers
	renderer, err := handler.NewRenderer()
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())

	apiHandler := handler.NewAPIHandler(eventService, teamService)
	authHandler := handler.NewAuthHandler(cfg, sessionManager, renderer, loginProtection, recorder)
	pageHandler := handler.NewPageHandler(renderer, sessionManager)
	exportHandler := handler.NewExportHandler(teamService, st.Events)
	healthHandler := handler.NewHealthHandler(st, opsDB, appVersion)
	docsHandler, err := handler.NewDocsHandler(renderer)
	if err != nil {
		return fmt.Errorf("initializing docs handler: %w", err)
	}

	r := buildRouter(cfg, sessionManager, loginProtection,
		apiHandler, authHandler, pageHandler, exportHandler, healthHandler, docsHandler)

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// buildRouter wires the middleware stack and routes.
func buildRouter(
	cfg *config.Config,
	sm *scs.SessionManager,
	loginProtection *middleware.LoginProtection,
	apiHandler *handler.APIHandler,
	authHandler *handler.AuthHandler,
	pageHandler *handler.PageHandler,
	exportHandler *handler.ExportHandler,
	healthHandler *handler.HealthHandler,
	docsHandler *handler.DocsHandler,
) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(sm.LoadAndSave)
	r.Use(middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment(), cfg.ServerAddr())))

	// Health probes, unauthenticated
	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	// Sign-in
	r.Group(func(r chi.Router) {
		r.Use(loginProtection.Middleware())
		r.Get("/login", authHandler.LoginForm)
		r.Post("/login", authHandler.Login)
	})
	r.Get("/logout", authHandler.Logout)
	r.Post("/logout", authHandler.Logout)
	r.Get("/forbidden", pageHandler.Forbidden)

	// JSON endpoints: session required, checked before any query
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAPISession(sm))
		r.Get("/api/events", apiHandler.ListEvents)
		r.Get("/api/teams", apiHandler.ListTeams)
	})

	// Panel pages: session plus allow-list membership required
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequirePageSession(sm))
		r.Use(middleware.RequireAdmin(sm))
		r.Get("/", pageHandler.Dashboard)
		r.Get("/events", pageHandler.Events)
		r.Get("/teams", pageHandler.Teams)
		r.Get("/teams/export", exportHandler.Teams)
		r.Get("/help", docsHandler.Help)
	})

	return r
}
