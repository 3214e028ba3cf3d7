// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/olegiv/ocms-multilingual/internal/admin"
	"github.com/olegiv/ocms-multilingual/internal/auth"
	"github.com/olegiv/ocms-multilingual/internal/cache"
	"github.com/olegiv/ocms-multilingual/internal/config"
	"github.com/olegiv/ocms-multilingual/internal/content"
	"github.com/olegiv/ocms-multilingual/internal/i18n"
	"github.com/olegiv/ocms-multilingual/internal/logging"
	"github.com/olegiv/ocms-multilingual/internal/middleware"
	"github.com/olegiv/ocms-multilingual/internal/multilingual"
	"github.com/olegiv/ocms-multilingual/internal/scheduler"
	"github.com/olegiv/ocms-multilingual/internal/session"
	"github.com/olegiv/ocms-multilingual/internal/store"
	"github.com/olegiv/ocms-multilingual/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")
	hashPassword := flag.Bool("hash-password", false, "Read a password from stdin and print its argon2id hash for OCMS_ADMIN_PASSWORD_HASH")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "ocms-multilingual - translatable content admin\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OCMS_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OCMS_DB_DRIVER         Database driver: sqlite|mysql (default: sqlite)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OCMS_DB_PATH           SQLite database path (default: ./data/ocms.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OCMS_DB_DSN            MySQL DSN (required with OCMS_DB_DRIVER=mysql)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OCMS_LANGUAGES         Translation languages, comma separated (default: en,fr,de)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OCMS_PRIMARY_LANGUAGE  Primary language (default: first of OCMS_LANGUAGES)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OCMS_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OCMS_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OCMS_REDIS_URL         Redis URL for distributed caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OCMS_DEFAULT_ROLE      Admin role without a session role: admin|editor|viewer (default: viewer)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OCMS_ADMIN_PASSWORD_HASH  Argon2id hash enabling POST /admin/login (see -hash-password)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OCMS_EVENT_RETENTION_DAYS Days to keep event log entries, 0 keeps them (default: 90)\n")
	}

	flag.Parse()

	// Handle -h/-help flag
	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	versionInfo := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	// Handle -v/-version flag
	if *showVersion {
		_, _ = fmt.Println(versionInfo.String())
		os.Exit(0)
	}

	if *hashPassword {
		if err := printPasswordHash(); err != nil {
			_, _ = fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if err := run(versionInfo); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func printPasswordHash() error {
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return fmt.Errorf("reading password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return errors.New("empty password")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, _ = fmt.Println(hash)
	return nil
}

func run(versionInfo version.Info) error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(textHandler))
	slog.Info("starting", "version", versionInfo.Version, "commit", versionInfo.GitCommit)

	langs, err := cfg.LanguageSet()
	if err != nil {
		return fmt.Errorf("configuring languages: %w", err)
	}

	// Initialize database
	dialect := store.Dialect(cfg.DBDriver)
	if dialect == store.DialectSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	}
	slog.Info("initializing database", "driver", cfg.DBDriver)
	db, err := store.Open(dialect, cfg.DBTarget())
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db, dialect); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	st := store.New(db, dialect)

	// Upgrade logger to also write WARN and ERROR logs to the event log
	slog.SetDefault(slog.New(logging.NewEventLogHandler(textHandler, st)))
	slog.Info("event log integration enabled", "min_level", "warn")

	// Expand and materialize the content models
	ctx := context.Background()
	schemas, err := content.Schemas(langs)
	if err != nil {
		return fmt.Errorf("building content schemas: %w", err)
	}
	for _, schema := range schemas {
		if err := st.EnsureTable(ctx, schema); err != nil {
			return fmt.Errorf("creating table for %s: %w", schema.Name(), err)
		}
	}
	slog.Info("content models ready", "models", len(schemas), "languages", langs.Codes(), "primary", langs.Primary())

	if cfg.DoSeed {
		if err := content.SeedArticles(ctx, st, schemas[0]); err != nil {
			return fmt.Errorf("seeding articles: %w", err)
		}
	}

	// Record cache in front of the store
	cacher, backend := cache.New(cache.Config{
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      cfg.CacheTTLDuration(),
		MaxSize:         cfg.CacheMaxSize,
		CleanupInterval: time.Minute,
	})
	defer func() {
		if err := cacher.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()
	slog.Info("cache initialized", "backend", backend)
	records := cache.NewRecordStore(st, cacher, cfg.CacheTTLDuration())

	sched := scheduler.New(st, cfg.EventRetention(), slog.Default())
	if stats, ok := cacher.(cache.StatsProvider); ok {
		sched.WithCacheStats(stats)
	}
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	catalog, err := i18n.Load(langs.Primary())
	if err != nil {
		// The embedded catalog has no messages for this primary language.
		slog.Warn("admin messages unavailable for primary language, using English", "language", langs.Primary(), "error", err)
		if catalog, err = i18n.Load("en"); err != nil {
			return fmt.Errorf("loading admin messages: %w", err)
		}
	}

	sessionManager := session.New(db, dialect, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	site := admin.NewSite(admin.Options{
		Records:   records,
		Lister:    st,
		Events:    st,
		Catalog:   catalog,
		Sessions:  sessionManager,
		Languages: langs,
	})
	if err := registerModels(site, schemas); err != nil {
		return err
	}
	login := auth.NewHandler(sessionManager, cfg.AdminPasswordHash, st)

	r := newRouter(cfg, langs, sessionManager, site, login)

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", cfg.ServerAddr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
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

// registerModels adds the content models to the admin site.
func registerModels(site *admin.Site, schemas []*multilingual.Schema) error {
	options := map[string][]admin.Option{
		"Article": {
			admin.SearchFields("title", "summary"),
			admin.Prepopulate("slug", "title"),
			admin.HTMLFields("body"),
		},
		"Category": {admin.SearchFields("name")},
	}
	for _, schema := range schemas {
		if err := site.Register(schema, options[schema.Name()]...); err != nil {
			return fmt.Errorf("registering %s: %w", schema.Name(), err)
		}
	}
	return nil
}

func newRouter(cfg *config.Config, langs multilingual.Languages, sm *scs.SessionManager, site *admin.Site, login *auth.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	})

	csrfConfig := middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.ServerAddr(), cfg.IsDevelopment())

	r.Route(admin.DefaultBasePath, func(r chi.Router) {
		r.Use(middleware.CSRF(csrfConfig))
		// 5 writes per second with a burst of 20 per client IP
		r.Use(middleware.RateLimit(5, 20))
		r.Use(sm.LoadAndSave)
		r.Use(middleware.LoadPermissions(sm, cfg.DefaultRole))
		r.Use(middleware.Language(langs))
		r.Post("/login", login.Login)
		r.Post("/logout", login.Logout)
		r.Mount("/", site.Routes())
	})
	slog.Info("admin mounted", "path", admin.DefaultBasePath)

	return r
}
