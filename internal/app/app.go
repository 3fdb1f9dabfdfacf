package app

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vadim/clipcast/internal/config"
	httpcontroller "github.com/vadim/clipcast/internal/controller/http"
	"github.com/vadim/clipcast/internal/database"
	librarydao "github.com/vadim/clipcast/internal/domain/library/dao"
	"github.com/vadim/clipcast/internal/domain/realign/entity"
	"github.com/vadim/clipcast/internal/domain/realign/policy"
	"github.com/vadim/clipcast/internal/domain/realign/scheduler"
	"github.com/vadim/clipcast/internal/domain/realign/service"
	"github.com/vadim/clipcast/internal/httpx/upstream/postiz"
	"github.com/vadim/clipcast/internal/scheduleconf"
	"github.com/vadim/clipcast/internal/storage"
)

// App is the main application container
type App struct {
	cfg        config.Config
	httpServer *http.Server
	router     *chi.Mux
	logger     *slog.Logger
	pool       *pgxpool.Pool

	// Loaded calendar and rules (read-only after startup)
	schedule entity.ScheduleConfig
	rules    []entity.PriorityRule

	// Realignment use-cases (interface for HTTP handlers)
	realignPolicy *policy.Policy

	// Scheduler for periodic realignment runs
	scheduler *scheduler.Scheduler
}

// NewApp creates and initializes the application
func NewApp(ctx context.Context, cfg config.Config) (*App, error) {
	// Initialize logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Initialize router with middleware
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.Timeout(30 * time.Second))

	app := &App{
		cfg:    cfg,
		router: r,
		logger: logger,
	}

	// Load the recurring calendar
	schedule, rules, err := scheduleconf.Load(cfg.Realign.ScheduleConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading schedule config: %w", err)
	}
	app.schedule = schedule
	app.rules = rules

	// Initialize domain layers
	if err := app.initDomains(ctx); err != nil {
		return nil, fmt.Errorf("initializing domains: %w", err)
	}

	// Register routes
	app.registerRoutes()

	// Initialize HTTP server
	app.httpServer = &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      app.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Initialize scheduler
	if cfg.Scheduler.Enabled {
		app.scheduler = scheduler.New(app.realignPolicy, cfg.Scheduler.Interval, logger)
	}

	return app, nil
}

// initDomains initializes domain layers (DAO, Service, Policy)
func (a *App) initDomains(ctx context.Context) error {
	// Initialize post store client
	postizClient := postiz.New(
		postiz.WithBaseURL(a.cfg.Postiz.BaseURL),
		postiz.WithAPIKey(a.cfg.Postiz.APIKey),
	)
	store := postiz.NewStore(postizClient)

	// Initialize published-item index: Postgres when a DSN is
	// configured, an always-miss in-memory index otherwise.
	var items librarydao.PublishedItemRepository
	if a.cfg.Database.PostgresDSN != "" {
		pool, err := database.NewPostgresPool(ctx, a.cfg.Database.PostgresDSN, database.PoolSettings{
			MaxConns: a.cfg.Database.MaxConns,
			MinConns: a.cfg.Database.MinConns,
		})
		if err != nil {
			return fmt.Errorf("connecting to postgres: %w", err)
		}
		a.pool = pool
		items = librarydao.NewItemPostgres(pool)
	} else {
		a.logger.Warn("no database configured, clip-type lookups will all miss")
		items = librarydao.NewItemMemory()
	}

	// Initialize realignment core
	svc := service.New(
		a.schedule,
		&clipTypeIndexAdapter{items: items},
		store,
		rand.Float64,
		a.cfg.Realign.HorizonDays,
		a.logger,
	)

	// Initialize plan archive (optional)
	var archive policy.PlanArchive
	if a.cfg.S3.Bucket != "" {
		archive = storage.NewS3PlanArchive(storage.S3Config{
			Endpoint:        a.cfg.S3.Endpoint,
			AccessKeyID:     a.cfg.S3.AccessKeyID,
			SecretAccessKey: a.cfg.S3.SecretAccessKey,
			Bucket:          a.cfg.S3.Bucket,
			Region:          a.cfg.S3.Region,
		})
	}

	// Initialize policy
	a.realignPolicy = policy.New(svc, store, archive, a.rules, a.logger)

	return nil
}

// registerRoutes registers all HTTP routes
func (a *App) registerRoutes() {
	// Health check
	a.router.Get("/healthz", a.healthHandler)
	a.router.Get("/readyz", a.readyHandler)

	// API v1
	a.router.Route("/api/v1", func(r chi.Router) {
		realignHandler := httpcontroller.NewRealignHandler(a.realignPolicy)
		realignHandler.RegisterRoutes(r)

		scheduleHandler := httpcontroller.NewScheduleHandler(a.schedule, a.rules)
		scheduleHandler.RegisterRoutes(r)
	})
}

// healthHandler handles health check requests
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// readyHandler handles readiness check requests
func (a *App) readyHandler(w http.ResponseWriter, r *http.Request) {
	if a.pool != nil {
		if err := a.pool.Ping(r.Context()); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"database unavailable"}`))
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}

// Run starts the application and blocks until shutdown signal
func (a *App) Run(ctx context.Context) error {
	// Start scheduler if enabled
	if a.scheduler != nil {
		a.scheduler.Start(ctx)
	}

	// Channel to receive errors from server
	errCh := make(chan error, 1)

	// Start HTTP server in goroutine
	go func() {
		a.logger.Info("starting HTTP server", "addr", a.cfg.Server.Address())
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		a.logger.Info("received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
		a.logger.Info("context cancelled")
	}

	// Graceful shutdown
	return a.Shutdown(context.Background())
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down...")

	// Stop scheduler
	if a.scheduler != nil {
		a.scheduler.Stop()
	}

	// Shutdown HTTP server with timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down HTTP server: %w", err)
	}

	if a.pool != nil {
		a.pool.Close()
	}

	a.logger.Info("shutdown complete")
	return nil
}

// clipTypeIndexAdapter adapts the library repository to service.ClipTypeIndex
type clipTypeIndexAdapter struct {
	items librarydao.PublishedItemRepository
}

func (a *clipTypeIndexAdapter) LookupClipType(ctx context.Context, postID string) (entity.ClipType, bool, error) {
	clipType, found, err := a.items.LookupClipType(ctx, postID)
	if err != nil || !found {
		return "", false, err
	}
	return entity.ClipType(clipType), true, nil
}
