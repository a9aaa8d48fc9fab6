// Package server initializes and runs the todo API server. Startup is
// two-phase: connect and health-check every backend first, then serve.
// An instance that cannot reach its store or cache at boot aborts
// instead of running with degraded auth.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"github.com/danial-baraty/express-todo-api/internal/password"
	"github.com/danial-baraty/express-todo-api/internal/server/auth"
	"github.com/danial-baraty/express-todo-api/internal/server/cache"
	"github.com/danial-baraty/express-todo-api/internal/server/config"
	"github.com/danial-baraty/express-todo-api/internal/server/httpapi"
	"github.com/danial-baraty/express-todo-api/internal/server/tasks"
	"github.com/danial-baraty/express-todo-api/internal/server/users"
)

// App owns the process-wide shared clients (Postgres pool, Redis client)
// and the HTTP server built on top of them. Clients are created once in
// NewApp and reused for the process lifetime.
type App struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB
	rdb    *redis.Client
	api    *httpapi.Server
}

// NewApp loads dependencies in startup order: config validation, then
// Postgres, then Redis, each bounded by the configured connect timeout.
// Any failure here is fatal for the process.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, err := connectPostgres(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	logger.Info("connected to PostgreSQL")

	userRepo := users.NewPostgresRepository(db)
	taskRepo := tasks.NewPostgresRepository(db)
	if err := userRepo.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	if err := taskRepo.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	rdb, err := cache.Connect(ctx, cfg.RedisAddr, cfg.ConnectTimeout)
	if err != nil {
		return nil, fmt.Errorf("redis init error: %w", err)
	}
	logger.Info("connected to Redis", "addr", cfg.RedisAddr)

	tokens, err := auth.NewManager([]byte(cfg.JWTSecret), cfg.TokenTTL)
	if err != nil {
		return nil, err
	}

	hasher := password.NewHasher()
	userService := users.NewService(userRepo, hasher, tokens)
	taskService := tasks.NewService(taskRepo)
	userCache := cache.New(rdb, cfg.CacheTTL)

	api := httpapi.NewServer(httpapi.Options{
		Users:        userService,
		Tasks:        taskService,
		Tokens:       tokens,
		UserCache:    userCache,
		UserRepo:     userRepo,
		Logger:       logger,
		TokenTTL:     cfg.TokenTTL,
		SecureCookie: cfg.SecureCookie,
	})

	return &App{config: cfg, logger: logger, db: db, rdb: rdb, api: api}, nil
}

func connectPostgres(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Run serves HTTP until ctx is cancelled or a termination signal
// arrives, then shuts the server down gracefully and closes the shared
// clients.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	srv := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: app.api.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info("server running", "addr", app.config.EndpointAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		app.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}

	if err := app.rdb.Close(); err != nil {
		app.logger.Warn("closing redis client", "error", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Warn("closing db pool", "error", err)
	}

	return nil
}
