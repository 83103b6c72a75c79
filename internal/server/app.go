// Package server initializes and runs the review API server.
// It opens the database, applies migrations, assembles the album-metadata
// gateway chain, and serves HTTP with graceful shutdown on OS signals.
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
	"sync"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"github.com/mberzins/discnote/internal/logging"
	"github.com/mberzins/discnote/internal/server/albums"
	"github.com/mberzins/discnote/internal/server/config"
	"github.com/mberzins/discnote/internal/server/httpapi"
	"github.com/mberzins/discnote/internal/server/repositories/repomanager"
	"github.com/mberzins/discnote/internal/server/services"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	handler http.Handler
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	gateway := newAlbumGateway(cfg, logger)

	authService := services.NewAuthService(db, m, cfg)
	reviewService := services.NewReviewService(db, m, gateway, logger)

	handler := httpapi.NewHandler(authService, reviewService, db, logger).Routes()

	return &App{config: cfg, logger: logger, db: db, handler: handler}, nil
}

// newAlbumGateway builds the catalogue client, wrapped in a Redis
// read-through cache when a cache address is configured.
func newAlbumGateway(cfg *config.Config, logger logging.Logger) albums.Gateway {
	var gateway albums.Gateway = albums.NewSpotifyClient(
		cfg.SpotifyAccountsURL, cfg.SpotifyAPIURL,
		cfg.SpotifyClientID, cfg.SpotifyClientSecret,
	)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		gateway = albums.NewCachedGateway(gateway, rdb, cfg.AlbumCacheTTL, logger)
	}
	return gateway
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	srv := &http.Server{
		Addr:              app.config.EndpointAddrHTTP,
		Handler:           app.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	app.logger.Info(ctx, "HTTP server listening", "addr", app.config.EndpointAddrHTTP)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
}
