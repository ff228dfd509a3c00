// Package server wires configuration, storage, the document store and the
// HTTP API into a runnable application with graceful shutdown.
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

	"github.com/redis/go-redis/v9"

	"github.com/signdesk/signdesk/internal/docstore"
	"github.com/signdesk/signdesk/internal/logging"
	"github.com/signdesk/signdesk/internal/server/cache"
	"github.com/signdesk/signdesk/internal/server/config"
	"github.com/signdesk/signdesk/internal/server/contacts"
	"github.com/signdesk/signdesk/internal/server/documents"
	"github.com/signdesk/signdesk/internal/server/httpapi"
	"github.com/signdesk/signdesk/internal/server/repositories/repomanager"
	"github.com/signdesk/signdesk/internal/server/users"
	"github.com/signdesk/signdesk/internal/signing"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger

	db    *sql.DB
	rm    repomanager.RepositoryManager
	redis *redis.Client
	store *docstore.Store
	api   *httpapi.API
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	blacklist := cache.NewRedisBlacklist(rdb)

	snap, err := newSnapshotter(cfg)
	if err != nil {
		return nil, err
	}
	store := docstore.NewStore(snap, logger)

	userSvc := users.NewService(db, rm, blacklist, cfg)
	contactSvc := contacts.NewService(db, rm)
	docSvc := documents.NewService(store, signing.NewManager(logger), logger)

	api := httpapi.NewAPI(userSvc, contactSvc, docSvc, logger)

	return &App{
		config: cfg,
		logger: logger,
		db:     db,
		rm:     rm,
		redis:  rdb,
		store:  store,
		api:    api,
	}, nil
}

func newSnapshotter(cfg *config.Config) (docstore.Snapshotter, error) {
	switch cfg.SnapshotBackend {
	case config.SnapshotBackendFile:
		return docstore.NewFileSnapshot(cfg.SnapshotFilePath)
	case config.SnapshotBackendS3:
		return docstore.NewS3Snapshot(docstore.S3Config{
			RootUser:     cfg.S3RootUser,
			RootPassword: cfg.S3RootPassword,
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
			Key:          cfg.S3SnapshotKey,
		}), nil
	default:
		return nil, fmt.Errorf("unknown snapshot backend %q", cfg.SnapshotBackend)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app", "addr", app.config.EndpointAddrHTTP)

	app.initSignalHandler(cancelFunc)

	if err := app.rm.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migrations error: %w", err)
	}

	app.store.Load(ctx)

	srv := &http.Server{
		Addr:    app.config.EndpointAddrHTTP,
		Handler: app.api.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(context.Background(), "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "http shutdown error", "error", err)
	}

	// drain any pending snapshot write before releasing resources
	if err := app.store.Flush(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "snapshot flush error", "error", err)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error(shutdownCtx, "db close error", "error", err)
	}
	if err := app.redis.Close(); err != nil {
		app.logger.Error(shutdownCtx, "redis close error", "error", err)
	}

	return nil
}
