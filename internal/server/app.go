// Package server initializes and runs the order service: it validates
// configuration, opens the database, applies schema migrations, builds the
// storage-variant strategy and starts the HTTP front end with graceful
// shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"

	"orderstore/internal/logging"
	"orderstore/internal/server/api"
	"orderstore/internal/server/config"
	"orderstore/internal/server/httpapi"
	"orderstore/internal/server/repositories/repomanager"
	"orderstore/internal/server/services"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	dispatcher *api.Dispatcher
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	repos := repomanager.NewPostgresRepositoryManager(cfg.OrdersTable, cfg.StorageMode)
	if err := repos.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	strategy, err := buildStrategy(ctx, cfg, logger, repos)
	if err != nil {
		db.Close()
		return nil, err
	}

	dispatcher := api.NewDispatcher(db, repos, strategy, logger, cfg.AllowedOrigin)

	return &App{config: cfg, logger: logger, db: db, dispatcher: dispatcher}, nil
}

// buildStrategy selects the asset strategy for the configured storage mode.
// The blob variant needs no AWS clients at all.
func buildStrategy(ctx context.Context, cfg *config.Config, logger logging.Logger, repos repomanager.RepositoryManager) (api.AssetStrategy, error) {
	switch cfg.StorageMode {
	case config.StorageModeBlob:
		return api.NewBlobAssetStrategy(repos), nil

	case config.StorageModeS3:
		minter, err := services.NewCredentialService(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("sts init error: %w", err)
		}
		assets, err := services.NewAssetService(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("s3 init error: %w", err)
		}
		uploads := services.NewUploadService(minter, cfg)
		return api.NewS3AssetStrategy(minter, uploads, assets), nil
	}

	return nil, fmt.Errorf("unknown storage mode %q", cfg.StorageMode)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewServer(app.config.EndpointAddr, app.dispatcher, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

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
