package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/inkforge/inkforge-api/internal/api"
	"github.com/inkforge/inkforge-api/internal/config"
	"github.com/inkforge/inkforge-api/internal/domain"
	"github.com/inkforge/inkforge-api/internal/platform/jimeng"
	"github.com/inkforge/inkforge-api/internal/platform/logger"
	"github.com/inkforge/inkforge-api/internal/platform/sqlite"
	"github.com/inkforge/inkforge-api/internal/platform/volcengine"
	"github.com/inkforge/inkforge-api/internal/provider"
	"github.com/inkforge/inkforge-api/internal/service"
	"github.com/inkforge/inkforge-api/internal/task"
)

// application holds the wired dependencies of the server process.
type application struct {
	config *config.Config
	logger *slog.Logger

	store  *sqlite.Store
	runner *task.Runner

	accountHandler *api.AccountHandler
	taskHandler    *api.TaskHandler
	statsHandler   *api.StatsHandler
	uploadHandler  *api.UploadHandler
}

// newApplication loads configuration and wires all application components.
func newApplication(ctx context.Context) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger := logger.Setup(cfg.Server)
	appLogger.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"store_path", cfg.Store.Path)

	snapshots, err := sqlite.Open(ctx, cfg.Store.Path, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot store: %w", err)
	}

	providers := provider.NewRegistry()
	providers.Register(domain.ProviderVolcengine, volcengine.New(appLogger))
	providers.Register(domain.ProviderJimeng, jimeng.New(appLogger))
	appLogger.Info("provider registry ready", "kinds", providers.Kinds())

	queue := task.NewQueue(cfg.Dispatch.QueueSize, appLogger)
	runner := task.NewRunner(queue, task.RunnerConfig{
		WorkerCount: cfg.Dispatch.WorkerCount,
		QueueSize:   cfg.Dispatch.QueueSize,
	}, appLogger)
	dispatcher := task.NewDispatcher(runner, snapshots, providers, appLogger)

	accounts := service.NewAccountService(snapshots, appLogger)
	tasks := service.NewTaskService(snapshots, dispatcher, appLogger)
	stats := service.NewStatsService(snapshots, appLogger)

	return &application{
		config:         cfg,
		logger:         appLogger,
		store:          snapshots,
		runner:         runner,
		accountHandler: api.NewAccountHandler(accounts, appLogger),
		taskHandler:    api.NewTaskHandler(tasks, appLogger),
		statsHandler:   api.NewStatsHandler(stats, appLogger),
		uploadHandler:  api.NewUploadHandler(cfg.Upload.MaxBytes, appLogger),
	}, nil
}

// run starts the dispatch workers and the HTTP server, blocking until
// shutdown completes.
func (app *application) run(ctx context.Context) error {
	app.runner.Start()
	defer app.cleanup()

	return app.startHTTPServer(ctx, app.setupRouter())
}

// cleanup releases long-lived resources in reverse wiring order.
func (app *application) cleanup() {
	app.runner.Stop()
	if err := app.store.Close(); err != nil {
		app.logger.Error("failed to close snapshot store", "error", err)
	}
}
