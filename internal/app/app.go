package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/chrissnell/airquality/internal/controllers/restserver"
	"github.com/chrissnell/airquality/internal/dataset"
	"github.com/chrissnell/airquality/internal/loader"
	"github.com/chrissnell/airquality/internal/log"
	"github.com/chrissnell/airquality/internal/metrics"
	"github.com/chrissnell/airquality/pkg/config"
	"go.uber.org/zap"
)

// App represents the main application
type App struct {
	cfg    *config.ConfigData
	logger *zap.SugaredLogger
}

// New creates a new application instance
func New(cfg *config.ConfigData, logger *zap.SugaredLogger) *App {
	return &App{
		cfg:    cfg,
		logger: logger,
	}
}

// Run loads the data directory, starts the dashboard server and blocks until
// shutdown. A failed initial load aborts startup.
func (a *App) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := metrics.New()

	l := loader.New(a.cfg.Data.Dir, a.cfg.Data.Pattern, log.Named("loader"))
	store, err := dataset.NewStore(ctx, l, log.Named("dataset"), m.TableLoaded)
	if err != nil {
		return fmt.Errorf("unable to load air quality data: %w", err)
	}

	if a.cfg.Data.Watch {
		watcher, err := dataset.NewWatcher(store, a.cfg.Data.Dir, a.cfg.Data.WatchDebounce)
		if err != nil {
			return err
		}
		watcher.Start(ctx, &wg)
		a.logger.Infow("watching data directory for changes", "dir", a.cfg.Data.Dir, "debounce", a.cfg.Data.WatchDebounce)
	}

	ctrl, err := restserver.NewController(ctx, &wg, a.cfg, store, m, log.Named("restserver"))
	if err != nil {
		return err
	}
	if err := ctrl.StartController(); err != nil {
		return err
	}

	a.logger.Info("Application started successfully")

	// Set up signal handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	// Wait for shutdown signal
	select {
	case <-sigs:
		a.logger.Info("shutdown signal received, initiating graceful shutdown...")
	case <-ctx.Done():
		a.logger.Info("context cancelled, shutting down...")
	}

	// Cancel context to signal all goroutines to stop
	cancel()

	// Wait for all workers to terminate
	a.logger.Info("waiting for all workers to terminate...")
	wg.Wait()
	a.logger.Info("shutdown complete")

	return nil
}
