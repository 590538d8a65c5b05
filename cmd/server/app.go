package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/tasktracker/internal/api"
	"github.com/phrazzld/tasktracker/internal/config"
	"github.com/phrazzld/tasktracker/internal/events"
	"github.com/phrazzld/tasktracker/internal/metrics"
	"github.com/phrazzld/tasktracker/internal/pool"
	"github.com/phrazzld/tasktracker/internal/store"
	"github.com/phrazzld/tasktracker/internal/updater"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// shutdownTimeout bounds how long queued jobs may keep running on shutdown.
const shutdownTimeout = 10 * time.Second

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	registry  *prometheus.Registry
	taskStore *store.TaskStore

	// workers runs completion jobs; coordinator runs completion callbacks one at a time.
	workers     *pool.Pool
	coordinator *pool.Pool

	eventEmitter *events.InMemoryEventEmitter
	updater      *updater.Updater
	tracker      *api.UpdateTracker
}

// newApplication creates a new application instance with all dependencies
// initialized and the pools started.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config:    cfg,
		logger:    logger,
		registry:  prometheus.NewRegistry(),
		taskStore: store.NewTaskStore(),
	}

	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder, err := metrics.NewRecorder(app.registry)
	if err != nil {
		return nil, fmt.Errorf("failed to register update metrics: %w", err)
	}
	if err := metrics.RegisterTaskGauges(app.registry, app.taskStore.CountByStatus); err != nil {
		return nil, fmt.Errorf("failed to register task gauges: %w", err)
	}

	app.workers = pool.New(pool.Config{
		WorkerCount: cfg.Updater.WorkerCount,
		QueueSize:   cfg.Updater.QueueSize,
		OnError:     countFailures(recorder, "completion"),
	}, logger.With("component", "completion_pool"))
	// A single worker keeps completion callbacks serialized.
	app.coordinator = pool.New(pool.Config{
		WorkerCount: 1,
		QueueSize:   cfg.Updater.QueueSize,
		OnError:     countFailures(recorder, "coordination"),
	}, logger.With("component", "coordination_queue"))

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.tracker = api.NewUpdateTracker(api.DefaultTrackerHistory, logger)
	app.eventEmitter.Subscribe(updater.EventTypeUpdateCompleted, app.tracker)

	completer := updater.NewSimulatedCompleter(
		updater.RandomDelay(cfg.Updater.MinDelay, cfg.Updater.MaxDelay),
		updater.NewRateLimiter(cfg.Updater.RateLimit, cfg.Updater.RateBurst),
	)
	app.updater, err = updater.NewUpdater(app.workers, app.coordinator, completer, logger,
		updater.WithDeadline(cfg.Updater.Deadline),
		updater.WithObserver(recorder),
		updater.WithEventEmitter(app.eventEmitter),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create status updater: %w", err)
	}

	app.workers.Start()
	app.coordinator.Start()

	logger.Info("Application initialized successfully")
	return app, nil
}

func countFailures(recorder *metrics.Recorder, poolName string) func(pool.Job, error) {
	return func(job pool.Job, _ error) {
		recorder.JobFailed(poolName, job.Type())
	}
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup drains the worker pool first so that pending completion callbacks
// still reach the coordination queue, then drains that.
func (app *application) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.workers.Shutdown(ctx); err != nil {
		app.logger.Error("Error draining completion pool", "error", err)
	}
	if err := app.coordinator.Shutdown(ctx); err != nil {
		app.logger.Error("Error draining coordination queue", "error", err)
	}

	app.logger.Info("Application shutdown completed")
}
