// Command taskdemo walks through the task store and a concurrent bulk status
// update: it adds four tasks, lists those in progress, completes all of them
// concurrently and then visits every task.
//
// Delays and pool sizes come from the same configuration as the server, so
// TASKTRACKER_UPDATER_MIN_DELAY=0 TASKTRACKER_UPDATER_MAX_DELAY=0 makes the
// run instant.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phrazzld/tasktracker/internal/config"
	"github.com/phrazzld/tasktracker/internal/domain"
	"github.com/phrazzld/tasktracker/internal/platform/logger"
	"github.com/phrazzld/tasktracker/internal/pool"
	"github.com/phrazzld/tasktracker/internal/store"
	"github.com/phrazzld/tasktracker/internal/updater"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Logs go to stderr so stdout carries only the walkthrough.
	l := logger.New(os.Stderr, cfg.Server.LogLevel)
	if err := run(ctx, os.Stdout, cfg.Updater, l); err != nil {
		log.Fatalf("taskdemo: %v", err)
	}
}

// drainTimeout bounds how long run waits for in-flight completions on exit.
var drainTimeout = 10 * time.Second

var demoTasks = []struct {
	title  string
	status domain.Status
}{
	{"Buy groceries", domain.StatusTodo},
	{"Read book", domain.StatusTodo},
	{"Exercise", domain.StatusInProgress},
	{"Clean house", domain.StatusInProgress},
}

func run(ctx context.Context, out io.Writer, cfg config.UpdaterConfig, logger *slog.Logger) error {
	s := store.NewTaskStore()
	for _, dt := range demoTasks {
		task, err := domain.NewTask(dt.title, dt.status)
		if err != nil {
			return err
		}
		if err := s.Add(task); err != nil {
			return err
		}
	}

	fmt.Fprintln(out, "Tasks in progress:")
	for _, task := range s.ListByStatus(domain.StatusInProgress) {
		fmt.Fprintln(out, task.Title)
	}

	workers := pool.New(pool.Config{WorkerCount: cfg.WorkerCount, QueueSize: cfg.QueueSize}, logger)
	coordinator := pool.NewSerialQueue(cfg.QueueSize, logger)
	workers.Start()
	coordinator.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
		defer cancel()
		if err := workers.Shutdown(ctx); err != nil {
			logger.Error("Error draining completion pool", "error", err)
		}
		if err := coordinator.Shutdown(ctx); err != nil {
			logger.Error("Error draining coordination queue", "error", err)
		}
	}()

	completer := updater.NewSimulatedCompleter(
		updater.RandomDelay(cfg.MinDelay, cfg.MaxDelay),
		updater.NewRateLimiter(cfg.RateLimit, cfg.RateBurst),
	)
	u, err := updater.NewUpdater(workers, coordinator, completer, logger, updater.WithDeadline(cfg.Deadline))
	if err != nil {
		return err
	}

	// The store is only read again once every completion has been published.
	if _, err := u.UpdateAllAndWait(ctx, s); err != nil {
		return err
	}
	fmt.Fprintln(out, "Task statuses updated to 'done'")

	return s.ApplyToAll(func(task *domain.Task) error {
		fmt.Fprintf(out, "Action performed on: %s\n", task.Title)
		return nil
	})
}
