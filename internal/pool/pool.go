package pool

import (
	"context"
	"log/slog"
)

// Config holds configuration for a Pool
type Config struct {
	// WorkerCount determines how many concurrent workers process jobs
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory job queue
	QueueSize int

	// OnError, if set, is called from the worker goroutine for every job
	// that returns an error or panics.
	OnError func(job Job, err error)
}

// Pool couples a JobQueue with the WorkerPool consuming it.
type Pool struct {
	queue   *JobQueue
	workers *WorkerPool
	logger  *slog.Logger
}

// New creates a Pool. Call Start before submitting jobs.
func New(config Config, logger *slog.Logger) *Pool {
	queue := NewJobQueue(config.QueueSize, logger)
	workers := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: config.WorkerCount}, logger)
	if config.OnError != nil {
		workers.SetErrorHandler(config.OnError)
	}
	return &Pool{
		queue:   queue,
		workers: workers,
		logger:  logger,
	}
}

// NewSerialQueue creates a single-worker Pool. Jobs submitted to it run one
// at a time, in submission order, on the same goroutine.
func NewSerialQueue(queueSize int, logger *slog.Logger) *Pool {
	return New(Config{WorkerCount: 1, QueueSize: queueSize}, logger)
}

// Start launches the workers.
func (p *Pool) Start() {
	p.workers.Start()
}

// Submit queues a job, blocking while the queue is full.
func (p *Pool) Submit(ctx context.Context, job Job) error {
	return p.queue.EnqueueWait(ctx, job)
}

// Shutdown stops accepting jobs, lets the workers finish what is queued and
// returns once they exit. If ctx ends first, running jobs are cancelled.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.queue.Close()
	return p.workers.Drain(ctx)
}
