package pool

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// ErrQueueClosed is returned for jobs submitted after Close.
var ErrQueueClosed = errors.New("job queue is closed")

// JobQueue implements a buffered job queue that satisfies JobQueueReader
// and accepts jobs through EnqueueWait.
type JobQueue struct {
	jobs   chan Job
	done   chan struct{}
	mu     sync.RWMutex
	once   sync.Once
	closed bool
	logger *slog.Logger
}

// NewJobQueue creates a new job queue with the specified buffer size
func NewJobQueue(size int, logger *slog.Logger) *JobQueue {
	if size < 0 {
		size = 0
	}
	return &JobQueue{
		jobs:   make(chan Job, size),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// EnqueueWait adds a job to the queue, blocking until there is room, the
// queue is closed, or ctx is done.
func (q *JobQueue) EnqueueWait(ctx context.Context, job Job) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.jobs <- job:
		q.logEnqueued(job)
		return nil
	case <-q.done:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close closes the job queue, preventing further job submission.
// Blocked EnqueueWait callers are released with ErrQueueClosed.
func (q *JobQueue) Close() {
	q.once.Do(func() {
		close(q.done)

		q.mu.Lock()
		q.closed = true
		close(q.jobs)
		q.mu.Unlock()

		q.logger.Info("job queue closed")
	})
}

// GetChannel returns a read-only channel for consuming jobs
func (q *JobQueue) GetChannel() <-chan Job {
	return q.jobs
}

// Len returns the number of jobs waiting in the buffer.
func (q *JobQueue) Len() int {
	return len(q.jobs)
}

func (q *JobQueue) logEnqueued(job Job) {
	q.logger.Debug("job enqueued",
		"job_id", job.ID(),
		"job_type", job.Type(),
		"queue_len", len(q.jobs),
		"queue_cap", cap(q.jobs))
}
