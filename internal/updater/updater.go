package updater

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktracker/internal/domain"
	"github.com/phrazzld/tasktracker/internal/events"
	"github.com/phrazzld/tasktracker/internal/pool"
	"github.com/phrazzld/tasktracker/internal/store"
)

// EventTypeUpdateCompleted is emitted after every finished update. The
// payload is the JSON-encoded Report.
const EventTypeUpdateCompleted = "tasks.update_completed"

// Job type identifiers, used in logs.
const (
	jobTypeCompletion = "task_completion"
	jobTypeCallback   = "update_callback"
)

// Store is the part of the task store an update needs.
type Store interface {
	Snapshot() []domain.Task
	Publish(entries []store.Entry) error
}

// Submitter accepts jobs for asynchronous execution.
type Submitter interface {
	Submit(ctx context.Context, job pool.Job) error
}

// Observer receives lifecycle notifications, typically to record metrics.
type Observer interface {
	UpdateStarted(total int)
	UnitFinished(err error, elapsed time.Duration)
	UpdateFinished(outcome string, elapsed time.Duration)
}

// CompletionFunc is invoked exactly once per update, after publish, on the
// coordination queue.
type CompletionFunc func(report Report)

// Option configures an Updater.
type Option func(*Updater)

// WithDeadline releases the join barrier after d even if some jobs have not
// reported. Zero, the default, waits forever.
func WithDeadline(d time.Duration) Option {
	return func(u *Updater) {
		u.deadline = d
	}
}

// WithObserver registers an Observer.
func WithObserver(o Observer) Option {
	return func(u *Updater) {
		u.observer = o
	}
}

// WithEventEmitter makes the updater emit EventTypeUpdateCompleted events.
func WithEventEmitter(e events.EventEmitter) Option {
	return func(u *Updater) {
		u.emitter = e
	}
}

// Updater runs concurrent bulk status updates.
type Updater struct {
	workers     Submitter
	coordinator Submitter
	completer   Completer
	deadline    time.Duration
	observer    Observer
	emitter     events.EventEmitter
	logger      *slog.Logger
}

// NewUpdater creates an Updater. Completion jobs run on workers; callbacks
// run on coordinator, which should execute jobs one at a time (see
// pool.NewSerialQueue) so that callbacks never race each other.
func NewUpdater(
	workers Submitter,
	coordinator Submitter,
	completer Completer,
	logger *slog.Logger,
	opts ...Option,
) (*Updater, error) {
	if workers == nil {
		return nil, errors.New("workers cannot be nil")
	}
	if coordinator == nil {
		return nil, errors.New("coordinator cannot be nil")
	}
	if completer == nil {
		return nil, errors.New("completer cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	u := &Updater{
		workers:     workers,
		coordinator: coordinator,
		completer:   completer,
		observer:    noopObserver{},
		logger:      logger.With("component", "status_updater"),
	}
	for _, opt := range opts {
		opt(u)
	}
	if u.deadline < 0 {
		u.deadline = 0
	}
	return u, nil
}

// UpdateAllConcurrently marks every task currently in s as done. The
// snapshot is taken before the call returns; everything else happens in
// the background, and onComplete is invoked exactly once afterwards.
//
// Tasks added to s after the call returns are not part of the update.
// Concurrent updates of the same store are not coordinated with each other.
func (u *Updater) UpdateAllConcurrently(s Store, onComplete CompletionFunc) uuid.UUID {
	id := uuid.New()
	snapshot := s.Snapshot()
	started := time.Now()

	u.observer.UpdateStarted(len(snapshot))
	u.logger.Info("update started", "update_id", id, "task_count", len(snapshot))

	go u.coordinate(id, s, snapshot, started, onComplete)
	return id
}

// UpdateAllAndWait runs UpdateAllConcurrently and blocks until its report is
// delivered or ctx is done. Giving up on ctx does not stop the update.
func (u *Updater) UpdateAllAndWait(ctx context.Context, s Store) (Report, error) {
	reports := make(chan Report, 1)
	u.UpdateAllConcurrently(s, func(report Report) {
		reports <- report
	})

	select {
	case report := <-reports:
		return report, report.Err()
	case <-ctx.Done():
		return Report{}, ctx.Err()
	}
}

// unitResult is what a completion job hands back to the coordinator.
type unitResult struct {
	index int
	task  domain.Task
	err   error
}

// coordinate fans out one job per task, joins on their results, publishes
// and schedules the callback. It is the only goroutine touching snapshot.
//
// The deadline covers submission as well as the barrier: a full queue in
// front of stalled workers cannot hold the update past it.
func (u *Updater) coordinate(id uuid.UUID, s Store, snapshot []domain.Task, started time.Time, onComplete CompletionFunc) {
	logger := u.logger.With("update_id", id)
	n := len(snapshot)

	ctx := context.Background()
	if u.deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.deadline)
		defer cancel()
	}

	// Buffered so jobs finishing after a deadline never block.
	results := make(chan unitResult, n)

	// expected counts the results that will arrive on results: one per
	// submitted job plus one per rejected submission.
	expected := 0
	for i := range snapshot {
		job := &completionJob{
			id:        uuid.New(),
			index:     i,
			task:      snapshot[i],
			completer: u.completer,
			observer:  u.observer,
			results:   results,
		}
		if err := u.workers.Submit(ctx, job); err != nil {
			if ctx.Err() != nil {
				logger.Warn("update deadline exceeded before all jobs were submitted",
					"deadline", u.deadline, "submitted", expected, "task_count", n)
				break
			}
			logger.Error("failed to submit completion job", "task_index", i, "error", err)
			results <- unitResult{index: i, task: snapshot[i], err: fmt.Errorf("%w: submit: %w", ErrUnitFailed, err)}
		}
		expected++
	}

	report := Report{
		UpdateID:  id,
		Total:     n,
		StartedAt: started,
	}

	entries := make([]store.Entry, 0, n)
	received := 0
	collect := func(r unitResult) {
		received++
		if r.err != nil {
			report.Failures = append(report.Failures, UnitFailure{
				Index:   r.index,
				Title:   snapshot[r.index].Title,
				Message: r.err.Error(),
				err:     r.err,
			})
			return
		}
		snapshot[r.index] = r.task
		entries = append(entries, store.Entry{Index: r.index, Task: r.task})
	}

barrier:
	for received < expected {
		select {
		case r := <-results:
			collect(r)
		case <-ctx.Done():
			// Keep what already arrived; anything later is discarded.
			for drained := false; !drained && received < expected; {
				select {
				case r := <-results:
					collect(r)
				default:
					drained = true
				}
			}
			break barrier
		}
	}
	if received < n {
		report.TimedOut = true
		logger.Warn("update deadline exceeded", "deadline", u.deadline, "received", received, "task_count", n)
	}
	report.Pending = n - received

	if len(entries) > 0 {
		if err := s.Publish(entries); err != nil {
			logger.Error("failed to publish update", "error", err)
			report.PublishError = err.Error()
		} else {
			report.Completed = len(entries)
		}
	}
	report.FinishedAt = time.Now()

	u.observer.UpdateFinished(report.Outcome(), report.Duration())
	logger.Info("update finished",
		"outcome", report.Outcome(),
		"completed", report.Completed,
		"failed", len(report.Failures),
		"pending", report.Pending,
		"duration", report.Duration())

	u.emit(logger, report)
	u.notify(logger, report, onComplete)
}

func (u *Updater) emit(logger *slog.Logger, report Report) {
	if u.emitter == nil {
		return
	}
	event, err := events.NewEvent(EventTypeUpdateCompleted, report)
	if err != nil {
		logger.Error("failed to build update event", "error", err)
		return
	}
	if err := u.emitter.EmitEvent(context.Background(), event); err != nil {
		logger.Error("failed to emit update event", "error", err, "event_id", event.ID)
	}
}

// notify posts onComplete to the coordination queue. If the queue no longer
// accepts jobs the callback runs on the calling goroutine instead, so it is
// still invoked exactly once.
func (u *Updater) notify(logger *slog.Logger, report Report, onComplete CompletionFunc) {
	if onComplete == nil {
		return
	}

	job := pool.NewFuncJob(jobTypeCallback, func(ctx context.Context) error {
		onComplete(report)
		return nil
	})
	if err := u.coordinator.Submit(context.Background(), job); err != nil {
		logger.Warn("coordination queue unavailable, running callback inline", "error", err)
		onComplete(report)
	}
}

// completionJob completes one task of an update on the shared pool.
type completionJob struct {
	id        uuid.UUID
	index     int
	task      domain.Task
	completer Completer
	observer  Observer
	results   chan<- unitResult
}

func (j *completionJob) ID() uuid.UUID {
	return j.id
}

func (j *completionJob) Type() string {
	return jobTypeCompletion
}

// Execute always reports exactly one result, even if the completer panics.
func (j *completionJob) Execute(ctx context.Context) (err error) {
	start := time.Now()
	result := unitResult{index: j.index, task: j.task}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrUnitFailed, r)
		}
		result.err = err
		if err != nil {
			result.task = j.task
		}
		j.observer.UnitFinished(err, time.Since(start))
		j.results <- result
	}()

	completed, err := j.completer.Complete(ctx, j.task)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnitFailed, err)
	}
	if !completed.IsDone() {
		return fmt.Errorf("%w: %w", ErrUnitFailed, ErrNotCompleted)
	}

	result.task = completed
	return nil
}

type noopObserver struct{}

func (noopObserver) UpdateStarted(int)                    {}
func (noopObserver) UnitFinished(error, time.Duration)    {}
func (noopObserver) UpdateFinished(string, time.Duration) {}
