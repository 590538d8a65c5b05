package updater

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Common errors surfaced through Report.Err.
var (
	// ErrUnitFailed wraps the error of a single completion job.
	ErrUnitFailed = errors.New("completion job failed")

	// ErrNotCompleted is returned when a Completer reports success but the
	// task it hands back is not done.
	ErrNotCompleted = errors.New("task not completed")

	// ErrDeadlineExceeded is reported when the barrier is released by the
	// configured deadline before every job reported.
	ErrDeadlineExceeded = errors.New("update deadline exceeded")

	// ErrPublish is reported when writing the results back to the store fails.
	ErrPublish = errors.New("publish failed")
)

// Update outcomes, also used as metric label values.
const (
	OutcomeComplete = "complete"
	OutcomePartial  = "partial"
	OutcomeTimedOut = "timed_out"
)

// UnitFailure describes a task whose completion job failed. The task keeps
// the status it had when the update started.
type UnitFailure struct {
	Index   int    `json:"index"`
	Title   string `json:"title"`
	Message string `json:"error"`
	err     error
}

// Unwrap returns the job error when the failure was produced in-process.
// Failures decoded from JSON only carry the message.
func (f UnitFailure) Unwrap() error {
	return f.err
}

func (f UnitFailure) Error() string {
	return fmt.Sprintf("task %d (%q): %s", f.Index, f.Title, f.Message)
}

// Report is handed to the completion callback once an update has been
// joined and published.
type Report struct {
	UpdateID     uuid.UUID     `json:"update_id"`
	Total        int           `json:"total"`
	Completed    int           `json:"completed"`
	Pending      int           `json:"pending"`
	TimedOut     bool          `json:"timed_out"`
	Failures     []UnitFailure `json:"failures,omitempty"`
	PublishError string        `json:"publish_error,omitempty"`
	StartedAt    time.Time     `json:"started_at"`
	FinishedAt   time.Time     `json:"finished_at"`
}

// Duration returns how long the update took from snapshot to publish.
func (r Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Outcome classifies the report as complete, partial or timed out.
func (r Report) Outcome() string {
	switch {
	case r.TimedOut:
		return OutcomeTimedOut
	case len(r.Failures) > 0 || r.PublishError != "":
		return OutcomePartial
	default:
		return OutcomeComplete
	}
}

// Err joins every problem recorded in the report. It is nil when every
// task that existed at the start of the update was completed and published.
func (r Report) Err() error {
	var errs []error
	for _, f := range r.Failures {
		errs = append(errs, f)
	}
	if r.TimedOut {
		errs = append(errs, fmt.Errorf("%w: %d of %d jobs pending", ErrDeadlineExceeded, r.Pending, r.Total))
	}
	if r.PublishError != "" {
		errs = append(errs, fmt.Errorf("%w: %s", ErrPublish, r.PublishError))
	}
	return errors.Join(errs...)
}
