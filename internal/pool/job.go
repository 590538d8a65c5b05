package pool

import (
	"context"

	"github.com/google/uuid"
)

// Job represents a unit of background work to be processed
type Job interface {
	// ID returns the job's unique identifier
	ID() uuid.UUID

	// Type returns the job type identifier, used for logging
	Type() string

	// Execute runs the job logic
	Execute(ctx context.Context) error
}

// JobQueueReader provides read-only access to the job channel
// allowing workers to consume jobs without the ability to enqueue
type JobQueueReader interface {
	// GetChannel returns a read-only channel for consuming jobs
	GetChannel() <-chan Job
}

// FuncJob adapts a plain function to the Job interface.
type FuncJob struct {
	id      uuid.UUID
	jobType string
	fn      func(ctx context.Context) error
}

// NewFuncJob wraps fn in a Job with a fresh ID.
func NewFuncJob(jobType string, fn func(ctx context.Context) error) *FuncJob {
	return &FuncJob{
		id:      uuid.New(),
		jobType: jobType,
		fn:      fn,
	}
}

// ID returns the job's unique identifier
func (j *FuncJob) ID() uuid.UUID {
	return j.id
}

// Type returns the job type identifier
func (j *FuncJob) Type() string {
	return j.jobType
}

// Execute runs the wrapped function
func (j *FuncJob) Execute(ctx context.Context) error {
	return j.fn(ctx)
}
