package domain

import (
	"fmt"
	"strings"
)

// Status represents the progress state of a task
type Status string

// Possible task status values
const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone}

// Valid reports whether the status belongs to the closed set.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	return string(s)
}

// ParseStatus converts a raw string into a Status.
// Matching is case-insensitive and tolerates surrounding whitespace.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

// Task is a titled unit of work with a status. It has no identity beyond
// its position in the store that owns it.
type Task struct {
	Title  string `json:"title"`
	Status Status `json:"status"`
}

// NewTask creates a Task with the given title and status.
// Returns an error if validation fails.
func NewTask(title string, status Status) (Task, error) {
	task := Task{
		Title:  title,
		Status: status,
	}

	if err := task.Validate(); err != nil {
		return Task{}, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Both returned errors wrap ErrValidation.
func (t Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyTitle)
	}

	if !t.Status.Valid() {
		return fmt.Errorf("%w: %w: %q", ErrValidation, ErrInvalidStatus, t.Status)
	}

	return nil
}

// Complete marks the task as done.
func (t *Task) Complete() {
	t.Status = StatusDone
}

// IsDone reports whether the task has reached the done status.
func (t Task) IsDone() bool {
	return t.Status == StatusDone
}
