package store

import (
	"fmt"
	"sync"

	"github.com/phrazzld/tasktracker/internal/domain"
)

// Entry pairs a task with its position in the store. It is the unit of a
// Publish call.
type Entry struct {
	Index int
	Task  domain.Task
}

// TaskStore owns an ordered sequence of tasks. Insertion order is preserved
// by every operation and the sequence never shrinks.
type TaskStore struct {
	mu    sync.RWMutex
	tasks []domain.Task
}

// NewTaskStore creates an empty TaskStore.
func NewTaskStore() *TaskStore {
	return &TaskStore{
		tasks: make([]domain.Task, 0),
	}
}

// Add appends a task to the end of the sequence.
func (s *TaskStore) Add(task domain.Task) error {
	_, err := s.Append(task)
	return err
}

// Append is Add that also returns the position the task was stored at.
func (s *TaskStore) Append(task domain.Task) (int, error) {
	if err := task.Validate(); err != nil {
		return -1, NewStoreError("add", -1, fmt.Errorf("%w: %w", ErrInvalidEntity, err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, task)
	return len(s.tasks) - 1, nil
}

// ListByStatus returns, in insertion order, every task whose status equals
// the argument. The result is a copy and is never nil.
func (s *TaskStore) ListByStatus(status domain.Status) []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]domain.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		if task.Status == status {
			matches = append(matches, task)
		}
	}
	return matches
}

// ApplyToAll invokes transform on every task in index order, passing a
// mutable reference. The first failing transform aborts the call and its
// error is returned; in that case no task in the store is modified.
//
// The write lock is held for the whole call, so transform must not call
// back into the store.
func (s *TaskStore) ApplyToAll(transform func(task *domain.Task) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	working := make([]domain.Task, len(s.tasks))
	copy(working, s.tasks)

	for i := range working {
		if err := transform(&working[i]); err != nil {
			return NewStoreError("apply", i, fmt.Errorf("%w: %w", ErrTransform, err))
		}
		if err := working[i].Validate(); err != nil {
			return NewStoreError("apply", i, fmt.Errorf("%w: %w", ErrTransform, err))
		}
	}

	s.tasks = working
	return nil
}

// Len returns the number of tasks in the store.
func (s *TaskStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// All returns a copy of every task in insertion order.
func (s *TaskStore) All() []domain.Task {
	return s.Snapshot()
}

// Snapshot returns a deep copy of the current sequence. Task holds only
// value fields, so copying the slice is sufficient.
func (s *TaskStore) Snapshot() []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]domain.Task, len(s.tasks))
	copy(snapshot, s.tasks)
	return snapshot
}

// Publish replaces the tasks at the given positions. Every entry is checked
// before anything is written, so either all entries land or none do.
func (s *TaskStore) Publish(entries []Entry) error {
	for _, entry := range entries {
		if err := entry.Task.Validate(); err != nil {
			return NewStoreError("publish", entry.Index, fmt.Errorf("%w: %w", ErrInvalidEntity, err))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range entries {
		if entry.Index < 0 || entry.Index >= len(s.tasks) {
			return NewStoreError("publish", entry.Index, ErrIndexOutOfRange)
		}
	}

	for _, entry := range entries {
		s.tasks[entry.Index] = entry.Task
	}
	return nil
}

// CountByStatus returns the number of tasks in each status. Every status of
// the closed set is present in the result, possibly with a zero count.
func (s *TaskStore) CountByStatus() map[domain.Status]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[domain.Status]int, len(domain.Statuses))
	for _, status := range domain.Statuses {
		counts[status] = 0
	}
	for _, task := range s.tasks {
		counts[task.Status]++
	}
	return counts
}
