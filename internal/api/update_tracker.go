package api

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktracker/internal/events"
	"github.com/phrazzld/tasktracker/internal/updater"
)

// Update states reported by the API.
const (
	UpdateStateRunning  = "running"
	UpdateStateFinished = "finished"
)

// DefaultTrackerHistory is how many finished updates a tracker remembers.
const DefaultTrackerHistory = 100

type trackedUpdate struct {
	finished bool
	report   updater.Report
}

// UpdateTracker remembers bulk updates started through the API and their
// reports. It learns about finished updates by handling
// updater.EventTypeUpdateCompleted events.
type UpdateTracker struct {
	mu      sync.RWMutex
	updates map[uuid.UUID]*trackedUpdate
	order   []uuid.UUID
	history int
	logger  *slog.Logger
}

// NewUpdateTracker creates a tracker keeping at most history finished
// updates. Running updates are never evicted.
func NewUpdateTracker(history int, logger *slog.Logger) *UpdateTracker {
	if history <= 0 {
		history = DefaultTrackerHistory
	}
	return &UpdateTracker{
		updates: make(map[uuid.UUID]*trackedUpdate),
		history: history,
		logger:  logger.With("component", "update_tracker"),
	}
}

// Started records id as running. The completion event may already have
// been handled, in which case the finished state is kept.
func (t *UpdateTracker) Started(id uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.updates[id]; ok {
		return
	}
	t.updates[id] = &trackedUpdate{}
	t.order = append(t.order, id)
}

// Finished records the final report of an update.
func (t *UpdateTracker) Finished(report updater.Report) {
	t.mu.Lock()
	defer t.mu.Unlock()

	u, ok := t.updates[report.UpdateID]
	if !ok {
		u = &trackedUpdate{}
		t.updates[report.UpdateID] = u
		t.order = append(t.order, report.UpdateID)
	}
	u.finished = true
	u.report = report

	t.evict()
}

// Lookup returns the state of an update and, once finished, its report.
func (t *UpdateTracker) Lookup(id uuid.UUID) (string, updater.Report, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	u, ok := t.updates[id]
	if !ok {
		return "", updater.Report{}, fmt.Errorf("%w: %s", ErrUpdateNotFound, id)
	}
	if !u.finished {
		return UpdateStateRunning, updater.Report{}, nil
	}
	return UpdateStateFinished, u.report, nil
}

// HandleEvent implements events.EventHandler. Events of other types are ignored.
func (t *UpdateTracker) HandleEvent(ctx context.Context, event *events.Event) error {
	if event.Type != updater.EventTypeUpdateCompleted {
		return nil
	}

	var report updater.Report
	if err := event.UnmarshalPayload(&report); err != nil {
		return fmt.Errorf("failed to decode update report: %w", err)
	}

	t.Finished(report)
	t.logger.Debug("update recorded",
		"update_id", report.UpdateID,
		"event_id", event.ID,
		"outcome", report.Outcome())
	return nil
}

// evict drops the oldest finished updates beyond the history limit.
// Callers must hold the write lock.
func (t *UpdateTracker) evict() {
	finished := 0
	for _, id := range t.order {
		if t.updates[id].finished {
			finished++
		}
	}

	kept := t.order[:0]
	for _, id := range t.order {
		if finished > t.history && t.updates[id].finished {
			delete(t.updates, id)
			finished--
			continue
		}
		kept = append(kept, id)
	}
	t.order = kept
}
