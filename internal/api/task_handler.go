package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktracker/internal/api/shared"
	"github.com/phrazzld/tasktracker/internal/domain"
	"github.com/phrazzld/tasktracker/internal/updater"
)

// TaskStore is the task collection the handlers operate on.
type TaskStore interface {
	updater.Store
	Append(task domain.Task) (int, error)
	All() []domain.Task
	Len() int
}

// BulkUpdater starts concurrent bulk status updates.
type BulkUpdater interface {
	UpdateAllConcurrently(s updater.Store, onComplete updater.CompletionFunc) uuid.UUID
}

// TaskHandler handles task-related HTTP requests.
type TaskHandler struct {
	store   TaskStore
	updater BulkUpdater
	tracker *UpdateTracker
	logger  *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(store TaskStore, bulk BulkUpdater, tracker *UpdateTracker, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		store:   store,
		updater: bulk,
		tracker: tracker,
		logger:  logger.With("component", "task_handler"),
	}
}

// CreateTask handles POST /api/tasks requests.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			HandleAPIError(w, r, err, "")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := domain.NewTask(req.Title, status)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	position, err := h.store.Append(task)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	h.logger.Debug("task added",
		"trace_id", shared.GetTraceID(r.Context()),
		"title", task.Title,
		"status", task.Status)
	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(position, task))
}

// ListTasks handles GET /api/tasks requests, optionally filtered by
// ?status=.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	status, filtered, err := getStatusFilter(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	all := h.store.All()
	resp := TaskListResponse{Tasks: make([]TaskResponse, 0, len(all))}
	for i, task := range all {
		if filtered && task.Status != status {
			continue
		}
		resp.Tasks = append(resp.Tasks, taskToResponse(i, task))
	}
	resp.Count = len(resp.Tasks)

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// CompleteAll handles POST /api/tasks/complete requests. It starts a bulk
// update and returns immediately with its ID.
func (h *TaskHandler) CompleteAll(w http.ResponseWriter, r *http.Request) {
	traceID := shared.GetTraceID(r.Context())
	total := h.store.Len()

	id := h.updater.UpdateAllConcurrently(h.store, func(report updater.Report) {
		h.logger.Info("bulk update finished",
			"trace_id", traceID,
			"update_id", report.UpdateID,
			"outcome", report.Outcome(),
			"completed", report.Completed,
			"total", report.Total)
	})
	h.tracker.Started(id)

	h.logger.Info("bulk update started", "trace_id", traceID, "update_id", id)
	shared.RespondWithJSON(w, r, http.StatusAccepted, UpdateAcceptedResponse{
		UpdateID: id,
		Total:    total,
	})
}

// GetUpdate handles GET /api/updates/{id} requests.
func (h *TaskHandler) GetUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	state, report, err := h.tracker.Lookup(id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if state == UpdateStateRunning {
		shared.RespondWithJSON(w, r, http.StatusAccepted, UpdateStatusResponse{
			UpdateID: id,
			State:    state,
		})
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, UpdateStatusResponse{
		UpdateID: id,
		State:    state,
		Outcome:  report.Outcome(),
		Report:   &report,
	})
}
