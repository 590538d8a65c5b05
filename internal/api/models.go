package api

import (
	"github.com/google/uuid"
	"github.com/phrazzld/tasktracker/internal/domain"
	"github.com/phrazzld/tasktracker/internal/updater"
)

// CreateTaskRequest defines the payload for adding a task.
type CreateTaskRequest struct {
	Title  string `json:"title"  validate:"required"`
	Status string `json:"status" validate:"required"`
}

// TaskResponse is the JSON form of a task. Position is the task's index in
// the store, its only identity.
type TaskResponse struct {
	Position int    `json:"position"`
	Title    string `json:"title"`
	Status   string `json:"status"`
}

// TaskListResponse wraps an ordered list of tasks.
type TaskListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Count int            `json:"count"`
}

// UpdateAcceptedResponse is returned when a bulk update has been started.
type UpdateAcceptedResponse struct {
	UpdateID uuid.UUID `json:"update_id"`
	Total    int       `json:"total"`
}

// UpdateStatusResponse describes a tracked bulk update.
type UpdateStatusResponse struct {
	UpdateID uuid.UUID       `json:"update_id"`
	State    string          `json:"state"`
	Outcome  string          `json:"outcome,omitempty"`
	Report   *updater.Report `json:"report,omitempty"`
}

func taskToResponse(position int, task domain.Task) TaskResponse {
	return TaskResponse{
		Position: position,
		Title:    task.Title,
		Status:   task.Status.String(),
	}
}
