package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/tasktracker/internal/domain"
)

// getPathUUID extracts and parses a UUID path parameter.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, fmt.Errorf("%w: %s is required", domain.ErrInvalidID, paramName)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s has invalid format", domain.ErrInvalidID, paramName)
	}

	return id, nil
}

// getStatusFilter parses the optional status query parameter. The second
// result is false when no filter was given.
func getStatusFilter(r *http.Request) (domain.Status, bool, error) {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		return "", false, nil
	}

	status, err := domain.ParseStatus(raw)
	if err != nil {
		return "", false, err
	}
	return status, true, nil
}
