package sessions

import (
	"errors"
	"net/http"
)

// Domain errors for session operations.
var (
	ErrNotFound     = errors.New("session not found")
	ErrDuplicate    = errors.New("session already exists")
	ErrAgentUnknown = errors.New("agent not available for binding")
)

// MapHTTPStatus maps domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrAgentUnknown) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
