package threads

import (
	"errors"
	"net/http"
)

// Domain errors for thread operations.
var (
	ErrNotFound    = errors.New("thread not found")
	ErrDuplicate   = errors.New("thread position conflict")
	ErrInvalidRole = errors.New("invalid message role")
)

// MapHTTPStatus maps domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidRole) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
