package chat

import (
	"errors"
	"net/http"
)

// Dispatch errors surfaced before the stream starts.
var (
	ErrEmptyMessage = errors.New("message content is required")
	ErrAssembly     = errors.New("session assembly failed")
)

// MapHTTPStatus maps dispatch errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrEmptyMessage) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrAssembly) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
