package sessions

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/parlorlabs/parlor/internal/middleware"
	"github.com/parlorlabs/parlor/internal/routes"
	"github.com/parlorlabs/parlor/pkg/handlers"
)

// Handler provides HTTP handlers for session and binding operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a new sessions HTTP handler.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger,
	}
}

// Routes returns the route group configuration for session endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/api/session",
		Tags:        []string{"Session"},
		Description: "User session, agent bindings, and usage",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Load},
			{Method: "GET", Pattern: "/agents", Handler: h.Bindings},
			{Method: "PUT", Pattern: "/agents/{code}", Handler: h.SetAgent},
			{Method: "GET", Pattern: "/usage", Handler: h.Usage},
		},
	}
}

// Load handles GET /api/session to resolve the caller's session.
func (h *Handler) Load(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sys.Load(r.Context(), middleware.UserEmail(r.Context()))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, sess)
}

// Bindings handles GET /api/session/agents to list specialist bindings.
func (h *Handler) Bindings(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sys.Load(r.Context(), middleware.UserEmail(r.Context()))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	bindings, err := h.sys.Bindings(r.Context(), sess.ID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, bindings)
}

// SetAgent handles PUT /api/session/agents/{code} to toggle a specialist.
func (h *Handler) SetAgent(w http.ResponseWriter, r *http.Request) {
	var cmd struct {
		Enabled bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	sess, err := h.sys.Load(r.Context(), middleware.UserEmail(r.Context()))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if err := h.sys.SetAgent(r.Context(), sess.ID, r.PathValue("code"), cmd.Enabled); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Usage handles GET /api/session/usage to report monthly token rollups.
func (h *Handler) Usage(w http.ResponseWriter, r *http.Request) {
	usage, err := h.sys.Usage(r.Context(), middleware.UserEmail(r.Context()))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, usage)
}
