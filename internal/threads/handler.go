package threads

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/parlorlabs/parlor/internal/config"
	"github.com/parlorlabs/parlor/internal/middleware"
	"github.com/parlorlabs/parlor/internal/routes"
	"github.com/parlorlabs/parlor/pkg/handlers"
	"github.com/parlorlabs/parlor/pkg/pagination"
)

// Handler provides HTTP handlers for thread management.
type Handler struct {
	sys        System
	titler     *Titler
	cfg        *config.ChatConfig
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a new threads HTTP handler.
func NewHandler(sys System, titler *Titler, cfg *config.ChatConfig, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		titler:     titler,
		cfg:        cfg,
		logger:     logger,
		pagination: pagination,
	}
}

// Routes returns the route group configuration for thread endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/api/threads",
		Tags:        []string{"Threads"},
		Description: "Conversation threads and history",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "GET", Pattern: "/current/messages", Handler: h.CurrentMessages},
			{Method: "PUT", Pattern: "/current/{id}", Handler: h.SetCurrent},
			{Method: "GET", Pattern: "/{id}/messages", Handler: h.Messages},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Deactivate},
		},
	}
}

// List handles GET /api/threads to list the caller's active threads.
// Threads still carrying the default title get one generated before the
// page is returned.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userEmail := middleware.UserEmail(r.Context())
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)

	result, err := h.sys.List(r.Context(), userEmail, page)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	h.titler.Refresh(r.Context(), userEmail, result.Data)

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Create handles POST /api/threads to start a new thread and make it current.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	t, err := h.sys.Create(r.Context(), middleware.UserEmail(r.Context()))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	SetCurrentThread(w, h.cfg, t.ID)
	handlers.RespondJSON(w, http.StatusCreated, t)
}

// CurrentMessages handles GET /api/threads/current/messages to load the
// history of the caller's current thread, resolving one if needed.
func (h *Handler) CurrentMessages(w http.ResponseWriter, r *http.Request) {
	userEmail := middleware.UserEmail(r.Context())

	t, err := h.sys.Resolve(r.Context(), userEmail, CurrentThread(r, h.cfg))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	messages, err := h.sys.Messages(r.Context(), t.ID, userEmail)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	SetCurrentThread(w, h.cfg, t.ID)
	handlers.RespondJSON(w, http.StatusOK, map[string]any{
		"thread":   t,
		"messages": messages,
	})
}

// SetCurrent handles PUT /api/threads/current/{id} to switch threads.
func (h *Handler) SetCurrent(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	t, err := h.sys.Find(r.Context(), id, middleware.UserEmail(r.Context()))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	SetCurrentThread(w, h.cfg, t.ID)
	handlers.RespondJSON(w, http.StatusOK, t)
}

// Messages handles GET /api/threads/{id}/messages to load a thread's history.
func (h *Handler) Messages(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	messages, err := h.sys.Messages(r.Context(), id, middleware.UserEmail(r.Context()))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, messages)
}

// Deactivate handles DELETE /api/threads/{id} to soft-delete a thread.
// The current-thread cookie is cleared when it pointed at the deleted
// thread.
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if err := h.sys.Deactivate(r.Context(), id, middleware.UserEmail(r.Context())); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if current := CurrentThread(r, h.cfg); current != nil && *current == id {
		ClearCurrentThread(w, h.cfg)
	}
	w.WriteHeader(http.StatusNoContent)
}
