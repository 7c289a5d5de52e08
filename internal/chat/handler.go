package chat

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/parlorlabs/parlor/internal/config"
	"github.com/parlorlabs/parlor/internal/middleware"
	"github.com/parlorlabs/parlor/internal/routes"
	"github.com/parlorlabs/parlor/internal/threads"
	"github.com/parlorlabs/parlor/pkg/handlers"
)

// SendRequest contains the data for a chat send request.
type SendRequest struct {
	Content string `json:"content"`
}

// Handler provides the HTTP surface for chat dispatch.
type Handler struct {
	dispatcher *Dispatcher
	cfg        *config.ChatConfig
	logger     *slog.Logger
}

// NewHandler creates a new chat HTTP handler.
func NewHandler(dispatcher *Dispatcher, cfg *config.ChatConfig, logger *slog.Logger) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		cfg:        cfg,
		logger:     logger,
	}
}

// Routes returns the route group configuration for chat endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/api/chat",
		Tags:        []string{"Chat"},
		Description: "Streaming chat dispatch",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Send},
		},
	}
}

// Send handles POST /api/chat: it dispatches the message and streams the
// resulting events as server-sent events on the open connection.
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	var req SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	userEmail := middleware.UserEmail(r.Context())
	preferred := threads.CurrentThread(r, h.cfg)

	events, thread, err := h.dispatcher.Send(r.Context(), userEmail, preferred, req.Content)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	threads.SetCurrentThread(w, h.cfg, thread.ID)
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}

	for event := range events {
		select {
		case <-r.Context().Done():
			return
		default:
		}

		data, err := json.Marshal(event)
		if err != nil {
			h.logger.Error("failed to marshal event", "error", err)
			continue
		}

		fmt.Fprintf(w, "data: %s\n\n", data)
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
}
