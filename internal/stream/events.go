package stream

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/zaapr0x/mc-hook/internal/journal"
	"github.com/zaapr0x/mc-hook/pkg/event"
)

const (
	defaultEventLimit = 50
	maxEventLimit     = 500
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// EventsHandler serves recent journal entries, newest first.
type EventsHandler struct {
	journal journal.Journal
	logger  *slog.Logger
}

func NewEventsHandler(j journal.Journal, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{
		journal: j,
		logger:  logger,
	}
}

// ServeHTTP handles GET /v1/events?limit=N.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		h.logger.Warn("Method not allowed for events endpoint", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		h.writeError(w, "Method not allowed. Supported methods: GET")
		return
	}

	if h.journal == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		h.writeError(w, "Journaling is disabled")
		return
	}

	limit := defaultEventLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.logger.Warn("Invalid limit parameter", "limit", raw)
			w.WriteHeader(http.StatusBadRequest)
			h.writeError(w, "Invalid limit parameter")
			return
		}
		limit = parsed
	}
	if limit > maxEventLimit {
		limit = maxEventLimit
	}

	events, err := h.journal.Recent(r.Context(), limit)
	if err != nil {
		if errors.Is(err, journal.ErrRecentUnsupported) {
			w.WriteHeader(http.StatusNotImplemented)
			h.writeError(w, "Event history is not available for this journal backend")
			return
		}
		h.logger.Error("Failed to read recent events", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		h.writeError(w, "Failed to read events")
		return
	}

	if events == nil {
		events = []event.Event{}
	}
	if err := json.NewEncoder(w).Encode(events); err != nil {
		h.logger.Error("Failed to encode events response", "error", err)
	}
}

func (h *EventsHandler) writeError(w http.ResponseWriter, msg string) {
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: msg}); err != nil {
		h.logger.Error("Failed to encode error response", "error", err)
	}
}
