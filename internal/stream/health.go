package stream

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/zaapr0x/mc-hook/internal/journal"
)

type HealthResponse struct {
	Status     string                 `json:"status"`
	Timestamp  time.Time              `json:"timestamp"`
	Service    string                 `json:"service"`
	Components map[string]interface{} `json:"components"`
}

type HealthHandler struct {
	journal journal.Journal
	hub     *Hub
	logger  *slog.Logger
}

// NewHealthHandler reports journal and stream health. A nil journal
// means journaling is disabled; that does not degrade the service.
func NewHealthHandler(j journal.Journal, hub *Hub, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		journal: j,
		hub:     hub,
		logger:  logger,
	}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	h.logger.Debug("Health check requested",
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	components := make(map[string]interface{})
	overallStatus := "healthy"

	if h.journal == nil {
		components["journal"] = "disabled"
	} else if err := h.journal.Ping(ctx); err != nil {
		h.logger.Warn("Journal health check failed", "error", err)
		components["journal"] = "unhealthy"
		overallStatus = "degraded"
	} else {
		components["journal"] = "healthy"
	}

	if h.hub != nil {
		components["stream"] = map[string]interface{}{
			"status":  "healthy",
			"clients": h.hub.ClientCount(),
			"dropped": h.hub.Dropped(),
		}
	}

	response := HealthResponse{
		Status:     overallStatus,
		Timestamp:  time.Now(),
		Service:    "mc-hook",
		Components: components,
	}

	statusCode := http.StatusOK
	if overallStatus != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Error encoding health response",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
}
