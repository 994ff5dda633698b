package handlers

import (
	"net/http"
	"time"

	"github.com/Virtus92/Rising-BSM-Dev/internal/server/response"
)

// HandleHealth reports process liveness.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.MethodNotAllowed(w, "Method not allowed", "Use GET")
		return
	}

	response.OK(w, map[string]any{
		"status":    "healthy",
		"server":    h.serverName,
		"version":   h.serverVersion,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleRoot describes the API surface.
func (h *Handlers) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		response.NotFound(w, "Not found", "Unknown path "+r.URL.Path)
		return
	}

	response.OK(w, map[string]any{
		"name":    h.serverName,
		"version": h.serverVersion,
		"endpoints": map[string]string{
			"health":        "/health",
			"sse_events":    "/sse/events",
			"ws_events":     "/ws/events",
			"trigger_event": "/sse/trigger (POST)",
		},
		"authentication":     "Bearer token in Authorization header",
		"active_connections": h.broadcaster.Len(),
	})
}
