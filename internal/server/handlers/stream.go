package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Virtus92/Rising-BSM-Dev/internal/events"
	"github.com/Virtus92/Rising-BSM-Dev/internal/server/response"
	"github.com/Virtus92/Rising-BSM-Dev/internal/server/sse"
	ws "github.com/Virtus92/Rising-BSM-Dev/internal/server/websocket"
)

// HandleSSE opens a streaming session over Server-Sent Events.
//
// Query parameters:
//   - filter_entity: only forward events for this entity type
//   - filter_event: only forward events of this event type
func (h *Handlers) HandleSSE(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.MethodNotAllowed(w, "Method not allowed", "Use GET")
		return
	}

	session := sse.NewSession(h.broadcaster,
		events.EntityType(r.URL.Query().Get("filter_entity")),
		events.EventType(r.URL.Query().Get("filter_event")),
		h.heartbeat, h.logger)
	session.Serve(w, r)
}

// HandleWebSocket opens a streaming session over WebSocket. Filters use
// the same query parameters as the SSE endpoint.
func (h *Handlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	session := ws.NewSession(h.broadcaster, conn,
		events.EntityType(r.URL.Query().Get("filter_entity")),
		events.EventType(r.URL.Query().Get("filter_event")),
		h.heartbeat, h.logger)
	go session.Run()
}

// triggerRequest is the manual-trigger payload. Missing fields get the
// test defaults.
type triggerRequest struct {
	EntityType string         `json:"entity_type"`
	EventType  string         `json:"event_type"`
	EntityID   string         `json:"entity_id"`
	Data       map[string]any `json:"data"`
}

// HandleTrigger constructs an ad-hoc event and broadcasts it directly,
// bypassing the poller. Returns the event and how many channels it was
// delivered to.
func (h *Handlers) HandleTrigger(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.MethodNotAllowed(w, "Method not allowed", "Use POST")
		return
	}

	var req triggerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body", err.Error())
		return
	}

	if req.EntityType == "" {
		req.EntityType = string(events.EntityTest)
	}
	if req.EventType == "" {
		req.EventType = string(events.EventTest)
	}
	if req.EntityID == "" {
		req.EntityID = "test-id"
	}

	event := events.New(
		events.EntityType(req.EntityType),
		events.EventType(req.EventType),
		req.EntityID,
		req.Data,
		events.SourceManual,
	)

	notified := h.broadcaster.Broadcast(event)

	h.logger.Info().
		Str("entity_type", req.EntityType).
		Str("event_type", req.EventType).
		Int("clients_notified", notified).
		Msg("Manual event triggered")

	response.OK(w, map[string]any{
		"status":           "success",
		"event":            event,
		"clients_notified": notified,
	})
}
