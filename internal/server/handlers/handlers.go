// Package handlers implements the HTTP endpoints of the BMS event API:
// service info, health, the SSE and WebSocket streaming endpoints, and
// the manual event trigger.
package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/Virtus92/Rising-BSM-Dev/internal/events"
)

// Handlers holds the HTTP handler dependencies.
type Handlers struct {
	broadcaster *events.Broadcaster
	upgrader    websocket.Upgrader
	logger      *zerolog.Logger

	serverName    string
	serverVersion string
	heartbeat     time.Duration
}

// New creates the handlers with their dependencies injected.
func New(broadcaster *events.Broadcaster, serverName, serverVersion string, heartbeat time.Duration, logger *zerolog.Logger) *Handlers {
	return &Handlers{
		broadcaster: broadcaster,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true // Origin policy is enforced by the CORS middleware
			},
		},
		logger:        logger,
		serverName:    serverName,
		serverVersion: serverVersion,
		heartbeat:     heartbeat,
	}
}
