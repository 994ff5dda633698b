// Package websocket provides a WebSocket mirror of the event stream for
// clients that prefer a bidirectional transport over SSE. Each
// connection is backed by its own delivery channel in the broadcaster,
// so filtering, backpressure, and shutdown behave exactly like SSE
// sessions.
package websocket

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/Virtus92/Rising-BSM-Dev/internal/events"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// Message is the JSON envelope written to WebSocket clients.
type Message struct {
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
}

// Session owns one WebSocket client's event stream.
type Session struct {
	broadcaster *events.Broadcaster
	channel     *events.Channel
	conn        *websocket.Conn
	heartbeat   time.Duration
	logger      zerolog.Logger
}

// NewSession creates a WebSocket session with the client's requested
// filters. The channel is not registered until Run.
func NewSession(b *events.Broadcaster, conn *websocket.Conn, filterEntity events.EntityType, filterEvent events.EventType, heartbeat time.Duration, logger *zerolog.Logger) *Session {
	ch := events.NewChannel(filterEntity, filterEvent)
	return &Session{
		broadcaster: b,
		channel:     ch,
		conn:        conn,
		heartbeat:   heartbeat,
		logger:      logger.With().Str("channel_id", ch.ID()).Logger(),
	}
}

// Run registers the session and pumps events to the client until it
// disconnects or the shutdown sentinel arrives. Cleanup always runs.
func (s *Session) Run() {
	s.broadcaster.Register(s.channel)

	defer func() {
		s.broadcaster.Unregister(s.channel)
		_ = s.conn.Close()
		s.logger.Info().
			Int("active_channels", s.broadcaster.Len()).
			Msg("WebSocket client disconnected")
	}()

	go s.readPump()

	if err := s.write(string(events.EventConnected), map[string]any{
		"message": "Connected to BMS event stream",
		"filters": map[string]any{
			"entity": string(s.channel.FilterEntity),
			"event":  string(s.channel.FilterEvent),
		},
	}); err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		timer := time.NewTimer(s.heartbeat)
		select {
		case <-s.channel.Done():
			timer.Stop()
			_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case ev := <-s.channel.Queue():
			timer.Stop()
			if ev == nil {
				// Shutdown sentinel.
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if !s.channel.Matches(ev) {
				continue
			}
			if err := s.write(string(ev.EventType), ev); err != nil {
				return
			}

		case <-timer.C:
			if err := s.write(string(events.EventHeartbeat), nil); err != nil {
				return
			}

		case <-ticker.C:
			timer.Stop()
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains inbound frames to detect disconnects and answer pings.
func (s *Session) readPump() {
	defer s.channel.Close()

	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				s.logger.Debug().Err(err).Msg("WebSocket read error")
			}
			return
		}
	}
}

// write marshals and sends one message envelope.
func (s *Session) write(msgType string, data any) error {
	envelope := Message{
		Type:      msgType,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Data:      data,
	}

	payload, err := json.Marshal(envelope)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to marshal WebSocket message")
		return nil
	}

	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		s.logger.Debug().Err(err).Msg("WebSocket write failed")
		return err
	}
	return nil
}
