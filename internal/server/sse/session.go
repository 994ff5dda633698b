// Package sse implements the per-client streaming session over
// Server-Sent Events. Each connection gets its own session: a delivery
// channel registered with the broadcaster, client-requested filters,
// heartbeats while idle, and guaranteed cleanup on every exit path.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Virtus92/Rising-BSM-Dev/internal/events"
)

// State is the session lifecycle state.
type State int

// Session states. A new connection is a new session; there is no
// reconnection logic here.
const (
	StateConnecting State = iota
	StateStreaming
	StateClosed
)

// Session owns one client's event stream from connection to disconnect.
type Session struct {
	broadcaster *events.Broadcaster
	channel     *events.Channel
	heartbeat   time.Duration
	logger      zerolog.Logger
	state       State
}

// NewSession creates a session with the client's requested filters.
// The channel is not registered until Serve runs.
func NewSession(b *events.Broadcaster, filterEntity events.EntityType, filterEvent events.EventType, heartbeat time.Duration, logger *zerolog.Logger) *Session {
	ch := events.NewChannel(filterEntity, filterEvent)
	return &Session{
		broadcaster: b,
		channel:     ch,
		heartbeat:   heartbeat,
		logger:      logger.With().Str("channel_id", ch.ID()).Logger(),
		state:       StateConnecting,
	}
}

// State returns the session's current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Serve runs the session until the client disconnects, the shutdown
// sentinel arrives, or a write fails. The channel is always unregistered
// on exit, whatever the exit reason.
func (s *Session) Serve(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.state = StateClosed
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	s.broadcaster.Register(s.channel)
	s.state = StateStreaming

	defer func() {
		s.state = StateClosed
		s.broadcaster.Unregister(s.channel)
		s.logger.Info().
			Int("active_channels", s.broadcaster.Len()).
			Msg("SSE client disconnected")
	}()

	// Confirm the subscription before any real traffic arrives.
	connected := map[string]any{
		"message":   "Connected to BMS event stream",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"filters": map[string]any{
			"entity": string(s.channel.FilterEntity),
			"event":  string(s.channel.FilterEvent),
		},
	}
	if err := writeEvent(w, flusher, string(events.EventConnected), connected); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to write connected event")
		return
	}

	for {
		// Client gone? Exit without waiting on the queue.
		select {
		case <-r.Context().Done():
			return
		default:
		}

		timer := time.NewTimer(s.heartbeat)
		select {
		case <-r.Context().Done():
			timer.Stop()
			return

		case <-s.channel.Done():
			// Channel closed out from under us, e.g. shutdown with a
			// full queue where the sentinel could not be enqueued.
			timer.Stop()
			s.logger.Debug().Msg("Delivery channel closed")
			return

		case ev := <-s.channel.Queue():
			timer.Stop()
			if ev == nil {
				// Shutdown sentinel.
				s.logger.Debug().Msg("Shutdown sentinel received")
				return
			}
			if !s.channel.Matches(ev) {
				continue
			}
			if err := writeEvent(w, flusher, string(ev.EventType), ev); err != nil {
				s.logger.Warn().Err(err).Msg("Failed to forward event, closing session")
				return
			}

		case <-timer.C:
			heartbeat := map[string]any{
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			}
			if err := writeEvent(w, flusher, string(events.EventHeartbeat), heartbeat); err != nil {
				s.logger.Warn().Err(err).Msg("Failed to write heartbeat, closing session")
				return
			}
		}
	}
}

// writeEvent writes one named SSE frame and flushes it.
func writeEvent(w http.ResponseWriter, flusher http.Flusher, name string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
