package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Virtus92/Rising-BSM-Dev/internal/events"
	"github.com/Virtus92/Rising-BSM-Dev/pkg/logging"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// newWSServer runs a Session per upgraded connection.
func newWSServer(t *testing.T, b *events.Broadcaster, heartbeat time.Duration) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		session := NewSession(b, conn,
			events.EntityType(r.URL.Query().Get("filter_entity")),
			events.EventType(r.URL.Query().Get("filter_event")),
			heartbeat, logging.Nop())
		go session.Run()
	}))
	t.Cleanup(srv.Close)
	return srv
}

// dial connects a websocket client to the test server.
func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// readMessage reads and decodes one envelope.
func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		t.Fatalf("invalid envelope: %v", err)
	}
	return msg
}

// waitForChannels polls until the broadcaster has n registered channels.
func waitForChannels(t *testing.T, b *events.Broadcaster, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if b.Len() == n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d channels, have %d", n, b.Len())
}

// TestSession_ConnectedEnvelope tests the initial connected message.
func TestSession_ConnectedEnvelope(t *testing.T) {
	b := events.NewBroadcaster(logging.Nop())
	srv := newWSServer(t, b, time.Minute)

	conn := dial(t, srv, "?filter_entity=request")

	msg := readMessage(t, conn)
	if msg.Type != "connected" {
		t.Fatalf("type = %s, want connected", msg.Type)
	}
	data, _ := msg.Data.(map[string]any)
	filters, _ := data["filters"].(map[string]any)
	if filters["entity"] != "request" {
		t.Errorf("unexpected filters: %v", filters)
	}
}

// TestSession_EventDelivery tests filtered event forwarding over WS.
func TestSession_EventDelivery(t *testing.T) {
	b := events.NewBroadcaster(logging.Nop())
	srv := newWSServer(t, b, time.Minute)

	conn := dial(t, srv, "?filter_entity=customer")
	readMessage(t, conn) // connected
	waitForChannels(t, b, 1)

	b.Broadcast(events.New(events.EntityRequest, events.EventCreated, "r1", nil, events.SourcePolling))
	b.Broadcast(events.New(events.EntityCustomer, events.EventCreated, "c1", nil, events.SourcePolling))

	msg := readMessage(t, conn)
	if msg.Type != "created" {
		t.Fatalf("type = %s, want created", msg.Type)
	}
	data, _ := msg.Data.(map[string]any)
	if data["entity_id"] != "c1" {
		t.Errorf("expected the customer event only, got %v", data)
	}
}

// TestSession_HeartbeatEnvelope tests idle heartbeats over WS.
func TestSession_HeartbeatEnvelope(t *testing.T) {
	b := events.NewBroadcaster(logging.Nop())
	srv := newWSServer(t, b, 50*time.Millisecond)

	conn := dial(t, srv, "")
	readMessage(t, conn) // connected

	msg := readMessage(t, conn)
	if msg.Type != "heartbeat" {
		t.Fatalf("type = %s, want heartbeat", msg.Type)
	}
	if msg.Timestamp == "" {
		t.Error("heartbeat missing timestamp")
	}
}

// TestSession_CleanupOnClientClose tests channel cleanup after the
// client goes away.
func TestSession_CleanupOnClientClose(t *testing.T) {
	b := events.NewBroadcaster(logging.Nop())
	srv := newWSServer(t, b, time.Minute)

	conn := dial(t, srv, "")
	readMessage(t, conn) // connected
	waitForChannels(t, b, 1)

	_ = conn.Close()
	waitForChannels(t, b, 0)
}

// TestSession_Shutdown tests that broadcaster shutdown closes the stream.
func TestSession_Shutdown(t *testing.T) {
	b := events.NewBroadcaster(logging.Nop())
	srv := newWSServer(t, b, time.Minute)

	conn := dial(t, srv, "")
	readMessage(t, conn) // connected
	waitForChannels(t, b, 1)

	b.Shutdown()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived, websocket.CloseAbnormalClosure) &&
				!strings.Contains(err.Error(), "close") {
				t.Logf("stream ended with: %v", err)
			}
			return
		}
	}
}
