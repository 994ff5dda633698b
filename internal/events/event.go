// Package events implements the change-event relay: the event model, the
// per-client delivery channels, the broadcaster that fans events out to
// them, and the poller that detects changes in the BMS API.
package events

import "time"

// EntityType identifies which BMS entity class an event refers to.
type EntityType string

// Entity classes carried by change events.
const (
	EntityCustomer    EntityType = "customer"
	EntityRequest     EntityType = "request"
	EntityAppointment EntityType = "appointment"
	EntityTest        EntityType = "test"
)

// EventType classifies what happened to the entity.
type EventType string

// Event types. Heartbeat and connected are synthetic per-session events;
// they never pass through the broadcaster.
const (
	EventCreated   EventType = "created"
	EventUpdated   EventType = "updated"
	EventDeleted   EventType = "deleted"
	EventTest      EventType = "test_event"
	EventHeartbeat EventType = "heartbeat"
	EventConnected EventType = "connected"
)

// Source records how an event entered the relay.
type Source string

// Event sources.
const (
	SourcePolling Source = "polling"
	SourceManual  Source = "manual_trigger"
)

// Event is the unit of change information relayed to subscribers. Events
// are immutable once constructed and carry only a shallow projection of
// the entity, never a back-reference.
type Event struct {
	EntityType EntityType     `json:"entity_type"`
	EventType  EventType      `json:"event_type"`
	EntityID   string         `json:"entity_id"`
	Data       map[string]any `json:"data"`
	Timestamp  string         `json:"timestamp"`
	Source     Source         `json:"source"`
}

// New constructs an event stamped with the current UTC time.
func New(entity EntityType, eventType EventType, entityID string, data map[string]any, source Source) *Event {
	if data == nil {
		data = map[string]any{}
	}
	return &Event{
		EntityType: entity,
		EventType:  eventType,
		EntityID:   entityID,
		Data:       data,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Source:     source,
	}
}
