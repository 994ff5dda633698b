package events

import "testing"

// TestChannel_Matches tests filter semantics: each filter, when set,
// must match for an event to pass.
func TestChannel_Matches(t *testing.T) {
	customerCreated := New(EntityCustomer, EventCreated, "c1", nil, SourcePolling)
	requestCreated := New(EntityRequest, EventCreated, "r1", nil, SourcePolling)
	customerUpdated := New(EntityCustomer, EventUpdated, "c1", nil, SourcePolling)

	tests := []struct {
		name         string
		filterEntity EntityType
		filterEvent  EventType
		event        *Event
		want         bool
	}{
		{"no filters pass everything", "", "", requestCreated, true},
		{"entity filter match", EntityCustomer, "", customerCreated, true},
		{"entity filter mismatch", EntityCustomer, "", requestCreated, false},
		{"event filter match", "", EventCreated, requestCreated, true},
		{"event filter mismatch", "", EventCreated, customerUpdated, false},
		{"both filters match", EntityCustomer, EventCreated, customerCreated, true},
		{"entity matches but event does not", EntityCustomer, EventCreated, customerUpdated, false},
		{"event matches but entity does not", EntityCustomer, EventCreated, requestCreated, false},
		{"sentinel never matches", "", "", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := NewChannel(tt.filterEntity, tt.filterEvent)
			if got := ch.Matches(tt.event); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestChannel_Close tests that Close is idempotent and observable.
func TestChannel_Close(t *testing.T) {
	ch := NewChannel("", "")

	select {
	case <-ch.Done():
		t.Fatal("new channel should not be done")
	default:
	}

	ch.Close()
	ch.Close() // must not panic

	select {
	case <-ch.Done():
	default:
		t.Error("closed channel should report done")
	}
}

// TestChannel_Identity tests that channels get distinct IDs.
func TestChannel_Identity(t *testing.T) {
	a := NewChannel("", "")
	b := NewChannel("", "")

	if a.ID() == "" || a.ID() == b.ID() {
		t.Errorf("expected distinct non-empty IDs, got %q and %q", a.ID(), b.ID())
	}
	if a.CreatedAt().IsZero() {
		t.Error("expected creation time to be set")
	}
}
