package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// channelBuffer is the per-client queue capacity. A consumer that falls
// this many events behind starts losing events (best-effort delivery).
const channelBuffer = 256

// Channel is one subscribed streaming client: a bounded delivery queue
// plus the client's requested filters. A nil event on the queue is the
// shutdown sentinel.
type Channel struct {
	id        string
	queue     chan *Event
	done      chan struct{}
	closeOnce sync.Once
	createdAt time.Time

	// FilterEntity and FilterEvent, when non-empty, restrict which
	// events Matches accepts. Both must match when both are set.
	FilterEntity EntityType
	FilterEvent  EventType
}

// NewChannel creates a delivery channel with the given filters. Empty
// filter values mean "match everything".
func NewChannel(filterEntity EntityType, filterEvent EventType) *Channel {
	return &Channel{
		id:           uuid.NewString(),
		queue:        make(chan *Event, channelBuffer),
		done:         make(chan struct{}),
		createdAt:    time.Now().UTC(),
		FilterEntity: filterEntity,
		FilterEvent:  filterEvent,
	}
}

// ID returns the channel's unique identifier.
func (c *Channel) ID() string {
	return c.id
}

// CreatedAt returns when the channel was created.
func (c *Channel) CreatedAt() time.Time {
	return c.createdAt
}

// Queue returns the receive side of the channel's delivery queue.
func (c *Channel) Queue() <-chan *Event {
	return c.queue
}

// Done is closed once the channel is dead. The broadcaster uses it to
// detect channels whose session has gone away.
func (c *Channel) Done() <-chan struct{} {
	return c.done
}

// Close marks the channel dead. Safe to call more than once.
func (c *Channel) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// Matches reports whether an event passes the channel's filters. A nil
// event (the shutdown sentinel) never matches.
func (c *Channel) Matches(ev *Event) bool {
	if ev == nil {
		return false
	}
	if c.FilterEntity != "" && ev.EntityType != c.FilterEntity {
		return false
	}
	if c.FilterEvent != "" && ev.EventType != c.FilterEvent {
		return false
	}
	return true
}
