package events

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// enqueueTimeout bounds how long a single slow consumer may stall the
// fan-out pass for its own queue. On timeout the event is dropped for
// that channel only.
const enqueueTimeout = time.Second

// Broadcaster owns the registry of active delivery channels and fans
// events out to all of them. Delivery is best-effort and at-most-once
// per channel; one slow or dead consumer never blocks the others.
type Broadcaster struct {
	mu       sync.RWMutex
	channels map[*Channel]struct{}
	logger   *zerolog.Logger
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster(logger *zerolog.Logger) *Broadcaster {
	return &Broadcaster{
		channels: make(map[*Channel]struct{}),
		logger:   logger,
	}
}

// Register adds a channel to the active set. Registering a channel twice
// is a no-op.
func (b *Broadcaster) Register(ch *Channel) {
	b.mu.Lock()
	b.channels[ch] = struct{}{}
	total := len(b.channels)
	b.mu.Unlock()

	b.logger.Info().
		Str("channel_id", ch.ID()).
		Int("active_channels", total).
		Msg("Delivery channel registered")
}

// Unregister removes a channel from the active set and marks it dead.
// Unregistering an absent channel is a no-op.
func (b *Broadcaster) Unregister(ch *Channel) {
	b.mu.Lock()
	_, present := b.channels[ch]
	delete(b.channels, ch)
	total := len(b.channels)
	b.mu.Unlock()

	ch.Close()

	if present {
		b.logger.Info().
			Str("channel_id", ch.ID()).
			Int("active_channels", total).
			Msg("Delivery channel unregistered")
	}
}

// Len returns the number of currently registered channels.
func (b *Broadcaster) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.channels)
}

// Broadcast fans one event out to every registered channel and returns
// the number of channels it was enqueued to. It never fails: a full
// queue drops the event for that channel only, and a dead channel is
// removed after the pass. FIFO order is preserved per channel.
func (b *Broadcaster) Broadcast(ev *Event) int {
	b.mu.RLock()
	channels := make([]*Channel, 0, len(b.channels))
	for ch := range b.channels {
		channels = append(channels, ch)
	}
	b.mu.RUnlock()

	if len(channels) == 0 {
		return 0
	}

	var dead []*Channel
	delivered := 0

	for _, ch := range channels {
		// A channel that is already dead must never count as delivered,
		// even when its queue has room.
		select {
		case <-ch.Done():
			dead = append(dead, ch)
			continue
		default:
		}

		timer := time.NewTimer(enqueueTimeout)
		select {
		case ch.queue <- ev:
			delivered++
		case <-ch.Done():
			dead = append(dead, ch)
		case <-timer.C:
			b.logger.Warn().
				Str("channel_id", ch.ID()).
				Str("event_type", string(ev.EventType)).
				Msg("Channel queue full, skipping event")
		}
		timer.Stop()
	}

	for _, ch := range dead {
		b.Unregister(ch)
	}

	b.logger.Debug().
		Str("event_type", string(ev.EventType)).
		Str("entity_type", string(ev.EntityType)).
		Int("delivered", delivered).
		Msg("Event broadcast")

	return delivered
}

// Shutdown delivers the nil sentinel to every registered channel so each
// session's receive loop observes shutdown and exits, then clears the
// registry. Channels with full queues are closed so their sessions still
// notice.
func (b *Broadcaster) Shutdown() {
	b.mu.Lock()
	channels := make([]*Channel, 0, len(b.channels))
	for ch := range b.channels {
		channels = append(channels, ch)
	}
	b.channels = make(map[*Channel]struct{})
	b.mu.Unlock()

	for _, ch := range channels {
		select {
		case ch.queue <- nil:
		default:
			// Queue full; the closed done channel carries the signal.
		}
		ch.Close()
	}

	b.logger.Info().
		Int("channels_notified", len(channels)).
		Msg("Broadcaster shut down")
}
