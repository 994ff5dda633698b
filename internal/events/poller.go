package events

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Virtus92/Rising-BSM-Dev/internal/bms"
)

// Polling cadence. The BMS API offers no change notifications, so the
// poller diffs modification timestamps against a watermark. A class with
// more than pollPageSize changes per interval loses events past the page
// boundary; that ceiling is inherent to the polling design.
const (
	pollInterval = 5 * time.Second
	errorBackoff = 30 * time.Second
	pollPageSize = 10
)

// RecentLister is what the poller needs from the BMS client: the most
// recently touched records of each entity class, newest first.
type RecentLister interface {
	RecentCustomers(ctx context.Context, limit int) ([]bms.Customer, error)
	RecentRequests(ctx context.Context, limit int) ([]bms.Request, error)
	RecentAppointments(ctx context.Context, limit int) ([]bms.Appointment, error)
}

// Poller periodically scans the BMS API for changed entities and hands
// synthesized change events to the broadcaster.
type Poller struct {
	source      RecentLister
	broadcaster *Broadcaster
	logger      *zerolog.Logger

	mu        sync.Mutex
	lastCheck time.Time
}

// NewPoller creates a poller. The watermark starts at the current time,
// so only changes made after process start are reported.
func NewPoller(source RecentLister, broadcaster *Broadcaster, logger *zerolog.Logger) *Poller {
	return &Poller{
		source:      source,
		broadcaster: broadcaster,
		logger:      logger,
		lastCheck:   time.Now().UTC(),
	}
}

// LastCheck returns the current watermark.
func (p *Poller) LastCheck() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastCheck
}

func (p *Poller) setLastCheck(t time.Time) {
	p.mu.Lock()
	p.lastCheck = t
	p.mu.Unlock()
}

// Run polls until the context is cancelled. A failed cycle is logged,
// leaves the watermark untouched, and schedules the next attempt after
// the longer error backoff instead of the normal interval.
func (p *Poller) Run(ctx context.Context) {
	p.logger.Info().
		Dur("interval", pollInterval).
		Int("page_size", pollPageSize).
		Msg("Change poller started")

	delay := pollInterval
	for {
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			p.logger.Info().Msg("Change poller stopped")
			return
		case <-timer.C:
		}

		if err := p.cycle(ctx); err != nil {
			if ctx.Err() != nil {
				p.logger.Info().Msg("Change poller stopped")
				return
			}
			p.logger.Error().Err(err).Msg("Polling cycle failed")
			delay = errorBackoff
			continue
		}
		delay = pollInterval
	}
}

// cycle scans all three entity classes. The watermark advances only
// when every class was scanned successfully, so a failed cycle re-scans
// the same window (duplicate emission is acceptable; lost events are not).
func (p *Poller) cycle(ctx context.Context) error {
	now := time.Now().UTC()
	since := p.LastCheck()

	customers, err := p.source.RecentCustomers(ctx, pollPageSize)
	if err != nil {
		return err
	}
	for _, c := range customers {
		p.emit(since, now, EntityCustomer, c.ID, c.CreatedAt, c.UpdatedAt, map[string]any{
			"id":     c.ID,
			"name":   c.Name,
			"email":  c.Email,
			"status": c.Status,
		})
	}

	requests, err := p.source.RecentRequests(ctx, pollPageSize)
	if err != nil {
		return err
	}
	for _, r := range requests {
		p.emit(since, now, EntityRequest, r.ID, r.CreatedAt, r.UpdatedAt, map[string]any{
			"id":         r.ID,
			"subject":    r.Subject,
			"status":     r.Status,
			"assignedTo": r.AssignedTo,
			"customerId": r.CustomerID,
		})
	}

	appointments, err := p.source.RecentAppointments(ctx, pollPageSize)
	if err != nil {
		return err
	}
	for _, a := range appointments {
		p.emit(since, now, EntityAppointment, a.ID, a.CreatedAt, a.UpdatedAt, map[string]any{
			"id":          a.ID,
			"title":       a.Title,
			"status":      a.Status,
			"scheduledAt": a.ScheduledAt,
			"customerId":  a.CustomerID,
		})
	}

	p.setLastCheck(now)
	return nil
}

// emit classifies and broadcasts one record's change, if it is newer
// than the watermark. Records without a parseable timestamp are skipped;
// a record whose createdAt equals its updatedAt is reported as created.
func (p *Poller) emit(since, now time.Time, entity EntityType, id, createdAt, updatedAt string, data map[string]any) {
	raw := updatedAt
	if raw == "" {
		raw = createdAt
	}
	if raw == "" {
		p.logger.Debug().
			Str("entity_type", string(entity)).
			Str("entity_id", id).
			Msg("Record has no timestamps, skipping")
		return
	}

	modified, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		p.logger.Debug().
			Str("entity_type", string(entity)).
			Str("entity_id", id).
			Str("timestamp", raw).
			Msg("Unparseable record timestamp, skipping")
		return
	}

	if !modified.After(since) {
		return
	}

	eventType := EventUpdated
	if createdAt == updatedAt {
		eventType = EventCreated
	}

	p.broadcaster.Broadcast(&Event{
		EntityType: entity,
		EventType:  eventType,
		EntityID:   id,
		Data:       data,
		Timestamp:  now.Format(time.RFC3339),
		Source:     SourcePolling,
	})
}
