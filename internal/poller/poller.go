package poller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/clock"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/domain"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/events"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/metrics"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/models"
)

// Poller re-reads the entire data set every interval and diffs booking
// ids against the set it has already seen. Anything unseen raises the
// new-booking alert; the very first fetch only seeds the set so a
// fresh dashboard does not replay history as "new".
type Poller struct {
	repo     domain.Repository
	state    domain.StateRepository
	sink     domain.NotificationSink
	eventBus domain.EventPublisher
	clk      clock.Clock
	logger   *zerolog.Logger
	interval time.Duration

	mu        sync.RWMutex
	bookings  []models.Booking
	leads     []models.Lead
	parts     []models.Part
	knownIDs  map[string]struct{}
	firstLoad bool
}

func New(repo domain.Repository, state domain.StateRepository, sink domain.NotificationSink, eventBus domain.EventPublisher, clk clock.Clock, interval time.Duration, logger *zerolog.Logger) *Poller {
	if interval <= 0 {
		interval = time.Duration(models.DefaultPollIntervalSeconds) * time.Second
	}
	return &Poller{
		repo:      repo,
		state:     state,
		sink:      sink,
		eventBus:  eventBus,
		clk:       clk,
		logger:    logger,
		interval:  interval,
		knownIDs:  make(map[string]struct{}),
		firstLoad: true,
	}
}

// Start restores the known-id set, runs one immediate refresh, then
// polls until the context is cancelled.
func (p *Poller) Start(ctx context.Context) {
	p.restoreState(ctx)

	p.logger.Info().Dur("interval", p.interval).Msg("Starting booking poller")

	p.tick(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info().Msg("Booking poller stopped")
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

// restoreState seeds knownIDs from the state store. A non-empty
// persisted set means a restart, not a first load, so no replay.
func (p *Poller) restoreState(ctx context.Context) {
	if p.state == nil {
		return
	}

	ids, err := p.state.GetKnownIDs(ctx)
	if err != nil {
		p.logger.Warn().Err(err).Msg("Known-id restore failed, treating as first load")
		return
	}
	if len(ids) == 0 {
		return
	}

	p.mu.Lock()
	for _, id := range ids {
		p.knownIDs[id] = struct{}{}
	}
	p.firstLoad = false
	p.mu.Unlock()

	p.logger.Info().Int("count", len(ids)).Msg("Restored known booking ids")
}

// tick performs one full refresh cycle. Later responses overwrite
// earlier snapshots wholesale; there is no merging.
func (p *Poller) tick(ctx context.Context) {
	bookings, err := p.repo.ListBookings(ctx)
	if err != nil {
		p.logger.Error().Err(err).Msg("Poll bookings error")
		return
	}
	leads, err := p.repo.ListLeads(ctx)
	if err != nil {
		p.logger.Error().Err(err).Msg("Poll leads error")
		return
	}
	parts, err := p.repo.ListParts(ctx)
	if err != nil {
		p.logger.Error().Err(err).Msg("Poll parts error")
		return
	}

	p.mu.Lock()
	p.bookings = bookings
	p.leads = leads
	p.parts = parts

	var fresh []models.Booking
	for _, b := range bookings {
		if _, seen := p.knownIDs[b.ID]; !seen {
			fresh = append(fresh, b)
			p.knownIDs[b.ID] = struct{}{}
		}
	}
	silent := p.firstLoad
	p.firstLoad = false
	known := make([]string, 0, len(p.knownIDs))
	for id := range p.knownIDs {
		known = append(known, id)
	}
	p.mu.Unlock()

	metrics.IncPollTick()

	if len(fresh) > 0 && !silent {
		p.alert(fresh)
	}

	if p.state != nil {
		if err := p.state.SetKnownIDs(ctx, known); err != nil {
			p.logger.Warn().Err(err).Msg("Known-id persist failed")
		}
	}
}

// alert plays the sound immediately, then raises exactly one toast for
// the whole batch after a short delay. The toast names the first new
// booking in fetch order regardless of batch size.
func (p *Poller) alert(fresh []models.Booking) {
	metrics.AddNewBookings(len(fresh))

	first := fresh[0]
	p.logger.Info().Int("count", len(fresh)).Str("booking_id", first.ID).Msg("New bookings detected")

	if p.sink != nil {
		if err := p.sink.Play(); err != nil {
			p.logger.Debug().Err(err).Msg("Notification sound not played")
		}

		time.Sleep(time.Duration(models.ToastDelayMillis) * time.Millisecond)
		p.sink.Toast(models.Toast{
			Title:       "🚗 حجز جديد!",
			Description: fmt.Sprintf("%s - %s", first.Name, first.CarModel),
			BookingID:   first.ID,
			Duration:    time.Duration(models.ToastDurationSeconds) * time.Second,
			RaisedAt:    p.clk.Now(),
		})
	}

	if p.eventBus != nil {
		ids := make([]string, len(fresh))
		for i, b := range fresh {
			ids[i] = b.ID
		}
		if err := p.eventBus.PublishJSON(events.EventNewBookingsSeen, map[string]interface{}{
			"booking_ids": ids,
			"count":       len(fresh),
		}); err != nil {
			p.logger.Error().Err(err).Msg("publish event error")
		}
	}
}

// Bookings returns the latest snapshot.
func (p *Poller) Bookings() []models.Booking {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]models.Booking, len(p.bookings))
	copy(out, p.bookings)
	return out
}

// Leads returns the latest snapshot.
func (p *Poller) Leads() []models.Lead {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]models.Lead, len(p.leads))
	copy(out, p.leads)
	return out
}

// Parts returns the latest snapshot.
func (p *Poller) Parts() []models.Part {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]models.Part, len(p.parts))
	copy(out, p.parts)
	return out
}

// Reset clears the known-id set so the next tick seeds silently again.
func (p *Poller) Reset(ctx context.Context) error {
	p.mu.Lock()
	p.knownIDs = make(map[string]struct{})
	p.firstLoad = true
	p.mu.Unlock()

	if p.state == nil {
		return nil
	}
	return p.state.ClearKnownIDs(ctx)
}
