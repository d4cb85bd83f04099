package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/clock"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/domain"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/events"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/models"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/timeslot"
)

var (
	// ErrInvalidTransition is returned for any status change the
	// workflow does not offer.
	ErrInvalidTransition = errors.New("status transition not allowed")

	// ErrFutureCompletion rejects completing a booking whose day has
	// not arrived yet.
	ErrFutureCompletion = errors.New("future-dated booking cannot be completed")

	// ErrDateRequired rejects a reschedule without a chosen day.
	ErrDateRequired = errors.New("a new date is required")

	// ErrInvalidID rejects a client-supplied booking id that is not a UUID.
	ErrInvalidID = errors.New("invalid booking id")

	ErrMissingFields = errors.New("name and phone are required")
)

// BookingService is the single authority over booking status
// transitions. The store itself enforces nothing; every writer goes
// through here.
type BookingService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	notifier domain.Notifier
	clk      clock.Clock
	logger   *zerolog.Logger
}

func NewBookingService(repo domain.Repository, eventBus domain.EventPublisher, notifier domain.Notifier, clk clock.Clock, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		repo:     repo,
		eventBus: eventBus,
		notifier: notifier,
		clk:      clk,
		logger:   logger,
	}
}

// CreateBooking validates and stores a public submission, then fires
// the best-effort Telegram push. The push can never fail the insert.
func (s *BookingService) CreateBooking(ctx context.Context, booking *models.Booking) error {
	if strings.TrimSpace(booking.Name) == "" || strings.TrimSpace(booking.Phone) == "" {
		return ErrMissingFields
	}
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	} else if _, err := uuid.Parse(booking.ID); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidID, booking.ID)
	}
	if booking.Date.IsZero() {
		return ErrDateRequired
	}
	booking.Status = models.StatusPending

	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		return err
	}

	s.publishEvent(events.EventBookingCreated, booking, "public")
	if s.notifier != nil {
		s.notifier.EnqueueBookingCreated(ctx, booking)
	}
	return nil
}

// Confirm moves pending to confirmed.
func (s *BookingService) Confirm(ctx context.Context, id string) error {
	return s.transition(ctx, id, models.StatusConfirmed, events.EventBookingConfirmed, nil)
}

// Complete moves confirmed to completed, but only once the
// appointment day has arrived.
func (s *BookingService) Complete(ctx context.Context, id string) error {
	return s.transition(ctx, id, models.StatusCompleted, events.EventBookingCompleted, func(b *models.Booking) error {
		now := s.clk.Now()
		if clock.BeforeDay(now, b.Date.In(now.Location())) {
			return ErrFutureCompletion
		}
		return nil
	})
}

// MarkMissed records a confirmed no-show.
func (s *BookingService) MarkMissed(ctx context.Context, id string) error {
	return s.transition(ctx, id, models.StatusMissed, events.EventBookingMissed, nil)
}

// Cancel drops a confirmed booking, typically from the missed-alert banner.
func (s *BookingService) Cancel(ctx context.Context, id string) error {
	return s.transition(ctx, id, models.StatusCancelled, events.EventBookingCancelled, nil)
}

// allowedFrom lists the source statuses each target status accepts.
var allowedFrom = map[string][]string{
	models.StatusConfirmed: {models.StatusPending},
	models.StatusCompleted: {models.StatusConfirmed},
	models.StatusMissed:    {models.StatusConfirmed},
	models.StatusCancelled: {models.StatusConfirmed},
}

// rescheduleFrom are the statuses a date/time edit accepts.
var rescheduleFrom = map[string]bool{
	models.StatusConfirmed: true,
	models.StatusMissed:    true,
	models.StatusCancelled: true,
}

func (s *BookingService) transition(ctx context.Context, id, target, eventType string, guard func(*models.Booking) error) error {
	booking, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return err
	}

	if !transitionAllowed(booking.Status, target) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, target)
	}
	if guard != nil {
		if err := guard(booking); err != nil {
			return err
		}
	}

	if err := s.repo.UpdateBookingStatus(ctx, id, target); err != nil {
		return err
	}

	booking.Status = target
	s.publishEvent(eventType, booking, "admin")
	return nil
}

func transitionAllowed(from, to string) bool {
	for _, src := range allowedFrom[to] {
		if src == from {
			return true
		}
	}
	return false
}

// Reschedule moves a booking to a new day and optionally rewrites the
// embedded time slot. A previously missed or cancelled booking comes
// back as confirmed; a confirmed one stays confirmed. The packed
// service_type is edited in place so everything outside the time
// marker survives byte for byte.
func (s *BookingService) Reschedule(ctx context.Context, id string, newDate time.Time, newSlot string) error {
	if newDate.IsZero() {
		return ErrDateRequired
	}

	booking, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return err
	}
	if !rescheduleFrom[booking.Status] {
		return fmt.Errorf("%w: reschedule from %s", ErrInvalidTransition, booking.Status)
	}

	raw, err := s.repo.GetBookingServiceType(ctx, id)
	if err != nil {
		return err
	}
	if newSlot != "" {
		raw = timeslot.SetTimeSlot(raw, newSlot)
	}

	if err := s.repo.UpdateBookingSchedule(ctx, id, newDate, models.StatusConfirmed, raw); err != nil {
		return err
	}

	booking.Status = models.StatusConfirmed
	booking.Date = newDate
	if newSlot != "" {
		booking.TimeSlot = newSlot
	}
	s.publishEvent(events.EventBookingRescheduled, booking, "admin")
	return nil
}

// Delete removes a booking permanently. The HTTP layer demands the
// explicit confirmation; by this point there is no undo.
func (s *BookingService) Delete(ctx context.Context, id string) error {
	booking, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteBooking(ctx, id); err != nil {
		return err
	}
	s.publishEvent(events.EventBookingDeleted, booking, "admin")
	return nil
}

func (s *BookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	return s.repo.GetBooking(ctx, id)
}

func (s *BookingService) ListBookings(ctx context.Context) ([]models.Booking, error) {
	return s.repo.ListBookings(ctx)
}

// BookingFilter narrows a booking list. Zero fields match everything.
type BookingFilter struct {
	Phone  string
	Status string
	Date   time.Time
}

// FilterBookings lists bookings matching the filter, newest first. The
// phone match is a substring so partial numbers work.
func (s *BookingService) FilterBookings(ctx context.Context, filter BookingFilter) ([]models.Booking, error) {
	bookings, err := s.repo.ListBookings(ctx)
	if err != nil {
		return nil, err
	}

	phone := strings.TrimSpace(filter.Phone)
	if phone == "" && filter.Status == "" && filter.Date.IsZero() {
		return bookings, nil
	}

	matched := make([]models.Booking, 0, len(bookings))
	for _, b := range bookings {
		if phone != "" && !strings.Contains(b.Phone, phone) {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if !filter.Date.IsZero() && !clock.SameDay(b.Date.In(filter.Date.Location()), filter.Date) {
			continue
		}
		matched = append(matched, b)
	}
	return matched, nil
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking, changedBy string) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID: booking.ID,
		Name:      booking.Name,
		Phone:     booking.Phone,
		CarModel:  booking.CarModel,
		Status:    booking.Status,
		Date:      booking.Date,
		TimeSlot:  booking.TimeSlot,
		ChangedBy: changedBy,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Str("booking_id", booking.ID).Msg("publish event error")
	}
}
