package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/clock"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/database"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/events"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/models"
)

type fakeNotifier struct {
	mu       sync.Mutex
	bookings []string
	leads    []string
	sent     []string
}

func (f *fakeNotifier) EnqueueBookingCreated(_ context.Context, booking *models.Booking) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookings = append(f.bookings, booking.ID)
}

func (f *fakeNotifier) EnqueueLeadCreated(_ context.Context, lead *models.Lead) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.leads = append(f.leads, lead.ID)
}

func (f *fakeNotifier) SendNow(_ context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	return nil
}

type fixture struct {
	db       *database.DB
	svc      *BookingService
	notifier *fakeNotifier
	bus      *events.EventBus
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := zerolog.Nop()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	notifier := &fakeNotifier{}
	bus := events.NewEventBus()
	svc := NewBookingService(db, bus, notifier, clock.Fixed{T: now}, &logger)

	return &fixture{db: db, svc: svc, notifier: notifier, bus: bus, now: now}
}

func (f *fixture) create(t *testing.T, status string, date time.Time) *models.Booking {
	t.Helper()
	booking := &models.Booking{
		Name:     "أحمد محمد",
		Phone:    "01012345678",
		CarModel: "أوبل أسترا 2019",
		Services: "غسيل, تغيير زيت",
		TimeSlot: "9:00 - 11:00 ص",
		Date:     date,
	}
	require.NoError(t, f.svc.CreateBooking(context.Background(), booking))

	if status != models.StatusPending {
		require.NoError(t, f.db.UpdateBookingStatus(context.Background(), booking.ID, status))
		booking.Status = status
	}
	return booking
}

func TestCreateBooking(t *testing.T) {
	f := newFixture(t)
	booking := f.create(t, models.StatusPending, f.now)

	_, err := uuid.Parse(booking.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPending, booking.Status)
	assert.Equal(t, []string{booking.ID}, f.notifier.bookings)

	stored, err := f.svc.GetBooking(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, "غسيل, تغيير زيت", stored.Services)
	assert.Equal(t, "9:00 - 11:00 ص", stored.TimeSlot)
}

func TestCreateBooking_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.svc.CreateBooking(ctx, &models.Booking{Phone: "0100", Date: f.now})
	assert.ErrorIs(t, err, ErrMissingFields)

	err = f.svc.CreateBooking(ctx, &models.Booking{Name: "أحمد", Phone: "0100"})
	assert.ErrorIs(t, err, ErrDateRequired)

	err = f.svc.CreateBooking(ctx, &models.Booking{ID: "not-a-uuid", Name: "أحمد", Phone: "0100", Date: f.now})
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestCreateBooking_KeepsClientID(t *testing.T) {
	f := newFixture(t)
	id := uuid.NewString()

	booking := &models.Booking{ID: id, Name: "أحمد", Phone: "0100", Date: f.now}
	require.NoError(t, f.svc.CreateBooking(context.Background(), booking))
	assert.Equal(t, id, booking.ID)

	stored, err := f.svc.GetBooking(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "أحمد", stored.Name)
}

func TestConfirm(t *testing.T) {
	f := newFixture(t)
	booking := f.create(t, models.StatusPending, f.now)

	var published []string
	f.bus.Subscribe(events.EventBookingConfirmed, func(e *events.Event) error {
		published = append(published, e.Type)
		return nil
	})

	require.NoError(t, f.svc.Confirm(context.Background(), booking.ID))

	stored, err := f.svc.GetBooking(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, stored.Status)
	assert.Equal(t, []string{events.EventBookingConfirmed}, published)
}

func TestTransitionMatrix(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		action  func(*BookingService, context.Context, string) error
		wantErr bool
	}{
		{"pending confirm", models.StatusPending, (*BookingService).Confirm, false},
		{"confirmed confirm", models.StatusConfirmed, (*BookingService).Confirm, true},
		{"completed confirm", models.StatusCompleted, (*BookingService).Confirm, true},
		{"confirmed complete", models.StatusConfirmed, (*BookingService).Complete, false},
		{"pending complete", models.StatusPending, (*BookingService).Complete, true},
		{"missed complete", models.StatusMissed, (*BookingService).Complete, true},
		{"confirmed miss", models.StatusConfirmed, (*BookingService).MarkMissed, false},
		{"pending miss", models.StatusPending, (*BookingService).MarkMissed, true},
		{"confirmed cancel", models.StatusConfirmed, (*BookingService).Cancel, false},
		{"cancelled cancel", models.StatusCancelled, (*BookingService).Cancel, true},
		{"completed cancel", models.StatusCompleted, (*BookingService).Cancel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			booking := f.create(t, tt.from, f.now)

			err := tt.action(f.svc, context.Background(), booking.ID)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTransition)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestComplete_FutureDateRejected(t *testing.T) {
	f := newFixture(t)
	booking := f.create(t, models.StatusConfirmed, f.now.AddDate(0, 0, 1))

	err := f.svc.Complete(context.Background(), booking.ID)
	assert.ErrorIs(t, err, ErrFutureCompletion)
}

func TestComplete_TodayAllowed(t *testing.T) {
	f := newFixture(t)
	booking := f.create(t, models.StatusConfirmed, f.now)

	require.NoError(t, f.svc.Complete(context.Background(), booking.ID))

	stored, err := f.svc.GetBooking(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, stored.Status)
}

func TestComplete_PastAllowed(t *testing.T) {
	f := newFixture(t)
	booking := f.create(t, models.StatusConfirmed, f.now.AddDate(0, 0, -3))

	assert.NoError(t, f.svc.Complete(context.Background(), booking.ID))
}

func TestReschedule_ResetsMissedToConfirmed(t *testing.T) {
	f := newFixture(t)
	booking := f.create(t, models.StatusMissed, f.now.AddDate(0, 0, -2))

	newDate := f.now.AddDate(0, 0, 3)
	require.NoError(t, f.svc.Reschedule(context.Background(), booking.ID, newDate, "3:00 - 5:00 م"))

	stored, err := f.svc.GetBooking(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, stored.Status)
	assert.Equal(t, "3:00 - 5:00 م", stored.TimeSlot)
	assert.True(t, stored.Date.Equal(newDate) || stored.Date.UTC().Equal(newDate.UTC()))
}

func TestReschedule_KeepsServicesAndNote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	booking := &models.Booking{
		Name:     "منى علي",
		Phone:    "01087654321",
		CarModel: "أوبل كورسا",
		Services: "فحص شامل",
		TimeSlot: "9:00 - 11:00 ص",
		Note:     "قطع أصلية فقط",
		Date:     f.now,
	}
	require.NoError(t, f.svc.CreateBooking(ctx, booking))
	require.NoError(t, f.db.UpdateBookingStatus(ctx, booking.ID, models.StatusConfirmed))

	require.NoError(t, f.svc.Reschedule(ctx, booking.ID, f.now.AddDate(0, 0, 1), "1:00 - 3:00 م"))

	raw, err := f.db.GetBookingServiceType(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, "فحص شامل | ⏰ 1:00 - 3:00 م | 📝 قطع أصلية فقط", raw)
}

func TestReschedule_WithoutSlotKeepsPackedText(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	booking := f.create(t, models.StatusConfirmed, f.now)

	before, err := f.db.GetBookingServiceType(ctx, booking.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.Reschedule(ctx, booking.ID, f.now.AddDate(0, 0, 2), ""))

	after, err := f.db.GetBookingServiceType(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestReschedule_PendingRejected(t *testing.T) {
	f := newFixture(t)
	booking := f.create(t, models.StatusPending, f.now)

	err := f.svc.Reschedule(context.Background(), booking.ID, f.now.AddDate(0, 0, 1), "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestReschedule_DateRequired(t *testing.T) {
	f := newFixture(t)
	booking := f.create(t, models.StatusConfirmed, f.now)

	err := f.svc.Reschedule(context.Background(), booking.ID, time.Time{}, "3:00 - 5:00 م")
	assert.ErrorIs(t, err, ErrDateRequired)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	booking := f.create(t, models.StatusCancelled, f.now)

	require.NoError(t, f.svc.Delete(context.Background(), booking.ID))

	_, err := f.svc.GetBooking(context.Background(), booking.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestTransition_UnknownBooking(t *testing.T) {
	f := newFixture(t)
	err := f.svc.Confirm(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, database.ErrNotFound)
}
