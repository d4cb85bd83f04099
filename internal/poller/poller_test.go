package poller

import (
	"context"
	"path/filepath"
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
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/repository"
)

type pollerFixture struct {
	db    *database.DB
	p     *Poller
	gate  *SoundGate
	state *repository.MemoryStateRepository
	now   time.Time
}

func newPollerFixture(t *testing.T) *pollerFixture {
	t.Helper()

	logger := zerolog.Nop()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	gate := NewSoundGate()
	state := repository.NewMemoryStateRepository()
	p := New(db, state, gate, events.NewEventBus(), clock.Fixed{T: now}, 2*time.Second, &logger)

	return &pollerFixture{db: db, p: p, gate: gate, state: state, now: now}
}

func (f *pollerFixture) insertBooking(t *testing.T, name string, createdAt time.Time) *models.Booking {
	t.Helper()
	booking := &models.Booking{
		ID:        uuid.NewString(),
		Name:      name,
		Phone:     "01000000000",
		CarModel:  "أوبل أسترا",
		Services:  "غسيل",
		Date:      f.now,
		Status:    models.StatusPending,
		CreatedAt: createdAt,
	}
	require.NoError(t, f.db.CreateBooking(context.Background(), booking))
	return booking
}

func TestTick_FirstFetchSeedsSilently(t *testing.T) {
	f := newPollerFixture(t)
	f.gate.Unlock()

	f.insertBooking(t, "عميل قديم", f.now.Add(-time.Hour))
	f.insertBooking(t, "عميل أقدم", f.now.Add(-2*time.Hour))

	f.p.tick(context.Background())

	chimes, toasts := f.gate.Drain()
	assert.Zero(t, chimes)
	assert.Empty(t, toasts)
	assert.Len(t, f.p.Bookings(), 2)
}

func TestTick_NewBookingRaisesOneToast(t *testing.T) {
	f := newPollerFixture(t)
	f.gate.Unlock()
	ctx := context.Background()

	f.insertBooking(t, "عميل قديم", f.now.Add(-time.Hour))
	f.p.tick(ctx)
	f.gate.Drain()

	fresh := f.insertBooking(t, "عميل جديد", f.now)
	f.p.tick(ctx)

	chimes, toasts := f.gate.Drain()
	assert.Equal(t, 1, chimes)
	require.Len(t, toasts, 1)
	assert.Equal(t, fresh.ID, toasts[0].BookingID)
	assert.Equal(t, "🚗 حجز جديد!", toasts[0].Title)
	assert.Contains(t, toasts[0].Description, "عميل جديد")
	assert.Equal(t, time.Duration(models.ToastDurationSeconds)*time.Second, toasts[0].Duration)
}

func TestTick_BatchRaisesSingleToastForNewestBooking(t *testing.T) {
	f := newPollerFixture(t)
	f.gate.Unlock()
	ctx := context.Background()

	f.insertBooking(t, "عميل قديم", f.now.Add(-time.Hour))
	f.p.tick(ctx)
	f.gate.Drain()

	f.insertBooking(t, "جديد أول", f.now.Add(-time.Minute))
	newest := f.insertBooking(t, "جديد ثاني", f.now)
	f.p.tick(ctx)

	chimes, toasts := f.gate.Drain()
	assert.Equal(t, 1, chimes)
	require.Len(t, toasts, 1)
	// The store lists newest first, so the toast names the newest booking.
	assert.Equal(t, newest.ID, toasts[0].BookingID)
}

func TestTick_NoRepeatForKnownBookings(t *testing.T) {
	f := newPollerFixture(t)
	f.gate.Unlock()
	ctx := context.Background()

	f.insertBooking(t, "عميل", f.now.Add(-time.Hour))
	f.p.tick(ctx)
	f.gate.Drain()

	f.p.tick(ctx)
	f.p.tick(ctx)

	chimes, toasts := f.gate.Drain()
	assert.Zero(t, chimes)
	assert.Empty(t, toasts)
}

func TestTick_LockedGateStillQueuesToast(t *testing.T) {
	f := newPollerFixture(t)
	ctx := context.Background()

	f.p.tick(ctx)
	f.insertBooking(t, "عميل جديد", f.now)
	f.p.tick(ctx)

	chimes, toasts := f.gate.Drain()
	assert.Zero(t, chimes, "locked gate absorbs the chime")
	assert.Len(t, toasts, 1, "the toast is raised regardless")
}

func TestRestoreState_SkipsReplayAfterRestart(t *testing.T) {
	f := newPollerFixture(t)
	f.gate.Unlock()
	ctx := context.Background()

	existing := f.insertBooking(t, "عميل", f.now.Add(-time.Hour))
	require.NoError(t, f.state.SetKnownIDs(ctx, []string{existing.ID}))

	// Fresh poller instance over the same state store, as after a restart.
	logger := zerolog.Nop()
	restarted := New(f.db, f.state, f.gate, events.NewEventBus(), clock.Fixed{T: f.now}, 2*time.Second, &logger)
	restarted.restoreState(ctx)
	restarted.tick(ctx)

	chimes, toasts := f.gate.Drain()
	assert.Zero(t, chimes)
	assert.Empty(t, toasts)
}

func TestTick_PersistsKnownIDs(t *testing.T) {
	f := newPollerFixture(t)
	ctx := context.Background()

	b := f.insertBooking(t, "عميل", f.now)
	f.p.tick(ctx)

	ids, err := f.state.GetKnownIDs(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, b.ID)
}

func TestReset(t *testing.T) {
	f := newPollerFixture(t)
	f.gate.Unlock()
	ctx := context.Background()

	f.insertBooking(t, "عميل", f.now.Add(-time.Hour))
	f.p.tick(ctx)
	require.NoError(t, f.p.Reset(ctx))

	ids, err := f.state.GetKnownIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	// After a reset the next tick seeds silently again.
	f.p.tick(ctx)
	chimes, toasts := f.gate.Drain()
	assert.Zero(t, chimes)
	assert.Empty(t, toasts)
}

func TestSnapshots(t *testing.T) {
	f := newPollerFixture(t)
	ctx := context.Background()

	f.insertBooking(t, "عميل", f.now)
	require.NoError(t, f.db.CreateLead(ctx, &models.Lead{ID: uuid.NewString(), Name: "سارة", Phone: "0105", OfferTitle: "عرض", Status: models.LeadStatusNew}))
	require.NoError(t, f.db.CreatePart(ctx, &models.Part{Name: "حساس", Models: []string{"أسترا"}, Status: models.PartAvailable}))

	f.p.tick(ctx)

	assert.Len(t, f.p.Bookings(), 1)
	assert.Len(t, f.p.Leads(), 1)
	assert.Len(t, f.p.Parts(), 1)
}
