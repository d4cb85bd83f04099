package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/models"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	logger := zerolog.Nop()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testBooking(createdAt time.Time) *models.Booking {
	return &models.Booking{
		ID:        uuid.NewString(),
		Name:      "أحمد محمد",
		Phone:     "01012345678",
		CarModel:  "أوبل أسترا 2019",
		Services:  "غسيل, تغيير زيت",
		TimeSlot:  "9:00 - 11:00 ص",
		Note:      "يفضل الصباح",
		Date:      time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Status:    models.StatusPending,
		CreatedAt: createdAt,
	}
}

func TestCreateAndGetBooking(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	booking := testBooking(time.Now())
	require.NoError(t, db.CreateBooking(ctx, booking))

	stored, err := db.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.Name, stored.Name)
	assert.Equal(t, "غسيل, تغيير زيت", stored.Services)
	assert.Equal(t, "9:00 - 11:00 ص", stored.TimeSlot)
	assert.Equal(t, "يفضل الصباح", stored.Note)
	assert.Equal(t, models.StatusPending, stored.Status)
}

func TestGetBookingServiceType_RawColumn(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	booking := testBooking(time.Now())
	require.NoError(t, db.CreateBooking(ctx, booking))

	raw, err := db.GetBookingServiceType(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, "غسيل, تغيير زيت | ⏰ 9:00 - 11:00 ص | 📝 يفضل الصباح", raw)
}

func TestListBookings_NewestFirst(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	older := testBooking(base.Add(-time.Hour))
	newer := testBooking(base)
	require.NoError(t, db.CreateBooking(ctx, older))
	require.NoError(t, db.CreateBooking(ctx, newer))

	bookings, err := db.ListBookings(ctx)
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, newer.ID, bookings[0].ID)
	assert.Equal(t, older.ID, bookings[1].ID)
}

func TestUpdateBookingStatus(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	booking := testBooking(time.Now())
	require.NoError(t, db.CreateBooking(ctx, booking))
	require.NoError(t, db.UpdateBookingStatus(ctx, booking.ID, models.StatusConfirmed))

	stored, err := db.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, stored.Status)
}

func TestUpdateBookingSchedule(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	booking := testBooking(time.Now())
	require.NoError(t, db.CreateBooking(ctx, booking))

	newDate := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	packed := "غسيل, تغيير زيت | ⏰ 3:00 - 5:00 م | 📝 يفضل الصباح"
	require.NoError(t, db.UpdateBookingSchedule(ctx, booking.ID, newDate, models.StatusConfirmed, packed))

	stored, err := db.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, stored.Status)
	assert.Equal(t, "3:00 - 5:00 م", stored.TimeSlot)
	assert.Equal(t, "يفضل الصباح", stored.Note)
	assert.True(t, stored.Date.Equal(newDate))
}

func TestDeleteBooking(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	booking := testBooking(time.Now())
	require.NoError(t, db.CreateBooking(ctx, booking))
	require.NoError(t, db.DeleteBooking(ctx, booking.ID))

	_, err := db.GetBooking(ctx, booking.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBookingNotFound(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	_, err := db.GetBooking(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, db.UpdateBookingStatus(ctx, uuid.NewString(), models.StatusConfirmed), ErrNotFound)
	assert.ErrorIs(t, db.DeleteBooking(ctx, uuid.NewString()), ErrNotFound)
}
