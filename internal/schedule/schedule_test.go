package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/clock"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/models"
)

func fixedAggregator(t *testing.T, ts time.Time) *Aggregator {
	t.Helper()
	return NewAggregator(clock.Fixed{T: ts})
}

func booking(id, status, slot string, date time.Time) models.Booking {
	return models.Booking{
		ID:       id,
		Name:     "عميل " + id,
		Phone:    "0100000000" + id,
		Status:   status,
		TimeSlot: slot,
		Date:     date,
	}
}

func TestDaysInView_WholeWeeksFromSaturday(t *testing.T) {
	loc, err := time.LoadLocation("Africa/Cairo")
	require.NoError(t, err)

	// March 2026 starts on a Sunday and ends on a Tuesday.
	month := time.Date(2026, 3, 1, 0, 0, 0, 0, loc)
	agg := fixedAggregator(t, month)

	days := agg.DaysInView(month)
	require.NotEmpty(t, days)

	assert.Equal(t, time.Saturday, days[0].Weekday())
	assert.Equal(t, time.Friday, days[len(days)-1].Weekday())
	assert.Zero(t, len(days)%7)

	// Grid must cover the entire month.
	assert.False(t, days[0].After(month))
	last := time.Date(2026, 3, 31, 0, 0, 0, 0, loc)
	assert.False(t, days[len(days)-1].Before(last))
}

func TestDaysInView_MonthStartingOnSaturday(t *testing.T) {
	// August 2026 starts on a Saturday; the grid starts on the 1st.
	month := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	agg := fixedAggregator(t, month)

	days := agg.DaysInView(month)
	assert.Equal(t, month, days[0])
	assert.Zero(t, len(days)%7)
}

func TestBookingsForDay_ConfirmedOnlySortedBySlot(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	agg := fixedAggregator(t, day)

	bookings := []models.Booking{
		booking("1", models.StatusConfirmed, "3:00 - 5:00 م", day),
		booking("2", models.StatusPending, "9:00 - 11:00 ص", day),
		booking("3", models.StatusConfirmed, "9:00 - 11:00 ص", day),
		booking("4", models.StatusConfirmed, "", day),
		booking("5", models.StatusConfirmed, "9:00 - 11:00 ص", day.AddDate(0, 0, 1)),
	}

	got := agg.BookingsForDay(bookings, day)
	require.Len(t, got, 3)
	assert.Equal(t, "3", got[0].ID)
	assert.Equal(t, "1", got[1].ID)
	assert.Equal(t, "4", got[2].ID, "slot-less booking sorts last")
}

func TestTodayBookings(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	agg := fixedAggregator(t, now)

	bookings := []models.Booking{
		booking("1", models.StatusConfirmed, "", now.Add(-2*time.Hour)),
		booking("2", models.StatusConfirmed, "", now.AddDate(0, 0, -1)),
	}

	got := agg.TodayBookings(bookings)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
}

func TestMissedBookings_StrictlyPastConfirmedOnly(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	agg := fixedAggregator(t, now)

	bookings := []models.Booking{
		booking("past-confirmed", models.StatusConfirmed, "", now.AddDate(0, 0, -1)),
		booking("today", models.StatusConfirmed, "", now),
		booking("future", models.StatusConfirmed, "", now.AddDate(0, 0, 1)),
		booking("past-completed", models.StatusCompleted, "", now.AddDate(0, 0, -2)),
		booking("past-missed", models.StatusMissed, "", now.AddDate(0, 0, -2)),
		booking("past-pending", models.StatusPending, "", now.AddDate(0, 0, -2)),
	}

	got := agg.MissedBookings(bookings)
	require.Len(t, got, 1)
	assert.Equal(t, "past-confirmed", got[0].ID)
}

func TestPendingCount(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	agg := fixedAggregator(t, now)

	bookings := []models.Booking{
		booking("1", models.StatusPending, "", now),
		booking("2", models.StatusPending, "", now),
		booking("3", models.StatusConfirmed, "", now),
	}
	assert.Equal(t, 2, agg.PendingCount(bookings))
}

func TestCustomerCount_DistinctPhonesAcrossSources(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	agg := fixedAggregator(t, now)

	bookings := []models.Booking{
		{ID: "1", Phone: "01011111111"},
		{ID: "2", Phone: "01022222222"},
		{ID: "3", Phone: "01011111111"},
	}
	leads := []models.Lead{
		{ID: "a", Phone: "01022222222"},
		{ID: "b", Phone: "01033333333"},
	}

	assert.Equal(t, 3, agg.CustomerCount(bookings, leads))
}
