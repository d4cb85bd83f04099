// Package schedule buckets bookings into the month-grid calendar the
// admin dashboard renders. Weeks start on Saturday, the shop's
// regional convention.
package schedule

import (
	"sort"
	"time"

	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/clock"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/models"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/timeslot"
)

// WeekStart is the first weekday of every calendar row.
const WeekStart = time.Saturday

type Aggregator struct {
	clk clock.Clock
}

func NewAggregator(clk clock.Clock) *Aggregator {
	return &Aggregator{clk: clk}
}

// DaysInView returns every cell of the month grid: from the Saturday
// on or before the first of month through the Friday on or after the
// last day, always a whole number of weeks.
func (a *Aggregator) DaysInView(month time.Time) []time.Time {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	last := first.AddDate(0, 1, -1)

	start := first
	for start.Weekday() != WeekStart {
		start = start.AddDate(0, 0, -1)
	}
	end := last
	for end.Weekday() != endOfWeek() {
		end = end.AddDate(0, 0, 1)
	}

	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func endOfWeek() time.Weekday {
	return (WeekStart + 6) % 7
}

// BookingsForDay filters to confirmed bookings on the given calendar
// day, ordered by time-of-day from the embedded slot. Slot-less
// bookings sort last.
func (a *Aggregator) BookingsForDay(bookings []models.Booking, date time.Time) []models.Booking {
	var out []models.Booking
	for _, b := range bookings {
		if b.Status == models.StatusConfirmed && clock.SameDay(b.Date.In(date.Location()), date) {
			out = append(out, b)
		}
	}
	sortBySlot(out)
	return out
}

// TodayBookings is BookingsForDay at the injected clock's today.
func (a *Aggregator) TodayBookings(bookings []models.Booking) []models.Booking {
	return a.BookingsForDay(bookings, a.clk.Now())
}

// MissedBookings returns confirmed bookings whose day has fully
// elapsed: dated strictly before today and never marked completed or
// missed. Derived on every refresh, never persisted.
func (a *Aggregator) MissedBookings(bookings []models.Booking) []models.Booking {
	now := a.clk.Now()
	var out []models.Booking
	for _, b := range bookings {
		if b.Status != models.StatusConfirmed {
			continue
		}
		if clock.BeforeDay(b.Date.In(now.Location()), now) {
			out = append(out, b)
		}
	}
	return out
}

// PendingCount is the badge number on the bookings tab.
func (a *Aggregator) PendingCount(bookings []models.Booking) int {
	n := 0
	for _, b := range bookings {
		if b.Status == models.StatusPending {
			n++
		}
	}
	return n
}

// CustomerCount counts distinct phone numbers across bookings and leads.
func (a *Aggregator) CustomerCount(bookings []models.Booking, leads []models.Lead) int {
	phones := make(map[string]struct{})
	for _, b := range bookings {
		phones[b.Phone] = struct{}{}
	}
	for _, l := range leads {
		phones[l.Phone] = struct{}{}
	}
	return len(phones)
}

func sortBySlot(bookings []models.Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		return slotMinutes(bookings[i]) < slotMinutes(bookings[j])
	})
}

func slotMinutes(b models.Booking) int {
	return timeslot.SlotMinutes(b.TimeSlot)
}
