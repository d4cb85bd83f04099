// Package clock abstracts wall-clock access so day-boundary logic
// (missed detection, completion eligibility) is testable without
// waiting for real time to pass.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

// Real reads the system clock in a fixed location.
type Real struct {
	Location *time.Location
}

func NewReal(loc *time.Location) Real {
	if loc == nil {
		loc = time.Local
	}
	return Real{Location: loc}
}

func (c Real) Now() time.Time {
	return time.Now().In(c.Location)
}

// Fixed always returns the same instant. Test helper.
type Fixed struct {
	T time.Time
}

func (c Fixed) Now() time.Time { return c.T }

// SameDay reports whether a and b fall on the same calendar day in
// t's location. Timestamp equality is deliberately not used.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// BeforeDay reports whether a's calendar day is strictly before b's.
func BeforeDay(a, b time.Time) bool {
	return StartOfDay(a).Before(StartOfDay(b.In(a.Location())))
}
