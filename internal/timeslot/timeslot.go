// Package timeslot owns the legacy service_type text format: a
// comma-joined service list, an embedded "⏰ <range>" time marker and a
// "📝 <note>" marker, separated by " | ". The rest of the codebase
// works with structured fields; this package is the only place the
// marker format exists.
package timeslot

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	// Delimiter separates segments inside the packed field.
	Delimiter = " | "

	timeMarker = "⏰"
	noteMarker = "📝"

	// pmIndicator is the Arabic PM letter (م). Its presence anywhere in
	// the packed field marks the slot as afternoon, matching how the
	// booking form writes ranges like "3:00 - 5:00 م".
	pmIndicator = "م"

	// NoTime sorts slot-less bookings after every real time of day.
	NoTime = 9999
)

var (
	markerRe = regexp.MustCompile(`(⏰\s)([^|]+)`)
	clockRe  = regexp.MustCompile(`⏰\s(\d+):(\d+)`)
	slotRe   = regexp.MustCompile(`(\d+):(\d+)`)
)

// Details is the decoded form of a packed service_type value.
type Details struct {
	Services string
	TimeSlot string
	Note     string
}

// ExtractTimeSlot returns the trimmed slot text following the first
// time marker, up to the next '|' or end of string. The second return
// is false when no marker is present.
func ExtractTimeSlot(serviceType string) (string, bool) {
	m := markerRe.FindStringSubmatch(serviceType)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[2]), true
}

// ExtractTimeMinutes parses the H:MM token after the marker and
// returns minutes since midnight, converting via the Arabic PM
// indicator: PM adds 12 except for 12 itself, and a bare 12 means
// midnight. Returns NoTime when no token parses.
func ExtractTimeMinutes(serviceType string) int {
	m := clockRe.FindStringSubmatch(serviceType)
	if m == nil {
		return NoTime
	}

	hour, err := strconv.Atoi(m[1])
	if err != nil {
		return NoTime
	}
	minute, err := strconv.Atoi(m[2])
	if err != nil {
		return NoTime
	}

	isPM := strings.Contains(serviceType, pmIndicator)
	if isPM && hour != 12 {
		hour += 12
	}
	if !isPM && hour == 12 {
		hour = 0
	}

	return hour*60 + minute
}

// SlotMinutes parses a bare slot value ("9:00 - 11:00 ص") without the
// marker, using the same AM/PM rules as ExtractTimeMinutes. The range
// start is what orders the day.
func SlotMinutes(slot string) int {
	m := slotRe.FindStringSubmatch(slot)
	if m == nil {
		return NoTime
	}

	hour, err := strconv.Atoi(m[1])
	if err != nil {
		return NoTime
	}
	minute, err := strconv.Atoi(m[2])
	if err != nil {
		return NoTime
	}

	isPM := strings.Contains(slot, pmIndicator)
	if isPM && hour != 12 {
		hour += 12
	}
	if !isPM && hour == 12 {
		hour = 0
	}

	return hour*60 + minute
}

// SetTimeSlot rewrites only the slot text of the first marker, leaving
// every byte outside the marker span untouched. Without a marker the
// slot is appended as a new " | ⏰ <slot>" segment. Callers guarantee
// at most one marker exists.
func SetTimeSlot(serviceType, newSlot string) string {
	loc := markerRe.FindStringSubmatchIndex(serviceType)
	if loc == nil {
		return serviceType + Delimiter + timeMarker + " " + newSlot
	}

	// loc[4:6] is the captured slot-text span after "⏰ ". A trailing
	// space keeps the original spacing before a following delimiter.
	replacement := newSlot
	if loc[5] < len(serviceType) {
		replacement += " "
	}
	return serviceType[:loc[4]] + replacement + serviceType[loc[5]:]
}

// Decode splits a packed field into its structured parts. Segments
// that are neither time nor note markers are rejoined as the service
// list, so free text written by older clients survives round trips.
func Decode(serviceType string) Details {
	var d Details
	var services []string
	for _, seg := range strings.Split(serviceType, "|") {
		trimmed := strings.TrimSpace(seg)
		switch {
		case strings.HasPrefix(trimmed, timeMarker) && d.TimeSlot == "":
			d.TimeSlot = strings.TrimSpace(strings.TrimPrefix(trimmed, timeMarker))
		case strings.HasPrefix(trimmed, noteMarker) && d.Note == "":
			d.Note = strings.TrimSpace(strings.TrimPrefix(trimmed, noteMarker))
		default:
			if trimmed != "" {
				services = append(services, trimmed)
			}
		}
	}
	d.Services = strings.Join(services, ", ")
	return d
}

// Encode packs structured details back into the legacy field layout.
func Encode(d Details) string {
	parts := []string{d.Services}
	if d.TimeSlot != "" {
		parts = append(parts, timeMarker+" "+d.TimeSlot)
	}
	if d.Note != "" {
		parts = append(parts, noteMarker+" "+d.Note)
	}
	return strings.Join(parts, Delimiter)
}
