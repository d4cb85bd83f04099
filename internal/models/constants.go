package models

// Booking workflow statuses. The service layer is the only writer
// allowed to move a booking between them.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusMissed    = "missed"
	StatusCancelled = "cancelled"
)

// Part inventory statuses.
const (
	PartAvailable   = "available"
	PartUnavailable = "unavailable"
	PartInquiry     = "inquiry"
)

// LeadStatusNew is the only lead status; leads are append-only.
const LeadStatusNew = "new"

const (
	ParseModeHTML     = "HTML"
	ParseModeMarkdown = "Markdown"
)

const (
	// DefaultPollIntervalSeconds is the dashboard refresh cadence.
	DefaultPollIntervalSeconds = 2

	// ToastDelayMillis separates the sound attempt from the toast so
	// audio playback is not starved by rendering work.
	ToastDelayMillis = 50

	// ToastDurationSeconds is the auto-dismiss window for new-booking toasts.
	ToastDurationSeconds = 10

	// NotifyQueueSize is the in-memory fallback queue capacity.
	NotifyQueueSize = 1000

	// BookingRefLength is how many characters of the booking UUID form
	// the human-facing reference.
	BookingRefLength = 8

	// DefaultTimezone anchors calendar-day boundaries for the shop.
	DefaultTimezone = "Africa/Cairo"
)
