package models

import (
	"time"
)

// Booking is a scheduled service appointment. The persisted
// service_type column packs Services, TimeSlot and Note into one text
// field; the timeslot package owns that encoding and the store decodes
// it back into the structured fields below on every read.
type Booking struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	CarModel  string    `json:"car_model"`
	Services  string    `json:"services"`
	TimeSlot  string    `json:"time_slot"`
	Note      string    `json:"note"`
	Date      time.Time `json:"date"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Ref returns the short human-facing booking reference.
func (b *Booking) Ref() string {
	if len(b.ID) < BookingRefLength {
		return b.ID
	}
	return b.ID[:BookingRefLength]
}

// Lead is a contact captured from a promotional-offer interest form.
type Lead struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	OfferTitle string    `json:"offer_title"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// Part is an inventory entry for a specialty spare part.
type Part struct {
	ID        int64     `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Models    []string  `json:"models" yaml:"models"`
	Year      string    `json:"year" yaml:"year"`
	Status    string    `json:"status" yaml:"status"`
	Symptoms  []string  `json:"symptoms" yaml:"symptoms"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// NotifyTask is one outbox row for best-effort Telegram delivery.
type NotifyTask struct {
	ID          int64      `json:"id"`
	Kind        string     `json:"kind"`
	Payload     string     `json:"payload"`
	Status      string     `json:"status"`
	RetryCount  int        `json:"retry_count"`
	LastError   string     `json:"last_error,omitempty"`
	NextRetryAt *time.Time `json:"next_retry_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Toast is the single dashboard notification raised for a batch of
// newly observed bookings.
type Toast struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	BookingID   string        `json:"booking_id"`
	Duration    time.Duration `json:"duration"`
	RaisedAt    time.Time     `json:"raised_at"`
}
