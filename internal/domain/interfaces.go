package domain

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/models"
)

type Repository interface {
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	ListBookings(ctx context.Context) ([]models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id string, status string) error
	UpdateBookingSchedule(ctx context.Context, id string, date time.Time, status string, serviceType string) error
	DeleteBooking(ctx context.Context, id string) error
	GetBookingServiceType(ctx context.Context, id string) (string, error)

	CreateLead(ctx context.Context, lead *models.Lead) error
	ListLeads(ctx context.Context) ([]models.Lead, error)

	CreatePart(ctx context.Context, part *models.Part) error
	GetPart(ctx context.Context, id int64) (*models.Part, error)
	ListParts(ctx context.Context) ([]models.Part, error)
	UpdatePart(ctx context.Context, part *models.Part) error
	DeletePart(ctx context.Context, id int64) error
}

// StateRepository persists the poller's known-id set across restarts
// so a process bounce does not replay notifications.
type StateRepository interface {
	GetKnownIDs(ctx context.Context) ([]string, error)
	SetKnownIDs(ctx context.Context, ids []string) error
	ClearKnownIDs(ctx context.Context) error
}

// TelegramSender is the thin surface over the bot API the notifier needs.
type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier dispatches best-effort outbound notifications. Enqueue
// methods never fail the caller's transaction; SendNow is the admin
// test path that surfaces delivery errors.
type Notifier interface {
	EnqueueBookingCreated(ctx context.Context, booking *models.Booking)
	EnqueueLeadCreated(ctx context.Context, lead *models.Lead)
	SendNow(ctx context.Context, text string) error
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// NotificationSink receives the poller's new-booking alerts. Play is
// best effort: a locked audio gate absorbs the failure and the poller
// only clears its sound-enabled flag.
type NotificationSink interface {
	Play() error
	Toast(t models.Toast)
}
