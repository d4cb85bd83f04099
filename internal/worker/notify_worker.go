package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/database"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/metrics"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/models"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/notify"
)

const (
	KindBooking = "booking"
	KindLead    = "lead"
)

// notifyPayload is persisted in NotifyTask.Payload as JSON. Messages
// are formatted at enqueue time so the worker only delivers.
type notifyPayload struct {
	Text string `json:"text"`
}

// NotifyWorker drains the notify outbox and delivers Telegram
// messages best effort. Enqueue never fails the caller: a delivery
// problem at worst parks the row for retry or the dead letter.
type NotifyWorker struct {
	db            *database.DB
	client        *notify.Client
	redis         *redis.Client
	retryPolicy   RetryPolicy
	queue         chan models.NotifyTask
	redisQueueKey string
	deadLetterKey string
	pollInterval  time.Duration
	batchSize     int
	location      *time.Location
	logger        *zerolog.Logger
}

func NewNotifyWorker(db *database.DB, client *notify.Client, redisClient *redis.Client, retry RetryPolicy, loc *time.Location, logger *zerolog.Logger) *NotifyWorker {
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 5
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 2 * time.Second
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = time.Minute
	}
	if retry.BackoffFactor == 0 {
		retry.BackoffFactor = 2
	}
	if loc == nil {
		loc = time.UTC
	}

	return &NotifyWorker{
		db:            db,
		client:        client,
		redis:         redisClient,
		retryPolicy:   retry,
		queue:         make(chan models.NotifyTask, models.NotifyQueueSize),
		redisQueueKey: "notify:queue",
		deadLetterKey: "notify:deadletter",
		pollInterval:  2 * time.Second,
		batchSize:     20,
		location:      loc,
		logger:        logger,
	}
}

// EnqueueBookingCreated queues the new-booking push. Errors are logged
// and swallowed: notification delivery must never fail a booking insert.
func (w *NotifyWorker) EnqueueBookingCreated(ctx context.Context, booking *models.Booking) {
	if w.client == nil {
		w.logger.Debug().Msg("telegram disabled, skipping booking notification")
		return
	}
	text := notify.FormatBookingCreated(booking, w.location)
	if err := w.enqueue(ctx, KindBooking, text); err != nil {
		w.logger.Error().Err(err).Str("booking_id", booking.ID).Msg("enqueue booking notification")
	}
}

// EnqueueLeadCreated queues the new-lead push, same contract.
func (w *NotifyWorker) EnqueueLeadCreated(ctx context.Context, lead *models.Lead) {
	if w.client == nil {
		w.logger.Debug().Msg("telegram disabled, skipping lead notification")
		return
	}
	text := notify.FormatLeadCreated(lead)
	if err := w.enqueue(ctx, KindLead, text); err != nil {
		w.logger.Error().Err(err).Str("lead_id", lead.ID).Msg("enqueue lead notification")
	}
}

// SendNow delivers synchronously; the admin test path wants the result.
func (w *NotifyWorker) SendNow(ctx context.Context, text string) error {
	if w.client == nil {
		return fmt.Errorf("telegram is not configured")
	}
	if err := w.client.SendHTML(ctx, text); err != nil {
		metrics.IncNotify("failed")
		return err
	}
	metrics.IncNotify("sent")
	return nil
}

func (w *NotifyWorker) enqueue(ctx context.Context, kind, text string) error {
	payloadBytes, err := json.Marshal(notifyPayload{Text: text})
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	task := models.NotifyTask{
		Kind:      kind,
		Payload:   string(payloadBytes),
		Status:    "pending",
		CreatedAt: time.Now(),
	}

	if err := w.db.CreateNotifyTask(ctx, &task); err != nil {
		return fmt.Errorf("persist notify task: %w", err)
	}

	// Redis first; the in-memory channel is the degraded path and the
	// DB poll is the backstop for both.
	if w.redis != nil {
		if err := w.pushRedis(ctx, task); err != nil {
			w.logger.Warn().Err(err).Msg("redis push failed, using memory queue")
		} else {
			return nil
		}
	}

	select {
	case w.queue <- task:
	default:
		w.logger.Warn().Int64("task_id", task.ID).Msg("memory queue full, task left to polling")
	}
	return nil
}

// Start launches the delivery loop; stops when ctx is done.
func (w *NotifyWorker) Start(ctx context.Context) {
	w.logger.Info().Msg("notify worker started")
	defer w.logger.Info().Msg("notify worker stopped")

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if t, ok := w.tryLocalQueue(); ok {
			w.processTask(ctx, &t)
			continue
		}

		if t, ok := w.tryRedis(ctx); ok {
			w.processTask(ctx, &t)
			continue
		}

		tasks, err := w.db.GetPendingNotifyTasks(ctx, w.batchSize)
		if err != nil {
			w.logger.Error().Err(err).Msg("fetch pending notify tasks")
			w.sleep(ctx)
			continue
		}
		if len(tasks) == 0 {
			w.sleep(ctx)
			continue
		}

		for i := range tasks {
			w.processTask(ctx, &tasks[i])
		}
	}
}

func (w *NotifyWorker) sleep(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(w.pollInterval):
	}
}

func (w *NotifyWorker) tryLocalQueue() (models.NotifyTask, bool) {
	select {
	case t := <-w.queue:
		return t, true
	default:
		return models.NotifyTask{}, false
	}
}

func (w *NotifyWorker) tryRedis(ctx context.Context) (models.NotifyTask, bool) {
	if w.redis == nil {
		return models.NotifyTask{}, false
	}
	res, err := w.redis.BRPop(ctx, time.Second, w.redisQueueKey).Result()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || errors.Is(err, redis.Nil) {
			return models.NotifyTask{}, false
		}
		w.logger.Error().Err(err).Msg("redis BRPOP error")
		return models.NotifyTask{}, false
	}
	if len(res) != 2 {
		return models.NotifyTask{}, false
	}
	var task models.NotifyTask
	if err := json.Unmarshal([]byte(res[1]), &task); err != nil {
		w.logger.Error().Err(err).Msg("decode redis notify task")
		return models.NotifyTask{}, false
	}
	return task, true
}

func (w *NotifyWorker) processTask(ctx context.Context, task *models.NotifyTask) {
	// Claim the row first so the DB backstop and a queued copy of the
	// same task cannot both deliver it.
	if err := w.db.ClaimNotifyTask(ctx, task.ID); err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("claim notify task")
		}
		return
	}

	var payload notifyPayload
	if err := json.Unmarshal([]byte(task.Payload), &payload); err != nil {
		w.failTask(ctx, task, fmt.Errorf("decode payload: %w", err))
		return
	}

	if err := w.client.SendHTML(ctx, payload.Text); err != nil {
		metrics.IncNotify("failed")
		w.retryOrFail(ctx, task, err)
		return
	}

	metrics.IncNotify("sent")
	if err := w.db.UpdateNotifyTaskStatus(ctx, task.ID, "completed", "", nil); err != nil {
		w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("mark notify task completed")
	}
}

func (w *NotifyWorker) retryOrFail(ctx context.Context, task *models.NotifyTask, cause error) {
	attempt := task.RetryCount + 1
	if attempt >= w.retryPolicy.MaxRetries {
		w.failTask(ctx, task, cause)
		return
	}

	nextTime := time.Now().Add(w.retryPolicy.NextDelay(attempt))
	if err := w.db.UpdateNotifyTaskStatus(ctx, task.ID, "retry", cause.Error(), &nextTime); err != nil {
		w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("mark notify task retry")
	}
}

func (w *NotifyWorker) failTask(ctx context.Context, task *models.NotifyTask, cause error) {
	if err := w.db.UpdateNotifyTaskStatus(ctx, task.ID, "failed", cause.Error(), nil); err != nil {
		w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("mark notify task failed")
	}
	w.pushDeadLetter(ctx, task)
}

func (w *NotifyWorker) pushRedis(ctx context.Context, task models.NotifyTask) error {
	data, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return w.redis.LPush(ctx, w.redisQueueKey, data).Err()
}

func (w *NotifyWorker) pushDeadLetter(ctx context.Context, task *models.NotifyTask) {
	if w.redis == nil {
		return
	}
	data, err := json.Marshal(task)
	if err != nil {
		w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("encode deadletter task")
		return
	}
	if err := w.redis.LPush(ctx, w.deadLetterKey, data).Err(); err != nil {
		w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("deadletter push failed")
	}
}
