package database

import (
	"context"
	"fmt"
	"time"

	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/models"
)

// The notify_queue table is the durable outbox for outbound Telegram
// notifications. The worker drains it; rows survive restarts so a
// crash between insert and delivery loses nothing.

func (db *DB) CreateNotifyTask(ctx context.Context, task *models.NotifyTask) error {
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	if task.Status == "" {
		task.Status = "pending"
	}

	query := `INSERT INTO notify_queue (kind, payload, status, retry_count, created_at)
              VALUES (?, ?, ?, ?, ?)`
	res, err := db.sql.ExecContext(ctx, query,
		task.Kind,
		task.Payload,
		task.Status,
		task.RetryCount,
		task.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notify task: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get notify task id: %w", err)
	}
	task.ID = id
	return nil
}

// GetPendingNotifyTasks returns pending and due-for-retry tasks, oldest first.
func (db *DB) GetPendingNotifyTasks(ctx context.Context, limit int) ([]models.NotifyTask, error) {
	query := `SELECT id, kind, payload, status, retry_count, COALESCE(last_error, ''), next_retry_at, created_at
              FROM notify_queue
              WHERE status = 'pending' OR (status = 'retry' AND next_retry_at <= ?)
              ORDER BY created_at ASC
              LIMIT ?`

	rows, err := db.sql.QueryContext(ctx, query, time.Now(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notify tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.NotifyTask
	for rows.Next() {
		var t models.NotifyTask
		if err := rows.Scan(&t.ID, &t.Kind, &t.Payload, &t.Status, &t.RetryCount, &t.LastError, &t.NextRetryAt, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notify task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notify tasks: %w", err)
	}
	return tasks, nil
}

// ClaimNotifyTask flips a pending or retry row to sending so only one
// delivery path handles it. ErrNotFound means another path already
// claimed or finished the task.
func (db *DB) ClaimNotifyTask(ctx context.Context, id int64) error {
	query := `UPDATE notify_queue SET status = 'sending'
              WHERE id = ? AND status IN ('pending', 'retry')`
	res, err := db.sql.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to claim notify task: %w", err)
	}
	return requireRow(res)
}

// UpdateNotifyTaskStatus moves a task through its lifecycle and bumps
// the retry counter when a next retry time is set.
func (db *DB) UpdateNotifyTaskStatus(ctx context.Context, id int64, status, lastError string, nextRetryAt *time.Time) error {
	query := `UPDATE notify_queue
              SET status = ?, last_error = ?, next_retry_at = ?,
                  retry_count = retry_count + CASE WHEN ? THEN 1 ELSE 0 END
              WHERE id = ?`
	res, err := db.sql.ExecContext(ctx, query, status, lastError, nextRetryAt, nextRetryAt != nil, id)
	if err != nil {
		return fmt.Errorf("failed to update notify task: %w", err)
	}
	return requireRow(res)
}
