package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/models"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/timeslot"
)

// CreateBooking inserts a booking, packing the structured service
// fields into the legacy service_type column.
func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	now := time.Now()
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = now
	}
	booking.UpdatedAt = now

	query := `INSERT INTO bookings (id, name, phone, car_model, service_type, date, status, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.sql.ExecContext(ctx, query,
		booking.ID,
		booking.Name,
		booking.Phone,
		booking.CarModel,
		packServiceType(booking),
		booking.Date,
		booking.Status,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (db *DB) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	query := `SELECT id, name, phone, car_model, service_type, date, status, created_at, updated_at
              FROM bookings WHERE id = ?`

	booking, err := scanBooking(db.sql.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

// GetBookingServiceType returns the raw packed column. Schedule edits
// rewrite only the embedded time marker, so the rest of the text must
// survive byte for byte.
func (db *DB) GetBookingServiceType(ctx context.Context, id string) (string, error) {
	var raw string
	err := db.sql.QueryRowContext(ctx, `SELECT service_type FROM bookings WHERE id = ?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get booking service_type: %w", err)
	}
	return raw, nil
}

// ListBookings returns every booking ordered by creation time
// descending, the store's contract with the poller: index 0 is the
// most recently created record.
func (db *DB) ListBookings(ctx context.Context) ([]models.Booking, error) {
	query := `SELECT id, name, phone, car_model, service_type, date, status, created_at, updated_at
              FROM bookings ORDER BY created_at DESC, id DESC`

	rows, err := db.sql.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, *booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}
	return bookings, nil
}

func (db *DB) UpdateBookingStatus(ctx context.Context, id string, status string) error {
	query := `UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?`
	res, err := db.sql.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	return requireRow(res)
}

// UpdateBookingSchedule rewrites date, status and the packed
// service_type in one statement. The caller passes the already-edited
// packed text so unrelated markers stay untouched.
func (db *DB) UpdateBookingSchedule(ctx context.Context, id string, date time.Time, status string, serviceType string) error {
	query := `UPDATE bookings SET date = ?, status = ?, service_type = ?, updated_at = ? WHERE id = ?`
	res, err := db.sql.ExecContext(ctx, query, date, status, serviceType, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update booking schedule: %w", err)
	}
	return requireRow(res)
}

func (db *DB) DeleteBooking(ctx context.Context, id string) error {
	res, err := db.sql.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	return requireRow(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	var b models.Booking
	var serviceType string
	if err := row.Scan(&b.ID, &b.Name, &b.Phone, &b.CarModel, &serviceType, &b.Date, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}

	details := timeslot.Decode(serviceType)
	b.Services = details.Services
	b.TimeSlot = details.TimeSlot
	b.Note = details.Note
	return &b, nil
}

func packServiceType(b *models.Booking) string {
	return timeslot.Encode(timeslot.Details{
		Services: b.Services,
		TimeSlot: b.TimeSlot,
		Note:     b.Note,
	})
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
