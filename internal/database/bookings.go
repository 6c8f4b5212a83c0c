package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cheesecode/internal/models"

	"github.com/google/uuid"
)

const bookingColumns = `id, room_id, room_name, room_type, checkin, checkout, nights,
	adults, guest_name, guest_email, guest_phone, total_price, status, created_at`

// CountOverlappingBookings counts stored bookings on a room whose interval
// intersects [checkin, checkout] with inclusive bounds:
// existing.checkin <= checkout AND existing.checkout >= checkin.
// Dates are stored as YYYY-MM-DD text, so string comparison is date order.
func (db *DB) CountOverlappingBookings(ctx context.Context, roomID string, checkin, checkout time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE room_id = ? AND checkin <= ? AND checkout >= ?`

	var count int
	err := db.QueryRowContext(ctx, query, roomID,
		checkout.Format(models.DateLayout),
		checkin.Format(models.DateLayout),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count overlapping bookings: %w", err)
	}
	return count, nil
}

// CreateBooking persists a booking and fills in its generated id and
// creation timestamp. The overlap test runs only in the availability
// search, so two clients that both saw a room as free can both book it.
func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	now := time.Now()

	query := `INSERT INTO bookings (
				id, room_id, room_name, room_type, checkin, checkout, nights,
				adults, guest_name, guest_email, guest_phone, total_price, status, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, query,
		booking.ID,
		booking.RoomID,
		booking.RoomName,
		booking.RoomType,
		booking.Checkin.Format(models.DateLayout),
		booking.Checkout.Format(models.DateLayout),
		booking.Nights,
		booking.Adults,
		booking.GuestName,
		booking.GuestEmail,
		booking.GuestPhone,
		booking.TotalPrice,
		booking.Status,
		now,
	)
	if err != nil {
		return fmt.Errorf("create booking: %w", err)
	}

	booking.CreatedAt = now
	return nil
}

func scanBookingRow(row interface{ Scan(...interface{}) error }) (*models.Booking, error) {
	var b models.Booking
	var checkinStr, checkoutStr string
	err := row.Scan(
		&b.ID, &b.RoomID, &b.RoomName, &b.RoomType, &checkinStr, &checkoutStr, &b.Nights,
		&b.Adults, &b.GuestName, &b.GuestEmail, &b.GuestPhone, &b.TotalPrice, &b.Status, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.Checkin, err = time.Parse(models.DateLayout, checkinStr)
	if err != nil {
		return nil, fmt.Errorf("parse checkin %q: %w", checkinStr, err)
	}
	b.Checkout, err = time.Parse(models.DateLayout, checkoutStr)
	if err != nil {
		return nil, fmt.Errorf("parse checkout %q: %w", checkoutStr, err)
	}
	return &b, nil
}

func (db *DB) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	row := db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
	booking, err := scanBookingRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return booking, nil
}

// DeleteBooking removes a booking by id and reports how many documents were
// deleted (0 or 1). A missing id is not an error.
func (db *DB) DeleteBooking(ctx context.Context, id string) (int64, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("delete booking: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete booking rows affected: %w", err)
	}
	return deleted, nil
}

func (db *DB) queryBookings(ctx context.Context, query string, args ...interface{}) ([]models.Booking, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBookingRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

// GetAllBookings returns every booking, newest creation time first.
func (db *DB) GetAllBookings(ctx context.Context) ([]models.Booking, error) {
	return db.queryBookings(ctx,
		`SELECT `+bookingColumns+` FROM bookings ORDER BY created_at DESC`)
}

// GetBookingsByGuestEmail returns bookings for one guest email, newest first.
func (db *DB) GetBookingsByGuestEmail(ctx context.Context, email string) ([]models.Booking, error) {
	return db.queryBookings(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE guest_email = ? ORDER BY created_at DESC`, email)
}

// GetBookingsByDateRange returns bookings whose check-in falls inside
// [start, end], ordered by check-in then creation time. Used by the export.
func (db *DB) GetBookingsByDateRange(ctx context.Context, start, end time.Time) ([]models.Booking, error) {
	return db.queryBookings(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE checkin >= ? AND checkin <= ?
         ORDER BY checkin, created_at`,
		start.Format(models.DateLayout), end.Format(models.DateLayout))
}

// GetStats aggregates booking count and revenue overall and per room type.
func (db *DB) GetStats(ctx context.Context) (*models.Stats, error) {
	stats := &models.Stats{RoomStats: make(map[string]models.RoomTypeStats)}

	var revenue sql.NullFloat64
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*), SUM(total_price) FROM bookings`).Scan(&stats.TotalBookings, &revenue)
	if err != nil {
		return nil, fmt.Errorf("get booking totals: %w", err)
	}
	stats.TotalRevenue = revenue.Float64

	rows, err := db.QueryContext(ctx,
		`SELECT room_type, COUNT(*), SUM(total_price) FROM bookings GROUP BY room_type`)
	if err != nil {
		return nil, fmt.Errorf("get room type stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var roomType string
		var bucket models.RoomTypeStats
		if err := rows.Scan(&roomType, &bucket.Count, &bucket.Revenue); err != nil {
			return nil, fmt.Errorf("scan room type stats: %w", err)
		}
		stats.RoomStats[roomType] = bucket
	}
	return stats, rows.Err()
}
