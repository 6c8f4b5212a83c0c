package database

import (
	"context"
	"testing"
	"time"

	"cheesecode/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestBooking(t *testing.T, db *DB, roomType, email, checkin, checkout string, price float64) *models.Booking {
	t.Helper()
	ctx := context.Background()

	room, err := db.GetRoomByType(ctx, roomType)
	require.NoError(t, err)

	in := date(t, checkin)
	out := date(t, checkout)
	nights := int(out.Sub(in).Hours() / 24)

	booking := &models.Booking{
		RoomID:     room.ID,
		RoomName:   room.Name,
		RoomType:   room.Type,
		Checkin:    in,
		Checkout:   out,
		Nights:     nights,
		Adults:     2,
		GuestName:  "Test Guest",
		GuestEmail: email,
		GuestPhone: "+3312345678",
		TotalPrice: price,
		Status:     models.StatusConfirmed,
	}
	require.NoError(t, db.CreateBooking(ctx, booking))
	return booking
}

func TestCreateAndGetBooking(t *testing.T) {
	db := setupTestDB(t)
	seedTestRooms(t, db)
	ctx := context.Background()

	booking := createTestBooking(t, db, "standard", "alice@example.com", "2025-06-01", "2025-06-04", 267)
	require.NotEmpty(t, booking.ID)
	require.False(t, booking.CreatedAt.IsZero())

	got, err := db.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, got.ID)
	assert.Equal(t, "standard", got.RoomType)
	assert.Equal(t, 3, got.Nights)
	assert.Equal(t, 267.0, got.TotalPrice)
	assert.True(t, got.Checkin.Equal(date(t, "2025-06-01")))
	assert.True(t, got.Checkout.Equal(date(t, "2025-06-04")))
	assert.Equal(t, models.StatusConfirmed, got.Status)
}

func TestGetBooking_NotFound(t *testing.T) {
	db := setupTestDB(t)
	_, err := db.GetBooking(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestDeleteBooking(t *testing.T) {
	db := setupTestDB(t)
	seedTestRooms(t, db)
	ctx := context.Background()

	booking := createTestBooking(t, db, "premium", "bob@example.com", "2025-07-01", "2025-07-03", 298)

	deleted, err := db.DeleteBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	// Deleting again reports zero, not an error.
	deleted, err = db.DeleteBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)

	_, err = db.GetBooking(ctx, booking.ID)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetAllBookings_NewestFirst(t *testing.T) {
	db := setupTestDB(t)
	seedTestRooms(t, db)
	ctx := context.Background()

	first := createTestBooking(t, db, "standard", "a@example.com", "2025-06-01", "2025-06-02", 89)
	time.Sleep(5 * time.Millisecond)
	second := createTestBooking(t, db, "premium", "b@example.com", "2025-06-10", "2025-06-12", 298)

	bookings, err := db.GetAllBookings(ctx)
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, second.ID, bookings[0].ID)
	assert.Equal(t, first.ID, bookings[1].ID)
}

func TestGetBookingsByGuestEmail(t *testing.T) {
	db := setupTestDB(t)
	seedTestRooms(t, db)
	ctx := context.Background()

	createTestBooking(t, db, "standard", "carol@example.com", "2025-06-01", "2025-06-02", 89)
	time.Sleep(5 * time.Millisecond)
	newest := createTestBooking(t, db, "premium", "carol@example.com", "2025-08-01", "2025-08-03", 298)
	createTestBooking(t, db, "standard", "other@example.com", "2025-06-05", "2025-06-06", 89)

	bookings, err := db.GetBookingsByGuestEmail(ctx, "carol@example.com")
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, newest.ID, bookings[0].ID)

	empty, err := db.GetBookingsByGuestEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCountOverlappingBookings(t *testing.T) {
	db := setupTestDB(t)
	seedTestRooms(t, db)
	ctx := context.Background()

	booking := createTestBooking(t, db, "standard", "dave@example.com", "2025-06-01", "2025-06-05", 356)

	count, err := db.CountOverlappingBookings(ctx, booking.RoomID, date(t, "2025-06-04"), date(t, "2025-06-08"))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = db.CountOverlappingBookings(ctx, booking.RoomID, date(t, "2025-06-06"), date(t, "2025-06-08"))
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestGetStats(t *testing.T) {
	db := setupTestDB(t)
	seedTestRooms(t, db)
	ctx := context.Background()

	stats, err := db.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalBookings)
	assert.Equal(t, 0.0, stats.TotalRevenue)
	assert.Empty(t, stats.RoomStats)

	createTestBooking(t, db, "standard", "a@example.com", "2025-06-01", "2025-06-04", 267)
	createTestBooking(t, db, "standard", "b@example.com", "2025-07-01", "2025-07-02", 89)
	createTestBooking(t, db, "premium", "c@example.com", "2025-07-10", "2025-07-12", 298)

	stats, err = db.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalBookings)
	assert.Equal(t, 654.0, stats.TotalRevenue)
	assert.Equal(t, models.RoomTypeStats{Count: 2, Revenue: 356}, stats.RoomStats["standard"])
	assert.Equal(t, models.RoomTypeStats{Count: 1, Revenue: 298}, stats.RoomStats["premium"])
}

func TestGetBookingsByDateRange(t *testing.T) {
	db := setupTestDB(t)
	seedTestRooms(t, db)
	ctx := context.Background()

	createTestBooking(t, db, "standard", "a@example.com", "2025-06-01", "2025-06-04", 267)
	createTestBooking(t, db, "premium", "b@example.com", "2025-07-15", "2025-07-16", 149)

	bookings, err := db.GetBookingsByDateRange(ctx, date(t, "2025-06-01"), date(t, "2025-06-30"))
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "standard", bookings[0].RoomType)
}
