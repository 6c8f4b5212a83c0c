package database

import (
	"context"
	"testing"

	"cheesecode/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedRooms_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	seedTestRooms(t, db)
	seedTestRooms(t, db) // second run must not duplicate

	rooms, err := db.GetAllRooms(ctx)
	require.NoError(t, err)
	assert.Len(t, rooms, 3)

	for _, room := range rooms {
		assert.NotEmpty(t, room.ID)
	}
}

func TestGetRoomByType(t *testing.T) {
	db := setupTestDB(t)
	seedTestRooms(t, db)
	ctx := context.Background()

	room, err := db.GetRoomByType(ctx, "standard")
	require.NoError(t, err)
	assert.Equal(t, "Standard Room", room.Name)
	assert.Equal(t, 89.0, room.Price)
	assert.Equal(t, 2, room.MaxGuests)

	_, err = db.GetRoomByType(ctx, "penthouse")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestGetRoomByID(t *testing.T) {
	db := setupTestDB(t)
	seedTestRooms(t, db)
	ctx := context.Background()

	standard, err := db.GetRoomByType(ctx, "standard")
	require.NoError(t, err)

	room, err := db.GetRoomByID(ctx, standard.ID)
	require.NoError(t, err)
	assert.Equal(t, "Standard Room", room.Name)
	assert.Equal(t, 89.0, room.Price)

	_, err = db.GetRoomByID(ctx, "no-such-id")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestGetRoomByType_FirstMatch(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	// Two rooms of the same type: resolution picks the earliest inserted.
	first := models.Room{Name: "Standard A", Type: "standard", Price: 89, MaxGuests: 2, Available: true}
	require.NoError(t, db.SeedRooms(ctx, []models.Room{first}))
	_, err := db.ExecContext(ctx,
		`INSERT INTO rooms (id, name, type, description, price, max_guests, available)
         VALUES ('second-id', 'Standard B', 'standard', '', 99, 2, 1)`)
	require.NoError(t, err)

	room, err := db.GetRoomByType(ctx, "standard")
	require.NoError(t, err)
	assert.Equal(t, "Standard A", room.Name)
}

func TestSearchAvailableRooms_GuestFilter(t *testing.T) {
	db := setupTestDB(t)
	seedTestRooms(t, db)
	ctx := context.Background()

	rooms, err := db.SearchAvailableRooms(ctx, date(t, "2025-06-01"), date(t, "2025-06-04"), 4)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "presidential", rooms[0].Type)
}

func TestSearchAvailableRooms_UnavailableFlag(t *testing.T) {
	db := setupTestDB(t)
	seedTestRooms(t, db)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, `UPDATE rooms SET available = 0 WHERE type = 'standard'`)
	require.NoError(t, err)

	rooms, err := db.SearchAvailableRooms(ctx, date(t, "2025-06-01"), date(t, "2025-06-04"), 1)
	require.NoError(t, err)
	assert.Len(t, rooms, 2)
	for _, room := range rooms {
		assert.NotEqual(t, "standard", room.Type)
	}
}

func TestSearchAvailableRooms_OverlapBounds(t *testing.T) {
	db := setupTestDB(t)
	seedTestRooms(t, db)
	ctx := context.Background()

	standard, err := db.GetRoomByType(ctx, "standard")
	require.NoError(t, err)

	booking := &models.Booking{
		RoomID:   standard.ID,
		RoomName: standard.Name,
		RoomType: standard.Type,
		Checkin:  date(t, "2025-06-01"),
		Checkout: date(t, "2025-06-05"),
		Nights:   4, Adults: 2,
		GuestName: "Alice", GuestEmail: "alice@example.com",
		TotalPrice: 356, Status: models.StatusConfirmed,
	}
	require.NoError(t, db.CreateBooking(ctx, booking))

	hasStandard := func(rooms []models.Room) bool {
		for _, r := range rooms {
			if r.Type == "standard" {
				return true
			}
		}
		return false
	}

	// Overlapping the tail of the existing range conflicts (inclusive bounds).
	rooms, err := db.SearchAvailableRooms(ctx, date(t, "2025-06-04"), date(t, "2025-06-08"), 2)
	require.NoError(t, err)
	assert.False(t, hasStandard(rooms))

	// Starting the day after checkout does not conflict.
	rooms, err = db.SearchAvailableRooms(ctx, date(t, "2025-06-06"), date(t, "2025-06-08"), 2)
	require.NoError(t, err)
	assert.True(t, hasStandard(rooms))

	// Fully inside the existing range conflicts.
	rooms, err = db.SearchAvailableRooms(ctx, date(t, "2025-06-02"), date(t, "2025-06-03"), 2)
	require.NoError(t, err)
	assert.False(t, hasStandard(rooms))

	// Ending on the existing checkin day conflicts.
	rooms, err = db.SearchAvailableRooms(ctx, date(t, "2025-05-28"), date(t, "2025-06-01"), 2)
	require.NoError(t, err)
	assert.False(t, hasStandard(rooms))
}
