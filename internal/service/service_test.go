package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"cheesecode/internal/database"
	"cheesecode/internal/events"
	"cheesecode/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) *database.DB {
	t.Helper()
	logger := zerolog.Nop()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rooms := []models.Room{
		{Name: "Standard Room", Type: "standard", Price: 89, MaxGuests: 2, Available: true},
		{Name: "Premium Room", Type: "premium", Price: 149, MaxGuests: 3, Available: true},
		{Name: "Presidential Room", Type: "presidential", Price: 299, MaxGuests: 4, Available: true},
	}
	require.NoError(t, db.SeedRooms(context.Background(), rooms))
	return db
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(models.DateLayout, s)
	require.NoError(t, err)
	return d
}

func newBookingService(t *testing.T, db *database.DB) (*BookingService, *events.EventBus) {
	t.Helper()
	logger := zerolog.Nop()
	bus := events.NewEventBus()
	return NewBookingService(db, bus, &logger), bus
}

func standardInput(t *testing.T) models.BookingInput {
	return models.BookingInput{
		RoomType:   models.RoomTypeStandard,
		Checkin:    date(t, "2026-06-10"),
		Checkout:   date(t, "2026-06-13"),
		Adults:     2,
		GuestName:  "Alice Martin",
		GuestEmail: "alice@example.com",
		GuestPhone: "+33600000001",
	}
}
