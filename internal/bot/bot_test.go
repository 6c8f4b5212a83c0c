package bot

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cheesecode/internal/config"
	"cheesecode/internal/database"
	"cheesecode/internal/events"
	"cheesecode/internal/models"
	"cheesecode/internal/repository"
	"cheesecode/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockTelegramService struct {
	updatesChan chan tgbotapi.Update
	sent        []tgbotapi.Chattable
}

func (m *mockTelegramService) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return m.updatesChan
}

func (m *mockTelegramService) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	m.sent = append(m.sent, c)
	return tgbotapi.Message{}, nil
}

func (m *mockTelegramService) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (m *mockTelegramService) GetSelf() tgbotapi.User {
	return tgbotapi.User{UserName: "test_bot"}
}

func (m *mockTelegramService) StopReceivingUpdates() {}

// allTexts concatenates the text of every sent MessageConfig.
func (m *mockTelegramService) allTexts() string {
	var sb strings.Builder
	for _, c := range m.sent {
		if msg, ok := c.(tgbotapi.MessageConfig); ok {
			sb.WriteString(msg.Text)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (m *mockTelegramService) reset() { m.sent = nil }

func setupBot(t *testing.T) (*Bot, *mockTelegramService, *database.DB) {
	t.Helper()
	logger := zerolog.Nop()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rooms := []models.Room{
		{Name: "Standard Room", Type: "standard", Description: "Cosy double room", Price: 89, MaxGuests: 2, Available: true},
		{Name: "Premium Room", Type: "premium", Description: "Spacious room with a view", Price: 149, MaxGuests: 3, Available: true},
		{Name: "Presidential Room", Type: "presidential", Description: "The whole top floor", Price: 299, MaxGuests: 4, Available: true},
	}
	require.NoError(t, db.SeedRooms(context.Background(), rooms))

	bus := events.NewEventBus()
	sessions := service.NewSessionService(repository.NewMemorySessionRepository(), &logger)
	bookingService := service.NewBookingService(db, bus, &logger)
	roomService := service.NewRoomService(db, &logger)
	userService := service.NewUserService(db, bus, &logger)

	cfg := &config.Config{
		Telegram: config.TelegramConfig{BotToken: "test"},
		Bot:      config.BotConfig{RateLimitMessages: 100, RateLimitWindow: 60},
		Managers: []int64{999},
	}

	tg := &mockTelegramService{updatesChan: make(chan tgbotapi.Update, 4)}
	b, err := NewBot(tg, cfg, sessions, bookingService, roomService, userService, nil, &logger)
	require.NoError(t, err)
	return b, tg, db
}

func message(chatID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			From: &tgbotapi.User{ID: chatID, FirstName: "Alice"},
			Chat: &tgbotapi.Chat{ID: chatID},
			Text: text,
		},
	}
}

func callback(chatID int64, data string) tgbotapi.Update {
	return tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:      "cb1",
			From:    &tgbotapi.User{ID: chatID},
			Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: chatID}},
			Data:    data,
		},
	}
}

func TestStartCommand(t *testing.T) {
	b, tg, _ := setupBot(t)

	b.processUpdate(context.Background(), message(1, "/start"))

	assert.Contains(t, tg.allTexts(), "Welcome")
}

func TestFullBookingFlow(t *testing.T) {
	b, tg, db := setupBot(t)
	ctx := context.Background()

	steps := []string{
		btnSearch,
		"2026-06-10",
		"2026-06-13",
		"2",
		"Standard Room",
		"Alice Martin",
		"alice@example.com",
		"+33600000001",
		btnConfirm,
	}
	for _, text := range steps {
		b.processUpdate(ctx, message(1, text))
	}

	out := tg.allTexts()
	assert.Contains(t, out, "Booking confirmed")
	assert.Contains(t, out, "267.00")

	bookings, err := db.GetAllBookings(ctx)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, 3, bookings[0].Nights)
	assert.Equal(t, 267.0, bookings[0].TotalPrice)
	assert.Equal(t, "alice@example.com", bookings[0].GuestEmail)
}

func TestBookingFlow_RejectsBadInput(t *testing.T) {
	b, tg, _ := setupBot(t)
	ctx := context.Background()

	b.processUpdate(ctx, message(1, btnSearch))

	t.Run("unparseable date", func(t *testing.T) {
		tg.reset()
		b.processUpdate(ctx, message(1, "next friday"))
		assert.Contains(t, tg.allTexts(), "could not read that date")
	})

	b.processUpdate(ctx, message(1, "2026-06-10"))

	t.Run("checkout before checkin", func(t *testing.T) {
		tg.reset()
		b.processUpdate(ctx, message(1, "2026-06-08"))
		assert.Contains(t, tg.allTexts(), "after check-in")
	})

	b.processUpdate(ctx, message(1, "2026-06-13"))

	t.Run("non-numeric guest count", func(t *testing.T) {
		tg.reset()
		b.processUpdate(ctx, message(1, "two"))
		assert.Contains(t, tg.allTexts(), "positive number")
	})
}

func TestSearch_NoRoomsAvailable(t *testing.T) {
	b, tg, db := setupBot(t)
	ctx := context.Background()

	// Book every room over the range first.
	for _, roomType := range []string{"standard", "premium", "presidential"} {
		room, err := db.GetRoomByType(ctx, roomType)
		require.NoError(t, err)
		checkin := mustDate(t, "2026-06-10")
		checkout := mustDate(t, "2026-06-13")
		require.NoError(t, db.CreateBooking(ctx, &models.Booking{
			RoomID: room.ID, RoomType: roomType, Checkin: checkin, Checkout: checkout,
			Status: models.StatusConfirmed,
		}))
	}

	b.processUpdate(ctx, message(1, btnSearch))
	b.processUpdate(ctx, message(1, "2026-06-10"))
	b.processUpdate(ctx, message(1, "2026-06-13"))
	tg.reset()
	b.processUpdate(ctx, message(1, "2"))

	assert.Contains(t, tg.allTexts(), "No rooms are available")
}

func TestRegisterAndLoginFlow(t *testing.T) {
	b, tg, _ := setupBot(t)
	ctx := context.Background()

	for _, text := range []string{btnRegister, "Alice Martin", "alice@example.com", "+33600000001", "secret"} {
		b.processUpdate(ctx, message(1, text))
	}
	assert.Contains(t, tg.allTexts(), "Account created")

	b.processUpdate(ctx, message(1, btnLogout))

	t.Run("wrong password", func(t *testing.T) {
		tg.reset()
		for _, text := range []string{btnLogin, "alice@example.com", "nope"} {
			b.processUpdate(ctx, message(1, text))
		}
		assert.Contains(t, tg.allTexts(), "Wrong email or password")
	})

	t.Run("correct password", func(t *testing.T) {
		tg.reset()
		for _, text := range []string{btnLogin, "alice@example.com", "secret"} {
			b.processUpdate(ctx, message(1, text))
		}
		assert.Contains(t, tg.allTexts(), "Logged in as Alice Martin")
	})
}

func TestLoggedInUserSkipsContactQuestions(t *testing.T) {
	b, tg, db := setupBot(t)
	ctx := context.Background()

	for _, text := range []string{btnRegister, "Alice Martin", "alice@example.com", "+33600000001", "secret"} {
		b.processUpdate(ctx, message(1, text))
	}

	tg.reset()
	for _, text := range []string{btnSearch, "2026-06-10", "2026-06-12", "2", "Premium Room"} {
		b.processUpdate(ctx, message(1, text))
	}

	// Straight to the summary, no name/email/phone prompts.
	out := tg.allTexts()
	assert.Contains(t, out, "Please confirm your booking")
	assert.NotContains(t, out, "Your full name?")

	b.processUpdate(ctx, message(1, btnConfirm))

	bookings, err := db.GetBookingsByGuestEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "Alice Martin", bookings[0].GuestName)
}

func TestMyBookingsAndCancel(t *testing.T) {
	b, tg, db := setupBot(t)
	ctx := context.Background()

	for _, text := range []string{btnRegister, "Alice Martin", "alice@example.com", "+33600000001", "secret"} {
		b.processUpdate(ctx, message(1, text))
	}
	for _, text := range []string{btnSearch, "2026-06-10", "2026-06-12", "2", "Standard Room", btnConfirm} {
		b.processUpdate(ctx, message(1, text))
	}

	bookings, err := db.GetBookingsByGuestEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Len(t, bookings, 1)

	tg.reset()
	b.processUpdate(ctx, message(1, btnMyBookings))
	assert.Contains(t, tg.allTexts(), bookings[0].ID)

	tg.reset()
	b.processUpdate(ctx, callback(1, "cancel_booking:"+bookings[0].ID))
	assert.Contains(t, tg.allTexts(), "cancelled")

	remaining, err := db.GetBookingsByGuestEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Empty(t, remaining)

	// Cancelling again reports the booking as gone, not an error.
	tg.reset()
	b.processUpdate(ctx, callback(1, "cancel_booking:"+bookings[0].ID))
	assert.Contains(t, tg.allTexts(), "already cancelled")
}

func TestMyBookings_RequiresLogin(t *testing.T) {
	b, tg, _ := setupBot(t)

	b.processUpdate(context.Background(), message(1, btnMyBookings))
	assert.Contains(t, tg.allTexts(), "log in first")
}

func TestManagerStats(t *testing.T) {
	b, tg, db := setupBot(t)
	ctx := context.Background()

	require.NoError(t, db.CreateBooking(ctx, &models.Booking{
		RoomType: "standard", Checkin: mustDate(t, "2026-06-10"), Checkout: mustDate(t, "2026-06-13"),
		Nights: 3, TotalPrice: 267, Status: models.StatusConfirmed,
	}))

	t.Run("manager sees stats", func(t *testing.T) {
		tg.reset()
		b.processUpdate(ctx, message(999, btnStats))
		out := tg.allTexts()
		assert.Contains(t, out, "Total bookings: 1")
		assert.Contains(t, out, "267.00")
	})

	t.Run("guests do not", func(t *testing.T) {
		tg.reset()
		b.processUpdate(ctx, message(1, btnStats))
		assert.NotContains(t, tg.allTexts(), "Total bookings")
	})
}

func TestRateLimit(t *testing.T) {
	b, tg, _ := setupBot(t)
	b.config.Bot.RateLimitMessages = 2
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		b.processUpdate(ctx, message(1, "/start"))
	}
	assert.Contains(t, tg.allTexts(), "too fast")
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(models.DateLayout, s)
	require.NoError(t, err)
	return d
}
