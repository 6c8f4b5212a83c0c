package domain

import (
	"context"
	"time"

	"cheesecode/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Store is the document-store surface the services operate on.
type Store interface {
	SeedRooms(ctx context.Context, rooms []models.Room) error
	GetAllRooms(ctx context.Context) ([]models.Room, error)
	GetRoomByID(ctx context.Context, id string) (*models.Room, error)
	GetRoomByType(ctx context.Context, roomType string) (*models.Room, error)
	SearchAvailableRooms(ctx context.Context, checkin, checkout time.Time, minGuests int) ([]models.Room, error)
	CountOverlappingBookings(ctx context.Context, roomID string, checkin, checkout time.Time) (int, error)

	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	DeleteBooking(ctx context.Context, id string) (int64, error)
	GetAllBookings(ctx context.Context) ([]models.Booking, error)
	GetBookingsByGuestEmail(ctx context.Context, email string) ([]models.Booking, error)
	GetBookingsByDateRange(ctx context.Context, start, end time.Time) ([]models.Booking, error)
	GetStats(ctx context.Context) (*models.Stats, error)

	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]models.User, error)
}

// SessionRepository persists per-chat controller sessions.
type SessionRepository interface {
	GetSession(ctx context.Context, chatID int64) (*models.SessionState, error)
	SetSession(ctx context.Context, state *models.SessionState) error
	ClearSession(ctx context.Context, chatID int64) error
	CheckRateLimit(ctx context.Context, chatID int64, limit int, window time.Duration) (bool, error)
}

// SessionManager is the service-level view of session handling.
type SessionManager interface {
	GetSession(ctx context.Context, chatID int64) (*models.SessionState, error)
	SetStep(ctx context.Context, chatID int64, step string, data map[string]interface{}) error
	SetUser(ctx context.Context, chatID int64, user *models.User) error
	ClearSession(ctx context.Context, chatID int64) error
	CheckRateLimit(ctx context.Context, chatID int64, limit int, window time.Duration) (bool, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// SheetsWriter mirrors bookings and users to a spreadsheet ledger.
type SheetsWriter interface {
	AppendBooking(ctx context.Context, booking *models.Booking) error
	DeleteBookingRow(ctx context.Context, bookingID string) error
	ReplaceBookingsSheet(ctx context.Context, bookings []models.Booking) error
	UpdateUsersSheet(ctx context.Context, users []models.User) error
}

// TelegramService wraps the bot API surface the controller needs.
type TelegramService interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}

// BookingService owns booking creation, lookup and aggregation.
type BookingService interface {
	CreateBooking(ctx context.Context, input models.BookingInput) (*models.Booking, error)
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	DeleteBooking(ctx context.Context, id string) (int64, error)
	ListAllBookings(ctx context.Context) ([]models.Booking, error)
	ListBookingsForUser(ctx context.Context, email string) ([]models.Booking, error)
	Stats(ctx context.Context) (*models.Stats, error)
}

// RoomService owns the room catalog and availability search.
type RoomService interface {
	ListRooms(ctx context.Context) ([]models.Room, error)
	GetRoom(ctx context.Context, id string) (*models.Room, error)
	SearchAvailableRooms(ctx context.Context, checkin, checkout time.Time, minGuests int) ([]models.Room, error)
}

// UserService owns registration and login.
type UserService interface {
	Register(ctx context.Context, name, email, phone, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
}
