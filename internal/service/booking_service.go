package service

import (
	"context"
	"math"
	"time"

	"cheesecode/internal/domain"
	"cheesecode/internal/events"
	"cheesecode/internal/models"

	"github.com/rs/zerolog"
)

// BookingService owns booking creation, lookup, deletion and aggregation.
// Side effects beyond the store (spreadsheet sync, metrics) hang off the
// events it publishes.
type BookingService struct {
	store    domain.Store
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewBookingService(store domain.Store, eventBus domain.EventPublisher, logger *zerolog.Logger) *BookingService {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &BookingService{
		store:    store,
		eventBus: eventBus,
		logger:   logger,
	}
}

// CalculateNights counts billable nights: ceil((checkout − checkin) / 1 day).
func CalculateNights(checkin, checkout time.Time) int {
	return int(math.Ceil(checkout.Sub(checkin).Hours() / 24))
}

// CreateBooking resolves the room by type (first match, availability flag
// and existing bookings are not consulted — the overlap test lives only in
// the availability search) and persists a confirmed booking with the
// computed night count and total price.
func (s *BookingService) CreateBooking(ctx context.Context, input models.BookingInput) (*models.Booking, error) {
	room, err := s.store.GetRoomByType(ctx, input.RoomType)
	if err != nil {
		return nil, err
	}

	nights := CalculateNights(input.Checkin, input.Checkout)
	booking := &models.Booking{
		RoomID:     room.ID,
		RoomName:   room.Name,
		RoomType:   room.Type,
		Checkin:    input.Checkin,
		Checkout:   input.Checkout,
		Nights:     nights,
		Adults:     input.Adults,
		GuestName:  input.GuestName,
		GuestEmail: input.GuestEmail,
		GuestPhone: input.GuestPhone,
		TotalPrice: float64(nights) * room.Price,
		Status:     models.StatusConfirmed,
	}

	if err := s.store.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	s.publishBookingEvent(events.EventBookingCreated, booking)

	return booking, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	return s.store.GetBooking(ctx, id)
}

func (s *BookingService) DeleteBooking(ctx context.Context, id string) (int64, error) {
	booking, getErr := s.store.GetBooking(ctx, id)

	deleted, err := s.store.DeleteBooking(ctx, id)
	if err != nil {
		return 0, err
	}

	if deleted > 0 && getErr == nil {
		s.publishBookingEvent(events.EventBookingDeleted, booking)
	}

	return deleted, nil
}

func (s *BookingService) ListAllBookings(ctx context.Context) ([]models.Booking, error) {
	return s.store.GetAllBookings(ctx)
}

func (s *BookingService) ListBookingsForUser(ctx context.Context, email string) ([]models.Booking, error) {
	return s.store.GetBookingsByGuestEmail(ctx, email)
}

func (s *BookingService) Stats(ctx context.Context) (*models.Stats, error) {
	return s.store.GetStats(ctx)
}

func (s *BookingService) publishBookingEvent(eventType string, booking *models.Booking) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID:  booking.ID,
		RoomID:     booking.RoomID,
		RoomType:   booking.RoomType,
		GuestEmail: booking.GuestEmail,
		Checkin:    booking.Checkin,
		Checkout:   booking.Checkout,
		TotalPrice: booking.TotalPrice,
		Status:     booking.Status,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Str("booking_id", booking.ID).Msg("publish event error")
	}
}
