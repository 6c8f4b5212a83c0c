package service

import (
	"context"
	"time"

	"cheesecode/internal/domain"
	"cheesecode/internal/models"

	"github.com/rs/zerolog"
)

// RoomService owns the room catalog and availability search.
type RoomService struct {
	store  domain.Store
	logger *zerolog.Logger
}

func NewRoomService(store domain.Store, logger *zerolog.Logger) *RoomService {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &RoomService{store: store, logger: logger}
}

func (s *RoomService) ListRooms(ctx context.Context) ([]models.Room, error) {
	return s.store.GetAllRooms(ctx)
}

// GetRoom resolves a single room by its document id.
func (s *RoomService) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	return s.store.GetRoomByID(ctx, id)
}

// SearchAvailableRooms returns rooms fitting the party size with no booking
// overlapping the requested range. Date ordering is not validated here; the
// client controller checks checkout > checkin before calling.
func (s *RoomService) SearchAvailableRooms(ctx context.Context, checkin, checkout time.Time, minGuests int) ([]models.Room, error) {
	return s.store.SearchAvailableRooms(ctx, checkin, checkout, minGuests)
}
