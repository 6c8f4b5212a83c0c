package service

import (
	"context"
	"errors"

	"cheesecode/internal/database"
	"cheesecode/internal/domain"
	"cheesecode/internal/events"
	"cheesecode/internal/models"

	"github.com/rs/zerolog"
)

// UserService owns registration and login. Passwords are stored and compared
// as plain strings, matching the original service's plaintext handling.
type UserService struct {
	store    domain.Store
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewUserService(store domain.Store, eventBus domain.EventPublisher, logger *zerolog.Logger) *UserService {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &UserService{store: store, eventBus: eventBus, logger: logger}
}

// Register creates a user and returns it verbatim, password included.
func (s *UserService) Register(ctx context.Context, name, email, phone, password string) (*models.User, error) {
	user := &models.User{
		Name:     name,
		Email:    email,
		Phone:    phone,
		Password: password,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		payload := events.UserEventPayload{UserID: user.ID, Email: user.Email, Name: user.Name}
		if err := s.eventBus.PublishJSON(events.EventUserRegistered, payload); err != nil {
			s.logger.Error().Err(err).Str("user_id", user.ID).Msg("publish event error")
		}
	}

	return user, nil
}

// Login succeeds only on an exact string match of the stored password.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, database.ErrUserNotFound) {
		return nil, database.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if user.Password != password {
		return nil, database.ErrInvalidCredentials
	}
	return user, nil
}
