package service

import (
	"context"
	"time"

	"cheesecode/internal/domain"
	"cheesecode/internal/models"

	"github.com/rs/zerolog"
)

// SessionService layers conversation-state helpers over a SessionRepository.
type SessionService struct {
	repo   domain.SessionRepository
	logger *zerolog.Logger
}

func NewSessionService(repo domain.SessionRepository, logger *zerolog.Logger) *SessionService {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &SessionService{repo: repo, logger: logger}
}

// GetSession returns the chat's session, creating a fresh main-menu state
// when none exists yet.
func (s *SessionService) GetSession(ctx context.Context, chatID int64) (*models.SessionState, error) {
	state, err := s.repo.GetSession(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		state = &models.SessionState{
			ChatID:      chatID,
			CurrentStep: models.StepMainMenu,
			TempData:    make(map[string]interface{}),
		}
	}
	return state, nil
}

// SetStep advances the conversation and merges data into the collected form
// input. The logged-in user is preserved across steps.
func (s *SessionService) SetStep(ctx context.Context, chatID int64, step string, data map[string]interface{}) error {
	state, err := s.GetSession(ctx, chatID)
	if err != nil {
		return err
	}

	state.CurrentStep = step
	if state.TempData == nil {
		state.TempData = make(map[string]interface{})
	}
	for k, v := range data {
		state.TempData[k] = v
	}

	return s.repo.SetSession(ctx, state)
}

// SetUser records a successful login and drops any in-flight form input.
func (s *SessionService) SetUser(ctx context.Context, chatID int64, user *models.User) error {
	state, err := s.GetSession(ctx, chatID)
	if err != nil {
		return err
	}

	state.User = user
	state.CurrentStep = models.StepMainMenu
	state.TempData = make(map[string]interface{})

	return s.repo.SetSession(ctx, state)
}

func (s *SessionService) ClearSession(ctx context.Context, chatID int64) error {
	return s.repo.ClearSession(ctx, chatID)
}

func (s *SessionService) CheckRateLimit(ctx context.Context, chatID int64, limit int, window time.Duration) (bool, error) {
	return s.repo.CheckRateLimit(ctx, chatID, limit, window)
}
