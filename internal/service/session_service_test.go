package service

import (
	"context"
	"testing"

	"cheesecode/internal/models"
	"cheesecode/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionService() *SessionService {
	logger := zerolog.Nop()
	return NewSessionService(repository.NewMemorySessionRepository(), &logger)
}

func TestSessionService_GetSessionDefaults(t *testing.T) {
	svc := newSessionService()

	state, err := svc.GetSession(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), state.ChatID)
	assert.Equal(t, models.StepMainMenu, state.CurrentStep)
}

func TestSessionService_SetStepMergesData(t *testing.T) {
	svc := newSessionService()
	ctx := context.Background()

	require.NoError(t, svc.SetStep(ctx, 1, models.StepCheckoutDate, map[string]interface{}{"checkin": "2026-06-10"}))
	require.NoError(t, svc.SetStep(ctx, 1, models.StepGuestCount, map[string]interface{}{"checkout": "2026-06-13"}))

	state, err := svc.GetSession(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.StepGuestCount, state.CurrentStep)
	assert.Equal(t, "2026-06-10", state.GetString("checkin"))
	assert.Equal(t, "2026-06-13", state.GetString("checkout"))
}

func TestSessionService_SetUserResetsFlow(t *testing.T) {
	svc := newSessionService()
	ctx := context.Background()

	require.NoError(t, svc.SetStep(ctx, 2, models.StepLoginPassword, map[string]interface{}{"login_email": "alice@example.com"}))
	require.NoError(t, svc.SetUser(ctx, 2, &models.User{Email: "alice@example.com"}))

	state, err := svc.GetSession(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, state.User)
	assert.Equal(t, models.StepMainMenu, state.CurrentStep)
	assert.Empty(t, state.GetString("login_email"))
}

func TestSessionService_ClearSession(t *testing.T) {
	svc := newSessionService()
	ctx := context.Background()

	require.NoError(t, svc.SetUser(ctx, 3, &models.User{Email: "a@b.c"}))
	require.NoError(t, svc.ClearSession(ctx, 3))

	state, err := svc.GetSession(ctx, 3)
	require.NoError(t, err)
	assert.Nil(t, state.User)
}
