package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"cheesecode/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingSessionRepository always errors, standing in for a dead Redis.
type failingSessionRepository struct{}

func (f *failingSessionRepository) GetSession(ctx context.Context, chatID int64) (*models.SessionState, error) {
	return nil, errors.New("connection refused")
}

func (f *failingSessionRepository) SetSession(ctx context.Context, state *models.SessionState) error {
	return errors.New("connection refused")
}

func (f *failingSessionRepository) ClearSession(ctx context.Context, chatID int64) error {
	return errors.New("connection refused")
}

func (f *failingSessionRepository) CheckRateLimit(ctx context.Context, chatID int64, limit int, window time.Duration) (bool, error) {
	return false, errors.New("connection refused")
}

func TestFailover_FallsBackToMemory(t *testing.T) {
	logger := zerolog.Nop()
	fallback := NewMemorySessionRepository()
	repo := NewFailoverSessionRepository(&failingSessionRepository{}, fallback, &logger)
	ctx := context.Background()

	state := &models.SessionState{ChatID: 10, CurrentStep: models.StepGuestCount}
	require.NoError(t, repo.SetSession(ctx, state))

	got, err := repo.GetSession(ctx, 10)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.StepGuestCount, got.CurrentStep)
}

func TestFailover_UsesPrimaryWhileHealthy(t *testing.T) {
	logger := zerolog.Nop()
	primary := NewMemorySessionRepository()
	fallback := NewMemorySessionRepository()
	repo := NewFailoverSessionRepository(primary, fallback, &logger)
	ctx := context.Background()

	require.NoError(t, repo.SetSession(ctx, &models.SessionState{ChatID: 20}))

	got, err := primary.GetSession(ctx, 20)
	require.NoError(t, err)
	assert.NotNil(t, got)

	got, err = fallback.GetSession(ctx, 20)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFailover_RateLimitFallsBack(t *testing.T) {
	logger := zerolog.Nop()
	repo := NewFailoverSessionRepository(&failingSessionRepository{}, NewMemorySessionRepository(), &logger)
	ctx := context.Background()

	allowed, err := repo.CheckRateLimit(ctx, 30, 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = repo.CheckRateLimit(ctx, 30, 1, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
}
