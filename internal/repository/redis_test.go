package repository

import (
	"context"
	"testing"
	"time"

	"cheesecode/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisRepo(t *testing.T) (*RedisSessionRepository, *miniredis.Miniredis) {
	t.Helper()
	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisSessionRepository(client, time.Hour), s
}

func TestRedisSessionRepository(t *testing.T) {
	repo, _ := newTestRedisRepo(t)
	ctx := context.Background()

	t.Run("SetAndGetSession", func(t *testing.T) {
		state := &models.SessionState{
			ChatID:      123,
			CurrentStep: models.StepCheckoutDate,
			User:        &models.User{ID: "u1", Email: "alice@example.com"},
			TempData:    map[string]interface{}{"checkin": "2025-06-01"},
		}

		require.NoError(t, repo.SetSession(ctx, state))

		got, err := repo.GetSession(ctx, 123)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, state.ChatID, got.ChatID)
		assert.Equal(t, state.CurrentStep, got.CurrentStep)
		require.NotNil(t, got.User)
		assert.Equal(t, "alice@example.com", got.User.Email)
		assert.Equal(t, "2025-06-01", got.GetString("checkin"))
	})

	t.Run("GetNonExistentSession", func(t *testing.T) {
		got, err := repo.GetSession(ctx, 999)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("ClearSession", func(t *testing.T) {
		require.NoError(t, repo.SetSession(ctx, &models.SessionState{ChatID: 456}))
		require.NoError(t, repo.ClearSession(ctx, 456))

		got, err := repo.GetSession(ctx, 456)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("RateLimit", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			allowed, err := repo.CheckRateLimit(ctx, 789, 3, time.Minute)
			require.NoError(t, err)
			assert.True(t, allowed)
		}
		allowed, err := repo.CheckRateLimit(ctx, 789, 3, time.Minute)
		require.NoError(t, err)
		assert.False(t, allowed)
	})
}

func TestRedisSessionRepository_NilClient(t *testing.T) {
	repo := NewRedisSessionRepository(nil, time.Hour)
	ctx := context.Background()

	_, err := repo.GetSession(ctx, 1)
	assert.Error(t, err)
	assert.Error(t, repo.SetSession(ctx, &models.SessionState{ChatID: 1}))
	assert.Error(t, repo.ClearSession(ctx, 1))
}
