package repository

import (
	"context"
	"sync"
	"time"

	"cheesecode/internal/models"
)

// MemorySessionRepository is the in-process fallback when Redis is down.
// Sessions stored here do not survive a restart.
type MemorySessionRepository struct {
	sessions   sync.Map
	rateLimits sync.Map
	mu         sync.Mutex
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{}
}

func (r *MemorySessionRepository) GetSession(ctx context.Context, chatID int64) (*models.SessionState, error) {
	val, ok := r.sessions.Load(chatID)
	if !ok {
		return nil, nil
	}
	return val.(*models.SessionState), nil
}

func (r *MemorySessionRepository) SetSession(ctx context.Context, state *models.SessionState) error {
	r.sessions.Store(state.ChatID, state)
	return nil
}

func (r *MemorySessionRepository) ClearSession(ctx context.Context, chatID int64) error {
	r.sessions.Delete(chatID)
	return nil
}

type rateLimitEntry struct {
	count     int
	expiresAt time.Time
}

func (r *MemorySessionRepository) CheckRateLimit(ctx context.Context, chatID int64, limit int, window time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	var entry *rateLimitEntry
	if val, ok := r.rateLimits.Load(chatID); ok {
		entry = val.(*rateLimitEntry)
		if now.After(entry.expiresAt) {
			entry.count = 1
			entry.expiresAt = now.Add(window)
		} else {
			entry.count++
		}
	} else {
		entry = &rateLimitEntry{count: 1, expiresAt: now.Add(window)}
	}

	r.rateLimits.Store(chatID, entry)
	return entry.count <= limit, nil
}
