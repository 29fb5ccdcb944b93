package auth

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"spendwise/internal/cache"
	"spendwise/internal/model"
)

const sessionKeyPrefix = "session:"

// SessionCacheInterface caches session rows keyed by token so the per-request
// session lookup does not always hit the database. The database row stays
// authoritative; entries expire no later than the row does and are deleted on
// logout and password change.
type SessionCacheInterface interface {
	Get(ctx context.Context, token string) (*model.Session, error)
	Set(ctx context.Context, session *model.Session) error
	Delete(ctx context.Context, token string) error
}

type cachedSession struct {
	UserID    uuid.UUID `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionCache stores session rows in Redis.
type SessionCache struct {
	cache *cache.Client
}

// Ensure SessionCache implements SessionCacheInterface
var _ SessionCacheInterface = (*SessionCache)(nil)

// NewSessionCache creates a new session cache.
func NewSessionCache(cache *cache.Client) *SessionCache {
	return &SessionCache{cache: cache}
}

// Get returns the cached session for token, or nil on miss. Entries past
// their expiry are treated as misses even if Redis has not evicted them yet.
func (s *SessionCache) Get(ctx context.Context, token string) (*model.Session, error) {
	data, err := s.cache.Get(ctx, sessionKeyPrefix+token)
	if err != nil || data == nil {
		return nil, nil
	}

	var entry cachedSession
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, nil
	}
	if !time.Now().Before(entry.ExpiresAt) {
		return nil, nil
	}

	return &model.Session{
		UserID:    entry.UserID,
		Token:     token,
		ExpiresAt: entry.ExpiresAt,
	}, nil
}

// Set caches a session with a TTL capped at the session's remaining lifetime.
func (s *SessionCache) Set(ctx context.Context, session *model.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	payload, err := json.Marshal(cachedSession{
		UserID:    session.UserID,
		ExpiresAt: session.ExpiresAt,
	})
	if err != nil {
		return nil
	}
	return s.cache.Set(ctx, sessionKeyPrefix+session.Token, payload, ttl)
}

// Delete removes a cached session.
func (s *SessionCache) Delete(ctx context.Context, token string) error {
	return s.cache.Delete(ctx, sessionKeyPrefix+token)
}
