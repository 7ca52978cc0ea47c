// Package session implements the Redis-backed session store used for
// cookie-based authentication.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CookieName is the cookie carrying the session token.
const CookieName = "inkwell_session"

// ErrUnavailable is returned when no session store is configured.
var ErrUnavailable = errors.New("session store unavailable")

// Manager creates, resolves, and destroys sessions. Tokens are opaque UUIDs;
// the store maps token -> user ID with a sliding TTL.
type Manager struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewManager returns a session manager backed by the given Redis client.
func NewManager(rdb *redis.Client, ttl time.Duration) *Manager {
	return &Manager{rdb: rdb, ttl: ttl}
}

// TTL reports the session lifetime, used for cookie expiry.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

// Create establishes a new session for the user and returns its token.
func (m *Manager) Create(ctx context.Context, userID uint) (string, error) {
	if m.rdb == nil {
		return "", ErrUnavailable
	}

	token := uuid.New().String()
	value := strconv.FormatUint(uint64(userID), 10)
	if err := m.rdb.Set(ctx, sessionKey(token), value, m.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// UserID resolves a session token to its user ID. The second return value is
// false when the token is unknown or expired. Resolving refreshes the TTL so
// active sessions stay alive.
func (m *Manager) UserID(ctx context.Context, token string) (uint, bool, error) {
	if m.rdb == nil {
		return 0, false, ErrUnavailable
	}
	if token == "" {
		return 0, false, nil
	}

	value, err := m.rdb.Get(ctx, sessionKey(token)).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	userID, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt session value %q: %w", value, err)
	}

	m.rdb.Expire(ctx, sessionKey(token), m.ttl)
	return uint(userID), true, nil
}

// Destroy removes the session. Destroying an unknown token is not an error.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	if m.rdb == nil {
		return ErrUnavailable
	}
	return m.rdb.Del(ctx, sessionKey(token)).Err()
}
