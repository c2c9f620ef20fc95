// internal/pkg/session/manager.go
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

type Manager struct {
	client *redis.Client
}

func NewManager(client *redis.Client) *Manager {
	return &Manager{client: client}
}

// CreateSession stores a new session in Redis with a TTL derived from its
// expiry.
func (m *Manager) CreateSession(ctx context.Context, data *Data) error {
	key := m.sessionKey(data.UserID, data.ID)

	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := time.Until(data.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}

	if err := m.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session in redis: %w", err)
	}

	return nil
}

// GetSession retrieves a session by its id.
func (m *Manager) GetSession(ctx context.Context, userID int64, id string) (*Data, error) {
	raw, err := m.client.Get(ctx, m.sessionKey(userID, id)).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("session not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &data, nil
}

// TouchSession updates the last activity timestamp, preserving the TTL.
func (m *Manager) TouchSession(ctx context.Context, userID int64, id string) error {
	key := m.sessionKey(userID, id)

	raw, err := m.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil // session gone or expired, nothing to touch
	}

	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return err
	}

	data.LastActivityAt = time.Now()

	updated, err := json.Marshal(&data)
	if err != nil {
		return err
	}

	ttl := time.Until(data.ExpiresAt)
	if ttl > 0 {
		return m.client.Set(ctx, key, updated, ttl).Err()
	}

	return nil
}

// InvalidateSession removes one session.
func (m *Manager) InvalidateSession(ctx context.Context, userID int64, id string) error {
	if err := m.client.Del(ctx, m.sessionKey(userID, id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// ListUserSessions returns all active sessions for a user, oldest first.
func (m *Manager) ListUserSessions(ctx context.Context, userID int64) ([]*Data, error) {
	pattern := fmt.Sprintf("session:%d:*", userID)

	var sessions []*Data
	iter := m.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		raw, err := m.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			continue // expired between SCAN and GET
		}

		var data Data
		if err := json.Unmarshal(raw, &data); err != nil {
			continue
		}

		sessions = append(sessions, &data)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].LoginAt.Before(sessions[j].LoginAt)
	})

	return sessions, nil
}

// IsTokenBlacklisted checks if a token JTI is blacklisted.
func (m *Manager) IsTokenBlacklisted(ctx context.Context, jti string) (bool, error) {
	exists, err := m.client.Exists(ctx, m.blacklistKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check blacklist: %w", err)
	}
	return exists > 0, nil
}

// BlacklistToken adds a token JTI to the blacklist.
func (m *Manager) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	return m.client.Set(ctx, m.blacklistKey(jti), "1", ttl).Err()
}

// Helper functions
func (m *Manager) sessionKey(userID int64, id string) string {
	return fmt.Sprintf("session:%d:%s", userID, id)
}

func (m *Manager) blacklistKey(jti string) string {
	return fmt.Sprintf("blacklist:%s", jti)
}
