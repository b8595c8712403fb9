// internal/pkg/session/manager.go
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Manager struct {
	client *redis.Client
}

func NewManager(client *redis.Client) *Manager {
	return &Manager{client: client}
}

// CreateSession stores a new session in Redis, keyed by agent ID and jti.
func (m *Manager) CreateSession(ctx context.Context, s *Data) error {
	key := m.sessionKey(s.AgentID, s.JTI)

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}

	if err := m.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session in redis: %w", err)
	}

	return nil
}

// GetSession retrieves a session from Redis.
func (m *Manager) GetSession(ctx context.Context, agentID int64, jti string) (*Data, error) {
	key := m.sessionKey(agentID, jti)

	data, err := m.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("session not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var s Data
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &s, nil
}

// TouchSession updates the last-activity timestamp without extending TTL.
func (m *Manager) TouchSession(ctx context.Context, agentID int64, jti string) error {
	s, err := m.GetSession(ctx, agentID, jti)
	if err != nil {
		return nil // expired or gone, nothing to touch
	}

	s.LastActivityAt = time.Now()
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}

	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	return m.client.Set(ctx, m.sessionKey(agentID, jti), data, ttl).Err()
}

// DeleteSession removes a single session (logout).
func (m *Manager) DeleteSession(ctx context.Context, agentID int64, jti string) error {
	return m.client.Del(ctx, m.sessionKey(agentID, jti)).Err()
}

// DeleteAllSessions removes every session for an agent (logout everywhere).
func (m *Manager) DeleteAllSessions(ctx context.Context, agentID int64) error {
	pattern := fmt.Sprintf("session:%d:*", agentID)

	iter := m.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := m.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete session %s: %w", iter.Val(), err)
		}
	}
	return iter.Err()
}

func (m *Manager) sessionKey(agentID int64, jti string) string {
	return fmt.Sprintf("session:%d:%s", agentID, jti)
}
