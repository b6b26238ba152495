package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/akozyrev/finreport-rag/internal/core/domain"
)

// SessionStore keeps each session transcript as a Redis list of JSON turns.
// Sessions are created lazily on first append and expire by TTL; nothing in
// the pipeline deletes them explicitly.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) Append(ctx context.Context, sessionID, role, text string) error {
	payload, err := json.Marshal(domain.Turn{Role: role, Text: text})
	if err != nil {
		return fmt.Errorf("marshal turn: %w", err)
	}

	// RPUSH+EXPIRE in one pipeline so a turn never lands without refreshing
	// the session's lifetime.
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, sessionKey(sessionID), payload)
	pipe.Expire(ctx, sessionKey(sessionID), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append turn: %w", err)
	}
	return nil
}

func (s *SessionStore) History(ctx context.Context, sessionID string) ([]domain.Turn, error) {
	raw, err := s.client.LRange(ctx, sessionKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}

	turns := make([]domain.Turn, 0, len(raw))
	for _, item := range raw {
		var turn domain.Turn
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			return nil, fmt.Errorf("unmarshal turn: %w", err)
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s:turns", sessionID)
}
