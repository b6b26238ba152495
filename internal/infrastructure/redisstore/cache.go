package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/akozyrev/finreport-rag/internal/core/domain"
)

// answerKeyPrefix namespaces answer-cache entries away from session keys in
// the same Redis database.
const answerKeyPrefix = "answer:"

// AnswerCache is the cache-aside answer store. Keys are the normalized query,
// so case/spacing/punctuation variants of the same question share one entry.
// Expiry is enforced by Redis; an expired entry is a miss, never a stale hit.
type AnswerCache struct {
	client *redis.Client
}

func NewAnswerCache(client *redis.Client) *AnswerCache {
	return &AnswerCache{client: client}
}

func (c *AnswerCache) Get(ctx context.Context, query string) (string, bool, error) {
	value, err := c.client.Get(ctx, answerKey(query)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("cache get: %w", err)
	}
	return value, true, nil
}

// Set overwrites unconditionally: answers for the same normalized query are
// interchangeable, so last-writer-wins needs no version check.
func (c *AnswerCache) Set(ctx context.Context, query, answer string, ttl time.Duration) error {
	if err := c.client.Set(ctx, answerKey(query), answer, ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

func answerKey(query string) string {
	return answerKeyPrefix + domain.NormalizeQuery(query)
}
