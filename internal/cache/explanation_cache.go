package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

// ExplanationCache caches generated explanations so re-answering the same
// question wrong (e.g. after a reset or a reloaded saved quiz) does not hit
// the AI provider again.
type ExplanationCache interface {
	Get(ctx context.Context, questionText, userAnswer string) (string, bool)
	Set(ctx context.Context, questionText, userAnswer, explanation string) error
}

type explanationCache struct {
	client *redis.Client
}

// NewExplanationCache creates a redis-backed explanation cache.
func NewExplanationCache(client *redis.Client) ExplanationCache {
	return &explanationCache{client: client}
}

func (c *explanationCache) Get(ctx context.Context, questionText, userAnswer string) (string, bool) {
	val, err := c.client.Get(ctx, explanationKey(questionText, userAnswer)).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (c *explanationCache) Set(ctx context.Context, questionText, userAnswer, explanation string) error {
	return c.client.Set(ctx, explanationKey(questionText, userAnswer), explanation, 24*time.Hour).Err()
}

func explanationKey(questionText, userAnswer string) string {
	sum := sha256.Sum256([]byte(questionText + "\x00" + userAnswer))
	return "explanation:" + hex.EncodeToString(sum[:16])
}
