package telephony

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ReplayCache remembers the TwiML rendered for a webhook request so provider
// retries get the identical response without re-running the dialogue.
type ReplayCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, twiml string, ttl time.Duration) error
}

// ReplayKey fingerprints one webhook delivery. The provider's idempotency
// token is unique per delivery and repeated on its retries, so it is the
// preferred discriminator. Without one the key falls back to a payload
// digest, which cannot tell a retry apart from the caller saying the exact
// same words again within the TTL; that second delivery replays the cached
// TwiML instead of consuming a turn.
func ReplayKey(path string, f VoiceForm) string {
	parts := []string{path, f.CallSid, f.SpeechResult, f.CallStatus, f.Digits}
	if f.IdempotencyToken != "" {
		parts = []string{path, f.CallSid, f.IdempotencyToken}
	}
	h := sha256.New()
	for _, part := range parts {
		h.Write([]byte(part))
		h.Write([]byte{'|'})
	}
	return "voice:replay:" + hex.EncodeToString(h.Sum(nil))
}

// RedisReplayCache backs the replay guard with redis so retries are absorbed
// across instances.
type RedisReplayCache struct {
	rdb *redis.Client
}

func NewRedisReplayCache(rdb *redis.Client) *RedisReplayCache {
	return &RedisReplayCache{rdb: rdb}
}

func (c *RedisReplayCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *RedisReplayCache) Set(ctx context.Context, key, twiml string, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, twiml, ttl).Err()
}
