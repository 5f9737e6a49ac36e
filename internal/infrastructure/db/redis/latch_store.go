package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/retailzero/brand-gateway/internal/core/domain"
)

// DefaultLatchTTL bounds how long a latch outlives its authentication session.
const DefaultLatchTTL = 24 * time.Hour

// transitionScript swaps the latch value only when it still holds the
// expected state. Returns 1 on success and 0 otherwise.
var transitionScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	redis.call("SET", KEYS[1], ARGV[2], "KEEPTTL")
	return 1
end
return 0
`)

// LatchStore keeps redirect latches in Redis so that every replica and
// every concurrent request of a session sees the same state.
// Key format: latch:<auth_session_id>
type LatchStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLatchStore creates a LatchStore wrapping the given Redis client.
func NewLatchStore(client *redis.Client, ttl time.Duration) *LatchStore {
	if ttl <= 0 {
		ttl = DefaultLatchTTL
	}
	return &LatchStore{client: client, ttl: ttl}
}

// Acquire claims the latch (idle to pending). Only one caller wins.
func (l *LatchStore) Acquire(ctx context.Context, key string) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key(key), string(domain.RedirectPending), l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("latch acquire: %w", err)
	}
	return ok, nil
}

func (l *LatchStore) Transition(ctx context.Context, key string, from, to domain.RedirectState) (bool, error) {
	if !from.CanTransitionTo(to) {
		return false, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, to)
	}
	n, err := transitionScript.Run(ctx, l.client, []string{l.key(key)}, string(from), string(to)).Int()
	if err != nil {
		return false, fmt.Errorf("latch transition: %w", err)
	}
	return n == 1, nil
}

func (l *LatchStore) State(ctx context.Context, key string) (domain.RedirectState, error) {
	v, err := l.client.Get(ctx, l.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.RedirectIdle, nil
	}
	if err != nil {
		return "", fmt.Errorf("latch state: %w", err)
	}
	return domain.ParseRedirectState(v), nil
}

// Reset deletes the latch, which reads back as idle.
func (l *LatchStore) Reset(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, l.key(key)).Err(); err != nil {
		return fmt.Errorf("latch reset: %w", err)
	}
	return nil
}

func (l *LatchStore) key(authSessionID string) string {
	return "latch:" + authSessionID
}
