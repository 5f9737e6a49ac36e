// Package memory holds process-local implementations of the storage ports,
// used for single-instance development and in tests.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/retailzero/brand-gateway/internal/core/domain"
)

// DefaultLatchTTL matches the lifetime of the Redis latch.
const DefaultLatchTTL = 24 * time.Hour

type latch struct {
	state   domain.RedirectState
	expires time.Time
}

// LatchStore keeps redirect latches in a map guarded by a mutex. A latch
// expires ttl after it was acquired; transitions keep the expiry. Expired
// entries read as idle and are swept on Acquire.
type LatchStore struct {
	mu      sync.Mutex
	latches map[string]latch
	ttl     time.Duration
	now     func() time.Time
}

func NewLatchStore(ttl time.Duration) *LatchStore {
	if ttl <= 0 {
		ttl = DefaultLatchTTL
	}
	return &LatchStore{
		latches: make(map[string]latch),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (l *LatchStore) Acquire(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)
	if _, held := l.latches[key]; held {
		return false, nil
	}
	l.latches[key] = latch{state: domain.RedirectPending, expires: now.Add(l.ttl)}
	return true, nil
}

func (l *LatchStore) Transition(_ context.Context, key string, from, to domain.RedirectState) (bool, error) {
	if !from.CanTransitionTo(to) {
		return false, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, to)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.live(key)
	if !ok || e.state != from {
		return false, nil
	}
	e.state = to
	l.latches[key] = e
	return true, nil
}

func (l *LatchStore) State(_ context.Context, key string) (domain.RedirectState, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e, ok := l.live(key); ok {
		return e.state, nil
	}
	return domain.RedirectIdle, nil
}

func (l *LatchStore) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.latches, key)
	return nil
}

// Len reports how many latches are held, expired ones included until the
// next sweep.
func (l *LatchStore) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.latches)
}

func (l *LatchStore) live(key string) (latch, bool) {
	e, ok := l.latches[key]
	if !ok || !l.now().Before(e.expires) {
		return latch{}, false
	}
	return e, true
}

func (l *LatchStore) sweep(now time.Time) {
	for k, e := range l.latches {
		if !now.Before(e.expires) {
			delete(l.latches, k)
		}
	}
}
