package ports

import (
	"context"

	"github.com/retailzero/brand-gateway/internal/core/domain"
)

// LatchStore holds the redirect latch of each authentication session.
type LatchStore interface {
	// Acquire atomically moves an idle latch to pending. It reports false
	// when the latch was already taken.
	Acquire(ctx context.Context, key string) (bool, error)
	// Transition moves the latch from one state to another only if it is
	// currently in from.
	Transition(ctx context.Context, key string, from, to domain.RedirectState) (bool, error)
	State(ctx context.Context, key string) (domain.RedirectState, error)
	Reset(ctx context.Context, key string) error
}
