package ports

import (
	"context"
	"time"
)

// StoredSession is the token material kept server-side for one login.
type StoredSession struct {
	AuthSessionID string
	IDToken       string
	RefreshToken  string
	Expiry        time.Time
	Claims        map[string]any
}

// SessionStore persists identity state in the caller's session. The
// session itself travels in ctx.
type SessionStore interface {
	PutLoginState(ctx context.Context, state, returnTo string)
	// PopLoginState returns and clears the pending login state.
	PopLoginState(ctx context.Context) (state, returnTo string)

	// Renew rotates the session token, keeping its data.
	Renew(ctx context.Context) error
	Save(ctx context.Context, s StoredSession) error
	Load(ctx context.Context) (StoredSession, bool)
	Destroy(ctx context.Context) error
}

// BrandSelectionStore keeps the brand the caller is browsing.
type BrandSelectionStore interface {
	SelectedBrand(ctx context.Context) string
	SelectBrand(ctx context.Context, slug string)
}
