package ports

import (
	"context"
	"time"
)

// LoginOptions are forwarded to the identity provider's hosted login.
type LoginOptions struct {
	OrganizationID string
	Prompt         string
	ScreenHint     string
}

// TokenSet is the verified result of a code exchange or a refresh.
type TokenSet struct {
	IDToken      string
	RefreshToken string
	Expiry       time.Time
	Claims       map[string]any
}

// Authenticator drives the OIDC relying-party flow against the identity provider.
type Authenticator interface {
	AuthCodeURL(state string, opts LoginOptions) string
	Exchange(ctx context.Context, code string) (TokenSet, error)
	Refresh(ctx context.Context, refreshToken string) (TokenSet, error)
	LogoutURL(returnTo string) string
}
