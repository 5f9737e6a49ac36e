package ports

import (
	"context"

	"github.com/retailzero/brand-gateway/internal/core/domain"
)

type SessionService interface {
	BeginLogin(ctx context.Context, opts LoginOptions, returnTo string) (string, error)
	CompleteLogin(ctx context.Context, state, code string) (returnTo string, st domain.SessionState, err error)
	Resolve(ctx context.Context) domain.SessionState
	Logout(ctx context.Context) (authSessionID string, err error)
	LogoutURL(returnTo string) string
}

type AccessService interface {
	Decide(p domain.Principal, brand *domain.Brand, resource domain.Resource) domain.AccessDecision
}

type RedirectRouter interface {
	Route(ctx context.Context, in domain.RouteInput) (domain.RedirectTarget, error)
	Cancel(ctx context.Context, authSessionID string) error
	Reset(ctx context.Context, authSessionID string) error
}

type BrandContext interface {
	Current(ctx context.Context, host string) domain.Brand
	Switch(ctx context.Context, slug string) (domain.Brand, error)
}
