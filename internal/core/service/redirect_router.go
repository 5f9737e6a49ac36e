package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/retailzero/brand-gateway/internal/api/metrics"
	"github.com/retailzero/brand-gateway/internal/core/domain"
	"github.com/retailzero/brand-gateway/internal/core/ports"
)

// BrandSwitcher updates the caller's current brand.
type BrandSwitcher interface {
	Switch(ctx context.Context, slug string) (domain.Brand, error)
}

// RedirectRouter performs the single post-login navigation of an
// authentication session.
type RedirectRouter struct {
	latches  ports.LatchStore
	registry ports.BrandRegistry
	brands   BrandSwitcher
	routes   domain.LandingRoutes
	log      zerolog.Logger
}

func NewRedirectRouter(
	latches ports.LatchStore,
	registry ports.BrandRegistry,
	brands BrandSwitcher,
	routes domain.LandingRoutes,
	log zerolog.Logger,
) *RedirectRouter {
	return &RedirectRouter{
		latches:  latches,
		registry: registry,
		brands:   brands,
		routes:   routes,
		log:      log,
	}
}

// Route decides where a freshly authenticated principal goes. The returned
// target has Navigate set only when the caller must issue a redirect.
func (r *RedirectRouter) Route(ctx context.Context, in domain.RouteInput) (domain.RedirectTarget, error) {
	if !in.Session.Authenticated() || in.Session.AuthSessionID == "" {
		return domain.RedirectTarget{State: domain.RedirectIdle}, nil
	}
	if !r.routes.IsEntry(in.CurrentPath) {
		return domain.RedirectTarget{State: domain.RedirectIdle}, nil
	}

	key := in.Session.AuthSessionID

	// The latch is claimed before anything else happens so that concurrent
	// requests of the same session cannot both navigate.
	acquired, err := r.latches.Acquire(ctx, key)
	if err != nil {
		return domain.RedirectTarget{}, fmt.Errorf("route: acquire latch: %w", err)
	}
	if !acquired {
		state, err := r.latches.State(ctx, key)
		if err != nil {
			return domain.RedirectTarget{}, fmt.Errorf("route: latch state: %w", err)
		}
		return domain.RedirectTarget{State: state}, nil
	}

	target := r.target(in.Session.Principal)
	target.Navigate = in.CurrentPath != target.Path

	ok, err := r.latches.Transition(ctx, key, domain.RedirectPending, domain.RedirectCompleted)
	if err != nil {
		return domain.RedirectTarget{}, fmt.Errorf("route: complete latch: %w", err)
	}
	if !ok {
		// Logged out while the decision was pending.
		r.log.Debug().Str("auth_session", key).Msg("redirect discarded")
		return domain.RedirectTarget{State: domain.RedirectCancelled}, nil
	}

	// Only a final decision may write to the session.
	if target.Brand != nil {
		if _, err := r.brands.Switch(ctx, target.Brand.ID); err != nil {
			r.release(ctx, key)
			return domain.RedirectTarget{}, fmt.Errorf("route: %w", err)
		}
	}
	target.State = domain.RedirectCompleted

	metrics.RedirectsTotal.WithLabelValues(string(target.Kind), strconv.FormatBool(target.Navigate)).Inc()
	r.log.Info().
		Str("sub", in.Session.Principal.SubjectID).
		Str("target", target.Path).
		Bool("navigate", target.Navigate).
		Msg("post-login redirect decided")
	return target, nil
}

// Cancel discards a pending decision of an authentication session and
// resets its latch.
func (r *RedirectRouter) Cancel(ctx context.Context, authSessionID string) error {
	if authSessionID == "" {
		return nil
	}
	if _, err := r.latches.Transition(ctx, authSessionID, domain.RedirectPending, domain.RedirectCancelled); err != nil {
		return fmt.Errorf("cancel redirect: %w", err)
	}
	return r.Reset(ctx, authSessionID)
}

// Reset returns the latch of an authentication session to idle.
func (r *RedirectRouter) Reset(ctx context.Context, authSessionID string) error {
	if authSessionID == "" {
		return nil
	}
	if err := r.latches.Reset(ctx, authSessionID); err != nil {
		return fmt.Errorf("reset redirect latch: %w", err)
	}
	return nil
}

func (r *RedirectRouter) target(p domain.Principal) domain.RedirectTarget {
	switch {
	case p.Roles.Has(domain.RoleAdmin):
		return domain.RedirectTarget{Path: r.routes.AdminPath, Kind: domain.RedirectToAdmin}
	case p.Roles.Has(domain.RoleEmployee):
		return domain.RedirectTarget{Path: r.routes.EmployeePath, Kind: domain.RedirectToEmployee}
	}

	brand, ok := r.registry.ByOrganizationID(p.OrganizationID)
	if !ok {
		return domain.RedirectTarget{Path: r.routes.BrandSelection, Kind: domain.RedirectToBrandSelection}
	}
	return domain.RedirectTarget{
		Path:  r.routes.BrandLanding(brand),
		Kind:  domain.RedirectToBrand,
		Brand: &brand,
	}
}

// release returns a latch to idle after a failed decision so that the next
// request can route again.
func (r *RedirectRouter) release(ctx context.Context, key string) {
	if err := r.latches.Reset(ctx, key); err != nil {
		r.log.Warn().Err(err).Str("auth_session", key).Msg("failed to release redirect latch")
	}
}
