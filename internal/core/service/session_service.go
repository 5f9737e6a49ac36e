package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/retailzero/brand-gateway/internal/api/metrics"
	"github.com/retailzero/brand-gateway/internal/core/domain"
	"github.com/retailzero/brand-gateway/internal/core/ports"
)

// expirySkew refreshes ID tokens slightly before they actually expire.
const expirySkew = 30 * time.Second

// SessionService owns the identity session: starting and completing a
// login, resolving the caller on every request and logging out.
type SessionService struct {
	store  ports.SessionStore
	auth   ports.Authenticator
	claims *ClaimsReader
	log    zerolog.Logger

	now   func() time.Time
	newID func() string
}

func NewSessionService(store ports.SessionStore, auth ports.Authenticator, claims *ClaimsReader, log zerolog.Logger) *SessionService {
	return &SessionService{
		store:  store,
		auth:   auth,
		claims: claims,
		log:    log,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// BeginLogin records a fresh state value and returns the identity provider
// URL the caller must be sent to.
func (s *SessionService) BeginLogin(ctx context.Context, opts ports.LoginOptions, returnTo string) (string, error) {
	state, err := newState()
	if err != nil {
		return "", fmt.Errorf("begin login: %w", err)
	}
	s.store.PutLoginState(ctx, state, returnTo)
	return s.auth.AuthCodeURL(state, opts), nil
}

// CompleteLogin validates the callback state, exchanges the code and stores
// the new session. It returns the path saved when the login started.
func (s *SessionService) CompleteLogin(ctx context.Context, state, code string) (string, domain.SessionState, error) {
	expected, returnTo := s.store.PopLoginState(ctx)
	if expected == "" || state == "" || state != expected {
		return "", domain.SessionState{}, domain.ErrInvalidLoginState
	}

	tokens, err := s.auth.Exchange(ctx, code)
	if err != nil {
		return "", domain.SessionState{}, fmt.Errorf("complete login: %w", err)
	}

	// A new login always starts a new authentication session, so any latch
	// left by a previous one no longer applies.
	if err := s.store.Renew(ctx); err != nil {
		return "", domain.SessionState{}, fmt.Errorf("complete login: renew session: %w", err)
	}
	stored := ports.StoredSession{
		AuthSessionID: s.newID(),
		IDToken:       tokens.IDToken,
		RefreshToken:  tokens.RefreshToken,
		Expiry:        tokens.Expiry,
		Claims:        tokens.Claims,
	}
	if err := s.store.Save(ctx, stored); err != nil {
		return "", domain.SessionState{}, fmt.Errorf("complete login: %w", err)
	}

	st := s.authenticated(stored)
	s.log.Info().
		Str("sub", st.Principal.SubjectID).
		Str("org_id", st.Principal.OrganizationID).
		Strs("roles", st.Principal.Roles.Slice()).
		Msg("login completed")
	return returnTo, st, nil
}

// Resolve determines the caller's session state for the current request.
// A failed silent refresh yields a loading state instead of an error.
func (s *SessionService) Resolve(ctx context.Context) domain.SessionState {
	st := s.resolve(ctx)
	metrics.SessionResolutionsTotal.WithLabelValues(string(st.Status)).Inc()
	return st
}

func (s *SessionService) resolve(ctx context.Context) domain.SessionState {
	stored, ok := s.store.Load(ctx)
	if !ok {
		return domain.SessionState{Status: domain.SessionAnonymous}
	}

	if stored.Expiry.IsZero() || s.now().Add(expirySkew).Before(stored.Expiry) {
		return s.authenticated(stored)
	}

	if stored.RefreshToken == "" {
		s.drop(ctx, "id token expired")
		return domain.SessionState{Status: domain.SessionAnonymous}
	}

	start := time.Now()
	tokens, err := s.auth.Refresh(ctx, stored.RefreshToken)
	if err != nil {
		metrics.TokenRefreshDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		if errors.Is(err, domain.ErrUnauthenticated) {
			s.drop(ctx, "refresh rejected")
			return domain.SessionState{Status: domain.SessionAnonymous}
		}
		s.log.Warn().Err(err).Str("auth_session", stored.AuthSessionID).Msg("silent token refresh failed")
		return domain.SessionState{
			Status:        domain.SessionLoading,
			AuthSessionID: stored.AuthSessionID,
			Err:           fmt.Errorf("%w: %v", domain.ErrSessionUnavailable, err),
		}
	}
	metrics.TokenRefreshDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())

	stored.IDToken = tokens.IDToken
	stored.Expiry = tokens.Expiry
	stored.Claims = tokens.Claims
	if tokens.RefreshToken != "" {
		stored.RefreshToken = tokens.RefreshToken
	}
	if err := s.store.Save(ctx, stored); err != nil {
		s.log.Warn().Err(err).Str("auth_session", stored.AuthSessionID).Msg("failed to store refreshed tokens")
	}
	return s.authenticated(stored)
}

// Logout destroys the session and returns the authentication session id it
// belonged to, if any.
func (s *SessionService) Logout(ctx context.Context) (string, error) {
	stored, _ := s.store.Load(ctx)
	if err := s.store.Destroy(ctx); err != nil {
		return stored.AuthSessionID, fmt.Errorf("logout: %w", err)
	}
	return stored.AuthSessionID, nil
}

// LogoutURL is the identity provider URL that ends the hosted session.
func (s *SessionService) LogoutURL(returnTo string) string {
	return s.auth.LogoutURL(returnTo)
}

func (s *SessionService) authenticated(stored ports.StoredSession) domain.SessionState {
	return domain.SessionState{
		Status:        domain.SessionAuthenticated,
		AuthSessionID: stored.AuthSessionID,
		Principal:     s.claims.Principal(stored.Claims),
		Claims:        stored.Claims,
		IDToken:       stored.IDToken,
	}
}

func (s *SessionService) drop(ctx context.Context, why string) {
	if err := s.store.Destroy(ctx); err != nil {
		s.log.Warn().Err(err).Msg("failed to destroy session")
	}
	s.log.Debug().Str("reason", why).Msg("session dropped")
}

func newState() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
