package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/retailzero/brand-gateway/internal/core/domain"
	"github.com/retailzero/brand-gateway/internal/core/ports"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func customerClaims() map[string]any {
	return map[string]any{
		"sub":                          "auth0|c1",
		"org_id":                       bbq1.OrganizationID,
		"https://retailzero.com/roles": []any{"customer"},
	}
}

func newTestSessionService(store *stubSessionStore, auth *stubAuthenticator) *SessionService {
	svc := NewSessionService(store, auth, NewClaimsReader(""), zerolog.Nop())
	svc.now = func() time.Time { return fixedNow }
	svc.newID = func() string { return "as-new" }
	return svc
}

func TestSessionService_Resolve_Anonymous(t *testing.T) {
	svc := newTestSessionService(&stubSessionStore{}, &stubAuthenticator{})

	if st := svc.Resolve(context.Background()); st.Status != domain.SessionAnonymous {
		t.Fatalf("expected anonymous, got %s", st.Status)
	}
}

func TestSessionService_Resolve_ValidToken(t *testing.T) {
	store := &stubSessionStore{session: &ports.StoredSession{
		AuthSessionID: "as-1",
		IDToken:       "id-token",
		Expiry:        fixedNow.Add(time.Hour),
		Claims:        customerClaims(),
	}}
	auth := &stubAuthenticator{}
	svc := newTestSessionService(store, auth)

	st := svc.Resolve(context.Background())
	if !st.Authenticated() {
		t.Fatalf("expected authenticated, got %s", st.Status)
	}
	if st.AuthSessionID != "as-1" || st.IDToken != "id-token" {
		t.Fatalf("unexpected session state: %+v", st)
	}
	if st.Principal.SubjectID != "auth0|c1" || !st.Principal.Roles.Has(domain.RoleCustomer) {
		t.Fatalf("unexpected principal: %+v", st.Principal)
	}
	if auth.refreshs != 0 {
		t.Fatalf("valid token must not be refreshed")
	}
}

func TestSessionService_Resolve_ExpiredWithoutRefreshToken(t *testing.T) {
	store := &stubSessionStore{session: &ports.StoredSession{
		AuthSessionID: "as-1",
		Expiry:        fixedNow.Add(-time.Minute),
		Claims:        customerClaims(),
	}}
	svc := newTestSessionService(store, &stubAuthenticator{})

	if st := svc.Resolve(context.Background()); st.Status != domain.SessionAnonymous {
		t.Fatalf("expected anonymous, got %s", st.Status)
	}
	if store.destroys != 1 {
		t.Fatalf("expected session to be destroyed")
	}
}

func TestSessionService_Resolve_RefreshRejected(t *testing.T) {
	store := &stubSessionStore{session: &ports.StoredSession{
		AuthSessionID: "as-1",
		RefreshToken:  "rt-1",
		Expiry:        fixedNow.Add(10 * time.Second),
	}}
	auth := &stubAuthenticator{refreshFn: func(string) (ports.TokenSet, error) {
		return ports.TokenSet{}, fmt.Errorf("refresh: %w", domain.ErrUnauthenticated)
	}}
	svc := newTestSessionService(store, auth)

	if st := svc.Resolve(context.Background()); st.Status != domain.SessionAnonymous {
		t.Fatalf("expected anonymous, got %s", st.Status)
	}
	if store.destroys != 1 {
		t.Fatalf("expected session to be destroyed")
	}
}

func TestSessionService_Resolve_RefreshUnreachable(t *testing.T) {
	store := &stubSessionStore{session: &ports.StoredSession{
		AuthSessionID: "as-1",
		RefreshToken:  "rt-1",
		Expiry:        fixedNow.Add(-time.Hour),
		Claims:        customerClaims(),
	}}
	auth := &stubAuthenticator{refreshFn: func(string) (ports.TokenSet, error) {
		return ports.TokenSet{}, errors.New("dial tcp: connection refused")
	}}
	svc := newTestSessionService(store, auth)

	st := svc.Resolve(context.Background())
	if !st.Loading() {
		t.Fatalf("expected loading, got %s", st.Status)
	}
	if !errors.Is(st.Err, domain.ErrSessionUnavailable) {
		t.Fatalf("expected ErrSessionUnavailable, got %v", st.Err)
	}
	if st.AuthSessionID != "as-1" {
		t.Fatalf("loading state must keep the auth session id")
	}
	if store.destroys != 0 || store.session == nil {
		t.Fatalf("transient failure must keep the session")
	}
}

func TestSessionService_Resolve_RefreshKeepsRefreshToken(t *testing.T) {
	store := &stubSessionStore{session: &ports.StoredSession{
		AuthSessionID: "as-1",
		IDToken:       "old",
		RefreshToken:  "rt-1",
		Expiry:        fixedNow.Add(-time.Minute),
		Claims:        customerClaims(),
	}}
	refreshed := customerClaims()
	refreshed["https://retailzero.com/roles"] = []any{"customer", "employee"}
	auth := &stubAuthenticator{refreshFn: func(rt string) (ports.TokenSet, error) {
		if rt != "rt-1" {
			t.Fatalf("unexpected refresh token %q", rt)
		}
		return ports.TokenSet{IDToken: "new", Expiry: fixedNow.Add(time.Hour), Claims: refreshed}, nil
	}}
	svc := newTestSessionService(store, auth)

	st := svc.Resolve(context.Background())
	if !st.Authenticated() || !st.Principal.Roles.Has(domain.RoleEmployee) {
		t.Fatalf("expected refreshed principal, got %+v", st)
	}
	if store.session.IDToken != "new" || store.session.RefreshToken != "rt-1" {
		t.Fatalf("unexpected stored tokens: %+v", store.session)
	}
	if store.session.AuthSessionID != "as-1" {
		t.Fatalf("refresh must not start a new auth session")
	}
}

func TestSessionService_BeginLogin(t *testing.T) {
	store := &stubSessionStore{}
	auth := &stubAuthenticator{}
	svc := newTestSessionService(store, auth)

	url, err := svc.BeginLogin(context.Background(), ports.LoginOptions{OrganizationID: bbq1.OrganizationID}, "/brand/bbq1")
	if err != nil {
		t.Fatalf("BeginLogin returned error: %v", err)
	}
	if store.state == "" || !strings.HasSuffix(url, "state="+store.state) {
		t.Fatalf("state %q not carried in %q", store.state, url)
	}
	if store.returnTo != "/brand/bbq1" {
		t.Fatalf("unexpected returnTo %q", store.returnTo)
	}
	if auth.lastOpts.OrganizationID != bbq1.OrganizationID {
		t.Fatalf("login options not passed through")
	}

	first := store.state
	if _, err := svc.BeginLogin(context.Background(), ports.LoginOptions{}, "/"); err != nil {
		t.Fatalf("BeginLogin returned error: %v", err)
	}
	if store.state == first {
		t.Fatalf("every login must get a fresh state")
	}
}

func TestSessionService_CompleteLogin(t *testing.T) {
	store := &stubSessionStore{state: "st-1", returnTo: "/brands"}
	auth := &stubAuthenticator{exchangeFn: func(code string) (ports.TokenSet, error) {
		return ports.TokenSet{
			IDToken:      "id-" + code,
			RefreshToken: "rt",
			Expiry:       fixedNow.Add(time.Hour),
			Claims:       customerClaims(),
		}, nil
	}}
	svc := newTestSessionService(store, auth)

	returnTo, st, err := svc.CompleteLogin(context.Background(), "st-1", "code-1")
	if err != nil {
		t.Fatalf("CompleteLogin returned error: %v", err)
	}
	if returnTo != "/brands" {
		t.Fatalf("unexpected returnTo %q", returnTo)
	}
	if st.AuthSessionID != "as-new" || !st.Authenticated() {
		t.Fatalf("unexpected state: %+v", st)
	}
	if store.renewed != 1 {
		t.Fatalf("session token must be renewed on login")
	}
	if store.session == nil || store.session.IDToken != "id-code-1" || store.session.AuthSessionID != "as-new" {
		t.Fatalf("unexpected stored session: %+v", store.session)
	}
}

func TestSessionService_CompleteLogin_StateMismatch(t *testing.T) {
	store := &stubSessionStore{state: "st-1", returnTo: "/"}
	auth := &stubAuthenticator{exchangeFn: func(string) (ports.TokenSet, error) {
		t.Fatalf("code must not be exchanged")
		return ports.TokenSet{}, nil
	}}
	svc := newTestSessionService(store, auth)

	if _, _, err := svc.CompleteLogin(context.Background(), "forged", "code"); !errors.Is(err, domain.ErrInvalidLoginState) {
		t.Fatalf("expected ErrInvalidLoginState, got %v", err)
	}
	// The state is single-use.
	if _, _, err := svc.CompleteLogin(context.Background(), "st-1", "code"); !errors.Is(err, domain.ErrInvalidLoginState) {
		t.Fatalf("expected ErrInvalidLoginState on replay, got %v", err)
	}
}

func TestSessionService_CompleteLogin_ExchangeFails(t *testing.T) {
	store := &stubSessionStore{state: "st-1"}
	auth := &stubAuthenticator{exchangeFn: func(string) (ports.TokenSet, error) {
		return ports.TokenSet{}, fmt.Errorf("%w: invalid_grant", domain.ErrTokenExchange)
	}}
	svc := newTestSessionService(store, auth)

	if _, _, err := svc.CompleteLogin(context.Background(), "st-1", "bad"); !errors.Is(err, domain.ErrTokenExchange) {
		t.Fatalf("expected ErrTokenExchange, got %v", err)
	}
	if store.session != nil {
		t.Fatalf("nothing must be stored on a failed exchange")
	}
}

func TestSessionService_Logout(t *testing.T) {
	store := &stubSessionStore{session: &ports.StoredSession{AuthSessionID: "as-7"}}
	svc := newTestSessionService(store, &stubAuthenticator{})

	id, err := svc.Logout(context.Background())
	if err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if id != "as-7" || store.session != nil {
		t.Fatalf("expected as-7 and a destroyed session, got %q", id)
	}
	if got := svc.LogoutURL("http://localhost/"); got != "https://idp.test/v2/logout?returnTo=http://localhost/" {
		t.Fatalf("unexpected logout url %q", got)
	}
}
