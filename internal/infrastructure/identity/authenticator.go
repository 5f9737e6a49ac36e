// Package identity connects the gateway to the hosted identity provider:
// the OIDC relying-party flow and the server-side session that carries
// its tokens.
package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/retailzero/brand-gateway/internal/core/domain"
	"github.com/retailzero/brand-gateway/internal/core/ports"
)

// Config captures the relying-party settings of the application.
type Config struct {
	Domain       string
	ClientID     string
	ClientSecret string
	CallbackURL  string
	Audience     string
}

func (c Config) issuer() string {
	return "https://" + strings.TrimSuffix(c.Domain, "/") + "/"
}

// Authenticator implements ports.Authenticator with go-oidc and oauth2.
type Authenticator struct {
	oauth    oauth2.Config
	verifier *oidc.IDTokenVerifier
	cfg      Config
}

// NewAuthenticator discovers the provider metadata and builds the
// authenticator. It fails when the provider cannot be reached.
func NewAuthenticator(ctx context.Context, cfg Config) (*Authenticator, error) {
	provider, err := oidc.NewProvider(ctx, cfg.issuer())
	if err != nil {
		return nil, fmt.Errorf("oidc discovery %s: %w", cfg.Domain, err)
	}
	return newAuthenticator(cfg, provider.Endpoint(), provider.Verifier(&oidc.Config{ClientID: cfg.ClientID})), nil
}

func newAuthenticator(cfg Config, endpoint oauth2.Endpoint, verifier *oidc.IDTokenVerifier) *Authenticator {
	return &Authenticator{
		oauth: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Endpoint:     endpoint,
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email", oidc.ScopeOfflineAccess},
		},
		verifier: verifier,
		cfg:      cfg,
	}
}

// AuthCodeURL returns the hosted login URL carrying state and the optional
// organization, prompt and screen_hint parameters.
func (a *Authenticator) AuthCodeURL(state string, opts ports.LoginOptions) string {
	var params []oauth2.AuthCodeOption
	if a.cfg.Audience != "" {
		params = append(params, oauth2.SetAuthURLParam("audience", a.cfg.Audience))
	}
	if opts.OrganizationID != "" {
		params = append(params, oauth2.SetAuthURLParam("organization", opts.OrganizationID))
	}
	if opts.Prompt != "" {
		params = append(params, oauth2.SetAuthURLParam("prompt", opts.Prompt))
	}
	if opts.ScreenHint != "" {
		params = append(params, oauth2.SetAuthURLParam("screen_hint", opts.ScreenHint))
	}
	return a.oauth.AuthCodeURL(state, params...)
}

func (a *Authenticator) Exchange(ctx context.Context, code string) (ports.TokenSet, error) {
	token, err := a.oauth.Exchange(ctx, code)
	if err != nil {
		return ports.TokenSet{}, fmt.Errorf("%w: %v", domain.ErrTokenExchange, err)
	}
	ts, err := a.verify(ctx, token)
	if err != nil {
		return ports.TokenSet{}, fmt.Errorf("%w: %v", domain.ErrTokenExchange, err)
	}
	return ts, nil
}

// Refresh redeems a refresh token. A rejection by the provider is reported
// as domain.ErrUnauthenticated; anything else is a transient failure.
func (a *Authenticator) Refresh(ctx context.Context, refreshToken string) (ports.TokenSet, error) {
	src := a.oauth.TokenSource(ctx, &oauth2.Token{
		RefreshToken: refreshToken,
		Expiry:       time.Now().Add(-time.Minute),
	})
	token, err := src.Token()
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && re.Response != nil && re.Response.StatusCode < http.StatusInternalServerError {
			return ports.TokenSet{}, fmt.Errorf("%w: %s", domain.ErrUnauthenticated, re.ErrorCode)
		}
		return ports.TokenSet{}, fmt.Errorf("refresh token: %w", err)
	}

	ts, err := a.verify(ctx, token)
	if err != nil {
		return ports.TokenSet{}, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}
	if ts.RefreshToken == "" {
		ts.RefreshToken = refreshToken
	}
	return ts, nil
}

// LogoutURL ends the hosted session and sends the browser to returnTo.
func (a *Authenticator) LogoutURL(returnTo string) string {
	q := url.Values{}
	q.Set("client_id", a.cfg.ClientID)
	if returnTo != "" {
		q.Set("returnTo", returnTo)
	}
	return a.cfg.issuer() + "v2/logout?" + q.Encode()
}

func (a *Authenticator) verify(ctx context.Context, token *oauth2.Token) (ports.TokenSet, error) {
	raw, ok := token.Extra("id_token").(string)
	if !ok || raw == "" {
		return ports.TokenSet{}, errors.New("no id_token in token response")
	}
	idToken, err := a.verifier.Verify(ctx, raw)
	if err != nil {
		return ports.TokenSet{}, fmt.Errorf("verify id_token: %w", err)
	}
	var claims map[string]any
	if err := idToken.Claims(&claims); err != nil {
		return ports.TokenSet{}, fmt.Errorf("decode id_token claims: %w", err)
	}
	return ports.TokenSet{
		IDToken:      raw,
		RefreshToken: token.RefreshToken,
		Expiry:       idToken.Expiry,
		Claims:       claims,
	}, nil
}
