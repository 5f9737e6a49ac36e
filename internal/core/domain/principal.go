package domain

import (
	"errors"
	"sort"
)

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
	RoleCustomer = "customer"
)

var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidLoginState  = errors.New("invalid or expired login state")
	ErrTokenExchange      = errors.New("token exchange failed")
	ErrSessionUnavailable = errors.New("session unavailable")
)

// RoleSet is the set of role names carried by a principal. Role names the
// application does not know about are kept as-is.
type RoleSet map[string]struct{}

// NewRoleSet builds a RoleSet, dropping blank entries.
func NewRoleSet(roles ...string) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		if r == "" {
			continue
		}
		set[r] = struct{}{}
	}
	return set
}

func (s RoleSet) Has(role string) bool {
	_, ok := s[role]
	return ok
}

func (s RoleSet) Empty() bool { return len(s) == 0 }

// Slice returns the roles in lexical order.
func (s RoleSet) Slice() []string {
	out := make([]string, 0, len(s))
	for r := range s {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// NormalizedClaims is the single shape callers read identity claims through.
type NormalizedClaims struct {
	Roles          RoleSet
	OrganizationID string
}

// Principal is the authenticated user as exposed by the session.
// An empty OrganizationID means the user belongs to no organization.
type Principal struct {
	SubjectID        string  `json:"sub"`
	Email            string  `json:"email,omitempty"`
	DisplayName      string  `json:"name,omitempty"`
	OrganizationID   string  `json:"org_id,omitempty"`
	OrganizationName string  `json:"org_name,omitempty"`
	Roles            RoleSet `json:"-"`
	EmailVerified    bool    `json:"email_verified"`
}

// HasGlobalAccess reports whether the principal may act on every brand
// regardless of organization membership.
func (p Principal) HasGlobalAccess() bool {
	return p.Roles.Has(RoleAdmin) || p.Roles.Has(RoleEmployee)
}

// SessionStatus is the resolution state of the identity session.
type SessionStatus string

const (
	SessionLoading       SessionStatus = "loading"
	SessionAuthenticated SessionStatus = "authenticated"
	SessionAnonymous     SessionStatus = "anonymous"
)

// SessionState is what the HTTP layer knows about the caller for one request.
type SessionState struct {
	Status SessionStatus
	// AuthSessionID identifies one authenticated session; it changes on every
	// login and keys the redirect latch.
	AuthSessionID string
	Principal     Principal
	Claims        map[string]any
	IDToken       string
	// Err carries the non-fatal cause of a loading state.
	Err error
}

func (s SessionState) Authenticated() bool { return s.Status == SessionAuthenticated }

func (s SessionState) Loading() bool { return s.Status == SessionLoading }
