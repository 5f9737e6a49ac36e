package domain

import (
	"errors"
	"strings"
)

// RedirectState is the lifecycle state of the post-login redirect latch.
type RedirectState string

const (
	RedirectIdle      RedirectState = "idle"
	RedirectPending   RedirectState = "pending"
	RedirectCompleted RedirectState = "completed"
	RedirectCancelled RedirectState = "cancelled"
)

// validRedirectTransitions defines the latch state machine. Going back to
// idle is only possible through a reset, which deletes the latch.
var validRedirectTransitions = map[RedirectState][]RedirectState{
	RedirectIdle:    {RedirectPending},
	RedirectPending: {RedirectCompleted, RedirectCancelled},
}

var ErrInvalidTransition = errors.New("invalid redirect state transition")

// CanTransitionTo reports whether a transition from the current state to next is valid.
func (s RedirectState) CanTransitionTo(next RedirectState) bool {
	for _, allowed := range validRedirectTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ParseRedirectState maps a stored value back to a state; anything unknown
// reads as idle.
func ParseRedirectState(s string) RedirectState {
	switch RedirectState(s) {
	case RedirectPending, RedirectCompleted, RedirectCancelled:
		return RedirectState(s)
	default:
		return RedirectIdle
	}
}

// LandingRoutes are the paths the redirect router may send a principal to.
type LandingRoutes struct {
	EntryPaths     []string
	AdminPath      string
	EmployeePath   string
	BrandPath      string
	BrandSelection string
}

func DefaultLandingRoutes() LandingRoutes {
	return LandingRoutes{
		EntryPaths:     []string{"/"},
		AdminPath:      "/admin",
		EmployeePath:   "/employee",
		BrandPath:      "/brand",
		BrandSelection: "/brands",
	}
}

// IsEntry reports whether path is one of the locations that trigger the
// post-login redirect.
func (r LandingRoutes) IsEntry(path string) bool {
	for _, p := range r.EntryPaths {
		if p == path {
			return true
		}
	}
	return false
}

// BrandLanding is the customer landing path scoped to one brand.
func (r LandingRoutes) BrandLanding(b Brand) string {
	return strings.TrimSuffix(r.BrandPath, "/") + "/" + b.ID
}

// RedirectKind labels why a target was chosen.
type RedirectKind string

const (
	RedirectToAdmin          RedirectKind = "admin"
	RedirectToEmployee       RedirectKind = "employee"
	RedirectToBrand          RedirectKind = "brand"
	RedirectToBrandSelection RedirectKind = "brand_selection"
)

// RedirectTarget is the outcome of one router invocation.
type RedirectTarget struct {
	Path     string
	Kind     RedirectKind
	Brand    *Brand
	Navigate bool
	State    RedirectState
}

// RouteInput is what the redirect router needs to know about one request.
type RouteInput struct {
	Session     SessionState
	CurrentPath string
}
