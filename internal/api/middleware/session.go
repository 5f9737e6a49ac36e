package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/retailzero/brand-gateway/internal/core/domain"
	"github.com/retailzero/brand-gateway/internal/core/ports"
)

const ContextKeySession = "session_state"

// Session resolves the caller's identity session once per request and
// stores it in the echo context. It never rejects a request.
func Session(sessions ports.SessionService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			st := sessions.Resolve(c.Request().Context())
			c.Set(ContextKeySession, st)
			return next(c)
		}
	}
}

// SessionFromContext returns the state set by Session, or an anonymous
// state when the middleware did not run.
func SessionFromContext(c echo.Context) domain.SessionState {
	st, ok := c.Get(ContextKeySession).(domain.SessionState)
	if !ok {
		return domain.SessionState{Status: domain.SessionAnonymous}
	}
	return st
}
