package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/retailzero/brand-gateway/internal/api/middleware"
	"github.com/retailzero/brand-gateway/internal/core/domain"
)

// ctxPrincipal returns the authenticated principal of the request. Routes
// behind RequireAccess always have one; the check guards direct mounting.
func ctxPrincipal(c echo.Context) (domain.SessionState, error) {
	st := middleware.SessionFromContext(c)
	if st.Loading() {
		return st, echo.NewHTTPError(http.StatusServiceUnavailable, "session is loading")
	}
	if !st.Authenticated() {
		return st, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return st, nil
}
