package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/retailzero/brand-gateway/internal/api/metrics"
	"github.com/retailzero/brand-gateway/internal/core/domain"
	"github.com/retailzero/brand-gateway/internal/core/ports"
)

// PostLoginRedirect sends a freshly authenticated caller to its landing
// page the first time it reaches an entry path. Latch failures are logged
// and the request continues without a redirect.
func PostLoginRedirect(router ports.RedirectRouter, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}
			st := SessionFromContext(c)
			if !st.Authenticated() {
				return next(c)
			}

			target, err := router.Route(c.Request().Context(), domain.RouteInput{
				Session:     st,
				CurrentPath: c.Request().URL.Path,
			})
			if err != nil {
				metrics.RedirectLatchErrorsTotal.Inc()
				log.Warn().Err(err).Str("path", c.Request().URL.Path).Msg("post-login redirect skipped")
				return next(c)
			}
			if target.Navigate {
				return c.Redirect(http.StatusFound, target.Path)
			}
			return next(c)
		}
	}
}
