package middleware

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/retailzero/brand-gateway/internal/core/domain"
	"github.com/retailzero/brand-gateway/internal/core/ports"
)

const (
	ContextKeyDecision = "access_decision"
	ContextKeyBrand    = "access_brand"
)

// loadingRetryAfter is the Retry-After value, in seconds, sent while the
// session cannot be resolved.
const loadingRetryAfter = "2"

// BrandResolver picks the brand a request targets. A nil brand means the
// resource is not brand-scoped.
type BrandResolver func(c echo.Context) (*domain.Brand, error)

// NoBrand is the resolver for areas that belong to no brand.
func NoBrand(echo.Context) (*domain.Brand, error) { return nil, nil }

// BrandFromParam resolves the brand from a path parameter, falling back to
// the caller's current brand when the parameter is absent.
func BrandFromParam(param string, registry ports.BrandRegistry, brands ports.BrandContext) BrandResolver {
	return func(c echo.Context) (*domain.Brand, error) {
		if slug := c.Param(param); slug != "" {
			b, ok := registry.ByID(slug)
			if !ok {
				return nil, domain.ErrBrandNotFound
			}
			return &b, nil
		}
		b := brands.Current(c.Request().Context(), c.Request().Host)
		return &b, nil
	}
}

// loadingView is rendered while the identity session is still resolving.
type loadingView struct {
	View string `json:"view"`
}

// RequireAccess runs the access decision for resource and either renders
// the denial or hands the decision to the next handler.
func RequireAccess(access ports.AccessService, resource domain.Resource, resolve BrandResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			st := SessionFromContext(c)
			if st.Loading() {
				c.Response().Header().Set("Retry-After", loadingRetryAfter)
				return c.JSON(http.StatusServiceUnavailable, loadingView{View: domain.ViewLoading})
			}
			if resource != domain.ResourcePublic && !st.Authenticated() {
				return unauthenticated(c)
			}

			brand, err := resolve(c)
			if err != nil {
				return err
			}

			d := access.Decide(st.Principal, brand, resource)
			if !d.Allowed {
				return c.JSON(http.StatusForbidden, d)
			}
			c.Set(ContextKeyDecision, d)
			if brand != nil {
				c.Set(ContextKeyBrand, *brand)
			}
			return next(c)
		}
	}
}

func unauthenticated(c echo.Context) error {
	if c.Request().Method != http.MethodGet {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	location := "/login"
	if next := SanitizeNext(c.Request().URL.RequestURI()); next != "" {
		location += "?returnTo=" + url.QueryEscape(next)
	}
	return c.Redirect(http.StatusSeeOther, location)
}

// DecisionFromContext returns the decision stored by RequireAccess.
func DecisionFromContext(c echo.Context) (domain.AccessDecision, bool) {
	d, ok := c.Get(ContextKeyDecision).(domain.AccessDecision)
	return d, ok
}

// BrandFromContext returns the brand resolved by RequireAccess.
func BrandFromContext(c echo.Context) (domain.Brand, bool) {
	b, ok := c.Get(ContextKeyBrand).(domain.Brand)
	return b, ok
}
