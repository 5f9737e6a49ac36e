package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/retailzero/brand-gateway/internal/api/middleware"
	"github.com/retailzero/brand-gateway/internal/core/domain"
	"github.com/retailzero/brand-gateway/internal/core/ports"
)

// PortalHandler renders the view documents of the access-controlled areas.
// The access decision has already been made by middleware.RequireAccess.
type PortalHandler struct {
	brands ports.BrandContext
}

func NewPortalHandler(brands ports.BrandContext) *PortalHandler {
	return &PortalHandler{brands: brands}
}

// Home renders the landing page of the current brand.
//
// @Summary      Landing page
// @Tags         portal
// @Produce      json
// @Success      200  {object}  pageView
// @Failure      503  {object}  map[string]string
// @Router       / [get]
func (h *PortalHandler) Home(c echo.Context) error {
	b := h.brands.Current(c.Request().Context(), c.Request().Host)
	return c.JSON(http.StatusOK, newPageView(domain.ViewPublic, middleware.SessionFromContext(c), &b))
}

// Area renders the view chosen by the access decision.
//
// @Summary      Access-controlled area
// @Description  Serves /admin, /employee, /brand and /brand/{slug}.
// @Tags         portal
// @Produce      json
// @Param        slug  path      string  false  "Brand slug"
// @Success      200   {object}  pageView
// @Failure      403   {object}  domain.AccessDecision
// @Failure      404   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /brand/{slug} [get]
func (h *PortalHandler) Area(c echo.Context) error {
	st, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	d, ok := middleware.DecisionFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusInternalServerError, "missing access decision")
	}

	var brand *domain.Brand
	if b, ok := middleware.BrandFromContext(c); ok {
		brand = &b
	}
	return c.JSON(http.StatusOK, newPageView(d.View, st, brand))
}
