package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/retailzero/brand-gateway/internal/api/middleware"
	"github.com/retailzero/brand-gateway/internal/core/domain"
	"github.com/retailzero/brand-gateway/internal/core/ports"
)

type BrandHandler struct {
	registry ports.BrandRegistry
	brands   ports.BrandContext
}

func NewBrandHandler(registry ports.BrandRegistry, brands ports.BrandContext) *BrandHandler {
	return &BrandHandler{registry: registry, brands: brands}
}

type switchBrandRequest struct {
	Brand string `json:"brand" validate:"required"`
}

// List renders the brand selector.
//
// @Summary      List brands
// @Tags         brands
// @Produce      json
// @Success      200  {object}  pageView
// @Router       /brands [get]
func (h *BrandHandler) List(c echo.Context) error {
	current := h.brands.Current(c.Request().Context(), c.Request().Host)
	v := newPageView(domain.ViewBrandSelection, middleware.SessionFromContext(c), &current)
	v.Brands = h.registry.All()
	return c.JSON(http.StatusOK, v)
}

// Switch changes the caller's current brand.
//
// @Summary      Switch brand
// @Tags         brands
// @Accept       json
// @Produce      json
// @Param        body  body      switchBrandRequest  true  "Brand to switch to"
// @Success      200   {object}  domain.Brand
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /brand/switch [post]
func (h *BrandHandler) Switch(c echo.Context) error {
	var req switchBrandRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	b, err := h.brands.Switch(c.Request().Context(), req.Brand)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}
