package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/retailzero/brand-gateway/internal/api/middleware"
	"github.com/retailzero/brand-gateway/internal/core/domain"
	"github.com/retailzero/brand-gateway/internal/core/ports"
)

const defaultReturnTo = "/"

type AuthHandler struct {
	sessions ports.SessionService
	router   ports.RedirectRouter
	registry ports.BrandRegistry
	brands   ports.BrandContext
	baseURL  string
	log      zerolog.Logger
}

func NewAuthHandler(
	sessions ports.SessionService,
	router ports.RedirectRouter,
	registry ports.BrandRegistry,
	brands ports.BrandContext,
	baseURL string,
	log zerolog.Logger,
) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		router:   router,
		registry: registry,
		brands:   brands,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		log:      log,
	}
}

type loginQuery struct {
	Brand        string `query:"brand"`
	Organization string `query:"organization"`
	Prompt       string `query:"prompt" validate:"omitempty,oneof=none login consent select_account"`
	ScreenHint   string `query:"screen_hint" validate:"omitempty,oneof=login signup"`
	ReturnTo     string `query:"returnTo"`
}

// Login starts the hosted login.
//
// @Summary      Start login
// @Description  Redirects to the identity provider. When brand is given the login is scoped to the brand's organization.
// @Tags         auth
// @Param        brand         query  string  false  "Brand slug"
// @Param        organization  query  string  false  "Organization id, overrides brand"
// @Param        prompt        query  string  false  "Prompt"
// @Param        screen_hint   query  string  false  "login or signup"
// @Param        returnTo      query  string  false  "Path to return to after login"
// @Success      302
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /login [get]
func (h *AuthHandler) Login(c echo.Context) error {
	var q loginQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid query"})
	}
	if err := c.Validate(&q); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return h.begin(c, q)
}

// Signup starts the hosted login on the sign-up screen.
//
// @Summary      Start sign-up
// @Tags         auth
// @Param        brand     query  string  false  "Brand slug"
// @Param        returnTo  query  string  false  "Path to return to after login"
// @Success      302
// @Router       /signup [get]
func (h *AuthHandler) Signup(c echo.Context) error {
	return h.begin(c, loginQuery{
		Brand:      c.QueryParam("brand"),
		ScreenHint: "signup",
		ReturnTo:   c.QueryParam("returnTo"),
	})
}

// EmployeeLogin starts a forced login in the central staff organization.
//
// @Summary      Employee login
// @Tags         auth
// @Success      302
// @Router       /employee-login [get]
func (h *AuthHandler) EmployeeLogin(c echo.Context) error {
	return h.begin(c, loginQuery{
		Organization: h.registry.Central().OrganizationID,
		Prompt:       "login",
		ReturnTo:     c.QueryParam("returnTo"),
	})
}

func (h *AuthHandler) begin(c echo.Context, q loginQuery) error {
	ctx := c.Request().Context()

	org := q.Organization
	if q.Brand != "" {
		b, err := h.brands.Switch(ctx, q.Brand)
		if err != nil {
			return err
		}
		if org == "" {
			org = b.OrganizationID
		}
	}

	returnTo := middleware.SanitizeNext(q.ReturnTo)
	if returnTo == "" {
		returnTo = defaultReturnTo
	}

	url, err := h.sessions.BeginLogin(ctx, ports.LoginOptions{
		OrganizationID: org,
		Prompt:         q.Prompt,
		ScreenHint:     q.ScreenHint,
	}, returnTo)
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, url)
}

// Callback completes the login started by Login.
//
// @Summary      Login callback
// @Tags         auth
// @Param        code   query  string  true  "Authorization code"
// @Param        state  query  string  true  "State"
// @Success      303
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /callback [get]
func (h *AuthHandler) Callback(c echo.Context) error {
	if e := c.QueryParam("error"); e != "" {
		msg := c.QueryParam("error_description")
		if msg == "" {
			msg = e
		}
		h.log.Info().Str("error", e).Str("description", msg).Msg("login rejected by identity provider")
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": msg})
	}

	ctx := c.Request().Context()
	returnTo, st, err := h.sessions.CompleteLogin(ctx, c.QueryParam("state"), c.QueryParam("code"))
	if err != nil {
		return err
	}
	if err := h.router.Reset(ctx, st.AuthSessionID); err != nil {
		h.log.Warn().Err(err).Msg("failed to reset redirect latch")
	}
	if returnTo == "" {
		returnTo = defaultReturnTo
	}
	return c.Redirect(http.StatusSeeOther, returnTo)
}

// Logout ends the local and hosted sessions.
//
// @Summary      Logout
// @Tags         auth
// @Param        returnTo  query  string  false  "Path to return to after logout"
// @Success      302
// @Router       /logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	authSessionID, err := h.sessions.Logout(ctx)
	if cancelErr := h.router.Cancel(ctx, authSessionID); cancelErr != nil {
		h.log.Warn().Err(cancelErr).Msg("failed to cancel pending redirect")
	}
	if err != nil && !errors.Is(err, domain.ErrUnauthenticated) {
		return err
	}

	returnTo := middleware.SanitizeNext(c.QueryParam("returnTo"))
	if returnTo == "" {
		returnTo = defaultReturnTo
	}
	return c.Redirect(http.StatusFound, h.sessions.LogoutURL(h.baseURL+returnTo))
}
