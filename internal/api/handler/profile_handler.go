package handler

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/retailzero/brand-gateway/internal/core/service"
)

// ProfileHandler exposes what the gateway knows about the caller. It is a
// debugging aid; nothing here is used for authorization.
type ProfileHandler struct {
	claims *service.ClaimsReader
	parser *jwt.Parser
}

func NewProfileHandler(claims *service.ClaimsReader) *ProfileHandler {
	return &ProfileHandler{claims: claims, parser: jwt.NewParser()}
}

type normalizedClaimsView struct {
	Roles          []string `json:"roles"`
	OrganizationID string   `json:"org_id,omitempty"`
}

type meResponse struct {
	Principal  *principalView       `json:"principal"`
	Normalized normalizedClaimsView `json:"normalized"`
	Claims     map[string]any       `json:"claims"`
}

type tokenResponse struct {
	Header  map[string]any `json:"header"`
	Payload map[string]any `json:"payload"`
	Raw     string         `json:"raw"`
}

// Me returns the principal and its claims.
//
// @Summary      Current principal
// @Tags         profile
// @Produce      json
// @Success      200  {object}  meResponse
// @Failure      401  {object}  map[string]string
// @Router       /me [get]
func (h *ProfileHandler) Me(c echo.Context) error {
	st, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	n := h.claims.Normalize(st.Claims)
	return c.JSON(http.StatusOK, meResponse{
		Principal:  newPrincipalView(st.Principal),
		Normalized: normalizedClaimsView{Roles: n.Roles.Slice(), OrganizationID: n.OrganizationID},
		Claims:     st.Claims,
	})
}

// Token decodes the stored ID token for display. The signature was checked
// when the token was issued to the session and is not re-checked here.
//
// @Summary      Decoded ID token
// @Tags         profile
// @Produce      json
// @Success      200  {object}  tokenResponse
// @Failure      401  {object}  map[string]string
// @Router       /me/token [get]
func (h *ProfileHandler) Token(c echo.Context) error {
	st, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	if st.IDToken == "" {
		return echo.NewHTTPError(http.StatusNotFound, "no id token in session")
	}

	claims := jwt.MapClaims{}
	tok, _, err := h.parser.ParseUnverified(st.IDToken, claims)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "id token cannot be decoded")
	}
	return c.JSON(http.StatusOK, tokenResponse{
		Header:  tok.Header,
		Payload: claims,
		Raw:     st.IDToken,
	})
}
