package handler

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/retailzero/brand-gateway/internal/core/domain"
	"github.com/retailzero/brand-gateway/internal/core/ports"
)

var (
	bbq1    = domain.Brand{ID: "bbq1", DisplayName: "BBQ1", OrganizationID: "org_ubS05VW6UFh2xI1W"}
	autoz   = domain.Brand{ID: "autozero", DisplayName: "AutoZero", OrganizationID: "org_hC536v5MhZj2GMtF"}
	central = domain.Organization{Name: "retailzero", DisplayName: "RetailZero", OrganizationID: "org_K6sjZprHVLfXgIzs"}
)

type stubRegistry struct{}

func (stubRegistry) ByID(slug string) (domain.Brand, bool) {
	switch slug {
	case bbq1.ID:
		return bbq1, true
	case autoz.ID:
		return autoz, true
	}
	return domain.Brand{}, false
}

func (r stubRegistry) ByOrganizationID(orgID string) (domain.Brand, bool) {
	for _, b := range r.All() {
		if b.OrganizationID == orgID {
			return b, true
		}
	}
	return domain.Brand{}, false
}

func (r stubRegistry) ByHostname(host string) domain.Brand {
	label, _, _ := strings.Cut(host, ".")
	if b, ok := r.ByID(label); ok {
		return b
	}
	return autoz
}

func (stubRegistry) All() []domain.Brand          { return []domain.Brand{autoz, bbq1} }
func (stubRegistry) Fallback() domain.Brand       { return autoz }
func (stubRegistry) Central() domain.Organization { return central }

type stubBrandContext struct {
	current  domain.Brand
	switched []string
}

func (b *stubBrandContext) Current(context.Context, string) domain.Brand { return b.current }

func (b *stubBrandContext) Switch(_ context.Context, slug string) (domain.Brand, error) {
	brand, ok := stubRegistry{}.ByID(slug)
	if !ok {
		return domain.Brand{}, domain.ErrBrandNotFound
	}
	b.switched = append(b.switched, slug)
	b.current = brand
	return brand, nil
}

type stubSessionService struct {
	beginOpts     ports.LoginOptions
	beginReturnTo string

	completeFn func(state, code string) (string, domain.SessionState, error)

	logoutID      string
	logoutErr     error
	logoutCalled  bool
	logoutURLArgs []string
}

func (s *stubSessionService) BeginLogin(_ context.Context, opts ports.LoginOptions, returnTo string) (string, error) {
	s.beginOpts, s.beginReturnTo = opts, returnTo
	return "https://idp.test/authorize?state=x", nil
}

func (s *stubSessionService) CompleteLogin(_ context.Context, state, code string) (string, domain.SessionState, error) {
	return s.completeFn(state, code)
}

func (s *stubSessionService) Resolve(context.Context) domain.SessionState {
	return domain.SessionState{Status: domain.SessionAnonymous}
}

func (s *stubSessionService) Logout(context.Context) (string, error) {
	s.logoutCalled = true
	return s.logoutID, s.logoutErr
}

func (s *stubSessionService) LogoutURL(returnTo string) string {
	s.logoutURLArgs = append(s.logoutURLArgs, returnTo)
	return "https://idp.test/v2/logout?returnTo=" + returnTo
}

type stubRedirectRouter struct {
	cancelled []string
	reset     []string
}

func (r *stubRedirectRouter) Route(context.Context, domain.RouteInput) (domain.RedirectTarget, error) {
	return domain.RedirectTarget{State: domain.RedirectIdle}, nil
}

func (r *stubRedirectRouter) Cancel(_ context.Context, id string) error {
	r.cancelled = append(r.cancelled, id)
	return nil
}

func (r *stubRedirectRouter) Reset(_ context.Context, id string) error {
	r.reset = append(r.reset, id)
	return nil
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func newRequestContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}
