package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/retailzero/brand-gateway/internal/api/middleware"
	"github.com/retailzero/brand-gateway/internal/core/domain"
)

func TestBrandHandler_List(t *testing.T) {
	h := NewBrandHandler(stubRegistry{}, &stubBrandContext{current: bbq1})
	c, rec := newRequestContext(newEcho(), http.MethodGet, "/brands", "")

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp pageView
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.View != domain.ViewBrandSelection {
		t.Fatalf("unexpected view %q", resp.View)
	}
	if len(resp.Brands) != 2 || resp.Brand == nil || resp.Brand.ID != "bbq1" {
		t.Fatalf("unexpected brands payload: %+v", resp)
	}
	if resp.Authenticated || resp.Principal != nil {
		t.Fatalf("anonymous caller must not get a principal")
	}
}

func TestBrandHandler_Switch(t *testing.T) {
	brands := &stubBrandContext{current: autoz}
	h := NewBrandHandler(stubRegistry{}, brands)
	c, rec := newRequestContext(newEcho(), http.MethodPost, "/brand/switch", `{"brand":"bbq1"}`)

	if err := h.Switch(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if brands.current.ID != "bbq1" {
		t.Fatalf("brand was not switched")
	}
}

func TestBrandHandler_Switch_MissingBrand(t *testing.T) {
	h := NewBrandHandler(stubRegistry{}, &stubBrandContext{})
	c, rec := newRequestContext(newEcho(), http.MethodPost, "/brand/switch", `{}`)

	if err := h.Switch(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["error"] != "brand is required" {
		t.Fatalf("unexpected error message %q", resp["error"])
	}
}

func TestBrandHandler_Switch_UnknownBrand(t *testing.T) {
	h := NewBrandHandler(stubRegistry{}, &stubBrandContext{})
	c, _ := newRequestContext(newEcho(), http.MethodPost, "/brand/switch", `{"brand":"nope"}`)

	if err := h.Switch(c); !errors.Is(err, domain.ErrBrandNotFound) {
		t.Fatalf("expected ErrBrandNotFound, got %v", err)
	}
}

func TestPortalHandler_Area(t *testing.T) {
	h := NewPortalHandler(&stubBrandContext{current: autoz})
	c, rec := newRequestContext(newEcho(), http.MethodGet, "/brand/bbq1", "")
	c.Set(middleware.ContextKeySession, domain.SessionState{
		Status:    domain.SessionAuthenticated,
		Principal: domain.Principal{SubjectID: "auth0|e", Roles: domain.NewRoleSet(domain.RoleEmployee)},
	})
	c.Set(middleware.ContextKeyDecision, domain.Allow(domain.ViewStaffBrandView))
	c.Set(middleware.ContextKeyBrand, bbq1)

	if err := h.Area(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp pageView
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.View != domain.ViewStaffBrandView || resp.Brand == nil || resp.Brand.ID != "bbq1" {
		t.Fatalf("unexpected page: %+v", resp)
	}
	if resp.Principal == nil || len(resp.Principal.Roles) != 1 || resp.Principal.Roles[0] != "employee" {
		t.Fatalf("unexpected principal: %+v", resp.Principal)
	}
}

func TestPortalHandler_Home(t *testing.T) {
	h := NewPortalHandler(&stubBrandContext{current: bbq1})
	c, rec := newRequestContext(newEcho(), http.MethodGet, "/", "")

	if err := h.Home(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp pageView
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.View != domain.ViewPublic || resp.Brand == nil || resp.Brand.ID != "bbq1" {
		t.Fatalf("unexpected page: %+v", resp)
	}
}
