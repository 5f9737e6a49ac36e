package handler

import "github.com/retailzero/brand-gateway/internal/core/domain"

// principalView is the JSON shape of a principal.
type principalView struct {
	SubjectID        string   `json:"sub"`
	Email            string   `json:"email,omitempty"`
	Name             string   `json:"name,omitempty"`
	OrganizationID   string   `json:"org_id,omitempty"`
	OrganizationName string   `json:"org_name,omitempty"`
	Roles            []string `json:"roles"`
	EmailVerified    bool     `json:"email_verified"`
}

func newPrincipalView(p domain.Principal) *principalView {
	return &principalView{
		SubjectID:        p.SubjectID,
		Email:            p.Email,
		Name:             p.DisplayName,
		OrganizationID:   p.OrganizationID,
		OrganizationName: p.OrganizationName,
		Roles:            p.Roles.Slice(),
		EmailVerified:    p.EmailVerified,
	}
}

// pageView is the document returned for every page-like route.
type pageView struct {
	View          string         `json:"view"`
	Authenticated bool           `json:"authenticated"`
	Brand         *domain.Brand  `json:"brand,omitempty"`
	Principal     *principalView `json:"principal,omitempty"`
	Brands        []domain.Brand `json:"brands,omitempty"`
}

func newPageView(view string, st domain.SessionState, brand *domain.Brand) pageView {
	v := pageView{View: view, Authenticated: st.Authenticated(), Brand: brand}
	if st.Authenticated() {
		v.Principal = newPrincipalView(st.Principal)
	}
	return v
}
