package service

import (
	"context"
	"errors"
	"strings"

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
	switch strings.ToLower(slug) {
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

type stubSelection struct {
	slug string
}

func (s *stubSelection) SelectedBrand(context.Context) string       { return s.slug }
func (s *stubSelection) SelectBrand(_ context.Context, slug string) { s.slug = slug }

type switcherFunc func(ctx context.Context, slug string) (domain.Brand, error)

func (f switcherFunc) Switch(ctx context.Context, slug string) (domain.Brand, error) {
	return f(ctx, slug)
}

type stubSessionStore struct {
	state, returnTo string

	session  *ports.StoredSession
	renewed  int
	destroys int
}

func (s *stubSessionStore) PutLoginState(_ context.Context, state, returnTo string) {
	s.state, s.returnTo = state, returnTo
}

func (s *stubSessionStore) PopLoginState(context.Context) (string, string) {
	state, returnTo := s.state, s.returnTo
	s.state, s.returnTo = "", ""
	return state, returnTo
}

func (s *stubSessionStore) Renew(context.Context) error {
	s.renewed++
	return nil
}

func (s *stubSessionStore) Save(_ context.Context, stored ports.StoredSession) error {
	s.session = &stored
	return nil
}

func (s *stubSessionStore) Load(context.Context) (ports.StoredSession, bool) {
	if s.session == nil {
		return ports.StoredSession{}, false
	}
	return *s.session, true
}

func (s *stubSessionStore) Destroy(context.Context) error {
	s.destroys++
	s.session = nil
	return nil
}

type stubAuthenticator struct {
	exchangeFn func(code string) (ports.TokenSet, error)
	refreshFn  func(refreshToken string) (ports.TokenSet, error)

	lastOpts ports.LoginOptions
	refreshs int
}

func (a *stubAuthenticator) AuthCodeURL(state string, opts ports.LoginOptions) string {
	a.lastOpts = opts
	return "https://idp.test/authorize?state=" + state
}

func (a *stubAuthenticator) Exchange(_ context.Context, code string) (ports.TokenSet, error) {
	return a.exchangeFn(code)
}

func (a *stubAuthenticator) Refresh(_ context.Context, refreshToken string) (ports.TokenSet, error) {
	a.refreshs++
	return a.refreshFn(refreshToken)
}

func (a *stubAuthenticator) LogoutURL(returnTo string) string {
	return "https://idp.test/v2/logout?returnTo=" + returnTo
}

// stubManagementAPI is an in-memory management tenant. Setting a fail*
// entry makes the call for that name fail with the given error.
type stubManagementAPI struct {
	roles []domain.RoleRef
	orgs  []domain.OrganizationRef
	users map[string]string

	members  map[string][]string
	assigned map[string][]string
	updated  []string

	connections map[string]string
	enabled     map[string][]string
	orgClients  []string

	failCreateUser map[string]error
	failCreateRole map[string]error
	failEnable     map[string]error
	listRolesErr   error
	enableOrgsErr  error
}

func newStubManagementAPI() *stubManagementAPI {
	return &stubManagementAPI{
		users:          make(map[string]string),
		members:        make(map[string][]string),
		assigned:       make(map[string][]string),
		failCreateUser: make(map[string]error),
		failCreateRole: make(map[string]error),
		failEnable:     make(map[string]error),
		connections:    map[string]string{DefaultConnection: "con_db"},
		enabled:        make(map[string][]string),
	}
}

func (m *stubManagementAPI) ListRoles(context.Context) ([]domain.RoleRef, error) {
	if m.listRolesErr != nil {
		return nil, m.listRolesErr
	}
	return append([]domain.RoleRef(nil), m.roles...), nil
}

func (m *stubManagementAPI) CreateRole(_ context.Context, name, description string) (domain.RoleRef, error) {
	if err := m.failCreateRole[name]; err != nil {
		return domain.RoleRef{}, err
	}
	r := domain.RoleRef{ID: "rol_" + name, Name: name, Description: description}
	m.roles = append(m.roles, r)
	return r, nil
}

func (m *stubManagementAPI) UpdateRole(_ context.Context, id, name, description string) error {
	for i, r := range m.roles {
		if r.ID == id {
			m.roles[i].Name, m.roles[i].Description = name, description
			m.updated = append(m.updated, id)
			return nil
		}
	}
	return domain.ErrRoleNotFound
}

func (m *stubManagementAPI) ListOrganizations(context.Context) ([]domain.OrganizationRef, error) {
	return append([]domain.OrganizationRef(nil), m.orgs...), nil
}

func (m *stubManagementAPI) CreateOrganization(_ context.Context, spec domain.OrganizationSpec) (domain.OrganizationRef, error) {
	o := domain.OrganizationRef{ID: "org_" + spec.Name, Name: spec.Name, DisplayName: spec.DisplayName}
	m.orgs = append(m.orgs, o)
	return o, nil
}

func (m *stubManagementAPI) AddOrganizationMembers(_ context.Context, orgID string, userIDs []string) error {
	m.members[orgID] = append(m.members[orgID], userIDs...)
	return nil
}

func (m *stubManagementAPI) CreateUser(_ context.Context, spec domain.UserSpec, _ string) (string, error) {
	if err := m.failCreateUser[spec.Email]; err != nil {
		return "", err
	}
	if _, ok := m.users[spec.Email]; ok {
		return "", domain.ErrAlreadyExists
	}
	id := "auth0|" + spec.Email
	m.users[spec.Email] = id
	return id, nil
}

func (m *stubManagementAPI) AssignRoles(_ context.Context, userID string, roleIDs []string) error {
	m.assigned[userID] = append(m.assigned[userID], roleIDs...)
	return nil
}

func (m *stubManagementAPI) EnableOrganizationConnection(_ context.Context, orgID, connectionID string) error {
	if err := m.failEnable[orgID]; err != nil {
		return err
	}
	for _, id := range m.enabled[orgID] {
		if id == connectionID {
			return domain.ErrAlreadyExists
		}
	}
	m.enabled[orgID] = append(m.enabled[orgID], connectionID)
	return nil
}

func (m *stubManagementAPI) EnableOrganizations(_ context.Context, clientID string) error {
	if m.enableOrgsErr != nil {
		return m.enableOrgsErr
	}
	m.orgClients = append(m.orgClients, clientID)
	return nil
}

func (m *stubManagementAPI) ConnectionID(_ context.Context, name string) (string, error) {
	id, ok := m.connections[name]
	if !ok {
		return "", errors.New("connection not found")
	}
	return id, nil
}
