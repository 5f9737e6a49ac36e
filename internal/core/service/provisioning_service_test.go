package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailzero/brand-gateway/internal/core/domain"
)

func newTestProvisioning(api *stubManagementAPI) *ProvisioningService {
	return NewProvisioningService(api, stubRegistry{}, "", zerolog.Nop())
}

func TestProvisioningService_OrganizationSpecs(t *testing.T) {
	specs := newTestProvisioning(newStubManagementAPI()).OrganizationSpecs()

	require.Len(t, specs, 3)
	assert.Equal(t, "autozero", specs[0].Name)
	assert.Equal(t, "bbq1", specs[1].Name)
	assert.Equal(t, "retailzero", specs[2].Name)
	assert.Equal(t, "central", specs[2].Metadata["type"])
}

func TestProvisioningService_EnsureOrganizations(t *testing.T) {
	api := newStubManagementAPI()
	api.orgs = []domain.OrganizationRef{{ID: "org_existing", Name: "bbq1"}}
	svc := newTestProvisioning(api)

	specs := append(svc.OrganizationSpecs(), domain.OrganizationSpec{Name: "Bad Name", DisplayName: "x"})
	report, err := svc.EnsureOrganizations(context.Background(), specs)
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 2, report.Count(domain.OutcomeCreated))
	assert.Equal(t, 1, report.Count(domain.OutcomeExists))
	assert.Equal(t, 1, report.Count(domain.OutcomeFailed))
	assert.False(t, report.AllFailed())
	assert.Len(t, api.orgs, 3)
}

func TestProvisioningService_EnsureRoles(t *testing.T) {
	api := newStubManagementAPI()
	api.roles = []domain.RoleRef{{ID: "rol_legacy", Name: "User"}, {ID: "rol_admin", Name: "Admin"}}
	svc := newTestProvisioning(api)

	report, err := svc.EnsureRoles(context.Background())
	require.NoError(t, err)

	outcomes := map[string]domain.ProvisionOutcome{}
	for _, it := range report.Items {
		outcomes[it.Key] = it.Outcome
	}
	assert.Equal(t, domain.OutcomeUpdated, outcomes[domain.RoleEmployee])
	assert.Equal(t, domain.OutcomeCreated, outcomes[domain.RoleCustomer])
	assert.Equal(t, domain.OutcomeExists, outcomes[domain.RoleAdmin])
	assert.Equal(t, []string{"rol_legacy"}, api.updated)

	// Running again changes nothing.
	report, err = svc.EnsureRoles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, report.Count(domain.OutcomeExists))
}

func TestProvisioningService_EnsureRoles_CreateFailureIsRecorded(t *testing.T) {
	api := newStubManagementAPI()
	api.failCreateRole[domain.RoleCustomer] = errors.New("rate limited")
	svc := newTestProvisioning(api)

	report, err := svc.EnsureRoles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Count(domain.OutcomeCreated))
	assert.Equal(t, 1, report.Count(domain.OutcomeFailed))
}

func TestProvisioningService_ProvisionUsers(t *testing.T) {
	api := newStubManagementAPI()
	api.roles = []domain.RoleRef{
		{ID: "rol_employee", Name: "Employee"},
		{ID: "rol_customer", Name: "Customer"},
	}
	api.users["taken@retailzero.test"] = "auth0|taken"
	api.failCreateUser["broken@retailzero.test"] = errors.New("password too weak")
	svc := newTestProvisioning(api)

	users := []domain.UserSpec{
		{Email: "staff@retailzero.test", Name: "Staff", Password: "pw", Role: domain.RoleEmployee, Organization: "retailzero"},
		{Email: "jane@bbq1.test", Name: "Jane", Password: "pw", Role: domain.RoleCustomer, Organization: "bbq1"},
		{Email: "taken@retailzero.test", Name: "Taken", Password: "pw", Role: domain.RoleCustomer, Organization: "bbq1"},
		{Email: "broken@retailzero.test", Name: "Broken", Password: "pw", Role: domain.RoleCustomer, Organization: "bbq1"},
		{Email: "lost@retailzero.test", Name: "Lost", Password: "pw", Role: domain.RoleCustomer, Organization: "nowhere"},
	}
	report, err := svc.ProvisionUsers(context.Background(), users)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Count(domain.OutcomeCreated))
	assert.Equal(t, 1, report.Count(domain.OutcomeExists))
	assert.Equal(t, 2, report.Count(domain.OutcomeFailed))

	assert.Equal(t, []string{"rol_employee"}, api.assigned["auth0|staff@retailzero.test"])
	assert.Equal(t, []string{"auth0|staff@retailzero.test"}, api.members[central.OrganizationID])
	assert.Equal(t, []string{"auth0|jane@bbq1.test"}, api.members[bbq1.OrganizationID])
}

func TestProvisioningService_ProvisionUsers_UnknownRoleSkipsItem(t *testing.T) {
	api := newStubManagementAPI()
	api.roles = []domain.RoleRef{{ID: "rol_customer", Name: "customer"}}
	svc := newTestProvisioning(api)

	report, err := svc.ProvisionUsers(context.Background(), []domain.UserSpec{
		{Email: "jane@bbq1.test", Name: "Jane", Password: "pw", Role: domain.RoleCustomer, Organization: "bbq1"},
		{Email: "boss@retailzero.test", Name: "Boss", Password: "pw", Role: "manager", Organization: "retailzero"},
	})
	require.NoError(t, err)

	require.Len(t, report.Items, 2)
	assert.Equal(t, domain.OutcomeCreated, report.Items[0].Outcome)
	assert.Equal(t, domain.OutcomeFailed, report.Items[1].Outcome)
	assert.ErrorIs(t, report.Items[1].Err, domain.ErrRoleNotFound)
	assert.Contains(t, api.users, "jane@bbq1.test")
	assert.NotContains(t, api.users, "boss@retailzero.test")
	assert.False(t, report.AllFailed())
}

func TestProvisioningService_ProvisionUsers_ListRolesFails(t *testing.T) {
	api := newStubManagementAPI()
	api.listRolesErr = errors.New("unauthorized")

	_, err := newTestProvisioning(api).ProvisionUsers(context.Background(), nil)
	require.Error(t, err)
}

func TestProvisioningService_CustomerSpecs(t *testing.T) {
	specs := newTestProvisioning(newStubManagementAPI()).CustomerSpecs(2, "retailzero.test", "pw")

	require.Len(t, specs, 4)
	assert.Equal(t, "customer1+autozero@retailzero.test", specs[0].Email)
	assert.Equal(t, "customer2+bbq1@retailzero.test", specs[3].Email)
	for _, s := range specs {
		assert.Equal(t, domain.RoleCustomer, s.Role)
		assert.Equal(t, "pw", s.Password)
	}
}

func TestProvisioningService_EnableConnections(t *testing.T) {
	api := newStubManagementAPI()
	api.orgs = []domain.OrganizationRef{
		{ID: "org_autozero", Name: "autozero"},
		{ID: "org_bbq1", Name: "bbq1"},
	}
	api.enabled["org_bbq1"] = []string{"con_db"}
	svc := newTestProvisioning(api)

	report, err := svc.EnableConnections(context.Background(), "cli_web", svc.OrganizationSpecs())
	require.NoError(t, err)

	require.Len(t, report.Items, 4)
	assert.Equal(t, "client", report.Items[0].Kind)
	assert.Equal(t, domain.OutcomeUpdated, report.Items[0].Outcome)
	assert.Equal(t, []string{"cli_web"}, api.orgClients)

	assert.Equal(t, domain.OutcomeCreated, report.Items[1].Outcome)
	assert.Equal(t, []string{"con_db"}, api.enabled["org_autozero"])
	assert.Equal(t, domain.OutcomeExists, report.Items[2].Outcome)

	// The central organization was never created.
	assert.Equal(t, domain.OutcomeFailed, report.Items[3].Outcome)
	assert.ErrorIs(t, report.Items[3].Err, domain.ErrOrganizationNotFound)
	assert.False(t, report.AllFailed())
}

func TestProvisioningService_EnableConnections_ClientFailureContinues(t *testing.T) {
	api := newStubManagementAPI()
	api.orgs = []domain.OrganizationRef{{ID: "org_bbq1", Name: "bbq1"}}
	api.enableOrgsErr = errors.New("insufficient scope")
	api.failEnable["org_bbq1"] = errors.New("boom")
	svc := newTestProvisioning(api)

	report, err := svc.EnableConnections(context.Background(), "cli_web", []domain.OrganizationSpec{{Name: "bbq1"}})
	require.NoError(t, err)
	require.Len(t, report.Items, 2)
	assert.True(t, report.AllFailed())
}

func TestProvisioningService_EnableConnections_UnknownConnection(t *testing.T) {
	api := newStubManagementAPI()
	svc := NewProvisioningService(api, stubRegistry{}, "google-oauth2", zerolog.Nop())

	_, err := svc.EnableConnections(context.Background(), "cli_web", svc.OrganizationSpecs())
	require.Error(t, err)
	assert.Empty(t, api.enabled)
}
