package ports

import (
	"context"

	"github.com/retailzero/brand-gateway/internal/core/domain"
)

// ManagementAPI is the subset of the identity platform's management API
// used to provision organizations, roles, users and the login connections
// of organizations. Conflicts are reported as domain.ErrAlreadyExists.
type ManagementAPI interface {
	ListRoles(ctx context.Context) ([]domain.RoleRef, error)
	CreateRole(ctx context.Context, name, description string) (domain.RoleRef, error)
	UpdateRole(ctx context.Context, id, name, description string) error

	ListOrganizations(ctx context.Context) ([]domain.OrganizationRef, error)
	CreateOrganization(ctx context.Context, spec domain.OrganizationSpec) (domain.OrganizationRef, error)
	AddOrganizationMembers(ctx context.Context, orgID string, userIDs []string) error
	EnableOrganizationConnection(ctx context.Context, orgID, connectionID string) error

	// EnableOrganizations lets the application log users in through an
	// organization, prompting for one after login when none is given.
	EnableOrganizations(ctx context.Context, clientID string) error
	ConnectionID(ctx context.Context, name string) (string, error)

	CreateUser(ctx context.Context, spec domain.UserSpec, connection string) (string, error)
	AssignRoles(ctx context.Context, userID string, roleIDs []string) error
}
