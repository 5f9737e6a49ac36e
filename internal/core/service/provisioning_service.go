package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/retailzero/brand-gateway/internal/api/metrics"
	"github.com/retailzero/brand-gateway/internal/core/domain"
	"github.com/retailzero/brand-gateway/internal/core/ports"
)

// DefaultConnection is the database connection new accounts are created in.
const DefaultConnection = "Username-Password-Authentication"

const legacyEmployeeRole = "user"

var roleDescriptions = map[string]string{
	domain.RoleAdmin:    "Administrator role with full access to all portals and brand management",
	domain.RoleEmployee: "Employee role for internal staff with access to employee portal and all brands",
	domain.RoleCustomer: "Customer role for regular users with access to customer portal",
}

// ProvisioningService creates the organizations, roles and accounts the
// gateway expects to find in identity claims. Items are processed one by
// one; a failed item is logged and skipped, and a conflict counts as done.
type ProvisioningService struct {
	api        ports.ManagementAPI
	registry   ports.BrandRegistry
	validate   *validator.Validate
	connection string
	log        zerolog.Logger
}

func NewProvisioningService(api ports.ManagementAPI, registry ports.BrandRegistry, connection string, log zerolog.Logger) *ProvisioningService {
	if connection == "" {
		connection = DefaultConnection
	}
	return &ProvisioningService{
		api:        api,
		registry:   registry,
		validate:   validator.New(),
		connection: connection,
		log:        log,
	}
}

// OrganizationSpecs returns one organization per configured brand plus the
// central staff organization.
func (s *ProvisioningService) OrganizationSpecs() []domain.OrganizationSpec {
	brands := s.registry.All()
	specs := make([]domain.OrganizationSpec, 0, len(brands)+1)
	for _, b := range brands {
		specs = append(specs, domain.OrganizationSpec{
			Name:        b.ID,
			DisplayName: b.DisplayName,
			Metadata:    map[string]string{"brand": b.ID},
		})
	}
	central := s.registry.Central()
	specs = append(specs, domain.OrganizationSpec{
		Name:        central.Name,
		DisplayName: central.DisplayName,
		Metadata:    map[string]string{"type": "central"},
	})
	return specs
}

// EnsureOrganizations creates every organization in specs that does not exist yet.
func (s *ProvisioningService) EnsureOrganizations(ctx context.Context, specs []domain.OrganizationSpec) (*domain.ProvisionReport, error) {
	report := s.newReport()
	log := s.log.With().Str("run_id", report.RunID).Logger()

	existing, err := s.api.ListOrganizations(ctx)
	if err != nil {
		return report, fmt.Errorf("list organizations: %w", err)
	}
	byName := make(map[string]domain.OrganizationRef, len(existing))
	for _, o := range existing {
		byName[o.Name] = o
	}

	for _, spec := range specs {
		item := domain.ProvisionItem{Kind: "organization", Key: spec.Name}
		if err := s.validate.Struct(spec); err != nil {
			item.Outcome, item.Err = domain.OutcomeFailed, err
			s.record(log, report, item)
			continue
		}
		if o, ok := byName[spec.Name]; ok {
			item.ID, item.Outcome = o.ID, domain.OutcomeExists
			s.record(log, report, item)
			continue
		}

		created, err := s.api.CreateOrganization(ctx, spec)
		switch {
		case errors.Is(err, domain.ErrAlreadyExists):
			item.Outcome = domain.OutcomeExists
		case err != nil:
			item.Outcome, item.Err = domain.OutcomeFailed, err
		default:
			item.ID, item.Outcome = created.ID, domain.OutcomeCreated
		}
		s.record(log, report, item)
	}
	return report, nil
}

// EnsureRoles makes sure the admin, employee and customer roles exist. A
// legacy "User" role is renamed to employee instead of creating a new one.
func (s *ProvisioningService) EnsureRoles(ctx context.Context) (*domain.ProvisionReport, error) {
	report := s.newReport()
	log := s.log.With().Str("run_id", report.RunID).Logger()

	roles, err := s.api.ListRoles(ctx)
	if err != nil {
		return report, fmt.Errorf("list roles: %w", err)
	}
	byName := indexRoles(roles)

	for _, name := range []string{domain.RoleEmployee, domain.RoleCustomer, domain.RoleAdmin} {
		item := domain.ProvisionItem{Kind: "role", Key: name}
		if r, ok := byName[name]; ok {
			item.ID, item.Outcome = r.ID, domain.OutcomeExists
			s.record(log, report, item)
			continue
		}

		if legacy, ok := byName[legacyEmployeeRole]; ok && name == domain.RoleEmployee {
			err := s.api.UpdateRole(ctx, legacy.ID, name, roleDescriptions[name])
			if err != nil {
				item.Outcome, item.Err = domain.OutcomeFailed, err
			} else {
				item.ID, item.Outcome = legacy.ID, domain.OutcomeUpdated
			}
			s.record(log, report, item)
			continue
		}

		created, err := s.api.CreateRole(ctx, name, roleDescriptions[name])
		switch {
		case errors.Is(err, domain.ErrAlreadyExists):
			item.Outcome = domain.OutcomeExists
		case err != nil:
			item.Outcome, item.Err = domain.OutcomeFailed, err
		default:
			item.ID, item.Outcome = created.ID, domain.OutcomeCreated
		}
		s.record(log, report, item)
	}
	return report, nil
}

// EnableConnections turns on organization login for the application
// clientID and enables the database connection on every organization in
// specs. Organizations must already exist; a connection that is already
// enabled counts as done.
func (s *ProvisioningService) EnableConnections(ctx context.Context, clientID string, specs []domain.OrganizationSpec) (*domain.ProvisionReport, error) {
	report := s.newReport()
	log := s.log.With().Str("run_id", report.RunID).Logger()

	app := domain.ProvisionItem{Kind: "client", Key: clientID, ID: clientID, Outcome: domain.OutcomeUpdated}
	if err := s.api.EnableOrganizations(ctx, clientID); err != nil {
		app.Outcome, app.Err = domain.OutcomeFailed, err
	}
	s.record(log, report, app)

	connID, err := s.api.ConnectionID(ctx, s.connection)
	if err != nil {
		return report, fmt.Errorf("connection %s: %w", s.connection, err)
	}
	existing, err := s.api.ListOrganizations(ctx)
	if err != nil {
		return report, fmt.Errorf("list organizations: %w", err)
	}
	byName := make(map[string]domain.OrganizationRef, len(existing))
	for _, o := range existing {
		byName[o.Name] = o
	}

	for _, spec := range specs {
		item := domain.ProvisionItem{Kind: "connection", Key: spec.Name + "/" + s.connection}
		org, ok := byName[spec.Name]
		if !ok {
			item.Outcome = domain.OutcomeFailed
			item.Err = fmt.Errorf("%w: %s (run the orgs command first)", domain.ErrOrganizationNotFound, spec.Name)
			s.record(log, report, item)
			continue
		}

		item.ID = org.ID
		err := s.api.EnableOrganizationConnection(ctx, org.ID, connID)
		switch {
		case errors.Is(err, domain.ErrAlreadyExists):
			item.Outcome = domain.OutcomeExists
		case err != nil:
			item.Outcome, item.Err = domain.OutcomeFailed, err
		default:
			item.Outcome = domain.OutcomeCreated
		}
		s.record(log, report, item)
	}
	return report, nil
}

// ProvisionUsers creates each account, assigns its role and adds it to its
// organization. Accounts that already exist are left untouched; an account
// whose role is missing from the tenant is recorded as failed.
func (s *ProvisioningService) ProvisionUsers(ctx context.Context, users []domain.UserSpec) (*domain.ProvisionReport, error) {
	report := s.newReport()
	log := s.log.With().Str("run_id", report.RunID).Logger()

	roles, err := s.api.ListRoles(ctx)
	if err != nil {
		return report, fmt.Errorf("list roles: %w", err)
	}
	byName := indexRoles(roles)

	for _, u := range users {
		item := domain.ProvisionItem{Kind: "user", Key: u.Email}
		role, ok := byName[strings.ToLower(u.Role)]
		if !ok {
			item.Outcome = domain.OutcomeFailed
			item.Err = fmt.Errorf("%w: %s (run the roles command first)", domain.ErrRoleNotFound, u.Role)
			s.record(log, report, item)
			continue
		}
		id, err := s.provisionUser(ctx, u, role.ID)
		item.ID = id
		switch {
		case errors.Is(err, domain.ErrAlreadyExists):
			item.Outcome = domain.OutcomeExists
		case err != nil:
			item.Outcome, item.Err = domain.OutcomeFailed, err
		default:
			item.Outcome = domain.OutcomeCreated
		}
		s.record(log, report, item)
	}
	return report, nil
}

func (s *ProvisioningService) provisionUser(ctx context.Context, u domain.UserSpec, roleID string) (string, error) {
	if err := s.validate.Struct(u); err != nil {
		return "", err
	}
	orgID, err := s.organizationID(u.Organization)
	if err != nil {
		return "", err
	}

	userID, err := s.api.CreateUser(ctx, u, s.connection)
	if err != nil {
		return "", fmt.Errorf("create user: %w", err)
	}
	if err := s.api.AssignRoles(ctx, userID, []string{roleID}); err != nil {
		return userID, fmt.Errorf("assign role %s: %w", u.Role, err)
	}
	if err := s.api.AddOrganizationMembers(ctx, orgID, []string{userID}); err != nil && !errors.Is(err, domain.ErrAlreadyExists) {
		return userID, fmt.Errorf("add to organization %s: %w", orgID, err)
	}
	return userID, nil
}

// CustomerSpecs generates perBrand customer accounts for every brand, with
// addresses of the form customerN+<brand>@<emailDomain>.
func (s *ProvisioningService) CustomerSpecs(perBrand int, emailDomain, password string) []domain.UserSpec {
	var specs []domain.UserSpec
	for _, b := range s.registry.All() {
		for i := 1; i <= perBrand; i++ {
			specs = append(specs, domain.UserSpec{
				Email:        fmt.Sprintf("customer%d+%s@%s", i, b.ID, emailDomain),
				Name:         fmt.Sprintf("Customer %d (%s)", i, b.DisplayName),
				Password:     password,
				Role:         domain.RoleCustomer,
				Organization: b.ID,
			})
		}
	}
	return specs
}

func (s *ProvisioningService) organizationID(ref string) (string, error) {
	if b, ok := s.registry.ByID(ref); ok {
		return b.OrganizationID, nil
	}
	if central := s.registry.Central(); ref == central.Name || ref == central.OrganizationID {
		return central.OrganizationID, nil
	}
	if b, ok := s.registry.ByOrganizationID(ref); ok {
		return b.OrganizationID, nil
	}
	return "", fmt.Errorf("organization %q: %w", ref, domain.ErrBrandNotFound)
}

func (s *ProvisioningService) newReport() *domain.ProvisionReport {
	return &domain.ProvisionReport{RunID: uuid.NewString()}
}

func (s *ProvisioningService) record(log zerolog.Logger, report *domain.ProvisionReport, item domain.ProvisionItem) {
	report.Add(item)
	metrics.ProvisioningItemsTotal.WithLabelValues(item.Kind, string(item.Outcome)).Inc()

	ev := log.Info()
	if item.Outcome == domain.OutcomeFailed {
		ev = log.Error().Err(item.Err)
	}
	ev.Str("kind", item.Kind).
		Str("key", item.Key).
		Str("id", item.ID).
		Str("outcome", string(item.Outcome)).
		Msg("provisioning item processed")
}

func indexRoles(roles []domain.RoleRef) map[string]domain.RoleRef {
	byName := make(map[string]domain.RoleRef, len(roles))
	for _, r := range roles {
		byName[strings.ToLower(r.Name)] = r
	}
	return byName
}
