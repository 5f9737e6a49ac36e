// Package auth0mgmt adapts the Auth0 management API to ports.ManagementAPI.
package auth0mgmt

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/auth0/go-auth0"
	"github.com/auth0/go-auth0/management"

	"github.com/retailzero/brand-gateway/internal/core/domain"
)

const perPage = 100

// Config holds the credentials of the management API. A static token wins
// over client credentials.
type Config struct {
	Domain       string
	Token        string
	ClientID     string
	ClientSecret string
}

// Client implements ports.ManagementAPI.
type Client struct {
	m *management.Management
}

// New builds a management client for cfg.
func New(ctx context.Context, cfg Config, opts ...management.Option) (*Client, error) {
	if cfg.Domain == "" {
		return nil, errors.New("auth0 management: domain is required")
	}
	switch {
	case cfg.Token != "":
		opts = append(opts, management.WithStaticToken(cfg.Token))
	case cfg.ClientID != "" && cfg.ClientSecret != "":
		opts = append(opts, management.WithClientCredentials(ctx, cfg.ClientID, cfg.ClientSecret))
	}
	m, err := management.New(cfg.Domain, opts...)
	if err != nil {
		return nil, fmt.Errorf("auth0 management: %w", err)
	}
	return &Client{m: m}, nil
}

func (c *Client) ListRoles(ctx context.Context) ([]domain.RoleRef, error) {
	var out []domain.RoleRef
	for page := 0; ; page++ {
		list, err := c.m.Role.List(ctx, management.Page(page), management.PerPage(perPage))
		if err != nil {
			return nil, mapError("list roles", err)
		}
		for _, r := range list.Roles {
			out = append(out, domain.RoleRef{ID: r.GetID(), Name: r.GetName(), Description: r.GetDescription()})
		}
		if len(list.Roles) < perPage {
			return out, nil
		}
	}
}

func (c *Client) CreateRole(ctx context.Context, name, description string) (domain.RoleRef, error) {
	r := &management.Role{Name: auth0.String(name), Description: auth0.String(description)}
	if err := c.m.Role.Create(ctx, r); err != nil {
		return domain.RoleRef{}, mapError("create role "+name, err)
	}
	return domain.RoleRef{ID: r.GetID(), Name: r.GetName(), Description: r.GetDescription()}, nil
}

func (c *Client) UpdateRole(ctx context.Context, id, name, description string) error {
	r := &management.Role{Name: auth0.String(name), Description: auth0.String(description)}
	if err := c.m.Role.Update(ctx, id, r); err != nil {
		return mapError("update role "+id, err)
	}
	return nil
}

func (c *Client) ListOrganizations(ctx context.Context) ([]domain.OrganizationRef, error) {
	var out []domain.OrganizationRef
	for page := 0; ; page++ {
		list, err := c.m.Organization.List(ctx, management.Page(page), management.PerPage(perPage))
		if err != nil {
			return nil, mapError("list organizations", err)
		}
		for _, o := range list.Organizations {
			out = append(out, domain.OrganizationRef{ID: o.GetID(), Name: o.GetName(), DisplayName: o.GetDisplayName()})
		}
		if len(list.Organizations) < perPage {
			return out, nil
		}
	}
}

func (c *Client) CreateOrganization(ctx context.Context, spec domain.OrganizationSpec) (domain.OrganizationRef, error) {
	o := &management.Organization{
		Name:        auth0.String(spec.Name),
		DisplayName: auth0.String(spec.DisplayName),
	}
	if len(spec.Metadata) > 0 {
		md := spec.Metadata
		o.Metadata = &md
	}
	if err := c.m.Organization.Create(ctx, o); err != nil {
		return domain.OrganizationRef{}, mapError("create organization "+spec.Name, err)
	}
	return domain.OrganizationRef{ID: o.GetID(), Name: o.GetName(), DisplayName: o.GetDisplayName()}, nil
}

func (c *Client) AddOrganizationMembers(ctx context.Context, orgID string, userIDs []string) error {
	if err := c.m.Organization.AddMembers(ctx, orgID, userIDs); err != nil {
		return mapError("add members to "+orgID, err)
	}
	return nil
}

func (c *Client) EnableOrganizationConnection(ctx context.Context, orgID, connectionID string) error {
	conn := &management.OrganizationConnection{
		ConnectionID:            auth0.String(connectionID),
		AssignMembershipOnLogin: auth0.Bool(false),
	}
	if err := c.m.Organization.AddConnection(ctx, orgID, conn); err != nil {
		return mapError("enable connection on "+orgID, err)
	}
	return nil
}

func (c *Client) EnableOrganizations(ctx context.Context, clientID string) error {
	app := &management.Client{
		OrganizationUsage:           auth0.String("allow"),
		OrganizationRequireBehavior: auth0.String("post_login_prompt"),
	}
	if err := c.m.Client.Update(ctx, clientID, app); err != nil {
		return mapError("enable organizations on "+clientID, err)
	}
	return nil
}

func (c *Client) ConnectionID(ctx context.Context, name string) (string, error) {
	conn, err := c.m.Connection.ReadByName(ctx, name)
	if err != nil {
		return "", mapError("read connection "+name, err)
	}
	return conn.GetID(), nil
}

// CreateUser creates a pre-verified database account and returns its id.
func (c *Client) CreateUser(ctx context.Context, spec domain.UserSpec, connection string) (string, error) {
	u := &management.User{
		Connection:    auth0.String(connection),
		Email:         auth0.String(spec.Email),
		Name:          auth0.String(spec.Name),
		Password:      auth0.String(spec.Password),
		EmailVerified: auth0.Bool(true),
	}
	if err := c.m.User.Create(ctx, u); err != nil {
		return "", mapError("create user "+spec.Email, err)
	}
	return u.GetID(), nil
}

func (c *Client) AssignRoles(ctx context.Context, userID string, roleIDs []string) error {
	roles := make([]*management.Role, 0, len(roleIDs))
	for _, id := range roleIDs {
		roles = append(roles, &management.Role{ID: auth0.String(id)})
	}
	if err := c.m.User.AssignRoles(ctx, userID, roles); err != nil {
		return mapError("assign roles to "+userID, err)
	}
	return nil
}

// mapError turns a 409 into domain.ErrAlreadyExists and wraps the rest.
func mapError(op string, err error) error {
	var mErr management.Error
	if errors.As(err, &mErr) && mErr.Status() == http.StatusConflict {
		return fmt.Errorf("%s: %w", op, domain.ErrAlreadyExists)
	}
	return fmt.Errorf("%s: %w", op, err)
}
