package domain

import "errors"

var (
	ErrAlreadyExists        = errors.New("already exists")
	ErrRoleNotFound         = errors.New("role not found")
	ErrOrganizationNotFound = errors.New("organization not found")
)

// ProvisionOutcome is the per-item result of a provisioning run.
type ProvisionOutcome string

const (
	OutcomeCreated ProvisionOutcome = "created"
	OutcomeExists  ProvisionOutcome = "exists"
	OutcomeUpdated ProvisionOutcome = "updated"
	OutcomeFailed  ProvisionOutcome = "failed"
)

// RoleRef is a role as the management API knows it.
type RoleRef struct {
	ID          string
	Name        string
	Description string
}

// OrganizationRef is an organization as the management API knows it.
type OrganizationRef struct {
	ID          string
	Name        string
	DisplayName string
}

// OrganizationSpec describes an organization to create.
type OrganizationSpec struct {
	Name        string            `yaml:"name" validate:"required,lowercase"`
	DisplayName string            `yaml:"display_name" validate:"required"`
	Metadata    map[string]string `yaml:"metadata"`
}

// UserSpec describes one account to create. Organization is either a brand
// slug or the name of the central organization.
type UserSpec struct {
	Email        string `yaml:"email" validate:"required,email"`
	Name         string `yaml:"name" validate:"required"`
	Password     string `yaml:"password"`
	Role         string `yaml:"role" validate:"required,oneof=admin employee customer"`
	Organization string `yaml:"organization" validate:"required"`
}

// ProvisionItem records what happened to one item.
type ProvisionItem struct {
	Kind    string
	Key     string
	ID      string
	Outcome ProvisionOutcome
	Err     error
}

// ProvisionReport summarises a provisioning run.
type ProvisionReport struct {
	RunID string
	Items []ProvisionItem
}

func (r *ProvisionReport) Add(item ProvisionItem) {
	r.Items = append(r.Items, item)
}

// Count returns how many items ended with the given outcome.
func (r *ProvisionReport) Count(outcome ProvisionOutcome) int {
	n := 0
	for _, it := range r.Items {
		if it.Outcome == outcome {
			n++
		}
	}
	return n
}

// AllFailed is true for a non-empty report where nothing succeeded.
func (r *ProvisionReport) AllFailed() bool {
	return len(r.Items) > 0 && r.Count(OutcomeFailed) == len(r.Items)
}
