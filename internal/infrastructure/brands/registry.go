// Package brands loads the static brand catalogue and answers lookups
// against it.
package brands

import (
	_ "embed"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/retailzero/brand-gateway/internal/core/domain"
)

//go:embed brands.yaml
var defaultCatalogue []byte

var ErrInvalidCatalogue = errors.New("invalid brand catalogue")

type catalogue struct {
	Fallback string              `yaml:"fallback" validate:"required"`
	Central  domain.Organization `yaml:"central"`
	Brands   []domain.Brand      `yaml:"brands" validate:"required,min=1,dive"`
}

// Registry is an immutable lookup over a single list of brands. All
// indexes point into that list.
type Registry struct {
	brands   []domain.Brand
	byID     map[string]int
	byOrg    map[string]int
	fallback int
	central  domain.Organization
}

// Default returns the registry built from the embedded catalogue.
func Default() (*Registry, error) {
	return Parse(defaultCatalogue)
}

// Load reads the catalogue at path, or the embedded one when path is empty.
func Load(path string) (*Registry, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read brand catalogue: %w", err)
	}
	return Parse(data)
}

// Parse builds a registry from YAML. Slugs and organization ids must be
// unique and the fallback brand must exist.
func Parse(data []byte) (*Registry, error) {
	var c catalogue
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalogue, err)
	}
	if err := validator.New().Struct(c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalogue, err)
	}

	r := &Registry{
		brands:  c.Brands,
		byID:    make(map[string]int, len(c.Brands)),
		byOrg:   make(map[string]int, len(c.Brands)),
		central: c.Central,
	}
	for i, b := range c.Brands {
		if _, dup := r.byID[b.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate brand id %q", ErrInvalidCatalogue, b.ID)
		}
		if _, dup := r.byOrg[b.OrganizationID]; dup {
			return nil, fmt.Errorf("%w: duplicate organization id %q", ErrInvalidCatalogue, b.OrganizationID)
		}
		if b.OrganizationID == c.Central.OrganizationID {
			return nil, fmt.Errorf("%w: brand %q uses the central organization", ErrInvalidCatalogue, b.ID)
		}
		r.byID[b.ID] = i
		r.byOrg[b.OrganizationID] = i
	}

	fb, ok := r.byID[c.Fallback]
	if !ok {
		return nil, fmt.Errorf("%w: fallback brand %q not defined", ErrInvalidCatalogue, c.Fallback)
	}
	r.fallback = fb
	return r, nil
}

func (r *Registry) ByID(slug string) (domain.Brand, bool) {
	i, ok := r.byID[strings.ToLower(strings.TrimSpace(slug))]
	if !ok {
		return domain.Brand{}, false
	}
	return r.brands[i], true
}

func (r *Registry) ByOrganizationID(orgID string) (domain.Brand, bool) {
	i, ok := r.byOrg[orgID]
	if !ok {
		return domain.Brand{}, false
	}
	return r.brands[i], true
}

// ByHostname resolves the brand from the leftmost DNS label of host.
// Unknown hosts get the fallback brand.
func (r *Registry) ByHostname(host string) domain.Brand {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	label, _, _ := strings.Cut(host, ".")
	if b, ok := r.ByID(label); ok {
		return b
	}
	return r.Fallback()
}

// All returns the brands in catalogue order. The slice is a copy.
func (r *Registry) All() []domain.Brand {
	out := make([]domain.Brand, len(r.brands))
	copy(out, r.brands)
	return out
}

func (r *Registry) Fallback() domain.Brand {
	return r.brands[r.fallback]
}

func (r *Registry) Central() domain.Organization {
	return r.central
}
