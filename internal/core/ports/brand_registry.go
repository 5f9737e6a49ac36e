package ports

import "github.com/retailzero/brand-gateway/internal/core/domain"

// BrandRegistry is the static brand lookup.
type BrandRegistry interface {
	ByID(slug string) (domain.Brand, bool)
	ByOrganizationID(orgID string) (domain.Brand, bool)
	// ByHostname never fails; unknown hosts resolve to the fallback brand.
	ByHostname(host string) domain.Brand
	All() []domain.Brand
	Fallback() domain.Brand
	Central() domain.Organization
}
