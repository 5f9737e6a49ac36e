package service

import (
	"context"
	"fmt"

	"github.com/retailzero/brand-gateway/internal/core/domain"
	"github.com/retailzero/brand-gateway/internal/core/ports"
)

// BrandContext holds the brand the caller is currently browsing. It is
// constructed once and handed to the components that read or change it.
type BrandContext struct {
	registry ports.BrandRegistry
	store    ports.BrandSelectionStore
}

func NewBrandContext(registry ports.BrandRegistry, store ports.BrandSelectionStore) *BrandContext {
	return &BrandContext{registry: registry, store: store}
}

// Current returns the selected brand, or the brand derived from host when
// nothing has been selected yet.
func (b *BrandContext) Current(ctx context.Context, host string) domain.Brand {
	if slug := b.store.SelectedBrand(ctx); slug != "" {
		if brand, ok := b.registry.ByID(slug); ok {
			return brand
		}
	}
	return b.registry.ByHostname(host)
}

// Switch makes slug the current brand.
func (b *BrandContext) Switch(ctx context.Context, slug string) (domain.Brand, error) {
	brand, ok := b.registry.ByID(slug)
	if !ok {
		return domain.Brand{}, fmt.Errorf("switch brand %q: %w", slug, domain.ErrBrandNotFound)
	}
	b.store.SelectBrand(ctx, brand.ID)
	return brand, nil
}
