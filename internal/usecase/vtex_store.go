package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/skuprice/backend/internal/domain"
	"github.com/skuprice/backend/internal/infrastructure/logging"
)

// VTEXStore looks products up through the public VTEX catalog search.
// Both lookups walk the same steps: skuId filter, EAN filter, then free text.
type VTEXStore struct {
	info    domain.Store
	catalog domain.CatalogClient
	logger  zerolog.Logger
}

// NewVTEXStore creates a catalog-only store
func NewVTEXStore(info domain.Store, catalog domain.CatalogClient) *VTEXStore {
	return &VTEXStore{
		info:    info,
		catalog: catalog,
		logger:  logging.Component("vtex_store").With().Str("store", string(info.ID)).Logger(),
	}
}

// Info returns the store descriptor
func (s *VTEXStore) Info() domain.Store {
	return s.info
}

// ResolvePrice returns the price of the item whose id or barcode equals code.
// The skuId and EAN steps only inspect the first product; the free-text step
// inspects every product returned.
func (s *VTEXStore) ResolvePrice(ctx context.Context, code string) (*domain.PriceQuote, error) {
	for _, kind := range []domain.FilterKind{domain.FilterSkuID, domain.FilterEAN} {
		products, err := s.search(ctx, kind, code)
		if err != nil {
			return nil, err
		}
		if len(products) == 0 {
			continue
		}
		if quote := quoteFromProduct(s.info.ID, &products[0], code); quote != nil {
			s.logger.Debug().Str("code", code).Stringer("step", kind).Msg("price resolved")
			return quote, nil
		}
	}

	products, err := s.search(ctx, domain.FilterText, code)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if quote := quoteFromProduct(s.info.ID, &products[i], code); quote != nil {
			s.logger.Debug().Str("code", code).Stringer("step", domain.FilterText).Msg("price resolved")
			return quote, nil
		}
	}

	return nil, domain.ErrProductNotFound
}

// ResolveFull returns the normalized record of the first product found for code
func (s *VTEXStore) ResolveFull(ctx context.Context, code string) (*domain.NormalizedProduct, error) {
	product, err := s.findProduct(ctx, code)
	if err != nil {
		return nil, err
	}

	normalized := Normalize(s.info, code, product, nil)
	if normalized == nil {
		return nil, domain.ErrProductNotFound
	}
	return normalized, nil
}

// findProduct returns the first product of the first step with results.
// On the free-text step an exact item match is preferred over the first product.
func (s *VTEXStore) findProduct(ctx context.Context, code string) (*domain.CatalogProduct, error) {
	for _, kind := range []domain.FilterKind{domain.FilterSkuID, domain.FilterEAN} {
		products, err := s.search(ctx, kind, code)
		if err != nil {
			return nil, err
		}
		if len(products) > 0 {
			return &products[0], nil
		}
	}

	products, err := s.search(ctx, domain.FilterText, code)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, domain.ErrProductNotFound
	}
	for i := range products {
		for j := range products[i].Items {
			if products[i].Items[j].Matches(code) {
				return &products[i], nil
			}
		}
	}
	return &products[0], nil
}

// search runs one catalog step. A not-found step yields no products and no error;
// network failures abort the lookup.
func (s *VTEXStore) search(ctx context.Context, kind domain.FilterKind, code string) ([]domain.CatalogProduct, error) {
	products, err := s.catalog.Search(ctx, domain.CatalogFilter{Kind: kind, Value: code})
	if errors.Is(err, domain.ErrProductNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return products, nil
}
