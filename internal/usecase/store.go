package usecase

import (
	"context"
	"fmt"

	"github.com/skuprice/backend/internal/domain"
)

// Store resolves prices and full product records for one storefront
type Store interface {
	Info() domain.Store
	// ResolvePrice returns domain.ErrProductNotFound when no strategy yields a priced item
	ResolvePrice(ctx context.Context, code string) (*domain.PriceQuote, error)
	// ResolveFull returns domain.ErrProductNotFound when no record can be assembled
	ResolveFull(ctx context.Context, code string) (*domain.NormalizedProduct, error)
}

// CrossReferencer is implemented by stores with a product-detail endpoint
// keyed by internal SKU id, reachable from a barcode through the catalog.
type CrossReferencer interface {
	ResolveViaDetail(ctx context.Context, skuID string) (*domain.PriceQuote, error)
	ItemIDFromBarcode(ctx context.Context, ean string) (string, error)
}

// NewStore builds the lookup strategy matching the store kind.
// detail is only used by Éxito stores and may be nil otherwise.
func NewStore(info domain.Store, catalog domain.CatalogClient, detail domain.DetailClient) (Store, error) {
	switch info.Kind {
	case domain.StoreKindVTEX:
		return NewVTEXStore(info, catalog), nil
	case domain.StoreKindExito:
		if detail == nil {
			return nil, fmt.Errorf("store %s: detail client is required", info.ID)
		}
		return NewExitoStore(info, catalog, detail), nil
	default:
		return nil, fmt.Errorf("store %s: unsupported kind %q", info.ID, info.Kind)
	}
}
