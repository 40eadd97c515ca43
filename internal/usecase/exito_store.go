package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/skuprice/backend/internal/domain"
	"github.com/skuprice/backend/internal/infrastructure/logging"
)

// ExitoStore prices products through Éxito's detail endpoint, which is keyed
// by the internal SKU id. Barcodes are translated to SKU ids via the catalog.
type ExitoStore struct {
	*VTEXStore
	detail domain.DetailClient
	logger zerolog.Logger
}

var _ CrossReferencer = (*ExitoStore)(nil)

// NewExitoStore creates an Éxito store
func NewExitoStore(info domain.Store, catalog domain.CatalogClient, detail domain.DetailClient) *ExitoStore {
	return &ExitoStore{
		VTEXStore: NewVTEXStore(info, catalog),
		detail:    detail,
		logger:    logging.Component("exito_store").With().Str("store", string(info.ID)).Logger(),
	}
}

// ResolvePrice tries code as a SKU id first, then as a barcode translated to a SKU id
func (s *ExitoStore) ResolvePrice(ctx context.Context, code string) (*domain.PriceQuote, error) {
	quote, err := s.ResolveViaDetail(ctx, code)
	if err == nil {
		quote.Code = code
		return quote, nil
	}
	if !errors.Is(err, domain.ErrProductNotFound) {
		return nil, err
	}

	itemID, err := s.ItemIDFromBarcode(ctx, code)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Str("code", code).Str("sku_id", itemID).Msg("barcode translated")

	quote, err = s.ResolveViaDetail(ctx, itemID)
	if err != nil {
		return nil, err
	}
	quote.Code = code
	return quote, nil
}

// ResolveViaDetail prices a SKU id through the detail endpoint
func (s *ExitoStore) ResolveViaDetail(ctx context.Context, skuID string) (*domain.PriceQuote, error) {
	record, err := s.detail.GetProductBySku(ctx, skuID)
	if err != nil {
		return nil, err
	}

	offer := record.Offer()
	if !offer.HasPrice() {
		return nil, domain.ErrProductNotFound
	}

	return &domain.PriceQuote{
		Store:     s.info.ID,
		Code:      skuID,
		Name:      productName(&record.Product),
		Price:     offer.Price,
		ListPrice: offer.ListPrice,
	}, nil
}

// ItemIDFromBarcode returns the SKU id of the item carrying ean
func (s *ExitoStore) ItemIDFromBarcode(ctx context.Context, ean string) (string, error) {
	_, itemID, err := s.barcodeLookup(ctx, ean)
	return itemID, err
}

// barcodeLookup searches the catalog by EAN and picks the item whose trimmed
// barcode equals ean, falling back to the first item of the first product.
func (s *ExitoStore) barcodeLookup(ctx context.Context, ean string) (*domain.CatalogProduct, string, error) {
	products, err := s.search(ctx, domain.FilterEAN, ean)
	if err != nil {
		return nil, "", err
	}
	if len(products) == 0 {
		return nil, "", domain.ErrProductNotFound
	}

	product := &products[0]
	want := strings.TrimSpace(ean)
	for i := range product.Items {
		if strings.TrimSpace(product.Items[i].EAN.String()) == want {
			if id := product.Items[i].ItemID.String(); id != "" {
				return product, id, nil
			}
		}
	}

	if first := product.FirstItem(); first != nil && first.ItemID.String() != "" {
		s.logger.Debug().Str("ean", ean).Msg("no exact barcode match, using first item")
		return product, first.ItemID.String(), nil
	}

	return product, "", domain.ErrProductNotFound
}

// ResolveFull merges the catalog product with the detail record of its SKU.
// When the barcode cannot be translated the code is assumed to be a SKU id.
func (s *ExitoStore) ResolveFull(ctx context.Context, code string) (*domain.NormalizedProduct, error) {
	product, skuID, err := s.barcodeLookup(ctx, code)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrProductNotFound):
		product = nil
		skuID = code
		products, err := s.search(ctx, domain.FilterSkuID, code)
		if err != nil {
			return nil, err
		}
		if len(products) > 0 {
			product = &products[0]
		}
	default:
		return nil, err
	}

	detail, err := s.detail.GetProductBySku(ctx, skuID)
	if err != nil && !errors.Is(err, domain.ErrProductNotFound) {
		return nil, err
	}
	if detail == nil && product == nil {
		return nil, domain.ErrProductNotFound
	}

	normalized := Normalize(s.info, code, product, detail)
	if normalized == nil {
		return nil, domain.ErrProductNotFound
	}
	if normalized.SkuID == notAvailable {
		normalized.SkuID = skuID
	}
	return normalized, nil
}
