package usecase

import (
	"strings"

	"github.com/skuprice/backend/internal/domain"
)

const defaultProductName = "Producto"

// SelectItem returns the item whose id or barcode equals code, else the first
// item. It returns nil only for an empty list.
func SelectItem(items []domain.Item, code string) *domain.Item {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		if items[i].Matches(code) {
			return &items[i]
		}
	}
	return &items[0]
}

// quoteFromProduct builds a price quote from the first item matching code.
// It returns nil when no item matches or the matching item has no price.
func quoteFromProduct(store domain.StoreID, product *domain.CatalogProduct, code string) *domain.PriceQuote {
	if product == nil {
		return nil
	}
	for i := range product.Items {
		item := &product.Items[i]
		if !item.Matches(code) {
			continue
		}
		offer := item.SelectedOffer()
		if !offer.HasPrice() {
			return nil
		}
		return &domain.PriceQuote{
			Store:     store,
			Code:      code,
			Name:      productName(product),
			Price:     offer.Price,
			ListPrice: offer.ListPrice,
		}
	}
	return nil
}

func productName(product *domain.CatalogProduct) string {
	if product == nil || strings.TrimSpace(product.ProductName) == "" {
		return defaultProductName
	}
	return product.ProductName
}

// Normalize merges a catalog product and an optional detail record into the
// flat record rendered by the full report. When the catalog product is nil the
// detail record's product is used instead. It returns nil when both are absent.
func Normalize(
	store domain.Store,
	code string,
	product *domain.CatalogProduct,
	detail *domain.DetailRecord,
) *domain.NormalizedProduct {
	canonical := product
	if canonical == nil && detail != nil {
		canonical = &detail.Product
	}
	if canonical == nil {
		return nil
	}

	item := SelectItem(canonical.Items, code)

	// The catalog offer wins when it has a price; the detail record fills in otherwise.
	offer := item.SelectedOffer()
	if !offer.HasPrice() {
		if fallback := detail.Offer(); fallback.HasPrice() {
			offer = fallback
		}
	}

	normalized := &domain.NormalizedProduct{
		Store:          store.ID,
		StoreName:      store.ID.DisplayName(),
		QueriedCode:    code,
		SkuID:          notAvailable,
		EAN:            notAvailable,
		Name:           orNA(canonical.ProductName),
		Description:    orNA(cleanText(canonical.Description)),
		Category:       orNA(canonical.Category()),
		Brand:          orNA(canonical.Brand),
		Specifications: canonical.Specifications,
		Price:          notAvailable,
		ListPrice:      notAvailable,
		ImageURL:       notAvailable,
		Link:           orNA(productLink(store, canonical)),
	}

	if item != nil {
		normalized.SkuID = orNA(item.ItemID.String())
		normalized.EAN = orNA(item.EAN.String())
		normalized.ImageURL = orNA(item.ImageURL())
		if normalized.Name == notAvailable {
			normalized.Name = orNA(item.Name)
		}
	}
	if normalized.SkuID == notAvailable && detail != nil && detail.SkuID != "" {
		normalized.SkuID = detail.SkuID
	}

	if offer != nil {
		normalized.Price = Money(offer.Price)
		normalized.ListPrice = Money(offer.ListPrice)
		normalized.Available = offer.IsAvailable
		normalized.PriceValidUntil = offer.PriceValidUntil
		if d, ok := ComputeDiscount(offer.Price, offer.ListPrice); ok {
			pct := d.Percent
			savings := Money(d.Savings)
			normalized.DiscountPct = &pct
			normalized.Savings = &savings
		}
	}

	return normalized
}

// productLink returns the product page, building it from linkText when the
// payload carries no absolute link.
func productLink(store domain.Store, product *domain.CatalogProduct) string {
	if product.Link != "" {
		return product.Link
	}
	if product.LinkText == "" {
		return ""
	}
	return strings.TrimSuffix(store.BaseURL, "/") + "/" + product.LinkText + "/p"
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	return s
}
