package vtex

import (
	"time"

	"github.com/skuprice/backend/internal/domain"
)

// MapToSnapshots flattens a catalog product into one snapshot row per item
func MapToSnapshots(store domain.StoreID, product *domain.CatalogProduct, capturedAt time.Time) []domain.CatalogSnapshot {
	snapshots := make([]domain.CatalogSnapshot, 0, len(product.Items))

	for i := range product.Items {
		item := &product.Items[i]
		if item.ItemID == "" {
			continue
		}

		name := item.Name
		if name == "" {
			name = product.ProductName
		}

		snapshot := domain.CatalogSnapshot{
			Store:      store,
			ProductID:  product.ProductID.String(),
			SkuID:      item.ItemID.String(),
			EAN:        item.EAN.String(),
			Name:       name,
			Brand:      product.Brand,
			CapturedAt: capturedAt,
		}
		if offer := item.SelectedOffer(); offer != nil {
			snapshot.Price = offer.Price
			snapshot.ListPrice = offer.ListPrice
			snapshot.Available = offer.IsAvailable
		}

		snapshots = append(snapshots, snapshot)
	}

	return snapshots
}
