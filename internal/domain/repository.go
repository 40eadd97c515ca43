package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// FilterKind selects how the catalog search endpoint is queried
type FilterKind int

const (
	// FilterSkuID queries fq=skuId:<code>
	FilterSkuID FilterKind = iota
	// FilterEAN queries fq=alternateIds_Ean:<code>
	FilterEAN
	// FilterText queries ft=<code>
	FilterText
)

// String returns the filter name used in logs
func (k FilterKind) String() string {
	switch k {
	case FilterSkuID:
		return "skuId"
	case FilterEAN:
		return "ean"
	case FilterText:
		return "ft"
	default:
		return "unknown"
	}
}

// CatalogFilter is one catalog search query
type CatalogFilter struct {
	Kind  FilterKind
	Value string
}

// CatalogClient defines the interface for a store's VTEX catalog search endpoint.
// Search returns ErrProductNotFound for an empty array, a non-200 status or an undecodable body.
type CatalogClient interface {
	Search(ctx context.Context, filter CatalogFilter) ([]CatalogProduct, error)
	Page(ctx context.Context, from, to int) ([]CatalogProduct, error)
}

// DetailClient defines the interface for the Éxito getProductBySku endpoint
type DetailClient interface {
	GetProductBySku(ctx context.Context, skuID string) (*DetailRecord, error)
}

// SnapshotRepository persists catalog sync results
type SnapshotRepository interface {
	SaveSnapshots(ctx context.Context, snapshots []CatalogSnapshot) (int, error)
}
