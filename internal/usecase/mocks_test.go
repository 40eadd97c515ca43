package usecase

import (
	"context"
	"time"

	"github.com/skuprice/backend/internal/domain"
)

type searchCall struct {
	kind  domain.FilterKind
	value string
}

// mockCatalog is a scripted domain.CatalogClient
type mockCatalog struct {
	results   map[searchCall][]domain.CatalogProduct
	errs      map[searchCall]error
	pages     [][]domain.CatalogProduct
	pageErr   error
	calls     []searchCall
	pageCalls [][2]int
}

func newMockCatalog() *mockCatalog {
	return &mockCatalog{
		results: make(map[searchCall][]domain.CatalogProduct),
		errs:    make(map[searchCall]error),
	}
}

func (m *mockCatalog) on(kind domain.FilterKind, value string, products ...domain.CatalogProduct) *mockCatalog {
	m.results[searchCall{kind, value}] = products
	return m
}

func (m *mockCatalog) fail(kind domain.FilterKind, value string, err error) *mockCatalog {
	m.errs[searchCall{kind, value}] = err
	return m
}

func (m *mockCatalog) Search(ctx context.Context, filter domain.CatalogFilter) ([]domain.CatalogProduct, error) {
	call := searchCall{filter.Kind, filter.Value}
	m.calls = append(m.calls, call)
	if err, ok := m.errs[call]; ok {
		return nil, err
	}
	if products := m.results[call]; len(products) > 0 {
		return products, nil
	}
	return nil, domain.ErrProductNotFound
}

func (m *mockCatalog) Page(ctx context.Context, from, to int) ([]domain.CatalogProduct, error) {
	m.pageCalls = append(m.pageCalls, [2]int{from, to})
	if m.pageErr != nil {
		return nil, m.pageErr
	}
	idx := len(m.pageCalls) - 1
	if idx < len(m.pages) {
		return m.pages[idx], nil
	}
	return []domain.CatalogProduct{}, nil
}

// mockDetail is a scripted domain.DetailClient
type mockDetail struct {
	records map[string]*domain.DetailRecord
	errs    map[string]error
	calls   []string
}

func newMockDetail() *mockDetail {
	return &mockDetail{
		records: make(map[string]*domain.DetailRecord),
		errs:    make(map[string]error),
	}
}

func (m *mockDetail) on(skuID string, product domain.CatalogProduct) *mockDetail {
	m.records[skuID] = &domain.DetailRecord{SkuID: skuID, Product: product}
	return m
}

func (m *mockDetail) GetProductBySku(ctx context.Context, skuID string) (*domain.DetailRecord, error) {
	m.calls = append(m.calls, skuID)
	if err, ok := m.errs[skuID]; ok {
		return nil, err
	}
	if record, ok := m.records[skuID]; ok {
		return record, nil
	}
	return nil, domain.ErrProductNotFound
}

// mockCache is an in-memory domain.CacheRepository with injectable errors
type mockCache struct {
	data     map[string][]byte
	getError error
	setError error
	sets     int
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.sets++
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *mockCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

// fakeStore is a Store returning canned results
type fakeStore struct {
	info       domain.Store
	quote      *domain.PriceQuote
	product    *domain.NormalizedProduct
	err        error
	priceCalls int
	fullCalls  int
}

func (f *fakeStore) Info() domain.Store { return f.info }

func (f *fakeStore) ResolvePrice(ctx context.Context, code string) (*domain.PriceQuote, error) {
	f.priceCalls++
	if f.err != nil {
		return nil, f.err
	}
	if f.quote == nil {
		return nil, domain.ErrProductNotFound
	}
	return f.quote, nil
}

func (f *fakeStore) ResolveFull(ctx context.Context, code string) (*domain.NormalizedProduct, error) {
	f.fullCalls++
	if f.err != nil {
		return nil, f.err
	}
	if f.product == nil {
		return nil, domain.ErrProductNotFound
	}
	return f.product, nil
}

// mockSnapshots records saved snapshots
type mockSnapshots struct {
	saved []domain.CatalogSnapshot
	err   error
}

func (m *mockSnapshots) SaveSnapshots(ctx context.Context, snapshots []domain.CatalogSnapshot) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.saved = append(m.saved, snapshots...)
	return len(snapshots), nil
}

func price(v float64) *float64 { return &v }

func offerItem(id, ean string, p, list *float64) domain.Item {
	return domain.Item{
		ItemID: domain.FlexString(id),
		EAN:    domain.FlexString(ean),
		Sellers: []domain.Seller{{
			SellerID:        "1",
			CommertialOffer: domain.Offer{Price: p, ListPrice: list, IsAvailable: p != nil},
		}},
	}
}

func catalogProduct(id, name string, items ...domain.Item) domain.CatalogProduct {
	return domain.CatalogProduct{
		ProductID:   domain.FlexString(id),
		ProductName: name,
		Items:       items,
	}
}

var (
	metroStore = domain.Store{ID: domain.StoreMetro, Kind: domain.StoreKindVTEX, BaseURL: "https://www.tiendasmetro.co"}
	exitoStore = domain.Store{ID: domain.StoreExito, Kind: domain.StoreKindExito, BaseURL: "https://www.exito.com"}
)
