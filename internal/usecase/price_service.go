package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/skuprice/backend/internal/domain"
	"github.com/skuprice/backend/internal/infrastructure/logging"
)

// PriceServiceConfig holds configuration for the price service
type PriceServiceConfig struct {
	CacheTTL time.Duration
}

// StoreResult is the outcome of a lookup in one store.
// Quote or Product is set on success, Error on a network failure,
// and neither when the product was not found.
type StoreResult struct {
	Store   domain.StoreID            `json:"store"`
	Found   bool                      `json:"found"`
	Quote   *domain.PriceQuote        `json:"quote,omitempty"`
	Product *domain.NormalizedProduct `json:"product,omitempty"`
	Error   string                    `json:"error,omitempty"`
}

// Answer is the response to a free-text question
type Answer struct {
	Query   domain.Query  `json:"query"`
	Results []StoreResult `json:"results"`
	Text    string        `json:"text"`
}

// PriceService answers price questions across the configured stores.
// Stores are queried sequentially in configuration order.
type PriceService struct {
	stores   []Store
	cache    domain.CacheRepository
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// NewPriceService creates a price service. cache may be nil to disable caching.
func NewPriceService(stores []Store, cache domain.CacheRepository, config PriceServiceConfig) *PriceService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 10 * time.Minute
	}

	return &PriceService{
		stores:   stores,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logging.Component("price_service"),
	}
}

// StoreIDs returns the configured stores in lookup order
func (s *PriceService) StoreIDs() []domain.StoreID {
	ids := make([]domain.StoreID, 0, len(s.stores))
	for _, store := range s.stores {
		ids = append(ids, store.Info().ID)
	}
	return ids
}

// Stores returns the configured store descriptors
func (s *PriceService) Stores() []domain.Store {
	infos := make([]domain.Store, 0, len(s.stores))
	for _, store := range s.stores {
		infos = append(infos, store.Info())
	}
	return infos
}

// Ask parses a question and looks the code up in the named store, or in every
// store when none is named. Per-store failures are reported in the results and
// never abort the remaining stores.
func (s *PriceService) Ask(ctx context.Context, raw string) (*Answer, error) {
	query, err := ParseQuery(raw, s.StoreIDs())
	if err != nil {
		return nil, err
	}

	targets := s.stores
	if !query.AllStores() {
		store, err := s.store(query.Store)
		if err != nil {
			return nil, err
		}
		targets = []Store{store}
	}

	results := make([]StoreResult, 0, len(targets))
	for _, store := range targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results = append(results, s.lookup(ctx, store, query))
	}

	s.logger.Info().
		Str("code", query.Code).
		Str("store", string(query.Store)).
		Bool("full", query.FullInfo).
		Int("stores", len(results)).
		Msg("question answered")

	return &Answer{
		Query:   *query,
		Results: results,
		Text:    Render(query, results),
	}, nil
}

// Product returns the normalized record of code in one store
func (s *PriceService) Product(ctx context.Context, storeID domain.StoreID, code string) (*domain.NormalizedProduct, error) {
	if !ValidCode(code) {
		return nil, fmt.Errorf("%w: %q", domain.ErrValidation, code)
	}

	store, err := s.store(storeID)
	if err != nil {
		return nil, err
	}

	return cached(ctx, s, cacheKey("product", storeID, code), func() (*domain.NormalizedProduct, error) {
		return store.ResolveFull(ctx, code)
	})
}

func (s *PriceService) lookup(ctx context.Context, store Store, query *domain.Query) StoreResult {
	id := store.Info().ID
	result := StoreResult{Store: id}

	var err error
	if query.FullInfo {
		result.Product, err = cached(ctx, s, cacheKey("product", id, query.Code), func() (*domain.NormalizedProduct, error) {
			return store.ResolveFull(ctx, query.Code)
		})
		result.Found = result.Product != nil
	} else {
		result.Quote, err = cached(ctx, s, cacheKey("price", id, query.Code), func() (*domain.PriceQuote, error) {
			return store.ResolvePrice(ctx, query.Code)
		})
		result.Found = result.Quote != nil
	}

	switch {
	case err == nil:
	case errors.Is(err, domain.ErrProductNotFound):
		s.logger.Debug().Str("store", string(id)).Str("code", query.Code).Msg("product not found")
	default:
		s.logger.Warn().Err(err).Str("store", string(id)).Str("code", query.Code).Msg("store lookup failed")
		result.Error = storeErrorText(err)
	}

	return result
}

func (s *PriceService) store(id domain.StoreID) (Store, error) {
	for _, store := range s.stores {
		if store.Info().ID == id {
			return store, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrStoreNotFound, id)
}

func cacheKey(kind string, store domain.StoreID, code string) string {
	return fmt.Sprintf("%s:%s:%s", kind, store, code)
}

// cached serves a value from the cache or computes and stores it.
// Cache failures are logged and never fail the lookup; not-found results are not cached.
func cached[T any](ctx context.Context, s *PriceService, key string, fetch func() (*T, error)) (*T, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key); err == nil {
			var value T
			if err := json.Unmarshal(data, &value); err == nil {
				s.logger.Debug().Str("key", key).Msg("cache hit")
				return &value, nil
			}
		} else if !errors.Is(err, domain.ErrCacheMiss) {
			s.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
	}

	value, err := fetch()
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		data, err := json.Marshal(value)
		if err == nil {
			err = s.cache.Set(ctx, key, data, s.cacheTTL)
		}
		if err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}

	return value, nil
}
