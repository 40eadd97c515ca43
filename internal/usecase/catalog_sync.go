package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/skuprice/backend/internal/domain"
	"github.com/skuprice/backend/internal/infrastructure/logging"
	"github.com/skuprice/backend/internal/infrastructure/vtex"
)

// CatalogSyncConfig controls catalog paging
type CatalogSyncConfig struct {
	PageSize int
	Pause    time.Duration
	// MaxPages stops the walk early; 0 means until an empty page
	MaxPages int
}

// SyncReport summarizes a catalog sync run
type SyncReport struct {
	Store     domain.StoreID `json:"store"`
	Pages     int            `json:"pages"`
	Fetched   int            `json:"fetched"`
	Unique    int            `json:"unique"`
	Snapshots int            `json:"snapshots"`
	Saved     int            `json:"saved"`
}

// CatalogSync dumps a store's catalog page by page into a snapshot repository
type CatalogSync struct {
	store   domain.StoreID
	catalog domain.CatalogClient
	repo    domain.SnapshotRepository
	config  CatalogSyncConfig
	logger  zerolog.Logger

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// NewCatalogSync creates a catalog sync for one store
func NewCatalogSync(
	store domain.StoreID,
	catalog domain.CatalogClient,
	repo domain.SnapshotRepository,
	config CatalogSyncConfig,
) *CatalogSync {
	if config.PageSize <= 0 {
		config.PageSize = 50
	}

	return &CatalogSync{
		store:   store,
		catalog: catalog,
		repo:    repo,
		config:  config,
		logger:  logging.Component("catalog_sync").With().Str("store", string(store)).Logger(),
		sleep:   sleepContext,
		now:     time.Now,
	}
}

// Run walks the catalog until an empty page (or MaxPages), keeps the last
// occurrence of each product id in first-seen order and saves one snapshot per item.
func (s *CatalogSync) Run(ctx context.Context) (*SyncReport, error) {
	report := &SyncReport{Store: s.store}

	var (
		order    []string
		products = make(map[string]domain.CatalogProduct)
	)

	for from := 0; s.config.MaxPages == 0 || report.Pages < s.config.MaxPages; from += s.config.PageSize {
		to := from + s.config.PageSize - 1
		page, err := s.catalog.Page(ctx, from, to)
		if err != nil {
			return report, fmt.Errorf("fetching products %d-%d: %w", from, to, err)
		}
		if len(page) == 0 {
			break
		}

		report.Pages++
		report.Fetched += len(page)
		for _, product := range page {
			id := product.ProductID.String()
			if id == "" {
				continue
			}
			if _, seen := products[id]; !seen {
				order = append(order, id)
			}
			products[id] = product
		}

		s.logger.Debug().Int("from", from).Int("to", to).Int("count", len(page)).Msg("page fetched")

		if err := s.sleep(ctx, s.config.Pause); err != nil {
			return report, err
		}
	}

	report.Unique = len(order)

	capturedAt := s.now().UTC()
	var snapshots []domain.CatalogSnapshot
	for _, id := range order {
		product := products[id]
		snapshots = append(snapshots, vtex.MapToSnapshots(s.store, &product, capturedAt)...)
	}
	report.Snapshots = len(snapshots)

	saved, err := s.repo.SaveSnapshots(ctx, snapshots)
	report.Saved = saved
	if err != nil {
		return report, fmt.Errorf("saving snapshots: %w", err)
	}

	s.logger.Info().
		Int("pages", report.Pages).
		Int("unique", report.Unique).
		Int("saved", report.Saved).
		Msg("catalog sync finished")

	return report, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
