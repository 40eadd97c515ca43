// Package vtex talks to the public VTEX catalog search endpoint of a storefront.
package vtex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/skuprice/backend/internal/domain"
	"github.com/skuprice/backend/internal/infrastructure/logging"
	"github.com/skuprice/backend/internal/infrastructure/webclient"
)

const searchPath = "/api/catalog_system/pub/products/search/"

// Getter is the HTTP capability the catalog client needs
type Getter interface {
	Get(ctx context.Context, url string) (*webclient.Response, error)
}

// Client handles communication with one store's VTEX catalog
type Client struct {
	web     Getter
	baseURL string
	logger  zerolog.Logger
}

// NewClient creates a new catalog client for the store at baseURL
func NewClient(web Getter, baseURL string) *Client {
	return &Client{
		web:     web,
		baseURL: baseURL,
		logger:  logging.Component("vtex").With().Str("base", baseURL).Logger(),
	}
}

// SearchURL builds the catalog search URL for a filter
func SearchURL(baseURL string, filter domain.CatalogFilter) string {
	params := url.Values{}
	switch filter.Kind {
	case domain.FilterSkuID:
		params.Set("fq", "skuId:"+filter.Value)
	case domain.FilterEAN:
		params.Set("fq", "alternateIds_Ean:"+filter.Value)
	default:
		params.Set("ft", filter.Value)
	}
	return fmt.Sprintf("%s%s?%s", baseURL, searchPath, params.Encode())
}

// PageURL builds the catalog listing URL for the inclusive range [from, to]
func PageURL(baseURL string, from, to int) string {
	params := url.Values{}
	params.Set("_from", strconv.Itoa(from))
	params.Set("_to", strconv.Itoa(to))
	return fmt.Sprintf("%s%s?%s", baseURL, searchPath, params.Encode())
}

// Search runs one catalog query. A non-200 status, an undecodable body and
// an empty array all mean "no result at this step" and yield
// domain.ErrProductNotFound; transport failures come back as domain.ErrNetwork.
func (c *Client) Search(ctx context.Context, filter domain.CatalogFilter) ([]domain.CatalogProduct, error) {
	reqURL := SearchURL(c.baseURL, filter)

	resp, err := c.web.Get(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	if !resp.OK() {
		c.logger.Debug().Stringer("filter", filter.Kind).Str("code", filter.Value).
			Int("status", resp.StatusCode).Msg("catalog search returned non-200")
		return nil, fmt.Errorf("%w: status %d", domain.ErrProductNotFound, resp.StatusCode)
	}

	var products []domain.CatalogProduct
	if err := json.Unmarshal(resp.Body, &products); err != nil {
		c.logger.Warn().Stringer("filter", filter.Kind).Str("code", filter.Value).Err(err).
			Msg("catalog search returned an unexpected body")
		return nil, fmt.Errorf("%w: undecodable response: %v", domain.ErrProductNotFound, err)
	}

	if len(products) == 0 {
		c.logger.Debug().Stringer("filter", filter.Kind).Str("code", filter.Value).Msg("catalog search empty")
		return nil, domain.ErrProductNotFound
	}

	c.logger.Debug().Stringer("filter", filter.Kind).Str("code", filter.Value).
		Int("products", len(products)).Msg("catalog search hit")
	return products, nil
}

// Page lists the catalog range [from, to]. An empty page marks the end of the
// catalog and is returned as an empty slice with no error.
func (c *Client) Page(ctx context.Context, from, to int) ([]domain.CatalogProduct, error) {
	resp, err := c.web.Get(ctx, PageURL(c.baseURL, from, to))
	if err != nil {
		return nil, err
	}

	// VTEX answers 206 Partial Content for listing ranges
	if resp.StatusCode != 200 && resp.StatusCode != 206 {
		return nil, fmt.Errorf("catalog page %d-%d: status %d", from, to, resp.StatusCode)
	}

	var products []domain.CatalogProduct
	if err := json.Unmarshal(resp.Body, &products); err != nil {
		return nil, fmt.Errorf("failed to decode catalog page %d-%d: %w", from, to, err)
	}

	return products, nil
}
