// Package exito talks to Éxito's product-detail endpoint, which exposes
// prices the general catalog search does not always carry.
package exito

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/skuprice/backend/internal/domain"
	"github.com/skuprice/backend/internal/infrastructure/logging"
	"github.com/skuprice/backend/internal/infrastructure/vtex"
)

const detailPath = "/api/product/getProductBySku"

// Client handles communication with the getProductBySku endpoint
type Client struct {
	web     vtex.Getter
	baseURL string
	logger  zerolog.Logger
}

// NewClient creates a new detail client for the endpoint at baseURL
func NewClient(web vtex.Getter, baseURL string) *Client {
	return &Client{
		web:     web,
		baseURL: baseURL,
		logger:  logging.Component("exito"),
	}
}

// DetailURL builds the detail endpoint URL for an internal SKU id
func DetailURL(baseURL, skuID string) string {
	params := url.Values{}
	params.Set("skuid", skuID)
	return fmt.Sprintf("%s%s?%s", baseURL, detailPath, params.Encode())
}

// GetProductBySku fetches the detail record for skuID. Status >= 400, an
// empty array and an undecodable body all yield domain.ErrProductNotFound.
func (c *Client) GetProductBySku(ctx context.Context, skuID string) (*domain.DetailRecord, error) {
	resp, err := c.web.Get(ctx, DetailURL(c.baseURL, skuID))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		c.logger.Debug().Str("skuid", skuID).Int("status", resp.StatusCode).Msg("detail endpoint error status")
		return nil, fmt.Errorf("%w: status %d", domain.ErrProductNotFound, resp.StatusCode)
	}

	var products []domain.CatalogProduct
	if err := json.Unmarshal(resp.Body, &products); err != nil {
		c.logger.Warn().Str("skuid", skuID).Err(err).Msg("detail endpoint returned an unexpected body")
		return nil, fmt.Errorf("%w: undecodable response: %v", domain.ErrProductNotFound, err)
	}

	if len(products) == 0 {
		return nil, domain.ErrProductNotFound
	}

	return &domain.DetailRecord{SkuID: skuID, Product: products[0]}, nil
}
