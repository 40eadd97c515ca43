package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/skuprice/backend/internal/domain"
	"github.com/skuprice/backend/internal/usecase"
)

const (
	serviceName = "skuprice"
	version     = "1.0.0"
)

// PriceService is the use case behind the price endpoints
type PriceService interface {
	Ask(ctx context.Context, raw string) (*usecase.Answer, error)
	Product(ctx context.Context, store domain.StoreID, code string) (*domain.NormalizedProduct, error)
	Stores() []domain.Store
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	prices PriceService
}

// NewHandler creates a new HTTP handler. prices may be nil, in which case
// the price endpoints answer 503.
func NewHandler(prices PriceService) *Handler {
	return &Handler{prices: prices}
}

// StoreResponse describes a configured store
type StoreResponse struct {
	ID      domain.StoreID   `json:"id"`
	Name    string           `json:"name"`
	Kind    domain.StoreKind `json:"kind"`
	BaseURL string           `json:"baseUrl"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": version,
	})
}

// ListStores returns the configured stores in lookup order
func (h *Handler) ListStores(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	stores := h.prices.Stores()
	response := make([]StoreResponse, 0, len(stores))
	for _, s := range stores {
		response = append(response, StoreResponse{
			ID:      s.ID,
			Name:    s.ID.DisplayName(),
			Kind:    s.Kind,
			BaseURL: s.BaseURL,
		})
	}

	c.JSON(http.StatusOK, gin.H{"stores": response})
}

// AskPrice answers a free-text question passed as ?q=
func (h *Handler) AskPrice(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	question := strings.TrimSpace(c.Query("q"))
	if question == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'q' is required"})
		return
	}

	answer, err := h.prices.Ask(c.Request.Context(), question)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, answer)
}

// GetProduct returns the normalized product for a store and code
func (h *Handler) GetProduct(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	store := domain.StoreID(strings.ToLower(c.Param("store")))
	code := c.Param("code")

	product, err := h.prices.Product(c.Request.Context(), store, code)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *Handler) ready(c *gin.Context) bool {
	if h.prices == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "price service not configured"})
		return false
	}
	return true
}

// writeError maps domain errors to HTTP status codes
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := err.Error()

	switch {
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
		message = usecase.UserMessage(err)
	case errors.Is(err, domain.ErrStoreNotFound), errors.Is(err, domain.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrProductNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrNetwork):
		status = http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}

	c.JSON(status, gin.H{"error": message})
}
