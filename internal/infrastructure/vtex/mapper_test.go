package vtex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skuprice/backend/internal/domain"
)

func TestMapToSnapshots(t *testing.T) {
	var products []domain.CatalogProduct
	require.NoError(t, json.Unmarshal([]byte(sampleSearchResponse), &products))

	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	snapshots := MapToSnapshots(domain.StoreMetro, &products[0], now)

	require.Len(t, snapshots, 1)
	s := snapshots[0]
	assert.Equal(t, domain.StoreMetro, s.Store)
	assert.Equal(t, "4102", s.ProductID)
	assert.Equal(t, "100123", s.SkuID)
	assert.Equal(t, "7702001000012", s.EAN)
	assert.Equal(t, "Leche Entera 1100 ml", s.Name)
	assert.Equal(t, "Alquería", s.Brand)
	require.NotNil(t, s.Price)
	assert.Equal(t, 45000.0, *s.Price)
	assert.True(t, s.Available)
	assert.Equal(t, now, s.CapturedAt)
}

func TestMapToSnapshots_SkipsItemsWithoutIDAndOffer(t *testing.T) {
	product := &domain.CatalogProduct{
		ProductID:   "9",
		ProductName: "Arroz",
		Items: []domain.Item{
			{ItemID: ""},
			{ItemID: "55"},
		},
	}

	snapshots := MapToSnapshots(domain.StoreOlimpica, product, time.Now())

	require.Len(t, snapshots, 1)
	assert.Equal(t, "55", snapshots[0].SkuID)
	assert.Equal(t, "Arroz", snapshots[0].Name, "falls back to product name")
	assert.Nil(t, snapshots[0].Price)
	assert.False(t, snapshots[0].Available)
}
