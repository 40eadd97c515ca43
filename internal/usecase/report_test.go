package usecase

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skuprice/backend/internal/domain"
)

func TestSummaryLine(t *testing.T) {
	quote := func(p, list *float64) *StoreResult {
		return &StoreResult{
			Store: domain.StoreMetro,
			Found: true,
			Quote: &domain.PriceQuote{Store: domain.StoreMetro, Name: "Arroz", Price: p, ListPrice: list},
		}
	}

	tests := []struct {
		name   string
		result *StoreResult
		want   string
	}{
		{"with list price", quote(price(45000), price(60000)), "Metro | Arroz | Precio: $ 45.000 (antes $ 60.000)"},
		{"list price equals price", quote(price(45000), price(45000)), "Metro | Arroz | Precio: $ 45.000"},
		{"zero list price", quote(price(45000), price(0)), "Metro | Arroz | Precio: $ 45.000"},
		{"no list price", quote(price(45000), nil), "Metro | Arroz | Precio: $ 45.000"},
		{"no price", quote(nil, price(1)), "No encontré precio para 123456 en metro."},
		{"not found", &StoreResult{Store: domain.StoreOlimpica}, "No encontré precio para 123456 en olimpica."},
		{"error", &StoreResult{Store: domain.StoreExito, Error: "network request failed"}, "Error consultando exito: network request failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SummaryLine("123456", tt.result))
		})
	}
}

func TestFullBlock(t *testing.T) {
	pct := 25
	savings := "$ 15.000"
	result := &StoreResult{
		Store: domain.StoreOlimpica,
		Found: true,
		Product: &domain.NormalizedProduct{
			Store:          domain.StoreOlimpica,
			StoreName:      "Olimpica",
			SkuID:          "100",
			EAN:            ean,
			Name:           "Arroz",
			Brand:          "Diana",
			Category:       "Despensa / Granos",
			Description:    "N/A",
			Specifications: map[string]string{"Peso": "500 g", "Contenido": "1 und"},
			Price:          "$ 45.000",
			ListPrice:      "$ 60.000",
			DiscountPct:    &pct,
			Savings:        &savings,
			Available:      true,
			ImageURL:       "N/A",
			Link:           "https://www.olimpica.com/arroz/p",
		},
	}

	block := FullBlock(ean, result)

	assert.Contains(t, block, "Tienda: Olimpica\nProducto: Arroz\n")
	assert.Contains(t, block, "Descuento: 25% (ahorro $ 15.000)")
	assert.Contains(t, block, "Disponible: Sí")
	assert.Contains(t, block, "Especificaciones:\n  - Contenido: 1 und\n  - Peso: 500 g\n")
	assert.NotContains(t, block, "Precio válido hasta")
	assert.True(t, strings.HasSuffix(block, "Link: https://www.olimpica.com/arroz/p"))

	assert.Equal(t, "No encontré info para 123456 en metro.", FullBlock("123456", &StoreResult{Store: domain.StoreMetro}))
}

func TestRender(t *testing.T) {
	results := []StoreResult{
		{Store: domain.StoreMetro},
		{Store: domain.StoreExito},
	}

	summary := Render(&domain.Query{Code: "123456"}, results)
	assert.Equal(t, "No encontré precio para 123456 en metro.\nNo encontré precio para 123456 en exito.", summary)

	full := Render(&domain.Query{Code: "123456", FullInfo: true}, results)
	assert.Equal(t,
		"No encontré info para 123456 en metro.\n"+strings.Repeat("-", 40)+"\nNo encontré info para 123456 en exito.",
		full)
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "Error: No pude detectar el SKU/EAN (número).",
		UserMessage(fmt.Errorf("%w: %q", domain.ErrValidation, "metro")))
	assert.Equal(t, "Error: boom", UserMessage(errors.New("boom")))

	tlsErr := fmt.Errorf("%w: %w: GET https://www.exito.com: %w",
		domain.ErrNetwork, domain.ErrTLSVerification, errors.New("x509: certificate signed by unknown authority"))
	msg := UserMessage(tlsErr)
	assert.True(t, strings.HasPrefix(msg, "Error SSL persistente.\nDetalle: "), msg)
	assert.Contains(t, msg, "unknown authority")
}
