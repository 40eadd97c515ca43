package usecase

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/skuprice/backend/internal/domain"
)

// blockSeparator goes between full reports of different stores
var blockSeparator = "\n" + strings.Repeat("-", 40) + "\n"

// Render formats per-store results as one line each, or as full blocks
// separated by a dashed rule when full info was requested.
func Render(query *domain.Query, results []StoreResult) string {
	parts := make([]string, 0, len(results))
	for i := range results {
		if query.FullInfo {
			parts = append(parts, FullBlock(query.Code, &results[i]))
		} else {
			parts = append(parts, SummaryLine(query.Code, &results[i]))
		}
	}

	if query.FullInfo {
		return strings.Join(parts, blockSeparator)
	}
	return strings.Join(parts, "\n")
}

// SummaryLine renders "Metro | Arroz | Precio: $ 45.000 (antes $ 60.000)"
func SummaryLine(code string, result *StoreResult) string {
	if result.Error != "" {
		return fmt.Sprintf("Error consultando %s: %s", result.Store, result.Error)
	}

	quote := result.Quote
	if quote == nil || quote.Price == nil {
		return fmt.Sprintf("No encontré precio para %s en %s.", code, result.Store)
	}

	line := fmt.Sprintf("%s | %s | Precio: %s", result.Store.DisplayName(), quote.Name, Money(quote.Price))
	if lp := quote.ListPrice; lp != nil && *lp != 0 && *lp != *quote.Price {
		line += fmt.Sprintf(" (antes %s)", Money(lp))
	}
	return line
}

// FullBlock renders the labelled report of a normalized product
func FullBlock(code string, result *StoreResult) string {
	if result.Error != "" {
		return fmt.Sprintf("Error consultando %s: %s", result.Store, result.Error)
	}

	p := result.Product
	if p == nil {
		return fmt.Sprintf("No encontré info para %s en %s.", code, result.Store)
	}

	var b strings.Builder
	field := func(label, value string) {
		fmt.Fprintf(&b, "%s: %s\n", label, value)
	}

	field("Tienda", p.StoreName)
	field("Producto", p.Name)
	field("SKU", p.SkuID)
	field("EAN", p.EAN)
	field("Marca", p.Brand)
	field("Categoría", p.Category)
	field("Precio", p.Price)
	field("Precio antes", p.ListPrice)
	if p.DiscountPct != nil && p.Savings != nil {
		field("Descuento", fmt.Sprintf("%d%% (ahorro %s)", *p.DiscountPct, *p.Savings))
	}
	field("Disponible", yesNo(p.Available))
	if p.PriceValidUntil != "" {
		field("Precio válido hasta", p.PriceValidUntil)
	}
	field("Descripción", p.Description)
	if len(p.Specifications) > 0 {
		b.WriteString("Especificaciones:\n")
		keys := make([]string, 0, len(p.Specifications))
		for k := range p.Specifications {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "  - %s: %s\n", k, p.Specifications[k])
		}
	}
	field("Imagen", p.ImageURL)
	field("Link", p.Link)

	return strings.TrimSuffix(b.String(), "\n")
}

// UserMessage turns a query-level error into the text shown to the user
func UserMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrTLSVerification):
		return "Error SSL persistente.\nDetalle: " + err.Error()
	case errors.Is(err, domain.ErrValidation):
		return "Error: No pude detectar el SKU/EAN (número)."
	case errors.Is(err, domain.ErrStoreNotFound):
		return "Error: Tienda no configurada."
	default:
		return "Error: " + err.Error()
	}
}

// storeErrorText is the per-store failure detail shown after "Error consultando {store}: "
func storeErrorText(err error) string {
	if errors.Is(err, domain.ErrTLSVerification) {
		return "SSL persistente. Detalle: " + err.Error()
	}
	return err.Error()
}

func yesNo(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}
