package usecase

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

const notAvailable = "N/A"

var hundred = decimal.NewFromInt(100)

// Money formats a value as Colombian pesos: "$ 45.000".
// Values are rounded half-to-even to whole pesos. nil renders as "N/A" and
// anything non-numeric is returned as-is.
func Money(v any) string {
	if isNil(v) {
		return notAvailable
	}
	d, ok := toDecimal(v)
	if !ok {
		return fmt.Sprint(v)
	}
	return "$ " + groupThousands(d.RoundBank(0).String())
}

// Discount is the saving of an offer against its list price
type Discount struct {
	Percent int
	Savings decimal.Decimal
}

// ComputeDiscount returns the discount when both prices are known and the list
// price is positive and above the current price.
func ComputeDiscount(price, listPrice *float64) (Discount, bool) {
	if price == nil || listPrice == nil || !finite(*price) || !finite(*listPrice) {
		return Discount{}, false
	}

	p := decimal.NewFromFloat(*price)
	l := decimal.NewFromFloat(*listPrice)
	if !l.IsPositive() || !l.GreaterThan(p) {
		return Discount{}, false
	}

	pct := decimal.NewFromInt(1).Sub(p.Div(l)).Mul(hundred).RoundBank(0)
	return Discount{
		Percent: int(pct.IntPart()),
		Savings: l.Sub(p),
	}, true
}

func isNil(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case *float64:
		return x == nil
	case *decimal.Decimal:
		return x == nil
	}
	return false
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x, true
	case *decimal.Decimal:
		return *x, true
	case float64:
		if !finite(x) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat(x), true
	case *float64:
		return toDecimal(*x)
	case float32:
		return toDecimal(float64(x))
	case int:
		return decimal.NewFromInt(int64(x)), true
	case int64:
		return decimal.NewFromInt(x), true
	case json.Number:
		return toDecimal(string(x))
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(x))
		if err != nil {
			return decimal.Decimal{}, false
		}
		return d, true
	}
	return decimal.Decimal{}, false
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// groupThousands inserts "." every three digits of an integer string
func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}

	var b strings.Builder
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s[i : i+3])
	}
	return sign + b.String()
}
