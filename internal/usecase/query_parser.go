package usecase

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/skuprice/backend/internal/domain"
)

// codePattern extracts the first run of 6 or more digits
var codePattern = regexp.MustCompile(`\b(\d{6,})\b`)

// fullCodePattern validates a code passed on its own (HTTP path parameter)
var fullCodePattern = regexp.MustCompile(`^\d{6,}$`)

// fullInfoTriggers switch the answer from a one-line summary to a full report.
// They are matched against folded text, so accents and case do not matter.
var fullInfoTriggers = []string{
	"info completa",
	"informacion completa",
	"completo",
	"completa",
	"todo",
}

// ParseQuery extracts the store, the SKU/EAN code and the full-info intent
// from a free-text question. Stores are tried in the given order and the first
// whose name appears in the question wins; no match means all stores.
func ParseQuery(raw string, stores []domain.StoreID) (*domain.Query, error) {
	folded := foldText(raw)

	match := codePattern.FindStringSubmatch(folded)
	if match == nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrValidation, strings.TrimSpace(raw))
	}

	query := &domain.Query{
		Raw:  strings.TrimSpace(raw),
		Code: match[1],
	}

	for _, id := range stores {
		name := foldText(string(id))
		if name != "" && strings.Contains(folded, name) {
			query.Store = id
			break
		}
	}

	for _, trigger := range fullInfoTriggers {
		if strings.Contains(folded, trigger) {
			query.FullInfo = true
			break
		}
	}

	return query, nil
}

// ValidCode reports whether s is a bare SKU/EAN code
func ValidCode(s string) bool {
	return fullCodePattern.MatchString(s)
}

// foldText lowercases s and strips diacritics ("Olímpica" -> "olimpica").
// A new transformer is built per call since transformers keep state.
func foldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}
