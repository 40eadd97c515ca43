package domain

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// StoreID identifies one of the supported storefronts
type StoreID string

const (
	StoreMetro    StoreID = "metro"
	StoreOlimpica StoreID = "olimpica"
	StoreExito    StoreID = "exito"
)

// StoreKind selects the lookup strategy used for a store
type StoreKind string

const (
	// StoreKindVTEX resolves through the general catalog search only
	StoreKindVTEX StoreKind = "vtex"
	// StoreKindExito adds the getProductBySku cross-reference
	StoreKindExito StoreKind = "exito"
)

// DisplayName returns the store id in title case ("metro" -> "Metro").
// Casers keep state, so one is built per call.
func (s StoreID) DisplayName() string {
	return cases.Title(language.Und).String(string(s))
}

// Valid reports whether the kind is one of the known strategies
func (k StoreKind) Valid() bool {
	return k == StoreKindVTEX || k == StoreKindExito
}

// Store is a configured storefront
type Store struct {
	ID            StoreID
	Kind          StoreKind
	BaseURL       string
	DetailBaseURL string
}
