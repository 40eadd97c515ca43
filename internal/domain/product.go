package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// FlexString decodes a JSON string or number into its string form.
// VTEX is not consistent about ids: itemId and ean arrive as either.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexString) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		// booleans and objects end up as their raw text
		*f = FlexString(strings.Trim(string(data), `"`))
		return nil
	}
	*f = FlexString(n.String())
	return nil
}

// String returns the plain string value
func (f FlexString) String() string {
	return string(f)
}

// CatalogProduct is a product as returned by the VTEX catalog search endpoint
type CatalogProduct struct {
	ProductID         FlexString `json:"productId"`
	ProductName       string     `json:"productName"`
	Brand             string     `json:"brand"`
	Description       string     `json:"description"`
	Link              string     `json:"link"`
	LinkText          string     `json:"linkText"`
	Categories        []string   `json:"categories"`
	AllSpecifications []string   `json:"allSpecifications"`
	Items             []Item     `json:"items"`

	// Specifications holds the free-text attributes named in AllSpecifications.
	// VTEX puts each one at the top level of the product object.
	Specifications map[string]string `json:"-"`
}

// UnmarshalJSON decodes the typed fields and then collects the dynamic specification keys
func (p *CatalogProduct) UnmarshalJSON(data []byte) error {
	type plain CatalogProduct
	var base plain
	if err := json.Unmarshal(data, &base); err != nil {
		return err
	}
	*p = CatalogProduct(base)

	if len(p.AllSpecifications) == 0 {
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	specs := make(map[string]string, len(p.AllSpecifications))
	for _, name := range p.AllSpecifications {
		value, ok := raw[name]
		if !ok {
			continue
		}
		var values []string
		if err := json.Unmarshal(value, &values); err == nil {
			specs[name] = strings.Join(values, ", ")
			continue
		}
		var single string
		if err := json.Unmarshal(value, &single); err == nil {
			specs[name] = single
		}
	}
	if len(specs) > 0 {
		p.Specifications = specs
	}
	return nil
}

// FirstItem returns the first item of the product or nil when there is none
func (p *CatalogProduct) FirstItem() *Item {
	if p == nil || len(p.Items) == 0 {
		return nil
	}
	return &p.Items[0]
}

// Category returns the first (deepest) category path in a readable form
func (p *CatalogProduct) Category() string {
	if p == nil {
		return ""
	}
	for _, c := range p.Categories {
		parts := strings.FieldsFunc(c, func(r rune) bool { return r == '/' })
		if len(parts) > 0 {
			return strings.Join(parts, " / ")
		}
	}
	return ""
}

// Item is a sellable variant (SKU) of a catalog product
type Item struct {
	ItemID  FlexString `json:"itemId"`
	EAN     FlexString `json:"ean"`
	Name    string     `json:"name"`
	Images  []Image    `json:"images"`
	Sellers []Seller   `json:"sellers"`
}

// Matches reports whether code equals the item's id or barcode.
// The comparison is plain string equality: leading zeros are significant.
func (i *Item) Matches(code string) bool {
	if i == nil {
		return false
	}
	return i.ItemID.String() == code || i.EAN.String() == code
}

// SelectedOffer returns the first seller's commercial offer, or nil
func (i *Item) SelectedOffer() *Offer {
	if i == nil || len(i.Sellers) == 0 {
		return nil
	}
	return &i.Sellers[0].CommertialOffer
}

// ImageURL returns the representative image of the item
func (i *Item) ImageURL() string {
	if i == nil {
		return ""
	}
	for _, img := range i.Images {
		if img.ImageURL != "" {
			return img.ImageURL
		}
	}
	return ""
}

// Image is a product picture
type Image struct {
	ImageID    FlexString `json:"imageId"`
	ImageLabel string     `json:"imageLabel"`
	ImageURL   string     `json:"imageUrl"`
}

// Seller carries one seller's offer for an item
type Seller struct {
	SellerID        FlexString `json:"sellerId"`
	SellerName      string     `json:"sellerName"`
	CommertialOffer Offer      `json:"commertialOffer"`
}

// Offer holds the commercial terms of a seller. A nil Price means no usable price.
type Offer struct {
	Price                *float64 `json:"Price"`
	ListPrice            *float64 `json:"ListPrice"`
	PriceWithoutDiscount *float64 `json:"PriceWithoutDiscount"`
	FullSellingPrice     *float64 `json:"FullSellingPrice"`
	PriceValidUntil      string   `json:"PriceValidUntil"`
	IsAvailable          bool     `json:"IsAvailable"`
	AvailableQuantity    int      `json:"AvailableQuantity"`
}

// HasPrice reports whether the offer carries a usable price
func (o *Offer) HasPrice() bool {
	return o != nil && o.Price != nil
}

// DetailRecord is the Éxito product-detail representation of a SKU.
// It is only used as a price fallback when the catalog has no offer.
type DetailRecord struct {
	SkuID   string
	Product CatalogProduct
}

// Offer returns items[0].sellers[0].commertialOffer, or nil if any link is missing
func (r *DetailRecord) Offer() *Offer {
	if r == nil {
		return nil
	}
	return r.Product.FirstItem().SelectedOffer()
}

// PriceQuote is the compact result of a price lookup
type PriceQuote struct {
	Store     StoreID  `json:"store"`
	Code      string   `json:"code"`
	Name      string   `json:"name"`
	Price     *float64 `json:"price"`
	ListPrice *float64 `json:"listPrice,omitempty"`
}

// NormalizedProduct is the canonical, store-independent view of a lookup
type NormalizedProduct struct {
	Store           StoreID           `json:"store"`
	StoreName       string            `json:"storeName"`
	QueriedCode     string            `json:"queriedCode"`
	SkuID           string            `json:"skuId"`
	EAN             string            `json:"ean"`
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	Category        string            `json:"category"`
	Brand           string            `json:"brand"`
	Specifications  map[string]string `json:"specifications,omitempty"`
	Price           string            `json:"price"`
	ListPrice       string            `json:"listPrice"`
	DiscountPct     *int              `json:"discountPct,omitempty"`
	Savings         *string           `json:"savings,omitempty"`
	Available       bool              `json:"available"`
	PriceValidUntil string            `json:"priceValidUntil,omitempty"`
	ImageURL        string            `json:"imageUrl"`
	Link            string            `json:"link"`
}

// CatalogSnapshot is one flattened (store, sku) row captured by a catalog sync
type CatalogSnapshot struct {
	Store      StoreID   `json:"store"`
	ProductID  string    `json:"productId"`
	SkuID      string    `json:"skuId"`
	EAN        string    `json:"ean"`
	Name       string    `json:"name"`
	Brand      string    `json:"brand"`
	Price      *float64  `json:"price"`
	ListPrice  *float64  `json:"listPrice"`
	Available  bool      `json:"available"`
	CapturedAt time.Time `json:"capturedAt"`
}
