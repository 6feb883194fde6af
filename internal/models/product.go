package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices travel as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product represents a catalog item with its base price.
// Fields are tagged for both DB scanning and JSON serialization.
type Product struct {
	ID          int             `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Description string          `db:"description" json:"description"`
	Category    string          `db:"category" json:"category"`
	BasePrice   decimal.Decimal `db:"base_price" json:"basePrice"`
	IsAvailable bool            `db:"is_available" json:"isAvailable"`
	ImageURL    string          `db:"image_url" json:"imageUrl,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updatedAt"`

	// Populated on detail reads only.
	Variants []Variant `db:"-" json:"variants,omitempty"`
}

// Variant is a choice under a product (a color, a size) with an optional price delta.
type Variant struct {
	ID          int                 `db:"id" json:"id"`
	ProductID   int                 `db:"product_id" json:"productId"`
	Name        string              `db:"name" json:"name"`
	Value       string              `db:"value" json:"value"`
	PriceDelta  decimal.NullDecimal `db:"price_delta" json:"priceDelta"`
	IsAvailable bool                `db:"is_available" json:"isAvailable"`
	CreatedAt   time.Time           `db:"created_at" json:"-"`
	UpdatedAt   time.Time           `db:"updated_at" json:"-"`
}

// Delta returns the variant's price delta, zero when none is set.
func (v Variant) Delta() decimal.Decimal {
	if !v.PriceDelta.Valid {
		return decimal.Zero
	}
	return v.PriceDelta.Decimal
}

// ProductSort enumerates the supported catalog orderings.
type ProductSort string

const (
	ProductSortNewest    ProductSort = "newest"
	ProductSortPriceAsc  ProductSort = "price_asc"
	ProductSortPriceDesc ProductSort = "price_desc"
	ProductSortName      ProductSort = "name"
)

// Valid reports whether s is a known ordering.
func (s ProductSort) Valid() bool {
	switch s {
	case ProductSortNewest, ProductSortPriceAsc, ProductSortPriceDesc, ProductSortName:
		return true
	}
	return false
}

// ProductFilter holds shop filtering parameters. Empty values are ignored.
type ProductFilter struct {
	Category  string
	Search    string
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	Available *bool
	Sort      ProductSort
	Page      int
	Limit     int
}

// Normalize applies paging defaults and bounds.
func (f *ProductFilter) Normalize() {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
	if !f.Sort.Valid() {
		f.Sort = ProductSortNewest
	}
}

// Offset returns the number of rows to skip for the current page.
func (f ProductFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}
