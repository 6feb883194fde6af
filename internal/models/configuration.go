package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// VariantSelection maps a caller-chosen slot name ("color") to a variant id.
type VariantSelection map[string]int

// VariantIDs returns the distinct variant ids of the selection in ascending order.
func (s VariantSelection) VariantIDs() []int {
	seen := make(map[int]struct{}, len(s))
	ids := make([]int, 0, len(s))
	for _, id := range s {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Value implements driver.Valuer for database storage
func (s VariantSelection) Value() (driver.Value, error) {
	if s == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner for database retrieval
func (s *VariantSelection) Scan(value interface{}) error {
	if value == nil {
		*s = VariantSelection{}
		return nil
	}
	bytes, ok := asBytes(value)
	if !ok {
		return errors.New("failed to scan VariantSelection")
	}
	return json.Unmarshal(bytes, s)
}

// ConfigOptions holds free-form option values keyed by option name.
type ConfigOptions map[string]interface{}

// Value implements driver.Valuer for database storage
func (o ConfigOptions) Value() (driver.Value, error) {
	if o == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(o)
}

// Scan implements sql.Scanner for database retrieval
func (o *ConfigOptions) Scan(value interface{}) error {
	if value == nil {
		*o = ConfigOptions{}
		return nil
	}
	bytes, ok := asBytes(value)
	if !ok {
		return errors.New("failed to scan ConfigOptions")
	}
	return json.Unmarshal(bytes, o)
}

func asBytes(value interface{}) ([]byte, bool) {
	switch v := value.(type) {
	case []byte:
		return v, true
	case string:
		return []byte(v), true
	}
	return nil, false
}

// Configuration is a user's saved selection of variants and options for a
// product together with the price derived at its last write.
type Configuration struct {
	ID               string           `db:"id" json:"id"`
	UserID           int              `db:"user_id" json:"userId"`
	ProductID        int              `db:"product_id" json:"productId"`
	SelectedVariants VariantSelection `db:"selected_variants" json:"selectedVariants"`
	Options          ConfigOptions    `db:"options" json:"options"`
	CalculatedPrice  decimal.Decimal  `db:"calculated_price" json:"calculatedPrice"`
	CreatedAt        time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updatedAt"`

	Product *Product `db:"-" json:"product,omitempty"`
}
