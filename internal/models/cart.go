package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Favorite marks a product as saved by a user.
type Favorite struct {
	UserID    int       `db:"user_id" json:"userId"`
	ProductID int       `db:"product_id" json:"productId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`

	Product *Product `db:"-" json:"product,omitempty"`
}

// CartItem is one cart line. UnitPrice is a snapshot taken when the line was
// added or last changed.
type CartItem struct {
	ID              int             `db:"id" json:"id"`
	UserID          int             `db:"user_id" json:"-"`
	ProductID       int             `db:"product_id" json:"productId"`
	ConfigurationID *string         `db:"configuration_id" json:"configurationId,omitempty"`
	Quantity        int             `db:"quantity" json:"quantity"`
	UnitPrice       decimal.Decimal `db:"unit_price" json:"unitPrice"`
	CreatedAt       time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updatedAt"`

	Product *Product `db:"-" json:"product,omitempty"`
}

// LineTotal returns unit price times quantity.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is the read model returned for a user's cart.
type Cart struct {
	Items     []CartItem      `json:"items"`
	ItemCount int             `json:"itemCount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}
