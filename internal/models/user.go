package models

import "time"

// AccountType distinguishes retail customers from B2B accounts.
type AccountType string

const (
	AccountTypeCustomer AccountType = "customer"
	AccountTypeBusiness AccountType = "business"
)

// User represents a storefront account.
type User struct {
	ID           int         `db:"id" json:"id"`
	Email        string      `db:"email" json:"email"`
	PasswordHash string      `db:"password_hash" json:"-"`
	Name         string      `db:"name" json:"name"`
	Phone        *string     `db:"phone" json:"phone,omitempty"`
	AccountType  AccountType `db:"account_type" json:"accountType"`
	CompanyName  *string     `db:"company_name" json:"companyName,omitempty"`
	VATNumber    *string     `db:"vat_number" json:"vatNumber,omitempty"`
	IsActive     bool        `db:"is_active" json:"isActive"`
	CreatedAt    time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updatedAt"`
}
