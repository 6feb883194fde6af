package utils

import "errors"

// Common application errors used across services.
var (
	ErrProductNotFound         = errors.New("PRODUCT_NOT_FOUND")
	ErrConfigurationNotFound   = errors.New("CONFIGURATION_NOT_FOUND")
	ErrConfigurationMismatch   = errors.New("CONFIGURATION_MISMATCH")
	ErrInvalidVariantSelection = errors.New("INVALID_VARIANT_SELECTION")
	ErrInvalidPrice            = errors.New("INVALID_PRICE")
	ErrInvalidQuantity         = errors.New("INVALID_QUANTITY")
	ErrCartItemNotFound        = errors.New("CART_ITEM_NOT_FOUND")
	ErrFavoriteNotFound        = errors.New("FAVORITE_NOT_FOUND")
	ErrUserNotFound            = errors.New("USER_NOT_FOUND")
	ErrEmailTaken              = errors.New("EMAIL_TAKEN")
	ErrWeakPassword            = errors.New("WEAK_PASSWORD")
	ErrMissingBusinessDetails  = errors.New("MISSING_BUSINESS_DETAILS")
	ErrInvalidCredentials      = errors.New("INVALID_CREDENTIALS")
	ErrAccountInactive         = errors.New("ACCOUNT_INACTIVE")
	ErrInvalidToken            = errors.New("INVALID_TOKEN")
	ErrTokenRevoked            = errors.New("TOKEN_REVOKED")
)
