package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/storefront_api/internal/utils"
)

type apiError struct {
	status  int
	code    string
	message string
}

// knownErrors maps service sentinels to HTTP responses. Anything not listed
// is answered with a 500.
var knownErrors = []struct {
	err error
	api apiError
}{
	{utils.ErrProductNotFound, apiError{404, "PRODUCT_NOT_FOUND", "Product not found"}},
	{utils.ErrConfigurationNotFound, apiError{404, "CONFIGURATION_NOT_FOUND", "Configuration not found"}},
	{utils.ErrCartItemNotFound, apiError{404, "CART_ITEM_NOT_FOUND", "Cart item not found"}},
	{utils.ErrFavoriteNotFound, apiError{404, "FAVORITE_NOT_FOUND", "Favorite not found"}},
	{utils.ErrUserNotFound, apiError{404, "USER_NOT_FOUND", "User not found"}},
	{utils.ErrConfigurationMismatch, apiError{400, "CONFIGURATION_MISMATCH", "Configuration does not belong to this product"}},
	{utils.ErrInvalidVariantSelection, apiError{400, "INVALID_VARIANT_SELECTION", "Selected variants do not belong to this product"}},
	{utils.ErrInvalidPrice, apiError{400, "INVALID_PRICE", "Price must not be negative"}},
	{utils.ErrInvalidQuantity, apiError{400, "INVALID_QUANTITY", "Quantity must be greater than zero"}},
	{utils.ErrWeakPassword, apiError{400, "WEAK_PASSWORD", "Password must be at least 8 characters"}},
	{utils.ErrMissingBusinessDetails, apiError{400, "MISSING_BUSINESS_DETAILS", "Company name and VAT number are required"}},
	{utils.ErrInvalidCredentials, apiError{401, "INVALID_CREDENTIALS", "Invalid email or password"}},
	{utils.ErrInvalidToken, apiError{401, "INVALID_TOKEN", "Invalid or expired token"}},
	{utils.ErrTokenRevoked, apiError{401, "TOKEN_REVOKED", "Token has been revoked"}},
	{utils.ErrAccountInactive, apiError{403, "ACCOUNT_INACTIVE", "Account is inactive"}},
	{utils.ErrEmailTaken, apiError{409, "EMAIL_TAKEN", "Email is already registered"}},
}

// handleError writes the envelope for err. Unknown errors are logged and
// hidden behind a generic message.
func handleError(c *gin.Context, err error) {
	for _, known := range knownErrors {
		if errors.Is(err, known.err) {
			utils.Error(c, known.api.status, known.api.code, known.api.message)
			return
		}
	}

	log.Error().
		Err(err).
		Str("request_id", c.GetString("request_id")).
		Str("path", c.Request.URL.Path).
		Msg("Request failed")
	utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
}

// bindJSON decodes the body into req and writes a validation error on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.ValidationError(c, "Invalid request body", utils.BindingErrors(err))
		return false
	}
	return true
}

// intParam reads a positive integer path parameter and writes a validation
// error when it is malformed.
func intParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil || v <= 0 {
		utils.ValidationError(c, "Invalid path parameter", []utils.FieldError{{Field: name, Message: "must be a positive integer"}})
		return 0, false
	}
	return v, true
}

// uuidParam reads a UUID path parameter and writes a validation error when
// it is malformed.
func uuidParam(c *gin.Context, name string) (string, bool) {
	raw := c.Param(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		utils.ValidationError(c, "Invalid path parameter", []utils.FieldError{{Field: name, Message: "must be a valid UUID"}})
		return "", false
	}
	return id.String(), true
}
