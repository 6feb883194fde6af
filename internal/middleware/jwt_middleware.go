package middleware

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/storefront_api/internal/utils"
)

// Context keys set by JWTMiddleware.
const (
	ContextUserID      = "user_id"
	ContextTokenID     = "token_id"
	ContextTokenExpiry = "token_exp"
	ContextAccountType = "account_type"
)

// Authenticator validates bearer tokens.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*utils.Claims, error)
}

// JWTMiddleware authenticates users from a Bearer token.
type JWTMiddleware struct {
	auth Authenticator
}

// NewJWTMiddleware constructs a new JWTMiddleware.
func NewJWTMiddleware(auth Authenticator) *JWTMiddleware {
	return &JWTMiddleware{auth: auth}
}

// Handle returns a Gin middleware function that enforces authentication.
func (m *JWTMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(c, 401, "UNAUTHORIZED", "Missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			utils.Error(c, 401, "UNAUTHORIZED", "Invalid authorization header")
			c.Abort()
			return
		}

		claims, err := m.auth.Authenticate(c.Request.Context(), parts[1])
		switch {
		case errors.Is(err, utils.ErrTokenRevoked):
			utils.Error(c, 401, "TOKEN_REVOKED", "Token has been revoked")
			c.Abort()
			return
		case errors.Is(err, utils.ErrInvalidToken):
			utils.Error(c, 401, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		case err != nil:
			log.Error().Err(err).Msg("Token authentication failed")
			utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextTokenID, claims.ID)
		c.Set(ContextAccountType, claims.AccountType)
		if claims.ExpiresAt != nil {
			c.Set(ContextTokenExpiry, claims.ExpiresAt.Time)
		}
		c.Next()
	}
}

// GetUserID returns the authenticated user id, or 0 outside authenticated routes.
func GetUserID(c *gin.Context) int {
	return c.GetInt(ContextUserID)
}

// GetToken returns the id and expiry of the token used for the request.
func GetToken(c *gin.Context) (string, time.Time) {
	return c.GetString(ContextTokenID), c.GetTime(ContextTokenExpiry)
}
