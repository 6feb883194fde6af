package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the JWT payload issued to storefront users.
type Claims struct {
	UserID      int    `json:"uid"`
	Email       string `json:"email"`
	AccountType string `json:"acct"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and validates HS256 user tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates a TokenIssuer with the given secret and token lifetime.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// GenerateJWT issues a signed token for the user. Each token carries a unique
// id so it can be revoked individually on logout.
func (t *TokenIssuer) GenerateJWT(userID int, email, accountType string) (string, *Claims, error) {
	now := t.now()
	claims := &Claims{
		UserID:      userID,
		Email:       email,
		AccountType: accountType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprintf("%d", userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// ValidateJWT parses and verifies a token string.
func (t *TokenIssuer) ValidateJWT(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == 0 || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// IsInvalidToken reports whether err came from token validation.
func IsInvalidToken(err error) bool {
	return errors.Is(err, ErrInvalidToken)
}
