package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/GTDGit/storefront_api/internal/models"
	"github.com/GTDGit/storefront_api/internal/repository"
	"github.com/GTDGit/storefront_api/internal/utils"
)

const minPasswordLength = 8

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required"`
	Name     string  `json:"name" binding:"required"`
	Phone    *string `json:"phone"`
}

// RegisterBusinessRequest is the body of POST /auth/register/business.
type RegisterBusinessRequest struct {
	RegisterRequest
	CompanyName string `json:"companyName" binding:"required"`
	VATNumber   string `json:"vatNumber" binding:"required"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResult is returned after a successful registration or login.
type AuthResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

// AuthService registers and authenticates storefront users.
type AuthService struct {
	users    UserStore
	tokens   *utils.TokenIssuer
	denylist TokenDenylist
	hashCost int
	now      func() time.Time
}

// NewAuthService constructs a new AuthService.
func NewAuthService(users UserStore, tokens *utils.TokenIssuer, denylist TokenDenylist) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		denylist: denylist,
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
	}
}

// Register creates a customer account and signs the user in.
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*AuthResult, error) {
	user, err := s.newUser(req, models.AccountTypeCustomer)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, user)
}

// RegisterBusiness creates a business account. Company name and VAT number
// are mandatory.
func (s *AuthService) RegisterBusiness(ctx context.Context, req *RegisterBusinessRequest) (*AuthResult, error) {
	company := strings.TrimSpace(req.CompanyName)
	vat := strings.TrimSpace(req.VATNumber)
	if company == "" || vat == "" {
		return nil, utils.ErrMissingBusinessDetails
	}

	user, err := s.newUser(&req.RegisterRequest, models.AccountTypeBusiness)
	if err != nil {
		return nil, err
	}
	user.CompanyName = &company
	user.VATNumber = &vat
	return s.create(ctx, user)
}

// Login verifies credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*AuthResult, error) {
	email := normalizeEmail(req.Email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Debug().Str("email", email).Msg("Login attempt for unknown email")
			return nil, utils.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		log.Warn().Int("user_id", user.ID).Msg("Password verification failed")
		return nil, utils.ErrInvalidCredentials
	}
	if !user.IsActive {
		log.Warn().Int("user_id", user.ID).Msg("Login to inactive account")
		return nil, utils.ErrAccountInactive
	}

	log.Info().Int("user_id", user.ID).Msg("Login successful")
	return s.issue(user)
}

// Logout revokes the token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.denylist.Revoke(ctx, tokenID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// Authenticate validates a bearer token and rejects revoked ones.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*utils.Claims, error) {
	claims, err := s.tokens.ValidateJWT(token)
	if err != nil {
		return nil, err
	}
	revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check token denylist: %w", err)
	}
	if revoked {
		return nil, utils.ErrTokenRevoked
	}
	return claims, nil
}

// Me returns the profile of the authenticated user.
func (s *AuthService) Me(ctx context.Context, userID int) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

func (s *AuthService) newUser(req *RegisterRequest, accountType models.AccountType) (*models.User, error) {
	if len(req.Password) < minPasswordLength {
		return nil, utils.ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:        normalizeEmail(req.Email),
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(req.Name),
		AccountType:  accountType,
		IsActive:     true,
	}
	if req.Phone != nil {
		if phone := strings.TrimSpace(*req.Phone); phone != "" {
			user.Phone = &phone
		}
	}
	return user, nil
}

func (s *AuthService) create(ctx context.Context, user *models.User) (*AuthResult, error) {
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	log.Info().
		Int("user_id", user.ID).
		Str("account_type", string(user.AccountType)).
		Msg("User registered")
	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, claims, err := s.tokens.GenerateJWT(user.ID, user.Email, string(user.AccountType))
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, ExpiresAt: claims.ExpiresAt.Time, User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
