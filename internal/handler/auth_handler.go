package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/storefront_api/internal/middleware"
	"github.com/GTDGit/storefront_api/internal/models"
	"github.com/GTDGit/storefront_api/internal/service"
	"github.com/GTDGit/storefront_api/internal/utils"
)

// AuthService is the account behavior the handler depends on.
type AuthService interface {
	Register(ctx context.Context, req *service.RegisterRequest) (*service.AuthResult, error)
	RegisterBusiness(ctx context.Context, req *service.RegisterBusinessRequest) (*service.AuthResult, error)
	Login(ctx context.Context, req *service.LoginRequest) (*service.AuthResult, error)
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error
	Me(ctx context.Context, userID int) (*models.User, error)
}

// AuthHandler serves registration, login and the current user profile.
type AuthHandler struct {
	authService AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles POST /v1/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 201, "Registration successful", res)
}

// RegisterBusiness handles POST /v1/auth/register/business.
func (h *AuthHandler) RegisterBusiness(c *gin.Context) {
	var req service.RegisterBusinessRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.authService.RegisterBusiness(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 201, "Business registration successful", res)
}

// Login handles POST /v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 200, "Login successful", res)
}

// Logout handles POST /v1/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	tokenID, expiresAt := middleware.GetToken(c)
	if err := h.authService.Logout(c.Request.Context(), tokenID, expiresAt); err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 200, "Logged out", nil)
}

// Me handles GET /v1/auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.Me(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 200, "", user)
}
