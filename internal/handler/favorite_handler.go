package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/storefront_api/internal/middleware"
	"github.com/GTDGit/storefront_api/internal/models"
	"github.com/GTDGit/storefront_api/internal/service"
	"github.com/GTDGit/storefront_api/internal/utils"
)

// FavoriteService is the favorites behavior the handler depends on.
type FavoriteService interface {
	Add(ctx context.Context, userID, productID int) error
	List(ctx context.Context, userID int) ([]models.Favorite, error)
	Remove(ctx context.Context, userID, productID int) error
}

// FavoriteHandler serves the caller's saved products.
type FavoriteHandler struct {
	favorites FavoriteService
}

// NewFavoriteHandler creates a new FavoriteHandler.
func NewFavoriteHandler(favorites FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites}
}

// List handles GET /v1/favorites.
func (h *FavoriteHandler) List(c *gin.Context) {
	favorites, err := h.favorites.List(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 200, "", favorites)
}

// Add handles POST /v1/favorites.
func (h *FavoriteHandler) Add(c *gin.Context) {
	var req service.FavoriteRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.favorites.Add(c.Request.Context(), middleware.GetUserID(c), req.ProductID); err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 201, "Added to favorites", gin.H{"productId": req.ProductID})
}

// Remove handles DELETE /v1/favorites/:productId.
func (h *FavoriteHandler) Remove(c *gin.Context) {
	productID, ok := intParam(c, "productId")
	if !ok {
		return
	}
	if err := h.favorites.Remove(c.Request.Context(), middleware.GetUserID(c), productID); err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 200, "Removed from favorites", nil)
}
