package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/storefront_api/internal/middleware"
	"github.com/GTDGit/storefront_api/internal/models"
	"github.com/GTDGit/storefront_api/internal/service"
	"github.com/GTDGit/storefront_api/internal/utils"
)

// CartService is the cart behavior the handler depends on.
type CartService interface {
	Get(ctx context.Context, userID int) (*models.Cart, error)
	AddItem(ctx context.Context, userID int, req *service.AddCartItemRequest) (*models.CartItem, error)
	UpdateQuantity(ctx context.Context, userID, itemID, quantity int) (*models.CartItem, error)
	RemoveItem(ctx context.Context, userID, itemID int) error
	Clear(ctx context.Context, userID int) error
}

// CartHandler serves the caller's cart.
type CartHandler struct {
	cart CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cart CartService) *CartHandler {
	return &CartHandler{cart: cart}
}

// Get handles GET /v1/cart.
func (h *CartHandler) Get(c *gin.Context) {
	cart, err := h.cart.Get(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 200, "", cart)
}

// AddItem handles POST /v1/cart/items.
func (h *CartHandler) AddItem(c *gin.Context) {
	var req service.AddCartItemRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.cart.AddItem(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 201, "Added to cart", item)
}

// UpdateItem handles PUT /v1/cart/items/:id.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	itemID, ok := intParam(c, "id")
	if !ok {
		return
	}
	var req service.UpdateCartItemRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.cart.UpdateQuantity(c.Request.Context(), middleware.GetUserID(c), itemID, req.Quantity)
	if err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 200, "Cart updated", item)
}

// RemoveItem handles DELETE /v1/cart/items/:id.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	itemID, ok := intParam(c, "id")
	if !ok {
		return
	}
	if err := h.cart.RemoveItem(c.Request.Context(), middleware.GetUserID(c), itemID); err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 200, "Removed from cart", nil)
}

// Clear handles DELETE /v1/cart.
func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.cart.Clear(c.Request.Context(), middleware.GetUserID(c)); err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 200, "Cart cleared", nil)
}
