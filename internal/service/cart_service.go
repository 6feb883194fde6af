package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/GTDGit/storefront_api/internal/models"
	"github.com/GTDGit/storefront_api/internal/repository"
	"github.com/GTDGit/storefront_api/internal/utils"
)

// AddCartItemRequest is the body of POST /cart/items.
type AddCartItemRequest struct {
	ProductID       int     `json:"productId" binding:"required,gt=0"`
	Quantity        int     `json:"quantity" binding:"required,gt=0"`
	ConfigurationID *string `json:"configurationId" binding:"omitempty,uuid"`
}

// UpdateCartItemRequest is the body of PUT /cart/items/:id.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

// CartService manages cart lines. Configured lines are priced from the saved
// configuration, plain lines from the product base price.
type CartService struct {
	cart    CartStore
	configs ConfigurationStore
	catalog CatalogStore
}

// NewCartService constructs a CartService.
func NewCartService(cart CartStore, configs ConfigurationStore, catalog CatalogStore) *CartService {
	return &CartService{cart: cart, configs: configs, catalog: catalog}
}

// Get returns the user's cart with products joined and the subtotal.
func (s *CartService) Get(ctx context.Context, userID int) (*models.Cart, error) {
	items, err := s.cart.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}

	cart := &models.Cart{Items: items, Subtotal: decimal.Zero}
	if len(items) == 0 {
		return cart, nil
	}

	ids := make([]int, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.catalog.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	byID := make(map[int]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	for i := range cart.Items {
		cart.Items[i].Product = byID[cart.Items[i].ProductID]
		cart.ItemCount += cart.Items[i].Quantity
		cart.Subtotal = cart.Subtotal.Add(cart.Items[i].LineTotal())
	}
	return cart, nil
}

// AddItem adds quantity units of a product, optionally as a saved
// configuration. A line with the same product and configuration is merged.
func (s *CartService) AddItem(ctx context.Context, userID int, req *AddCartItemRequest) (*models.CartItem, error) {
	if req.Quantity <= 0 {
		return nil, utils.ErrInvalidQuantity
	}

	product, err := s.catalog.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, mapProductErr(err)
	}
	unitPrice, err := s.unitPrice(ctx, userID, product, req.ConfigurationID)
	if err != nil {
		return nil, err
	}

	existing, err := s.cart.FindLine(ctx, userID, product.ID, req.ConfigurationID)
	switch {
	case err == nil:
		existing.UserID = userID
		existing.Quantity += req.Quantity
		existing.UnitPrice = unitPrice
		if err := s.cart.UpdateForUser(ctx, existing); err != nil {
			return nil, mapCartErr(err)
		}
		existing.Product = product
		return existing, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("find cart line: %w", err)
	}

	item := &models.CartItem{
		UserID:          userID,
		ProductID:       product.ID,
		ConfigurationID: req.ConfigurationID,
		Quantity:        req.Quantity,
		UnitPrice:       unitPrice,
	}
	if err := s.cart.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create cart line: %w", err)
	}
	item.Product = product

	log.Debug().
		Int("user_id", userID).
		Int("product_id", product.ID).
		Int("quantity", item.Quantity).
		Msg("Cart line added")
	return item, nil
}

// UpdateQuantity sets the quantity of a line and refreshes its unit price.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, utils.ErrInvalidQuantity
	}

	item, err := s.cart.GetByIDForUser(ctx, itemID, userID)
	if err != nil {
		return nil, mapCartErr(err)
	}
	product, err := s.catalog.GetByID(ctx, item.ProductID)
	if err != nil {
		return nil, mapProductErr(err)
	}
	unitPrice, err := s.unitPrice(ctx, userID, product, item.ConfigurationID)
	if err != nil {
		return nil, err
	}

	item.Quantity = quantity
	item.UnitPrice = unitPrice
	if err := s.cart.UpdateForUser(ctx, item); err != nil {
		return nil, mapCartErr(err)
	}
	item.Product = product
	return item, nil
}

// RemoveItem deletes one line.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID int) error {
	if err := s.cart.DeleteForUser(ctx, itemID, userID); err != nil {
		return mapCartErr(err)
	}
	return nil
}

// Clear empties the user's cart.
func (s *CartService) Clear(ctx context.Context, userID int) error {
	if err := s.cart.ClearForUser(ctx, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// PurgeStale removes lines untouched for longer than ttl.
func (s *CartService) PurgeStale(ctx context.Context, ttl time.Duration) (int64, error) {
	return s.cart.DeleteStale(ctx, time.Now().Add(-ttl))
}

// unitPrice resolves the price of one unit: the configuration's stored price
// when configurationID is set, the product base price otherwise.
func (s *CartService) unitPrice(ctx context.Context, userID int, product *models.Product, configurationID *string) (decimal.Decimal, error) {
	if configurationID == nil {
		return product.BasePrice, nil
	}

	cfg, err := s.configs.GetByIDForUser(ctx, *configurationID, userID)
	if err != nil {
		return decimal.Zero, mapConfigurationErr(err)
	}
	if cfg.ProductID != product.ID {
		return decimal.Zero, fmt.Errorf("%w: configuration %s is for product %d", utils.ErrConfigurationMismatch, cfg.ID, cfg.ProductID)
	}
	return cfg.CalculatedPrice, nil
}

func mapCartErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return utils.ErrCartItemNotFound
	}
	return err
}
