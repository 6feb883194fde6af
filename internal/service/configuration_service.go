package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/GTDGit/storefront_api/internal/models"
	"github.com/GTDGit/storefront_api/internal/repository"
	"github.com/GTDGit/storefront_api/internal/utils"
)

// PricingPolicy selects how prices are derived when a write omits one.
type PricingPolicy struct {
	// LegacyRecompute sums base + variants only, ignoring option surcharges.
	LegacyRecompute bool
	// EnforceVariantOwnership rejects unknown variants and variants of other products.
	EnforceVariantOwnership bool
}

// CreateConfigurationRequest is the body of POST /configurations.
type CreateConfigurationRequest struct {
	ProductID        int                     `json:"productId" binding:"required,gt=0"`
	SelectedVariants models.VariantSelection `json:"selectedVariants"`
	Options          models.ConfigOptions    `json:"options"`
	CalculatedPrice  *decimal.Decimal        `json:"calculatedPrice"`
}

// UpdateConfigurationRequest is the body of PUT /configurations/:id.
// Nil fields are left untouched.
type UpdateConfigurationRequest struct {
	ProductID        *int                    `json:"productId" binding:"omitempty,gt=0"`
	SelectedVariants models.VariantSelection `json:"selectedVariants"`
	Options          models.ConfigOptions    `json:"options"`
	CalculatedPrice  *decimal.Decimal        `json:"calculatedPrice"`
}

// CalculatePriceRequest is the body of POST /configurations/calculate-price.
type CalculatePriceRequest struct {
	ProductID        int                     `json:"productId" binding:"required,gt=0"`
	SelectedVariants models.VariantSelection `json:"selectedVariants"`
	Options          models.ConfigOptions    `json:"options"`
}

// ConfigurationService orchestrates price calculation and configuration storage.
type ConfigurationService struct {
	configs    ConfigurationStore
	catalog    CatalogStore
	calculator *PriceCalculator
	policy     PricingPolicy
}

// NewConfigurationService constructs a ConfigurationService.
func NewConfigurationService(configs ConfigurationStore, catalog CatalogStore, calculator *PriceCalculator, policy PricingPolicy) *ConfigurationService {
	return &ConfigurationService{
		configs:    configs,
		catalog:    catalog,
		calculator: calculator,
		policy:     policy,
	}
}

// CalculatePrice returns the itemized price for a prospective configuration.
func (s *ConfigurationService) CalculatePrice(ctx context.Context, req *CalculatePriceRequest) (*PriceBreakdown, error) {
	return s.calculator.Calculate(ctx, req.ProductID, req.SelectedVariants, req.Options)
}

// Create stores a new configuration owned by userID.
func (s *ConfigurationService) Create(ctx context.Context, userID int, req *CreateConfigurationRequest) (*models.Configuration, error) {
	product, err := s.calculator.lookupProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	cfg := &models.Configuration{
		ID:               uuid.NewString(),
		UserID:           userID,
		ProductID:        product.ID,
		SelectedVariants: orEmptySelection(req.SelectedVariants),
		Options:          orEmptyOptions(req.Options),
	}

	if err := s.validateSelection(ctx, product.ID, cfg.SelectedVariants); err != nil {
		return nil, err
	}

	if req.CalculatedPrice != nil {
		if req.CalculatedPrice.IsNegative() {
			return nil, utils.ErrInvalidPrice
		}
		cfg.CalculatedPrice = *req.CalculatedPrice
	} else {
		price, err := s.recompute(ctx, product, cfg.SelectedVariants, cfg.Options)
		if err != nil {
			return nil, err
		}
		cfg.CalculatedPrice = price
	}

	if err := s.configs.Create(ctx, cfg); err != nil {
		return nil, fmt.Errorf("create configuration: %w", err)
	}
	cfg.Product = product

	log.Info().
		Str("configuration_id", cfg.ID).
		Int("user_id", userID).
		Int("product_id", product.ID).
		Str("price", cfg.CalculatedPrice.String()).
		Msg("Configuration created")
	return cfg, nil
}

// Get returns a configuration owned by userID. Absent and foreign ids are
// indistinguishable to the caller.
func (s *ConfigurationService) Get(ctx context.Context, userID int, id string) (*models.Configuration, error) {
	cfg, err := s.configs.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, mapConfigurationErr(err)
	}
	if err := s.attachProducts(ctx, []*models.Configuration{cfg}); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ListForUser returns the user's configurations, most recent first.
func (s *ConfigurationService) ListForUser(ctx context.Context, userID int) ([]models.Configuration, error) {
	configs, err := s.configs.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list configurations: %w", err)
	}
	return s.withProducts(ctx, configs)
}

// ListForProduct returns the user's configurations of one product, most recent first.
func (s *ConfigurationService) ListForProduct(ctx context.Context, userID, productID int) ([]models.Configuration, error) {
	configs, err := s.configs.ListByUserAndProduct(ctx, userID, productID)
	if err != nil {
		return nil, fmt.Errorf("list configurations: %w", err)
	}
	return s.withProducts(ctx, configs)
}

// Update overwrites the supplied fields. Without an explicit price, a change
// of product or variants (or options, unless the legacy policy is active)
// re-derives the price from the effective values.
func (s *ConfigurationService) Update(ctx context.Context, userID int, id string, req *UpdateConfigurationRequest) (*models.Configuration, error) {
	cfg, err := s.configs.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, mapConfigurationErr(err)
	}

	productChanged := req.ProductID != nil
	variantsChanged := req.SelectedVariants != nil
	optionsChanged := req.Options != nil

	if productChanged {
		cfg.ProductID = *req.ProductID
	}
	if variantsChanged {
		cfg.SelectedVariants = req.SelectedVariants
	}
	if optionsChanged {
		cfg.Options = req.Options
	}

	var product *models.Product
	needsRecompute := req.CalculatedPrice == nil &&
		(productChanged || variantsChanged || (optionsChanged && !s.policy.LegacyRecompute))

	if productChanged || needsRecompute {
		if product, err = s.calculator.lookupProduct(ctx, cfg.ProductID); err != nil {
			return nil, err
		}
	}
	if productChanged || variantsChanged {
		if err := s.validateSelection(ctx, cfg.ProductID, cfg.SelectedVariants); err != nil {
			return nil, err
		}
	}

	switch {
	case req.CalculatedPrice != nil:
		if req.CalculatedPrice.IsNegative() {
			return nil, utils.ErrInvalidPrice
		}
		cfg.CalculatedPrice = *req.CalculatedPrice
	case needsRecompute:
		price, err := s.recompute(ctx, product, cfg.SelectedVariants, cfg.Options)
		if err != nil {
			return nil, err
		}
		cfg.CalculatedPrice = price
	}

	if err := s.configs.UpdateForUser(ctx, cfg); err != nil {
		return nil, mapConfigurationErr(err)
	}

	if product != nil {
		cfg.Product = product
	} else if err := s.attachProducts(ctx, []*models.Configuration{cfg}); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Delete removes a configuration owned by userID.
func (s *ConfigurationService) Delete(ctx context.Context, userID int, id string) error {
	if err := s.configs.DeleteForUser(ctx, id, userID); err != nil {
		return mapConfigurationErr(err)
	}
	log.Info().Str("configuration_id", id).Int("user_id", userID).Msg("Configuration deleted")
	return nil
}

// recompute derives a stored price according to the pricing policy.
func (s *ConfigurationService) recompute(ctx context.Context, product *models.Product, selected models.VariantSelection, options models.ConfigOptions) (decimal.Decimal, error) {
	if s.policy.LegacyRecompute {
		options = nil
	}
	breakdown, err := s.calculator.CalculateFor(ctx, product, selected, options)
	if err != nil {
		return decimal.Zero, err
	}
	return breakdown.TotalPrice, nil
}

// validateSelection checks every selected variant exists and belongs to productID.
func (s *ConfigurationService) validateSelection(ctx context.Context, productID int, selected models.VariantSelection) error {
	if !s.policy.EnforceVariantOwnership {
		return nil
	}
	ids := selected.VariantIDs()
	if len(ids) == 0 {
		return nil
	}

	variants, err := s.catalog.GetVariantsByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("load variants: %w", err)
	}
	owned := make(map[int]bool, len(variants))
	for _, v := range variants {
		owned[v.ID] = v.ProductID == productID
	}
	for _, id := range ids {
		if !owned[id] {
			return fmt.Errorf("%w: variant %d does not belong to product %d", utils.ErrInvalidVariantSelection, id, productID)
		}
	}
	return nil
}

func (s *ConfigurationService) withProducts(ctx context.Context, configs []models.Configuration) ([]models.Configuration, error) {
	ptrs := make([]*models.Configuration, len(configs))
	for i := range configs {
		ptrs[i] = &configs[i]
	}
	if err := s.attachProducts(ctx, ptrs); err != nil {
		return nil, err
	}
	return configs, nil
}

// attachProducts joins the referenced products in one catalog round trip.
// Products that no longer exist are left nil.
func (s *ConfigurationService) attachProducts(ctx context.Context, configs []*models.Configuration) error {
	if len(configs) == 0 {
		return nil
	}
	seen := make(map[int]bool)
	var ids []int
	for _, c := range configs {
		if !seen[c.ProductID] {
			seen[c.ProductID] = true
			ids = append(ids, c.ProductID)
		}
	}

	products, err := s.catalog.GetByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("load products: %w", err)
	}
	byID := make(map[int]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	for _, c := range configs {
		c.Product = byID[c.ProductID]
	}
	return nil
}

func mapConfigurationErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return utils.ErrConfigurationNotFound
	}
	return err
}

func orEmptySelection(s models.VariantSelection) models.VariantSelection {
	if s == nil {
		return models.VariantSelection{}
	}
	return s
}

func orEmptyOptions(o models.ConfigOptions) models.ConfigOptions {
	if o == nil {
		return models.ConfigOptions{}
	}
	return o
}
