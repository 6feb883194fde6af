package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/GTDGit/storefront_api/internal/models"
	"github.com/GTDGit/storefront_api/internal/repository"
	"github.com/GTDGit/storefront_api/internal/utils"
)

// OptionKind tells how an option value is interpreted by its surcharge rule.
type OptionKind int

const (
	// OptionFlag applies when the value is boolean true.
	OptionFlag OptionKind = iota + 1
	// OptionText applies when the value is a non-empty string.
	OptionText
)

// OptionRule is one row of the closed option surcharge table.
type OptionRule struct {
	Key       string
	Kind      OptionKind
	Surcharge decimal.Decimal
}

// Applies reports whether value triggers the rule's surcharge.
func (r OptionRule) Applies(value interface{}) bool {
	switch r.Kind {
	case OptionFlag:
		b, ok := value.(bool)
		return ok && b
	case OptionText:
		s, ok := value.(string)
		return ok && s != ""
	}
	return false
}

// DefaultOptionRules is the storefront's option surcharge table. Keys not
// listed here never change the price.
var DefaultOptionRules = []OptionRule{
	{Key: "upgrade", Kind: OptionFlag, Surcharge: decimal.NewFromInt(10)},
	{Key: "personalisation", Kind: OptionText, Surcharge: decimal.NewFromInt(15)},
}

// PriceBreakdown is the itemized result of a price calculation.
type PriceBreakdown struct {
	BasePrice     decimal.Decimal            `json:"basePrice"`
	VariantPrices map[int]decimal.Decimal    `json:"variantPrices"`
	OptionPrices  map[string]decimal.Decimal `json:"optionPrices"`
	TotalPrice    decimal.Decimal            `json:"totalPrice"`
}

// PriceCalculator derives configuration prices from catalog data.
type PriceCalculator struct {
	catalog CatalogStore
	rules   map[string]OptionRule
}

// NewPriceCalculator constructs a PriceCalculator using DefaultOptionRules.
func NewPriceCalculator(catalog CatalogStore) *PriceCalculator {
	return NewPriceCalculatorWithRules(catalog, DefaultOptionRules)
}

// NewPriceCalculatorWithRules constructs a PriceCalculator with a custom rule table.
func NewPriceCalculatorWithRules(catalog CatalogStore, rules []OptionRule) *PriceCalculator {
	table := make(map[string]OptionRule, len(rules))
	for _, r := range rules {
		table[r.Key] = r
	}
	return &PriceCalculator{catalog: catalog, rules: table}
}

// Calculate returns base + variant deltas + option surcharges for the product.
// Only a missing product is an error: unknown variants, variants of other
// products and unknown option keys contribute nothing.
func (c *PriceCalculator) Calculate(ctx context.Context, productID int, selected models.VariantSelection, options models.ConfigOptions) (*PriceBreakdown, error) {
	product, err := c.lookupProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return c.CalculateFor(ctx, product, selected, options)
}

// CalculateFor is Calculate for an already loaded product.
func (c *PriceCalculator) CalculateFor(ctx context.Context, product *models.Product, selected models.VariantSelection, options models.ConfigOptions) (*PriceBreakdown, error) {
	variantPrices, err := c.variantPrices(ctx, product.ID, selected)
	if err != nil {
		return nil, err
	}
	optionPrices := c.OptionPrices(options)

	total := product.BasePrice
	for _, p := range variantPrices {
		total = total.Add(p)
	}
	for _, p := range optionPrices {
		total = total.Add(p)
	}

	return &PriceBreakdown{
		BasePrice:     product.BasePrice,
		VariantPrices: variantPrices,
		OptionPrices:  optionPrices,
		TotalPrice:    total,
	}, nil
}

// OptionPrices applies the rule table to options and returns the surcharge of
// every matching key.
func (c *PriceCalculator) OptionPrices(options models.ConfigOptions) map[string]decimal.Decimal {
	prices := make(map[string]decimal.Decimal)
	for key, value := range options {
		rule, ok := c.rules[key]
		if !ok || !rule.Applies(value) {
			continue
		}
		prices[key] = rule.Surcharge
	}
	return prices
}

// variantPrices looks every distinct selected variant up once.
func (c *PriceCalculator) variantPrices(ctx context.Context, productID int, selected models.VariantSelection) (map[int]decimal.Decimal, error) {
	prices := make(map[int]decimal.Decimal)
	ids := selected.VariantIDs()
	if len(ids) == 0 {
		return prices, nil
	}

	variants, err := c.catalog.GetVariantsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load variants: %w", err)
	}
	for _, v := range variants {
		if v.ProductID != productID {
			continue
		}
		prices[v.ID] = v.Delta()
	}
	return prices, nil
}

func (c *PriceCalculator) lookupProduct(ctx context.Context, productID int) (*models.Product, error) {
	product, err := c.catalog.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.ErrProductNotFound
		}
		return nil, fmt.Errorf("load product %d: %w", productID, err)
	}
	return product, nil
}
