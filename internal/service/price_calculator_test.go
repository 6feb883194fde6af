package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/storefront_api/internal/models"
	"github.com/GTDGit/storefront_api/internal/utils"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func calculatorFixture() (*PriceCalculator, *fakeCatalog) {
	catalog := newFakeCatalog()
	catalog.addProduct(1, "100")
	catalog.addVariant(11, 1, "20")
	catalog.addVariant(12, 1, "5")
	catalog.addVariant(13, 1, "")
	catalog.addProduct(2, "50")
	catalog.addVariant(21, 2, "7")
	return NewPriceCalculator(catalog), catalog
}

func TestCalculate_BaseOnly(t *testing.T) {
	calc, _ := calculatorFixture()

	b, err := calc.Calculate(context.Background(), 1, nil, nil)
	require.NoError(t, err)
	assertDecimal(t, "100", b.BasePrice)
	assertDecimal(t, "100", b.TotalPrice)
	assert.Empty(t, b.VariantPrices)
	assert.Empty(t, b.OptionPrices)
}

func TestCalculate_VariantAccumulation(t *testing.T) {
	calc, _ := calculatorFixture()

	b, err := calc.Calculate(context.Background(), 1, models.VariantSelection{"color": 11, "size": 12}, nil)
	require.NoError(t, err)
	assertDecimal(t, "125", b.TotalPrice)
	require.Len(t, b.VariantPrices, 2)
	assertDecimal(t, "20", b.VariantPrices[11])
	assertDecimal(t, "5", b.VariantPrices[12])
}

func TestCalculate_DuplicateVariantCountedOnce(t *testing.T) {
	calc, catalog := calculatorFixture()

	b, err := calc.Calculate(context.Background(), 1, models.VariantSelection{"color": 11, "accent": 11}, nil)
	require.NoError(t, err)
	assertDecimal(t, "120", b.TotalPrice)
	assert.Len(t, b.VariantPrices, 1)
	assert.Equal(t, 1, catalog.variantLookups)
}

func TestCalculate_NullDeltaIsZero(t *testing.T) {
	calc, _ := calculatorFixture()

	b, err := calc.Calculate(context.Background(), 1, models.VariantSelection{"finish": 13}, nil)
	require.NoError(t, err)
	assertDecimal(t, "100", b.TotalPrice)
	assertDecimal(t, "0", b.VariantPrices[13])
}

func TestCalculate_MissingVariantTolerated(t *testing.T) {
	calc, _ := calculatorFixture()

	b, err := calc.Calculate(context.Background(), 1, models.VariantSelection{"color": 11, "ghost": 999}, nil)
	require.NoError(t, err)
	assertDecimal(t, "120", b.TotalPrice)
	assert.NotContains(t, b.VariantPrices, 999)
}

func TestCalculate_ForeignVariantSkipped(t *testing.T) {
	calc, _ := calculatorFixture()

	b, err := calc.Calculate(context.Background(), 1, models.VariantSelection{"color": 21}, nil)
	require.NoError(t, err)
	assertDecimal(t, "100", b.TotalPrice)
}

func TestCalculate_OptionSurchargeTable(t *testing.T) {
	tests := []struct {
		name    string
		options models.ConfigOptions
		total   string
		keys    []string
	}{
		{name: "upgrade true", options: models.ConfigOptions{"upgrade": true}, total: "110", keys: []string{"upgrade"}},
		{name: "upgrade false", options: models.ConfigOptions{"upgrade": false}, total: "100"},
		{name: "upgrade as string", options: models.ConfigOptions{"upgrade": "true"}, total: "100"},
		{name: "personalisation", options: models.ConfigOptions{"personalisation": "X"}, total: "115", keys: []string{"personalisation"}},
		{name: "empty personalisation", options: models.ConfigOptions{"personalisation": ""}, total: "100"},
		{name: "unknown key", options: models.ConfigOptions{"unknown": 123}, total: "100"},
		{name: "both", options: models.ConfigOptions{"upgrade": true, "personalisation": "X"}, total: "125", keys: []string{"upgrade", "personalisation"}},
	}

	calc, _ := calculatorFixture()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := calc.Calculate(context.Background(), 1, nil, tt.options)
			require.NoError(t, err)
			assertDecimal(t, tt.total, b.TotalPrice)

			keys := make([]string, 0, len(b.OptionPrices))
			for k := range b.OptionPrices {
				keys = append(keys, k)
			}
			assert.ElementsMatch(t, tt.keys, keys)
		})
	}
}

func TestCalculate_Deterministic(t *testing.T) {
	calc, _ := calculatorFixture()
	sel := models.VariantSelection{"color": 11, "size": 12, "ghost": 404}
	opts := models.ConfigOptions{"upgrade": true, "personalisation": "Ana"}

	first, err := calc.Calculate(context.Background(), 1, sel, opts)
	require.NoError(t, err)
	second, err := calc.Calculate(context.Background(), 1, sel, opts)
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.JSONEq(t, string(firstJSON), string(secondJSON))
	assertDecimal(t, "150", first.TotalPrice)
}

func TestCalculate_ProductNotFound(t *testing.T) {
	calc, _ := calculatorFixture()

	b, err := calc.Calculate(context.Background(), 404, models.VariantSelection{"color": 11}, nil)
	assert.ErrorIs(t, err, utils.ErrProductNotFound)
	assert.Nil(t, b)
}

func TestCalculate_VariantStoreFailurePropagates(t *testing.T) {
	calc, catalog := calculatorFixture()
	catalog.failVariants = true

	_, err := calc.Calculate(context.Background(), 1, models.VariantSelection{"color": 11}, nil)
	assert.ErrorIs(t, err, errStoreDown)
}

func TestCalculate_DecimalPrecisionKept(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.addProduct(5, "19.99")
	catalog.addVariant(51, 5, "0.01")
	calc := NewPriceCalculator(catalog)

	b, err := calc.Calculate(context.Background(), 5, models.VariantSelection{"color": 51}, nil)
	require.NoError(t, err)
	assertDecimal(t, "20.00", b.TotalPrice)
}

func TestOptionRule_CustomTable(t *testing.T) {
	calc := NewPriceCalculatorWithRules(newFakeCatalog(), []OptionRule{
		{Key: "giftwrap", Kind: OptionFlag, Surcharge: dec("3.5")},
	})

	prices := calc.OptionPrices(models.ConfigOptions{"giftwrap": true, "upgrade": true})
	assert.Len(t, prices, 1)
	assertDecimal(t, "3.5", prices["giftwrap"])
}
