package pharmacy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputePricing_NoDiscountHitsTargetExactly(t *testing.T) {
	result, err := ComputePricing(PricingInput{UnitCost: 50, TaxPercent: 0, DiscountPercent: 0})
	require.NoError(t, err)

	assert.Equal(t, 50.0, result.RealUnitCost)
	assert.Equal(t, 66.67, result.BasePrice)
	assert.Equal(t, 66.67, result.PublicPrice)
	assert.Equal(t, 66.67, result.FinalClientPrice)
	assert.InDelta(t, 25.0, result.FinalMarginPercent, 0.01)
	assert.True(t, result.MarginGuaranteed)
}

func TestComputePricing_FullScenario(t *testing.T) {
	result, err := ComputePricing(PricingInput{
		UnitCost:        100,
		TaxPercent:      15,
		PurchaseScale:   "10+3",
		DiscountPercent: 10,
	})
	require.NoError(t, err)

	assert.Equal(t, 115.0, result.CostWithTax)
	assert.Equal(t, 88.46, result.RealUnitCost)
	assert.Equal(t, 10.0, result.UnitsPaid)
	assert.Equal(t, 13.0, result.UnitsReceived)
	assert.Equal(t, 117.95, result.BasePrice)
	assert.Equal(t, 131.06, result.PublicPrice)
	assert.Equal(t, 117.95, result.FinalClientPrice)
	assert.InDelta(t, 25.0, result.FinalMarginPercent, 0.01)
	assert.True(t, result.MarginGuaranteed)
	assert.False(t, result.ScaleMalformed)
}

func TestComputePricing_GuaranteeHoldsUnderAnyDiscount(t *testing.T) {
	for _, discount := range []float64{0, 5, 10, 25, 50, 75, 90, 99, 99.9} {
		result, err := ComputePricing(PricingInput{
			UnitCost:        80,
			TaxPercent:      12,
			PurchaseScale:   "5+1",
			DiscountPercent: discount,
		})
		require.NoError(t, err, "discount %v", discount)
		assert.True(t, result.MarginGuaranteed, "discount %v: margin %v", discount, result.FinalMarginPercent)
		assert.GreaterOrEqual(t, result.FinalMarginPercent, 25.0-0.5, "discount %v", discount)
	}
}

func TestParseScale(t *testing.T) {
	cases := []struct {
		scale         string
		wantPaid      float64
		wantReceived  float64
		wantMalformed bool
	}{
		{"10+3", 10, 13, false},
		{"5+1", 5, 6, false},
		{"20+5", 20, 25, false},
		{"10 + 2", 10, 12, false},
		{"", 1, 1, false},
		{"no_scale", 1, 1, false},
		{"sin_escala", 1, 1, false},
		{"SIN_ESCALA", 1, 1, false},
		{"10+0", 10, 10, false},
		{"garbage", 1, 1, true},
		{"10-3", 1, 1, true},
		{"+3", 1, 1, true},
		{"10+", 1, 1, true},
		{"0+5", 1, 1, true},
		{"-2+3", 1, 1, true},
		{"10+-1", 1, 1, true},
	}
	for _, tc := range cases {
		t.Run(tc.scale, func(t *testing.T) {
			paid, received, malformed := parseScale(tc.scale)
			assert.Equal(t, tc.wantPaid, paid)
			assert.Equal(t, tc.wantReceived, received)
			assert.Equal(t, tc.wantMalformed, malformed)
		})
	}
}

func TestComputePricing_MalformedScaleDegradesGracefully(t *testing.T) {
	result, err := ComputePricing(PricingInput{
		UnitCost:        100,
		TaxPercent:      0,
		PurchaseScale:   "not a scale",
		DiscountPercent: 0,
	})
	require.NoError(t, err)

	assert.True(t, result.ScaleMalformed)
	assert.Equal(t, 1.0, result.UnitsPaid)
	assert.Equal(t, 1.0, result.UnitsReceived)
	assert.Equal(t, 100.0, result.RealUnitCost)
	assert.Equal(t, "sin_escala", result.ScaleApplied)
}

func TestComputePricing_CanonicalizesNoScaleSentinels(t *testing.T) {
	for _, scale := range []string{"", "no_scale", "NO_SCALE", "sin_escala", "SIN_ESCALA"} {
		result, err := ComputePricing(PricingInput{UnitCost: 100, PurchaseScale: scale})
		require.NoError(t, err)

		assert.Equal(t, "sin_escala", result.ScaleApplied, "scale %q", scale)
		assert.False(t, result.ScaleMalformed, "scale %q", scale)
	}
}

func TestComputePricing_InvalidInputs(t *testing.T) {
	cases := []struct {
		name  string
		in    PricingInput
		field string
	}{
		{"zero cost", PricingInput{UnitCost: 0}, "unit_cost"},
		{"negative cost", PricingInput{UnitCost: -5}, "unit_cost"},
		{"tax over 100", PricingInput{UnitCost: 10, TaxPercent: 101}, "tax_percent"},
		{"negative tax", PricingInput{UnitCost: 10, TaxPercent: -1}, "tax_percent"},
		{"discount over 100", PricingInput{UnitCost: 10, DiscountPercent: 120}, "discount_percent"},
		{"negative discount", PricingInput{UnitCost: 10, DiscountPercent: -3}, "discount_percent"},
		{"full discount", PricingInput{UnitCost: 10, DiscountPercent: 100}, "discount_percent"},
		{"margin at 1", PricingInput{UnitCost: 10, MarginTarget: 1}, "margin_target"},
		{"negative margin", PricingInput{UnitCost: 10, MarginTarget: -0.1}, "margin_target"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ComputePricing(tc.in)
			require.Error(t, err)
			var inputErr *InvalidInputError
			require.True(t, errors.As(err, &inputErr))
			assert.Equal(t, tc.field, inputErr.Field)
		})
	}
}

func TestComputePricing_MonotonicInUnitCost(t *testing.T) {
	var prev *PricingResult
	for _, cost := range []float64{10, 20, 50, 100, 250, 1000} {
		result, err := ComputePricing(PricingInput{
			UnitCost:        cost,
			TaxPercent:      15,
			PurchaseScale:   "10+3",
			DiscountPercent: 10,
		})
		require.NoError(t, err)
		if prev != nil {
			assert.Greater(t, result.RealUnitCost, prev.RealUnitCost)
			assert.Greater(t, result.BasePrice, prev.BasePrice)
			assert.Greater(t, result.PublicPrice, prev.PublicPrice)
		}
		prev = result
	}
}

func TestComputePricing_Idempotent(t *testing.T) {
	in := PricingInput{UnitCost: 73.19, TaxPercent: 13, PurchaseScale: "12+2", DiscountPercent: 7.5}
	first, err := ComputePricing(in)
	require.NoError(t, err)
	second, err := ComputePricing(in)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestComputePricing_CustomMarginTarget(t *testing.T) {
	result, err := ComputePricing(PricingInput{UnitCost: 100, MarginTarget: 0.4})
	require.NoError(t, err)
	assert.Equal(t, 166.67, result.BasePrice)
	assert.InDelta(t, 40.0, result.FinalMarginPercent, 0.01)
	assert.True(t, result.MarginGuaranteed)
}

func TestComputePricing_GreedyDiscountStillGuaranteed(t *testing.T) {
	// At 99.9% discount the public price becomes enormous but the final
	// client price must still carry the target margin.
	result, err := ComputePricing(PricingInput{UnitCost: 10, DiscountPercent: 99.9})
	require.NoError(t, err)
	assert.True(t, result.MarginGuaranteed)
	assert.Greater(t, result.FinalClientPrice, result.RealUnitCost)
}

func TestComputePricing_MarkupAndProfit(t *testing.T) {
	result, err := ComputePricing(PricingInput{UnitCost: 75, TaxPercent: 0, DiscountPercent: 0})
	require.NoError(t, err)

	// margin 25% of price is markup 33.33% of cost
	assert.Equal(t, 25.0, result.UnitProfit)
	assert.InDelta(t, 33.33, result.MarkupPercent, 0.01)
}
