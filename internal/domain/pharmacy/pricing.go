package pharmacy

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultMarginTarget is the guaranteed minimum fractional margin applied
// when callers do not supply their own policy.
const DefaultMarginTarget = 0.25

// marginTolerance is how far below the target (in percentage points) the
// recomputed margin may drift before the guarantee flag is withdrawn.
const marginTolerance = 0.5

// Scale sentinels meaning "no supplier promotion".
var noScaleSentinels = map[string]bool{
	"": true, "no_scale": true, "sin_escala": true,
}

// InvalidInputError reports a pricing input outside its valid range.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PricingInput is one pricing request. MarginTarget zero means
// DefaultMarginTarget.
type PricingInput struct {
	UnitCost        float64 `json:"unit_cost"`
	TaxPercent      float64 `json:"tax_percent"`
	PurchaseScale   string  `json:"purchase_scale,omitempty"`
	DiscountPercent float64 `json:"discount_percent"`
	MarginTarget    float64 `json:"margin_target,omitempty"`
}

// PricingResult carries the computed price points. Monetary fields are
// rounded to 2 decimals; the margin guarantee is decided before rounding.
type PricingResult struct {
	CostWithTax        float64 `json:"cost_with_tax"`
	RealUnitCost       float64 `json:"real_unit_cost"`
	UnitsPaid          float64 `json:"units_paid"`
	UnitsReceived      float64 `json:"units_received"`
	BasePrice          float64 `json:"base_price"`
	PublicPrice        float64 `json:"public_price"`
	FinalClientPrice   float64 `json:"final_client_price"`
	UnitProfit         float64 `json:"unit_profit"`
	MarkupPercent      float64 `json:"markup_percent"`
	FinalMarginPercent float64 `json:"final_margin_percent"`
	MarginGuaranteed   bool    `json:"margin_guaranteed"`
	ScaleApplied       string  `json:"scale_applied"`
	ScaleMalformed     bool    `json:"scale_malformed"`
}

// parseScale interprets a "buy+bonus" supplier promotion. The sentinel
// values and an empty string mean no promotion. Anything unparseable
// degrades to 1/1 with malformed=true so a bad scale string never blocks
// a price calculation.
func parseScale(scale string) (paid, received float64, malformed bool) {
	s := strings.TrimSpace(strings.ToLower(scale))
	if noScaleSentinels[s] {
		return 1, 1, false
	}
	buyStr, bonusStr, found := strings.Cut(s, "+")
	if !found {
		return 1, 1, true
	}
	buy, err1 := strconv.ParseFloat(strings.TrimSpace(buyStr), 64)
	bonus, err2 := strconv.ParseFloat(strings.TrimSpace(bonusStr), 64)
	if err1 != nil || err2 != nil || buy <= 0 || bonus < 0 {
		return 1, 1, true
	}
	return buy, buy + bonus, false
}

// ComputePricing derives the price points that guarantee the margin
// target after the retail discount is applied. Pure function, safe for
// concurrent use.
func ComputePricing(in PricingInput) (*PricingResult, error) {
	if in.UnitCost <= 0 {
		return nil, &InvalidInputError{Field: "unit_cost", Reason: "must be greater than zero"}
	}
	if in.TaxPercent < 0 || in.TaxPercent > 100 {
		return nil, &InvalidInputError{Field: "tax_percent", Reason: "must be between 0 and 100"}
	}
	if in.DiscountPercent < 0 || in.DiscountPercent > 100 {
		return nil, &InvalidInputError{Field: "discount_percent", Reason: "must be between 0 and 100"}
	}
	if in.DiscountPercent == 100 {
		return nil, &InvalidInputError{Field: "discount_percent", Reason: "a 100% discount leaves no revenue to price against"}
	}
	margin := in.MarginTarget
	if margin == 0 {
		margin = DefaultMarginTarget
	}
	if margin < 0 || margin >= 1 {
		return nil, &InvalidInputError{Field: "margin_target", Reason: "must be in [0, 1)"}
	}

	costWithTax := in.UnitCost * (1 + in.TaxPercent/100)

	paid, received, malformed := parseScale(in.PurchaseScale)
	realUnitCost := costWithTax * paid / received

	basePrice := realUnitCost / (1 - margin)

	discountFactor := 1 - in.DiscountPercent/100
	publicPrice := basePrice
	if in.DiscountPercent > 0 {
		publicPrice = realUnitCost / ((1 - margin) * discountFactor)
	}

	finalClientPrice := publicPrice * discountFactor

	// Recomputed from scratch so formula drift shows up here instead of
	// being assumed away.
	finalMargin := (finalClientPrice - realUnitCost) / finalClientPrice * 100
	guaranteed := finalMargin >= margin*100-marginTolerance

	unitProfit := finalClientPrice - realUnitCost
	markup := unitProfit / realUnitCost * 100

	// All no-promotion cases collapse to one canonical value so consumers
	// never have to recognize more than one sentinel.
	scaleApplied := strings.TrimSpace(in.PurchaseScale)
	if malformed || noScaleSentinels[strings.ToLower(scaleApplied)] {
		scaleApplied = "sin_escala"
	}

	return &PricingResult{
		CostWithTax:        round2(costWithTax),
		RealUnitCost:       round2(realUnitCost),
		UnitsPaid:          paid,
		UnitsReceived:      received,
		BasePrice:          round2(basePrice),
		PublicPrice:        round2(publicPrice),
		FinalClientPrice:   round2(finalClientPrice),
		UnitProfit:         round2(unitProfit),
		MarkupPercent:      round2(markup),
		FinalMarginPercent: round2(finalMargin),
		MarginGuaranteed:   guaranteed,
		ScaleApplied:       scaleApplied,
		ScaleMalformed:     malformed,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
