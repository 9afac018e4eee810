package reports

import "github.com/google/uuid"

// MonthlySummary holds the headline numbers of one month.
type MonthlySummary struct {
	Month       int     `json:"month"`
	Year        int     `json:"year"`
	TotalSales  float64 `json:"total_sales"`
	TotalCost   float64 `json:"total_cost"`
	GrossProfit float64 `json:"gross_profit"`
	SaleCount   int     `json:"sale_count"`
	AverageSale float64 `json:"average_sale"`
}

// ProductSales aggregates sale items per medication.
type ProductSales struct {
	MedicationID uuid.UUID `json:"medication_id"`
	Name         string    `json:"name"`
	UnitsSold    int       `json:"units_sold"`
	Revenue      float64   `json:"revenue"`
}

// UnsoldProduct is an inventory item with zero sales in the period.
type UnsoldProduct struct {
	MedicationID uuid.UUID `json:"medication_id"`
	Name         string    `json:"name"`
	Stock        int       `json:"stock"`
}

// CustomerStat aggregates purchases per named customer.
type CustomerStat struct {
	Name       string  `json:"name"`
	Purchases  int     `json:"purchases"`
	TotalSpent float64 `json:"total_spent"`
}

// AmountStats describes the distribution of sale totals.
type AmountStats struct {
	Average float64 `json:"average"`
	Minimum float64 `json:"minimum"`
	Maximum float64 `json:"maximum"`
}

// CustomerAnalysis groups the customer section of the monthly report.
type CustomerAnalysis struct {
	FrequentCustomers []CustomerStat `json:"frequent_customers"`
	Amounts           AmountStats    `json:"amount_stats"`
}

// MonthlyReport is the response of the monthly sales report endpoint.
type MonthlyReport struct {
	Summary     MonthlySummary   `json:"summary"`
	TopProducts []ProductSales   `json:"top_products"`
	LeastSold   []ProductSales   `json:"least_sold_products"`
	Unsold      []UnsoldProduct  `json:"unsold_products"`
	Customers   CustomerAnalysis `json:"customer_analysis"`
}

// Recommendation categories.
const (
	CategoryInventory = "inventory"
	CategoryPricing   = "pricing"
	CategoryMarketing = "marketing"
)

// Recommendation is one rule-derived suggestion.
type Recommendation struct {
	Category string `json:"category"`
	Priority string `json:"priority"`
	Message  string `json:"message"`
}

// Trend directions.
const (
	TrendUp   = "up"
	TrendDown = "down"
	TrendFlat = "flat"
)

// TrendAnalysis compares the requested month against the previous one.
type TrendAnalysis struct {
	PreviousMonthSales float64 `json:"previous_month_sales"`
	CurrentMonthSales  float64 `json:"current_month_sales"`
	ChangePercent      float64 `json:"change_percent"`
	Direction          string  `json:"direction"`
}

// RecommendationsReport is the response of the recommendations endpoint.
type RecommendationsReport struct {
	Month           int              `json:"month"`
	Year            int              `json:"year"`
	Recommendations []Recommendation `json:"recommendations"`
	Trend           TrendAnalysis    `json:"trend_analysis"`
}
