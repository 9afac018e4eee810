package sales

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SaleItem is one line of a sale. Name, unit price and unit cost are
// snapshots taken at sale time so later inventory edits do not rewrite
// history.
type SaleItem struct {
	ID              uuid.UUID `db:"id" json:"id"`
	SaleID          uuid.UUID `db:"sale_id" json:"sale_id"`
	MedicationID    uuid.UUID `db:"medication_id" json:"medication_id"`
	MedicationName  string    `db:"medication_name" json:"medication_name"`
	Quantity        int       `db:"quantity" json:"quantity"`
	UnitPrice       float64   `db:"unit_price" json:"unit_price"`
	DiscountPercent float64   `db:"discount_percent" json:"discount_percent"`
	LineTotal       float64   `db:"line_total" json:"line_total"`
	UnitCost        float64   `db:"unit_cost" json:"unit_cost"`
}

// Sale maps to the sales table plus its sale_items rows.
type Sale struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	SoldAt          time.Time  `db:"sold_at" json:"sold_at"`
	Items           []SaleItem `json:"items"`
	CustomerName    string     `db:"customer_name" json:"customer_name,omitempty"`
	Seller          string     `db:"seller" json:"seller,omitempty"`
	DiscountPercent float64    `db:"discount_percent" json:"discount_percent"`
	Total           float64    `db:"total" json:"total"`
	TotalCost       float64    `db:"total_cost" json:"total_cost"`
	GrossProfit     float64    `db:"gross_profit" json:"gross_profit"`
	Notes           string     `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}

// QuickSaleRequest sells a single item at an explicitly stated price,
// bypassing the stored public price.
type QuickSaleRequest struct {
	MedicationID uuid.UUID `json:"medication_id"`
	Quantity     int       `json:"quantity"`
	SalePrice    float64   `json:"sale_price"`
	CustomerName string    `json:"customer_name,omitempty"`
	Seller       string    `json:"seller,omitempty"`
}

// TodaySales is the response of the today endpoint.
type TodaySales struct {
	Sales       []*Sale `json:"sales"`
	Count       int     `json:"count"`
	Total       float64 `json:"total"`
	GrossProfit float64 `json:"gross_profit"`
}

// DailyBalance summarizes one day of sales.
type DailyBalance struct {
	Date        string  `json:"date"`
	TotalSales  float64 `json:"total_sales"`
	TotalCost   float64 `json:"total_cost"`
	GrossProfit float64 `json:"gross_profit"`
	SaleCount   int     `json:"sale_count"`
}

// InsufficientStockError is returned when a sale asks for more units
// than the inventory holds. The sale is not persisted and no stock is
// touched.
type InsufficientStockError struct {
	MedicationName string
	Requested      int
	Available      int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
		e.MedicationName, e.Requested, e.Available)
}
