package pharmacy

import (
	"time"

	"github.com/google/uuid"
)

// Medication maps to the medications table: one inventory item in the
// pharmacy, carrying both clinical reference fields and the persisted
// output of the pricing calculator.
type Medication struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	Name              string     `db:"name" json:"name"`
	Description       string     `db:"description" json:"description,omitempty"`
	Barcode           *string    `db:"barcode" json:"barcode,omitempty"`
	Category          string     `db:"category" json:"category,omitempty"`
	Stock             int        `db:"stock" json:"stock"`
	MinimumStock      int        `db:"minimum_stock" json:"minimum_stock"`
	UnitCost          float64    `db:"unit_cost" json:"unit_cost"`
	TaxPercent        float64    `db:"tax_percent" json:"tax_percent"`
	PurchaseScale     string     `db:"purchase_scale" json:"purchase_scale,omitempty"`
	DiscountPercent   float64    `db:"discount_percent" json:"discount_percent"`
	Supplier          string     `db:"supplier" json:"supplier,omitempty"`
	Lot               string     `db:"lot" json:"lot,omitempty"`
	ExpirationDate    *time.Time `db:"expiration_date" json:"expiration_date,omitempty"`
	PediatricDose     string     `db:"pediatric_dose" json:"pediatric_dose,omitempty"`
	Indications       string     `db:"indications" json:"indications,omitempty"`
	Contraindications string     `db:"contraindications" json:"contraindications,omitempty"`

	// Derived by the pricing calculator on create/update.
	RealUnitCost float64 `db:"real_unit_cost" json:"real_unit_cost"`
	BasePrice    float64 `db:"base_price" json:"base_price"`
	PublicPrice  float64 `db:"public_price" json:"public_price"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Alert types.
const (
	AlertLowStock     = "low_stock"
	AlertExpiringSoon = "expiring_soon"
)

// Alert priorities.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Alert is one entry in the combined alerts feed.
type Alert struct {
	Type           string    `json:"type"`
	MedicationID   uuid.UUID `json:"medication_id"`
	MedicationName string    `json:"medication_name"`
	Message        string    `json:"message"`
	Priority       string    `json:"priority"`
}

// AlertsFeed is the response of the combined alerts endpoint.
type AlertsFeed struct {
	Alerts      []Alert        `json:"alerts"`
	TotalAlerts int            `json:"total_alerts"`
	ByType      map[string]int `json:"alerts_by_type"`
}

// RestockRequest describes an incoming delivery to match against the
// existing inventory.
type RestockRequest struct {
	ProductName    string     `json:"product_name"`
	Barcode        *string    `json:"barcode,omitempty"`
	NewLot         string     `json:"new_lot,omitempty"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
	InitialStock   int        `json:"initial_stock"`
	UnitCost       float64    `json:"unit_cost"`
	TaxPercent     float64    `json:"tax_percent"`
	PurchaseScale  string     `json:"purchase_scale,omitempty"`
}

// RestockDetection is the outcome of matching a delivery against the
// inventory.
type RestockDetection struct {
	IsRestock       bool        `json:"is_restock"`
	Confidence      float64     `json:"confidence"`
	Message         string      `json:"message"`
	ExistingProduct *Medication `json:"existing_product,omitempty"`
}

// RestockApply is the body for applying a restock to an existing item.
type RestockApply struct {
	NewLot          string     `json:"new_lot,omitempty"`
	ExpirationDate  *time.Time `json:"expiration_date,omitempty"`
	AdditionalStock int        `json:"additional_stock"`
	UnitCost        *float64   `json:"unit_cost,omitempty"`
}
