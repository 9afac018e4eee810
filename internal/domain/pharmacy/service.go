package pharmacy

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Service struct {
	medications     Repository
	marginTarget    float64
	expiryAlertDays int
	log             zerolog.Logger
	now             func() time.Time
}

func NewService(medications Repository, marginTarget float64, expiryAlertDays int, log zerolog.Logger) *Service {
	if marginTarget <= 0 || marginTarget >= 1 {
		marginTarget = DefaultMarginTarget
	}
	if expiryAlertDays <= 0 {
		expiryAlertDays = 28
	}
	return &Service{
		medications:     medications,
		marginTarget:    marginTarget,
		expiryAlertDays: expiryAlertDays,
		log:             log.With().Str("component", "pharmacy").Logger(),
		now:             time.Now,
	}
}

// reprice runs the calculator over the medication's cost inputs and
// persists the derived price fields onto the record.
func (s *Service) reprice(m *Medication) error {
	result, err := ComputePricing(PricingInput{
		UnitCost:        m.UnitCost,
		TaxPercent:      m.TaxPercent,
		PurchaseScale:   m.PurchaseScale,
		DiscountPercent: m.DiscountPercent,
		MarginTarget:    s.marginTarget,
	})
	if err != nil {
		return err
	}
	if result.ScaleMalformed {
		s.log.Warn().
			Str("medication", m.Name).
			Str("purchase_scale", m.PurchaseScale).
			Msg("malformed purchase scale, priced without promotion")
	}
	m.RealUnitCost = result.RealUnitCost
	m.BasePrice = result.BasePrice
	m.PublicPrice = result.PublicPrice
	return nil
}

func (s *Service) validate(m *Medication) error {
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	if m.Stock < 0 {
		return fmt.Errorf("stock cannot be negative")
	}
	if m.MinimumStock < 0 {
		return fmt.Errorf("minimum_stock cannot be negative")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, m *Medication) error {
	if err := s.validate(m); err != nil {
		return err
	}
	if err := s.reprice(m); err != nil {
		return err
	}
	return s.medications.Create(ctx, m)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Medication, error) {
	return s.medications.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Medication, int, error) {
	return s.medications.List(ctx, limit, offset)
}

func (s *Service) Search(ctx context.Context, query string, limit, offset int) ([]*Medication, int, error) {
	if query == "" {
		return nil, 0, fmt.Errorf("query parameter is required")
	}
	return s.medications.Search(ctx, query, limit, offset)
}

func (s *Service) Available(ctx context.Context, search string) ([]*Medication, error) {
	return s.medications.Available(ctx, search)
}

func (s *Service) Update(ctx context.Context, m *Medication) error {
	if err := s.validate(m); err != nil {
		return err
	}
	if err := s.reprice(m); err != nil {
		return err
	}
	return s.medications.Update(ctx, m)
}

func (s *Service) SetStock(ctx context.Context, id uuid.UUID, stock int) (*Medication, error) {
	if stock < 0 {
		return nil, fmt.Errorf("stock cannot be negative")
	}
	if err := s.medications.UpdateStock(ctx, id, stock); err != nil {
		return nil, err
	}
	return s.medications.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.medications.Delete(ctx, id)
}

// Quote runs the pricing calculator without touching the inventory.
func (s *Service) Quote(in PricingInput) (*PricingResult, error) {
	if in.MarginTarget == 0 {
		in.MarginTarget = s.marginTarget
	}
	return ComputePricing(in)
}

// -- Alerts --

func (s *Service) LowStock(ctx context.Context) ([]*Medication, error) {
	return s.medications.LowStock(ctx)
}

// Expiring lists items that expire within days from now.
func (s *Service) Expiring(ctx context.Context, days int) ([]*Medication, error) {
	if days <= 0 {
		days = s.expiryAlertDays
	}
	cutoff := s.now().AddDate(0, 0, days)
	return s.medications.ExpiringBefore(ctx, cutoff)
}

// Alerts builds the combined feed of low-stock and expiry warnings.
func (s *Service) Alerts(ctx context.Context) (*AlertsFeed, error) {
	feed := &AlertsFeed{Alerts: []Alert{}, ByType: map[string]int{}}

	low, err := s.medications.LowStock(ctx)
	if err != nil {
		return nil, err
	}
	for _, m := range low {
		priority := PriorityMedium
		if m.Stock == 0 {
			priority = PriorityHigh
		}
		feed.Alerts = append(feed.Alerts, Alert{
			Type:           AlertLowStock,
			MedicationID:   m.ID,
			MedicationName: m.Name,
			Message:        fmt.Sprintf("stock at %d (minimum %d)", m.Stock, m.MinimumStock),
			Priority:       priority,
		})
		feed.ByType[AlertLowStock]++
	}

	now := s.now()
	expiring, err := s.medications.ExpiringBefore(ctx, now.AddDate(0, 0, s.expiryAlertDays))
	if err != nil {
		return nil, err
	}
	for _, m := range expiring {
		if m.ExpirationDate == nil {
			continue
		}
		days := int(m.ExpirationDate.Sub(now).Hours() / 24)
		feed.Alerts = append(feed.Alerts, Alert{
			Type:           AlertExpiringSoon,
			MedicationID:   m.ID,
			MedicationName: m.Name,
			Message:        fmt.Sprintf("expires in %d days (%s)", days, m.ExpirationDate.Format("2006-01-02")),
			Priority:       expiryPriority(days),
		})
		feed.ByType[AlertExpiringSoon]++
	}

	feed.TotalAlerts = len(feed.Alerts)
	return feed, nil
}

func expiryPriority(days int) string {
	switch {
	case days <= 7:
		return PriorityHigh
	case days <= 14:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// -- Restock --

// DetectRestock matches an incoming delivery against the inventory, by
// barcode first and then by normalized name.
func (s *Service) DetectRestock(ctx context.Context, req *RestockRequest) (*RestockDetection, error) {
	if req.ProductName == "" && (req.Barcode == nil || *req.Barcode == "") {
		return nil, fmt.Errorf("product_name or barcode is required")
	}

	if req.Barcode != nil && *req.Barcode != "" {
		if m, err := s.medications.GetByBarcode(ctx, *req.Barcode); err == nil {
			return &RestockDetection{
				IsRestock:       true,
				Confidence:      0.95,
				Message:         fmt.Sprintf("barcode matches existing product %q", m.Name),
				ExistingProduct: m,
			}, nil
		}
	}

	m, confidence, err := s.matchByName(ctx, req.ProductName)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return &RestockDetection{
			IsRestock:  false,
			Confidence: 0,
			Message:    "no matching product found, register as a new item",
		}, nil
	}
	return &RestockDetection{
		IsRestock:       true,
		Confidence:      confidence,
		Message:         fmt.Sprintf("name matches existing product %q", m.Name),
		ExistingProduct: m,
	}, nil
}

func (s *Service) matchByName(ctx context.Context, name string) (*Medication, float64, error) {
	if name == "" {
		return nil, 0, nil
	}
	// Inventory sizes here are small enough to scan in full.
	all, _, err := s.medications.List(ctx, 10000, 0)
	if err != nil {
		return nil, 0, err
	}

	target := normalizeName(name)
	var best *Medication
	var bestScore float64
	for _, m := range all {
		score := nameSimilarity(target, normalizeName(m.Name))
		if score > bestScore {
			best, bestScore = m, score
		}
	}
	if bestScore < 0.6 {
		return nil, 0, nil
	}
	return best, bestScore, nil
}

func (s *Service) ApplyRestock(ctx context.Context, id uuid.UUID, apply *RestockApply) (*Medication, error) {
	if apply.AdditionalStock <= 0 {
		return nil, fmt.Errorf("additional_stock must be positive")
	}
	m, err := s.medications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	m.Stock += apply.AdditionalStock
	if apply.NewLot != "" {
		m.Lot = apply.NewLot
	}
	if apply.ExpirationDate != nil {
		m.ExpirationDate = apply.ExpirationDate
	}
	if apply.UnitCost != nil {
		if *apply.UnitCost <= 0 {
			return nil, fmt.Errorf("unit_cost must be positive")
		}
		m.UnitCost = *apply.UnitCost
		if err := s.reprice(m); err != nil {
			return nil, err
		}
	}

	if err := s.medications.Update(ctx, m); err != nil {
		return nil, err
	}
	s.log.Info().
		Str("medication", m.Name).
		Int("additional_stock", apply.AdditionalStock).
		Int("stock", m.Stock).
		Msg("restock applied")
	return m, nil
}
