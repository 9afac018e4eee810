package reports

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pediclinic/pediclinic/internal/domain/pharmacy"
	"github.com/pediclinic/pediclinic/internal/domain/sales"
	"github.com/pediclinic/pediclinic/internal/platform/cache"
)

// SalesSource is the slice of the sales repository the reports need.
type SalesSource interface {
	ListBetween(ctx context.Context, start, end time.Time) ([]*sales.Sale, error)
}

// InventorySource is the slice of the medication repository the reports
// need.
type InventorySource interface {
	List(ctx context.Context, limit, offset int) ([]*pharmacy.Medication, int, error)
	LowStock(ctx context.Context) ([]*pharmacy.Medication, error)
	ExpiringBefore(ctx context.Context, cutoff time.Time) ([]*pharmacy.Medication, error)
}

const (
	topProductsLimit   = 10
	leastSoldLimit     = 5
	recommendationCap  = 5
	frequentCustomers  = 10
	reportCacheTTL     = 10 * time.Minute
	lowMarginThreshold = 0.20
)

// Service builds the monthly report and the rule-based recommendations.
type Service struct {
	sales     SalesSource
	inventory InventorySource
	cache     *cache.Cache
	log       zerolog.Logger
	now       func() time.Time
}

func NewService(salesSrc SalesSource, inventory InventorySource, c *cache.Cache, log zerolog.Logger) *Service {
	return &Service{
		sales:     salesSrc,
		inventory: inventory,
		cache:     c,
		log:       log.With().Str("component", "reports").Logger(),
		now:       time.Now,
	}
}

// MonthlySales aggregates the sales of one calendar month. Results are
// cached briefly since the same report is typically opened several times
// in a row.
func (s *Service) MonthlySales(ctx context.Context, month, year int) (*MonthlyReport, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("reports:monthly:%04d-%02d", year, month)
	var cached MonthlyReport
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	list, err := s.sales.ListBetween(ctx, start, start.AddDate(0, 1, 0))
	if err != nil {
		return nil, fmt.Errorf("load month sales: %w", err)
	}

	agg := aggregate(list, month, year)

	report := &MonthlyReport{
		Summary:     agg.summary,
		TopProducts: agg.topProducts(topProductsLimit),
		LeastSold:   agg.leastSold(leastSoldLimit),
		Customers:   agg.customerAnalysis(),
	}

	unsold, err := s.unsoldProducts(ctx, agg.products)
	if err != nil {
		return nil, err
	}
	report.Unsold = unsold

	s.cache.Set(ctx, key, report, reportCacheTTL)
	s.log.Debug().Int("month", month).Int("year", year).
		Int("sales", agg.summary.SaleCount).Msg("monthly report built")
	return report, nil
}

// Recommendations derives inventory, pricing and marketing suggestions
// from the month aggregates and the current inventory state.
func (s *Service) Recommendations(ctx context.Context, month, year int) (*RecommendationsReport, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("reports:recommendations:%04d-%02d", year, month)
	var cached RecommendationsReport
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	current, err := s.sales.ListBetween(ctx, start, start.AddDate(0, 1, 0))
	if err != nil {
		return nil, fmt.Errorf("load month sales: %w", err)
	}
	previous, err := s.sales.ListBetween(ctx, start.AddDate(0, -1, 0), start)
	if err != nil {
		return nil, fmt.Errorf("load previous month sales: %w", err)
	}

	agg := aggregate(current, month, year)

	report := &RecommendationsReport{
		Month: month,
		Year:  year,
		Trend: buildTrend(sumTotals(previous), agg.summary.TotalSales),
	}

	recs, err := s.buildRecommendations(ctx, agg, report.Trend)
	if err != nil {
		return nil, err
	}
	report.Recommendations = recs

	s.cache.Set(ctx, key, report, reportCacheTTL)
	return report, nil
}

func (s *Service) buildRecommendations(ctx context.Context, agg *monthAggregate, trend TrendAnalysis) ([]Recommendation, error) {
	recs := []Recommendation{}

	low, err := s.inventory.LowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("load low stock: %w", err)
	}
	for i, m := range low {
		if i == recommendationCap {
			break
		}
		recs = append(recs, Recommendation{
			Category: CategoryInventory,
			Priority: "high",
			Message:  fmt.Sprintf("restock %s: stock at %d, minimum %d", m.Name, m.Stock, m.MinimumStock),
		})
	}

	expiring, err := s.inventory.ExpiringBefore(ctx, s.now().AddDate(0, 0, 30))
	if err != nil {
		return nil, fmt.Errorf("load expiring: %w", err)
	}
	for i, m := range expiring {
		if i == recommendationCap {
			break
		}
		recs = append(recs, Recommendation{
			Category: CategoryInventory,
			Priority: "medium",
			Message: fmt.Sprintf("%s expires on %s, consider a clearance discount",
				m.Name, m.ExpirationDate.Format("2006-01-02")),
		})
	}

	all, _, err := s.inventory.List(ctx, 10000, 0)
	if err != nil {
		return nil, fmt.Errorf("load inventory: %w", err)
	}
	priced := 0
	for _, m := range all {
		if m.PublicPrice <= 0 || priced == recommendationCap {
			continue
		}
		margin := (m.PublicPrice - m.RealUnitCost) / m.PublicPrice
		if margin < lowMarginThreshold {
			priced++
			recs = append(recs, Recommendation{
				Category: CategoryPricing,
				Priority: "medium",
				Message: fmt.Sprintf("review the price of %s: margin at %.1f%%",
					m.Name, margin*100),
			})
		}
	}

	switch {
	case trend.Direction == TrendDown && trend.ChangePercent <= -10:
		recs = append(recs, Recommendation{
			Category: CategoryMarketing,
			Priority: "high",
			Message: fmt.Sprintf("sales dropped %.1f%% versus the previous month, consider a promotion",
				-trend.ChangePercent),
		})
	case trend.Direction == TrendUp:
		recs = append(recs, Recommendation{
			Category: CategoryMarketing,
			Priority: "low",
			Message:  "sales are trending up, keep the best sellers stocked",
		})
	}

	if top := agg.topProducts(1); len(top) > 0 {
		recs = append(recs, Recommendation{
			Category: CategoryMarketing,
			Priority: "low",
			Message: fmt.Sprintf("%s was the best seller (%d units), keep it in stock",
				top[0].Name, top[0].UnitsSold),
		})
	}

	return recs, nil
}

func (s *Service) unsoldProducts(ctx context.Context, sold map[uuid.UUID]*ProductSales) ([]UnsoldProduct, error) {
	all, _, err := s.inventory.List(ctx, 10000, 0)
	if err != nil {
		return nil, fmt.Errorf("load inventory: %w", err)
	}
	unsold := []UnsoldProduct{}
	for _, m := range all {
		if _, ok := sold[m.ID]; ok {
			continue
		}
		unsold = append(unsold, UnsoldProduct{MedicationID: m.ID, Name: m.Name, Stock: m.Stock})
	}
	sort.Slice(unsold, func(i, j int) bool { return unsold[i].Name < unsold[j].Name })
	return unsold, nil
}

// monthAggregate holds the per-product and per-customer rollups of one
// month of sales.
type monthAggregate struct {
	summary   MonthlySummary
	products  map[uuid.UUID]*ProductSales
	customers map[string]*CustomerStat
	amounts   AmountStats
}

func aggregate(list []*sales.Sale, month, year int) *monthAggregate {
	agg := &monthAggregate{
		summary:   MonthlySummary{Month: month, Year: year, SaleCount: len(list)},
		products:  make(map[uuid.UUID]*ProductSales),
		customers: make(map[string]*CustomerStat),
	}

	for i, sale := range list {
		agg.summary.TotalSales += sale.Total
		agg.summary.TotalCost += sale.TotalCost
		agg.summary.GrossProfit += sale.GrossProfit

		if i == 0 || sale.Total < agg.amounts.Minimum {
			agg.amounts.Minimum = sale.Total
		}
		if sale.Total > agg.amounts.Maximum {
			agg.amounts.Maximum = sale.Total
		}

		for _, it := range sale.Items {
			p := agg.products[it.MedicationID]
			if p == nil {
				p = &ProductSales{MedicationID: it.MedicationID, Name: it.MedicationName}
				agg.products[it.MedicationID] = p
			}
			p.UnitsSold += it.Quantity
			p.Revenue = round2(p.Revenue + it.LineTotal)
		}

		if sale.CustomerName != "" {
			c := agg.customers[sale.CustomerName]
			if c == nil {
				c = &CustomerStat{Name: sale.CustomerName}
				agg.customers[sale.CustomerName] = c
			}
			c.Purchases++
			c.TotalSpent = round2(c.TotalSpent + sale.Total)
		}
	}

	agg.summary.TotalSales = round2(agg.summary.TotalSales)
	agg.summary.TotalCost = round2(agg.summary.TotalCost)
	agg.summary.GrossProfit = round2(agg.summary.GrossProfit)
	if len(list) > 0 {
		agg.summary.AverageSale = round2(agg.summary.TotalSales / float64(len(list)))
		agg.amounts.Average = agg.summary.AverageSale
	}
	return agg
}

func (a *monthAggregate) sorted() []ProductSales {
	out := make([]ProductSales, 0, len(a.products))
	for _, p := range a.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UnitsSold != out[j].UnitsSold {
			return out[i].UnitsSold > out[j].UnitsSold
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (a *monthAggregate) topProducts(limit int) []ProductSales {
	out := a.sorted()
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (a *monthAggregate) leastSold(limit int) []ProductSales {
	out := a.sorted()
	// Reverse: fewest units first.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (a *monthAggregate) customerAnalysis() CustomerAnalysis {
	out := make([]CustomerStat, 0, len(a.customers))
	for _, c := range a.customers {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Purchases != out[j].Purchases {
			return out[i].Purchases > out[j].Purchases
		}
		return out[i].TotalSpent > out[j].TotalSpent
	})
	if len(out) > frequentCustomers {
		out = out[:frequentCustomers]
	}
	return CustomerAnalysis{FrequentCustomers: out, Amounts: a.amounts}
}

func buildTrend(previous, current float64) TrendAnalysis {
	t := TrendAnalysis{PreviousMonthSales: previous, CurrentMonthSales: current, Direction: TrendFlat}
	switch {
	case previous == 0 && current > 0:
		t.Direction = TrendUp
		t.ChangePercent = 100
	case previous > 0:
		t.ChangePercent = round2((current - previous) / previous * 100)
		if t.ChangePercent > 0 {
			t.Direction = TrendUp
		} else if t.ChangePercent < 0 {
			t.Direction = TrendDown
		}
	}
	return t
}

func sumTotals(list []*sales.Sale) float64 {
	var total float64
	for _, s := range list {
		total += s.Total
	}
	return round2(total)
}

func validatePeriod(month, year int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("month must be between 1 and 12")
	}
	if year < 2000 || year > 2100 {
		return fmt.Errorf("year must be between 2000 and 2100")
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
