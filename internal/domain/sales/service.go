package sales

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/pediclinic/pediclinic/internal/domain/pharmacy"
	"github.com/pediclinic/pediclinic/internal/platform/cache"
	"github.com/pediclinic/pediclinic/internal/platform/db"
)

// Closed days never change, so their balances can sit in the cache for a
// long time. Today's balance is always computed fresh.
const balanceCacheTTL = 24 * time.Hour

// Inventory is the slice of the medication repository a sale needs:
// price/cost lookup and the guarded stock decrement.
type Inventory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*pharmacy.Medication, error)
	DecrementStock(ctx context.Context, id uuid.UUID, qty int) error
}

// Service implements the point-of-sale operations.
type Service struct {
	sales     Repository
	inventory Inventory
	pool      *pgxpool.Pool
	cache     *cache.Cache
	log       zerolog.Logger
	now       func() time.Time
}

func NewService(sales Repository, inventory Inventory, pool *pgxpool.Pool, c *cache.Cache, log zerolog.Logger) *Service {
	return &Service{
		sales:     sales,
		inventory: inventory,
		pool:      pool,
		cache:     c,
		log:       log.With().Str("component", "sales").Logger(),
		now:       time.Now,
	}
}

func (s *Service) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.pool == nil {
		return fn(ctx)
	}
	return db.WithTx(ctx, s.pool, fn)
}

// Create registers a sale. Stock is validated for every item before any
// decrement happens, and the insert plus the decrements run in one
// transaction.
func (s *Service) Create(ctx context.Context, sale *Sale) error {
	if err := s.validate(sale); err != nil {
		return err
	}
	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	if sale.SoldAt.IsZero() {
		sale.SoldAt = s.now()
	}

	err := s.inTx(ctx, func(ctx context.Context) error {
		// Quantities are summed per medication so a sale that lists the
		// same item on several lines is checked against the combined total.
		needed := make(map[uuid.UUID]int, len(sale.Items))
		var order []uuid.UUID
		for i := range sale.Items {
			id := sale.Items[i].MedicationID
			if _, seen := needed[id]; !seen {
				order = append(order, id)
			}
			needed[id] += sale.Items[i].Quantity
		}

		meds := make(map[uuid.UUID]*pharmacy.Medication, len(order))
		for _, id := range order {
			med, err := s.inventory.GetByID(ctx, id)
			if err != nil {
				return fmt.Errorf("medication not found: %s", id)
			}
			if med.Stock < needed[id] {
				return &InsufficientStockError{
					MedicationName: med.Name,
					Requested:      needed[id],
					Available:      med.Stock,
				}
			}
			meds[id] = med
		}

		var total, cost float64
		for i := range sale.Items {
			it := &sale.Items[i]
			med := meds[it.MedicationID]
			it.MedicationName = med.Name
			it.UnitCost = med.RealUnitCost
			if it.UnitPrice == 0 {
				it.UnitPrice = med.PublicPrice
			}
			it.LineTotal = round2(it.UnitPrice * float64(it.Quantity) * (1 - it.DiscountPercent/100))
			total += it.LineTotal
			cost += med.RealUnitCost * float64(it.Quantity)
		}

		// The decrement carries its own stock guard, so a concurrent sale
		// that drained the shelf after the read above still fails here and
		// rolls the whole sale back.
		for _, id := range order {
			if err := s.inventory.DecrementStock(ctx, id, needed[id]); err != nil {
				if errors.Is(err, pharmacy.ErrInsufficientStock) {
					med := meds[id]
					return &InsufficientStockError{
						MedicationName: med.Name,
						Requested:      needed[id],
						Available:      med.Stock,
					}
				}
				return fmt.Errorf("decrement stock: %w", err)
			}
		}

		if sale.DiscountPercent > 0 {
			total *= 1 - sale.DiscountPercent/100
		}
		sale.Total = round2(total)
		sale.TotalCost = round2(cost)
		sale.GrossProfit = round2(total - cost)

		return s.sales.Create(ctx, sale)
	})
	if err != nil {
		return err
	}

	s.log.Info().
		Str("sale_id", sale.ID.String()).
		Int("items", len(sale.Items)).
		Float64("total", sale.Total).
		Msg("sale registered")
	return nil
}

// QuickSale sells one item at the stated price. The price overrides the
// stored public price, everything else follows the normal sale path.
func (s *Service) QuickSale(ctx context.Context, req *QuickSaleRequest) (*Sale, error) {
	if req.MedicationID == uuid.Nil {
		return nil, fmt.Errorf("medication_id is required")
	}
	if req.SalePrice <= 0 {
		return nil, fmt.Errorf("sale_price must be positive")
	}
	qty := req.Quantity
	if qty == 0 {
		qty = 1
	}
	sale := &Sale{
		Items: []SaleItem{{
			MedicationID: req.MedicationID,
			Quantity:     qty,
			UnitPrice:    req.SalePrice,
		}},
		CustomerName: req.CustomerName,
		Seller:       req.Seller,
	}
	if err := s.Create(ctx, sale); err != nil {
		return nil, err
	}
	return sale, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Sale, error) {
	return s.sales.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int, from, to *time.Time) ([]*Sale, int, error) {
	return s.sales.List(ctx, limit, offset, from, to)
}

// Today lists the sales of the current day with their running totals.
func (s *Service) Today(ctx context.Context) (*TodaySales, error) {
	start := truncateToDay(s.now())
	list, err := s.sales.ListBetween(ctx, start, start.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	out := &TodaySales{Sales: list, Count: len(list)}
	if out.Sales == nil {
		out.Sales = []*Sale{}
	}
	for _, sale := range list {
		out.Total += sale.Total
		out.GrossProfit += sale.GrossProfit
	}
	out.Total = round2(out.Total)
	out.GrossProfit = round2(out.GrossProfit)
	return out, nil
}

// DailyBalance totals one day of sales. A zero date means today. Balances
// of closed days are served from the cache.
func (s *Service) DailyBalance(ctx context.Context, date time.Time) (*DailyBalance, error) {
	if date.IsZero() {
		date = s.now()
	}
	start := truncateToDay(date)
	closed := start.Before(truncateToDay(s.now()))

	key := "sales:daily-balance:" + start.Format("2006-01-02")
	if closed {
		var cached DailyBalance
		if s.cache.Get(ctx, key, &cached) {
			return &cached, nil
		}
	}

	list, err := s.sales.ListBetween(ctx, start, start.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	b := &DailyBalance{Date: start.Format("2006-01-02"), SaleCount: len(list)}
	for _, sale := range list {
		b.TotalSales += sale.Total
		b.TotalCost += sale.TotalCost
		b.GrossProfit += sale.GrossProfit
	}
	b.TotalSales = round2(b.TotalSales)
	b.TotalCost = round2(b.TotalCost)
	b.GrossProfit = round2(b.GrossProfit)

	if closed {
		s.cache.Set(ctx, key, b, balanceCacheTTL)
	}
	return b, nil
}

func (s *Service) validate(sale *Sale) error {
	if len(sale.Items) == 0 {
		return fmt.Errorf("a sale needs at least one item")
	}
	for i := range sale.Items {
		it := &sale.Items[i]
		if it.MedicationID == uuid.Nil {
			return fmt.Errorf("item %d: medication_id is required", i+1)
		}
		if it.Quantity < 1 {
			return fmt.Errorf("item %d: quantity must be at least 1", i+1)
		}
		if it.DiscountPercent < 0 || it.DiscountPercent >= 100 {
			return fmt.Errorf("item %d: discount_percent must be between 0 and 100", i+1)
		}
		if it.UnitPrice < 0 {
			return fmt.Errorf("item %d: unit_price cannot be negative", i+1)
		}
	}
	if sale.DiscountPercent < 0 || sale.DiscountPercent >= 100 {
		return fmt.Errorf("discount_percent must be between 0 and 100")
	}
	return nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
