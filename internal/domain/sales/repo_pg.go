package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pediclinic/pediclinic/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG creates a PostgreSQL-backed sales repository.
func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const saleColumns = `id, sold_at, COALESCE(customer_name,''), COALESCE(seller,''),
	discount_percent, total, total_cost, gross_profit, COALESCE(notes,''), created_at`

const itemColumns = `id, sale_id, medication_id, medication_name, quantity,
	unit_price, discount_percent, line_total, unit_cost`

func scanSale(row pgx.Row) (*Sale, error) {
	var s Sale
	err := row.Scan(&s.ID, &s.SoldAt, &s.CustomerName, &s.Seller,
		&s.DiscountPercent, &s.Total, &s.TotalCost, &s.GrossProfit, &s.Notes, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repoPG) Create(ctx context.Context, s *Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx,
		`INSERT INTO sales (id, sold_at, customer_name, seller, discount_percent, total, total_cost, gross_profit, notes)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		s.ID, s.SoldAt, s.CustomerName, s.Seller, s.DiscountPercent,
		s.Total, s.TotalCost, s.GrossProfit, s.Notes)
	if err != nil {
		return fmt.Errorf("create sale: %w", err)
	}
	for i := range s.Items {
		it := &s.Items[i]
		if it.ID == uuid.Nil {
			it.ID = uuid.New()
		}
		it.SaleID = s.ID
		_, err := r.conn(ctx).Exec(ctx,
			`INSERT INTO sale_items (id, sale_id, medication_id, medication_name, quantity, unit_price, discount_percent, line_total, unit_cost)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			it.ID, it.SaleID, it.MedicationID, it.MedicationName, it.Quantity,
			it.UnitPrice, it.DiscountPercent, it.LineTotal, it.UnitCost)
		if err != nil {
			return fmt.Errorf("create sale item: %w", err)
		}
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Sale, error) {
	s, err := scanSale(r.conn(ctx).QueryRow(ctx,
		`SELECT `+saleColumns+` FROM sales WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if err := r.loadItems(ctx, []*Sale{s}); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int, from, to *time.Time) ([]*Sale, int, error) {
	where := ""
	args := []interface{}{}
	if from != nil {
		args = append(args, *from)
		where += fmt.Sprintf(" AND sold_at >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		where += fmt.Sprintf(" AND sold_at < $%d", len(args))
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM sales WHERE 1=1`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}

	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx,
		fmt.Sprintf(`SELECT %s FROM sales WHERE 1=1%s ORDER BY sold_at DESC LIMIT $%d OFFSET $%d`,
			saleColumns, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	sales, err := collectSales(rows)
	if err != nil {
		return nil, 0, err
	}
	if err := r.loadItems(ctx, sales); err != nil {
		return nil, 0, err
	}
	return sales, total, nil
}

func (r *repoPG) ListBetween(ctx context.Context, start, end time.Time) ([]*Sale, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+saleColumns+` FROM sales
		 WHERE sold_at >= $1 AND sold_at < $2
		 ORDER BY sold_at`, start, end)
	if err != nil {
		return nil, fmt.Errorf("list sales between: %w", err)
	}
	defer rows.Close()

	sales, err := collectSales(rows)
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, sales); err != nil {
		return nil, err
	}
	return sales, nil
}

func collectSales(rows pgx.Rows) ([]*Sale, error) {
	var sales []*Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

// loadItems attaches sale_items rows to the given sales in one query.
func (r *repoPG) loadItems(ctx context.Context, sales []*Sale) error {
	if len(sales) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(sales))
	byID := make(map[uuid.UUID]*Sale, len(sales))
	for i, s := range sales {
		ids[i] = s.ID
		byID[s.ID] = s
		s.Items = []SaleItem{}
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+itemColumns+` FROM sale_items WHERE sale_id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return fmt.Errorf("load sale items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it SaleItem
		err := rows.Scan(&it.ID, &it.SaleID, &it.MedicationID, &it.MedicationName,
			&it.Quantity, &it.UnitPrice, &it.DiscountPercent, &it.LineTotal, &it.UnitCost)
		if err != nil {
			return err
		}
		if s, ok := byID[it.SaleID]; ok {
			s.Items = append(s.Items, it)
		}
	}
	return rows.Err()
}
