package pharmacy

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

// NewRepoPG creates a PostgreSQL-backed medication repository.
func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const medColumns = `id, name, COALESCE(description,''), barcode, COALESCE(category,''),
	stock, minimum_stock, unit_cost, tax_percent, COALESCE(purchase_scale,''),
	discount_percent, COALESCE(supplier,''), COALESCE(lot,''), expiration_date,
	COALESCE(pediatric_dose,''), COALESCE(indications,''), COALESCE(contraindications,''),
	real_unit_cost, base_price, public_price, created_at, updated_at`

func scanMedication(row pgx.Row) (*Medication, error) {
	var m Medication
	err := row.Scan(&m.ID, &m.Name, &m.Description, &m.Barcode, &m.Category,
		&m.Stock, &m.MinimumStock, &m.UnitCost, &m.TaxPercent, &m.PurchaseScale,
		&m.DiscountPercent, &m.Supplier, &m.Lot, &m.ExpirationDate,
		&m.PediatricDose, &m.Indications, &m.Contraindications,
		&m.RealUnitCost, &m.BasePrice, &m.PublicPrice, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repoPG) Create(ctx context.Context, m *Medication) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx,
		`INSERT INTO medications (id, name, description, barcode, category, stock, minimum_stock,
		     unit_cost, tax_percent, purchase_scale, discount_percent, supplier, lot,
		     expiration_date, pediatric_dose, indications, contraindications,
		     real_unit_cost, base_price, public_price)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)`,
		m.ID, m.Name, m.Description, m.Barcode, m.Category, m.Stock, m.MinimumStock,
		m.UnitCost, m.TaxPercent, m.PurchaseScale, m.DiscountPercent, m.Supplier, m.Lot,
		m.ExpirationDate, m.PediatricDose, m.Indications, m.Contraindications,
		m.RealUnitCost, m.BasePrice, m.PublicPrice)
	if err != nil {
		return fmt.Errorf("create medication: %w", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Medication, error) {
	m, err := scanMedication(r.conn(ctx).QueryRow(ctx,
		`SELECT `+medColumns+` FROM medications WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get medication: %w", err)
	}
	return m, nil
}

func (r *repoPG) GetByBarcode(ctx context.Context, barcode string) (*Medication, error) {
	m, err := scanMedication(r.conn(ctx).QueryRow(ctx,
		`SELECT `+medColumns+` FROM medications WHERE barcode = $1`, barcode))
	if err != nil {
		return nil, fmt.Errorf("get medication by barcode: %w", err)
	}
	return m, nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Medication, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM medications`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count medications: %w", err)
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+medColumns+` FROM medications ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list medications: %w", err)
	}
	defer rows.Close()
	meds, err := collectMedications(rows)
	return meds, total, err
}

func (r *repoPG) Search(ctx context.Context, query string, limit, offset int) ([]*Medication, int, error) {
	pattern := "%" + query + "%"
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM medications WHERE name ILIKE $1 OR category ILIKE $1`, pattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count medication search: %w", err)
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+medColumns+` FROM medications
		 WHERE name ILIKE $1 OR category ILIKE $1
		 ORDER BY name LIMIT $2 OFFSET $3`, pattern, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("search medications: %w", err)
	}
	defer rows.Close()
	meds, err := collectMedications(rows)
	return meds, total, err
}

func (r *repoPG) Available(ctx context.Context, search string) ([]*Medication, error) {
	query := `SELECT ` + medColumns + ` FROM medications WHERE stock > 0`
	args := []interface{}{}
	if search != "" {
		query += ` AND (name ILIKE $1 OR category ILIKE $1)`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY name`

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("available medications: %w", err)
	}
	defer rows.Close()
	return collectMedications(rows)
}

func (r *repoPG) LowStock(ctx context.Context) ([]*Medication, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+medColumns+` FROM medications WHERE stock <= minimum_stock ORDER BY stock`)
	if err != nil {
		return nil, fmt.Errorf("low stock medications: %w", err)
	}
	defer rows.Close()
	return collectMedications(rows)
}

func (r *repoPG) ExpiringBefore(ctx context.Context, cutoff time.Time) ([]*Medication, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+medColumns+` FROM medications
		 WHERE expiration_date IS NOT NULL AND expiration_date <= $1
		 ORDER BY expiration_date`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("expiring medications: %w", err)
	}
	defer rows.Close()
	return collectMedications(rows)
}

func (r *repoPG) Update(ctx context.Context, m *Medication) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE medications SET name=$2, description=$3, barcode=$4, category=$5, stock=$6,
		     minimum_stock=$7, unit_cost=$8, tax_percent=$9, purchase_scale=$10,
		     discount_percent=$11, supplier=$12, lot=$13, expiration_date=$14,
		     pediatric_dose=$15, indications=$16, contraindications=$17,
		     real_unit_cost=$18, base_price=$19, public_price=$20, updated_at=now()
		 WHERE id=$1`,
		m.ID, m.Name, m.Description, m.Barcode, m.Category, m.Stock,
		m.MinimumStock, m.UnitCost, m.TaxPercent, m.PurchaseScale,
		m.DiscountPercent, m.Supplier, m.Lot, m.ExpirationDate,
		m.PediatricDose, m.Indications, m.Contraindications,
		m.RealUnitCost, m.BasePrice, m.PublicPrice)
	if err != nil {
		return fmt.Errorf("update medication: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("medication not found: %s", m.ID)
	}
	return nil
}

func (r *repoPG) UpdateStock(ctx context.Context, id uuid.UUID, stock int) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE medications SET stock=$2, updated_at=now() WHERE id=$1`, id, stock)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("medication not found: %s", id)
	}
	return nil
}

// DecrementStock takes qty units off the shelf. The stock guard is part
// of the statement so two concurrent sales cannot both take the last
// units: the loser matches no row and gets ErrInsufficientStock.
func (r *repoPG) DecrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE medications SET stock = stock - $2, updated_at=now()
		 WHERE id = $1 AND stock >= $2`, id, qty)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("decrement stock for %s: %w", id, ErrInsufficientStock)
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM medications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete medication: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("medication not found: %s", id)
	}
	return nil
}

func collectMedications(rows pgx.Rows) ([]*Medication, error) {
	var meds []*Medication
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, err
		}
		meds = append(meds, m)
	}
	return meds, rows.Err()
}
