package terminology

import (
	"context"
	"fmt"

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

// NewRepoPG creates a PostgreSQL-backed CIE-10 repository.
func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *repoPG) List(ctx context.Context) ([]*DiagnosisCode, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT code, description, COALESCE(chapter,'')
		 FROM cie10_codes ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("cie10 list: %w", err)
	}
	defer rows.Close()
	return scanCodes(rows)
}

func (r *repoPG) Search(ctx context.Context, query string, limit int) ([]*DiagnosisCode, error) {
	if limit <= 0 {
		limit = 20
	}
	pattern := "%" + query + "%"
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT code, description, COALESCE(chapter,'')
		 FROM cie10_codes
		 WHERE code ILIKE $1 OR description ILIKE $1 OR chapter ILIKE $1
		 ORDER BY code LIMIT $2`, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("cie10 search: %w", err)
	}
	defer rows.Close()
	return scanCodes(rows)
}

func (r *repoPG) GetByCode(ctx context.Context, code string) (*DiagnosisCode, error) {
	var c DiagnosisCode
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT code, description, COALESCE(chapter,'')
		 FROM cie10_codes WHERE code = $1`, code).
		Scan(&c.Code, &c.Description, &c.Chapter)
	if err != nil {
		return nil, fmt.Errorf("cie10 get: %w", err)
	}
	return &c, nil
}

func (r *repoPG) Seed(ctx context.Context, codes []DiagnosisCode) (int, error) {
	inserted := 0
	for _, c := range codes {
		tag, err := r.conn(ctx).Exec(ctx,
			`INSERT INTO cie10_codes (code, description, chapter)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (code) DO NOTHING`, c.Code, c.Description, c.Chapter)
		if err != nil {
			return inserted, fmt.Errorf("cie10 seed %s: %w", c.Code, err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

func (r *repoPG) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM cie10_codes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("cie10 count: %w", err)
	}
	return n, nil
}

func scanCodes(rows pgx.Rows) ([]*DiagnosisCode, error) {
	var results []*DiagnosisCode
	for rows.Next() {
		var c DiagnosisCode
		if err := rows.Scan(&c.Code, &c.Description, &c.Chapter); err != nil {
			return nil, err
		}
		results = append(results, &c)
	}
	return results, rows.Err()
}
