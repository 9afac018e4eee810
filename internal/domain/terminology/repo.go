package terminology

import "context"

// Repository provides access to the CIE-10 reference catalog.
type Repository interface {
	List(ctx context.Context) ([]*DiagnosisCode, error)
	Search(ctx context.Context, query string, limit int) ([]*DiagnosisCode, error)
	GetByCode(ctx context.Context, code string) (*DiagnosisCode, error)
	Seed(ctx context.Context, codes []DiagnosisCode) (int, error)
	Count(ctx context.Context) (int, error)
}
