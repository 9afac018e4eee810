package pharmacy

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrInsufficientStock is returned by DecrementStock when the guarded
// update matches no row because the remaining stock is too low.
var ErrInsufficientStock = errors.New("insufficient stock")

// Repository provides access to the medication inventory.
type Repository interface {
	Create(ctx context.Context, m *Medication) error
	GetByID(ctx context.Context, id uuid.UUID) (*Medication, error)
	GetByBarcode(ctx context.Context, barcode string) (*Medication, error)
	List(ctx context.Context, limit, offset int) ([]*Medication, int, error)
	Search(ctx context.Context, query string, limit, offset int) ([]*Medication, int, error)
	Available(ctx context.Context, search string) ([]*Medication, error)
	LowStock(ctx context.Context) ([]*Medication, error)
	ExpiringBefore(ctx context.Context, cutoff time.Time) ([]*Medication, error)
	Update(ctx context.Context, m *Medication) error
	UpdateStock(ctx context.Context, id uuid.UUID, stock int) error
	DecrementStock(ctx context.Context, id uuid.UUID, qty int) error
	Delete(ctx context.Context, id uuid.UUID) error
}
