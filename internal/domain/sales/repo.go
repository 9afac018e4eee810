package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository persists sales and their items.
type Repository interface {
	Create(ctx context.Context, s *Sale) error
	GetByID(ctx context.Context, id uuid.UUID) (*Sale, error)
	List(ctx context.Context, limit, offset int, from, to *time.Time) ([]*Sale, int, error)
	ListBetween(ctx context.Context, start, end time.Time) ([]*Sale, error)
}
