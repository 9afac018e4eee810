package patients

import (
	"context"

	"github.com/google/uuid"
)

// Repository provides access to patient records.
type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	List(ctx context.Context, search string, limit, offset int) ([]*Patient, int, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// VisitRepository provides access to visit records.
type VisitRepository interface {
	Add(ctx context.Context, v *VisitRecord) error
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*VisitRecord, error)
}

// LabRepository provides access to lab results.
type LabRepository interface {
	Add(ctx context.Context, l *LabResult) error
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*LabResult, error)
}
