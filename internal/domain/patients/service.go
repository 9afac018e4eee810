package patients

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var validSeverities = map[string]bool{
	SeverityMild: true, SeverityModerate: true, SeveritySevere: true,
}

// DiagnosisResolver resolves a CIE-10 code to its catalog description.
// Unknown codes return an error; the service treats that as non-fatal and
// stores the code without a description.
type DiagnosisResolver interface {
	Describe(ctx context.Context, code string) (string, error)
}

type Service struct {
	patients Repository
	visits   VisitRepository
	labs     LabRepository
	resolver DiagnosisResolver
	now      func() time.Time
}

func NewService(patients Repository, visits VisitRepository, labs LabRepository, resolver DiagnosisResolver) *Service {
	return &Service{
		patients: patients,
		visits:   visits,
		labs:     labs,
		resolver: resolver,
		now:      time.Now,
	}
}

func (s *Service) validate(p *Patient) error {
	if p.FullName == "" {
		return fmt.Errorf("full_name is required")
	}
	if p.BirthDate.IsZero() {
		return fmt.Errorf("birth_date is required")
	}
	if p.BirthDate.After(s.now()) {
		return fmt.Errorf("birth_date cannot be in the future")
	}
	if p.DiagnosisSeverity != nil && !validSeverities[*p.DiagnosisSeverity] {
		return fmt.Errorf("invalid diagnosis_severity: %s", *p.DiagnosisSeverity)
	}
	if p.WeightKg != nil && *p.WeightKg <= 0 {
		return fmt.Errorf("weight_kg must be positive")
	}
	if p.HeightM != nil && *p.HeightM <= 0 {
		return fmt.Errorf("height_m must be positive")
	}
	return nil
}

// resolveDiagnosis fills the CIE-10 description when a code is present.
func (s *Service) resolveDiagnosis(ctx context.Context, p *Patient) {
	if p.CIE10Code == nil || *p.CIE10Code == "" {
		p.CIE10Description = nil
		return
	}
	if s.resolver == nil {
		return
	}
	desc, err := s.resolver.Describe(ctx, *p.CIE10Code)
	if err != nil {
		p.CIE10Description = nil
		return
	}
	p.CIE10Description = &desc
}

func (s *Service) Create(ctx context.Context, p *Patient) error {
	if err := s.validate(p); err != nil {
		return err
	}
	derive(p, s.now())
	s.resolveDiagnosis(ctx, p)
	return s.patients.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, search string, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, search, limit, offset)
}

func (s *Service) Update(ctx context.Context, p *Patient) error {
	if err := s.validate(p); err != nil {
		return err
	}
	derive(p, s.now())
	s.resolveDiagnosis(ctx, p)
	return s.patients.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.patients.Delete(ctx, id)
}

// -- Visit history --

func (s *Service) AddVisit(ctx context.Context, v *VisitRecord) error {
	if v.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if v.Reason == "" {
		return fmt.Errorf("reason is required")
	}
	if v.Fee < 0 {
		return fmt.Errorf("fee cannot be negative")
	}
	if v.VisitDate.IsZero() {
		v.VisitDate = s.now()
	}
	if _, err := s.patients.GetByID(ctx, v.PatientID); err != nil {
		return fmt.Errorf("patient not found: %s", v.PatientID)
	}
	return s.visits.Add(ctx, v)
}

func (s *Service) ListVisits(ctx context.Context, patientID uuid.UUID) ([]*VisitRecord, error) {
	return s.visits.ListByPatient(ctx, patientID)
}

// -- Lab results --

func (s *Service) AddLabResult(ctx context.Context, l *LabResult) error {
	if l.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if l.TestName == "" {
		return fmt.Errorf("test_name is required")
	}
	if l.TestDate.IsZero() {
		l.TestDate = s.now()
	}
	if _, err := s.patients.GetByID(ctx, l.PatientID); err != nil {
		return fmt.Errorf("patient not found: %s", l.PatientID)
	}
	return s.labs.Add(ctx, l)
}

func (s *Service) ListLabResults(ctx context.Context, patientID uuid.UUID) ([]*LabResult, error) {
	return s.labs.ListByPatient(ctx, patientID)
}
