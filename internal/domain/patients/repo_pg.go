package patients

import (
	"context"
	"fmt"

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

// =========== Patient Repository ===========

type patientRepoPG struct{ pool *pgxpool.Pool }

// NewRepoPG creates a PostgreSQL-backed patient repository.
func NewRepoPG(pool *pgxpool.Pool) Repository { return &patientRepoPG{pool: pool} }

func (r *patientRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const patientColumns = `id, full_name, birth_date, age, father_name, mother_name,
	address, phone, COALESCE(symptoms,''), COALESCE(clinical_diagnosis,''),
	cie10_code, cie10_description, diagnosis_severity,
	weight_kg, height_m, bmi, nutritional_status,
	COALESCE(reminder_contact,''), created_at, updated_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.FullName, &p.BirthDate, &p.Age, &p.FatherName,
		&p.MotherName, &p.Address, &p.Phone, &p.Symptoms, &p.ClinicalDiagnosis,
		&p.CIE10Code, &p.CIE10Description, &p.DiagnosisSeverity,
		&p.WeightKg, &p.HeightM, &p.BMI, &p.NutritionalStatus,
		&p.ReminderContact, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *patientRepoPG) Create(ctx context.Context, p *Patient) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx,
		`INSERT INTO patients (id, full_name, birth_date, age, father_name, mother_name,
		     address, phone, symptoms, clinical_diagnosis, cie10_code, cie10_description,
		     diagnosis_severity, weight_kg, height_m, bmi, nutritional_status, reminder_contact)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`,
		p.ID, p.FullName, p.BirthDate, p.Age, p.FatherName, p.MotherName,
		p.Address, p.Phone, p.Symptoms, p.ClinicalDiagnosis, p.CIE10Code,
		p.CIE10Description, p.DiagnosisSeverity, p.WeightKg, p.HeightM,
		p.BMI, p.NutritionalStatus, p.ReminderContact)
	if err != nil {
		return fmt.Errorf("create patient: %w", err)
	}
	return nil
}

func (r *patientRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, err := scanPatient(r.conn(ctx).QueryRow(ctx,
		`SELECT `+patientColumns+` FROM patients WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get patient: %w", err)
	}
	return p, nil
}

func (r *patientRepoPG) List(ctx context.Context, search string, limit, offset int) ([]*Patient, int, error) {
	where := ""
	args := []interface{}{}
	if search != "" {
		where = ` WHERE full_name ILIKE $1`
		args = append(args, "%"+search+"%")
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patients`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count patients: %w", err)
	}

	query := `SELECT ` + patientColumns + ` FROM patients` + where +
		fmt.Sprintf(` ORDER BY full_name LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list patients: %w", err)
	}
	defer rows.Close()

	var patients []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		patients = append(patients, p)
	}
	return patients, total, rows.Err()
}

func (r *patientRepoPG) Update(ctx context.Context, p *Patient) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE patients SET full_name=$2, birth_date=$3, age=$4, father_name=$5,
		     mother_name=$6, address=$7, phone=$8, symptoms=$9, clinical_diagnosis=$10,
		     cie10_code=$11, cie10_description=$12, diagnosis_severity=$13,
		     weight_kg=$14, height_m=$15, bmi=$16, nutritional_status=$17,
		     reminder_contact=$18, updated_at=now()
		 WHERE id=$1`,
		p.ID, p.FullName, p.BirthDate, p.Age, p.FatherName, p.MotherName,
		p.Address, p.Phone, p.Symptoms, p.ClinicalDiagnosis, p.CIE10Code,
		p.CIE10Description, p.DiagnosisSeverity, p.WeightKg, p.HeightM,
		p.BMI, p.NutritionalStatus, p.ReminderContact)
	if err != nil {
		return fmt.Errorf("update patient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("patient not found: %s", p.ID)
	}
	return nil
}

func (r *patientRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("patient not found: %s", id)
	}
	return nil
}

// =========== Visit Repository ===========

type visitRepoPG struct{ pool *pgxpool.Pool }

// NewVisitRepoPG creates a PostgreSQL-backed visit record repository.
func NewVisitRepoPG(pool *pgxpool.Pool) VisitRepository { return &visitRepoPG{pool: pool} }

func (r *visitRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *visitRepoPG) Add(ctx context.Context, v *VisitRecord) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx,
		`INSERT INTO visit_records (id, patient_id, visit_date, reason, treatment, fee, doctor)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		v.ID, v.PatientID, v.VisitDate, v.Reason, v.Treatment, v.Fee, v.Doctor)
	if err != nil {
		return fmt.Errorf("add visit record: %w", err)
	}
	return nil
}

func (r *visitRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*VisitRecord, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT id, patient_id, visit_date, reason, treatment, fee, doctor, created_at
		 FROM visit_records WHERE patient_id = $1 ORDER BY visit_date DESC`, patientID)
	if err != nil {
		return nil, fmt.Errorf("list visit records: %w", err)
	}
	defer rows.Close()

	var visits []*VisitRecord
	for rows.Next() {
		var v VisitRecord
		if err := rows.Scan(&v.ID, &v.PatientID, &v.VisitDate, &v.Reason,
			&v.Treatment, &v.Fee, &v.Doctor, &v.CreatedAt); err != nil {
			return nil, err
		}
		visits = append(visits, &v)
	}
	return visits, rows.Err()
}

// =========== Lab Repository ===========

type labRepoPG struct{ pool *pgxpool.Pool }

// NewLabRepoPG creates a PostgreSQL-backed lab result repository.
func NewLabRepoPG(pool *pgxpool.Pool) LabRepository { return &labRepoPG{pool: pool} }

func (r *labRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *labRepoPG) Add(ctx context.Context, l *LabResult) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx,
		`INSERT INTO lab_results (id, patient_id, test_name, result, test_date, requesting_doctor)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		l.ID, l.PatientID, l.TestName, l.Result, l.TestDate, l.RequestingDoctor)
	if err != nil {
		return fmt.Errorf("add lab result: %w", err)
	}
	return nil
}

func (r *labRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*LabResult, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT id, patient_id, test_name, result, test_date, requesting_doctor, created_at
		 FROM lab_results WHERE patient_id = $1 ORDER BY test_date DESC`, patientID)
	if err != nil {
		return nil, fmt.Errorf("list lab results: %w", err)
	}
	defer rows.Close()

	var results []*LabResult
	for rows.Next() {
		var l LabResult
		if err := rows.Scan(&l.ID, &l.PatientID, &l.TestName, &l.Result,
			&l.TestDate, &l.RequestingDoctor, &l.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, &l)
	}
	return results, rows.Err()
}
