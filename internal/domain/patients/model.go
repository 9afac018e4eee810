package patients

import (
	"time"

	"github.com/google/uuid"
)

// Diagnosis severity levels.
const (
	SeverityMild     = "mild"
	SeverityModerate = "moderate"
	SeveritySevere   = "severe"
)

// Nutritional status derived from BMI.
const (
	StatusUndernourished  = "undernourished"
	StatusNormal          = "normal"
	StatusMildObesity     = "mild_obesity"
	StatusModerateObesity = "moderate_obesity"
	StatusMorbidObesity   = "morbid_obesity"
)

// Patient maps to the patients table.
type Patient struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	FullName          string     `db:"full_name" json:"full_name"`
	BirthDate         time.Time  `db:"birth_date" json:"birth_date"`
	Age               int        `db:"age" json:"age"`
	FatherName        string     `db:"father_name" json:"father_name"`
	MotherName        string     `db:"mother_name" json:"mother_name"`
	Address           string     `db:"address" json:"address"`
	Phone             string     `db:"phone" json:"phone"`
	Symptoms          string     `db:"symptoms" json:"symptoms,omitempty"`
	ClinicalDiagnosis string     `db:"clinical_diagnosis" json:"clinical_diagnosis,omitempty"`
	CIE10Code         *string    `db:"cie10_code" json:"cie10_code,omitempty"`
	CIE10Description  *string    `db:"cie10_description" json:"cie10_description,omitempty"`
	DiagnosisSeverity *string    `db:"diagnosis_severity" json:"diagnosis_severity,omitempty"`
	WeightKg          *float64   `db:"weight_kg" json:"weight_kg,omitempty"`
	HeightM           *float64   `db:"height_m" json:"height_m,omitempty"`
	BMI               *float64   `db:"bmi" json:"bmi,omitempty"`
	NutritionalStatus *string    `db:"nutritional_status" json:"nutritional_status,omitempty"`
	ReminderContact   string     `db:"reminder_contact" json:"reminder_contact,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

// VisitRecord maps to the visit_records table: one past appointment in a
// patient's chart.
type VisitRecord struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	VisitDate time.Time `db:"visit_date" json:"visit_date"`
	Reason    string    `db:"reason" json:"reason"`
	Treatment string    `db:"treatment" json:"treatment"`
	Fee       float64   `db:"fee" json:"fee"`
	Doctor    string    `db:"doctor" json:"doctor"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// LabResult maps to the lab_results table.
type LabResult struct {
	ID               uuid.UUID `db:"id" json:"id"`
	PatientID        uuid.UUID `db:"patient_id" json:"patient_id"`
	TestName         string    `db:"test_name" json:"test_name"`
	Result           string    `db:"result" json:"result"`
	TestDate         time.Time `db:"test_date" json:"test_date"`
	RequestingDoctor string    `db:"requesting_doctor" json:"requesting_doctor"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}
