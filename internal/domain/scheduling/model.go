package scheduling

import (
	"time"

	"github.com/google/uuid"
)

// Appointment statuses.
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Appointment maps to the appointments table. PatientName is a snapshot
// taken at booking time so the calendar stays readable if the patient
// record is later renamed or removed.
type Appointment struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	PatientID   *uuid.UUID `db:"patient_id" json:"patient_id,omitempty"`
	PatientName string     `db:"patient_name" json:"patient_name"`
	StartsAt    time.Time  `db:"starts_at" json:"starts_at"`
	Reason      string     `db:"reason" json:"reason"`
	Doctor      string     `db:"doctor" json:"doctor,omitempty"`
	Notes       string     `db:"notes" json:"notes,omitempty"`
	Status      string     `db:"status" json:"status"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// CalendarDay groups a day's appointments for the week views.
type CalendarDay struct {
	Date         string         `json:"date"`
	Weekday      string         `json:"weekday"`
	Appointments []*Appointment `json:"appointments"`
}

// CalendarView is the response shape for the week and two-week endpoints.
type CalendarView struct {
	Start time.Time      `json:"start"`
	End   time.Time      `json:"end"`
	Days  []*CalendarDay `json:"days"`
	Total int            `json:"total"`
}
