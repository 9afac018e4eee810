package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var validStatuses = map[string]bool{
	StatusScheduled: true, StatusCompleted: true, StatusCancelled: true,
}

type Service struct {
	appointments Repository
	now          func() time.Time
}

func NewService(appointments Repository) *Service {
	return &Service{appointments: appointments, now: time.Now}
}

func (s *Service) Create(ctx context.Context, a *Appointment) error {
	if a.PatientName == "" {
		return fmt.Errorf("patient_name is required")
	}
	if a.StartsAt.IsZero() {
		return fmt.Errorf("starts_at is required")
	}
	if a.Reason == "" {
		return fmt.Errorf("reason is required")
	}
	if a.Status == "" {
		a.Status = StatusScheduled
	}
	if !validStatuses[a.Status] {
		return fmt.Errorf("invalid status: %s", a.Status)
	}
	return s.appointments.Create(ctx, a)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.appointments.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	return s.appointments.List(ctx, limit, offset)
}

func (s *Service) Update(ctx context.Context, a *Appointment) error {
	if a.Status != "" && !validStatuses[a.Status] {
		return fmt.Errorf("invalid status: %s", a.Status)
	}
	return s.appointments.Update(ctx, a)
}

// UpdateStatus transitions an appointment without touching the rest of
// the record.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Appointment, error) {
	if !validStatuses[status] {
		return nil, fmt.Errorf("invalid status: %s", status)
	}
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Status = status
	if err := s.appointments.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.appointments.Delete(ctx, id)
}

// WeekView returns the Monday–Sunday window containing the current day.
func (s *Service) WeekView(ctx context.Context) (*CalendarView, error) {
	start := startOfWeek(s.now())
	return s.window(ctx, start, 7)
}

// TwoWeekView returns a 14-day window beginning at start. A zero start
// defaults to today.
func (s *Service) TwoWeekView(ctx context.Context, start time.Time) (*CalendarView, error) {
	if start.IsZero() {
		start = s.now()
	}
	return s.window(ctx, truncateToDay(start), 14)
}

func (s *Service) window(ctx context.Context, start time.Time, days int) (*CalendarView, error) {
	end := start.AddDate(0, 0, days)
	appts, err := s.appointments.ListBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string][]*Appointment)
	for _, a := range appts {
		key := a.StartsAt.In(start.Location()).Format("2006-01-02")
		byDate[key] = append(byDate[key], a)
	}

	view := &CalendarView{Start: start, End: end, Total: len(appts)}
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		key := day.Format("2006-01-02")
		dayAppts := byDate[key]
		if dayAppts == nil {
			dayAppts = []*Appointment{}
		}
		view.Days = append(view.Days, &CalendarDay{
			Date:         key,
			Weekday:      day.Weekday().String(),
			Appointments: dayAppts,
		})
	}
	return view, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek returns midnight of the Monday of t's week.
func startOfWeek(t time.Time) time.Time {
	day := truncateToDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
