package pharmacy

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type mockRepo struct {
	medications map[uuid.UUID]*Medication
}

func newMockRepo() *mockRepo {
	return &mockRepo{medications: make(map[uuid.UUID]*Medication)}
}

func (m *mockRepo) Create(ctx context.Context, med *Medication) error {
	if med.ID == uuid.Nil {
		med.ID = uuid.New()
	}
	m.medications[med.ID] = med
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*Medication, error) {
	med, ok := m.medications[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return med, nil
}

func (m *mockRepo) GetByBarcode(ctx context.Context, barcode string) (*Medication, error) {
	for _, med := range m.medications {
		if med.Barcode != nil && *med.Barcode == barcode {
			return med, nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (m *mockRepo) List(ctx context.Context, limit, offset int) ([]*Medication, int, error) {
	var out []*Medication
	for _, med := range m.medications {
		out = append(out, med)
	}
	return out, len(out), nil
}

func (m *mockRepo) Search(ctx context.Context, query string, limit, offset int) ([]*Medication, int, error) {
	q := strings.ToLower(query)
	var out []*Medication
	for _, med := range m.medications {
		if strings.Contains(strings.ToLower(med.Name), q) || strings.Contains(strings.ToLower(med.Category), q) {
			out = append(out, med)
		}
	}
	return out, len(out), nil
}

func (m *mockRepo) Available(ctx context.Context, search string) ([]*Medication, error) {
	var out []*Medication
	for _, med := range m.medications {
		if med.Stock <= 0 {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(med.Name), strings.ToLower(search)) &&
			!strings.Contains(strings.ToLower(med.Category), strings.ToLower(search)) {
			continue
		}
		out = append(out, med)
	}
	return out, nil
}

func (m *mockRepo) LowStock(ctx context.Context) ([]*Medication, error) {
	var out []*Medication
	for _, med := range m.medications {
		if med.Stock <= med.MinimumStock {
			out = append(out, med)
		}
	}
	return out, nil
}

func (m *mockRepo) ExpiringBefore(ctx context.Context, cutoff time.Time) ([]*Medication, error) {
	var out []*Medication
	for _, med := range m.medications {
		if med.ExpirationDate != nil && !med.ExpirationDate.After(cutoff) {
			out = append(out, med)
		}
	}
	return out, nil
}

func (m *mockRepo) Update(ctx context.Context, med *Medication) error {
	if _, ok := m.medications[med.ID]; !ok {
		return fmt.Errorf("not found")
	}
	m.medications[med.ID] = med
	return nil
}

func (m *mockRepo) UpdateStock(ctx context.Context, id uuid.UUID, stock int) error {
	med, ok := m.medications[id]
	if !ok {
		return fmt.Errorf("not found")
	}
	med.Stock = stock
	return nil
}

func (m *mockRepo) DecrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	med, ok := m.medications[id]
	if !ok {
		return fmt.Errorf("not found")
	}
	if med.Stock < qty {
		return fmt.Errorf("decrement stock for %s: %w", id, ErrInsufficientStock)
	}
	med.Stock -= qty
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.medications[id]; !ok {
		return fmt.Errorf("not found")
	}
	delete(m.medications, id)
	return nil
}

var serviceNow = time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	svc := NewService(repo, 0.25, 28, zerolog.Nop())
	svc.now = func() time.Time { return serviceNow }
	return svc, repo
}

func validMedication() *Medication {
	return &Medication{
		Name:         "Paracetamol Pediátrico",
		Category:     "Analgésicos",
		Stock:        50,
		MinimumStock: 10,
		UnitCost:     15,
		TaxPercent:   15,
	}
}

func TestCreate_AutoPrices(t *testing.T) {
	svc, _ := newTestService()

	m := validMedication()
	if err := svc.Create(context.Background(), m); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if m.RealUnitCost != 17.25 {
		t.Errorf("real_unit_cost = %v, want 17.25", m.RealUnitCost)
	}
	if m.BasePrice != 23.0 {
		t.Errorf("base_price = %v, want 23.0", m.BasePrice)
	}
	if m.PublicPrice != 23.0 {
		t.Errorf("public_price = %v, want 23.0", m.PublicPrice)
	}
}

func TestCreate_RejectsInvalidCost(t *testing.T) {
	svc, _ := newTestService()

	m := validMedication()
	m.UnitCost = 0
	if err := svc.Create(context.Background(), m); err == nil {
		t.Error("expected error for zero unit cost")
	}
}

func TestUpdate_RepricesOnCostChange(t *testing.T) {
	svc, _ := newTestService()

	m := validMedication()
	if err := svc.Create(context.Background(), m); err != nil {
		t.Fatalf("Create: %v", err)
	}

	m.UnitCost = 30
	m.TaxPercent = 0
	if err := svc.Update(context.Background(), m); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if m.RealUnitCost != 30.0 {
		t.Errorf("real_unit_cost = %v, want 30.0", m.RealUnitCost)
	}
	if m.PublicPrice != 40.0 {
		t.Errorf("public_price = %v, want 40.0", m.PublicPrice)
	}
}

func TestSetStock(t *testing.T) {
	svc, _ := newTestService()

	m := validMedication()
	if err := svc.Create(context.Background(), m); err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := svc.SetStock(context.Background(), m.ID, 5)
	if err != nil {
		t.Fatalf("SetStock: %v", err)
	}
	if updated.Stock != 5 {
		t.Errorf("stock = %d, want 5", updated.Stock)
	}

	if _, err := svc.SetStock(context.Background(), m.ID, -1); err == nil {
		t.Error("expected error for negative stock")
	}
}

func TestAlerts_Priorities(t *testing.T) {
	svc, repo := newTestService()

	out := validMedication()
	out.Name = "Agotado"
	out.Stock = 0

	low := validMedication()
	low.Name = "Escaso"
	low.Stock = 5

	expSoon := serviceNow.AddDate(0, 0, 5)
	expMid := serviceNow.AddDate(0, 0, 12)
	expFar := serviceNow.AddDate(0, 0, 25)
	tooFar := serviceNow.AddDate(0, 0, 60)

	urgent := validMedication()
	urgent.Name = "Vence pronto"
	urgent.ExpirationDate = &expSoon

	medium := validMedication()
	medium.Name = "Vence en dos semanas"
	medium.ExpirationDate = &expMid

	distant := validMedication()
	distant.Name = "Vence este mes"
	distant.ExpirationDate = &expFar

	fine := validMedication()
	fine.Name = "Sin problema"
	fine.ExpirationDate = &tooFar

	for _, m := range []*Medication{out, low, urgent, medium, distant, fine} {
		if err := repo.Create(context.Background(), m); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	feed, err := svc.Alerts(context.Background())
	if err != nil {
		t.Fatalf("Alerts: %v", err)
	}

	if feed.ByType[AlertLowStock] != 2 {
		t.Errorf("low stock alerts = %d, want 2", feed.ByType[AlertLowStock])
	}
	if feed.ByType[AlertExpiringSoon] != 3 {
		t.Errorf("expiry alerts = %d, want 3", feed.ByType[AlertExpiringSoon])
	}
	if feed.TotalAlerts != 5 {
		t.Errorf("total = %d, want 5", feed.TotalAlerts)
	}

	priorities := map[string]string{}
	for _, a := range feed.Alerts {
		priorities[a.MedicationName+"/"+a.Type] = a.Priority
	}
	expect := map[string]string{
		"Agotado/low_stock":                  PriorityHigh,
		"Escaso/low_stock":                   PriorityMedium,
		"Vence pronto/expiring_soon":         PriorityHigh,
		"Vence en dos semanas/expiring_soon": PriorityMedium,
		"Vence este mes/expiring_soon":       PriorityLow,
	}
	for key, want := range expect {
		if priorities[key] != want {
			t.Errorf("priority[%s] = %q, want %q", key, priorities[key], want)
		}
	}
}

func TestExpiring_DefaultWindow(t *testing.T) {
	svc, repo := newTestService()

	in20 := serviceNow.AddDate(0, 0, 20)
	in40 := serviceNow.AddDate(0, 0, 40)

	a := validMedication()
	a.Name = "Dentro"
	a.ExpirationDate = &in20
	b := validMedication()
	b.Name = "Fuera"
	b.ExpirationDate = &in40

	for _, m := range []*Medication{a, b} {
		if err := repo.Create(context.Background(), m); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	items, err := svc.Expiring(context.Background(), 0)
	if err != nil {
		t.Fatalf("Expiring: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Dentro" {
		t.Errorf("expiring = %v, want only Dentro", items)
	}
}

func TestDetectRestock_ByBarcode(t *testing.T) {
	svc, repo := newTestService()

	barcode := "7501001234567"
	m := validMedication()
	m.Barcode = &barcode
	if err := repo.Create(context.Background(), m); err != nil {
		t.Fatalf("seed: %v", err)
	}

	detection, err := svc.DetectRestock(context.Background(), &RestockRequest{
		ProductName: "Otro nombre totalmente distinto",
		Barcode:     &barcode,
	})
	if err != nil {
		t.Fatalf("DetectRestock: %v", err)
	}
	if !detection.IsRestock {
		t.Fatal("expected restock detection")
	}
	if detection.Confidence != 0.95 {
		t.Errorf("confidence = %v, want 0.95", detection.Confidence)
	}
	if detection.ExistingProduct == nil || detection.ExistingProduct.ID != m.ID {
		t.Error("expected existing product in detection")
	}
}

func TestDetectRestock_ByName(t *testing.T) {
	svc, repo := newTestService()

	m := validMedication()
	m.Name = "Acetaminofén Pediátrico 160mg"
	if err := repo.Create(context.Background(), m); err != nil {
		t.Fatalf("seed: %v", err)
	}

	detection, err := svc.DetectRestock(context.Background(), &RestockRequest{
		ProductName: "Acetaminofén Pediátrico 160mg Nuevo Lote",
	})
	if err != nil {
		t.Fatalf("DetectRestock: %v", err)
	}
	if !detection.IsRestock {
		t.Fatal("expected restock detection")
	}
	if detection.Confidence < 0.6 {
		t.Errorf("confidence = %v, want >= 0.6", detection.Confidence)
	}
}

func TestDetectRestock_NewProduct(t *testing.T) {
	svc, repo := newTestService()

	m := validMedication()
	if err := repo.Create(context.Background(), m); err != nil {
		t.Fatalf("seed: %v", err)
	}

	detection, err := svc.DetectRestock(context.Background(), &RestockRequest{
		ProductName: "Loratadina Jarabe",
	})
	if err != nil {
		t.Fatalf("DetectRestock: %v", err)
	}
	if detection.IsRestock {
		t.Error("expected no restock for unrelated product")
	}
}

func TestApplyRestock(t *testing.T) {
	svc, repo := newTestService()

	m := validMedication()
	if err := repo.Create(context.Background(), m); err != nil {
		t.Fatalf("seed: %v", err)
	}

	newExpiry := serviceNow.AddDate(1, 0, 0)
	newCost := 18.0
	updated, err := svc.ApplyRestock(context.Background(), m.ID, &RestockApply{
		NewLot:          "LOT2026",
		ExpirationDate:  &newExpiry,
		AdditionalStock: 30,
		UnitCost:        &newCost,
	})
	if err != nil {
		t.Fatalf("ApplyRestock: %v", err)
	}
	if updated.Stock != 80 {
		t.Errorf("stock = %d, want 80", updated.Stock)
	}
	if updated.Lot != "LOT2026" {
		t.Errorf("lot = %q, want LOT2026", updated.Lot)
	}
	if updated.UnitCost != 18.0 {
		t.Errorf("unit_cost = %v, want 18.0", updated.UnitCost)
	}
	// 18 * 1.15 = 20.7 with tax, repriced
	if updated.RealUnitCost != 20.7 {
		t.Errorf("real_unit_cost = %v, want 20.7", updated.RealUnitCost)
	}

	if _, err := svc.ApplyRestock(context.Background(), m.ID, &RestockApply{AdditionalStock: 0}); err == nil {
		t.Error("expected error for zero additional stock")
	}
}
