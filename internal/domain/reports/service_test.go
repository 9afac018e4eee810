package reports

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pediclinic/pediclinic/internal/domain/pharmacy"
	"github.com/pediclinic/pediclinic/internal/domain/sales"
)

var reportNow = time.Date(2026, time.June, 20, 10, 0, 0, 0, time.UTC)

type mockSalesSource struct {
	sales []*sales.Sale
}

func (m *mockSalesSource) ListBetween(_ context.Context, start, end time.Time) ([]*sales.Sale, error) {
	var out []*sales.Sale
	for _, s := range m.sales {
		if !s.SoldAt.Before(start) && s.SoldAt.Before(end) {
			out = append(out, s)
		}
	}
	return out, nil
}

type mockInventorySource struct {
	all      []*pharmacy.Medication
	lowStock []*pharmacy.Medication
	expiring []*pharmacy.Medication
}

func (m *mockInventorySource) List(_ context.Context, _, _ int) ([]*pharmacy.Medication, int, error) {
	return m.all, len(m.all), nil
}

func (m *mockInventorySource) LowStock(_ context.Context) ([]*pharmacy.Medication, error) {
	return m.lowStock, nil
}

func (m *mockInventorySource) ExpiringBefore(_ context.Context, _ time.Time) ([]*pharmacy.Medication, error) {
	return m.expiring, nil
}

func newReportService(src *mockSalesSource, inv *mockInventorySource) *Service {
	svc := NewService(src, inv, nil, zerolog.Nop())
	svc.now = func() time.Time { return reportNow }
	return svc
}

func day(d int) time.Time {
	return time.Date(2026, time.June, d, 10, 0, 0, 0, time.UTC)
}

func TestMonthlySales(t *testing.T) {
	medA := uuid.New()
	medB := uuid.New()
	medC := uuid.New()

	src := &mockSalesSource{sales: []*sales.Sale{
		{
			ID: uuid.New(), SoldAt: day(2), Total: 100, TotalCost: 60, GrossProfit: 40,
			CustomerName: "María Pérez",
			Items: []sales.SaleItem{
				{MedicationID: medA, MedicationName: "Amoxicilina", Quantity: 3, LineTotal: 60},
				{MedicationID: medB, MedicationName: "Jarabe para la tos", Quantity: 1, LineTotal: 40},
			},
		},
		{
			ID: uuid.New(), SoldAt: day(10), Total: 50, TotalCost: 30, GrossProfit: 20,
			CustomerName: "María Pérez",
			Items: []sales.SaleItem{
				{MedicationID: medA, MedicationName: "Amoxicilina", Quantity: 2, LineTotal: 50},
			},
		},
		{
			ID: uuid.New(), SoldAt: day(15), Total: 30, TotalCost: 20, GrossProfit: 10,
			CustomerName: "Juan Gómez",
			Items: []sales.SaleItem{
				{MedicationID: medB, MedicationName: "Jarabe para la tos", Quantity: 1, LineTotal: 30},
			},
		},
		// Outside the requested month.
		{ID: uuid.New(), SoldAt: time.Date(2026, time.May, 20, 0, 0, 0, 0, time.UTC), Total: 999},
	}}
	inv := &mockInventorySource{all: []*pharmacy.Medication{
		{ID: medA, Name: "Amoxicilina"},
		{ID: medB, Name: "Jarabe para la tos"},
		{ID: medC, Name: "Zinc Pediátrico", Stock: 8},
	}}

	report, err := newReportService(src, inv).MonthlySales(context.Background(), 6, 2026)
	require.NoError(t, err)

	assert.Equal(t, 180.0, report.Summary.TotalSales)
	assert.Equal(t, 110.0, report.Summary.TotalCost)
	assert.Equal(t, 70.0, report.Summary.GrossProfit)
	assert.Equal(t, 3, report.Summary.SaleCount)
	assert.Equal(t, 60.0, report.Summary.AverageSale)

	require.Len(t, report.TopProducts, 2)
	assert.Equal(t, "Amoxicilina", report.TopProducts[0].Name)
	assert.Equal(t, 5, report.TopProducts[0].UnitsSold)
	assert.Equal(t, 110.0, report.TopProducts[0].Revenue)
	assert.Equal(t, "Jarabe para la tos", report.LeastSold[0].Name)

	require.Len(t, report.Unsold, 1)
	assert.Equal(t, "Zinc Pediátrico", report.Unsold[0].Name)
	assert.Equal(t, 8, report.Unsold[0].Stock)

	require.Len(t, report.Customers.FrequentCustomers, 2)
	assert.Equal(t, "María Pérez", report.Customers.FrequentCustomers[0].Name)
	assert.Equal(t, 2, report.Customers.FrequentCustomers[0].Purchases)
	assert.Equal(t, 150.0, report.Customers.FrequentCustomers[0].TotalSpent)
	assert.Equal(t, 30.0, report.Customers.Amounts.Minimum)
	assert.Equal(t, 100.0, report.Customers.Amounts.Maximum)
	assert.Equal(t, 60.0, report.Customers.Amounts.Average)
}

func TestMonthlySales_EmptyMonth(t *testing.T) {
	svc := newReportService(&mockSalesSource{}, &mockInventorySource{})

	report, err := svc.MonthlySales(context.Background(), 1, 2026)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Summary.SaleCount)
	assert.Equal(t, 0.0, report.Summary.AverageSale)
	assert.Empty(t, report.TopProducts)
	assert.NotNil(t, report.Unsold)
}

func TestMonthlySales_ValidatesPeriod(t *testing.T) {
	svc := newReportService(&mockSalesSource{}, &mockInventorySource{})
	ctx := context.Background()

	_, err := svc.MonthlySales(ctx, 0, 2026)
	assert.Error(t, err)
	_, err = svc.MonthlySales(ctx, 13, 2026)
	assert.Error(t, err)
	_, err = svc.MonthlySales(ctx, 6, 1990)
	assert.Error(t, err)
}

func TestRecommendations(t *testing.T) {
	medA := uuid.New()
	exp := reportNow.AddDate(0, 0, 10)

	src := &mockSalesSource{sales: []*sales.Sale{
		// Previous month did twice the business.
		{ID: uuid.New(), SoldAt: time.Date(2026, time.May, 5, 0, 0, 0, 0, time.UTC), Total: 200},
		{
			ID: uuid.New(), SoldAt: day(3), Total: 100,
			Items: []sales.SaleItem{
				{MedicationID: medA, MedicationName: "Amoxicilina", Quantity: 4, LineTotal: 100},
			},
		},
	}}
	inv := &mockInventorySource{
		all: []*pharmacy.Medication{
			{ID: medA, Name: "Amoxicilina", PublicPrice: 25, RealUnitCost: 15},
			{ID: uuid.New(), Name: "Suero Oral", PublicPrice: 10, RealUnitCost: 9},
		},
		lowStock: []*pharmacy.Medication{
			{ID: uuid.New(), Name: "Paracetamol", Stock: 2, MinimumStock: 10},
		},
		expiring: []*pharmacy.Medication{
			{ID: uuid.New(), Name: "Ibuprofeno", ExpirationDate: &exp},
		},
	}

	report, err := newReportService(src, inv).Recommendations(context.Background(), 6, 2026)
	require.NoError(t, err)

	assert.Equal(t, TrendDown, report.Trend.Direction)
	assert.Equal(t, -50.0, report.Trend.ChangePercent)
	assert.Equal(t, 200.0, report.Trend.PreviousMonthSales)
	assert.Equal(t, 100.0, report.Trend.CurrentMonthSales)

	byCategory := map[string][]Recommendation{}
	for _, r := range report.Recommendations {
		byCategory[r.Category] = append(byCategory[r.Category], r)
	}

	require.NotEmpty(t, byCategory[CategoryInventory])
	assert.Contains(t, byCategory[CategoryInventory][0].Message, "Paracetamol")
	assert.Equal(t, "high", byCategory[CategoryInventory][0].Priority)

	// Suero Oral margin is 10%, under the 20% threshold.
	require.NotEmpty(t, byCategory[CategoryPricing])
	assert.Contains(t, byCategory[CategoryPricing][0].Message, "Suero Oral")

	// The 50% drop triggers the promotion rule, plus the best-seller note.
	require.Len(t, byCategory[CategoryMarketing], 2)
	assert.Contains(t, byCategory[CategoryMarketing][0].Message, "dropped 50.0%")
	assert.Contains(t, byCategory[CategoryMarketing][1].Message, "Amoxicilina")
}

func TestRecommendations_TrendUpFromZero(t *testing.T) {
	src := &mockSalesSource{sales: []*sales.Sale{
		{ID: uuid.New(), SoldAt: day(3), Total: 100},
	}}
	report, err := newReportService(src, &mockInventorySource{}).Recommendations(context.Background(), 6, 2026)
	require.NoError(t, err)

	assert.Equal(t, TrendUp, report.Trend.Direction)
	assert.Equal(t, 100.0, report.Trend.ChangePercent)
}
