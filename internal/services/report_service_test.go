package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/notify"
)

type recordingExporter struct {
	mu      sync.Mutex
	reports []core.Report
	err     error
}

func (e *recordingExporter) ExportReport(_ context.Context, r core.Report) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reports = append(e.reports, r)
	return e.err
}

func TestReportService_Generate(t *testing.T) {
	ctx := context.Background()
	store := newMemory()
	seedTx(t, store, "TI-1", "UI-1", core.Income, "Salary", "3000", time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	seedTx(t, store, "TI-2", "UI-1", core.Expense, "Food", "200", time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	seedTx(t, store, "TI-3", "UI-1", core.Expense, "Food", "150.50", time.Date(2025, 3, 31, 22, 0, 0, 0, time.UTC))
	seedTx(t, store, "TI-4", "UI-1", core.Expense, "Rent", "1000", time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC))
	seedTx(t, store, "TI-5", "UI-1", core.Expense, "Rent", "1000", time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	seedBudget(t, store, "BI-1", "UI-1", 3, "1500", march)

	exporter := &recordingExporter{}
	d := notify.NewDispatcher(time.Second)
	svc := NewReportService(store, exporter, fixedClock(march), WithDispatcher(d))

	r, err := svc.Generate(ctx, ReportRequest{UserID: "UI-1", StartDate: "2025-03-01", EndDate: "2025-03-31"})
	require.NoError(t, err)
	d.Wait()

	assert.Regexp(t, `^RI-\d+$`, r.ID)
	assert.True(t, r.TotalIncome.Equal(dec("3000")))
	assert.True(t, r.TotalExpenses.Equal(dec("1350.50")), "end date covers the whole day, got %s", r.TotalExpenses)
	assert.True(t, r.Savings.Equal(dec("1649.50")))
	assert.True(t, r.CategoryExpenses["Food"].Equal(dec("350.50")))
	assert.True(t, r.CategoryExpenses["Rent"].Equal(dec("1000")))
	assert.True(t, r.BudgetAllocated.Equal(dec("1500")))
	assert.Equal(t, "You're doing well!", r.Recommendation)

	stored, err := store.GetReport(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.UserID, stored.UserID)

	require.Len(t, exporter.reports, 1)
	assert.Equal(t, r.ID, exporter.reports[0].ID)
}

func TestReportService_GenerateFilters(t *testing.T) {
	ctx := context.Background()
	store := newMemory()
	seedTx(t, store, "TI-1", "UI-1", core.Expense, "Food", "20", march)
	seedTx(t, store, "TI-2", "UI-1", core.Expense, "Fuel", "50", march)

	r, err := NewReportService(store, nil, fixedClock(march)).Generate(ctx, ReportRequest{
		UserID:    "UI-1",
		StartDate: "2025-03-01T00:00:00Z",
		EndDate:   "2025-03-31T00:00:00Z",
		Category:  "Food",
	})
	require.NoError(t, err)
	assert.True(t, r.TotalExpenses.Equal(dec("20")))
	assert.Equal(t, "Food", r.CategoryFilter)
	assert.Equal(t, "Your expenses are higher than your income. Consider reducing discretionary spending.", r.Recommendation)
}

func TestReportService_GenerateErrors(t *testing.T) {
	ctx := context.Background()
	store := newMemory()
	seedTx(t, store, "TI-1", "UI-1", core.Expense, "Food", "20", march)
	svc := NewReportService(store, nil, fixedClock(march))

	tests := []struct {
		name    string
		req     ReportRequest
		kind    error
		message string
	}{
		{"missing dates", ReportRequest{UserID: "UI-1", StartDate: "2025-03-01"}, core.ErrInvalidInput, "Start date and end date are required."},
		{"bad format", ReportRequest{UserID: "UI-1", StartDate: "03/01/2025", EndDate: "2025-03-31"}, core.ErrInvalidInput, "Invalid date format."},
		{"inverted range", ReportRequest{UserID: "UI-1", StartDate: "2025-04-01", EndDate: "2025-03-01"}, core.ErrInvalidInput, "Start date must not be after end date."},
		{"empty window", ReportRequest{UserID: "UI-1", StartDate: "2024-01-01", EndDate: "2024-01-31"}, core.ErrNotFound, "No transactions found in this period."},
		{"other user", ReportRequest{UserID: "UI-2", StartDate: "2025-03-01", EndDate: "2025-03-31"}, core.ErrNotFound, "No transactions found in this period."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Generate(ctx, tt.req)
			require.ErrorIs(t, err, tt.kind)
			assert.Equal(t, tt.message, core.Message(err))
		})
	}

	reports, err := store.FindReports(ctx, ledger.ReportFilter{}, ledger.Newest)
	require.NoError(t, err)
	assert.Empty(t, reports, "failed requests persist nothing")
}

func TestReportService_ExportFailureDoesNotFail(t *testing.T) {
	ctx := context.Background()
	store := newMemory()
	seedTx(t, store, "TI-1", "UI-1", core.Income, "Salary", "20", march)

	d := notify.NewDispatcher(time.Second)
	exporter := &recordingExporter{err: errors.New("broker down")}
	r, err := NewReportService(store, exporter, fixedClock(march), WithDispatcher(d)).
		Generate(ctx, ReportRequest{UserID: "UI-1", StartDate: "2025-03-01", EndDate: "2025-03-31"})
	require.NoError(t, err)
	d.Wait()
	assert.NotEmpty(t, r.ID)
	assert.Len(t, exporter.reports, 1)
}

func TestSummarize(t *testing.T) {
	tx := func(typ core.TransactionType, amount string) core.Transaction {
		return core.Transaction{Type: typ, Category: "c", Amount: dec(amount)}
	}
	tests := []struct {
		name   string
		txs    []core.Transaction
		budget *core.Budget
		want   string
	}{
		{"overspending wins", []core.Transaction{tx(core.Income, "10"), tx(core.Expense, "20")}, &core.Budget{Amount: dec("5")}, recOverspending},
		{"budget exceeded", []core.Transaction{tx(core.Income, "100"), tx(core.Expense, "20")}, &core.Budget{Amount: dec("5")}, recBudgetExceeded},
		{"no budget", []core.Transaction{tx(core.Income, "100"), tx(core.Expense, "20")}, nil, recDoingWell},
		{"equal is fine", []core.Transaction{tx(core.Income, "20"), tx(core.Expense, "20")}, &core.Budget{Amount: dec("20")}, recDoingWell},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.txs, tt.budget)
			if got.Recommendation != tt.want {
				t.Errorf("Summarize().Recommendation = %q, want %q", got.Recommendation, tt.want)
			}
		})
	}
}

func TestParseReportDate(t *testing.T) {
	got, err := parseReportDate("2025-03-31", true, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 31, 23, 59, 59, 999999999, time.UTC), got)

	got, err = parseReportDate("2025-03-31T10:00:00+02:00", true, time.UTC)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2025, 3, 31, 8, 0, 0, 0, time.UTC)))
}
