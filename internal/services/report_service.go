package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

const (
	recOverspending   = "Your expenses are higher than your income. Consider reducing discretionary spending."
	recBudgetExceeded = "You have exceeded your budget. Try adjusting your spending habits."
	recDoingWell      = "You're doing well!"
)

// ReportExporter receives generated reports for delivery outside the API.
type ReportExporter interface {
	ExportReport(ctx context.Context, r core.Report) error
}

// ReportRequest holds the raw inputs of a report. Dates are RFC 3339
// instants or YYYY-MM-DD; a date-only end covers the whole day.
type ReportRequest struct {
	UserID    string `json:"userId"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Category  string `json:"category,omitempty"`
	Label     string `json:"label,omitempty"`
}

type ReportService struct {
	store    ledger.Store
	exporter ReportExporter
	opts     options
}

// NewReportService creates the generator. exporter may be nil.
func NewReportService(store ledger.Store, exporter ReportExporter, opts ...Option) *ReportService {
	return &ReportService{store: store, exporter: exporter, opts: newOptions(opts)}
}

// Generate aggregates the user's transactions in the requested window,
// persists the resulting report and hands it to the exporter without
// waiting for delivery.
func (s *ReportService) Generate(ctx context.Context, req ReportRequest) (core.Report, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return core.Report{}, core.Invalid("userId is required")
	}
	if strings.TrimSpace(req.StartDate) == "" || strings.TrimSpace(req.EndDate) == "" {
		return core.Report{}, core.Invalid("Start date and end date are required.")
	}
	start, err := parseReportDate(req.StartDate, false, s.opts.loc)
	if err != nil {
		return core.Report{}, err
	}
	end, err := parseReportDate(req.EndDate, true, s.opts.loc)
	if err != nil {
		return core.Report{}, err
	}
	if start.After(end) {
		return core.Report{}, core.Invalid("Start date must not be after end date.")
	}

	var (
		txs    []core.Transaction
		budget *core.Budget
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = s.store.FindTransactions(gctx, ledger.TransactionFilter{
			UserID:      req.UserID,
			Category:    req.Category,
			Label:       req.Label,
			CreatedFrom: start,
			CreatedTo:   end,
		}, ledger.Newest)
		if err != nil {
			return fmt.Errorf("find transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		latest, err := s.store.FindBudgets(gctx, ledger.BudgetFilter{UserID: req.UserID}, ledger.FindOptions{Limit: 1})
		if err != nil {
			return fmt.Errorf("find latest budget: %w", err)
		}
		if len(latest) > 0 {
			budget = &latest[0]
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return core.Report{}, err
	}
	if len(txs) == 0 {
		return core.Report{}, core.NotFound("No transactions found in this period.")
	}

	r := Summarize(txs, budget)
	r.ID = core.NewID(core.PrefixReport)
	r.UserID = req.UserID
	r.StartDate = start
	r.EndDate = end
	r.CategoryFilter = req.Category
	r.LabelFilter = req.Label
	r.CreatedAt = s.opts.clock()

	created, err := s.store.CreateReport(ctx, r)
	if err != nil {
		return core.Report{}, fmt.Errorf("create report: %w", err)
	}
	slog.InfoContext(ctx, "Report generated",
		"id", created.ID,
		"user_id", created.UserID,
		"transactions", len(txs),
		"savings", created.Savings.String())

	if s.exporter != nil {
		s.opts.dispatcher.Go(ctx, "export report", func(ctx context.Context) error {
			return s.exporter.ExportReport(ctx, created)
		})
	}
	return created, nil
}

// Summarize computes totals, category breakdown and recommendation. budget
// may be nil.
func Summarize(txs []core.Transaction, budget *core.Budget) core.Report {
	r := core.Report{
		TotalIncome:      decimal.Zero,
		TotalExpenses:    decimal.Zero,
		CategoryExpenses: map[string]decimal.Decimal{},
		BudgetAllocated:  decimal.Zero,
		BudgetRemaining:  decimal.Zero,
	}
	for _, t := range txs {
		switch t.Type {
		case core.Income:
			r.TotalIncome = r.TotalIncome.Add(t.Amount)
		case core.Expense:
			r.TotalExpenses = r.TotalExpenses.Add(t.Amount)
			r.CategoryExpenses[t.Category] = r.CategoryExpenses[t.Category].Add(t.Amount)
		}
	}
	r.Savings = r.TotalIncome.Sub(r.TotalExpenses)
	if budget != nil {
		r.BudgetAllocated = budget.Amount
		r.BudgetRemaining = budget.RemainingAmount
	}

	switch {
	case r.TotalExpenses.GreaterThan(r.TotalIncome):
		r.Recommendation = recOverspending
	case budget != nil && r.TotalExpenses.GreaterThan(budget.Amount):
		r.Recommendation = recBudgetExceeded
	default:
		r.Recommendation = recDoingWell
	}
	return r
}

func (s *ReportService) List(ctx context.Context) ([]core.Report, error) {
	return s.store.FindReports(ctx, ledger.ReportFilter{}, ledger.Newest)
}

func (s *ReportService) ListByUser(ctx context.Context, userID string) ([]core.Report, error) {
	return s.store.FindReports(ctx, ledger.ReportFilter{UserID: userID}, ledger.Newest)
}

func (s *ReportService) Get(ctx context.Context, id string) (core.Report, error) {
	return s.store.GetReport(ctx, id)
}

func parseReportDate(raw string, endOfDay bool, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, raw, loc)
	if err != nil {
		return time.Time{}, core.Invalid("Invalid date format.")
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return t, nil
}
