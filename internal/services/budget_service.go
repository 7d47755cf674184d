package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

var (
	increaseThreshold = decimal.RequireFromString("0.3")
	decreaseThreshold = decimal.RequireFromString("0.1")
)

const wellBalanced = "Your budget is well-balanced."

// BudgetService manages budgets and refreshes their monthly spend.
type BudgetService struct {
	store ledger.Store
	opts  options
}

func NewBudgetService(store ledger.Store, opts ...Option) *BudgetService {
	return &BudgetService{store: store, opts: newOptions(opts)}
}

// Create stores a new budget with derived remainingAmount and status.
func (s *BudgetService) Create(ctx context.Context, b core.Budget) (core.Budget, error) {
	b.Status = ""
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	now := s.opts.clock()
	b.ID = core.NewID(core.PrefixBudget)
	b.CreatedAt, b.UpdatedAt = now, now
	b.Recalculate()

	created, err := s.store.CreateBudget(ctx, b)
	if err != nil {
		return core.Budget{}, fmt.Errorf("create budget: %w", err)
	}
	slog.InfoContext(ctx, "Budget created", "id", created.ID, "user_id", created.UserID, "month", created.Month)
	return created, nil
}

func (s *BudgetService) List(ctx context.Context) ([]core.Budget, error) {
	return s.store.FindBudgets(ctx, ledger.BudgetFilter{}, ledger.Newest)
}

func (s *BudgetService) ListByUser(ctx context.Context, userID string) ([]core.Budget, error) {
	return s.store.FindBudgets(ctx, ledger.BudgetFilter{UserID: userID}, ledger.Newest)
}

func (s *BudgetService) Get(ctx context.Context, id string) (core.Budget, error) {
	return s.store.GetBudget(ctx, id)
}

// Update applies p; remainingAmount and status are recomputed.
func (s *BudgetService) Update(ctx context.Context, id string, p core.BudgetPatch) (core.Budget, error) {
	return s.store.UpdateBudget(ctx, id, func(b *core.Budget) error {
		if err := p.Apply(b); err != nil {
			return err
		}
		b.UpdatedAt = s.opts.clock()
		return nil
	})
}

func (s *BudgetService) Delete(ctx context.Context, id string) (core.Budget, error) {
	return s.store.DeleteBudget(ctx, id)
}

// RefreshMonthly recomputes spentAmount of the user's budget for month/year
// from that month's expense transactions and derives recommendations from the
// trailing three months. Zero month or year mean the current one.
func (s *BudgetService) RefreshMonthly(ctx context.Context, userID string, month, year int) (core.BudgetSnapshot, error) {
	now := s.opts.clock()
	if month == 0 {
		month = int(now.Month())
	}
	if year == 0 {
		year = now.Year()
	}
	if month < 1 || month > 12 {
		return core.BudgetSnapshot{}, core.ErrInvalidMonth
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, s.opts.loc)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)

	var snap core.BudgetSnapshot
	err := withinTx(ctx, s.store, func(st ledger.Store) error {
		budgets, err := st.FindBudgets(ctx, ledger.BudgetFilter{UserID: userID, Month: month}, ledger.FindOptions{Limit: 1})
		if err != nil {
			return fmt.Errorf("find budget: %w", err)
		}
		if len(budgets) == 0 {
			return core.NotFound("Budget not found for this month")
		}

		expenses, err := st.FindTransactions(ctx, ledger.TransactionFilter{
			UserID: userID, Type: core.Expense, CreatedFrom: start, CreatedTo: end,
		}, ledger.Newest)
		if err != nil {
			return fmt.Errorf("find month expenses: %w", err)
		}
		spent := decimal.Zero
		for _, e := range expenses {
			spent = spent.Add(e.Amount)
		}

		updated, err := st.UpdateBudget(ctx, budgets[0].ID, func(b *core.Budget) error {
			b.SpentAmount = spent
			b.Status = ""
			b.Recalculate()
			b.UpdatedAt = now
			return nil
		})
		if err != nil {
			return fmt.Errorf("update budget: %w", err)
		}

		trailing, err := st.FindTransactions(ctx, ledger.TransactionFilter{
			UserID: userID, Type: core.Expense, CreatedFrom: start.AddDate(0, -2, 0), CreatedTo: end,
		}, ledger.Newest)
		if err != nil {
			return fmt.Errorf("find trailing expenses: %w", err)
		}

		snap = core.BudgetSnapshot{
			Budget:          updated,
			Month:           month,
			Year:            year,
			TotalSpent:      spent,
			Message:         budgetMessage(spent, updated),
			Recommendations: Recommendations(trailing, updated.Amount),
		}
		return nil
	})
	if err != nil {
		return core.BudgetSnapshot{}, err
	}

	slog.InfoContext(ctx, "Monthly budget refreshed",
		"budget_id", snap.Budget.ID,
		"user_id", userID,
		"month", month,
		"year", year,
		"spent", snap.TotalSpent.String(),
		"status", snap.Budget.Status)
	return snap, nil
}

func budgetMessage(spent decimal.Decimal, b core.Budget) string {
	msg := fmt.Sprintf("Your total expense for this month is %s.", core.FormatAmount(spent))
	if b.Status == core.BudgetExceeded {
		msg += fmt.Sprintf(" You have exceeded your budget of %s!", core.FormatAmount(b.Amount))
	}
	return msg
}

// Recommendations compares each category's average expense against the
// budget amount: above 30% suggests raising the allocation, below 10%
// suggests lowering it. Categories are reported in name order.
func Recommendations(expenses []core.Transaction, budget decimal.Decimal) []string {
	type agg struct {
		sum   decimal.Decimal
		count int64
	}
	byCategory := map[string]*agg{}
	for _, e := range expenses {
		a, ok := byCategory[e.Category]
		if !ok {
			a = &agg{sum: decimal.Zero}
			byCategory[e.Category] = a
		}
		a.sum = a.sum.Add(e.Amount)
		a.count++
	}

	categories := make([]string, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	high := budget.Mul(increaseThreshold)
	low := budget.Mul(decreaseThreshold)
	var out []string
	for _, c := range categories {
		a := byCategory[c]
		avg := a.sum.Div(decimal.NewFromInt(a.count))
		switch {
		case avg.GreaterThan(high):
			out = append(out, fmt.Sprintf("Consider increasing your budget for %s as you often spend around %s.", c, avg.StringFixed(2)))
		case avg.LessThan(low):
			out = append(out, fmt.Sprintf("You can reduce your budget for %s since you usually spend only %s.", c, avg.StringFixed(2)))
		}
	}
	if len(out) == 0 {
		return []string{wellBalanced}
	}
	return out
}
