package memory

import (
	"context"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

// view implements ledger.Store without locking. Callers hold s.mu.
type view struct {
	s *Store
}

func (v *view) CreateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	if err := v.s.fail("create", t.ID); err != nil {
		return core.Transaction{}, err
	}
	return v.s.t.transactions.create(t), nil
}

func (v *view) GetTransaction(_ context.Context, id string) (core.Transaction, error) {
	return v.s.t.transactions.get(id)
}

func (v *view) FindTransactions(_ context.Context, f ledger.TransactionFilter, opts ledger.FindOptions) ([]core.Transaction, error) {
	return v.s.t.transactions.find(f.Match, opts), nil
}

func (v *view) UpdateTransaction(_ context.Context, id string, fn func(*core.Transaction) error) (core.Transaction, error) {
	if err := v.s.fail("update", id); err != nil {
		return core.Transaction{}, err
	}
	return v.s.t.transactions.update(id, fn)
}

func (v *view) DeleteTransaction(_ context.Context, id string) (core.Transaction, error) {
	return v.s.t.transactions.delete(id)
}

func (v *view) CreateBudget(_ context.Context, b core.Budget) (core.Budget, error) {
	if err := v.s.fail("create", b.ID); err != nil {
		return core.Budget{}, err
	}
	return v.s.t.budgets.create(b), nil
}

func (v *view) GetBudget(_ context.Context, id string) (core.Budget, error) {
	return v.s.t.budgets.get(id)
}

func (v *view) FindBudgets(_ context.Context, f ledger.BudgetFilter, opts ledger.FindOptions) ([]core.Budget, error) {
	return v.s.t.budgets.find(f.Match, opts), nil
}

func (v *view) UpdateBudget(_ context.Context, id string, fn func(*core.Budget) error) (core.Budget, error) {
	if err := v.s.fail("update", id); err != nil {
		return core.Budget{}, err
	}
	return v.s.t.budgets.update(id, fn)
}

func (v *view) DeleteBudget(_ context.Context, id string) (core.Budget, error) {
	return v.s.t.budgets.delete(id)
}

func (v *view) CreateGoal(_ context.Context, g core.Goal) (core.Goal, error) {
	if err := v.s.fail("create", g.ID); err != nil {
		return core.Goal{}, err
	}
	return v.s.t.goals.create(g), nil
}

func (v *view) GetGoal(_ context.Context, id string) (core.Goal, error) {
	return v.s.t.goals.get(id)
}

func (v *view) FindGoals(_ context.Context, f ledger.GoalFilter, opts ledger.FindOptions) ([]core.Goal, error) {
	return v.s.t.goals.find(f.Match, opts), nil
}

func (v *view) UpdateGoal(_ context.Context, id string, fn func(*core.Goal) error) (core.Goal, error) {
	if err := v.s.fail("update", id); err != nil {
		return core.Goal{}, err
	}
	return v.s.t.goals.update(id, fn)
}

func (v *view) DeleteGoal(_ context.Context, id string) (core.Goal, error) {
	return v.s.t.goals.delete(id)
}

func (v *view) CreateReport(_ context.Context, r core.Report) (core.Report, error) {
	if err := v.s.fail("create", r.ID); err != nil {
		return core.Report{}, err
	}
	return v.s.t.reports.create(r), nil
}

func (v *view) GetReport(_ context.Context, id string) (core.Report, error) {
	return v.s.t.reports.get(id)
}

func (v *view) FindReports(_ context.Context, f ledger.ReportFilter, opts ledger.FindOptions) ([]core.Report, error) {
	return v.s.t.reports.find(f.Match, opts), nil
}

func (v *view) CreateUser(_ context.Context, u core.User) (core.User, error) {
	if v.emailTaken(u.Email, "") {
		return core.User{}, ledger.ErrEmailTaken
	}
	if err := v.s.fail("create", u.ID); err != nil {
		return core.User{}, err
	}
	return v.s.t.users.create(u), nil
}

func (v *view) GetUser(_ context.Context, id string) (core.User, error) {
	return v.s.t.users.get(id)
}

func (v *view) FindUsers(_ context.Context, f ledger.UserFilter, opts ledger.FindOptions) ([]core.User, error) {
	f.Email = strings.ToLower(f.Email)
	return v.s.t.users.find(f.Match, opts), nil
}

func (v *view) UpdateUser(_ context.Context, id string, fn func(*core.User) error) (core.User, error) {
	if err := v.s.fail("update", id); err != nil {
		return core.User{}, err
	}
	return v.s.t.users.update(id, func(u *core.User) error {
		if err := fn(u); err != nil {
			return err
		}
		if v.emailTaken(u.Email, id) {
			return ledger.ErrEmailTaken
		}
		return nil
	})
}

func (v *view) DeleteUser(_ context.Context, id string) (core.User, error) {
	return v.s.t.users.delete(id)
}

func (v *view) emailTaken(email, exceptID string) bool {
	for id, u := range v.s.t.users.rows {
		if id != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}
