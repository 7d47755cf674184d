// Package ledger defines the record-store contract consumed by the services.
package ledger

import (
	"context"

	"fintrack/internal/core"
)

// ErrNotFound is returned, wrapped in a core.Error, when a record id does not exist.
var ErrNotFound = core.ErrNotFound

// Ports for outbound storage adapters. Update methods load the record, apply
// fn and persist the result atomically; an error from fn aborts the write.
type (
	TransactionStore interface {
		CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		GetTransaction(ctx context.Context, id string) (core.Transaction, error)
		FindTransactions(ctx context.Context, f TransactionFilter, opts FindOptions) ([]core.Transaction, error)
		UpdateTransaction(ctx context.Context, id string, fn func(*core.Transaction) error) (core.Transaction, error)
		DeleteTransaction(ctx context.Context, id string) (core.Transaction, error)
	}

	BudgetStore interface {
		CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error)
		GetBudget(ctx context.Context, id string) (core.Budget, error)
		FindBudgets(ctx context.Context, f BudgetFilter, opts FindOptions) ([]core.Budget, error)
		UpdateBudget(ctx context.Context, id string, fn func(*core.Budget) error) (core.Budget, error)
		DeleteBudget(ctx context.Context, id string) (core.Budget, error)
	}

	GoalStore interface {
		CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error)
		GetGoal(ctx context.Context, id string) (core.Goal, error)
		FindGoals(ctx context.Context, f GoalFilter, opts FindOptions) ([]core.Goal, error)
		UpdateGoal(ctx context.Context, id string, fn func(*core.Goal) error) (core.Goal, error)
		DeleteGoal(ctx context.Context, id string) (core.Goal, error)
	}

	// ReportStore has no update: reports are immutable once generated.
	ReportStore interface {
		CreateReport(ctx context.Context, r core.Report) (core.Report, error)
		GetReport(ctx context.Context, id string) (core.Report, error)
		FindReports(ctx context.Context, f ReportFilter, opts FindOptions) ([]core.Report, error)
	}

	// UserStore enforces email uniqueness with a core.ErrConflict error.
	UserStore interface {
		CreateUser(ctx context.Context, u core.User) (core.User, error)
		GetUser(ctx context.Context, id string) (core.User, error)
		FindUsers(ctx context.Context, f UserFilter, opts FindOptions) ([]core.User, error)
		UpdateUser(ctx context.Context, id string, fn func(*core.User) error) (core.User, error)
		DeleteUser(ctx context.Context, id string) (core.User, error)
	}

	Store interface {
		TransactionStore
		BudgetStore
		GoalStore
		ReportStore
		UserStore
	}

	// Transactor runs fn as one unit of work. Writes made through the Store
	// passed to fn are discarded when fn returns an error.
	Transactor interface {
		WithinTx(ctx context.Context, fn func(Store) error) error
	}
)

// NotFound builds the error returned for a missing record.
func NotFound(entity, id string) error {
	return core.Errorf(core.ErrNotFound, "%s %s not found", entity, id)
}

// ErrEmailTaken is returned by UserStore when the email already belongs to a user.
var ErrEmailTaken = core.Errorf(core.ErrConflict, "Email already in use")
