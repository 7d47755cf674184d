package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/ledger/memory"
)

// plainStore hides the Transactor capability of the wrapped store.
type plainStore struct {
	ledger.Store
}

func fixedClock(t time.Time) Option {
	return WithClock(func() time.Time { return t })
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedTx(t *testing.T, s ledger.Store, id, user string, typ core.TransactionType, category, amount string, at time.Time) core.Transaction {
	t.Helper()
	tx, err := s.CreateTransaction(context.Background(), core.Transaction{
		ID: id, UserID: user, Type: typ, Category: category, Label: "l",
		Amount: dec(amount), Currency: "USD", RecurringType: core.None,
		CreatedAt: at, UpdatedAt: at,
	})
	require.NoError(t, err)
	return tx
}

func seedBudget(t *testing.T, s ledger.Store, id, user string, month int, amount string, at time.Time) core.Budget {
	t.Helper()
	b := core.Budget{ID: id, UserID: user, Month: month, Amount: dec(amount), CreatedAt: at, UpdatedAt: at}
	b.Recalculate()
	created, err := s.CreateBudget(context.Background(), b)
	require.NoError(t, err)
	return created
}

func seedGoal(t *testing.T, s ledger.Store, id, user, amount, saved string, at time.Time) core.Goal {
	t.Helper()
	g, err := s.CreateGoal(context.Background(), core.Goal{
		ID: id, UserID: user, Title: id, Amount: dec(amount), SavedAmount: dec(saved),
		Deadline: at.AddDate(1, 0, 0), Status: core.GoalInProgress, CreatedAt: at, UpdatedAt: at,
	})
	require.NoError(t, err)
	return g
}

func newMemory() *memory.Store { return memory.New() }
