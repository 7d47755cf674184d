package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

var base = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func tx(id, user string, typ core.TransactionType, amount int64, at time.Time) core.Transaction {
	return core.Transaction{
		ID: id, UserID: user, Type: typ, Category: "Food", Label: "l",
		Amount: decimal.NewFromInt(amount), Currency: "USD", RecurringType: core.None,
		CreatedAt: at, UpdatedAt: at,
	}
}

func TestFindTransactionsOrderAndFilter(t *testing.T) {
	ctx := context.Background()
	s := New()
	for _, rec := range []core.Transaction{
		tx("TI-1", "UI-1", core.Expense, 10, base),
		tx("TI-2", "UI-1", core.Income, 20, base.Add(time.Hour)),
		tx("TI-3", "UI-2", core.Expense, 30, base.Add(2*time.Hour)),
		tx("TI-4", "UI-1", core.Expense, 40, base.Add(3*time.Hour)),
	} {
		_, err := s.CreateTransaction(ctx, rec)
		require.NoError(t, err)
	}

	got, err := s.FindTransactions(ctx, ledger.TransactionFilter{UserID: "UI-1"}, ledger.Newest)
	require.NoError(t, err)
	assert.Equal(t, []string{"TI-4", "TI-2", "TI-1"}, ids(got))

	got, err = s.FindTransactions(ctx, ledger.TransactionFilter{UserID: "UI-1", Type: core.Expense}, ledger.FindOptions{Order: ledger.OldestFirst})
	require.NoError(t, err)
	assert.Equal(t, []string{"TI-1", "TI-4"}, ids(got))

	got, err = s.FindTransactions(ctx, ledger.TransactionFilter{
		CreatedFrom: base.Add(time.Hour),
		CreatedTo:   base.Add(2 * time.Hour),
	}, ledger.Newest)
	require.NoError(t, err)
	assert.Equal(t, []string{"TI-3", "TI-2"}, ids(got), "range bounds are inclusive")

	got, err = s.FindTransactions(ctx, ledger.TransactionFilter{}, ledger.FindOptions{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"TI-4"}, ids(got))
}

func TestSameTimestampKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := New()
	for _, id := range []string{"BI-1", "BI-2", "BI-3"} {
		_, err := s.CreateBudget(ctx, core.Budget{ID: id, UserID: "UI-1", Month: 3, CreatedAt: base})
		require.NoError(t, err)
	}
	got, err := s.FindBudgets(ctx, ledger.BudgetFilter{UserID: "UI-1", Month: 3}, ledger.Newest)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "BI-3", got[0].ID)
}

func TestUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	s := New()
	_, err := s.CreateTransaction(ctx, tx("TI-1", "UI-1", core.Income, 100, base))
	require.NoError(t, err)

	updated, err := s.UpdateTransaction(ctx, "TI-1", func(t *core.Transaction) error {
		t.Amount = decimal.NewFromInt(90)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, updated.Amount.Equal(decimal.NewFromInt(90)))

	_, err = s.UpdateTransaction(ctx, "TI-1", func(*core.Transaction) error { return core.Invalid("nope") })
	require.ErrorIs(t, err, core.ErrInvalidInput)
	stored, err := s.GetTransaction(ctx, "TI-1")
	require.NoError(t, err)
	assert.True(t, stored.Amount.Equal(decimal.NewFromInt(90)), "failed update must not write")

	deleted, err := s.DeleteTransaction(ctx, "TI-1")
	require.NoError(t, err)
	assert.Equal(t, "TI-1", deleted.ID)

	_, err = s.GetTransaction(ctx, "TI-1")
	assert.ErrorIs(t, err, ledger.ErrNotFound)
	_, err = s.DeleteTransaction(ctx, "TI-1")
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestWithinTxRollsBack(t *testing.T) {
	ctx := context.Background()
	s := New()
	_, err := s.CreateGoal(ctx, core.Goal{ID: "GI-1", UserID: "UI-1", SavedAmount: decimal.NewFromInt(500), CreatedAt: base})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = s.WithinTx(ctx, func(st ledger.Store) error {
		if _, err := st.UpdateGoal(ctx, "GI-1", func(g *core.Goal) error {
			g.SavedAmount = decimal.NewFromInt(700)
			return nil
		}); err != nil {
			return err
		}
		if _, err := st.CreateGoal(ctx, core.Goal{ID: "GI-2", UserID: "UI-1", CreatedAt: base}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	g, err := s.GetGoal(ctx, "GI-1")
	require.NoError(t, err)
	assert.True(t, g.SavedAmount.Equal(decimal.NewFromInt(500)))
	_, err = s.GetGoal(ctx, "GI-2")
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	err = s.WithinTx(ctx, func(st ledger.Store) error {
		_, err := st.UpdateGoal(ctx, "GI-1", func(g *core.Goal) error {
			g.SavedAmount = decimal.NewFromInt(700)
			return nil
		})
		return err
	})
	require.NoError(t, err)
	g, _ = s.GetGoal(ctx, "GI-1")
	assert.True(t, g.SavedAmount.Equal(decimal.NewFromInt(700)))
}

func TestUserEmailUnique(t *testing.T) {
	ctx := context.Background()
	s := New()
	_, err := s.CreateUser(ctx, core.User{ID: "UI-10001", Email: "ada@example.com", Role: core.RoleRegular, CreatedAt: base})
	require.NoError(t, err)
	_, err = s.CreateUser(ctx, core.User{ID: "UI-10002", Email: "grace@example.com", Role: core.RoleAdmin, CreatedAt: base})
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, core.User{ID: "UI-10003", Email: "ADA@example.com"})
	assert.ErrorIs(t, err, core.ErrConflict)

	_, err = s.UpdateUser(ctx, "UI-10002", func(u *core.User) error {
		u.Email = "ada@example.com"
		return nil
	})
	assert.ErrorIs(t, err, core.ErrConflict)

	got, err := s.FindUsers(ctx, ledger.UserFilter{Role: core.RoleRegular}, ledger.Newest)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "UI-10001", got[0].ID)
}

func TestFailHook(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.Fail = func(op, id string) error {
		if op == "update" && id == "GI-9" {
			return errors.New("disk full")
		}
		return nil
	}
	_, err := s.CreateGoal(ctx, core.Goal{ID: "GI-9"})
	require.NoError(t, err)
	_, err = s.UpdateGoal(ctx, "GI-9", func(*core.Goal) error { return nil })
	assert.EqualError(t, err, "disk full")
}

func ids(ts []core.Transaction) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.ID
	}
	return out
}
