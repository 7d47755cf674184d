package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/notify"
)

func TestTransactionService_Create(t *testing.T) {
	ctx := context.Background()
	svc := NewTransactionService(newMemory(), nil, fixedClock(march))

	created, err := svc.Create(ctx, core.Transaction{
		UserID: "UI-1", Type: core.Expense, Category: " Food ", Label: "groceries",
		Amount: dec("12.5"), Currency: "eur",
	})
	require.NoError(t, err)
	assert.Regexp(t, `^TI-\d+$`, created.ID)
	assert.Equal(t, "Food", created.Category)
	assert.Equal(t, "EUR", created.Currency)
	assert.Equal(t, core.None, created.RecurringType)
	assert.Equal(t, march, created.CreatedAt)

	_, err = svc.Create(ctx, core.Transaction{UserID: "UI-1", Type: core.Expense, Category: "Food", Amount: dec("-1")})
	assert.ErrorIs(t, err, core.ErrInvalidInput)
	_, err = svc.Create(ctx, core.Transaction{UserID: "UI-1", Type: "gift", Category: "Food", Amount: dec("1")})
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestTransactionService_UpdateKeepsType(t *testing.T) {
	ctx := context.Background()
	store := newMemory()
	seedTx(t, store, "TI-1", "UI-1", core.Expense, "Food", "10", march)
	svc := NewTransactionService(store, nil, fixedClock(march.Add(time.Hour)))

	income := core.Income
	_, err := svc.Update(ctx, "TI-1", core.TransactionPatch{Type: &income})
	require.ErrorIs(t, err, core.ErrInvalidInput)

	amount := dec("42")
	updated, err := svc.Update(ctx, "TI-1", core.TransactionPatch{Amount: &amount})
	require.NoError(t, err)
	assert.True(t, updated.Amount.Equal(amount))
	assert.Equal(t, core.Expense, updated.Type)
	assert.Equal(t, march.Add(time.Hour), updated.UpdatedAt)
}

func TestTransactionService_GetNotifies(t *testing.T) {
	ctx := context.Background()
	store := newMemory()
	// Monthly bill created Feb 20: due Mar 20, reminder Mar 18.
	bill, err := store.CreateTransaction(ctx, core.Transaction{
		ID: "TI-1", UserID: "UI-1", Type: core.Expense, Category: "Rent", Label: "home",
		Amount: dec("900"), Currency: "USD", RecurringType: core.Monthly,
		CreatedAt: march.AddDate(0, -1, 0), UpdatedAt: march.AddDate(0, -1, 0),
	})
	require.NoError(t, err)
	seedTx(t, store, "TI-2", "UI-1", core.Expense, "Food", "10", march)

	var (
		mu   sync.Mutex
		sent []core.Notification
	)
	notifier := notify.NotifierFunc(func(_ context.Context, n core.Notification) error {
		mu.Lock()
		defer mu.Unlock()
		sent = append(sent, n)
		return nil
	})
	d := notify.NewDispatcher(time.Second)
	svc := NewTransactionService(store, notifier, fixedClock(march), WithDispatcher(d))

	got, err := svc.Get(ctx, bill.ID)
	require.NoError(t, err)
	d.Wait()
	assert.Equal(t, time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC), got.DueAt)
	require.Len(t, got.Notifications, 1)
	assert.Equal(t, core.NotifyDue, got.Notifications[0].Kind)
	require.Len(t, sent, 1)
	assert.Equal(t, "Payment Due: Your Rent payment of 900 is due today.", sent[0].Message)

	plain, err := svc.Get(ctx, "TI-2")
	require.NoError(t, err)
	d.Wait()
	assert.True(t, plain.DueAt.IsZero())
	assert.Empty(t, plain.Notifications)
	assert.Len(t, sent, 1, "non-recurring transactions notify nothing")

	_, err = svc.Get(ctx, "TI-404")
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestTransactionService_ListByLabel(t *testing.T) {
	ctx := context.Background()
	store := newMemory()
	seedTx(t, store, "TI-1", "UI-1", core.Expense, "Food", "10", march)
	_, err := store.CreateTransaction(ctx, core.Transaction{
		ID: "TI-2", UserID: "UI-1", Type: core.Expense, Category: "Food", Label: "work",
		Amount: dec("5"), Currency: "USD", RecurringType: core.None, CreatedAt: march, UpdatedAt: march,
	})
	require.NoError(t, err)

	svc := NewTransactionService(store, nil)
	got, err := svc.ListByLabel(ctx, "UI-1", "work")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "TI-2", got[0].ID)

	deleted, err := svc.Delete(ctx, "TI-2")
	require.NoError(t, err)
	assert.Equal(t, "TI-2", deleted.ID)
	all, err := svc.ListByUser(ctx, "UI-1")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
