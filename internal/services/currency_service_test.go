package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
)

type stubRates struct {
	rate  decimal.Decimal
	err   error
	calls int
}

func (s *stubRates) Rate(_ context.Context, from, to string) (decimal.Decimal, error) {
	s.calls++
	return s.rate, s.err
}

func TestCurrencyService_Convert(t *testing.T) {
	ctx := context.Background()
	store := newMemory()
	seedTx(t, store, "TI-1", "UI-1", core.Expense, "Food", "100.50", march)

	rates := &stubRates{rate: dec("0.9137")}
	conv, err := NewCurrencyService(store, rates).Convert(ctx, "TI-1", "eur")
	require.NoError(t, err)
	assert.Equal(t, "EUR", conv.Currency)
	assert.True(t, conv.Amount.Equal(dec("91.83")), "got %s", conv.Amount)
	assert.True(t, conv.Rate.Equal(dec("0.9137")))

	stored, _ := store.GetTransaction(ctx, "TI-1")
	assert.True(t, stored.Amount.Equal(dec("100.50")))
	assert.Equal(t, "USD", stored.Currency, "conversion never writes")
}

func TestCurrencyService_ConvertSameCurrency(t *testing.T) {
	ctx := context.Background()
	store := newMemory()
	seedTx(t, store, "TI-1", "UI-1", core.Expense, "Food", "12.345", march)

	rates := &stubRates{err: errors.New("unused")}
	conv, err := NewCurrencyService(store, rates).Convert(ctx, "TI-1", "usd")
	require.NoError(t, err)
	assert.True(t, conv.Amount.Equal(dec("12.345")), "identity conversion keeps the stored amount")
	assert.Equal(t, 0, rates.calls)
}

func TestCurrencyService_ConvertErrors(t *testing.T) {
	ctx := context.Background()
	store := newMemory()
	seedTx(t, store, "TI-1", "UI-1", core.Expense, "Food", "10", march)

	svc := NewCurrencyService(store, &stubRates{err: context.DeadlineExceeded})
	_, err := svc.Convert(ctx, "TI-1", "EUR")
	require.ErrorIs(t, err, core.ErrRateUnavailable)
	assert.Equal(t, "Exchange rate from USD to EUR is unavailable", core.Message(err))

	_, err = svc.Convert(ctx, "TI-404", "EUR")
	assert.ErrorIs(t, err, core.ErrNotFound)

	for _, target := range []string{"EURO", "/..", "e1r"} {
		_, err = svc.Convert(ctx, "TI-1", target)
		assert.ErrorIs(t, err, core.ErrInvalidInput, "target %q", target)
	}
}
