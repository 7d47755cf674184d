package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

// RateProvider returns how many units of to buy one unit of from.
type RateProvider interface {
	Rate(ctx context.Context, from, to string) (decimal.Decimal, error)
}

// CurrencyService projects transactions into other currencies. It never
// writes to the store.
type CurrencyService struct {
	store ledger.TransactionStore
	rates RateProvider
}

func NewCurrencyService(store ledger.TransactionStore, rates RateProvider) *CurrencyService {
	return &CurrencyService{store: store, rates: rates}
}

// Convert returns the transaction amount in target, rounded to cents. The
// same currency (case-insensitive) returns the stored amount as is. Any
// rate lookup failure, including timeouts, is core.ErrRateUnavailable.
func (s *CurrencyService) Convert(ctx context.Context, transactionID, target string) (core.Conversion, error) {
	target = strings.ToUpper(strings.TrimSpace(target))
	if !core.ValidCurrency(target) {
		return core.Conversion{}, core.Invalid("target currency must be a 3-letter code")
	}
	t, err := s.store.GetTransaction(ctx, transactionID)
	if err != nil {
		return core.Conversion{}, err
	}

	if strings.EqualFold(t.Currency, target) {
		return core.Conversion{Amount: t.Amount, Currency: t.Currency, Rate: decimal.NewFromInt(1), Transaction: t}, nil
	}

	rate, err := s.rates.Rate(ctx, strings.ToUpper(t.Currency), target)
	if err != nil {
		slog.WarnContext(ctx, "Exchange rate lookup failed",
			"from", t.Currency, "to", target, "error", err)
		return core.Conversion{}, core.Errorf(core.ErrRateUnavailable,
			"Exchange rate from %s to %s is unavailable", strings.ToUpper(t.Currency), target)
	}

	return core.Conversion{
		Amount:      core.Round2(t.Amount.Mul(rate)),
		Currency:    target,
		Rate:        rate,
		Transaction: t,
	}, nil
}
