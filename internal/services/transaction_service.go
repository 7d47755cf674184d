package services

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/notify"
)

// ScheduledTransaction is a transaction with its recurrence projection.
type ScheduledTransaction struct {
	Transaction core.Transaction `json:"transaction"`
	core.Schedule
}

// TransactionService handles transaction CRUD and recurring-payment
// notifications.
type TransactionService struct {
	store    ledger.Store
	notifier notify.Notifier
	opts     options
}

// NewTransactionService creates the service. notifier may be nil.
func NewTransactionService(store ledger.Store, notifier notify.Notifier, opts ...Option) *TransactionService {
	return &TransactionService{store: store, notifier: notifier, opts: newOptions(opts)}
}

func (s *TransactionService) Create(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	t.Normalize()
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	now := s.opts.clock()
	t.ID = core.NewID(core.PrefixTransaction)
	t.CreatedAt, t.UpdatedAt = now, now

	created, err := s.store.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	slog.InfoContext(ctx, "Transaction created",
		"id", created.ID,
		"user_id", created.UserID,
		"type", created.Type,
		"amount", created.Amount.String(),
		"currency", created.Currency)
	return created, nil
}

func (s *TransactionService) List(ctx context.Context) ([]core.Transaction, error) {
	return s.store.FindTransactions(ctx, ledger.TransactionFilter{}, ledger.Newest)
}

func (s *TransactionService) ListByUser(ctx context.Context, userID string) ([]core.Transaction, error) {
	return s.store.FindTransactions(ctx, ledger.TransactionFilter{UserID: userID}, ledger.Newest)
}

func (s *TransactionService) ListByLabel(ctx context.Context, userID, label string) ([]core.Transaction, error) {
	return s.store.FindTransactions(ctx, ledger.TransactionFilter{UserID: userID, Label: label}, ledger.Newest)
}

// Find returns the stored transaction without evaluating its schedule.
func (s *TransactionService) Find(ctx context.Context, id string) (core.Transaction, error) {
	return s.store.GetTransaction(ctx, id)
}

// Get returns the transaction with its recurrence schedule. Reminder and due
// notifications are handed to the notifier without waiting.
func (s *TransactionService) Get(ctx context.Context, id string) (ScheduledTransaction, error) {
	t, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return ScheduledTransaction{}, err
	}
	schedule, err := ComputeSchedule(t, s.opts.clock())
	if err != nil {
		return ScheduledTransaction{}, err
	}
	for _, n := range schedule.Notifications {
		if n.Kind == core.NotifyNotDue || s.notifier == nil {
			continue
		}
		s.opts.dispatcher.Go(ctx, "notify", func(ctx context.Context) error {
			return s.notifier.Notify(ctx, n)
		})
	}
	return ScheduledTransaction{Transaction: t, Schedule: schedule}, nil
}

// Update applies p. The transaction type cannot change.
func (s *TransactionService) Update(ctx context.Context, id string, p core.TransactionPatch) (core.Transaction, error) {
	return s.store.UpdateTransaction(ctx, id, func(t *core.Transaction) error {
		if err := p.Apply(t); err != nil {
			return err
		}
		t.UpdatedAt = s.opts.clock()
		return nil
	})
}

func (s *TransactionService) Delete(ctx context.Context, id string) (core.Transaction, error) {
	return s.store.DeleteTransaction(ctx, id)
}
