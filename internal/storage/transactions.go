package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

const transactionColumns = "id, user_id, type, category, label, amount, currency, recurring_type, description, created_at, updated_at"

func scanTransaction(s scanner) (core.Transaction, error) {
	var t core.Transaction
	err := s.Scan(&t.ID, &t.UserID, &t.Type, &t.Category, &t.Label, &t.Amount, &t.Currency,
		&t.RecurringType, &t.Description, timeCol{&t.CreatedAt}, timeCol{&t.UpdatedAt})
	return t, err
}

// CreateTransaction implements ledger.TransactionStore
func (r *Repository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	_, err := r.exec(ctx, "INSERT INTO transactions ("+transactionColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		t.ID, t.UserID, t.Type, t.Category, t.Label, t.Amount, t.Currency, t.RecurringType, t.Description,
		r.ts(t.CreatedAt), r.ts(t.UpdatedAt))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	return t, nil
}

func (r *Repository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	t, err := scanTransaction(r.queryRow(ctx, "SELECT "+transactionColumns+" FROM transactions WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return t, ledger.NotFound("Transaction", id)
	}
	if err != nil {
		return t, fmt.Errorf("get transaction %s: %w", id, err)
	}
	return t, nil
}

func (r *Repository) FindTransactions(ctx context.Context, f ledger.TransactionFilter, opts ledger.FindOptions) ([]core.Transaction, error) {
	var w where
	if f.UserID != "" {
		w.add("user_id = ?", f.UserID)
	}
	if f.Type != "" {
		w.add("type = ?", f.Type)
	}
	if f.Category != "" {
		w.add("category = ?", f.Category)
	}
	if f.Label != "" {
		w.add("label = ?", f.Label)
	}
	if !f.CreatedFrom.IsZero() {
		w.add("created_at >= ?", r.ts(f.CreatedFrom))
	}
	if !f.CreatedTo.IsZero() {
		w.add("created_at <= ?", r.ts(f.CreatedTo))
	}

	rows, err := r.query(ctx, "SELECT "+transactionColumns+" FROM transactions"+w.String()+orderBy(opts), w.args...)
	if err != nil {
		return nil, fmt.Errorf("find transactions: %w", err)
	}
	defer rows.Close()

	out := make([]core.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Repository) UpdateTransaction(ctx context.Context, id string, fn func(*core.Transaction) error) (core.Transaction, error) {
	var updated core.Transaction
	err := r.atomic(ctx, func(tx *Repository) error {
		t, err := tx.GetTransaction(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(&t); err != nil {
			return err
		}
		_, err = tx.exec(ctx, `UPDATE transactions SET category = ?, label = ?, amount = ?, currency = ?,
			recurring_type = ?, description = ?, updated_at = ? WHERE id = ?`,
			t.Category, t.Label, t.Amount, t.Currency, t.RecurringType, t.Description, tx.ts(t.UpdatedAt), id)
		if err != nil {
			return fmt.Errorf("update transaction %s: %w", id, err)
		}
		updated = t
		return nil
	})
	return updated, err
}

func (r *Repository) DeleteTransaction(ctx context.Context, id string) (core.Transaction, error) {
	var deleted core.Transaction
	err := r.atomic(ctx, func(tx *Repository) error {
		t, err := tx.GetTransaction(ctx, id)
		if err != nil {
			return err
		}
		if _, err := tx.exec(ctx, "DELETE FROM transactions WHERE id = ?", id); err != nil {
			return fmt.Errorf("delete transaction %s: %w", id, err)
		}
		deleted = t
		return nil
	})
	return deleted, err
}

func (r *Repository) atomic(ctx context.Context, fn func(*Repository) error) error {
	return r.WithinTx(ctx, func(s ledger.Store) error {
		return fn(s.(*Repository))
	})
}
