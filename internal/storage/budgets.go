package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

const budgetColumns = "id, user_id, month, amount, spent_amount, remaining_amount, status, created_at, updated_at"

func scanBudget(s scanner) (core.Budget, error) {
	var b core.Budget
	err := s.Scan(&b.ID, &b.UserID, &b.Month, &b.Amount, &b.SpentAmount, &b.RemainingAmount, &b.Status,
		timeCol{&b.CreatedAt}, timeCol{&b.UpdatedAt})
	return b, err
}

func (r *Repository) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	_, err := r.exec(ctx, "INSERT INTO budgets ("+budgetColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		b.ID, b.UserID, b.Month, b.Amount, b.SpentAmount, b.RemainingAmount, b.Status,
		r.ts(b.CreatedAt), r.ts(b.UpdatedAt))
	if err != nil {
		return core.Budget{}, fmt.Errorf("insert budget: %w", err)
	}
	return b, nil
}

func (r *Repository) GetBudget(ctx context.Context, id string) (core.Budget, error) {
	b, err := scanBudget(r.queryRow(ctx, "SELECT "+budgetColumns+" FROM budgets WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return b, ledger.NotFound("Budget", id)
	}
	if err != nil {
		return b, fmt.Errorf("get budget %s: %w", id, err)
	}
	return b, nil
}

func (r *Repository) FindBudgets(ctx context.Context, f ledger.BudgetFilter, opts ledger.FindOptions) ([]core.Budget, error) {
	var w where
	if f.UserID != "" {
		w.add("user_id = ?", f.UserID)
	}
	if f.Month != 0 {
		w.add("month = ?", f.Month)
	}
	rows, err := r.query(ctx, "SELECT "+budgetColumns+" FROM budgets"+w.String()+orderBy(opts), w.args...)
	if err != nil {
		return nil, fmt.Errorf("find budgets: %w", err)
	}
	defer rows.Close()

	out := make([]core.Budget, 0)
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repository) UpdateBudget(ctx context.Context, id string, fn func(*core.Budget) error) (core.Budget, error) {
	var updated core.Budget
	err := r.atomic(ctx, func(tx *Repository) error {
		b, err := tx.GetBudget(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(&b); err != nil {
			return err
		}
		_, err = tx.exec(ctx, `UPDATE budgets SET month = ?, amount = ?, spent_amount = ?, remaining_amount = ?,
			status = ?, updated_at = ? WHERE id = ?`,
			b.Month, b.Amount, b.SpentAmount, b.RemainingAmount, b.Status, tx.ts(b.UpdatedAt), id)
		if err != nil {
			return fmt.Errorf("update budget %s: %w", id, err)
		}
		updated = b
		return nil
	})
	return updated, err
}

func (r *Repository) DeleteBudget(ctx context.Context, id string) (core.Budget, error) {
	var deleted core.Budget
	err := r.atomic(ctx, func(tx *Repository) error {
		b, err := tx.GetBudget(ctx, id)
		if err != nil {
			return err
		}
		if _, err := tx.exec(ctx, "DELETE FROM budgets WHERE id = ?", id); err != nil {
			return fmt.Errorf("delete budget %s: %w", id, err)
		}
		deleted = b
		return nil
	})
	return deleted, err
}
