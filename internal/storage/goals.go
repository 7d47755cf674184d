package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

const goalColumns = "id, user_id, title, amount, saved_amount, deadline, status, description, created_at, updated_at"

func scanGoal(s scanner) (core.Goal, error) {
	var g core.Goal
	err := s.Scan(&g.ID, &g.UserID, &g.Title, &g.Amount, &g.SavedAmount, timeCol{&g.Deadline}, &g.Status,
		&g.Description, timeCol{&g.CreatedAt}, timeCol{&g.UpdatedAt})
	return g, err
}

func (r *Repository) CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	_, err := r.exec(ctx, "INSERT INTO goals ("+goalColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		g.ID, g.UserID, g.Title, g.Amount, g.SavedAmount, r.ts(g.Deadline), g.Status, g.Description,
		r.ts(g.CreatedAt), r.ts(g.UpdatedAt))
	if err != nil {
		return core.Goal{}, fmt.Errorf("insert goal: %w", err)
	}
	return g, nil
}

func (r *Repository) GetGoal(ctx context.Context, id string) (core.Goal, error) {
	g, err := scanGoal(r.queryRow(ctx, "SELECT "+goalColumns+" FROM goals WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return g, ledger.NotFound("Goal", id)
	}
	if err != nil {
		return g, fmt.Errorf("get goal %s: %w", id, err)
	}
	return g, nil
}

func (r *Repository) FindGoals(ctx context.Context, f ledger.GoalFilter, opts ledger.FindOptions) ([]core.Goal, error) {
	var w where
	if f.UserID != "" {
		w.add("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	rows, err := r.query(ctx, "SELECT "+goalColumns+" FROM goals"+w.String()+orderBy(opts), w.args...)
	if err != nil {
		return nil, fmt.Errorf("find goals: %w", err)
	}
	defer rows.Close()

	out := make([]core.Goal, 0)
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *Repository) UpdateGoal(ctx context.Context, id string, fn func(*core.Goal) error) (core.Goal, error) {
	var updated core.Goal
	err := r.atomic(ctx, func(tx *Repository) error {
		g, err := tx.GetGoal(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(&g); err != nil {
			return err
		}
		_, err = tx.exec(ctx, `UPDATE goals SET title = ?, amount = ?, saved_amount = ?, deadline = ?, status = ?,
			description = ?, updated_at = ? WHERE id = ?`,
			g.Title, g.Amount, g.SavedAmount, tx.ts(g.Deadline), g.Status, g.Description, tx.ts(g.UpdatedAt), id)
		if err != nil {
			return fmt.Errorf("update goal %s: %w", id, err)
		}
		updated = g
		return nil
	})
	return updated, err
}

func (r *Repository) DeleteGoal(ctx context.Context, id string) (core.Goal, error) {
	var deleted core.Goal
	err := r.atomic(ctx, func(tx *Repository) error {
		g, err := tx.GetGoal(ctx, id)
		if err != nil {
			return err
		}
		if _, err := tx.exec(ctx, "DELETE FROM goals WHERE id = ?", id); err != nil {
			return fmt.Errorf("delete goal %s: %w", id, err)
		}
		deleted = g
		return nil
	})
	return deleted, err
}
