package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

const reportColumns = `id, user_id, total_income, total_expenses, savings, category_expenses, budget_allocated,
	budget_remaining, start_date, end_date, category_filter, label_filter, recommendation, created_at`

func scanReport(s scanner) (core.Report, error) {
	var rep core.Report
	err := s.Scan(&rep.ID, &rep.UserID, &rep.TotalIncome, &rep.TotalExpenses, &rep.Savings,
		(*amountMap)(&rep.CategoryExpenses), &rep.BudgetAllocated, &rep.BudgetRemaining,
		timeCol{&rep.StartDate}, timeCol{&rep.EndDate}, &rep.CategoryFilter, &rep.LabelFilter,
		&rep.Recommendation, timeCol{&rep.CreatedAt})
	return rep, err
}

func (r *Repository) CreateReport(ctx context.Context, rep core.Report) (core.Report, error) {
	_, err := r.exec(ctx, "INSERT INTO reports ("+reportColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		rep.ID, rep.UserID, rep.TotalIncome, rep.TotalExpenses, rep.Savings, amountMap(rep.CategoryExpenses),
		rep.BudgetAllocated, rep.BudgetRemaining, r.ts(rep.StartDate), r.ts(rep.EndDate),
		rep.CategoryFilter, rep.LabelFilter, rep.Recommendation, r.ts(rep.CreatedAt))
	if err != nil {
		return core.Report{}, fmt.Errorf("insert report: %w", err)
	}
	return rep, nil
}

func (r *Repository) GetReport(ctx context.Context, id string) (core.Report, error) {
	rep, err := scanReport(r.queryRow(ctx, "SELECT "+reportColumns+" FROM reports WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return rep, ledger.NotFound("Report", id)
	}
	if err != nil {
		return rep, fmt.Errorf("get report %s: %w", id, err)
	}
	return rep, nil
}

func (r *Repository) FindReports(ctx context.Context, f ledger.ReportFilter, opts ledger.FindOptions) ([]core.Report, error) {
	var w where
	if f.UserID != "" {
		w.add("user_id = ?", f.UserID)
	}
	rows, err := r.query(ctx, "SELECT "+reportColumns+" FROM reports"+w.String()+orderBy(opts), w.args...)
	if err != nil {
		return nil, fmt.Errorf("find reports: %w", err)
	}
	defer rows.Close()

	out := make([]core.Report, 0)
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}
