package sheets

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// Header is the first row of a reports sheet.
var Header = []any{
	"Report", "User", "Start", "End", "Income", "Expenses", "Savings",
	"Budget", "Budget remaining", "Categories", "Recommendation", "Created",
}

// EncodeReport renders r in Header column order. Amounts are fixed to two
// decimals and the category map is flattened to "name=amount; ..." sorted
// by name.
func EncodeReport(r core.Report) []any {
	names := make([]string, 0, len(r.CategoryExpenses))
	for name := range r.CategoryExpenses {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + "=" + r.CategoryExpenses[name].StringFixed(2)
	}

	return []any{
		r.ID,
		r.UserID,
		r.StartDate.UTC().Format(time.RFC3339),
		r.EndDate.UTC().Format(time.RFC3339),
		r.TotalIncome.StringFixed(2),
		r.TotalExpenses.StringFixed(2),
		r.Savings.StringFixed(2),
		r.BudgetAllocated.StringFixed(2),
		r.BudgetRemaining.StringFixed(2),
		strings.Join(parts, "; "),
		r.Recommendation,
		r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// DecodeReport parses a row written by EncodeReport.
func DecodeReport(row []any) (core.Report, error) {
	cols := make([]string, len(Header))
	for i := range cols {
		if i < len(row) {
			cols[i] = strings.TrimSpace(fmt.Sprint(row[i]))
		}
	}
	if cols[0] == "" {
		return core.Report{}, fmt.Errorf("missing report id")
	}

	var (
		r   = core.Report{ID: cols[0], UserID: cols[1], Recommendation: cols[10]}
		err error
	)
	times := []struct {
		dst *time.Time
		col int
	}{{&r.StartDate, 2}, {&r.EndDate, 3}, {&r.CreatedAt, 11}}
	for _, t := range times {
		if *t.dst, err = time.Parse(time.RFC3339, cols[t.col]); err != nil {
			return core.Report{}, fmt.Errorf("report %s: column %s: %w", r.ID, Header[t.col], err)
		}
	}
	amounts := []struct {
		dst *decimal.Decimal
		col int
	}{{&r.TotalIncome, 4}, {&r.TotalExpenses, 5}, {&r.Savings, 6}, {&r.BudgetAllocated, 7}, {&r.BudgetRemaining, 8}}
	for _, a := range amounts {
		if *a.dst, err = parseAmount(cols[a.col]); err != nil {
			return core.Report{}, fmt.Errorf("report %s: column %s: %w", r.ID, Header[a.col], err)
		}
	}

	r.CategoryExpenses = map[string]decimal.Decimal{}
	for _, part := range strings.Split(cols[9], ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		d, err := parseAmount(value)
		if err != nil {
			return core.Report{}, fmt.Errorf("report %s: category %s: %w", r.ID, name, err)
		}
		r.CategoryExpenses[name] = d
	}
	return r, nil
}

// parseAmount accepts a decimal comma, as sheets in some locales return it.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
}
