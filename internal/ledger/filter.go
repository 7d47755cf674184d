package ledger

import (
	"time"

	"fintrack/internal/core"
)

// Order of results by creation time.
type Order int

const (
	NewestFirst Order = iota
	OldestFirst
)

type FindOptions struct {
	Order Order
	Limit int // 0 = unlimited
}

// Newest is the default listing order.
var Newest = FindOptions{Order: NewestFirst}

// Filters are conjunctive; zero-valued fields match everything.
type (
	TransactionFilter struct {
		UserID   string
		Type     core.TransactionType
		Category string
		Label    string
		// CreatedFrom and CreatedTo bound createdAt inclusively.
		CreatedFrom time.Time
		CreatedTo   time.Time
	}

	BudgetFilter struct {
		UserID string
		Month  int
	}

	GoalFilter struct {
		UserID string
		Status core.GoalStatus
	}

	ReportFilter struct {
		UserID string
	}

	UserFilter struct {
		Email string
		Role  core.Role
	}
)

func (f TransactionFilter) Match(t core.Transaction) bool {
	if f.UserID != "" && t.UserID != f.UserID {
		return false
	}
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	if f.Label != "" && t.Label != f.Label {
		return false
	}
	if !f.CreatedFrom.IsZero() && t.CreatedAt.Before(f.CreatedFrom) {
		return false
	}
	if !f.CreatedTo.IsZero() && t.CreatedAt.After(f.CreatedTo) {
		return false
	}
	return true
}

func (f BudgetFilter) Match(b core.Budget) bool {
	return (f.UserID == "" || b.UserID == f.UserID) && (f.Month == 0 || b.Month == f.Month)
}

func (f GoalFilter) Match(g core.Goal) bool {
	return (f.UserID == "" || g.UserID == f.UserID) && (f.Status == "" || g.Status == f.Status)
}

func (f ReportFilter) Match(r core.Report) bool {
	return f.UserID == "" || r.UserID == f.UserID
}

func (f UserFilter) Match(u core.User) bool {
	return (f.Email == "" || u.Email == f.Email) && (f.Role == "" || u.Role == f.Role)
}
