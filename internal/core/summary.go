package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// NotificationKind classifies a recurring-payment notification.
type NotificationKind string

const (
	NotifyReminder NotificationKind = "reminder"
	NotifyDue      NotificationKind = "due"
	NotifyNotDue   NotificationKind = "not_due"
)

type Notification struct {
	UserID        string           `json:"userId"`
	TransactionID string           `json:"transactionId"`
	Kind          NotificationKind `json:"kind"`
	Message       string           `json:"message"`
}

// Schedule is the due/reminder projection for a recurring transaction.
// Zero DueAt means the transaction does not recur.
type Schedule struct {
	DueAt         time.Time      `json:"dueAt,omitzero"`
	ReminderAt    time.Time      `json:"reminderAt,omitzero"`
	Notifications []Notification `json:"notifications"`
}

// BudgetSnapshot is the result of a monthly budget refresh.
type BudgetSnapshot struct {
	Budget          Budget          `json:"budget"`
	Month           int             `json:"month"`
	Year            int             `json:"year"`
	TotalSpent      decimal.Decimal `json:"totalSpent"`
	Message         string          `json:"message"`
	Recommendations []string        `json:"recommendations"`
}

type TransactionUpdate struct {
	TransactionID  string          `json:"transactionId"`
	OriginalAmount decimal.Decimal `json:"originalAmount"`
	UpdatedAmount  decimal.Decimal `json:"updatedAmount"`
}

// Allocation summarizes an income-to-goals allocation run.
type Allocation struct {
	Message             string              `json:"message"`
	Percentage          decimal.Decimal     `json:"percentage"`
	TotalAllocated      decimal.Decimal     `json:"totalAllocated"`
	UpdatedGoals        []Goal              `json:"updatedGoals"`
	UpdatedTransactions []TransactionUpdate `json:"updatedTransactions"`
}

// Conversion is a read-only projection of a transaction in another currency.
type Conversion struct {
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Rate        decimal.Decimal `json:"rate"`
	Transaction Transaction     `json:"transaction"`
}
