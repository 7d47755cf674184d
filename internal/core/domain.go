package core

import (
	"net/mail"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"

	None     RecurrenceType = "none"
	Daily    RecurrenceType = "daily"
	Weekly   RecurrenceType = "weekly"
	Monthly  RecurrenceType = "monthly"
	Annually RecurrenceType = "annually"

	BudgetActive    BudgetStatus = "Active"
	BudgetExceeded  BudgetStatus = "Exceeded"
	BudgetCompleted BudgetStatus = "Completed"

	GoalInProgress GoalStatus = "In Progress"
	GoalAchieved   GoalStatus = "Achieved"
	GoalFailed     GoalStatus = "Failed"

	RoleAdmin   Role = "admin"
	RoleRegular Role = "regular"

	DefaultCurrency = "USD"
)

type (
	TransactionType string
	RecurrenceType  string
	BudgetStatus    string
	GoalStatus      string
	Role            string

	Transaction struct {
		ID            string          `json:"id"`
		UserID        string          `json:"userId"`
		Type          TransactionType `json:"type"`
		Category      string          `json:"category"`
		Label         string          `json:"label"`
		Amount        decimal.Decimal `json:"amount"`
		Currency      string          `json:"currency"`
		RecurringType RecurrenceType  `json:"recurringType"`
		Description   string          `json:"description,omitempty"`
		CreatedAt     time.Time       `json:"createdAt"`
		UpdatedAt     time.Time       `json:"updatedAt"`
	}

	Budget struct {
		ID              string          `json:"id"`
		UserID          string          `json:"userId"`
		Month           int             `json:"month"` // 1-12
		Amount          decimal.Decimal `json:"amount"`
		SpentAmount     decimal.Decimal `json:"spentAmount"`
		RemainingAmount decimal.Decimal `json:"remainingAmount"`
		Status          BudgetStatus    `json:"status"`
		CreatedAt       time.Time       `json:"createdAt"`
		UpdatedAt       time.Time       `json:"updatedAt"`
	}

	Goal struct {
		ID          string          `json:"id"`
		UserID      string          `json:"userId"`
		Title       string          `json:"title"`
		Amount      decimal.Decimal `json:"amount"`
		SavedAmount decimal.Decimal `json:"savedAmount"`
		Deadline    time.Time       `json:"deadline"`
		Status      GoalStatus      `json:"status"`
		Description string          `json:"description,omitempty"`
		CreatedAt   time.Time       `json:"createdAt"`
		UpdatedAt   time.Time       `json:"updatedAt"`
	}

	Report struct {
		ID               string                     `json:"id"`
		UserID           string                     `json:"userId"`
		TotalIncome      decimal.Decimal            `json:"totalIncome"`
		TotalExpenses    decimal.Decimal            `json:"totalExpenses"`
		Savings          decimal.Decimal            `json:"savings"`
		CategoryExpenses map[string]decimal.Decimal `json:"categoryExpenses"`
		BudgetAllocated  decimal.Decimal            `json:"budgetAllocated"`
		BudgetRemaining  decimal.Decimal            `json:"budgetRemaining"`
		StartDate        time.Time                  `json:"startDate"`
		EndDate          time.Time                  `json:"endDate"`
		CategoryFilter   string                     `json:"categoryFilter,omitempty"`
		LabelFilter      string                     `json:"labelFilter,omitempty"`
		Recommendation   string                     `json:"recommendation"`
		CreatedAt        time.Time                  `json:"createdAt"`
	}

	User struct {
		ID           string    `json:"id"`
		Name         string    `json:"name"`
		Email        string    `json:"email"`
		PasswordHash string    `json:"-"`
		Role         Role      `json:"role"`
		CreatedAt    time.Time `json:"createdAt"`
		UpdatedAt    time.Time `json:"updatedAt"`
	}
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

func (t TransactionType) Valid() bool { return t == Income || t == Expense }

func (r RecurrenceType) Valid() bool {
	switch r {
	case None, Daily, Weekly, Monthly, Annually:
		return true
	}
	return false
}

func (s BudgetStatus) Valid() bool {
	return s == BudgetActive || s == BudgetExceeded || s == BudgetCompleted
}

func (s GoalStatus) Valid() bool {
	return s == GoalInProgress || s == GoalAchieved || s == GoalFailed
}

func (r Role) Valid() bool { return r == RoleAdmin || r == RoleRegular }

// Normalize fills defaults for optional fields before validation.
func (t *Transaction) Normalize() {
	t.Currency = strings.ToUpper(strings.TrimSpace(t.Currency))
	if t.Currency == "" {
		t.Currency = DefaultCurrency
	}
	if t.RecurringType == "" {
		t.RecurringType = None
	}
	t.Category = strings.TrimSpace(t.Category)
	t.Label = strings.TrimSpace(t.Label)
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.UserID) == "" {
		return Invalid("userId is required")
	}
	if !t.Type.Valid() {
		return Invalid("type must be income or expense")
	}
	if t.Category == "" {
		return Invalid("category is required")
	}
	if t.Label == "" {
		return Invalid("label is required")
	}
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !ValidCurrency(t.Currency) {
		return Invalid("currency must be a 3-letter code")
	}
	if !t.RecurringType.Valid() {
		return Invalid("invalid recurringType")
	}
	if len(t.Description) > 200 {
		return Invalid("description too long (max 200 characters)")
	}
	return nil
}

// Recalculate derives remainingAmount and status from amount and spentAmount.
// A Completed budget keeps its status.
func (b *Budget) Recalculate() {
	b.RemainingAmount = b.Amount.Sub(b.SpentAmount)
	if b.Status == BudgetCompleted {
		return
	}
	if b.SpentAmount.GreaterThan(b.Amount) {
		b.Status = BudgetExceeded
	} else {
		b.Status = BudgetActive
	}
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.UserID) == "" {
		return Invalid("userId is required")
	}
	if b.Month < 1 || b.Month > 12 {
		return ErrInvalidMonth
	}
	if !b.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if b.SpentAmount.IsNegative() {
		return Invalid("spentAmount cannot be negative")
	}
	if b.Status != "" && !b.Status.Valid() {
		return Invalid("invalid budget status")
	}
	return nil
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.UserID) == "" {
		return Invalid("userId is required")
	}
	if strings.TrimSpace(g.Title) == "" {
		return Invalid("title is required")
	}
	if !g.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if g.SavedAmount.IsNegative() {
		return Invalid("savedAmount cannot be negative")
	}
	if g.Deadline.IsZero() {
		return Invalid("deadline is required")
	}
	if g.Status != "" && !g.Status.Valid() {
		return Invalid("invalid goal status")
	}
	return nil
}

// ValidCurrency reports whether s is an upper-case ISO 4217 style code such as "EUR".
func ValidCurrency(s string) bool {
	if len(s) != 3 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}

// ValidEmail reports whether s is a bare address such as "a@b.io".
func ValidEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s && strings.Contains(s[strings.LastIndex(s, "@"):], ".")
}

// StrongPassword requires at least 8 characters mixing lower, upper, digit and symbol.
func StrongPassword(s string) bool {
	if len(s) < 8 {
		return false
	}
	var lower, upper, digit, symbol bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}
