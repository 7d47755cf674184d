package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Patch types carry optional fields for partial updates. A nil field is left
// untouched. Each Apply validates the touched fields before writing them.

type TransactionPatch struct {
	Type          *TransactionType `json:"type,omitempty"`
	Category      *string          `json:"category,omitempty"`
	Label         *string          `json:"label,omitempty"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	Currency      *string          `json:"currency,omitempty"`
	RecurringType *RecurrenceType  `json:"recurringType,omitempty"`
	Description   *string          `json:"description,omitempty"`
}

func (p TransactionPatch) Apply(t *Transaction) error {
	if p.Type != nil && *p.Type != t.Type {
		return Invalid("transaction type cannot be changed")
	}
	next := *t
	if p.Category != nil {
		next.Category = *p.Category
	}
	if p.Label != nil {
		next.Label = *p.Label
	}
	if p.Amount != nil {
		next.Amount = *p.Amount
	}
	if p.Currency != nil {
		next.Currency = *p.Currency
		if strings.TrimSpace(next.Currency) == "" {
			return Invalid("currency must be a 3-letter code")
		}
	}
	if p.RecurringType != nil {
		next.RecurringType = *p.RecurringType
	}
	if p.Description != nil {
		next.Description = *p.Description
	}
	next.Normalize()
	if err := next.Validate(); err != nil {
		return err
	}
	*t = next
	return nil
}

type BudgetPatch struct {
	Month       *int             `json:"month,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	SpentAmount *decimal.Decimal `json:"spentAmount,omitempty"`
	Status      *BudgetStatus    `json:"status,omitempty"`
}

// Apply recomputes remainingAmount and status after the change.
func (p BudgetPatch) Apply(b *Budget) error {
	next := *b
	if p.Month != nil {
		next.Month = *p.Month
	}
	if p.Amount != nil {
		next.Amount = *p.Amount
	}
	if p.SpentAmount != nil {
		next.SpentAmount = *p.SpentAmount
	}
	if p.Status != nil {
		next.Status = *p.Status
	}
	if err := next.Validate(); err != nil {
		return err
	}
	next.Recalculate()
	*b = next
	return nil
}

type GoalPatch struct {
	Title       *string          `json:"title,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	SavedAmount *decimal.Decimal `json:"savedAmount,omitempty"`
	Deadline    *time.Time       `json:"deadline,omitempty"`
	Status      *GoalStatus      `json:"status,omitempty"`
	Description *string          `json:"description,omitempty"`
}

func (p GoalPatch) Apply(g *Goal) error {
	next := *g
	if p.Title != nil {
		next.Title = *p.Title
	}
	if p.Amount != nil {
		next.Amount = *p.Amount
	}
	if p.SavedAmount != nil {
		next.SavedAmount = *p.SavedAmount
	}
	if p.Deadline != nil {
		next.Deadline = *p.Deadline
	}
	if p.Status != nil {
		next.Status = *p.Status
	}
	if p.Description != nil {
		next.Description = *p.Description
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*g = next
	return nil
}

// UserPatch carries a plaintext password; the user service hashes it before
// calling Apply with the hash.
type UserPatch struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	Role     *Role   `json:"role,omitempty"`
}

func (p UserPatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return Invalid("name cannot be empty")
	}
	if p.Email != nil && !ValidEmail(*p.Email) {
		return Invalid("Email is not valid")
	}
	if p.Password != nil && !StrongPassword(*p.Password) {
		return Invalid("Password not strong enough")
	}
	if p.Role != nil && !p.Role.Valid() {
		return Invalid("role must be admin or regular")
	}
	return nil
}

func (p UserPatch) Apply(u *User, passwordHash string) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = strings.ToLower(*p.Email)
	}
	if p.Password != nil {
		u.PasswordHash = passwordHash
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	return nil
}
