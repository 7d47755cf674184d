package services

import (
	"fmt"
	"time"

	"fintrack/internal/core"
)

// ComputeSchedule projects the next due and reminder instants of a recurring
// transaction and the single notification that applies at now. A transaction
// that does not recur yields an empty schedule.
func ComputeSchedule(t core.Transaction, now time.Time) (core.Schedule, error) {
	if t.RecurringType == "" || t.RecurringType == core.None {
		return core.Schedule{Notifications: []core.Notification{}}, nil
	}
	rule, err := GetRecurrenceRule(t.RecurringType)
	if err != nil {
		return core.Schedule{}, core.Invalid(err.Error())
	}

	due, reminder := rule.Schedule(t.CreatedAt.In(now.Location()))
	kind := rule.Classify(now, due, reminder)

	return core.Schedule{
		DueAt:      due,
		ReminderAt: reminder,
		Notifications: []core.Notification{{
			UserID:        t.UserID,
			TransactionID: t.ID,
			Kind:          kind,
			Message:       notificationMessage(rule, kind, t),
		}},
	}, nil
}

func notificationMessage(rule RecurrenceRule, kind core.NotificationKind, t core.Transaction) string {
	amount := core.FormatAmount(t.Amount)
	switch kind {
	case core.NotifyReminder:
		return fmt.Sprintf("Reminder: Your %s payment of %s is due in %s.", t.Category, amount, rule.Lead())
	case core.NotifyDue:
		return fmt.Sprintf("Payment Due: Your %s payment of %s is due %s.", t.Category, amount, rule.DueWord())
	default:
		return fmt.Sprintf("Payment Due: Your %s payment of %s is not due yet.", t.Category, amount)
	}
}
