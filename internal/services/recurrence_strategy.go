// Package services provides business logic and orchestration services.
//
// This file implements the Strategy Pattern for recurring payment schedules.
// Each recurrence type (daily, weekly, monthly, annually) has its own rule
// that encapsulates how the due and reminder instants are derived and how
// the current time is classified against them.

package services

import (
	"fmt"
	"time"

	"fintrack/internal/core"
)

// RecurrenceRule is the strategy interface for one recurrence type.
type RecurrenceRule interface {
	// Schedule returns the due instant for a transaction created at anchor
	// and the reminder instant preceding it.
	Schedule(anchor time.Time) (due, reminder time.Time)
	// Classify decides which notification applies at now.
	Classify(now, due, reminder time.Time) core.NotificationKind
	// Lead is the reminder lead time as shown to users, e.g. "2 days".
	Lead() string
	// DueWord completes "is due ..." in the due message.
	DueWord() string
}

// MonthlyRule: due one calendar month after creation, reminder 2 days before.
type MonthlyRule struct{}

func (MonthlyRule) Schedule(anchor time.Time) (time.Time, time.Time) {
	due := addMonthsClamped(anchor, 1)
	return due, due.AddDate(0, 0, -2)
}

func (MonthlyRule) Classify(now, due, reminder time.Time) core.NotificationKind {
	return classifyByDate(now, due, reminder)
}

func (MonthlyRule) Lead() string    { return "2 days" }
func (MonthlyRule) DueWord() string { return "today" }

// WeeklyRule: due 7 days after creation, reminder 1 day before.
type WeeklyRule struct{}

func (WeeklyRule) Schedule(anchor time.Time) (time.Time, time.Time) {
	due := anchor.AddDate(0, 0, 7)
	return due, due.AddDate(0, 0, -1)
}

func (WeeklyRule) Classify(now, due, reminder time.Time) core.NotificationKind {
	return classifyByDate(now, due, reminder)
}

func (WeeklyRule) Lead() string    { return "1 day" }
func (WeeklyRule) DueWord() string { return "today" }

// DailyRule: due 24 hours after creation, reminder window opens 2 hours before.
type DailyRule struct{}

func (DailyRule) Schedule(anchor time.Time) (time.Time, time.Time) {
	due := anchor.Add(24 * time.Hour)
	return due, due.Add(-2 * time.Hour)
}

// Classify uses instant precision: [reminder, due) is the reminder window.
func (DailyRule) Classify(now, due, reminder time.Time) core.NotificationKind {
	switch {
	case !now.Before(due):
		return core.NotifyDue
	case !now.Before(reminder):
		return core.NotifyReminder
	default:
		return core.NotifyNotDue
	}
}

func (DailyRule) Lead() string    { return "less than 2 hours" }
func (DailyRule) DueWord() string { return "now" }

// AnnualRule: due one calendar year after creation, reminder 7 days before.
type AnnualRule struct{}

func (AnnualRule) Schedule(anchor time.Time) (time.Time, time.Time) {
	due := addMonthsClamped(anchor, 12)
	return due, due.AddDate(0, 0, -7)
}

func (AnnualRule) Classify(now, due, reminder time.Time) core.NotificationKind {
	return classifyByDate(now, due, reminder)
}

func (AnnualRule) Lead() string    { return "7 days" }
func (AnnualRule) DueWord() string { return "today" }

// classifyByDate compares calendar dates in now's location. The reminder
// date wins over the due date.
func classifyByDate(now, due, reminder time.Time) core.NotificationKind {
	today := dateOf(now, now.Location())
	switch {
	case today.Equal(dateOf(reminder, now.Location())):
		return core.NotifyReminder
	case !today.Before(dateOf(due, now.Location())):
		return core.NotifyDue
	default:
		return core.NotifyNotDue
	}
}

func dateOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// addMonthsClamped adds n calendar months, clamping the day to the last day
// of the target month (Jan 31 + 1 month = Feb 28/29).
func addMonthsClamped(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	target := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	lastDay := time.Date(target.Year(), target.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
	if d > lastDay {
		d = lastDay
	}
	return time.Date(target.Year(), target.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// recurrenceRules maps recurrence types to their rules.
var recurrenceRules = map[core.RecurrenceType]RecurrenceRule{
	core.Daily:    DailyRule{},
	core.Weekly:   WeeklyRule{},
	core.Monthly:  MonthlyRule{},
	core.Annually: AnnualRule{},
}

// GetRecurrenceRule returns the rule for a recurrence type.
func GetRecurrenceRule(rt core.RecurrenceType) (RecurrenceRule, error) {
	rule, ok := recurrenceRules[rt]
	if !ok {
		return nil, fmt.Errorf("unknown recurrence type: %s", rt)
	}
	return rule, nil
}

// RegisterRecurrenceRule adds or replaces the rule for a recurrence type.
// Not safe for use concurrently with ComputeSchedule; call it during init.
func RegisterRecurrenceRule(rt core.RecurrenceType, rule RecurrenceRule) {
	recurrenceRules[rt] = rule
}
