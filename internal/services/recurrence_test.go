package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

func recurring(rt core.RecurrenceType, created time.Time) core.Transaction {
	return core.Transaction{
		ID: "TI-1001", UserID: "UI-10001", Type: core.Expense, Category: "Rent", Label: "flat",
		Amount: decimal.NewFromInt(1500), Currency: "USD", RecurringType: rt, CreatedAt: created,
	}
}

func TestAddMonthsClamped(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		n    int
		want time.Time
	}{
		{"plain", time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC), 1, time.Date(2025, 4, 10, 8, 0, 0, 0, time.UTC)},
		{"jan 31 to feb", time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), 1, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)},
		{"jan 31 leap year", time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), 1, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{"dec rolls year", time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC), 1, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"feb 29 plus year", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), 12, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := addMonthsClamped(tt.in, tt.n); !got.Equal(tt.want) {
				t.Errorf("addMonthsClamped() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeSchedule_Monthly(t *testing.T) {
	created := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	tx := recurring(core.Monthly, created)

	tests := []struct {
		name string
		now  time.Time
		kind core.NotificationKind
		msg  string
	}{
		{
			name: "reminder date",
			now:  time.Date(2025, 2, 13, 18, 0, 0, 0, time.UTC),
			kind: core.NotifyReminder,
			msg:  "Reminder: Your Rent payment of 1500 is due in 2 days.",
		},
		{
			name: "due date before due hour",
			now:  time.Date(2025, 2, 15, 1, 0, 0, 0, time.UTC),
			kind: core.NotifyDue,
			msg:  "Payment Due: Your Rent payment of 1500 is due today.",
		},
		{
			name: "after due date",
			now:  time.Date(2025, 2, 20, 1, 0, 0, 0, time.UTC),
			kind: core.NotifyDue,
			msg:  "Payment Due: Your Rent payment of 1500 is due today.",
		},
		{
			name: "between reminder and due",
			now:  time.Date(2025, 2, 14, 12, 0, 0, 0, time.UTC),
			kind: core.NotifyNotDue,
			msg:  "Payment Due: Your Rent payment of 1500 is not due yet.",
		},
		{
			name: "right after creation",
			now:  created.Add(time.Hour),
			kind: core.NotifyNotDue,
			msg:  "Payment Due: Your Rent payment of 1500 is not due yet.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ComputeSchedule(tx, tt.now)
			if err != nil {
				t.Fatalf("ComputeSchedule() error = %v", err)
			}
			if !s.DueAt.Equal(time.Date(2025, 2, 15, 10, 0, 0, 0, time.UTC)) {
				t.Errorf("DueAt = %v", s.DueAt)
			}
			if !s.ReminderAt.Equal(time.Date(2025, 2, 13, 10, 0, 0, 0, time.UTC)) {
				t.Errorf("ReminderAt = %v", s.ReminderAt)
			}
			if len(s.Notifications) != 1 {
				t.Fatalf("len(Notifications) = %d, want 1", len(s.Notifications))
			}
			n := s.Notifications[0]
			if n.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", n.Kind, tt.kind)
			}
			if n.Message != tt.msg {
				t.Errorf("Message = %q, want %q", n.Message, tt.msg)
			}
			if n.UserID != "UI-10001" || n.TransactionID != "TI-1001" {
				t.Errorf("notification recipient = %s/%s", n.UserID, n.TransactionID)
			}
		})
	}
}

func TestComputeSchedule_MonthEndClamp(t *testing.T) {
	tx := recurring(core.Monthly, time.Date(2025, 1, 31, 9, 0, 0, 0, time.UTC))
	s, err := ComputeSchedule(tx, time.Date(2025, 2, 26, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ComputeSchedule() error = %v", err)
	}
	if !s.DueAt.Equal(time.Date(2025, 2, 28, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("DueAt = %v, want Feb 28", s.DueAt)
	}
	if s.Notifications[0].Kind != core.NotifyReminder {
		t.Errorf("Kind = %v, want reminder", s.Notifications[0].Kind)
	}
}

func TestComputeSchedule_Weekly(t *testing.T) {
	tx := recurring(core.Weekly, time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC))
	tests := []struct {
		now  time.Time
		kind core.NotificationKind
	}{
		{time.Date(2025, 3, 9, 0, 30, 0, 0, time.UTC), core.NotifyReminder},
		{time.Date(2025, 3, 10, 0, 30, 0, 0, time.UTC), core.NotifyDue},
		{time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), core.NotifyNotDue},
	}
	for _, tt := range tests {
		s, err := ComputeSchedule(tx, tt.now)
		if err != nil {
			t.Fatalf("ComputeSchedule() error = %v", err)
		}
		if got := s.Notifications[0].Kind; got != tt.kind {
			t.Errorf("at %v: Kind = %v, want %v", tt.now, got, tt.kind)
		}
	}
	s, _ := ComputeSchedule(tx, time.Date(2025, 3, 9, 0, 30, 0, 0, time.UTC))
	if want := "Reminder: Your Rent payment of 1500 is due in 1 day."; s.Notifications[0].Message != want {
		t.Errorf("Message = %q, want %q", s.Notifications[0].Message, want)
	}
}

func TestComputeSchedule_Daily(t *testing.T) {
	created := time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)
	tx := recurring(core.Daily, created)
	tests := []struct {
		name string
		now  time.Time
		kind core.NotificationKind
		msg  string
	}{
		{"before window", created.Add(21 * time.Hour), core.NotifyNotDue, "Payment Due: Your Rent payment of 1500 is not due yet."},
		{"window opens", created.Add(22 * time.Hour), core.NotifyReminder, "Reminder: Your Rent payment of 1500 is due in less than 2 hours."},
		{"inside window", created.Add(23*time.Hour + 59*time.Minute), core.NotifyReminder, "Reminder: Your Rent payment of 1500 is due in less than 2 hours."},
		{"at due", created.Add(24 * time.Hour), core.NotifyDue, "Payment Due: Your Rent payment of 1500 is due now."},
		{"past due", created.Add(30 * time.Hour), core.NotifyDue, "Payment Due: Your Rent payment of 1500 is due now."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ComputeSchedule(tx, tt.now)
			if err != nil {
				t.Fatalf("ComputeSchedule() error = %v", err)
			}
			if got := s.Notifications[0]; got.Kind != tt.kind || got.Message != tt.msg {
				t.Errorf("got %v %q, want %v %q", got.Kind, got.Message, tt.kind, tt.msg)
			}
		})
	}
}

func TestComputeSchedule_Annually(t *testing.T) {
	tx := recurring(core.Annually, time.Date(2024, 2, 29, 8, 0, 0, 0, time.UTC))
	s, err := ComputeSchedule(tx, time.Date(2025, 2, 21, 20, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ComputeSchedule() error = %v", err)
	}
	if !s.DueAt.Equal(time.Date(2025, 2, 28, 8, 0, 0, 0, time.UTC)) {
		t.Errorf("DueAt = %v, want 2025-02-28", s.DueAt)
	}
	if want := "Reminder: Your Rent payment of 1500 is due in 7 days."; s.Notifications[0].Message != want {
		t.Errorf("Message = %q, want %q", s.Notifications[0].Message, want)
	}
}

func TestComputeSchedule_Invariants(t *testing.T) {
	created := time.Date(2025, 1, 31, 23, 30, 0, 0, time.UTC)
	for _, rt := range []core.RecurrenceType{core.Daily, core.Weekly, core.Monthly, core.Annually} {
		tx := recurring(rt, created)
		for h := 0; h < 24*400; h += 7 {
			s, err := ComputeSchedule(tx, created.Add(time.Duration(h)*time.Hour))
			if err != nil {
				t.Fatalf("%s: error = %v", rt, err)
			}
			if !s.DueAt.After(s.ReminderAt) {
				t.Fatalf("%s: DueAt %v not after ReminderAt %v", rt, s.DueAt, s.ReminderAt)
			}
			if len(s.Notifications) != 1 {
				t.Fatalf("%s: %d notifications, want exactly 1", rt, len(s.Notifications))
			}
		}
	}
}

func TestComputeSchedule_NonRecurring(t *testing.T) {
	s, err := ComputeSchedule(recurring(core.None, time.Now()), time.Now())
	if err != nil {
		t.Fatalf("ComputeSchedule() error = %v", err)
	}
	if !s.DueAt.IsZero() || len(s.Notifications) != 0 {
		t.Errorf("non-recurring schedule = %+v, want empty", s)
	}
}

func TestComputeSchedule_UnknownType(t *testing.T) {
	_, err := ComputeSchedule(recurring("hourly", time.Now()), time.Now())
	if err == nil {
		t.Fatal("expected error for unknown recurrence type")
	}
}

type fortnightlyRule struct{ WeeklyRule }

func (fortnightlyRule) Schedule(anchor time.Time) (time.Time, time.Time) {
	due := anchor.AddDate(0, 0, 14)
	return due, due.AddDate(0, 0, -1)
}

func TestRegisterRecurrenceRule(t *testing.T) {
	const fortnightly core.RecurrenceType = "fortnightly"
	RegisterRecurrenceRule(fortnightly, fortnightlyRule{})
	t.Cleanup(func() { delete(recurrenceRules, fortnightly) })

	rule, err := GetRecurrenceRule(fortnightly)
	if err != nil {
		t.Fatalf("GetRecurrenceRule() error = %v", err)
	}
	due, _ := rule.Schedule(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	if !due.Equal(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("due = %v", due)
	}
}
