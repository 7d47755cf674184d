package amqp

import (
	"encoding/json"
	"time"

	"fintrack/internal/core"
)

// Routing keys on the fintrack exchange.
const (
	RoutingNotifications = "notifications"
	RoutingReportExports = "report_exports"
)

// NotificationMessage carries a recurring-payment notification to its
// delivery worker.
type NotificationMessage struct {
	UserID        string                `json:"userId"`
	TransactionID string                `json:"transactionId"`
	Kind          core.NotificationKind `json:"kind"`
	Message       string                `json:"message"`
	Timestamp     time.Time             `json:"timestamp"`
}

func NewNotificationMessage(n core.Notification) *NotificationMessage {
	return &NotificationMessage{
		UserID:        n.UserID,
		TransactionID: n.TransactionID,
		Kind:          n.Kind,
		Message:       n.Message,
		Timestamp:     time.Now().UTC(),
	}
}

func (m *NotificationMessage) Notification() core.Notification {
	return core.Notification{
		UserID:        m.UserID,
		TransactionID: m.TransactionID,
		Kind:          m.Kind,
		Message:       m.Message,
	}
}

// ReportExportMessage only references the report; the worker loads it
// from the ledger.
type ReportExportMessage struct {
	ReportID  string    `json:"reportId"`
	UserID    string    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

func NewReportExportMessage(r core.Report) *ReportExportMessage {
	return &ReportExportMessage{ReportID: r.ID, UserID: r.UserID, Timestamp: time.Now().UTC()}
}

func decode[T any](data []byte) (*T, error) {
	var msg T
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func NotificationMessageFromJSON(data []byte) (*NotificationMessage, error) {
	return decode[NotificationMessage](data)
}

func ReportExportMessageFromJSON(data []byte) (*ReportExportMessage, error) {
	return decode[ReportExportMessage](data)
}
