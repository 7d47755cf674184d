// Package worker consumes fintrack events and delivers them outside the API.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/notify"
	"fintrack/internal/sheets"
)

// ExportWorker writes exported reports to a spreadsheet and forwards
// notifications to their delivery channel.
type ExportWorker struct {
	reports  ledger.ReportStore
	writer   sheets.ReportWriter
	lister   sheets.ReportLister
	notifier notify.Notifier
}

// NewExportWorker wires the worker. lister may be nil, which disables the
// startup reconciliation.
func NewExportWorker(reports ledger.ReportStore, writer sheets.ReportWriter, lister sheets.ReportLister, notifier notify.Notifier) *ExportWorker {
	if notifier == nil {
		notifier = notify.LogNotifier{}
	}
	return &ExportWorker{reports: reports, writer: writer, lister: lister, notifier: notifier}
}

// HandleReportExport loads the referenced report and appends it to the
// sheet. A report that no longer exists is dropped, not retried.
func (w *ExportWorker) HandleReportExport(ctx context.Context, msg *amqp.ReportExportMessage) error {
	slog.InfoContext(ctx, "Processing report export", "report_id", msg.ReportID, "user_id", msg.UserID)

	r, err := w.reports.GetReport(ctx, msg.ReportID)
	if errors.Is(err, ledger.ErrNotFound) {
		slog.WarnContext(ctx, "Exported report not found, dropping message", "report_id", msg.ReportID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get report %s: %w", msg.ReportID, err)
	}

	ref, err := w.writer.AppendReport(ctx, r)
	if err != nil {
		return fmt.Errorf("append report %s: %w", r.ID, err)
	}
	slog.InfoContext(ctx, "Report exported", "report_id", r.ID, "sheets_ref", ref)
	return nil
}

// HandleNotification delivers a recurring-payment notification.
func (w *ExportWorker) HandleNotification(ctx context.Context, msg *amqp.NotificationMessage) error {
	if err := w.notifier.Notify(ctx, msg.Notification()); err != nil {
		return fmt.Errorf("deliver notification for %s: %w", msg.TransactionID, err)
	}
	return nil
}

// StartupExportCheck appends reports of year that are in the ledger but
// missing from the sheet, recovering exports lost while the worker was
// down.
func (w *ExportWorker) StartupExportCheck(ctx context.Context, year int) error {
	if w.lister == nil {
		return nil
	}
	exported, err := w.lister.ListReports(ctx, year)
	if err != nil {
		return fmt.Errorf("list exported reports: %w", err)
	}
	seen := make(map[string]struct{}, len(exported))
	for _, r := range exported {
		seen[r.ID] = struct{}{}
	}

	all, err := w.reports.FindReports(ctx, ledger.ReportFilter{}, ledger.FindOptions{Order: ledger.OldestFirst})
	if err != nil {
		return fmt.Errorf("find reports: %w", err)
	}

	var missing []core.Report
	for _, r := range all {
		if _, ok := seen[r.ID]; !ok && r.EndDate.Year() == year {
			missing = append(missing, r)
		}
	}
	if len(missing) == 0 {
		slog.InfoContext(ctx, "No missing report exports found on startup", "year", year)
		return nil
	}

	synced, failed := 0, 0
	for _, r := range missing {
		if _, err := w.writer.AppendReport(ctx, r); err != nil {
			slog.ErrorContext(ctx, "Failed to export report during startup", "report_id", r.ID, "error", err)
			failed++
			continue
		}
		synced++
	}
	slog.InfoContext(ctx, "Startup export check completed",
		"missing", len(missing),
		"synced", synced,
		"errors", failed)
	return nil
}
