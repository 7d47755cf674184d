package sheets

import (
	"context"

	"fintrack/internal/core"
)

// Ports for outbound spreadsheet adapters.
type (
	// ReportWriter appends a generated report as one spreadsheet row.
	ReportWriter interface {
		AppendReport(ctx context.Context, r core.Report) (rowRef string, err error)
	}

	// ReportLister reads back the reports exported during a year.
	ReportLister interface {
		ListReports(ctx context.Context, year int) ([]core.Report, error)
	}
)
