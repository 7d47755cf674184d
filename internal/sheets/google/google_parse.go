package google

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"fintrack/internal/core"
	ports "fintrack/internal/sheets"
)

// parseReportRows decodes a values matrix as returned by the Sheets API.
// A header row and rows that do not decode are skipped; the latter are
// logged since they usually mean someone edited the sheet by hand.
func parseReportRows(ctx context.Context, values [][]any) []core.Report {
	out := make([]core.Report, 0, len(values))
	for i, row := range values {
		if len(row) == 0 {
			continue
		}
		if i == 0 && strings.EqualFold(strings.TrimSpace(fmt.Sprint(row[0])), fmt.Sprint(ports.Header[0])) {
			continue
		}
		r, err := ports.DecodeReport(row)
		if err != nil {
			slog.WarnContext(ctx, "Skipping malformed report row", "row", i+1, "error", err)
			continue
		}
		out = append(out, r)
	}
	return out
}
