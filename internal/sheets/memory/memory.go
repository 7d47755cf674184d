// Package memory keeps exported reports in process, for development runs
// without a spreadsheet.
package memory

import (
	"context"
	"fmt"
	"sync"

	"fintrack/internal/core"
	ports "fintrack/internal/sheets"
)

type Store struct {
	mu   sync.Mutex
	rows [][]any
}

var (
	_ ports.ReportWriter = (*Store)(nil)
	_ ports.ReportLister = (*Store)(nil)
)

func New() *Store {
	return &Store{}
}

// AppendReport stores the encoded row and returns a synthetic row reference.
func (s *Store) AppendReport(_ context.Context, r core.Report) (string, error) {
	if r.ID == "" {
		return "", fmt.Errorf("report without id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, ports.EncodeReport(r))
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// ListReports decodes stored rows whose end date falls in year.
func (s *Store) ListReports(_ context.Context, year int) ([]core.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Report
	for _, row := range s.rows {
		r, err := ports.DecodeReport(row)
		if err != nil {
			return nil, err
		}
		if r.EndDate.Year() == year {
			out = append(out, r)
		}
	}
	return out, nil
}
