package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

func TestStoreAppendAndList(t *testing.T) {
	s := New()
	ctx := context.Background()
	mk := func(id string, year int) core.Report {
		end := time.Date(year, 6, 30, 0, 0, 0, 0, time.UTC)
		return core.Report{ID: id, UserID: "UI-1", TotalIncome: decimal.NewFromInt(1), StartDate: end, EndDate: end, CreatedAt: end}
	}

	for i, r := range []core.Report{mk("RI-1", 2024), mk("RI-2", 2025), mk("RI-3", 2025)} {
		ref, err := s.AppendReport(ctx, r)
		if err != nil {
			t.Fatalf("AppendReport() error = %v", err)
		}
		if want := fmt.Sprintf("mem:%d", i+1); ref != want {
			t.Errorf("AppendReport() ref = %q, want %q", ref, want)
		}
	}

	got, err := s.ListReports(ctx, 2025)
	if err != nil {
		t.Fatalf("ListReports() error = %v", err)
	}
	if len(got) != 2 || got[0].ID != "RI-2" || got[1].ID != "RI-3" {
		t.Errorf("ListReports(2025) = %+v, want RI-2, RI-3", got)
	}

	if _, err := s.AppendReport(ctx, core.Report{}); err == nil {
		t.Error("AppendReport() without id should fail")
	}
}
