package http

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// bindJSON decodes the request body into dst. Malformed bodies are InvalidInput.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return core.Invalid("request body is required")
		}
		return core.Errorf(core.ErrInvalidInput, "invalid request body: %v", err)
	}
	return nil
}

// MonthParams holds the month/year query of a monthly budget refresh.
// Zero values mean the current month or year.
type MonthParams struct {
	Year  int
	Month int
}

// parseMonthParams reads ?month=&year=. Present but non-numeric values are rejected.
func parseMonthParams(c *gin.Context) (MonthParams, error) {
	var p MonthParams
	if v := strings.TrimSpace(c.Query("month")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			return p, core.ErrInvalidMonth
		}
		p.Month = m
	}
	if v := strings.TrimSpace(c.Query("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1 {
			return p, core.Invalid("year must be a positive number")
		}
		p.Year = y
	}
	return p, nil
}

// parsePercentage reads ?percentage=. Empty means the default percentage.
func parsePercentage(c *gin.Context) (decimal.Decimal, error) {
	v := strings.TrimSpace(c.Query("percentage"))
	if v == "" {
		return decimal.Zero, nil
	}
	p, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, core.Invalid("percentage must be a number")
	}
	return p, nil
}
