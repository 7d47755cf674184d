package storage

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// sqliteTime is fixed-width so TEXT comparison orders chronologically.
const sqliteTime = "2006-01-02T15:04:05.000000000Z"

// ts converts t to the driver representation for the dialect.
func (r *Repository) ts(t time.Time) any {
	if r.dialect == SQLite {
		return t.UTC().Format(sqliteTime)
	}
	return t.UTC()
}

// timeCol scans TEXT (SQLite) or TIMESTAMPTZ (PostgreSQL) columns.
type timeCol struct{ t *time.Time }

func (c timeCol) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*c.t = time.Time{}
	case time.Time:
		*c.t = v.UTC()
	case string:
		return c.parse(v)
	case []byte:
		return c.parse(string(v))
	default:
		return fmt.Errorf("scan time: unsupported type %T", src)
	}
	return nil
}

func (c timeCol) parse(s string) error {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("scan time %q: %w", s, err)
	}
	*c.t = t.UTC()
	return nil
}

// amountMap stores category totals as a JSON object.
type amountMap map[string]decimal.Decimal

func (m amountMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]decimal.Decimal(m))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *amountMap) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*m = amountMap{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("scan category expenses: unsupported type %T", src)
	}
	out := map[string]decimal.Decimal{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("scan category expenses: %w", err)
	}
	*m = out
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}
