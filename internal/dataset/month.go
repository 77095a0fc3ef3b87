package dataset

import (
	"fmt"
	"time"
)

// Month is a calendar (year, month) bucket.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf truncates t to its calendar month.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth parses a "YYYY-MM" key.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("parse month %q: %w", s, err)
	}
	return MonthOf(t), nil
}

// String renders the month as "YYYY-MM", which sorts in calendar order.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Numeric renders the month as YYYYMM.
func (m Month) Numeric() int {
	return m.Year*100 + int(m.Month)
}

// WithMonth returns a new table with a categorical column named name holding
// the "YYYY-MM" bucket of dateField. The receiver is not modified.
func (t *Table) WithMonth(dateField, name string) (*Table, error) {
	dates, err := t.Dates(dateField)
	if err != nil {
		return nil, err
	}
	c := &column{field: Cat(name), cats: make([]string, len(dates))}
	for i, d := range dates {
		c.cats[i] = MonthOf(d).String()
	}
	return t.withColumn(c)
}
