package dataset

import (
	"fmt"
	"strings"
	"time"
)

// Policy decides what happens to a row holding a value that cannot be coerced.
type Policy int

const (
	// Strict fails the load with a *CoercionError.
	Strict Policy = iota
	// DropInvalid removes the row and counts it in LoadStats.
	DropInvalid
)

// LoadStats describes the outcome of typing a Raw table.
type LoadStats struct {
	Rows    int
	Kept    int
	Dropped int
	// DroppedBy counts drops by the first field that failed in each row.
	DroppedBy map[string]int
}

// Load opens path and types it against schema.
func Load(path string, schema Schema, policy Policy, opt Options) (*Table, LoadStats, error) {
	raw, err := Open(path, opt)
	if err != nil {
		return nil, LoadStats{}, err
	}
	return raw.Table(schema, policy, opt)
}

// Table coerces the raw records into a typed table. Header lookup is
// case-insensitive; a schema field absent from the header is an error.
func (r *Raw) Table(schema Schema, policy Policy, opt Options) (*Table, LoadStats, error) {
	stats := LoadStats{Rows: len(r.Records), DroppedBy: map[string]int{}}
	if err := schema.validate(); err != nil {
		return nil, stats, err
	}
	idx := make([]int, len(schema.Fields))
	for i, f := range schema.Fields {
		pos := -1
		for j, h := range r.Header {
			if normName(h) == normName(f.Name) {
				pos = j
				break
			}
		}
		if pos < 0 {
			return nil, stats, fmt.Errorf("%s: %w: %q (header: %s)", r.Name, ErrMissingField, f.Name, strings.Join(r.Header, ", "))
		}
		idx[i] = pos
	}

	t := newTable(r.Name, schema)
	cats := make([]string, len(schema.Fields))
	nums := make([]float64, len(schema.Fields))
	dts := make([]time.Time, len(schema.Fields))
rows:
	for n, rec := range r.Records {
		for i, f := range schema.Fields {
			cell := strings.TrimSpace(rec[idx[i]])
			ok := true
			switch f.Kind {
			case Numeric:
				nums[i], ok = parseNumeric(cell, opt)
			case Date:
				dts[i], ok = parseDate(cell, f.Layout)
			default:
				cats[i], ok = cell, cell != ""
			}
			if ok {
				continue
			}
			if policy == DropInvalid {
				stats.Dropped++
				stats.DroppedBy[f.Name]++
				continue rows
			}
			return nil, stats, fmt.Errorf("%s: %w", r.Name, &CoercionError{Row: n + 1, Field: f.Name, Kind: f.Kind, Value: cell})
		}
		for i, c := range t.cols {
			switch c.field.Kind {
			case Numeric:
				c.nums = append(c.nums, nums[i])
			case Date:
				c.dates = append(c.dates, dts[i])
			default:
				c.cats = append(c.cats, cats[i])
			}
		}
		t.rows++
	}
	stats.Kept = t.rows
	return t, stats, nil
}
