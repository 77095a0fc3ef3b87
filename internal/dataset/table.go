package dataset

import (
	"fmt"
	"time"
)

type column struct {
	field Field
	cats  []string
	nums  []float64
	dates []time.Time
}

func (c *column) len() int {
	switch c.field.Kind {
	case Numeric:
		return len(c.nums)
	case Date:
		return len(c.dates)
	default:
		return len(c.cats)
	}
}

// Table is an immutable, column-typed dataset. Derivations return new tables
// that share the source columns.
type Table struct {
	name   string
	schema Schema
	cols   []*column
	rows   int
}

func newTable(name string, s Schema) *Table {
	t := &Table{name: name, schema: s, cols: make([]*column, len(s.Fields))}
	for i, f := range s.Fields {
		t.cols[i] = &column{field: f}
	}
	return t
}

// Name returns the table name, usually the source file's base name.
func (t *Table) Name() string { return t.name }

// Schema returns the table schema.
func (t *Table) Schema() Schema { return t.schema }

// Len returns the number of rows.
func (t *Table) Len() int { return t.rows }

// Field returns the named field definition.
func (t *Table) Field(name string) (Field, bool) { return t.schema.Lookup(name) }

func (t *Table) col(name string, kind Kind) (*column, error) {
	key := normName(name)
	for _, c := range t.cols {
		if normName(c.field.Name) != key {
			continue
		}
		if c.field.Kind != kind {
			return nil, fmt.Errorf("%w: %q is %s, not %s", ErrFieldKind, c.field.Name, c.field.Kind, kind)
		}
		return c, nil
	}
	return nil, fmt.Errorf("%w: %q in table %s", ErrMissingField, name, t.name)
}

// Categorical returns the values of a categorical field. The slice must not be modified.
func (t *Table) Categorical(name string) ([]string, error) {
	c, err := t.col(name, Categorical)
	if err != nil {
		return nil, err
	}
	return c.cats, nil
}

// Numeric returns the values of a numeric field. The slice must not be modified.
func (t *Table) Numeric(name string) ([]float64, error) {
	c, err := t.col(name, Numeric)
	if err != nil {
		return nil, err
	}
	return c.nums, nil
}

// Dates returns the values of a date field. The slice must not be modified.
func (t *Table) Dates(name string) ([]time.Time, error) {
	c, err := t.col(name, Date)
	if err != nil {
		return nil, err
	}
	return c.dates, nil
}

// withColumn returns a shallow copy of t with one extra column appended.
func (t *Table) withColumn(c *column) (*Table, error) {
	if _, exists := t.schema.Lookup(c.field.Name); exists {
		return nil, fmt.Errorf("%w: duplicate field %q", ErrSchema, c.field.Name)
	}
	if c.len() != t.rows {
		return nil, fmt.Errorf("column %q has %d values, table has %d rows", c.field.Name, c.len(), t.rows)
	}
	fields := append(append([]Field(nil), t.schema.Fields...), c.field)
	cols := append(append([]*column(nil), t.cols...), c)
	return &Table{name: t.name, schema: Schema{Fields: fields}, cols: cols, rows: t.rows}, nil
}
