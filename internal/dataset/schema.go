// Package dataset loads delimited and workbook files into column-typed tables.
//
// Every table carries an explicit Schema that is validated once, at load time.
// Downstream code reads typed columns by field name and never re-infers types.
package dataset

import (
	"fmt"
	"strings"
)

// Kind is the storage type of a field.
type Kind int

const (
	Categorical Kind = iota
	Numeric
	Date
)

func (k Kind) String() string {
	switch k {
	case Categorical:
		return "categorical"
	case Numeric:
		return "numeric"
	case Date:
		return "date"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Field is a named, typed column. Layout applies to Date fields only.
type Field struct {
	Name   string
	Kind   Kind
	Layout string
}

// Schema is an ordered list of fields.
type Schema struct {
	Fields []Field
}

// NewSchema builds a schema from fields.
func NewSchema(fields ...Field) Schema {
	return Schema{Fields: fields}
}

// Cat, Num and DateField are shorthands for schema literals.
func Cat(name string) Field { return Field{Name: name, Kind: Categorical} }
func Num(name string) Field { return Field{Name: name, Kind: Numeric} }
func DateField(name, layout string) Field {
	return Field{Name: name, Kind: Date, Layout: layout}
}

// Lookup finds a field by case-insensitive name.
func (s Schema) Lookup(name string) (Field, bool) {
	key := normName(name)
	for _, f := range s.Fields {
		if normName(f.Name) == key {
			return f, true
		}
	}
	return Field{}, false
}

// Names returns field names in schema order.
func (s Schema) Names() []string {
	out := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		out[i] = f.Name
	}
	return out
}

func (s Schema) validate() error {
	if len(s.Fields) == 0 {
		return fmt.Errorf("%w: schema has no fields", ErrSchema)
	}
	seen := map[string]bool{}
	for _, f := range s.Fields {
		n := normName(f.Name)
		if n == "" {
			return fmt.Errorf("%w: empty field name", ErrSchema)
		}
		if seen[n] {
			return fmt.Errorf("%w: duplicate field %q", ErrSchema, f.Name)
		}
		seen[n] = true
	}
	return nil
}

func normName(s string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(s, "\ufeff")))
}
