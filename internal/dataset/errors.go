package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrSchema indicates a malformed schema.
	ErrSchema = errors.New("invalid schema")
	// ErrMissingField indicates a schema field absent from the file header or table.
	ErrMissingField = errors.New("missing field")
	// ErrFieldKind indicates a field accessed as the wrong kind.
	ErrFieldKind = errors.New("field kind mismatch")
	// ErrInvalidValue indicates a cell that cannot be coerced to its field kind.
	ErrInvalidValue = errors.New("invalid value")
	// ErrEmptyFile indicates a file without a header row.
	ErrEmptyFile = errors.New("empty file")
)

// CoercionError reports the first cell that failed type coercion under the Strict policy.
type CoercionError struct {
	Row   int // 1-based data row, header excluded
	Field string
	Kind  Kind
	Value string
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("row %d: field %q: cannot parse %q as %s", e.Row, e.Field, e.Value, e.Kind)
}

func (e *CoercionError) Unwrap() error { return ErrInvalidValue }
