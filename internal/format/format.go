// Package format renders aggregation rows as console lines with grouped amounts.
package format

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/KaramelBytes/salescope/internal/aggregate"
)

// DefaultSeparator groups thousands in printed amounts.
const DefaultSeparator = '.'

// Round rounds x to the nearest unit, half to even.
func Round(x float64) int64 {
	return int64(math.RoundToEven(x))
}

// Thousands groups the digits of n in threes using sep.
func Thousands(n int64, sep rune) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > 0 && !(neg && b.Len() == 1) {
			b.WriteRune(sep)
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// ParseThousands reverses Thousands.
func ParseThousands(s string, sep rune) (int64, error) {
	n, err := strconv.ParseInt(strings.ReplaceAll(strings.TrimSpace(s), string(sep), ""), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return n, nil
}

// Formatter renders amounts and report lines.
type Formatter struct {
	Separator rune
}

// New returns a Formatter; a zero sep selects DefaultSeparator.
func New(sep rune) Formatter {
	if sep == 0 {
		sep = DefaultSeparator
	}
	return Formatter{Separator: sep}
}

func (f Formatter) sep() rune {
	if f.Separator == 0 {
		return DefaultSeparator
	}
	return f.Separator
}

// Amount rounds x and groups its digits.
func (f Formatter) Amount(x float64) string {
	return Thousands(Round(x), f.sep())
}

// Tick formats an axis tick value.
func (f Formatter) Tick(x float64) string {
	return f.Amount(x)
}

// Line renders "first (second, third): amount".
func (f Formatter) Line(r aggregate.Row) string {
	return r.Label() + ": " + f.Amount(r.Total)
}

// WriteRows writes one line per row.
func (f Formatter) WriteRows(w io.Writer, rows []aggregate.Row) error {
	for _, r := range rows {
		if _, err := fmt.Fprintln(w, f.Line(r)); err != nil {
			return err
		}
	}
	return nil
}
