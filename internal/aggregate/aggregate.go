// Package aggregate groups a typed table by categorical keys and sums a numeric measure.
package aggregate

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/salescope/internal/dataset"
)

var (
	ErrNoKeys       = errors.New("no group keys")
	ErrUnknownField = errors.New("unknown field")
	ErrFieldKind    = errors.New("wrong field kind")
)

// Row is one observed key combination and the sum of the measure over its members.
type Row struct {
	Keys  []string
	Total float64
	Count int
}

// Label joins the keys as "first (second, third)".
func (r Row) Label() string {
	switch len(r.Keys) {
	case 0:
		return ""
	case 1:
		return r.Keys[0]
	}
	return fmt.Sprintf("%s (%s)", r.Keys[0], strings.Join(r.Keys[1:], ", "))
}

const keySep = "\x1f"

// GroupSum partitions t by the combination of values in keys and sums measure
// within each group. Rows come back in ascending key order; groups that never
// occur are not emitted. An empty table yields an empty result.
func GroupSum(t *dataset.Table, keys []string, measure string) ([]Row, error) {
	if len(keys) == 0 {
		return nil, ErrNoKeys
	}
	keyCols := make([][]string, len(keys))
	for i, k := range keys {
		f, ok := t.Field(k)
		if !ok {
			return nil, fmt.Errorf("group key %q: %w", k, ErrUnknownField)
		}
		if f.Kind != dataset.Categorical {
			return nil, fmt.Errorf("group key %q is %s: %w", k, f.Kind, ErrFieldKind)
		}
		vals, err := t.Categorical(k)
		if err != nil {
			return nil, err
		}
		keyCols[i] = vals
	}
	f, ok := t.Field(measure)
	if !ok {
		return nil, fmt.Errorf("measure %q: %w", measure, ErrUnknownField)
	}
	if f.Kind != dataset.Numeric {
		return nil, fmt.Errorf("measure %q is %s: %w", measure, f.Kind, ErrFieldKind)
	}
	amounts, err := t.Numeric(measure)
	if err != nil {
		return nil, err
	}

	groups := map[string]*Row{}
	parts := make([]string, len(keys))
	for i := 0; i < t.Len(); i++ {
		for j := range keys {
			parts[j] = keyCols[j][i]
		}
		k := strings.Join(parts, keySep)
		g := groups[k]
		if g == nil {
			g = &Row{Keys: append([]string(nil), parts...)}
			groups[k] = g
		}
		g.Total += amounts[i]
		g.Count++
	}

	out := make([]Row, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	SortKeys(out)
	return out, nil
}

// SortKeys orders rows ascending by key tuple.
func SortKeys(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool { return lessKeys(rows[i].Keys, rows[j].Keys) })
}

// SortDesc orders rows by descending total; ties keep ascending key order.
func SortDesc(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Total == rows[j].Total {
			return lessKeys(rows[i].Keys, rows[j].Keys)
		}
		return rows[i].Total > rows[j].Total
	})
}

func lessKeys(a, b []string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

// Total sums the totals of rows.
func Total(rows []Row) float64 {
	var s float64
	for _, r := range rows {
		s += r.Total
	}
	return s
}

// Partition is the subset of rows sharing one value at a key position.
type Partition struct {
	Value string
	Rows  []Row
}

// Split groups rows by the value of Keys[keyIdx], ordered by ascending value.
// Row order inside a partition is preserved.
func Split(rows []Row, keyIdx int) ([]Partition, error) {
	idx := map[string]int{}
	var out []Partition
	for _, r := range rows {
		if keyIdx < 0 || keyIdx >= len(r.Keys) {
			return nil, fmt.Errorf("partition key index %d out of range for %d keys", keyIdx, len(r.Keys))
		}
		v := r.Keys[keyIdx]
		i, ok := idx[v]
		if !ok {
			i = len(out)
			idx[v] = i
			out = append(out, Partition{Value: v})
		}
		out[i].Rows = append(out[i].Rows, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out, nil
}

// Values lists the distinct values at key position keyIdx in first-seen order.
func Values(rows []Row, keyIdx int) []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range rows {
		if keyIdx >= len(r.Keys) {
			continue
		}
		if v := r.Keys[keyIdx]; !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
