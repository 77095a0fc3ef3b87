package dataset

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Profile is a markdown-friendly summary of a raw file, used by `inspect`.
type Profile struct {
	Name    string
	Rows    int
	Cols    []ColumnSummary
	Samples [][]string
}

// ColumnSummary captures inferred type and statistics per column.
type ColumnSummary struct {
	Name    string
	Kind    string // numeric|date|categorical|unknown
	NonNull int
	Missing int
	Unique  int
	// Numeric stats
	Min, Max, Mean, Std float64
	// Categorical top values
	TopValues []CategoryCount
}

type CategoryCount struct {
	Value string
	Count int
}

// ProfileRaw infers a kind per column by the predominant parseable type.
func ProfileRaw(r *Raw, sampleRows int, opt Options) *Profile {
	p := &Profile{Name: r.Name, Rows: len(r.Records)}
	if sampleRows <= 0 {
		sampleRows = 5
	}
	for i := 0; i < len(r.Records) && i < sampleRows; i++ {
		p.Samples = append(p.Samples, r.Records[i])
	}
	for j, name := range r.Header {
		var nums []float64
		var dtCnt, txtCnt int
		cats := map[string]int{}
		s := ColumnSummary{Name: name}
		for _, rec := range r.Records {
			v := strings.TrimSpace(rec[j])
			if v == "" {
				s.Missing++
				continue
			}
			s.NonNull++
			if x, ok := parseNumeric(v, opt); ok {
				nums = append(nums, x)
				continue
			}
			if _, ok := parseDate(v, "1/2/2006"); ok {
				dtCnt++
				continue
			}
			txtCnt++
			if len(cats) <= 10000 {
				cats[v]++
			}
		}
		switch {
		case len(nums) > 0 && len(nums) >= dtCnt && len(nums) >= txtCnt:
			s.Kind = "numeric"
			s.Min, s.Max = floats.Min(nums), floats.Max(nums)
			s.Mean, s.Std = stat.MeanStdDev(nums, nil)
			if math.IsNaN(s.Std) {
				s.Std = 0
			}
		case dtCnt > 0 && dtCnt >= txtCnt:
			s.Kind = "date"
		case len(cats) > 0:
			s.Kind = "categorical"
			tops := make([]CategoryCount, 0, len(cats))
			for k, v := range cats {
				tops = append(tops, CategoryCount{Value: k, Count: v})
			}
			sort.Slice(tops, func(a, b int) bool {
				if tops[a].Count == tops[b].Count {
					return tops[a].Value < tops[b].Value
				}
				return tops[a].Count > tops[b].Count
			})
			if len(tops) > 8 {
				tops = tops[:8]
			}
			s.TopValues = tops
			s.Unique = len(cats)
		default:
			s.Kind = "unknown"
		}
		p.Cols = append(p.Cols, s)
	}
	return p
}

// Markdown renders a compact report.
func (p *Profile) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	b.WriteString(fmt.Sprintf("File: %s\n", p.Name))
	b.WriteString(fmt.Sprintf("Rows: %d\n", p.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(p.Cols)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range p.Cols {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", c.Name, c.Kind, c.NonNull, missPct))
		switch c.Kind {
		case "numeric":
			b.WriteString(fmt.Sprintf(" — min %.4g, max %.4g, mean %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Std))
		case "categorical":
			b.WriteString(" — top: ")
			for i, kv := range c.TopValues {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(fmt.Sprintf("%s(%d)", kv.Value, kv.Count))
			}
			if c.Unique > len(c.TopValues) {
				b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
			}
		}
		b.WriteString("\n")
	}
	if len(p.Samples) > 0 {
		b.WriteString("\n[HEAD]\n| ")
		for i, c := range p.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(c.Name)
		}
		b.WriteString(" |\n|")
		for range p.Cols {
			b.WriteString(" --- |")
		}
		b.WriteString("\n")
		for _, row := range p.Samples {
			b.WriteString("| ")
			for i := range p.Cols {
				if i > 0 {
					b.WriteString(" | ")
				}
				b.WriteString(strings.ReplaceAll(row[i], "|", "/"))
			}
			b.WriteString(" |\n")
		}
	}
	return b.String()
}
