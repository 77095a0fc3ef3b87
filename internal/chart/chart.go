// Package chart describes report charts as plain values and renders them
// through a Sink. A Chart carries everything needed to draw it; there is no
// shared drawing state between charts.
package chart

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/KaramelBytes/salescope/internal/aggregate"
)

// Kind selects the chart type.
type Kind int

const (
	Bar Kind = iota
	Line
	HeatMap
)

func (k Kind) String() string {
	switch k {
	case Bar:
		return "bar"
	case Line:
		return "line"
	case HeatMap:
		return "heatmap"
	}
	return "unknown"
}

// ErrInvalid is returned by Validate for charts that cannot be drawn.
var ErrInvalid = errors.New("invalid chart")

// Series is one hue level: a value per category.
type Series struct {
	Name   string
	Values []float64
}

// Chart is an immutable chart description. The With* methods return modified copies.
type Chart struct {
	Name        string
	Kind        Kind
	Title       string
	XLabel      string
	YLabel      string
	LegendTitle string
	// Horizontal bars put categories on the Y axis.
	Horizontal bool
	Categories []string
	Series     []Series
	// Annotate draws the formatted value next to every bar or point.
	Annotate bool
	// Cells is the heat map matrix, Cells[row][col], labelled by Categories
	// (rows) and Columns.
	Cells   [][]float64
	Columns []string
	// Format renders values on the value axis and in annotations.
	Format func(float64) string
}

// NewBar starts a bar chart; name becomes the file stem.
func NewBar(name string) Chart {
	return Chart{Name: name, Kind: Bar}
}

// NewLine starts a line chart with point markers.
func NewLine(name string) Chart {
	return Chart{Name: name, Kind: Line}
}

// NewHeatMap starts an annotated heat map over a rows x cols matrix.
func NewHeatMap(name string, rows, cols []string, cells [][]float64) Chart {
	return Chart{Name: name, Kind: HeatMap, Categories: rows, Columns: cols, Cells: cells, Annotate: true}
}

func (c Chart) WithTitle(title string) Chart { c.Title = title; return c }

func (c Chart) WithAxes(x, y string) Chart { c.XLabel, c.YLabel = x, y; return c }

func (c Chart) WithLegend(title string) Chart { c.LegendTitle = title; return c }

func (c Chart) WithHorizontal(h bool) Chart { c.Horizontal = h; return c }

func (c Chart) WithAnnotations(on bool) Chart { c.Annotate = on; return c }

func (c Chart) WithFormat(f func(float64) string) Chart { c.Format = f; return c }

// WithData sets categories and series. The slices are copied.
func (c Chart) WithData(categories []string, series ...Series) Chart {
	c.Categories = append([]string(nil), categories...)
	c.Series = make([]Series, len(series))
	for i, s := range series {
		c.Series[i] = Series{Name: s.Name, Values: append([]float64(nil), s.Values...)}
	}
	return c
}

// WithSuffix appends "-suffix" to the chart name.
func (c Chart) WithSuffix(suffix string) Chart {
	if suffix != "" {
		c.Name = c.Name + "-" + suffix
	}
	return c
}

// Label formats v with the chart's formatter.
func (c Chart) Label(v float64) string {
	if c.Format != nil {
		return c.Format(v)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Validate reports whether the chart is drawable.
func (c Chart) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalid)
	}
	switch c.Kind {
	case Bar, Line:
		if len(c.Categories) == 0 {
			return fmt.Errorf("%w: %s has no categories", ErrInvalid, c.Name)
		}
		if len(c.Series) == 0 {
			return fmt.Errorf("%w: %s has no series", ErrInvalid, c.Name)
		}
		for _, s := range c.Series {
			if len(s.Values) != len(c.Categories) {
				return fmt.Errorf("%w: %s series %q has %d values for %d categories", ErrInvalid, c.Name, s.Name, len(s.Values), len(c.Categories))
			}
		}
	case HeatMap:
		if len(c.Cells) == 0 || len(c.Cells) != len(c.Categories) {
			return fmt.Errorf("%w: %s has %d rows for %d labels", ErrInvalid, c.Name, len(c.Cells), len(c.Categories))
		}
		for _, row := range c.Cells {
			if len(row) != len(c.Columns) {
				return fmt.Errorf("%w: %s row width %d, want %d", ErrInvalid, c.Name, len(row), len(c.Columns))
			}
		}
	default:
		return fmt.Errorf("%w: unknown kind %d", ErrInvalid, c.Kind)
	}
	return nil
}

// Pivot lays out aggregation rows for a chart: the key at catIdx becomes the
// category axis and the key at hueIdx (or none when hueIdx < 0) the series.
// Categories and hue levels keep their first-seen order. Combinations that
// do not occur are zero.
func Pivot(rows []aggregate.Row, catIdx, hueIdx int) ([]string, []Series) {
	cats := aggregate.Values(rows, catIdx)
	if hueIdx < 0 {
		vals := make([]float64, len(cats))
		pos := index(cats)
		for _, r := range rows {
			vals[pos[r.Keys[catIdx]]] += r.Total
		}
		return cats, []Series{{Values: vals}}
	}
	hues := aggregate.Values(rows, hueIdx)
	catPos, huePos := index(cats), index(hues)
	series := make([]Series, len(hues))
	for i, h := range hues {
		series[i] = Series{Name: h, Values: make([]float64, len(cats))}
	}
	for _, r := range rows {
		series[huePos[r.Keys[hueIdx]]].Values[catPos[r.Keys[catIdx]]] += r.Total
	}
	return cats, series
}

func index(vals []string) map[string]int {
	m := make(map[string]int, len(vals))
	for i, v := range vals {
		m[v] = i
	}
	return m
}
