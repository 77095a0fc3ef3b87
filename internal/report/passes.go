package report

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/salescope/internal/dataset"
)

// Role names a sales column by its meaning; the header it maps to is configurable.
type Role int

const (
	Region Role = iota
	Segment
	Category
	Gender
	Month
)

// MonthField is the name of the derived month column.
const MonthField = "Month"

// Header resolves a role to the column name in cols.
func (r Role) Header(cols dataset.SalesColumns) string {
	switch r {
	case Region:
		return cols.Region
	case Segment:
		return cols.Segment
	case Category:
		return cols.Category
	case Gender:
		return cols.Gender
	case Month:
		return MonthField
	}
	return ""
}

// Pass is one fixed report section.
type Pass struct {
	ID      string
	Heading string
	Keys    []Role
	// SortDesc orders rows by descending total instead of by key.
	SortDesc bool
	// Hue is the key index drawn as series, -1 for a single series.
	Hue int
	// FanOut is the key index producing one chart per value, -1 for one chart.
	FanOut     int
	Line       bool
	ChartTitle string
	ValueLabel string
	AxisLabel  string
	Narrative  string
}

// Passes is the report in execution order.
var Passes = []Pass{
	{
		ID: "city-customer", Heading: "Sales by city and customer type",
		Keys: []Role{Region, Segment}, Hue: 1, FanOut: -1,
		ChartTitle: "Sales by Customer Type and City", ValueLabel: "Total Sales", AxisLabel: "City",
	},
	{
		ID: "customer", Heading: "Total sales by customer type",
		Keys: []Role{Segment}, Hue: -1, FanOut: -1,
		ChartTitle: "Total Sales by Customer Type", ValueLabel: "Total Sales", AxisLabel: "Customer Type",
	},
	{
		ID: "city", Heading: "Total sales by city",
		Keys: []Role{Region}, Hue: -1, FanOut: -1,
		ChartTitle: "Total Sales by City", ValueLabel: "Total Sales", AxisLabel: "City",
	},
	{
		ID: "product", Heading: "Sales by product line",
		Keys: []Role{Category}, SortDesc: true, Hue: -1, FanOut: -1,
		ChartTitle: "Total Sales by Product Line", ValueLabel: "Total Sales", AxisLabel: "Product Line",
	},
	{
		ID: "product-gender", Heading: "Sales by product line and gender",
		Keys: []Role{Category, Gender}, Hue: 1, FanOut: -1,
		ChartTitle: "Sales by Product Line and Gender", ValueLabel: "Total Sales", AxisLabel: "Product Line",
	},
	{
		ID: "gender", Heading: "Sales by gender",
		Keys: []Role{Gender}, SortDesc: true, Hue: -1, FanOut: -1,
		ChartTitle: "Total Sales by Gender", ValueLabel: "Total Sales", AxisLabel: "Gender",
	},
	{
		ID: "city-gender-product", Heading: "Sales by city, gender and product line",
		Keys: []Role{Region, Gender, Category}, Hue: 1, FanOut: 2,
		ChartTitle: "Sales by City and Gender - Product Line: %s", ValueLabel: "Total Sales", AxisLabel: "City",
	},
	{
		ID: "monthly", Heading: "Sales by month",
		Keys: []Role{Month}, Hue: -1, FanOut: -1, Line: true,
		ChartTitle: "Monthly Sales Trend", ValueLabel: "Total Sales", AxisLabel: "Month",
	},
}

func init() {
	for i := range Passes {
		Passes[i].Narrative = Passes[i].ID
	}
}

// Lookup finds a pass by id.
func Lookup(id string) (Pass, bool) {
	for _, p := range Passes {
		if p.ID == id {
			return p, true
		}
	}
	return Pass{}, false
}

// Select resolves ids to passes in report order. No ids selects every pass.
func Select(ids []string) ([]Pass, error) {
	if len(ids) == 0 {
		return Passes, nil
	}
	want := map[string]bool{}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if _, ok := Lookup(id); !ok {
			return nil, fmt.Errorf("unknown pass %q (available: %s)", id, strings.Join(IDs(), ", "))
		}
		want[id] = true
	}
	var out []Pass
	for _, p := range Passes {
		if want[p.ID] {
			out = append(out, p)
		}
	}
	return out, nil
}

// IDs lists pass ids in report order.
func IDs() []string {
	ids := make([]string, len(Passes))
	for i, p := range Passes {
		ids[i] = p.ID
	}
	return ids
}

// KeyHeaders resolves the pass keys to column names.
func (p Pass) KeyHeaders(cols dataset.SalesColumns) []string {
	out := make([]string, len(p.Keys))
	for i, k := range p.Keys {
		out[i] = k.Header(cols)
	}
	return out
}

func (p Pass) needsMonth() bool {
	for _, k := range p.Keys {
		if k == Month {
			return true
		}
	}
	return false
}
