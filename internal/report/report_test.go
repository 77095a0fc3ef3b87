package report

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/KaramelBytes/salescope/internal/aggregate"
	"github.com/KaramelBytes/salescope/internal/chart"
	"github.com/KaramelBytes/salescope/internal/dataset"
	"github.com/KaramelBytes/salescope/internal/format"
	"github.com/KaramelBytes/salescope/internal/model"
	"github.com/KaramelBytes/salescope/internal/narrative"
)

var salesHeader = []string{"City", "Customer type", "Gender", "Product line", "Total", "Date"}

func salesTable(t *testing.T, records [][]string) *dataset.Table {
	t.Helper()
	cols := dataset.DefaultSalesColumns()
	raw := &dataset.Raw{Name: "sales.csv", Header: salesHeader, Records: records}
	tbl, _, err := raw.Table(cols.Schema(), dataset.Strict, dataset.Options{})
	require.NoError(t, err)
	return tbl
}

func fixture(t *testing.T) *dataset.Table {
	return salesTable(t, [][]string{
		{"Yangon", "Member", "Female", "Health and beauty", "548.9715", "1/5/2019"},
		{"Naypyitaw", "Normal", "Female", "Electronic accessories", "80.22", "3/8/2019"},
		{"Yangon", "Normal", "Male", "Home and lifestyle", "340.5255", "3/3/2019"},
		{"Yangon", "Member", "Male", "Health and beauty", "489.048", "1/27/2019"},
		{"Mandalay", "Normal", "Male", "Sports and travel", "634.3785", "2/8/2019"},
		{"Mandalay", "Member", "Female", "Electronic accessories", "1020.5", "2/20/2019"},
		{"Naypyitaw", "Member", "Male", "Health and beauty", "2100.5", "1/12/2019"},
	})
}

func newReporter(buf *bytes.Buffer, sink chart.Sink) *Reporter {
	r := New(buf, dataset.DefaultSalesColumns(), format.New('.'))
	r.Charts = sink
	return r
}

func TestThreeRowScenario(t *testing.T) {
	tbl := salesTable(t, [][]string{
		{"A", "Member", "Male", "x", "100", "1/1/2019"},
		{"A", "Normal", "Male", "x", "50", "1/2/2019"},
		{"B", "Member", "Male", "x", "25", "1/3/2019"},
	})
	var buf bytes.Buffer
	r := newReporter(&buf, chart.Discard{})
	p, _ := Lookup("city-customer")
	o, err := r.RunPass(tbl, p)
	require.NoError(t, err)
	assert.Len(t, o.Rows, 3)
	out := buf.String()
	assert.Contains(t, out, "Sales by city and customer type:\nA (Member): 100\nA (Normal): 50\nB (Member): 25\n")
	assert.True(t, strings.HasSuffix(out, rule+"\n"))
}

func TestRunAllPasses(t *testing.T) {
	tbl := fixture(t)
	var buf bytes.Buffer
	mem := &chart.Memory{}
	r := newReporter(&buf, mem)

	outcomes, err := r.Run(context.Background(), tbl, Passes)
	require.NoError(t, err)
	require.Len(t, outcomes, len(Passes))

	amounts, _ := tbl.Numeric("Total")
	var sum float64
	for _, a := range amounts {
		sum += a
	}
	for _, o := range outcomes {
		assert.InDelta(t, sum, aggregate.Total(o.Rows), 1e-9, o.Pass.ID)
		assert.NotEmpty(t, o.Charts, o.Pass.ID)
	}

	// product is sorted by descending total.
	product := outcomes[3]
	for i := 1; i < len(product.Rows); i++ {
		assert.GreaterOrEqual(t, product.Rows[i-1].Total, product.Rows[i].Total)
	}

	// one chart per product line in the fan-out pass.
	fan := outcomes[6]
	assert.Len(t, fan.Charts, 4)
	assert.Equal(t, "city-gender-product-electronic-accessories", fan.Charts[0].Name)
	assert.Equal(t, "Sales by City and Gender - Product Line: Electronic accessories", fan.Charts[0].Title)

	monthly := outcomes[7]
	var months []string
	for _, row := range monthly.Rows {
		months = append(months, row.Keys[0])
	}
	assert.Equal(t, []string{"2019-01", "2019-02", "2019-03"}, months)
	assert.Equal(t, chart.Line, mem.Charts[len(mem.Charts)-1].Kind)

	_, err = tbl.Categorical(MonthField)
	assert.ErrorIs(t, err, dataset.ErrMissingField)

	out := buf.String()
	assert.Contains(t, out, "Naypyitaw (Male, Health and beauty): 2.100")
	assert.Contains(t, out, "Sales by month:\n2019-01: 3.139\n")
}

func TestChartsCarryHueAndFormat(t *testing.T) {
	var buf bytes.Buffer
	mem := &chart.Memory{}
	r := newReporter(&buf, mem)
	p, _ := Lookup("city-customer")
	_, err := r.RunPass(fixture(t), p)
	require.NoError(t, err)
	require.Len(t, mem.Charts, 1)
	c := mem.Charts[0]
	assert.Equal(t, "Customer type", c.LegendTitle)
	assert.True(t, c.Horizontal)
	assert.Equal(t, []string{"Mandalay", "Naypyitaw", "Yangon"}, c.Categories)
	require.Len(t, c.Series, 2)
	assert.Equal(t, "1.021", c.Label(1020.6))
}

func TestSelect(t *testing.T) {
	all, err := Select(nil)
	require.NoError(t, err)
	assert.Len(t, all, 8)

	some, err := Select([]string{"monthly", "city"})
	require.NoError(t, err)
	require.Len(t, some, 2)
	assert.Equal(t, "city", some[0].ID)

	_, err = Select([]string{"regions"})
	assert.Error(t, err)
}

func TestNarrativeAndCancel(t *testing.T) {
	var buf bytes.Buffer
	r := newReporter(&buf, chart.Discard{})
	nr, err := narrative.NewRenderer("plain", 80)
	require.NoError(t, err)
	r.Narrative = nr
	p, _ := Lookup("customer")
	_, err = r.RunPass(fixture(t), p)
	require.NoError(t, err)
	want, _ := narrative.Text("customer")
	assert.Contains(t, buf.String(), strings.TrimSpace(want))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Run(ctx, fixture(t), Passes)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEmptyTable(t *testing.T) {
	var buf bytes.Buffer
	mem := &chart.Memory{}
	r := newReporter(&buf, mem)
	outcomes, err := r.Run(context.Background(), salesTable(t, nil), Passes)
	require.NoError(t, err)
	for _, o := range outcomes {
		assert.Empty(t, o.Rows)
	}
	assert.Empty(t, mem.Charts)
}

func TestTrend(t *testing.T) {
	var buf bytes.Buffer
	r := newReporter(&buf, chart.Discard{})
	monthly := Outcome{Rows: []aggregate.Row{
		{Keys: []string{"2019-01"}, Total: 1000},
		{Keys: []string{"2019-02"}, Total: 1500},
		{Keys: []string{"2019-03"}, Total: 2000},
	}}
	res, err := r.Trend(monthly, 0.2, 42)
	require.NoError(t, err)
	assert.Len(t, res.Test, 1)
	assert.Contains(t, buf.String(), "Mean Squared Error: 0\n")
}

func TestTrend_TwoMonths(t *testing.T) {
	var buf bytes.Buffer
	r := newReporter(&buf, chart.Discard{})
	monthly := Outcome{Rows: []aggregate.Row{
		{Keys: []string{"2019-01"}, Total: 1000},
		{Keys: []string{"2019-02"}, Total: 1600},
	}}
	res, err := r.Trend(monthly, 0.2, 42)
	require.NoError(t, err)
	assert.Zero(t, res.Model.Beta)
	assert.Contains(t, buf.String(), "Mean Squared Error: 360.000\n")
}

func TestClassify(t *testing.T) {
	n := 80
	x := mat.NewDense(n, 2, nil)
	y := make([]string, n)
	for i := 0; i < n; i++ {
		v := float64(i - n/2)
		x.Set(i, 0, v)
		x.Set(i, 1, float64(i%7))
		y[i] = "good"
		if v < 0 {
			y[i] = "bad"
		}
	}
	var buf bytes.Buffer
	mem := &chart.Memory{}
	r := newReporter(&buf, mem)
	res, err := r.Classify(x, y, model.ClassifierOptions{Trees: 10, Seed: 42, TestSize: 0.3})
	require.NoError(t, err)
	assert.Equal(t, 24, res.Eval.TestRows)
	require.Len(t, mem.Charts, 1)
	assert.Equal(t, chart.HeatMap, mem.Charts[0].Kind)
	assert.Equal(t, []string{"Bad", "Good"}, mem.Charts[0].Categories)

	out := buf.String()
	assert.Contains(t, out, "precision")
	assert.Contains(t, out, "actual \\ predicted")
}

func TestTitleCase(t *testing.T) {
	for _, tc := range [][2]string{
		{"", ""},
		{"good", "Good"},
		{"bad", "Bad"},
		{"élite", "Élite"},
		{"ñame", "Ñame"},
	} {
		assert.Equal(t, tc[1], titleCase(tc[0]), tc[0])
	}
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "health-and-beauty", slug("Health and beauty"))
	assert.Equal(t, "food-beverages", slug("Food & Beverages"))
}
