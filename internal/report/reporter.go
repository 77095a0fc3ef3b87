// Package report drives the fixed sequence of sales report passes and the
// model evaluations, printing each section and handing charts to a sink.
package report

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/KaramelBytes/salescope/internal/aggregate"
	"github.com/KaramelBytes/salescope/internal/chart"
	"github.com/KaramelBytes/salescope/internal/dataset"
	"github.com/KaramelBytes/salescope/internal/format"
	"github.com/KaramelBytes/salescope/internal/model"
	"github.com/KaramelBytes/salescope/internal/narrative"
)

const rule = "----------------------------------------"

// Reporter prints report sections to Out.
type Reporter struct {
	Out     io.Writer
	Columns dataset.SalesColumns
	Format  format.Formatter
	Charts  chart.Sink
	// Narrative is nil when commentary is disabled.
	Narrative *narrative.Renderer
	Log       *zap.Logger
	Styles    Styles
}

// New returns a reporter with a discarding chart sink and no narrative.
func New(out io.Writer, cols dataset.SalesColumns, f format.Formatter) *Reporter {
	return &Reporter{
		Out:     out,
		Columns: cols,
		Format:  f,
		Charts:  chart.Discard{},
		Log:     zap.NewNop(),
		Styles:  NewStyles(out),
	}
}

// ChartRef is a rendered chart.
type ChartRef struct {
	Name  string
	Title string
	Path  string
}

// Outcome is the result of one pass.
type Outcome struct {
	Pass    Pass
	Headers []string
	Rows    []aggregate.Row
	Charts  []ChartRef
}

// Run executes passes in order over the sales table. The month column is
// derived once when a selected pass needs it; t is not modified.
func (r *Reporter) Run(ctx context.Context, t *dataset.Table, passes []Pass) ([]Outcome, error) {
	for _, p := range passes {
		if p.needsMonth() {
			withMonth, err := t.WithMonth(r.Columns.Date, MonthField)
			if err != nil {
				return nil, fmt.Errorf("derive month: %w", err)
			}
			t = withMonth
			break
		}
	}
	out := make([]Outcome, 0, len(passes))
	for _, p := range passes {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		o, err := r.RunPass(t, p)
		if err != nil {
			return out, fmt.Errorf("pass %s: %w", p.ID, err)
		}
		out = append(out, o)
	}
	return out, nil
}

// RunPass aggregates, prints, charts and annotates one pass.
func (r *Reporter) RunPass(t *dataset.Table, p Pass) (Outcome, error) {
	headers := p.KeyHeaders(r.Columns)
	rows, err := aggregate.GroupSum(t, headers, r.Columns.Amount)
	if err != nil {
		return Outcome{}, err
	}
	if p.SortDesc {
		aggregate.SortDesc(rows)
	}
	r.Log.Debug("pass aggregated", zap.String("pass", p.ID), zap.Strings("keys", headers), zap.Int("groups", len(rows)))

	fmt.Fprintln(r.Out, r.Styles.Heading.Render(p.Heading+":"))
	if err := r.Format.WriteRows(r.Out, rows); err != nil {
		return Outcome{}, err
	}
	o := Outcome{Pass: p, Headers: headers, Rows: rows}
	if len(rows) == 0 {
		r.Log.Warn("pass has no rows", zap.String("pass", p.ID))
	} else if o.Charts, err = r.charts(p, headers, rows); err != nil {
		return Outcome{}, err
	}
	if err := r.narrate(p.Narrative); err != nil {
		return Outcome{}, err
	}
	fmt.Fprintln(r.Out, r.Styles.Rule.Render(rule))
	return o, nil
}

func (r *Reporter) charts(p Pass, headers []string, rows []aggregate.Row) ([]ChartRef, error) {
	base := r.baseChart(p, headers)
	if p.FanOut < 0 {
		ref, err := r.render(base, rows, p)
		if err != nil {
			return nil, err
		}
		return []ChartRef{ref}, nil
	}
	parts, err := aggregate.Split(rows, p.FanOut)
	if err != nil {
		return nil, err
	}
	refs := make([]ChartRef, 0, len(parts))
	for _, part := range parts {
		c := base.WithSuffix(slug(part.Value)).WithTitle(fmt.Sprintf(p.ChartTitle, part.Value))
		ref, err := r.render(c, part.Rows, p)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func (r *Reporter) baseChart(p Pass, headers []string) chart.Chart {
	if p.Line {
		return chart.NewLine(p.ID).
			WithTitle(p.ChartTitle).
			WithAxes(p.AxisLabel, p.ValueLabel).
			WithAnnotations(true).
			WithFormat(r.Format.Tick)
	}
	c := chart.NewBar(p.ID).
		WithTitle(p.ChartTitle).
		WithAxes(p.ValueLabel, p.AxisLabel).
		WithHorizontal(true).
		WithAnnotations(true).
		WithFormat(r.Format.Tick)
	if p.Hue >= 0 {
		c = c.WithLegend(headers[p.Hue])
	}
	return c
}

func (r *Reporter) render(c chart.Chart, rows []aggregate.Row, p Pass) (ChartRef, error) {
	cats, series := chart.Pivot(rows, 0, p.Hue)
	c = c.WithData(cats, series...)
	path, err := r.Charts.Render(c)
	if err != nil {
		return ChartRef{}, err
	}
	return ChartRef{Name: c.Name, Title: c.Title, Path: path}, nil
}

func (r *Reporter) narrate(id string) error {
	if r.Narrative == nil || id == "" {
		return nil
	}
	text, err := r.Narrative.Render(id)
	if err != nil {
		return err
	}
	fmt.Fprintln(r.Out)
	fmt.Fprintln(r.Out, strings.TrimRight(text, "\n"))
	return nil
}

// Trend regresses the monthly totals on their YYYYMM value and prints the
// test mean squared error.
func (r *Reporter) Trend(monthly Outcome, testSize float64, seed uint64) (*model.TrendResult, error) {
	x := make([]float64, len(monthly.Rows))
	y := make([]float64, len(monthly.Rows))
	for i, row := range monthly.Rows {
		m, err := dataset.ParseMonth(row.Keys[0])
		if err != nil {
			return nil, err
		}
		x[i] = float64(m.Numeric())
		y[i] = row.Total
	}
	res, err := model.Trend(x, y, testSize, seed)
	if err != nil {
		return nil, fmt.Errorf("trend: %w", err)
	}
	r.Log.Debug("trend fitted", zap.Float64("alpha", res.Model.Alpha), zap.Float64("beta", res.Model.Beta), zap.Ints("test", res.Test))
	fmt.Fprintf(r.Out, "\nMean Squared Error: %s\n", r.Format.Amount(res.MSE))
	if err := r.narrate("trend"); err != nil {
		return nil, err
	}
	fmt.Fprintln(r.Out, r.Styles.Rule.Render(rule))
	return res, nil
}

// Classification is the classifier section result.
type Classification struct {
	Eval  *model.Evaluation
	Chart ChartRef
}

// Classify evaluates the random forest on the quality features, prints the
// report and confusion matrix and renders the heat map.
func (r *Reporter) Classify(x mat.Matrix, y []string, opt model.ClassifierOptions) (*Classification, error) {
	ev, err := model.Classify(x, y, opt)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}
	r.Log.Debug("classifier evaluated", zap.Int("train", ev.TrainRows), zap.Int("test", ev.TestRows), zap.Float64("accuracy", ev.Report.Accuracy))

	fmt.Fprintln(r.Out, r.Styles.Heading.Render("Fruit quality classification:"))
	fmt.Fprintln(r.Out, ev.Report.String())

	conf := ev.Confusion
	labels := make([]string, len(conf.Classes))
	rows := make([][]string, len(conf.Classes))
	for i, cls := range conf.Classes {
		labels[i] = titleCase(cls)
		rows[i] = []string{labels[i]}
		for _, n := range conf.Counts[i] {
			rows[i] = append(rows[i], fmt.Sprint(n))
		}
	}
	fmt.Fprintln(r.Out, r.Styles.Matrix(append([]string{"actual \\ predicted"}, labels...), rows))

	heat := chart.NewHeatMap("confusion", labels, labels, conf.Cells()).
		WithTitle("Confusion Matrix").
		WithAxes("Predicted", "Actual").
		WithFormat(func(v float64) string { return fmt.Sprintf("%d", int64(v)) })
	path, err := r.Charts.Render(heat)
	if err != nil {
		return nil, err
	}
	if err := r.narrate("classifier"); err != nil {
		return nil, err
	}
	fmt.Fprintln(r.Out, r.Styles.Rule.Render(rule))
	return &Classification{Eval: ev, Chart: ChartRef{Name: heat.Name, Title: heat.Title, Path: path}}, nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	r, n := utf8.DecodeRuneInString(s)
	return string(unicode.ToTitle(r)) + s[n:]
}

// slug turns a category value into a file name fragment.
func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, c := range strings.ToLower(s) {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteRune(c)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
