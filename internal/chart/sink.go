package chart

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Sink consumes finished charts. Render returns the artifact path, or "" when
// nothing was written.
type Sink interface {
	Render(c Chart) (string, error)
}

// Discard drops every chart after validating it.
type Discard struct{}

func (Discard) Render(c Chart) (string, error) { return "", c.Validate() }

// Memory keeps rendered charts in order.
type Memory struct {
	Charts []Chart
}

func (m *Memory) Render(c Chart) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	m.Charts = append(m.Charts, c)
	return c.Name, nil
}

// FileSink draws charts with gonum/plot into Dir. The file extension (png,
// svg, pdf) selects the output format.
type FileSink struct {
	Dir    string
	Format string
	Width  vg.Length
	Height vg.Length
	Log    *zap.Logger
}

// NewFileSink returns a sink writing 10x6 inch charts.
func NewFileSink(dir, format string, log *zap.Logger) *FileSink {
	if format == "" {
		format = "png"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &FileSink{Dir: dir, Format: format, Width: 10 * vg.Inch, Height: 6 * vg.Inch, Log: log}
}

func (s *FileSink) Render(c Chart) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	var (
		p   *plot.Plot
		err error
	)
	switch c.Kind {
	case Bar:
		p, err = drawBar(c)
	case Line:
		p, err = drawLine(c)
	case HeatMap:
		p, err = drawHeatMap(c)
	}
	if err != nil {
		return "", fmt.Errorf("draw %s: %w", c.Name, err)
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create chart dir: %w", err)
	}
	path := filepath.Join(s.Dir, c.Name+"."+s.Format)
	if err := p.Save(s.Width, s.Height, path); err != nil {
		return "", fmt.Errorf("save chart %s: %w", path, err)
	}
	s.Log.Debug("chart written", zap.String("chart", c.Name), zap.String("kind", c.Kind.String()), zap.String("path", path))
	return path, nil
}

func newPlot(c Chart) *plot.Plot {
	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel
	return p
}

// ticker labels the major ticks of the default ticker with the chart's formatter.
func ticker(c Chart) plot.Ticker {
	return plot.TickerFunc(func(min, max float64) []plot.Tick {
		ticks := plot.DefaultTicks{}.Ticks(min, max)
		for i := range ticks {
			if ticks[i].Label != "" {
				ticks[i].Label = c.Label(ticks[i].Value)
			}
		}
		return ticks
	})
}

func drawBar(c Chart) (*plot.Plot, error) {
	p := newPlot(c)
	n := len(c.Series)
	slot := 0.8 / float64(n)
	width := vg.Points(40 / float64(n))
	if c.LegendTitle != "" {
		p.Legend.Add(c.LegendTitle)
	}
	p.Legend.Top = true

	var xys plotter.XYs
	var labels []string
	for i, s := range c.Series {
		bars, err := plotter.NewBarChart(plotter.Values(s.Values), width)
		if err != nil {
			return nil, err
		}
		bars.Horizontal = c.Horizontal
		bars.Color = plotutil.Color(i)
		bars.LineStyle.Width = 0
		shift := float64(i) - float64(n-1)/2
		bars.Offset = vg.Length(shift) * width
		p.Add(bars)
		if n > 1 || s.Name != "" {
			p.Legend.Add(s.Name, bars)
		}
		if !c.Annotate {
			continue
		}
		for j, v := range s.Values {
			pos := float64(j) + shift*slot
			if c.Horizontal {
				xys = append(xys, plotter.XY{X: v, Y: pos})
			} else {
				xys = append(xys, plotter.XY{X: pos, Y: v})
			}
			labels = append(labels, c.Label(v))
		}
	}
	if c.Horizontal {
		p.NominalY(c.Categories...)
		p.X.Tick.Marker = ticker(c)
		p.X.Min = 0
	} else {
		p.NominalX(c.Categories...)
		p.Y.Tick.Marker = ticker(c)
		p.Y.Min = 0
	}
	if len(xys) > 0 {
		l, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
		if err != nil {
			return nil, err
		}
		p.Add(l)
	}
	return p, nil
}

func drawLine(c Chart) (*plot.Plot, error) {
	p := newPlot(c)
	p.Add(plotter.NewGrid())
	for i, s := range c.Series {
		xys := make(plotter.XYs, len(s.Values))
		labels := make([]string, len(s.Values))
		for j, v := range s.Values {
			xys[j] = plotter.XY{X: float64(j), Y: v}
			labels[j] = c.Label(v)
		}
		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return nil, err
		}
		line.Color = plotutil.Color(i)
		points.Color = plotutil.Color(i)
		points.Shape = plotutil.Shape(i)
		p.Add(line, points)
		if s.Name != "" {
			p.Legend.Add(s.Name, line, points)
		}
		if c.Annotate {
			l, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
			if err != nil {
				return nil, err
			}
			p.Add(l)
		}
	}
	p.NominalX(c.Categories...)
	p.Y.Tick.Marker = ticker(c)
	return p, nil
}

// cellGrid adapts a row-major matrix to plotter.GridXYZ with row 0 drawn on top.
type cellGrid [][]float64

func (g cellGrid) Dims() (c, r int)   { return len(g[0]), len(g) }
func (g cellGrid) Z(c, r int) float64 { return g[r][c] }
func (g cellGrid) X(c int) float64    { return float64(c) }
func (g cellGrid) Y(r int) float64    { return float64(len(g) - 1 - r) }

func drawHeatMap(c Chart) (*plot.Plot, error) {
	p := newPlot(c)
	grid := cellGrid(c.Cells)
	hm := plotter.NewHeatMap(grid, palette.Heat(12, 1))
	if hm.Min == hm.Max {
		hm.Max = hm.Min + 1
	}
	p.Add(hm)

	rows := make([]string, len(c.Categories))
	for i, name := range c.Categories {
		rows[len(rows)-1-i] = name
	}
	p.NominalX(c.Columns...)
	p.NominalY(rows...)

	if c.Annotate {
		var xys plotter.XYs
		var labels []string
		for r, row := range c.Cells {
			for col, v := range row {
				xys = append(xys, plotter.XY{X: float64(col), Y: grid.Y(r)})
				labels = append(labels, c.Label(v))
			}
		}
		l, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
		if err != nil {
			return nil, err
		}
		for i := range l.TextStyle {
			l.TextStyle[i].Color = color.Black
		}
		p.Add(l)
	}
	return p, nil
}
