package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	cfgpkg "github.com/KaramelBytes/salescope/internal/config"
	"github.com/KaramelBytes/salescope/internal/chart"
	"github.com/KaramelBytes/salescope/internal/dataset"
	"github.com/KaramelBytes/salescope/internal/export"
	"github.com/KaramelBytes/salescope/internal/format"
	"github.com/KaramelBytes/salescope/internal/model"
	"github.com/KaramelBytes/salescope/internal/narrative"
	"github.com/KaramelBytes/salescope/internal/project"
	"github.com/KaramelBytes/salescope/internal/report"
	"go.uber.org/zap"
)

// session wires the configured components for one command run.
type session struct {
	cfg *cfgpkg.Global
	rep *report.Reporter
	run *project.Run
	wb  *export.Workbook
	out io.Writer
}

func salesColumns(c *cfgpkg.Global) dataset.SalesColumns {
	return dataset.SalesColumns{
		Region:     c.Columns.Region,
		Segment:    c.Columns.Segment,
		Category:   c.Columns.Category,
		Gender:     c.Columns.Gender,
		Amount:     c.Columns.Amount,
		Date:       c.Columns.Date,
		DateLayout: c.Columns.DateLayout,
	}
}

func readOptions(c *cfgpkg.Global) dataset.Options {
	return dataset.Options{Delimiter: c.DelimiterRune()}
}

func newSession(command string, out io.Writer) (*session, error) {
	c, err := requireConfig()
	if err != nil {
		return nil, err
	}
	rep := report.New(out, salesColumns(c), format.New(c.Separator()))
	rep.Log = log
	if c.Charts {
		rep.Charts = chart.NewFileSink(filepath.Join(c.OutputDir, "charts"), c.ChartFormat, log)
	}
	if c.Narrative {
		nr, err := narrative.NewRenderer(c.NarrativeStyle, c.NarrativeWidth)
		if err != nil {
			return nil, err
		}
		rep.Narrative = nr
	}
	s := &session{cfg: c, rep: rep, run: project.NewRun(command, c.OutputDir), out: out}
	if c.ExportXLSX != "" {
		if s.wb, err = export.New(); err != nil {
			return nil, err
		}
	}
	log.Debug("session started", zap.String("command", command), zap.String("run", s.run.ID), zap.String("output", c.OutputDir))
	return s, nil
}

// salesReport loads the sales table and runs the selected passes. When the
// monthly pass is among them the trend regression follows it.
func (s *session) salesReport(ctx context.Context, ids []string) error {
	passes, err := report.Select(ids)
	if err != nil {
		return err
	}
	tbl, err := dataset.LoadSales(s.cfg.SalesPath, salesColumns(s.cfg), readOptions(s.cfg))
	if err != nil {
		return fmt.Errorf("load sales: %w", err)
	}
	s.run.AddInput(project.Input{Role: "sales", Path: s.cfg.SalesPath, Rows: tbl.Len(), Kept: tbl.Len()})
	log.Debug("sales loaded", zap.String("path", s.cfg.SalesPath), zap.Int("rows", tbl.Len()))

	outcomes, err := s.rep.Run(ctx, tbl, passes)
	if err != nil {
		return err
	}
	for _, o := range outcomes {
		s.recordCharts(o.Pass.ID, o.Charts)
		if s.wb != nil {
			if err := s.wb.AddRows(o.Pass.ID, o.Headers, o.Rows); err != nil {
				return fmt.Errorf("export %s: %w", o.Pass.ID, err)
			}
		}
		if o.Pass.ID != "monthly" || len(o.Rows) == 0 {
			continue
		}
		if len(o.Rows) < 2 {
			log.Warn("trend skipped: need at least two months", zap.Int("months", len(o.Rows)))
			continue
		}
		if _, err := s.rep.Trend(o, s.cfg.Model.RegressionTestSize, s.cfg.Model.Seed); err != nil {
			return err
		}
	}
	return nil
}

// classify loads the quality table, drops unusable rows and evaluates the forest.
func (s *session) classify(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	spec := dataset.QualitySpec{
		Label:    s.cfg.Quality.Label,
		Features: s.cfg.Quality.Features,
		Exclude:  s.cfg.Quality.Exclude,
	}
	tbl, stats, err := dataset.LoadQuality(s.cfg.QualityPath, spec, readOptions(s.cfg))
	if err != nil {
		return fmt.Errorf("load quality: %w", err)
	}
	s.run.AddInput(project.Input{Role: "quality", Path: s.cfg.QualityPath, Rows: stats.Rows, Kept: stats.Kept, Dropped: stats.Dropped})
	if stats.Dropped > 0 {
		log.Debug("quality rows dropped", zap.Int("dropped", stats.Dropped), zap.Any("by_field", stats.DroppedBy))
	}
	features := spec.FeatureNames(tbl.Schema())
	x, err := model.Matrix(tbl, features)
	if err != nil {
		return err
	}
	y, err := tbl.Categorical(spec.Label)
	if err != nil {
		return err
	}
	res, err := s.rep.Classify(x, y, model.ClassifierOptions{
		Trees:    s.cfg.Model.Trees,
		MaxDepth: s.cfg.Model.MaxDepth,
		Seed:     s.cfg.Model.Seed,
		TestSize: s.cfg.Model.TestSize,
	})
	if err != nil {
		return err
	}
	s.recordCharts("classifier", []report.ChartRef{res.Chart})
	if s.wb != nil {
		if err := s.wb.AddConfusion("confusion", res.Eval.Confusion); err != nil {
			return fmt.Errorf("export confusion: %w", err)
		}
	}
	return nil
}

func (s *session) recordCharts(pass string, refs []report.ChartRef) {
	for _, ref := range refs {
		if ref.Path == "" {
			continue
		}
		s.run.AddArtifact(project.KindChart, pass, ref.Path, ref.Title)
	}
}

// finish saves the workbook and the run manifest.
func (s *session) finish() error {
	if s.wb != nil {
		defer s.wb.Close()
		if err := s.wb.Save(s.cfg.ExportXLSX); err != nil {
			return err
		}
		s.run.AddArtifact(project.KindWorkbook, "", s.cfg.ExportXLSX, "")
	}
	if err := s.run.Save(); err != nil {
		return fmt.Errorf("save manifest: %w", err)
	}
	fmt.Fprintf(s.out, "✓ Run %s: %d artifact(s) in %s\n", s.run.ID, len(s.run.Artifacts), s.cfg.OutputDir)
	return nil
}
