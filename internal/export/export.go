// Package export writes report results into an xlsx workbook, one sheet per
// report section.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/salescope/internal/aggregate"
	"github.com/KaramelBytes/salescope/internal/model"
)

// Workbook accumulates sheets until Save.
type Workbook struct {
	f      *excelize.File
	header int
	amount int
	sheets []string
}

// New creates an empty workbook.
func New() (*Workbook, error) {
	f := excelize.NewFile()
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	// 3 is the builtin "#,##0" format.
	amount, err := f.NewStyle(&excelize.Style{NumFmt: 3})
	if err != nil {
		return nil, fmt.Errorf("amount style: %w", err)
	}
	return &Workbook{f: f, header: header, amount: amount}, nil
}

// Sheets lists sheet names in the order they were added.
func (w *Workbook) Sheets() []string { return w.sheets }

func (w *Workbook) sheet(name string) error {
	if len(name) > 31 {
		name = name[:31]
	}
	if len(w.sheets) == 0 {
		if err := w.f.SetSheetName(w.f.GetSheetName(0), name); err != nil {
			return fmt.Errorf("rename sheet: %w", err)
		}
	} else if _, err := w.f.NewSheet(name); err != nil {
		return fmt.Errorf("add sheet %s: %w", name, err)
	}
	w.sheets = append(w.sheets, name)
	return nil
}

func (w *Workbook) headerRow(sheet string, cols []string) error {
	row := make([]interface{}, len(cols))
	for i, c := range cols {
		row[i] = c
	}
	if err := w.f.SetSheetRow(sheet, "A1", &row); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(cols), 1)
	if err != nil {
		return err
	}
	return w.f.SetCellStyle(sheet, "A1", last, w.header)
}

// AddRows writes aggregation rows under the given key headers, followed by
// Total and Rows columns.
func (w *Workbook) AddRows(name string, keys []string, rows []aggregate.Row) error {
	if err := w.sheet(name); err != nil {
		return err
	}
	sheet := w.sheets[len(w.sheets)-1]
	if err := w.headerRow(sheet, append(append([]string(nil), keys...), "Total", "Rows")); err != nil {
		return fmt.Errorf("%s header: %w", sheet, err)
	}
	for i, r := range rows {
		vals := make([]interface{}, 0, len(r.Keys)+2)
		for _, k := range r.Keys {
			vals = append(vals, k)
		}
		vals = append(vals, r.Total, r.Count)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := w.f.SetSheetRow(sheet, cell, &vals); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+2, err)
		}
	}
	if len(rows) > 0 {
		top, _ := excelize.CoordinatesToCellName(len(keys)+1, 2)
		bottom, _ := excelize.CoordinatesToCellName(len(keys)+1, len(rows)+1)
		if err := w.f.SetCellStyle(sheet, top, bottom, w.amount); err != nil {
			return err
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(keys))
	return w.f.SetColWidth(sheet, "A", lastCol, 24)
}

// AddConfusion writes the confusion matrix with true classes down the rows
// and predicted classes across the columns.
func (w *Workbook) AddConfusion(name string, c *model.Confusion) error {
	if err := w.sheet(name); err != nil {
		return err
	}
	sheet := w.sheets[len(w.sheets)-1]
	if err := w.headerRow(sheet, append([]string{"actual \\ predicted"}, c.Classes...)); err != nil {
		return err
	}
	for i, cls := range c.Classes {
		vals := []interface{}{cls}
		for _, n := range c.Counts[i] {
			vals = append(vals, n)
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := w.f.SetSheetRow(sheet, cell, &vals); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+2, err)
		}
	}
	return w.f.SetColWidth(sheet, "A", "A", 20)
}

// Save writes the workbook to path, creating parent directories.
func (w *Workbook) Save(path string) error {
	if len(w.sheets) == 0 {
		return fmt.Errorf("workbook has no sheets")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	w.f.SetActiveSheet(0)
	if err := w.f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// Close releases the workbook.
func (w *Workbook) Close() error { return w.f.Close() }
