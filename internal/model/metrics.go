package model

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Confusion counts predictions: Counts[i][j] is the number of rows whose true
// class is Classes[i] and predicted class is Classes[j].
type Confusion struct {
	Classes []string
	Counts  [][]int
}

// NewConfusion builds the matrix over the sorted union of observed labels.
func NewConfusion(yTrue, yPred []string) (*Confusion, error) {
	if len(yTrue) != len(yPred) {
		return nil, fmt.Errorf("confusion: %d true labels but %d predictions", len(yTrue), len(yPred))
	}
	classes := uniqueSorted(append(append([]string(nil), yTrue...), yPred...))
	pos := make(map[string]int, len(classes))
	for i, c := range classes {
		pos[c] = i
	}
	counts := make([][]int, len(classes))
	for i := range counts {
		counts[i] = make([]int, len(classes))
	}
	for i := range yTrue {
		counts[pos[yTrue[i]]][pos[yPred[i]]]++
	}
	return &Confusion{Classes: classes, Counts: counts}, nil
}

// Cells returns the counts as floats for charting and export.
func (c *Confusion) Cells() [][]float64 {
	out := make([][]float64, len(c.Counts))
	for i, row := range c.Counts {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			out[i][j] = float64(v)
		}
	}
	return out
}

// Total is the number of predictions.
func (c *Confusion) Total() int {
	n := 0
	for _, row := range c.Counts {
		for _, v := range row {
			n += v
		}
	}
	return n
}

// ClassMetrics holds the per-class scores.
type ClassMetrics struct {
	Class     string
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// ClassReport summarises a confusion matrix.
type ClassReport struct {
	Classes  []ClassMetrics
	Accuracy float64
	Macro    ClassMetrics
	Weighted ClassMetrics
	Support  int
}

// Report computes precision, recall and F1 per class plus accuracy, macro
// and support-weighted averages. Undefined ratios are reported as zero.
func (c *Confusion) Report() ClassReport {
	k := len(c.Classes)
	rep := ClassReport{Support: c.Total()}
	var correct int
	prec := make([]float64, k)
	rec := make([]float64, k)
	f1 := make([]float64, k)
	support := make([]float64, k)
	for i := 0; i < k; i++ {
		tp := c.Counts[i][i]
		correct += tp
		var predicted, actual int
		for j := 0; j < k; j++ {
			predicted += c.Counts[j][i]
			actual += c.Counts[i][j]
		}
		prec[i] = ratio(tp, predicted)
		rec[i] = ratio(tp, actual)
		if prec[i]+rec[i] > 0 {
			f1[i] = 2 * prec[i] * rec[i] / (prec[i] + rec[i])
		}
		support[i] = float64(actual)
		rep.Classes = append(rep.Classes, ClassMetrics{
			Class: c.Classes[i], Precision: prec[i], Recall: rec[i], F1: f1[i], Support: actual,
		})
	}
	rep.Accuracy = ratio(correct, rep.Support)
	if k > 0 {
		rep.Macro = ClassMetrics{
			Class:     "macro avg",
			Precision: floats.Sum(prec) / float64(k),
			Recall:    floats.Sum(rec) / float64(k),
			F1:        floats.Sum(f1) / float64(k),
			Support:   rep.Support,
		}
	}
	rep.Weighted = ClassMetrics{Class: "weighted avg", Support: rep.Support}
	if rep.Support > 0 {
		n := float64(rep.Support)
		rep.Weighted.Precision = floats.Dot(prec, support) / n
		rep.Weighted.Recall = floats.Dot(rec, support) / n
		rep.Weighted.F1 = floats.Dot(f1, support) / n
	}
	return rep
}

func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}

// String lays the report out as a fixed-width text table.
func (r ClassReport) String() string {
	width := len("weighted avg")
	for _, c := range r.Classes {
		if len(c.Class) > width {
			width = len(c.Class)
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%*s  %9s %9s %9s %9s\n\n", width, "", "precision", "recall", "f1-score", "support")
	row := func(m ClassMetrics) {
		fmt.Fprintf(&b, "%*s  %9.2f %9.2f %9.2f %9d\n", width, m.Class, m.Precision, m.Recall, m.F1, m.Support)
	}
	for _, c := range r.Classes {
		row(c)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%*s  %9s %9s %9.2f %9d\n", width, "accuracy", "", "", r.Accuracy, r.Support)
	row(r.Macro)
	row(r.Weighted)
	return b.String()
}

// MSE is the mean squared error between yTrue and yPred.
func MSE(yTrue, yPred []float64) (float64, error) {
	if len(yTrue) != len(yPred) {
		return 0, fmt.Errorf("mse: %d values but %d predictions", len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return 0, fmt.Errorf("mse: no values")
	}
	diff := make([]float64, len(yTrue))
	floats.SubTo(diff, yTrue, yPred)
	return floats.Dot(diff, diff) / float64(len(diff)), nil
}
