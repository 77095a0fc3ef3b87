package model

import (
	"math"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/KaramelBytes/salescope/internal/dataset"
)

func TestSplit_Deterministic(t *testing.T) {
	train1, test1, err := Split(100, 0.3, 42)
	require.NoError(t, err)
	train2, test2, err := Split(100, 0.3, 42)
	require.NoError(t, err)
	if diff := cmp.Diff(test1, test2); diff != "" {
		t.Fatalf("test split differs:\n%s", diff)
	}
	assert.Equal(t, train1, train2)
	assert.Len(t, test1, 30)
	assert.Len(t, train1, 70)

	all := append(append([]int(nil), train1...), test1...)
	sort.Ints(all)
	for i, v := range all {
		if v != i {
			t.Fatalf("split is not a partition of 0..99: got %v at %d", v, i)
		}
	}

	_, other, err := Split(100, 0.3, 7)
	require.NoError(t, err)
	assert.NotEqual(t, test1, other)
}

func TestSplit_CeilAndErrors(t *testing.T) {
	train, test, err := Split(3, 0.2, 42)
	require.NoError(t, err)
	assert.Len(t, test, 1)
	assert.Len(t, train, 2)

	for _, c := range []struct {
		n    int
		size float64
	}{{10, 0}, {10, 1}, {1, 0.5}, {2, 0.9}} {
		_, _, err := Split(c.n, c.size, 42)
		assert.ErrorIs(t, err, ErrSplit, "n=%d size=%v", c.n, c.size)
	}
}

// separable returns rows whose label depends only on the sign of feature 0.
func separable(n int) (*mat.Dense, []string) {
	x := mat.NewDense(n, 3, nil)
	y := make([]string, n)
	r := newRand(1, 1)
	for i := 0; i < n; i++ {
		v := r.Float64()*4 - 2
		if math.Abs(v) < 0.1 {
			v += math.Copysign(0.2, v)
		}
		x.Set(i, 0, v)
		x.Set(i, 1, r.NormFloat64())
		x.Set(i, 2, r.NormFloat64())
		if v < 0 {
			y[i] = "bad"
		} else {
			y[i] = "good"
		}
	}
	return x, y
}

func TestRandomForest_SeparableData(t *testing.T) {
	x, y := separable(300)
	rf := &RandomForest{Trees: 25, Seed: 42}
	require.NoError(t, rf.Fit(Rows(x, seq(0, 200)), y[:200]))
	assert.Equal(t, []string{"bad", "good"}, rf.Classes())

	pred, err := rf.Predict(Rows(x, seq(200, 300)))
	require.NoError(t, err)
	correct := 0
	for i, p := range pred {
		if p == y[200+i] {
			correct++
		}
	}
	assert.GreaterOrEqual(t, correct, 90)
}

func TestRandomForest_SameSeedSamePredictions(t *testing.T) {
	x, y := separable(120)
	a := &RandomForest{Trees: 10, Seed: 9}
	b := &RandomForest{Trees: 10, Seed: 9}
	require.NoError(t, a.Fit(x, y))
	require.NoError(t, b.Fit(x, y))
	pa, err := a.Predict(x)
	require.NoError(t, err)
	pb, err := b.Predict(x)
	require.NoError(t, err)
	assert.Equal(t, pa, pb)
}

func TestRandomForest_Errors(t *testing.T) {
	rf := &RandomForest{}
	_, err := rf.Predict(mat.NewDense(1, 1, nil))
	assert.ErrorIs(t, err, ErrNotFitted)

	x, y := separable(20)
	assert.Error(t, rf.Fit(x, y[:5]))
	require.NoError(t, rf.Fit(x, y))
	_, err = rf.Predict(mat.NewDense(2, 2, nil))
	assert.Error(t, err)
}

func TestLinearRegression_Exact(t *testing.T) {
	var m LinearRegression
	x := []float64{1, 2, 3, 4}
	y := []float64{5, 7, 9, 11}
	require.NoError(t, m.Fit(x, y))
	assert.InDelta(t, 3, m.Alpha, 1e-9)
	assert.InDelta(t, 2, m.Beta, 1e-9)
	got, err := m.Predict([]float64{10})
	require.NoError(t, err)
	assert.InDelta(t, 23, got[0], 1e-9)

	assert.Error(t, m.Fit(nil, nil))
	assert.Error(t, m.Fit([]float64{1, 2}, []float64{1}))
	var unfitted LinearRegression
	_, err = unfitted.Predict(x)
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestConfusionReport(t *testing.T) {
	var yTrue, yPred []string
	add := func(truth, pred string, n int) {
		for i := 0; i < n; i++ {
			yTrue = append(yTrue, truth)
			yPred = append(yPred, pred)
		}
	}
	add("bad", "bad", 528)
	add("bad", "good", 65)
	add("good", "bad", 67)
	add("good", "good", 540)

	conf, err := NewConfusion(yTrue, yPred)
	require.NoError(t, err)
	assert.Equal(t, []string{"bad", "good"}, conf.Classes)
	assert.Equal(t, [][]int{{528, 65}, {67, 540}}, conf.Counts)
	assert.Equal(t, 1200, conf.Total())

	rep := conf.Report()
	require.Len(t, rep.Classes, 2)
	bad := rep.Classes[0]
	assert.InDelta(t, 528.0/595.0, bad.Precision, 1e-12)
	assert.InDelta(t, 528.0/593.0, bad.Recall, 1e-12)
	assert.Equal(t, 593, bad.Support)
	assert.Equal(t, 607, rep.Classes[1].Support)
	assert.InDelta(t, 1068.0/1200.0, rep.Accuracy, 1e-12)
	assert.InDelta(t, (bad.F1+rep.Classes[1].F1)/2, rep.Macro.F1, 1e-12)

	text := rep.String()
	assert.Contains(t, text, "precision")
	assert.Contains(t, text, "accuracy")
	assert.Contains(t, text, "0.89")
	assert.True(t, strings.Contains(text, "weighted avg"))
}

func TestConfusion_ZeroDivision(t *testing.T) {
	conf, err := NewConfusion([]string{"a", "a"}, []string{"a", "b"})
	require.NoError(t, err)
	rep := conf.Report()
	assert.Equal(t, 0.0, rep.Classes[1].Precision)
	assert.Equal(t, 0.0, rep.Classes[1].F1)
}

func TestMSE(t *testing.T) {
	got, err := MSE([]float64{1, 2, 3}, []float64{1, 4, 0})
	require.NoError(t, err)
	assert.InDelta(t, (0.0+4+9)/3, got, 1e-12)
	_, err = MSE(nil, nil)
	assert.Error(t, err)
}

func TestClassify(t *testing.T) {
	x, y := separable(200)
	ev, err := Classify(x, y, ClassifierOptions{Trees: 15, Seed: 42, TestSize: 0.3})
	require.NoError(t, err)
	assert.Equal(t, 140, ev.TrainRows)
	assert.Equal(t, 60, ev.TestRows)
	assert.Equal(t, 60, ev.Confusion.Total())
	assert.Greater(t, ev.Report.Accuracy, 0.85)
}

func TestTrend_ThreeMonths(t *testing.T) {
	x := []float64{201901, 201902, 201903}
	y := []float64{1000, 1500, 2000}
	res, err := Trend(x, y, 0.2, 42)
	require.NoError(t, err)
	assert.Len(t, res.Test, 1)
	assert.Len(t, res.Predicted, 1)
	assert.InDelta(t, 0, res.MSE, 1e-3)

	again, err := Trend(x, y, 0.2, 42)
	require.NoError(t, err)
	assert.Equal(t, res.Test, again.Test)
}

func TestLinearRegression_Degenerate(t *testing.T) {
	var m LinearRegression
	require.NoError(t, m.Fit([]float64{201901}, []float64{1200}))
	assert.InDelta(t, 1200, m.Alpha, 1e-9)
	assert.Zero(t, m.Beta)

	require.NoError(t, m.Fit([]float64{3, 3}, []float64{1, 2}))
	assert.InDelta(t, 1.5, m.Alpha, 1e-9)
	assert.Zero(t, m.Beta)
}

func TestTrend_TwoMonths(t *testing.T) {
	x := []float64{201901, 201902}
	y := []float64{1000, 1600}
	res, err := Trend(x, y, 0.2, 42)
	require.NoError(t, err)
	require.Len(t, res.Train, 1)
	require.Len(t, res.Test, 1)
	assert.Zero(t, res.Model.Beta)
	assert.InDelta(t, 600*600, res.MSE, 1e-6)

	_, err = Trend([]float64{201901}, []float64{1000}, 0.2, 42)
	assert.Error(t, err)
}

func TestMatrixFromTable(t *testing.T) {
	raw := &dataset.Raw{
		Name:    "q",
		Header:  []string{"Size", "Weight", "Quality"},
		Records: [][]string{{"1", "2", "good"}, {"3", "4", "bad"}},
	}
	s := dataset.NewSchema(dataset.Num("Size"), dataset.Num("Weight"), dataset.Cat("Quality"))
	tbl, _, err := raw.Table(s, dataset.Strict, dataset.Options{})
	require.NoError(t, err)
	m, err := Matrix(tbl, []string{"Size", "Weight"})
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 4}, mat.Row(nil, 1, m))

	_, err = Matrix(tbl, []string{"Quality"})
	assert.ErrorIs(t, err, dataset.ErrFieldKind)
	_, err = Matrix(tbl, nil)
	assert.Error(t, err)
}

func seq(from, to int) []int {
	out := make([]int, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, i)
	}
	return out
}
