package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ClassifierOptions configures Classify.
type ClassifierOptions struct {
	Trees    int
	MaxDepth int
	Seed     uint64
	TestSize float64
}

// Evaluation is the outcome of a held-out classifier run.
type Evaluation struct {
	TrainRows int
	TestRows  int
	Confusion *Confusion
	Report    ClassReport
}

// Classify splits (x, y), trains a random forest on the training part and
// scores its predictions on the test part.
func Classify(x mat.Matrix, y []string, opt ClassifierOptions) (*Evaluation, error) {
	r, _ := x.Dims()
	if r != len(y) {
		return nil, fmt.Errorf("classify: %d rows but %d labels", r, len(y))
	}
	train, test, err := Split(r, opt.TestSize, opt.Seed)
	if err != nil {
		return nil, err
	}
	rf := &RandomForest{Trees: opt.Trees, MaxDepth: opt.MaxDepth, Seed: opt.Seed}
	if err := rf.Fit(Rows(x, train), Pick(y, train)); err != nil {
		return nil, err
	}
	pred, err := rf.Predict(Rows(x, test))
	if err != nil {
		return nil, err
	}
	conf, err := NewConfusion(Pick(y, test), pred)
	if err != nil {
		return nil, err
	}
	return &Evaluation{
		TrainRows: len(train),
		TestRows:  len(test),
		Confusion: conf,
		Report:    conf.Report(),
	}, nil
}

// TrendResult is a held-out linear fit of a series against its x positions.
type TrendResult struct {
	Model     LinearRegression
	Train     []int
	Test      []int
	Predicted []float64
	MSE       float64
}

// Trend fits y on x using a seeded split and reports the test MSE.
func Trend(x, y []float64, testSize float64, seed uint64) (*TrendResult, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("trend: %d x values but %d y values", len(x), len(y))
	}
	train, test, err := Split(len(x), testSize, seed)
	if err != nil {
		return nil, err
	}
	res := &TrendResult{Train: train, Test: test}
	if err := res.Model.Fit(Pick(x, train), Pick(y, train)); err != nil {
		return nil, err
	}
	if res.Predicted, err = res.Model.Predict(Pick(x, test)); err != nil {
		return nil, err
	}
	if res.MSE, err = MSE(Pick(y, test), res.Predicted); err != nil {
		return nil, err
	}
	return res, nil
}
