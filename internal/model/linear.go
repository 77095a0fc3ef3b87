package model

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// LinearRegression is an ordinary least squares fit y = Alpha + Beta*x.
type LinearRegression struct {
	Alpha  float64
	Beta   float64
	fitted bool
}

// Fit estimates the intercept and slope. With a single point or constant x
// the slope is zero and the intercept is the mean of y.
func (m *LinearRegression) Fit(x, y []float64) error {
	if len(x) != len(y) {
		return fmt.Errorf("fit: %d x values but %d y values", len(x), len(y))
	}
	if len(x) == 0 {
		return fmt.Errorf("fit: no points")
	}
	if len(x) == 1 || stat.Variance(x, nil) == 0 {
		m.Alpha, m.Beta = stat.Mean(y, nil), 0
	} else {
		m.Alpha, m.Beta = stat.LinearRegression(x, y, nil, false)
	}
	m.fitted = true
	return nil
}

// Predict evaluates the fitted line at every x.
func (m *LinearRegression) Predict(x []float64) ([]float64, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = m.Alpha + m.Beta*v
	}
	return out, nil
}
