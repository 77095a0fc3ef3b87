package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/KaramelBytes/salescope/internal/dataset"
)

// Matrix stacks the numeric features of t into a rows x features matrix.
func Matrix(t *dataset.Table, features []string) (*mat.Dense, error) {
	if len(features) == 0 {
		return nil, fmt.Errorf("no feature columns")
	}
	if t.Len() == 0 {
		return nil, fmt.Errorf("%s: no rows", t.Name())
	}
	m := mat.NewDense(t.Len(), len(features), nil)
	for j, f := range features {
		col, err := t.Numeric(f)
		if err != nil {
			return nil, err
		}
		m.SetCol(j, col)
	}
	return m, nil
}

// Rows copies the selected rows of x into a new matrix.
func Rows(x mat.Matrix, idx []int) *mat.Dense {
	_, c := x.Dims()
	out := mat.NewDense(len(idx), c, nil)
	for i, r := range idx {
		for j := 0; j < c; j++ {
			out.Set(i, j, x.At(r, j))
		}
	}
	return out
}

// Pick returns vals[idx[0]], vals[idx[1]], ...
func Pick[T any](vals []T, idx []int) []T {
	out := make([]T, len(idx))
	for i, r := range idx {
		out[i] = vals[r]
	}
	return out
}
