// Package model evaluates the fruit-quality classifier and the monthly trend
// regression: deterministic train/test split, random forest, least squares
// and the usual metrics.
package model

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

// ErrSplit is returned when a table cannot be split into non-empty parts.
var ErrSplit = errors.New("cannot split")

// newRand returns the generator used for every seeded draw in this package.
func newRand(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, stream^0x9e3779b97f4a7c15))
}

// Split permutes 0..n-1 with a generator seeded by seed and returns the
// first ceil(testSize*n) indices as the test set and the rest as the
// training set. The same n, testSize and seed always give the same split.
func Split(n int, testSize float64, seed uint64) (train, test []int, err error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, fmt.Errorf("%w: test size %v outside (0,1)", ErrSplit, testSize)
	}
	nTest := int(math.Ceil(testSize * float64(n)))
	if n < 2 || nTest >= n {
		return nil, nil, fmt.Errorf("%w: %d rows with test size %v", ErrSplit, n, testSize)
	}
	perm := newRand(seed, 0).Perm(n)
	return perm[nTest:], perm[:nTest], nil
}
