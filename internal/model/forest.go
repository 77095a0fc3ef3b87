package model

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrNotFitted is returned by Predict before Fit.
var ErrNotFitted = errors.New("model not fitted")

// RandomForest is a bagged ensemble of CART classification trees split on
// Gini impurity. Each tree sees a bootstrap sample and considers
// sqrt(features) candidate features per split.
type RandomForest struct {
	Trees int
	// MaxDepth limits tree depth; 0 grows trees until leaves are pure.
	MaxDepth int
	Seed     uint64

	classes  []string
	features int
	trees    []tree
}

type node struct {
	leaf      bool
	feature   int
	threshold float64
	left      int
	right     int
	probs     []float64
}

type tree struct {
	nodes []node
}

// Classes returns the class labels in ascending order.
func (f *RandomForest) Classes() []string { return f.classes }

// Fit trains the forest on the rows of x labelled by y.
func (f *RandomForest) Fit(x mat.Matrix, y []string) error {
	r, c := x.Dims()
	if r != len(y) {
		return fmt.Errorf("fit: %d rows but %d labels", r, len(y))
	}
	if r == 0 || c == 0 {
		return fmt.Errorf("fit: empty training matrix")
	}
	if f.Trees <= 0 {
		f.Trees = 100
	}
	f.classes = uniqueSorted(y)
	f.features = c
	pos := make(map[string]int, len(f.classes))
	for i, cl := range f.classes {
		pos[cl] = i
	}
	labels := make([]int, r)
	for i, v := range y {
		labels[i] = pos[v]
	}
	rows := make([][]float64, r)
	for i := range rows {
		rows[i] = mat.Row(nil, i, x)
	}

	mtry := int(math.Sqrt(float64(c)))
	if mtry < 1 {
		mtry = 1
	}
	f.trees = make([]tree, f.Trees)
	for t := range f.trees {
		b := &builder{
			x:        rows,
			y:        labels,
			classes:  len(f.classes),
			mtry:     mtry,
			maxDepth: f.MaxDepth,
			rng:      newRand(f.Seed, uint64(t)+1),
		}
		sample := make([]int, r)
		for i := range sample {
			sample[i] = b.rng.IntN(r)
		}
		b.grow(sample, 0)
		f.trees[t] = b.tree
	}
	return nil
}

// Predict returns the class with the highest mean leaf probability for each
// row of x. Ties go to the smaller class label.
func (f *RandomForest) Predict(x mat.Matrix) ([]string, error) {
	if len(f.trees) == 0 {
		return nil, ErrNotFitted
	}
	r, c := x.Dims()
	if c != f.features {
		return nil, fmt.Errorf("predict: %d features, model has %d", c, f.features)
	}
	out := make([]string, r)
	acc := make([]float64, len(f.classes))
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(row, i, x)
		for k := range acc {
			acc[k] = 0
		}
		for _, t := range f.trees {
			floats.Add(acc, t.leaf(row).probs)
		}
		out[i] = f.classes[floats.MaxIdx(acc)]
	}
	return out, nil
}

func (t tree) leaf(row []float64) node {
	n := t.nodes[0]
	for !n.leaf {
		if row[n.feature] <= n.threshold {
			n = t.nodes[n.left]
		} else {
			n = t.nodes[n.right]
		}
	}
	return n
}

type builder struct {
	x        [][]float64
	y        []int
	classes  int
	mtry     int
	maxDepth int
	rng      *rand.Rand
	tree     tree
}

func (b *builder) counts(idx []int) []float64 {
	c := make([]float64, b.classes)
	for _, i := range idx {
		c[b.y[i]]++
	}
	return c
}

func (b *builder) grow(idx []int, depth int) int {
	id := len(b.tree.nodes)
	b.tree.nodes = append(b.tree.nodes, node{})
	counts := b.counts(idx)
	if isPure(counts) || (b.maxDepth > 0 && depth >= b.maxDepth) || len(idx) < 2 {
		b.tree.nodes[id] = leafNode(counts)
		return id
	}
	feature, threshold, ok := b.bestSplit(idx)
	if !ok {
		b.tree.nodes[id] = leafNode(counts)
		return id
	}
	var left, right []int
	for _, i := range idx {
		if b.x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	l := b.grow(left, depth+1)
	r := b.grow(right, depth+1)
	b.tree.nodes[id] = node{feature: feature, threshold: threshold, left: l, right: r}
	return id
}

// bestSplit scans features in random order until mtry non-constant ones have
// been evaluated and returns the threshold with the lowest weighted Gini.
func (b *builder) bestSplit(idx []int) (int, float64, bool) {
	order := make([]int, len(idx))
	left := make([]float64, b.classes)
	total := b.counts(idx)
	n := float64(len(idx))

	bestScore := math.Inf(-1)
	bestFeature, bestThreshold := -1, 0.0
	visited := 0
	for _, feat := range b.rng.Perm(len(b.x[0])) {
		if visited >= b.mtry {
			break
		}
		copy(order, idx)
		sort.Slice(order, func(a, c int) bool { return b.x[order[a]][feat] < b.x[order[c]][feat] })
		if b.x[order[0]][feat] == b.x[order[len(order)-1]][feat] {
			continue
		}
		visited++
		for k := range left {
			left[k] = 0
		}
		for p := 0; p < len(order)-1; p++ {
			left[b.y[order[p]]]++
			lo, hi := b.x[order[p]][feat], b.x[order[p+1]][feat]
			if lo == hi {
				continue
			}
			nl := float64(p + 1)
			nr := n - nl
			var sl, sr float64
			for k := range left {
				sl += left[k] * left[k]
				rk := total[k] - left[k]
				sr += rk * rk
			}
			// Maximising this minimises the weighted Gini impurity.
			score := sl/nl + sr/nr
			if score > bestScore {
				bestScore = score
				bestFeature = feat
				bestThreshold = lo + (hi-lo)/2
				if bestThreshold >= hi {
					bestThreshold = lo
				}
			}
		}
	}
	return bestFeature, bestThreshold, bestFeature >= 0
}

func isPure(counts []float64) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

func leafNode(counts []float64) node {
	probs := append([]float64(nil), counts...)
	if s := floats.Sum(probs); s > 0 {
		floats.Scale(1/s, probs)
	}
	return node{leaf: true, probs: probs}
}

func uniqueSorted(vals []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, v := range vals {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
