package ml

import (
	"fmt"
	"sort"
)

// Model kinds; classification leaves carry a class distribution, regression
// leaves a mean value.
const (
	KindClassification = "classification"
	KindRegression     = "regression"
)

type treeNode struct {
	Leaf      bool      `json:"leaf"`
	Feature   int       `json:"feature,omitempty"`
	Threshold float64   `json:"threshold,omitempty"`
	Left      *treeNode `json:"left,omitempty"`
	Right     *treeNode `json:"right,omitempty"`

	Value float64   `json:"value"`          // mean (regression) or argmax class index
	Dist  []float64 `json:"dist,omitempty"` // class distribution, classification only
}

// Tree is a single CART decision tree. Targets for classification are class
// indices in [0, NumClasses); regression targets are raw values.
type Tree struct {
	Kind           string    `json:"kind"`
	MaxDepth       int       `json:"max_depth"`
	MinSamplesLeaf int       `json:"min_samples_leaf"`
	NumClasses     int       `json:"num_classes,omitempty"`
	Root           *treeNode `json:"root"`
}

func newTree(kind string, maxDepth, minSamplesLeaf, numClasses int) *Tree {
	if maxDepth <= 0 {
		maxDepth = 10
	}
	if minSamplesLeaf <= 0 {
		minSamplesLeaf = 1
	}
	return &Tree{
		Kind:           kind,
		MaxDepth:       maxDepth,
		MinSamplesLeaf: minSamplesLeaf,
		NumClasses:     numClasses,
	}
}

func (t *Tree) fit(X [][]float64, y []float64) error {
	if len(X) == 0 || len(X) != len(y) {
		return fmt.Errorf("bad training shape: %d rows, %d targets", len(X), len(y))
	}
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	t.Root = t.build(X, y, idx, 0)
	return nil
}

func (t *Tree) build(X [][]float64, y []float64, idx []int, depth int) *treeNode {
	if depth >= t.MaxDepth || len(idx) < 2*t.MinSamplesLeaf || t.pure(y, idx) {
		return t.leaf(y, idx)
	}

	feature, threshold, ok := t.bestSplit(X, y, idx)
	if !ok {
		return t.leaf(y, idx)
	}

	var left, right []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < t.MinSamplesLeaf || len(right) < t.MinSamplesLeaf {
		return t.leaf(y, idx)
	}

	return &treeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      t.build(X, y, left, depth+1),
		Right:     t.build(X, y, right, depth+1),
	}
}

func (t *Tree) pure(y []float64, idx []int) bool {
	first := y[idx[0]]
	for _, i := range idx[1:] {
		if y[i] != first {
			return false
		}
	}
	return true
}

func (t *Tree) leaf(y []float64, idx []int) *treeNode {
	if t.Kind == KindRegression {
		sum := 0.0
		for _, i := range idx {
			sum += y[i]
		}
		return &treeNode{Leaf: true, Value: sum / float64(len(idx))}
	}

	dist := make([]float64, t.NumClasses)
	for _, i := range idx {
		c := int(y[i])
		if c >= 0 && c < t.NumClasses {
			dist[c]++
		}
	}
	best := 0
	for c := range dist {
		dist[c] /= float64(len(idx))
		if dist[c] > dist[best] {
			best = c
		}
	}
	return &treeNode{Leaf: true, Value: float64(best), Dist: dist}
}

// bestSplit sweeps each feature in sorted order keeping running impurity stats,
// so each candidate threshold costs O(1) after the sort.
func (t *Tree) bestSplit(X [][]float64, y []float64, idx []int) (feature int, threshold float64, ok bool) {
	bestScore := -1.0
	order := make([]int, len(idx))

	for f := range X[idx[0]] {
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool { return X[order[a]][f] < X[order[b]][f] })

		var sweep splitSweep
		if t.Kind == KindRegression {
			sweep = newVarianceSweep(y, order)
		} else {
			sweep = newGiniSweep(y, order, t.NumClasses)
		}

		for cut := 1; cut < len(order); cut++ {
			sweep.moveLeft(y[order[cut-1]])
			lo, hi := X[order[cut-1]][f], X[order[cut]][f]
			if lo == hi {
				continue
			}
			if cut < t.MinSamplesLeaf || len(order)-cut < t.MinSamplesLeaf {
				continue
			}
			if score := sweep.gain(cut, len(order)); score > bestScore {
				bestScore = score
				feature = f
				threshold = (lo + hi) / 2
				ok = true
			}
		}
	}
	return feature, threshold, ok && bestScore > 0
}

func (t *Tree) walk(x []float64) (*treeNode, error) {
	n := t.Root
	if n == nil {
		return nil, fmt.Errorf("tree not trained")
	}
	for !n.Leaf {
		if n.Feature >= len(x) {
			return nil, fmt.Errorf("feature index %d out of range for input of %d", n.Feature, len(x))
		}
		if x[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n, nil
}

func (t *Tree) predict(x []float64) (float64, error) {
	n, err := t.walk(x)
	if err != nil {
		return 0, err
	}
	return n.Value, nil
}

func (t *Tree) predictDist(x []float64) ([]float64, error) {
	n, err := t.walk(x)
	if err != nil {
		return nil, err
	}
	if n.Dist == nil {
		return nil, fmt.Errorf("not a classification tree")
	}
	return n.Dist, nil
}
