package ml

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
)

// ForestConfig holds the ensemble hyperparameters. Zero values fall back to
// the defaults the training runs have always used.
type ForestConfig struct {
	NumTrees       int   `json:"num_trees"`
	MaxDepth       int   `json:"max_depth"`
	MinSamplesLeaf int   `json:"min_samples_leaf"`
	Seed           int64 `json:"seed"`
}

func (c ForestConfig) withDefaults() ForestConfig {
	if c.NumTrees <= 0 {
		c.NumTrees = 50
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = 10
	}
	if c.MinSamplesLeaf <= 0 {
		c.MinSamplesLeaf = 1
	}
	return c
}

// Forest is a bagged ensemble of CART trees. Each tree trains on a
// bootstrap sample over a random feature subset; TreeFeatures records which
// input columns each tree sees. Classification aggregates leaf
// distributions, regression averages leaf means. Immutable after training;
// Predict is safe for concurrent use.
type Forest struct {
	Kind         string       `json:"kind"`
	Config       ForestConfig `json:"config"`
	NumFeatures  int          `json:"num_features"`
	NumClasses   int          `json:"num_classes,omitempty"`
	Classes      []string     `json:"classes,omitempty"`
	FeatureNames []string     `json:"feature_names"`
	Trees        []*Tree      `json:"trees"`
	TreeFeatures [][]int      `json:"tree_features"`
}

// TrainClassifier fits a classification forest. y holds string labels;
// Classes keeps their sorted order for decode.
func TrainClassifier(X [][]float64, labels []string, featureNames []string, cfg ForestConfig) (*Forest, error) {
	classes := uniqueSorted(labels)
	classIndex := make(map[string]int, len(classes))
	for i, c := range classes {
		classIndex[c] = i
	}
	y := make([]float64, len(labels))
	for i, l := range labels {
		y[i] = float64(classIndex[l])
	}

	f := &Forest{Kind: KindClassification, NumClasses: len(classes), Classes: classes}
	if err := f.fit(X, y, featureNames, cfg); err != nil {
		return nil, err
	}
	return f, nil
}

// TrainRegressor fits a regression forest.
func TrainRegressor(X [][]float64, y []float64, featureNames []string, cfg ForestConfig) (*Forest, error) {
	f := &Forest{Kind: KindRegression}
	if err := f.fit(X, y, featureNames, cfg); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Forest) fit(X [][]float64, y []float64, featureNames []string, cfg ForestConfig) error {
	if len(X) == 0 {
		return fmt.Errorf("empty training data")
	}
	if len(X) != len(y) {
		return fmt.Errorf("rows and targets differ: %d vs %d", len(X), len(y))
	}
	if len(featureNames) != len(X[0]) {
		return fmt.Errorf("%d feature names for %d features", len(featureNames), len(X[0]))
	}

	cfg = cfg.withDefaults()
	f.Config = cfg
	f.NumFeatures = len(X[0])
	f.FeatureNames = append([]string(nil), featureNames...)
	f.Trees = make([]*Tree, cfg.NumTrees)
	f.TreeFeatures = make([][]int, cfg.NumTrees)

	maxFeatures := int(math.Sqrt(float64(f.NumFeatures)))
	if maxFeatures < 1 {
		maxFeatures = 1
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = 1
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for i := 0; i < cfg.NumTrees; i++ {
		wg.Add(1)
		go func(treeIdx int) {
			defer wg.Done()

			// Per-tree rng keyed off the config seed keeps training
			// deterministic regardless of goroutine scheduling.
			rng := rand.New(rand.NewSource(seed + int64(treeIdx)))

			rows := bootstrap(rng, len(X))
			features := sampleFeatures(rng, f.NumFeatures, maxFeatures)

			subX := make([][]float64, len(rows))
			subY := make([]float64, len(rows))
			for r, src := range rows {
				row := make([]float64, len(features))
				for c, fi := range features {
					row[c] = X[src][fi]
				}
				subX[r] = row
				subY[r] = y[src]
			}

			tree := newTree(f.Kind, cfg.MaxDepth, cfg.MinSamplesLeaf, f.NumClasses)
			err := tree.fit(subX, subY)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("tree %d: %w", treeIdx, err)
				}
				return
			}
			f.Trees[treeIdx] = tree
			f.TreeFeatures[treeIdx] = features
		}(i)
	}
	wg.Wait()
	return firstErr
}

// Predict returns the ensemble output: the majority class index for
// classification, the mean of tree outputs for regression.
func (f *Forest) Predict(x []float64) (float64, error) {
	if err := f.checkInput(x); err != nil {
		return 0, err
	}

	if f.Kind == KindClassification {
		dist, err := f.PredictProba(x)
		if err != nil {
			return 0, err
		}
		best := 0
		for c := range dist {
			if dist[c] > dist[best] {
				best = c
			}
		}
		return float64(best), nil
	}

	sum := 0.0
	for i, tree := range f.Trees {
		v, err := tree.predict(project(x, f.TreeFeatures[i]))
		if err != nil {
			return 0, err
		}
		sum += v
	}
	return sum / float64(len(f.Trees)), nil
}

// PredictProba averages leaf class distributions across trees. Index
// positions follow Classes.
func (f *Forest) PredictProba(x []float64) ([]float64, error) {
	if f.Kind != KindClassification {
		return nil, fmt.Errorf("probabilities only defined for classification")
	}
	if err := f.checkInput(x); err != nil {
		return nil, err
	}

	agg := make([]float64, f.NumClasses)
	for i, tree := range f.Trees {
		dist, err := tree.predictDist(project(x, f.TreeFeatures[i]))
		if err != nil {
			return nil, err
		}
		for c, p := range dist {
			agg[c] += p
		}
	}
	for c := range agg {
		agg[c] /= float64(len(f.Trees))
	}
	return agg, nil
}

// ClassLabel decodes a Predict result back to its training label.
func (f *Forest) ClassLabel(code float64) (string, error) {
	i := int(code)
	if f.Kind != KindClassification || i < 0 || i >= len(f.Classes) {
		return "", fmt.Errorf("no class for code %v", code)
	}
	return f.Classes[i], nil
}

func (f *Forest) checkInput(x []float64) error {
	if len(f.Trees) == 0 {
		return fmt.Errorf("forest not trained")
	}
	if len(x) != f.NumFeatures {
		return fmt.Errorf("expected %d features, got %d", f.NumFeatures, len(x))
	}
	return nil
}

func bootstrap(rng *rand.Rand, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = rng.Intn(n)
	}
	return out
}

func sampleFeatures(rng *rand.Rand, total, want int) []int {
	perm := rng.Perm(total)[:want]
	// Keep column order stable within a tree.
	sort.Ints(perm)
	return perm
}

func project(x []float64, features []int) []float64 {
	out := make([]float64, len(features))
	for i, f := range features {
		out[i] = x[f]
	}
	return out
}

func uniqueSorted(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
