package ml

import (
	"math"
	"math/rand"
	"sort"

	"carprice/pkg/errors"
)

// RandomForest is an ensemble of variance-reduction regression trees, each
// grown on a bootstrap sample over a random feature subset. The seed makes
// a training run reproducible; prediction is deterministic once fitted.
type RandomForest struct {
	NumTrees    int   `json:"num_trees"`
	MaxDepth    int   `json:"max_depth"`
	MinLeafSize int   `json:"min_leaf_size"`
	Seed        int64 `json:"seed"`

	Trees []*treeNode `json:"trees"`
}

type treeNode struct {
	Feature   int       `json:"feature"` // -1 marks a leaf
	Threshold float64   `json:"threshold,omitempty"`
	Value     float64   `json:"value,omitempty"`
	Left      *treeNode `json:"left,omitempty"`
	Right     *treeNode `json:"right,omitempty"`
}

// NewRandomForest creates an unfitted forest.
func NewRandomForest(numTrees, maxDepth int, seed int64) *RandomForest {
	return &RandomForest{
		NumTrees:    numTrees,
		MaxDepth:    maxDepth,
		MinLeafSize: 2,
		Seed:        seed,
	}
}

// Name implements Regressor.
func (m *RandomForest) Name() string {
	return NameForest
}

// Fit grows the ensemble.
func (m *RandomForest) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 || len(X) != len(y) {
		return errors.New("random forest requires a non-empty matrix matching the target length")
	}
	if m.NumTrees <= 0 || m.MaxDepth <= 0 {
		return errors.Newf("random forest requires positive tree count and depth, got %d/%d", m.NumTrees, m.MaxDepth)
	}
	if m.MinLeafSize <= 0 {
		m.MinLeafSize = 2
	}

	n := len(X)
	p := len(X[0])
	// sklearn-style max_features for regression: a third of the features.
	mtry := p / 3
	if mtry < 1 {
		mtry = 1
	}

	rng := rand.New(rand.NewSource(m.Seed))
	m.Trees = make([]*treeNode, m.NumTrees)

	indices := make([]int, n)
	for t := 0; t < m.NumTrees; t++ {
		for i := range indices {
			indices[i] = rng.Intn(n)
		}
		m.Trees[t] = m.grow(X, y, indices, 0, mtry, rng)
	}
	return nil
}

// Predict averages the per-tree predictions.
func (m *RandomForest) Predict(x []float64) (float64, error) {
	if len(m.Trees) == 0 {
		return 0, errors.ErrNotFitted
	}

	var sum float64
	for _, tree := range m.Trees {
		node := tree
		for node.Feature >= 0 {
			if x[node.Feature] <= node.Threshold {
				node = node.Left
			} else {
				node = node.Right
			}
		}
		sum += node.Value
	}
	return sum / float64(len(m.Trees)), nil
}

func (m *RandomForest) grow(X [][]float64, y []float64, indices []int, depth, mtry int, rng *rand.Rand) *treeNode {
	if depth >= m.MaxDepth || len(indices) < 2*m.MinLeafSize || constantTarget(y, indices) {
		return leaf(y, indices)
	}

	feature, threshold, ok := m.bestSplit(X, y, indices, mtry, rng)
	if !ok {
		return leaf(y, indices)
	}

	var left, right []int
	for _, i := range indices {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < m.MinLeafSize || len(right) < m.MinLeafSize {
		return leaf(y, indices)
	}

	return &treeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      m.grow(X, y, left, depth+1, mtry, rng),
		Right:     m.grow(X, y, right, depth+1, mtry, rng),
	}
}

// bestSplit scans a random feature subset for the threshold minimizing the
// weighted sum of squared errors, using prefix sums over the sorted column.
func (m *RandomForest) bestSplit(X [][]float64, y []float64, indices []int, mtry int, rng *rand.Rand) (int, float64, bool) {
	p := len(X[0])
	perm := rng.Perm(p)

	bestSSE := math.Inf(1)
	bestFeature, bestThreshold := -1, 0.0

	order := make([]int, len(indices))
	for _, feature := range perm[:mtry] {
		copy(order, indices)
		sort.Slice(order, func(a, b int) bool {
			return X[order[a]][feature] < X[order[b]][feature]
		})

		var sumLeft, sqLeft float64
		sumRight, sqRight := 0.0, 0.0
		for _, i := range order {
			sumRight += y[i]
			sqRight += y[i] * y[i]
		}

		for split := 1; split < len(order); split++ {
			v := y[order[split-1]]
			sumLeft += v
			sqLeft += v * v
			sumRight -= v
			sqRight -= v * v

			lo, hi := X[order[split-1]][feature], X[order[split]][feature]
			if lo == hi {
				continue
			}
			if split < m.MinLeafSize || len(order)-split < m.MinLeafSize {
				continue
			}

			nl, nr := float64(split), float64(len(order)-split)
			sse := (sqLeft - sumLeft*sumLeft/nl) + (sqRight - sumRight*sumRight/nr)
			if sse < bestSSE {
				bestSSE = sse
				bestFeature = feature
				bestThreshold = (lo + hi) / 2
			}
		}
	}

	return bestFeature, bestThreshold, bestFeature >= 0
}

func leaf(y []float64, indices []int) *treeNode {
	var sum float64
	for _, i := range indices {
		sum += y[i]
	}
	return &treeNode{Feature: -1, Value: sum / float64(len(indices))}
}

func constantTarget(y []float64, indices []int) bool {
	first := y[indices[0]]
	for _, i := range indices[1:] {
		if y[i] != first {
			return false
		}
	}
	return true
}
