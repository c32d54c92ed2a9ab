package ml

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
)

// RandomForest is a bootstrap-aggregated ensemble of decision trees.
// Each tree owns a seed derived from the forest seed, so fitting is
// deterministic and trees can be grown concurrently.
type RandomForest struct {
	Trees           []*DecisionTree
	Classes         int
	NumTrees        int
	MaxDepth        int
	MinSamplesSplit int
	Seed            int64
}

// NewRandomForest creates a forest; maxDepth 0 means unbounded depth
func NewRandomForest(numTrees, maxDepth, minSamplesSplit int, seed int64) *RandomForest {
	return &RandomForest{
		NumTrees:        numTrees,
		MaxDepth:        maxDepth,
		MinSamplesSplit: minSamplesSplit,
		Seed:            seed,
	}
}

// Fit grows the ensemble on bootstrap samples of X. The class count is taken
// from the largest label present; callers must ensure every class appears.
func (m *RandomForest) Fit(X [][]float64, y []int) error {
	if len(X) == 0 {
		return fmt.Errorf("random forest: empty training set")
	}
	if len(X) != len(y) {
		return fmt.Errorf("random forest: %d rows but %d labels", len(X), len(y))
	}

	m.Classes = 0
	for _, label := range y {
		if label+1 > m.Classes {
			m.Classes = label + 1
		}
	}

	dim := len(X[0])
	mtry := int(math.Sqrt(float64(dim)))
	if mtry < 1 {
		mtry = 1
	}

	m.Trees = make([]*DecisionTree, m.NumTrees)
	var wg sync.WaitGroup
	for i := 0; i < m.NumTrees; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(m.Seed + int64(i)))

			sample := make([]int, len(X))
			for j := range sample {
				sample[j] = rng.Intn(len(X))
			}

			tree := &DecisionTree{
				MaxDepth:        m.MaxDepth,
				MinSamplesSplit: m.MinSamplesSplit,
			}
			tree.grow(X, y, sample, m.Classes, mtry, rng)
			m.Trees[i] = tree
		}(i)
	}
	wg.Wait()
	return nil
}

// PredictProba averages the leaf distributions across all trees
func (m *RandomForest) PredictProba(x []float64) []float64 {
	probs := make([]float64, m.Classes)
	for _, tree := range m.Trees {
		for c, p := range tree.predictProba(x) {
			probs[c] += p
		}
	}
	for c := range probs {
		probs[c] /= float64(len(m.Trees))
	}
	return probs
}

// NumClasses returns the number of classes seen at fit time
func (m *RandomForest) NumClasses() int {
	return m.Classes
}

// Name identifies the model family
func (m *RandomForest) Name() string {
	return "random_forest"
}
