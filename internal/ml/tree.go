package ml

import (
	"math/rand"
	"sort"
)

// TreeNode is one node of a fitted decision tree. Leaves carry the class
// distribution of the training rows that reached them; internal nodes route
// on a single feature threshold.
type TreeNode struct {
	Feature   int
	Threshold float64
	Left      *TreeNode
	Right     *TreeNode
	Probs     []float64
}

// DecisionTree is a CART-style classification tree split on Gini impurity
type DecisionTree struct {
	Root            *TreeNode
	MaxDepth        int
	MinSamplesSplit int
}

// grow fits the tree on the rows selected by idx. mtry features are sampled
// per split; rng drives the sampling and is only used during fitting.
func (t *DecisionTree) grow(X [][]float64, y []int, idx []int, numClasses, mtry int, rng *rand.Rand) {
	t.Root = t.build(X, y, idx, numClasses, mtry, 0, rng)
}

func classDistribution(y []int, idx []int, numClasses int) []float64 {
	probs := make([]float64, numClasses)
	for _, i := range idx {
		probs[y[i]]++
	}
	n := float64(len(idx))
	if n > 0 {
		for c := range probs {
			probs[c] /= n
		}
	}
	return probs
}

func giniFromCounts(counts []int, total int) float64 {
	if total == 0 {
		return 0
	}
	g := 1.0
	for _, c := range counts {
		p := float64(c) / float64(total)
		g -= p * p
	}
	return g
}

func (t *DecisionTree) build(X [][]float64, y []int, idx []int, numClasses, mtry, depth int, rng *rand.Rand) *TreeNode {
	probs := classDistribution(y, idx, numClasses)

	pure := false
	for _, p := range probs {
		if p == 1 {
			pure = true
		}
	}
	if pure || len(idx) < t.MinSamplesSplit || (t.MaxDepth > 0 && depth >= t.MaxDepth) {
		return &TreeNode{Probs: probs}
	}

	feature, threshold, ok := t.bestSplit(X, y, idx, numClasses, mtry, rng)
	if !ok {
		return &TreeNode{Probs: probs}
	}

	var left, right []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &TreeNode{Probs: probs}
	}

	return &TreeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      t.build(X, y, left, numClasses, mtry, depth+1, rng),
		Right:     t.build(X, y, right, numClasses, mtry, depth+1, rng),
	}
}

// bestSplit scans a random feature subset for the threshold minimizing the
// weighted Gini impurity of the two children
func (t *DecisionTree) bestSplit(X [][]float64, y []int, idx []int, numClasses, mtry int, rng *rand.Rand) (int, float64, bool) {
	dim := len(X[idx[0]])
	features := rng.Perm(dim)
	if mtry > 0 && mtry < dim {
		features = features[:mtry]
	}

	parentGini := giniFromCounts(countClasses(y, idx, numClasses), len(idx))

	bestGain := 0.0
	bestFeature := -1
	bestThreshold := 0.0

	sorted := make([]int, len(idx))
	for _, f := range features {
		copy(sorted, idx)
		sort.Slice(sorted, func(a, b int) bool {
			return X[sorted[a]][f] < X[sorted[b]][f]
		})

		leftCounts := make([]int, numClasses)
		rightCounts := countClasses(y, idx, numClasses)
		n := len(sorted)

		for pos := 0; pos < n-1; pos++ {
			i := sorted[pos]
			leftCounts[y[i]]++
			rightCounts[y[i]]--

			cur, next := X[i][f], X[sorted[pos+1]][f]
			if cur == next {
				continue
			}

			nl, nr := pos+1, n-pos-1
			weighted := (float64(nl)*giniFromCounts(leftCounts, nl) +
				float64(nr)*giniFromCounts(rightCounts, nr)) / float64(n)
			gain := parentGini - weighted
			if gain > bestGain {
				bestGain = gain
				bestFeature = f
				bestThreshold = (cur + next) / 2
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, false
	}
	return bestFeature, bestThreshold, true
}

func countClasses(y []int, idx []int, numClasses int) []int {
	counts := make([]int, numClasses)
	for _, i := range idx {
		counts[y[i]]++
	}
	return counts
}

// predictProba routes one row to its leaf distribution
func (t *DecisionTree) predictProba(x []float64) []float64 {
	node := t.Root
	for node.Left != nil {
		if x[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Probs
}
