package training

import (
	"fmt"
	"math/rand"

	"github.com/mailsift/email-classifier/internal/ml"
)

// StratifiedFolds deals row indices into k folds, shuffling within each
// class by seed and distributing round-robin so fold class proportions track
// the corpus
func StratifiedFolds(labels []int, k int, seed int64) [][]int {
	folds := make([][]int, k)
	byClass := indicesByClass(labels)
	rng := rand.New(rand.NewSource(seed))

	next := 0
	for class := 0; class < len(byClass); class++ {
		idx := byClass[class]
		rng.Shuffle(len(idx), func(i, j int) {
			idx[i], idx[j] = idx[j], idx[i]
		})
		for _, i := range idx {
			folds[next%k] = append(folds[next%k], i)
			next++
		}
	}
	return folds
}

// CrossValScore runs k-fold cross-validation, fitting a fresh model per fold
// and returning the mean held-out accuracy
func CrossValScore(newModel func() ml.Classifier, X [][]float64, y []int, k int, seed int64) (float64, error) {
	if len(X) < k {
		return 0, fmt.Errorf("cross-validation needs at least %d rows, have %d", k, len(X))
	}

	folds := StratifiedFolds(y, k, seed)

	var total float64
	for f, holdout := range folds {
		if len(holdout) == 0 {
			continue
		}

		var trainIdx []int
		for g, fold := range folds {
			if g != f {
				trainIdx = append(trainIdx, fold...)
			}
		}

		model := newModel()
		if err := model.Fit(rowsAt(X, trainIdx), labelsAt(y, trainIdx)); err != nil {
			return 0, fmt.Errorf("fold %d: %w", f, err)
		}
		total += evalAccuracy(model, X, y, holdout)
	}
	return total / float64(k), nil
}

// evalAccuracy is the fraction of rows in idx whose argmax class matches y.
// Equal probabilities resolve to the lowest class index.
func evalAccuracy(model ml.Classifier, X [][]float64, y []int, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	correct := 0
	for _, i := range idx {
		if Argmax(model.PredictProba(X[i])) == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(idx))
}

// Argmax returns the index of the largest value, preferring the lowest index
// on ties
func Argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}

func rowsAt(X [][]float64, idx []int) [][]float64 {
	out := make([][]float64, len(idx))
	for i, j := range idx {
		out[i] = X[j]
	}
	return out
}

func labelsAt(y []int, idx []int) []int {
	out := make([]int, len(idx))
	for i, j := range idx {
		out[i] = y[j]
	}
	return out
}
