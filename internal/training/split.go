package training

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// ErrCannotStratify is returned when a label class has too few examples to
// appear on both sides of a stratified split
var ErrCannotStratify = errors.New("cannot stratify split")

// StratifiedSplit partitions row indices into train and test sets, keeping
// each class's proportion in both and shuffling deterministically by seed.
// Each of the numClasses classes must have at least two examples; a class
// with no examples at all is an error, not a silent skip, so a degenerate
// single-class corpus never reaches model training.
func StratifiedSplit(labels []int, numClasses int, testFraction float64, seed int64) ([]int, []int, error) {
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, fmt.Errorf("test fraction %v out of range (0, 1)", testFraction)
	}

	byClass := indicesByClass(labels)
	for len(byClass) < numClasses {
		byClass = append(byClass, nil)
	}
	rng := rand.New(rand.NewSource(seed))

	var train, test []int
	for class := 0; class < len(byClass); class++ {
		idx := byClass[class]
		if len(idx) < 2 {
			return nil, nil, fmt.Errorf("%w: class %d has %d example(s)", ErrCannotStratify, class, len(idx))
		}

		rng.Shuffle(len(idx), func(i, j int) {
			idx[i], idx[j] = idx[j], idx[i]
		})

		nTest := int(math.Round(float64(len(idx)) * testFraction))
		if nTest < 1 {
			nTest = 1
		}
		if nTest > len(idx)-1 {
			nTest = len(idx) - 1
		}

		test = append(test, idx[:nTest]...)
		train = append(train, idx[nTest:]...)
	}
	return train, test, nil
}

// indicesByClass groups row indices by label, ordered by class id so
// iteration is deterministic
func indicesByClass(labels []int) [][]int {
	maxClass := -1
	for _, label := range labels {
		if label > maxClass {
			maxClass = label
		}
	}
	byClass := make([][]int, maxClass+1)
	for i, label := range labels {
		byClass[label] = append(byClass[label], i)
	}
	return byClass
}
