package ml

import (
	"fmt"
	"math"
	"math/rand"
)

// LinearSVM is a margin-based binary classifier trained with Pegasos-style
// stochastic subgradient descent on the hinge loss. Probabilities are a
// logistic squash of the margin; they are usable as confidence scores but
// carry no calibration guarantee.
type LinearSVM struct {
	Weights []float64
	Bias    float64

	Lambda float64
	Epochs int
	Seed   int64
}

// NewLinearSVM creates a linear margin model with default hyperparameters
func NewLinearSVM(seed int64) *LinearSVM {
	return &LinearSVM{
		Lambda: 1e-4,
		Epochs: 200,
		Seed:   seed,
	}
}

// Fit trains the model; y must contain labels 0 and 1
func (m *LinearSVM) Fit(X [][]float64, y []int) error {
	if len(X) == 0 {
		return fmt.Errorf("linear svm: empty training set")
	}
	if len(X) != len(y) {
		return fmt.Errorf("linear svm: %d rows but %d labels", len(X), len(y))
	}

	dim := len(X[0])
	m.Weights = make([]float64, dim)
	m.Bias = 0

	rng := rand.New(rand.NewSource(m.Seed))
	order := make([]int, len(X))
	for i := range order {
		order[i] = i
	}

	t := 1
	for epoch := 0; epoch < m.Epochs; epoch++ {
		rng.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
		for _, i := range order {
			eta := 1.0 / (m.Lambda * float64(t))
			t++

			target := float64(2*y[i] - 1) // {0,1} -> {-1,+1}
			margin := target * m.decision(X[i])

			for j := range m.Weights {
				m.Weights[j] *= 1 - eta*m.Lambda
			}
			if margin < 1 {
				for j, v := range X[i] {
					m.Weights[j] += eta * target * v
				}
				m.Bias += eta * target
			}
		}
	}
	return nil
}

func (m *LinearSVM) decision(x []float64) float64 {
	z := m.Bias
	for j, w := range m.Weights {
		if j < len(x) {
			z += w * x[j]
		}
	}
	return z
}

// PredictProba returns [P(class 0), P(class 1)] derived from the margin
func (m *LinearSVM) PredictProba(x []float64) []float64 {
	p := 1.0 / (1.0 + math.Exp(-m.decision(x)))
	return []float64{1 - p, p}
}

// NumClasses returns 2; the model is strictly binary
func (m *LinearSVM) NumClasses() int {
	return 2
}

// Name identifies the model family
func (m *LinearSVM) Name() string {
	return "linear_svm"
}
