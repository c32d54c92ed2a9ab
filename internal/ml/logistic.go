package ml

import (
	"fmt"
	"math"
)

// LogisticRegression is a binary logistic model trained with full-batch
// gradient descent. Training involves no randomness, so fitting the same
// data always yields the same weights.
type LogisticRegression struct {
	Weights []float64
	Bias    float64

	LearningRate float64
	Epochs       int
	L2           float64
}

// NewLogisticRegression creates a logistic model with default hyperparameters
func NewLogisticRegression() *LogisticRegression {
	return &LogisticRegression{
		LearningRate: 0.1,
		Epochs:       500,
		L2:           1e-4,
	}
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

// Fit trains the model; y must contain labels 0 and 1
func (m *LogisticRegression) Fit(X [][]float64, y []int) error {
	if len(X) == 0 {
		return fmt.Errorf("logistic regression: empty training set")
	}
	if len(X) != len(y) {
		return fmt.Errorf("logistic regression: %d rows but %d labels", len(X), len(y))
	}

	dim := len(X[0])
	m.Weights = make([]float64, dim)
	m.Bias = 0

	n := float64(len(X))
	grad := make([]float64, dim)
	for epoch := 0; epoch < m.Epochs; epoch++ {
		for i := range grad {
			grad[i] = 0
		}
		var biasGrad float64
		for i, row := range X {
			err := sigmoid(m.decision(row)) - float64(y[i])
			for j, v := range row {
				grad[j] += err * v
			}
			biasGrad += err
		}
		for j := range m.Weights {
			m.Weights[j] -= m.LearningRate * (grad[j]/n + m.L2*m.Weights[j])
		}
		m.Bias -= m.LearningRate * biasGrad / n
	}
	return nil
}

func (m *LogisticRegression) decision(x []float64) float64 {
	z := m.Bias
	for j, w := range m.Weights {
		if j < len(x) {
			z += w * x[j]
		}
	}
	return z
}

// PredictProba returns [P(class 0), P(class 1)]
func (m *LogisticRegression) PredictProba(x []float64) []float64 {
	p := sigmoid(m.decision(x))
	return []float64{1 - p, p}
}

// NumClasses returns 2; the model is strictly binary
func (m *LogisticRegression) NumClasses() int {
	return 2
}

// Name identifies the model family
func (m *LogisticRegression) Name() string {
	return "logistic_regression"
}
