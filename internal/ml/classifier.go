// Package ml implements the classifier families the trainer selects from.
// All models operate on dense feature vectors produced by the fitted vector
// space and are deterministic for a fixed seed.
package ml

// Classifier is a trainable probabilistic classifier over dense vectors
type Classifier interface {
	// Fit trains the model on rows X with class labels y in [0, numClasses)
	Fit(X [][]float64, y []int) error

	// PredictProba returns the per-class probability vector for one row.
	// Repeated calls on a fitted, unmodified model return identical values.
	PredictProba(x []float64) []float64

	// NumClasses returns the number of classes seen at fit time
	NumClasses() int

	// Name identifies the model family
	Name() string
}
