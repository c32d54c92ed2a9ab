package training

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mailsift/email-classifier/internal/core"
	"github.com/mailsift/email-classifier/internal/features"
	"github.com/mailsift/email-classifier/internal/labeling"
	"github.com/mailsift/email-classifier/internal/ml"
	"github.com/mailsift/email-classifier/internal/vectorspace"
	"go.uber.org/zap"
)

const cvFolds = 5

// Params are the training knobs supplied by the caller; the core never reads
// them from ambient configuration
type Params struct {
	TestFraction        float64
	Seed                int64
	MaxFeatures         int
	MinCorpusSize       int
	ConfidenceThreshold float64
}

// Report summarizes one training run
type Report struct {
	Samples                int
	CategoryCounts         map[string]int
	ImportantCount         int
	ImportanceModelName    string
	ImportanceCVAccuracy   float64
	ImportanceTestAccuracy float64
	CategoryCVAccuracy     float64
	CategoryTestAccuracy   float64
}

// Trainer runs the offline training pipeline: weak-label a corpus, fit the
// shared vector space, select and fit the importance classifier, fit the
// category classifier, and assemble the resulting bundle. One call is one
// independent run; no state survives between runs.
type Trainer struct {
	extractor *features.Extractor
	labeler   *labeling.Labeler
	params    Params
	logger    *zap.Logger
}

// NewTrainer creates a trainer
func NewTrainer(extractor *features.Extractor, labeler *labeling.Labeler, params Params, logger *zap.Logger) *Trainer {
	return &Trainer{
		extractor: extractor,
		labeler:   labeler,
		params:    params,
		logger:    logger,
	}
}

// BuildCorpus extracts features and weak labels for every email
func (t *Trainer) BuildCorpus(emails []core.Email) []core.LabeledExample {
	examples := make([]core.LabeledExample, 0, len(emails))
	for _, email := range emails {
		bag := t.extractor.Extract(email)
		category, confidence := t.labeler.Label(email.Subject, t.extractor.ResolveBody(email.Body))
		examples = append(examples, core.LabeledExample{
			Features:    bag,
			Category:    category,
			IsImportant: t.labeler.IsImportant(category, confidence),
			Confidence:  confidence,
		})
	}
	return examples
}

// Train runs the full pipeline over a raw email corpus and returns the
// fitted bundle plus accuracy metrics. The call blocks until both models are
// fitted; there is no retraining loop.
func (t *Trainer) Train(emails []core.Email) (*core.ModelBundle, *Report, error) {
	if len(emails) == 0 {
		return nil, nil, fmt.Errorf("training corpus is empty")
	}

	examples := t.BuildCorpus(emails)
	report := &Report{
		Samples:        len(examples),
		CategoryCounts: make(map[string]int),
	}
	for _, ex := range examples {
		report.CategoryCounts[ex.Category]++
		if ex.IsImportant {
			report.ImportantCount++
		}
	}

	t.logger.Info("Built training corpus",
		zap.Int("samples", report.Samples),
		zap.Int("important", report.ImportantCount))

	if len(examples) < t.params.MinCorpusSize {
		t.logger.Warn("Training corpus is very small; model quality will suffer",
			zap.Int("samples", len(examples)),
			zap.Int("recommended_minimum", t.params.MinCorpusSize))
	}

	docs := make([]string, len(examples))
	scalars := make([][]float64, len(examples))
	for i, ex := range examples {
		docs[i] = ex.Features.ProcessedText
		scalars[i] = ex.Features.ScalarVector()
	}

	space, err := vectorspace.Fit(docs, scalars, t.params.MaxFeatures)
	if err != nil {
		return nil, nil, fmt.Errorf("fitting vector space: %w", err)
	}

	X := make([][]float64, len(examples))
	for i := range examples {
		if X[i], err = space.Transform(docs[i], scalars[i]); err != nil {
			return nil, nil, fmt.Errorf("transforming corpus: %w", err)
		}
	}

	importanceModel, err := t.trainImportance(X, examples, report)
	if err != nil {
		return nil, nil, fmt.Errorf("training importance classifier: %w", err)
	}

	categoryModel, encoder, err := t.trainCategory(X, examples, report)
	if err != nil {
		return nil, nil, fmt.Errorf("training category classifier: %w", err)
	}

	bundle := &core.ModelBundle{
		ImportanceModel: importanceModel,
		CategoryModel:   categoryModel,
		Space:           space,
		Labels:          encoder,
		Metadata: core.BundleMetadata{
			RunID:                  uuid.NewString(),
			CreatedAt:              time.Now().UTC(),
			Categories:             t.labeler.Taxonomy().Names(),
			MaxFeatures:            t.params.MaxFeatures,
			ConfidenceThreshold:    t.params.ConfidenceThreshold,
			TrainingSize:           len(examples),
			ImportanceModelName:    report.ImportanceModelName,
			ImportanceCVAccuracy:   report.ImportanceCVAccuracy,
			ImportanceTestAccuracy: report.ImportanceTestAccuracy,
			CategoryCVAccuracy:     report.CategoryCVAccuracy,
			CategoryTestAccuracy:   report.CategoryTestAccuracy,
		},
	}
	return bundle, report, nil
}

// trainImportance cross-validates the candidate families on the training
// split, refits the winner, and reports its held-out accuracy
func (t *Trainer) trainImportance(X [][]float64, examples []core.LabeledExample, report *Report) (ml.Classifier, error) {
	y := make([]int, len(examples))
	for i, ex := range examples {
		if ex.IsImportant {
			y[i] = 1
		}
	}

	// Both importance classes must be present; a corpus that weak-labels
	// entirely one way cannot train a binary classifier
	trainIdx, testIdx, err := StratifiedSplit(y, 2, t.params.TestFraction, t.params.Seed)
	if err != nil {
		return nil, fmt.Errorf("importance split: %w", err)
	}

	trainX, trainY := rowsAt(X, trainIdx), labelsAt(y, trainIdx)

	candidates := []struct {
		name string
		make func() ml.Classifier
	}{
		{"logistic_regression", func() ml.Classifier { return ml.NewLogisticRegression() }},
		{"random_forest", func() ml.Classifier { return ml.NewRandomForest(100, 0, 2, t.params.Seed) }},
		{"linear_svm", func() ml.Classifier { return ml.NewLinearSVM(t.params.Seed) }},
	}

	var best ml.Classifier
	bestScore := -1.0
	for _, candidate := range candidates {
		score, err := CrossValScore(candidate.make, trainX, trainY, cvFolds, t.params.Seed)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", candidate.name, err)
		}
		t.logger.Info("Cross-validated importance candidate",
			zap.String("model", candidate.name),
			zap.Float64("cv_accuracy", score))

		if score > bestScore {
			bestScore = score
			best = candidate.make()
			report.ImportanceModelName = candidate.name
		}
	}

	if err := best.Fit(trainX, trainY); err != nil {
		return nil, err
	}

	report.ImportanceCVAccuracy = bestScore
	report.ImportanceTestAccuracy = evalAccuracy(best, X, y, testIdx)
	t.logger.Info("Selected importance classifier",
		zap.String("model", report.ImportanceModelName),
		zap.Float64("cv_accuracy", bestScore),
		zap.Float64("test_accuracy", report.ImportanceTestAccuracy))
	return best, nil
}

// trainCategory fits the fixed depth-capped forest on category labels,
// reusing the vector space fitted for the importance stage
func (t *Trainer) trainCategory(X [][]float64, examples []core.LabeledExample, report *Report) (ml.Classifier, *ml.LabelEncoder, error) {
	labels := make([]string, len(examples))
	for i, ex := range examples {
		labels[i] = ex.Category
	}
	encoder := ml.FitLabelEncoder(labels)
	y, err := encoder.TransformAll(labels)
	if err != nil {
		return nil, nil, err
	}

	trainIdx, testIdx, err := StratifiedSplit(y, encoder.NumClasses(), t.params.TestFraction, t.params.Seed)
	if err != nil {
		return nil, nil, fmt.Errorf("category split: %w", err)
	}
	trainX, trainY := rowsAt(X, trainIdx), labelsAt(y, trainIdx)

	cvScore, err := CrossValScore(func() ml.Classifier {
		return ml.NewRandomForest(200, 10, 5, t.params.Seed)
	}, trainX, trainY, cvFolds, t.params.Seed)
	if err != nil {
		return nil, nil, err
	}

	model := ml.NewRandomForest(200, 10, 5, t.params.Seed)
	if err := model.Fit(trainX, trainY); err != nil {
		return nil, nil, err
	}

	report.CategoryCVAccuracy = cvScore
	report.CategoryTestAccuracy = evalAccuracy(model, X, y, testIdx)
	t.logger.Info("Trained category classifier",
		zap.Int("classes", encoder.NumClasses()),
		zap.Float64("cv_accuracy", cvScore),
		zap.Float64("test_accuracy", report.CategoryTestAccuracy))
	return model, encoder, nil
}
