package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"sync/atomic"

	"go.uber.org/zap"
)

// topCategoryFloor is the minimum probability for a category to appear in
// TopCategories
const topCategoryFloor = 0.1

// maxTopCategories caps the TopCategories list
const maxTopCategories = 3

// ClassifierService is the serving-side entry point. It owns an immutable
// model bundle reference that is swapped atomically on (re)load, so any
// number of concurrent callers can predict without locking and never observe
// a half-updated bundle.
type ClassifierService struct {
	extractor    FeatureExtractor
	store        ArtifactStore
	cache        PredictionCache
	logger       *zap.Logger
	cacheEnabled bool
	threshold    float64
	maxBatchSize int
	modelPath    string

	bundle atomic.Pointer[ModelBundle]
}

// NewClassifierService creates a classifier service. The service starts
// without a bundle; call LoadBundle (or UseBundle) before predicting.
func NewClassifierService(
	extractor FeatureExtractor,
	store ArtifactStore,
	cache PredictionCache,
	logger *zap.Logger,
	cacheEnabled bool,
	threshold float64,
	maxBatchSize int,
	modelPath string,
) *ClassifierService {
	return &ClassifierService{
		extractor:    extractor,
		store:        store,
		cache:        cache,
		logger:       logger,
		cacheEnabled: cacheEnabled && cache != nil,
		threshold:    threshold,
		maxBatchSize: maxBatchSize,
		modelPath:    modelPath,
	}
}

// LoadBundle reads the bundle from the configured path and swaps it in
// atomically. Safe to call while predictions are being served.
func (s *ClassifierService) LoadBundle() error {
	bundle, err := s.store.Load(s.modelPath)
	if err != nil {
		return err
	}
	s.bundle.Store(bundle)
	s.logger.Info("Model bundle active",
		zap.String("run_id", bundle.Metadata.RunID),
		zap.Int("training_samples", bundle.Metadata.TrainingSize))
	return nil
}

// UseBundle swaps in an already-built bundle, e.g. straight from a training
// run in the same process
func (s *ClassifierService) UseBundle(bundle *ModelBundle) {
	s.bundle.Store(bundle)
}

// Ready reports whether a bundle is loaded
func (s *ClassifierService) Ready() bool {
	return s.bundle.Load() != nil
}

// Predict classifies one email. It fails with ErrNotReady when no bundle is
// loaded. For a fixed bundle and input the result is deterministic.
func (s *ClassifierService) Predict(email Email) (*Prediction, error) {
	bundle := s.bundle.Load()
	if bundle == nil {
		return nil, ErrNotReady
	}

	var key string
	if s.cacheEnabled {
		key = contentKey(email)
		if cached, ok := s.cache.Get(key); ok {
			s.logger.Debug("Prediction cache hit", zap.String("key", key))
			return cached, nil
		}
	}

	bag := s.extractor.Extract(email)
	vec, err := bundle.Space.Transform(bag.ProcessedText, bag.ScalarVector())
	if err != nil {
		return nil, fmt.Errorf("transforming features: %w", err)
	}

	importanceProbs := bundle.ImportanceModel.PredictProba(vec)
	importance := importanceProbs[len(importanceProbs)-1]

	categoryProbs := bundle.CategoryModel.PredictProba(vec)
	primary := argmax(categoryProbs)

	prediction := &Prediction{
		IsImportant:          importance > s.threshold,
		ImportanceConfidence: importance,
		PrimaryCategory:      bundle.Labels.ClassName(primary),
		CategoryConfidence:   categoryProbs[primary],
		TopCategories:        topCategories(categoryProbs, bundle.Labels),
		TextLength:           bag.TotalLength,
		HasDeadline:          bag.HasDeadline,
		HasUrgent:            bag.HasUrgent,
		SenderDomain:         bag.SenderDomain,
	}

	if s.cacheEnabled {
		s.cache.Set(key, prediction)
	}
	return prediction, nil
}

// PredictBatch classifies each email independently. A failure on one input
// becomes a per-index error entry and never aborts the rest of the batch.
func (s *ClassifierService) PredictBatch(emails []Email) ([]IndexedPrediction, []BatchError, error) {
	if !s.Ready() {
		return nil, nil, ErrNotReady
	}
	if s.maxBatchSize > 0 && len(emails) > s.maxBatchSize {
		return nil, nil, fmt.Errorf("%w: %d emails, limit %d", ErrBatchTooLarge, len(emails), s.maxBatchSize)
	}

	predictions := make([]IndexedPrediction, 0, len(emails))
	var errors []BatchError
	for i, email := range emails {
		p, err := s.Predict(email)
		if err != nil {
			errors = append(errors, BatchError{Index: i, Message: err.Error()})
			continue
		}
		predictions = append(predictions, IndexedPrediction{Index: i, Prediction: p})
	}
	return predictions, errors, nil
}

// Info describes the loaded bundle; Loaded is false when none is active
func (s *ClassifierService) Info() *ModelInfo {
	bundle := s.bundle.Load()
	if bundle == nil {
		return &ModelInfo{}
	}
	meta := bundle.Metadata
	return &ModelInfo{
		Loaded:              true,
		RunID:               meta.RunID,
		CreatedAt:           meta.CreatedAt,
		Categories:          bundle.Labels.Classes,
		MaxFeatures:         meta.MaxFeatures,
		ConfidenceThreshold: s.threshold,
		TrainingSize:        meta.TrainingSize,
		ImportanceModelName: meta.ImportanceModelName,
	}
}

// topCategories lists every category above the probability floor, most
// confident first, truncated to maxTopCategories
func topCategories(probs []float64, labels interface{ ClassName(int) string }) []CategoryScore {
	scores := make([]CategoryScore, 0, maxTopCategories)
	for i, p := range probs {
		if p > topCategoryFloor {
			scores = append(scores, CategoryScore{Name: labels.ClassName(i), Confidence: p})
		}
	}
	sort.SliceStable(scores, func(a, b int) bool {
		return scores[a].Confidence > scores[b].Confidence
	})
	if len(scores) > maxTopCategories {
		scores = scores[:maxTopCategories]
	}
	return scores
}

// argmax returns the index of the largest probability; ties resolve to the
// lowest class index
func argmax(probs []float64) int {
	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}
	return best
}

// contentKey derives the cache key for an email from its full content
func contentKey(email Email) string {
	h := sha256.New()
	h.Write([]byte(email.Subject))
	h.Write([]byte{0})
	h.Write([]byte(email.Body.Text))
	h.Write([]byte{0})
	h.Write([]byte(email.Body.HTML))
	h.Write([]byte{0})
	h.Write([]byte(email.Sender))
	return hex.EncodeToString(h.Sum(nil))
}
