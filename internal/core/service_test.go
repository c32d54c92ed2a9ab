package core

import (
	"testing"

	"github.com/mailsift/email-classifier/internal/ml"
	"github.com/mailsift/email-classifier/internal/vectorspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubExtractor returns a fixed FeatureBag and counts invocations
type stubExtractor struct {
	calls int
}

func (s *stubExtractor) Extract(email Email) FeatureBag {
	s.calls++
	return FeatureBag{
		ProcessedText: "alpha beta",
		SubjectLength: len(email.Subject),
		TotalLength:   len(email.Subject) + len(email.Body.Text) + 1,
		HasDeadline:   true,
		SenderDomain:  "example.com",
	}
}

// stubClassifier returns fixed probabilities
type stubClassifier struct {
	probs []float64
}

func (s *stubClassifier) Fit(X [][]float64, y []int) error { return nil }
func (s *stubClassifier) PredictProba(x []float64) []float64 {
	return append([]float64{}, s.probs...)
}
func (s *stubClassifier) NumClasses() int { return len(s.probs) }
func (s *stubClassifier) Name() string    { return "stub" }

// mapCache is an in-memory PredictionCache without expiry
type mapCache struct {
	entries map[string]*Prediction
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]*Prediction)}
}

func (c *mapCache) Get(key string) (*Prediction, bool) {
	p, ok := c.entries[key]
	return p, ok
}
func (c *mapCache) Set(key string, p *Prediction) { c.entries[key] = p }
func (c *mapCache) Stop()                         {}

type nopStore struct{}

func (nopStore) Save(bundle *ModelBundle, path string) error { return nil }
func (nopStore) Load(path string) (*ModelBundle, error)      { return nil, ErrArtifactNotFound }

// testSpace builds a fitted vector space matching the stub extractor output
func testSpace(t *testing.T) *vectorspace.VectorSpace {
	t.Helper()
	docs := []string{"alpha beta", "alpha beta", "alpha gamma"}
	scalars := make([][]float64, 3)
	for i := range scalars {
		row := FeatureBag{SubjectLength: i}.ScalarVector()
		scalars[i] = row
	}
	space, err := vectorspace.Fit(docs, scalars, 100)
	require.NoError(t, err)
	return space
}

func testBundle(t *testing.T, importance, category *stubClassifier, classes []string) *ModelBundle {
	t.Helper()
	return &ModelBundle{
		ImportanceModel: importance,
		CategoryModel:   category,
		Space:           testSpace(t),
		Labels:          &ml.LabelEncoder{Classes: classes},
		Metadata: BundleMetadata{
			RunID:        "run-1",
			TrainingSize: 3,
		},
	}
}

func newTestService(cache PredictionCache, maxBatch int) (*ClassifierService, *stubExtractor) {
	extractor := &stubExtractor{}
	svc := NewClassifierService(extractor, nopStore{}, cache, zap.NewNop(), cache != nil, 0.5, maxBatch, "unused")
	return svc, extractor
}

func TestClassifierService_Predict_NotReady(t *testing.T) {
	svc, _ := newTestService(nil, 10)

	assert.False(t, svc.Ready())
	_, err := svc.Predict(Email{Subject: "x"})
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestClassifierService_Predict(t *testing.T) {
	svc, _ := newTestService(nil, 10)
	svc.UseBundle(testBundle(t,
		&stubClassifier{probs: []float64{0.2, 0.8}},
		&stubClassifier{probs: []float64{0.05, 0.5, 0.3, 0.15}},
		[]string{"contests", "events", "jobs", "other"},
	))

	p, err := svc.Predict(Email{Subject: "hello", Body: PlainBody("world")})
	require.NoError(t, err)

	assert.True(t, p.IsImportant)
	assert.InDelta(t, 0.8, p.ImportanceConfidence, 1e-9)
	assert.Equal(t, "events", p.PrimaryCategory)
	assert.InDelta(t, 0.5, p.CategoryConfidence, 1e-9)
	assert.True(t, p.HasDeadline)
	assert.Equal(t, "example.com", p.SenderDomain)

	// Everything above the floor, most confident first, capped at three
	require.Len(t, p.TopCategories, 3)
	assert.Equal(t, "events", p.TopCategories[0].Name)
	assert.Equal(t, "jobs", p.TopCategories[1].Name)
	assert.Equal(t, "other", p.TopCategories[2].Name)
}

func TestClassifierService_Predict_BelowThresholdNotImportant(t *testing.T) {
	svc, _ := newTestService(nil, 10)
	svc.UseBundle(testBundle(t,
		&stubClassifier{probs: []float64{0.6, 0.4}},
		&stubClassifier{probs: []float64{1.0}},
		[]string{"other"},
	))

	p, err := svc.Predict(Email{Subject: "x"})
	require.NoError(t, err)
	assert.False(t, p.IsImportant)
}

func TestClassifierService_Predict_CacheHit(t *testing.T) {
	cache := newMapCache()
	svc, extractor := newTestService(cache, 10)
	svc.UseBundle(testBundle(t,
		&stubClassifier{probs: []float64{0.2, 0.8}},
		&stubClassifier{probs: []float64{1.0}},
		[]string{"other"},
	))

	email := Email{Subject: "same", Body: PlainBody("content")}
	first, err := svc.Predict(email)
	require.NoError(t, err)
	second, err := svc.Predict(email)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, extractor.calls)

	// A different email misses the cache
	_, err = svc.Predict(Email{Subject: "different", Body: PlainBody("content")})
	require.NoError(t, err)
	assert.Equal(t, 2, extractor.calls)
}

func TestClassifierService_PredictBatch(t *testing.T) {
	svc, _ := newTestService(nil, 10)
	svc.UseBundle(testBundle(t,
		&stubClassifier{probs: []float64{0.2, 0.8}},
		&stubClassifier{probs: []float64{1.0}},
		[]string{"other"},
	))

	emails := []Email{
		{Subject: "one"}, {Subject: "two"}, {Subject: "three"},
	}
	predictions, batchErrors, err := svc.PredictBatch(emails)
	require.NoError(t, err)

	assert.Empty(t, batchErrors)
	require.Len(t, predictions, 3)
	for i, p := range predictions {
		assert.Equal(t, i, p.Index)
		assert.NotNil(t, p.Prediction)
	}
}

func TestClassifierService_PredictBatch_NotReady(t *testing.T) {
	svc, _ := newTestService(nil, 10)

	_, _, err := svc.PredictBatch([]Email{{Subject: "x"}})
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestClassifierService_PredictBatch_TooLarge(t *testing.T) {
	svc, _ := newTestService(nil, 2)
	svc.UseBundle(testBundle(t,
		&stubClassifier{probs: []float64{0.2, 0.8}},
		&stubClassifier{probs: []float64{1.0}},
		[]string{"other"},
	))

	_, _, err := svc.PredictBatch([]Email{{}, {}, {}})
	assert.ErrorIs(t, err, ErrBatchTooLarge)
	assert.Equal(t, KindBadInput, Kind(err))
}

func TestClassifierService_Info(t *testing.T) {
	svc, _ := newTestService(nil, 10)

	info := svc.Info()
	assert.False(t, info.Loaded)

	svc.UseBundle(testBundle(t,
		&stubClassifier{probs: []float64{0.2, 0.8}},
		&stubClassifier{probs: []float64{1.0}},
		[]string{"other"},
	))

	info = svc.Info()
	assert.True(t, info.Loaded)
	assert.Equal(t, "run-1", info.RunID)
	assert.Equal(t, []string{"other"}, info.Categories)
	assert.Equal(t, 3, info.TrainingSize)
}

func TestKind(t *testing.T) {
	assert.Equal(t, KindNotReady, Kind(ErrNotReady))
	assert.Equal(t, KindNotFound, Kind(ErrArtifactNotFound))
	assert.Equal(t, KindCorrupt, Kind(ErrArtifactCorrupt))
	assert.Equal(t, KindInternal, Kind(assert.AnError))
}
