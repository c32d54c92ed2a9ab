package core

import (
	"encoding/json"
	"time"

	"github.com/mailsift/email-classifier/internal/ml"
	"github.com/mailsift/email-classifier/internal/vectorspace"
)

// Body is the body of an email message. It is either a plain-text string or
// a {text, html} pair from a multipart message; Structured distinguishes the
// two forms.
type Body struct {
	Text       string
	HTML       string
	Structured bool
}

// PlainBody creates a Body from pre-extracted plain text
func PlainBody(text string) Body {
	return Body{Text: text}
}

// CompositeBody creates a Body from a text/html pair
func CompositeBody(text, html string) Body {
	return Body{Text: text, HTML: html, Structured: true}
}

// UnmarshalJSON accepts the body either as a JSON string or as a
// {"text": ..., "html": ...} object
func (b *Body) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		*b = PlainBody(plain)
		return nil
	}

	var composite struct {
		Text string `json:"text"`
		HTML string `json:"html"`
	}
	if err := json.Unmarshal(data, &composite); err != nil {
		return err
	}
	*b = CompositeBody(composite.Text, composite.HTML)
	return nil
}

// MarshalJSON emits the form the body was constructed with
func (b Body) MarshalJSON() ([]byte, error) {
	if !b.Structured {
		return json.Marshal(b.Text)
	}
	return json.Marshal(struct {
		Text string `json:"text,omitempty"`
		HTML string `json:"html,omitempty"`
	}{Text: b.Text, HTML: b.HTML})
}

// Email represents a raw inbound email message
type Email struct {
	Subject string `json:"subject"`
	Body    Body   `json:"body"`
	Sender  string `json:"sender,omitempty"`
}

// FeatureBag holds the features extracted from a single email. It is
// immutable once produced.
type FeatureBag struct {
	ProcessedText    string
	SubjectLength    int
	BodyLength       int
	TotalLength      int
	SenderDomain     string
	HasDeadline      bool
	HasUrgent        bool
	HasApply         bool
	HasOpportunity   bool
	WordCount        int
	ExclamationCount int
	QuestionCount    int
	CapsRatio        float64
}

// ScalarVector returns the scalar feature block in the fixed order shared by
// training and prediction: numerical features first, then boolean flags as 0/1.
func (f FeatureBag) ScalarVector() []float64 {
	b := func(v bool) float64 {
		if v {
			return 1
		}
		return 0
	}
	return []float64{
		float64(f.SubjectLength),
		float64(f.BodyLength),
		float64(f.WordCount),
		float64(f.ExclamationCount),
		float64(f.QuestionCount),
		f.CapsRatio,
		b(f.HasDeadline),
		b(f.HasUrgent),
		b(f.HasApply),
		b(f.HasOpportunity),
	}
}

// NumScalarFeatures is the width of the scalar feature block
const NumScalarFeatures = 10

// LabeledExample is a FeatureBag with weak-supervision labels attached.
// Produced only while building a training corpus.
type LabeledExample struct {
	Features    FeatureBag
	Category    string
	IsImportant bool
	Confidence  float64
}

// CategoryScore is a category name with its predicted probability
type CategoryScore struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// Prediction is the structured result of classifying one email
type Prediction struct {
	IsImportant          bool            `json:"isImportant"`
	ImportanceConfidence float64         `json:"confidence"`
	PrimaryCategory      string          `json:"primaryCategory"`
	CategoryConfidence   float64         `json:"categoryConfidence"`
	TopCategories        []CategoryScore `json:"categories"`
	TextLength           int             `json:"textLength"`
	HasDeadline          bool            `json:"hasDeadline"`
	HasUrgent            bool            `json:"hasUrgent"`
	SenderDomain         string          `json:"senderDomain"`
}

// BundleMetadata describes a ModelBundle so a loaded bundle is self-describing
type BundleMetadata struct {
	RunID                  string
	CreatedAt              time.Time
	Categories             []string
	MaxFeatures            int
	ConfidenceThreshold    float64
	TrainingSize           int
	ImportanceModelName    string
	ImportanceCVAccuracy   float64
	ImportanceTestAccuracy float64
	CategoryCVAccuracy     float64
	CategoryTestAccuracy   float64
}

// ModelBundle couples the two fitted classifiers to the exact vector space and
// label encoding they were trained against. It is persisted and loaded as one
// unit and must never be mutated after load.
type ModelBundle struct {
	ImportanceModel ml.Classifier
	CategoryModel   ml.Classifier
	Space           *vectorspace.VectorSpace
	Labels          *ml.LabelEncoder
	Metadata        BundleMetadata
}

// IndexedPrediction is one successful entry of a batch prediction
type IndexedPrediction struct {
	Index      int         `json:"index"`
	Prediction *Prediction `json:"prediction"`
}

// BatchError is one failed entry of a batch prediction
type BatchError struct {
	Index   int    `json:"index"`
	Message string `json:"error"`
}

// ModelInfo summarizes the currently loaded bundle for callers
type ModelInfo struct {
	Loaded              bool      `json:"models_loaded"`
	RunID               string    `json:"run_id,omitempty"`
	CreatedAt           time.Time `json:"created_at,omitempty"`
	Categories          []string  `json:"categories,omitempty"`
	MaxFeatures         int       `json:"max_features,omitempty"`
	ConfidenceThreshold float64   `json:"min_confidence,omitempty"`
	TrainingSize        int       `json:"training_samples,omitempty"`
	ImportanceModelName string    `json:"importance_model,omitempty"`
}
