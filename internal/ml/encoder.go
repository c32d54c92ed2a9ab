package ml

import (
	"fmt"
	"sort"
)

// LabelEncoder maps category names onto a dense integer space. Classes are
// stored sorted, so class index order is alphabetical and stable across
// training and serving.
type LabelEncoder struct {
	Classes []string
}

// FitLabelEncoder builds an encoder from the labels present in a corpus
func FitLabelEncoder(labels []string) *LabelEncoder {
	seen := make(map[string]struct{})
	classes := make([]string, 0)
	for _, label := range labels {
		if _, ok := seen[label]; !ok {
			seen[label] = struct{}{}
			classes = append(classes, label)
		}
	}
	sort.Strings(classes)
	return &LabelEncoder{Classes: classes}
}

// Transform returns the class index for a label
func (e *LabelEncoder) Transform(label string) (int, error) {
	for i, class := range e.Classes {
		if class == label {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown label %q", label)
}

// TransformAll encodes a label slice
func (e *LabelEncoder) TransformAll(labels []string) ([]int, error) {
	out := make([]int, len(labels))
	for i, label := range labels {
		idx, err := e.Transform(label)
		if err != nil {
			return nil, err
		}
		out[i] = idx
	}
	return out, nil
}

// ClassName returns the label for a class index
func (e *LabelEncoder) ClassName(idx int) string {
	if idx < 0 || idx >= len(e.Classes) {
		return ""
	}
	return e.Classes[idx]
}

// NumClasses returns the encoded class count
func (e *LabelEncoder) NumClasses() int {
	return len(e.Classes)
}
