package vectorspace

// VectorSpace is the shared feature space both classifiers operate on: the
// fitted term-weighting vectorizer plus the fitted scalar-block scaler.
// It is created once per training run and must be persisted and loaded
// together with the classifiers fitted against it; transforming through it
// never refits.
type VectorSpace struct {
	Text    *Vectorizer
	Scalars *Scaler
}

// Fit builds a vector space from the full training corpus: normalized
// documents and their aligned scalar feature rows
func Fit(docs []string, scalarRows [][]float64, maxFeatures int) (*VectorSpace, error) {
	vectorizer := NewVectorizer(maxFeatures)
	if err := vectorizer.Fit(docs); err != nil {
		return nil, err
	}

	scaler := NewScaler()
	if err := scaler.Fit(scalarRows); err != nil {
		return nil, err
	}

	return &VectorSpace{Text: vectorizer, Scalars: scaler}, nil
}

// Dim returns the width of vectors produced by Transform
func (s *VectorSpace) Dim() int {
	return s.Text.NumFeatures() + len(s.Scalars.Mean)
}

// Transform maps one document and its scalar features onto the fitted space.
// The layout is fixed: TF-IDF block first, then the standardized scalar
// block, and both sides of the persistence boundary rely on that order.
func (s *VectorSpace) Transform(doc string, scalars []float64) ([]float64, error) {
	if s == nil || s.Text == nil || s.Scalars == nil {
		return nil, ErrNotFitted
	}

	text, err := s.Text.Transform(doc)
	if err != nil {
		return nil, err
	}
	scaled, err := s.Scalars.Transform(scalars)
	if err != nil {
		return nil, err
	}

	return append(text, scaled...), nil
}
