package vectorspace

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorizer_Transform_BeforeFit(t *testing.T) {
	v := NewVectorizer(100)
	_, err := v.Transform("alpha")
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestVectorizer_Fit_PrunesRareTerms(t *testing.T) {
	v := NewVectorizer(100)

	// "alpha" appears in two documents; everything else in one
	err := v.Fit([]string{"alpha beta", "alpha gamma", "delta epsilon"})
	require.NoError(t, err)

	assert.Equal(t, 1, v.NumFeatures())
	assert.Contains(t, v.Vocabulary, "alpha")
	assert.NotContains(t, v.Vocabulary, "beta")
}

func TestVectorizer_Fit_PrunesUbiquitousTerms(t *testing.T) {
	v := NewVectorizer(100)

	// "alpha" appears in all three documents, above the 95% share ceiling
	err := v.Fit([]string{"alpha beta", "alpha beta", "alpha gamma"})
	require.NoError(t, err)

	assert.NotContains(t, v.Vocabulary, "alpha")
	assert.Contains(t, v.Vocabulary, "beta")
	// The bigram survives: it is in only two of three documents
	assert.Contains(t, v.Vocabulary, "alpha beta")
}

func TestVectorizer_Fit_EmptyVocabulary(t *testing.T) {
	v := NewVectorizer(100)

	// No term reaches the minimum document frequency of two
	err := v.Fit([]string{"alpha", "beta", "gamma"})
	assert.ErrorIs(t, err, ErrEmptyVocabulary)
}

func TestVectorizer_Fit_CapsVocabulary(t *testing.T) {
	v := NewVectorizer(1)

	err := v.Fit([]string{"alpha beta", "alpha beta", "alpha gamma"})
	require.NoError(t, err)

	assert.Equal(t, 1, v.NumFeatures())
}

func TestVectorizer_Transform_L2Normalized(t *testing.T) {
	v := NewVectorizer(100)
	require.NoError(t, v.Fit([]string{
		"apple banana", "apple banana", "apple cherry", "banana cherry",
	}))

	vec, err := v.Transform("apple banana cherry")
	require.NoError(t, err)

	var norm float64
	for _, x := range vec {
		norm += x * x
	}
	assert.InDelta(t, 1.0, norm, 1e-9)
}

func TestVectorizer_Transform_UnknownTermsIgnored(t *testing.T) {
	v := NewVectorizer(100)
	require.NoError(t, v.Fit([]string{"alpha beta", "alpha gamma"}))

	vec, err := v.Transform("zeta eta theta")
	require.NoError(t, err)
	for _, x := range vec {
		assert.Equal(t, 0.0, x)
	}
}

func TestVectorizer_Transform_Deterministic(t *testing.T) {
	docs := []string{"alpha beta gamma", "alpha beta", "gamma delta", "alpha delta"}

	v1 := NewVectorizer(100)
	v2 := NewVectorizer(100)
	require.NoError(t, v1.Fit(docs))
	require.NoError(t, v2.Fit(docs))

	assert.Equal(t, v1.Vocabulary, v2.Vocabulary)
	assert.Equal(t, v1.IDF, v2.IDF)
}

func TestScaler_FitTransform(t *testing.T) {
	s := NewScaler()
	require.NoError(t, s.Fit([][]float64{{1, 5}, {3, 5}}))

	// First feature: mean 2, population std 1. Second feature is constant.
	out, err := s.Transform([]float64{3, 5})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, out[0], 1e-9)
	assert.InDelta(t, 0.0, out[1], 1e-9)
}

func TestScaler_Transform_WidthMismatch(t *testing.T) {
	s := NewScaler()
	require.NoError(t, s.Fit([][]float64{{1}, {2}}))

	_, err := s.Transform([]float64{1, 2})
	assert.Error(t, err)
}

func TestScaler_Transform_BeforeFit(t *testing.T) {
	s := NewScaler()
	_, err := s.Transform([]float64{1})
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestVectorSpace_Transform_Layout(t *testing.T) {
	docs := []string{"alpha beta", "alpha beta", "alpha gamma"}
	scalars := [][]float64{{1, 0}, {2, 0}, {3, 0}}

	space, err := Fit(docs, scalars, 100)
	require.NoError(t, err)

	vec, err := space.Transform("alpha beta", []float64{2, 0})
	require.NoError(t, err)

	assert.Equal(t, space.Dim(), len(vec))
	assert.Equal(t, space.Text.NumFeatures()+2, len(vec))

	// The scalar block follows the text block: feature one has mean 2, so a
	// value of 2 standardizes to zero
	assert.InDelta(t, 0.0, vec[space.Text.NumFeatures()], 1e-9)
}

func TestVectorSpace_TrainServeParity(t *testing.T) {
	docs := []string{"alpha beta", "alpha beta gamma", "alpha gamma", "beta gamma"}
	scalars := [][]float64{{1}, {2}, {3}, {4}}

	space, err := Fit(docs, scalars, 100)
	require.NoError(t, err)

	// Transforming a training document twice yields identical vectors
	a, err := space.Transform(docs[1], scalars[1])
	require.NoError(t, err)
	b, err := space.Transform(docs[1], scalars[1])
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestVectorizer_IDF_Smoothed(t *testing.T) {
	v := NewVectorizer(100)
	require.NoError(t, v.Fit([]string{"alpha beta", "alpha beta", "alpha gamma"}))

	// df("beta") = 2 over n = 3: idf = ln(4/3) + 1
	idx, ok := v.Vocabulary["beta"]
	require.True(t, ok)
	assert.InDelta(t, math.Log(4.0/3.0)+1, v.IDF[idx], 1e-9)
}
