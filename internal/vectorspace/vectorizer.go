package vectorspace

import (
	"errors"
	"math"
	"sort"
	"strings"

	"github.com/mailsift/email-classifier/internal/textproc"
)

// ErrNotFitted is returned when Transform is called before Fit
var ErrNotFitted = errors.New("vector space not fitted")

// ErrEmptyVocabulary is returned when document-frequency pruning leaves no
// terms to build a vocabulary from
var ErrEmptyVocabulary = errors.New("empty vocabulary after pruning")

// Vectorizer is a TF-IDF term weighting over unigrams and bigrams. Fitting
// captures the vocabulary and inverse document frequencies; Transform reuses
// them verbatim and never refits.
type Vectorizer struct {
	MaxFeatures int
	MinDocFreq  int
	MaxDocShare float64
	Vocabulary  map[string]int
	IDF         []float64
}

// NewVectorizer creates an unfitted vectorizer with the standard pruning
// rules: terms in fewer than 2 documents or more than 95% of documents are
// excluded, and the vocabulary is capped at maxFeatures.
func NewVectorizer(maxFeatures int) *Vectorizer {
	return &Vectorizer{
		MaxFeatures: maxFeatures,
		MinDocFreq:  2,
		MaxDocShare: 0.95,
	}
}

// terms produces the unigram and bigram stream for one document. Stopwords
// are removed before bigrams are formed, mirroring how the normalized text
// was built.
func terms(doc string) []string {
	fields := strings.Fields(doc)
	tokens := make([]string, 0, len(fields))
	for _, tok := range fields {
		if !textproc.IsStopword(tok) {
			tokens = append(tokens, tok)
		}
	}

	out := make([]string, 0, 2*len(tokens))
	out = append(out, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}

// Fit builds the vocabulary and IDF weights from a corpus of normalized
// documents
func (v *Vectorizer) Fit(docs []string) error {
	n := len(docs)
	docFreq := make(map[string]int)
	termFreq := make(map[string]int)

	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, term := range terms(doc) {
			termFreq[term]++
			if _, ok := seen[term]; !ok {
				seen[term] = struct{}{}
				docFreq[term]++
			}
		}
	}

	maxDocs := int(v.MaxDocShare * float64(n))
	candidates := make([]string, 0, len(docFreq))
	for term, df := range docFreq {
		if df >= v.MinDocFreq && df <= maxDocs {
			candidates = append(candidates, term)
		}
	}
	if len(candidates) == 0 {
		return ErrEmptyVocabulary
	}

	// The cap keeps the most frequent terms across the corpus; name order
	// breaks frequency ties deterministically
	if v.MaxFeatures > 0 && len(candidates) > v.MaxFeatures {
		sort.Slice(candidates, func(i, j int) bool {
			if termFreq[candidates[i]] != termFreq[candidates[j]] {
				return termFreq[candidates[i]] > termFreq[candidates[j]]
			}
			return candidates[i] < candidates[j]
		})
		candidates = candidates[:v.MaxFeatures]
	}

	sort.Strings(candidates)
	v.Vocabulary = make(map[string]int, len(candidates))
	v.IDF = make([]float64, len(candidates))
	for i, term := range candidates {
		v.Vocabulary[term] = i
		v.IDF[i] = math.Log(float64(1+n)/float64(1+docFreq[term])) + 1
	}
	return nil
}

// NumFeatures returns the vocabulary size
func (v *Vectorizer) NumFeatures() int {
	return len(v.IDF)
}

// Transform maps one normalized document onto the fitted vocabulary as an
// L2-normalized TF-IDF vector
func (v *Vectorizer) Transform(doc string) ([]float64, error) {
	if v.Vocabulary == nil {
		return nil, ErrNotFitted
	}

	vec := make([]float64, len(v.IDF))
	for _, term := range terms(doc) {
		if idx, ok := v.Vocabulary[term]; ok {
			vec[idx]++
		}
	}

	var norm float64
	for i := range vec {
		vec[i] *= v.IDF[i]
		norm += vec[i] * vec[i]
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec, nil
}
