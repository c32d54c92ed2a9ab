package textproc

import (
	"regexp"
	"strings"

	"github.com/kljensen/snowball/english"
)

var (
	urlRe       = regexp.MustCompile(`http[s]?://\S+`)
	emailRe     = regexp.MustCompile(`\S+@\S+`)
	nonLetterRe = regexp.MustCompile(`[^a-zA-Z\s]`)
)

// Normalizer reduces raw email text to a normalized, stemmed, stopword-free
// token string suitable for vectorization
type Normalizer struct{}

// NewNormalizer creates a new text normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize runs the full normalization pipeline: lowercase, strip URLs and
// email addresses, keep letters only, tokenize, drop stopwords and short
// tokens, stem, and rejoin with single spaces. Empty input yields an empty
// string. Stemming runs to a fixed point and the stopword/length filter runs
// again afterwards, so normalizing already-normalized text is a no-op.
func (n *Normalizer) Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	text := strings.ToLower(raw)
	text = urlRe.ReplaceAllString(text, "")
	text = emailRe.ReplaceAllString(text, "")
	text = nonLetterRe.ReplaceAllString(text, "")

	tokens := strings.Fields(text)
	kept := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if len(tok) <= 2 || IsStopword(tok) {
			continue
		}
		stemmed := stemFixed(tok)
		if len(stemmed) <= 2 || IsStopword(stemmed) {
			continue
		}
		kept = append(kept, stemmed)
	}

	return strings.Join(kept, " ")
}

// stemFixed stems until the output stops changing. A single snowball pass is
// not a fixed point (e.g. "agree" -> "agre" -> "agr"), and idempotent
// normalization requires one.
func stemFixed(tok string) string {
	for {
		next := english.Stem(tok, false)
		if next == tok {
			return tok
		}
		tok = next
	}
}
