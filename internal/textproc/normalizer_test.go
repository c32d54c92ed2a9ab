package textproc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizer_Normalize_EmptyInput(t *testing.T) {
	n := NewNormalizer()
	assert.Equal(t, "", n.Normalize(""))
	assert.Equal(t, "", n.Normalize("   "))
}

func TestNormalizer_Normalize_StripsURLsAndAddresses(t *testing.T) {
	n := NewNormalizer()

	out := n.Normalize("visit https://example.com/page?x=1 today")
	assert.Equal(t, "visit today", out)

	out = n.Normalize("contact admin@example.com today")
	assert.NotContains(t, out, "admin")
	assert.NotContains(t, out, "example")
}

func TestNormalizer_Normalize_DropsStopwordsAndShortTokens(t *testing.T) {
	n := NewNormalizer()

	// Stopwords and tokens of two or fewer letters are removed
	assert.Equal(t, "", n.Normalize("the and of a an"))
	assert.Equal(t, "", n.Normalize("go is ok"))
}

func TestNormalizer_Normalize_StripsDigitsAndPunctuation(t *testing.T) {
	n := NewNormalizer()

	out := n.Normalize("win $5000 now!!!")
	assert.NotContains(t, out, "5000")
	assert.NotContains(t, out, "!")
	assert.NotContains(t, out, "$")
}

func TestNormalizer_Normalize_Idempotent(t *testing.T) {
	n := NewNormalizer()

	inputs := []string{
		"Exciting internship opportunity, apply before the deadline!",
		"Join our hackathon and win amazing prizes",
		"URGENT: scholarship applications are due Friday",
		// Words whose stems re-stem to something shorter
		"we agree on everything else",
		"communities organizing activities",
		"engineering opportunities everywhere",
	}
	for _, input := range inputs {
		once := n.Normalize(input)
		twice := n.Normalize(once)
		assert.Equal(t, once, twice, "normalizing twice must equal normalizing once for %q", input)
	}
}

func TestNormalizer_Normalize_IdempotentOverWordList(t *testing.T) {
	n := NewNormalizer()

	// Stemming must reach a fixed point for every token individually
	words := strings.Fields(`
		agree agreed agreement else eagerly generously communities community
		universities engineering opportunities positions applications
		deadline urgently immediately scholarship fellowship mentorship
		recruiting competitive championship submissions networking
	`)
	for _, word := range words {
		once := n.Normalize(word)
		assert.Equal(t, once, n.Normalize(once), "word %q", word)
	}
}

func TestNormalizer_Normalize_StemsTokens(t *testing.T) {
	n := NewNormalizer()

	out := n.Normalize("running quickly")
	// Stemming reduces inflected forms; exact stems are the library's business
	assert.NotEqual(t, "running quickly", out)
	assert.NotEmpty(t, out)
}
