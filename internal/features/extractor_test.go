package features

import (
	"testing"

	"github.com/mailsift/email-classifier/internal/core"
	"github.com/mailsift/email-classifier/internal/textproc"
	"github.com/stretchr/testify/assert"
)

func newTestExtractor(maxTextLength int) *Extractor {
	return NewExtractor(textproc.NewNormalizer(), textproc.NewHTMLConverter(), maxTextLength)
}

func TestExtractor_Extract_EmptyEmail(t *testing.T) {
	e := newTestExtractor(0)

	bag := e.Extract(core.Email{})

	assert.Equal(t, "", bag.ProcessedText)
	assert.Equal(t, 0, bag.SubjectLength)
	assert.Equal(t, 0, bag.BodyLength)
	assert.Equal(t, 0, bag.WordCount)
	assert.Equal(t, 0, bag.ExclamationCount)
	assert.Equal(t, 0, bag.QuestionCount)
	assert.Equal(t, 0.0, bag.CapsRatio)
	assert.Equal(t, "", bag.SenderDomain)
	assert.False(t, bag.HasDeadline)
	assert.False(t, bag.HasUrgent)
	assert.False(t, bag.HasApply)
	assert.False(t, bag.HasOpportunity)
}

func TestExtractor_Extract_KeywordFlags(t *testing.T) {
	e := newTestExtractor(0)

	bag := e.Extract(core.Email{
		Subject: "URGENT: apply before the Deadline",
		Body:    core.PlainBody("This opportunity closes Friday. Act ASAP!"),
	})

	assert.True(t, bag.HasDeadline)
	assert.True(t, bag.HasUrgent)
	assert.True(t, bag.HasApply)
	assert.True(t, bag.HasOpportunity)
	assert.Equal(t, 1, bag.ExclamationCount)
}

func TestExtractor_Extract_Counts(t *testing.T) {
	e := newTestExtractor(0)

	bag := e.Extract(core.Email{
		Subject: "Hello?",
		Body:    core.PlainBody("Are you there? Yes!! Great!"),
	})

	assert.Equal(t, 2, bag.QuestionCount)
	assert.Equal(t, 3, bag.ExclamationCount)
	assert.Equal(t, 6, bag.WordCount)
	assert.Equal(t, len("Hello?"), bag.SubjectLength)
}

func TestExtractor_Extract_CapsRatio(t *testing.T) {
	e := newTestExtractor(0)

	// Subject "ABC" with empty body gives full text "ABC " (3 upper, 4 runes)
	bag := e.Extract(core.Email{Subject: "ABC"})
	assert.InDelta(t, 0.75, bag.CapsRatio, 1e-9)
}

func TestExtractor_Extract_TruncatesBody(t *testing.T) {
	e := newTestExtractor(5)

	bag := e.Extract(core.Email{Body: core.PlainBody("abcdefghij")})
	assert.Equal(t, 5, bag.BodyLength)
}

func TestExtractor_ResolveBody(t *testing.T) {
	e := newTestExtractor(0)

	assert.Equal(t, "plain text", e.ResolveBody(core.PlainBody("plain text")))

	// A structured body prefers its explicit text part
	assert.Equal(t, "text part", e.ResolveBody(core.CompositeBody("text part", "<p>html part</p>")))

	// Without a text part the HTML is converted
	assert.Equal(t, "html part", e.ResolveBody(core.CompositeBody("", "<p>html part</p>")))
}

func TestSenderDomain(t *testing.T) {
	assert.Equal(t, "example.com", SenderDomain("user@example.com"))
	assert.Equal(t, "example.com", SenderDomain("John Doe <john@Example.COM>"))
	assert.Equal(t, "", SenderDomain(""))
	assert.Equal(t, "", SenderDomain("no-at-sign"))
	assert.Equal(t, "", SenderDomain("trailing@"))
}
