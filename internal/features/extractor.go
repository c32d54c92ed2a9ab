package features

import (
	"net/mail"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mailsift/email-classifier/internal/core"
	"github.com/mailsift/email-classifier/internal/textproc"
)

var urgencyTerms = []string{"urgent", "asap", "immediate"}

// Extractor converts raw emails into FeatureBags. Extraction is a pure
// computation and never fails: absent fields degrade to empty strings and
// zero counts.
type Extractor struct {
	normalizer    *textproc.Normalizer
	converter     *textproc.HTMLConverter
	maxTextLength int
}

// NewExtractor creates a new feature extractor. maxTextLength caps the body
// text fed into the pipeline; zero disables the cap.
func NewExtractor(normalizer *textproc.Normalizer, converter *textproc.HTMLConverter, maxTextLength int) *Extractor {
	return &Extractor{
		normalizer:    normalizer,
		converter:     converter,
		maxTextLength: maxTextLength,
	}
}

// ResolveBody applies the body-resolution rule: a structured body prefers its
// explicit text part and falls back to converted HTML; a plain body is used
// as-is.
func (e *Extractor) ResolveBody(b core.Body) string {
	if b.Structured {
		if b.Text != "" {
			return b.Text
		}
		return e.converter.ToText(b.HTML)
	}
	return b.Text
}

// Extract computes the FeatureBag for one email
func (e *Extractor) Extract(email core.Email) core.FeatureBag {
	subject := email.Subject
	body := textproc.TruncateUTF8(e.ResolveBody(email.Body), e.maxTextLength)

	fullText := subject + " " + body
	lowered := strings.ToLower(fullText)

	return core.FeatureBag{
		ProcessedText:    e.normalizer.Normalize(fullText),
		SubjectLength:    len(subject),
		BodyLength:       len(body),
		TotalLength:      len(fullText),
		SenderDomain:     SenderDomain(email.Sender),
		HasDeadline:      strings.Contains(lowered, "deadline"),
		HasUrgent:        containsAny(lowered, urgencyTerms),
		HasApply:         strings.Contains(lowered, "apply"),
		HasOpportunity:   strings.Contains(lowered, "opportunity"),
		WordCount:        len(strings.Fields(fullText)),
		ExclamationCount: strings.Count(fullText, "!"),
		QuestionCount:    strings.Count(fullText, "?"),
		CapsRatio:        capsRatio(fullText),
	}
}

// SenderDomain extracts the lowercased domain from a sender address,
// tolerating display-name prefixes. It returns an empty string when no
// domain can be determined.
func SenderDomain(sender string) string {
	if sender == "" {
		return ""
	}

	address := sender
	if parsed, err := mail.ParseAddress(sender); err == nil {
		address = parsed.Address
	}

	at := strings.LastIndex(address, "@")
	if at < 0 || at == len(address)-1 {
		return ""
	}

	domain := address[at+1:]
	domain = strings.Trim(domain, "<> \t")
	return strings.ToLower(domain)
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// capsRatio is the fraction of uppercase letters over all characters; the
// denominator is floored at one so empty input yields zero
func capsRatio(text string) float64 {
	upper := 0
	for _, r := range text {
		if unicode.IsUpper(r) {
			upper++
		}
	}
	total := utf8.RuneCountInString(text)
	if total < 1 {
		total = 1
	}
	return float64(upper) / float64(total)
}
