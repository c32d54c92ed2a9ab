package labeling

import "strings"

// Labeler assigns weak-supervision labels to emails by keyword frequency.
// The taxonomy is injected at construction so multiple taxonomies can
// coexist, e.g. in tests.
type Labeler struct {
	taxonomy Taxonomy
}

// NewLabeler creates a new weak labeler
func NewLabeler(taxonomy Taxonomy) *Labeler {
	return &Labeler{taxonomy: taxonomy}
}

// Taxonomy returns the taxonomy the labeler was built with
func (l *Labeler) Taxonomy() Taxonomy {
	return l.taxonomy
}

// Label scores each category by the number of its distinct keywords present
// in the lowercased combined subject and body, and returns the best category
// with a confidence in (0, 1]. Ties go to the earlier-declared category.
// When nothing matches it returns the fallback category with confidence 0.
func (l *Labeler) Label(subject, body string) (string, float64) {
	fullText := strings.ToLower(subject + " " + body)

	best := l.taxonomy.Fallback
	bestScore := 0
	bestTotal := 1
	for _, category := range l.taxonomy.Categories {
		score := 0
		for _, keyword := range category.Keywords {
			if strings.Contains(fullText, keyword) {
				score++
			}
		}
		// Strict comparison keeps the first-declared category on ties
		if score > bestScore {
			best = category.Name
			bestScore = score
			bestTotal = len(category.Keywords)
		}
	}

	if bestScore == 0 {
		return l.taxonomy.Fallback, 0.0
	}
	return best, float64(bestScore) / float64(bestTotal)
}

// IsImportant derives the binary importance label from a weak label: the
// category is inherently important, or the labeler was confident enough
func (l *Labeler) IsImportant(category string, confidence float64) bool {
	for _, name := range l.taxonomy.ImportantCategories {
		if name == category {
			return true
		}
	}
	return confidence > l.taxonomy.ImportanceCutoff
}
