package labeling

// Category is one taxonomy entry: a name and the keyword list used for weak
// labeling. Keywords play no role at prediction time.
type Category struct {
	Name     string
	Keywords []string
}

// Taxonomy is the fixed, ordered set of categories emails are classified
// into. Declaration order is significant: it breaks ties between categories
// with equal keyword scores, so it must stay stable across training runs.
// The fallback category owns no keywords and catches everything unmatched.
type Taxonomy struct {
	Categories          []Category
	Fallback            string
	ImportantCategories []string
	ImportanceCutoff    float64
}

// Names returns all category names in declaration order, fallback last
func (t Taxonomy) Names() []string {
	names := make([]string, 0, len(t.Categories)+1)
	for _, c := range t.Categories {
		names = append(names, c.Name)
	}
	return append(names, t.Fallback)
}

// DefaultTaxonomy returns the built-in student-inbox taxonomy
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		Categories: []Category{
			{Name: "opportunities", Keywords: []string{
				"internship", "intern", "opportunity", "application", "apply now",
				"career", "job opening", "position", "hiring", "recruitment",
				"fellowship", "program", "mentorship", "training", "apprenticeship",
			}},
			{Name: "hackathons", Keywords: []string{
				"hackathon", "hack", "coding competition", "programming contest",
				"dev challenge", "build challenge", "code sprint", "hack day",
				"innovation challenge", "tech competition",
			}},
			{Name: "contests", Keywords: []string{
				"contest", "competition", "challenge", "prize", "award",
				"winner", "submit", "deadline", "entry", "participate",
				"coding contest", "programming competition",
			}},
			{Name: "scholarships", Keywords: []string{
				"scholarship", "grant", "funding", "financial aid", "tuition",
				"education fund", "student aid", "bursary", "stipend",
				"educational support", "study abroad",
			}},
			{Name: "jobs", Keywords: []string{
				"job", "position", "role", "employment", "career",
				"full-time", "part-time", "remote", "work from home",
				"software engineer", "developer", "programmer", "analyst",
			}},
			{Name: "events", Keywords: []string{
				"event", "conference", "workshop", "seminar", "webinar",
				"meetup", "summit", "symposium", "networking", "tech talk",
				"presentation", "demo day",
			}},
		},
		Fallback:            "other",
		ImportantCategories: []string{"opportunities", "scholarships", "jobs"},
		ImportanceCutoff:    0.7,
	}
}
