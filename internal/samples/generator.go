// Package samples generates a synthetic labeled-looking email corpus for
// bootstrapping a model before real data is available.
package samples

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/mailsift/email-classifier/internal/core"
)

type template struct {
	subject string
	body    string
	sender  string
}

var templates = []template{
	{
		subject: "Exciting internship opportunity at %s",
		body:    "We have an amazing opportunity for students interested in software engineering. Apply now before the deadline on Friday. This internship program offers hands-on experience and mentorship.",
		sender:  "recruiting@%s.com",
	},
	{
		subject: "%s Hackathon 2026 - Registration Open",
		body:    "Join us for a 48-hour hackathon and coding competition. Build innovative projects, win prizes, and meet fellow developers. Register your team today.",
		sender:  "events@%s.org",
	},
	{
		subject: "Enter our coding contest and win big",
		body:    "The annual programming contest is back. Compete against the best, solve challenging problems, and claim the championship prize. Submissions close soon.",
		sender:  "contest@%s.io",
	},
	{
		subject: "Scholarship application deadline approaching",
		body:    "Reminder: the merit scholarship and financial aid grant applications are due next week. Submit your application with transcripts to be considered for tuition support.",
		sender:  "financialaid@%s.edu",
	},
	{
		subject: "New job opening: Software Engineer at %s",
		body:    "We are hiring for a full-time software engineer position. Competitive salary, great benefits, and remote options. Submit your resume through our careers portal.",
		sender:  "careers@%s.com",
	},
	{
		subject: "You're invited: %s tech meetup next Thursday",
		body:    "Join our monthly meetup and networking event. This webinar and workshop series features talks from industry engineers. RSVP to reserve your seat at the conference.",
		sender:  "meetup@%s.net",
	},
	{
		subject: "Your weekly newsletter from %s",
		body:    "Here is your digest of this week's stories. Unsubscribe at any time using the link below. Thanks for reading our newsletter.",
		sender:  "newsletter@%s.com",
	},
	{
		subject: "URGENT: Limited time offer from %s",
		body:    "Act now! This exclusive discount expires at midnight. Don't miss out on savings of up to 70 percent off everything in store.",
		sender:  "promo@%s.shop",
	},
	{
		subject: "Receipt for your order #%d",
		body:    "Thank you for your purchase. Your order has shipped and will arrive within 5 business days. Track your package using the link in this email.",
		sender:  "orders@%s.com",
	},
	{
		subject: "Apply for the %s fellowship program",
		body:    "Applications are now open for our research fellowship. This opportunity includes a stipend, mentorship, and access to our labs. The application deadline is in two weeks, so apply soon.",
		sender:  "fellowship@%s.edu",
	},
}

var organizations = []string{
	"techcorp", "acme", "devhub", "bytelabs", "cloudnine",
	"stackforge", "datawave", "codecamp", "nexusai", "quantumsoft",
}

// Generate produces n synthetic emails. The same seed yields the same
// corpus, so training runs on generated data are reproducible.
func Generate(n int, seed int64) []core.Email {
	rng := rand.New(rand.NewSource(seed))
	emails := make([]core.Email, 0, n)
	for i := 0; i < n; i++ {
		tmpl := templates[i%len(templates)]
		org := organizations[rng.Intn(len(organizations))]

		subject := tmpl.subject
		switch {
		case strings.Contains(subject, "%d"):
			subject = fmt.Sprintf(subject, 10000+rng.Intn(90000))
		case strings.Contains(subject, "%s"):
			subject = fmt.Sprintf(subject, org)
		}

		sender := fmt.Sprintf(tmpl.sender, org)
		body := tmpl.body
		if rng.Float64() < 0.3 {
			body += " Please respond as soon as possible."
		}

		emails = append(emails, core.Email{
			Subject: subject,
			Body:    core.PlainBody(body),
			Sender:  sender,
		})
	}
	return emails
}
