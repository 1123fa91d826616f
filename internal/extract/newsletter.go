package extract

import (
	"strings"

	"NewsletterDigest/internal/config"
)

// bodyLimit caps how much newsletter body text is retained per record.
const bodyLimit = 5000

// NewsletterClassifier decides whether an inbox email looks like a
// subscription/news email.
type NewsletterClassifier struct {
	heuristics config.Heuristics
}

// NewNewsletterClassifier wires the keyword and domain tables.
func NewNewsletterClassifier(heuristics config.Heuristics) *NewsletterClassifier {
	return &NewsletterClassifier{heuristics: heuristics}
}

// IsNewsletter applies the subject-keyword, sender-domain, and
// unsubscribe-link heuristics.
func (c *NewsletterClassifier) IsNewsletter(sender, subject, body string) bool {
	subjectLower := strings.ToLower(subject)
	for _, keyword := range c.heuristics.NewsletterKeywords {
		if strings.Contains(subjectLower, keyword) {
			return true
		}
	}

	senderLower := strings.ToLower(sender)
	for _, domain := range c.heuristics.NewsDomains {
		if strings.Contains(senderLower, domain) {
			return true
		}
	}

	return body != "" && strings.Contains(strings.ToLower(body), "unsubscribe")
}

// TruncateBody limits stored newsletter body text to the retained size.
func TruncateBody(body string) string {
	if len(body) <= bodyLimit {
		return body
	}
	return body[:bodyLimit]
}
