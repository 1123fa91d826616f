package pipeline

import (
	"strings"

	"NewsletterDigest/internal/config"
	"NewsletterDigest/internal/domain"
)

// OtherCategory collects articles no keyword category claims.
const OtherCategory = "Other"

// scanLimit caps the body prefix included in the category scan string.
const scanLimit = 500

// Categorizer assigns each article to one topic bucket via keyword
// scoring over the title plus the start of the body text.
type Categorizer struct {
	categories []config.CategoryKeywords
}

// NewCategorizer wires the ordered category keyword table.
func NewCategorizer(heuristics config.Heuristics) *Categorizer {
	return &Categorizer{categories: heuristics.Categories}
}

// Categorize buckets articles by category, preserving the input order
// within each bucket. Categories with zero articles are omitted.
func (c *Categorizer) Categorize(articles []domain.Article) domain.Categorized {
	result := domain.Categorized{}
	for _, article := range articles {
		category := c.classify(article)
		article.Category = category
		result[category] = append(result[category], article)
	}
	return result
}

// classify counts keyword substring hits per category. Ties resolve to
// the first category reaching the maximum, because only a strictly
// better score replaces the current best.
func (c *Categorizer) classify(article domain.Article) string {
	scan := strings.ToLower(article.Title + " " + runePrefix(article.Text, scanLimit))

	best := OtherCategory
	maxScore := 0
	for _, category := range c.categories {
		score := 0
		for _, keyword := range category.Keywords {
			if strings.Contains(scan, keyword) {
				score++
			}
		}
		if score > maxScore {
			maxScore = score
			best = category.Name
		}
	}

	return best
}

// runePrefix returns the first n characters of s, never splitting a
// multibyte sequence.
func runePrefix(s string, n int) string {
	for i := range s {
		if n == 0 {
			return s[:i]
		}
		n--
	}
	return s
}
