package pipeline

import (
	"strings"
	"unicode/utf8"

	"NewsletterDigest/internal/config"
	"NewsletterDigest/internal/domain"
)

// ArticleFilter rejects pages that are navigation/legal/social
// boilerplate rather than articles, using title heuristics only.
type ArticleFilter struct {
	boilerplate []string
	minTitleLen int
}

// NewArticleFilter wires the boilerplate marker table.
func NewArticleFilter(heuristics config.Heuristics) *ArticleFilter {
	return &ArticleFilter{
		boilerplate: heuristics.BoilerplateTitles,
		minTitleLen: heuristics.MinTitleLength,
	}
}

// Accept reports whether the fetched article looks like real content.
func (f *ArticleFilter) Accept(article domain.Article) bool {
	if !article.ExtractionOK {
		return false
	}

	titleLower := strings.ToLower(article.Title)
	for _, marker := range f.boilerplate {
		if strings.Contains(titleLower, marker) {
			return false
		}
	}

	// Character count, not bytes: multibyte titles must not over-count.
	return utf8.RuneCountInString(article.Title) >= f.minTitleLen
}
