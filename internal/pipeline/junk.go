package pipeline

import (
	"log/slog"
	"net/url"
	"strings"

	"NewsletterDigest/internal/config"
	"NewsletterDigest/internal/domain"
)

// JunkFilterer removes articles matching learned block patterns, either
// title substrings or blocked domains. Patterns are fetched once per
// run, not per article.
type JunkFilterer struct {
	logger *slog.Logger
}

// NewJunkFilterer builds the stage.
func NewJunkFilterer(logger *slog.Logger) *JunkFilterer {
	return &JunkFilterer{logger: logger}
}

// Apply retains every article that matches zero patterns. The first
// matching pattern short-circuits.
func (j *JunkFilterer) Apply(articles []domain.Article, filters []domain.JunkFilter) []domain.Article {
	if len(filters) == 0 {
		return articles
	}

	kept := make([]domain.Article, 0, len(articles))
	for _, article := range articles {
		if pattern, junk := j.match(article, filters); junk {
			j.debug("junk filtered", "title", article.Title, "pattern", pattern)
			continue
		}
		kept = append(kept, article)
	}
	return kept
}

func (j *JunkFilterer) match(article domain.Article, filters []domain.JunkFilter) (string, bool) {
	titleLower := strings.ToLower(article.Title)
	host := NormalizedHost(article.URL)

	for _, filter := range filters {
		switch filter.Type {
		case domain.PatternDomain:
			if host != "" && strings.Contains(host, filter.Pattern) {
				return filter.Pattern, true
			}
		default:
			// Untyped patterns match titles.
			if strings.Contains(titleLower, filter.Pattern) {
				return filter.Pattern, true
			}
		}
	}
	return "", false
}

func (j *JunkFilterer) debug(msg string, args ...any) {
	if j.logger != nil {
		j.logger.Debug(msg, args...)
	}
}

// NormalizedHost lowercases the URL's network location and strips a
// leading "www.". Unparseable URLs yield "".
func NormalizedHost(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(parsed.Host)
	return strings.TrimPrefix(host, "www.")
}

// DeriveTitlePattern extracts a 1-2 significant-word phrase from an
// article title for use as a junk filter: the first two words that are
// neither stop words nor three characters or shorter; a single
// significant word when only one exists; otherwise the first two raw
// words of the title.
func DeriveTitlePattern(title string, heuristics config.Heuristics) string {
	stops := wordSet(heuristics.JunkPatternStopWords)

	words := strings.Fields(strings.ToLower(title))
	var significant []string
	for _, word := range words {
		if len(word) <= 3 {
			continue
		}
		if _, stop := stops[word]; stop {
			continue
		}
		significant = append(significant, word)
		if len(significant) == 2 {
			break
		}
	}

	if len(significant) >= 1 {
		return strings.Join(significant, " ")
	}
	if len(words) >= 2 {
		return strings.Join(words[:2], " ")
	}
	if len(words) == 1 {
		return words[0]
	}
	return ""
}

// DeriveDomainPattern returns the article's normalized host for use as
// a domain junk filter.
func DeriveDomainPattern(articleURL string) string {
	return NormalizedHost(articleURL)
}
