package pipeline

import (
	"log/slog"

	"NewsletterDigest/internal/config"
	"NewsletterDigest/internal/domain"
)

const (
	titleDuplicateThreshold = 0.6
	titleSuspectThreshold   = 0.3
	contentVocabularyCap    = 1000
)

// Deduplicator collapses near-duplicate articles using a two-tier
// title/content similarity test. High title overlap alone is treated
// as certain duplication; moderate overlap falls back to TF-IDF cosine
// similarity of the body texts.
type Deduplicator struct {
	contentThreshold float64
	titleStops       map[string]struct{}
	contentStops     map[string]struct{}
	logger           *slog.Logger
}

// NewDeduplicator wires the similarity threshold (default 0.7 when
// zero) and stop-word tables.
func NewDeduplicator(contentThreshold float64, heuristics config.Heuristics, logger *slog.Logger) *Deduplicator {
	if contentThreshold <= 0 {
		contentThreshold = 0.7
	}
	return &Deduplicator{
		contentThreshold: contentThreshold,
		titleStops:       wordSet(heuristics.TitleStopWords),
		contentStops:     wordSet(heuristics.ContentStopWords),
		logger:           logger,
	}
}

// Deduplicate returns the subsequence of articles with near-duplicates
// removed, preserving first-seen order. Each incoming article is
// compared against already-accepted unique articles only.
func (d *Deduplicator) Deduplicate(articles []domain.Article) []domain.Article {
	if len(articles) == 0 {
		return nil
	}

	unique := make([]domain.Article, 0, len(articles))
	for _, article := range articles {
		if d.isDuplicate(article, unique) {
			continue
		}
		unique = append(unique, article)
	}

	d.debug("deduplication done", "in", len(articles), "out", len(unique))
	return unique
}

func (d *Deduplicator) isDuplicate(article domain.Article, unique []domain.Article) bool {
	for _, existing := range unique {
		titleSim := titleSimilarity(article.Title, existing.Title, d.titleStops)

		if titleSim > titleDuplicateThreshold {
			d.debug("duplicate by title", "title", article.Title, "existing", existing.Title)
			return true
		}

		if titleSim > titleSuspectThreshold {
			contentSim := contentSimilarity(article.Text, existing.Text, d.contentStops, contentVocabularyCap)
			if contentSim > d.contentThreshold {
				d.debug("duplicate by content", "title", article.Title, "similarity", contentSim)
				return true
			}
		}
	}
	return false
}

func (d *Deduplicator) debug(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Debug(msg, args...)
	}
}

func wordSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, word := range words {
		set[word] = struct{}{}
	}
	return set
}
