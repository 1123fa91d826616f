package pipeline

import (
	"log/slog"
	"sort"
	"strings"

	"NewsletterDigest/internal/domain"
)

// blockScore is the net vote score at or below which a newsletter
// sender is hard-excluded rather than merely deprioritized.
const blockScore = -3

// SourceRanker reorders and filters articles using aggregate historical
// vote scores per newsletter sender. This is the only stage that
// reorders articles.
type SourceRanker struct {
	logger *slog.Logger
}

// NewSourceRanker builds the stage.
func NewSourceRanker(logger *slog.Logger) *SourceRanker {
	return &SourceRanker{logger: logger}
}

// Rank drops articles from heavily downvoted senders, then stable-sorts
// the remainder in descending score order. Unscored senders default to
// 0; ties preserve prior relative order.
func (r *SourceRanker) Rank(articles []domain.Article, scores map[string]int) []domain.Article {
	kept := make([]domain.Article, 0, len(articles))
	for _, article := range articles {
		if score := senderScore(article, scores); score <= blockScore {
			r.debug("blocked source", "sender", article.NewsletterSender, "score", score)
			continue
		}
		kept = append(kept, article)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return senderScore(kept[i], scores) > senderScore(kept[j], scores)
	})

	return kept
}

func senderScore(article domain.Article, scores map[string]int) int {
	return scores[strings.ToLower(strings.TrimSpace(article.NewsletterSender))]
}

func (r *SourceRanker) debug(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}
