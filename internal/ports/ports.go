package ports

import (
	"context"

	"NewsletterDigest/internal/domain"
)

// NewsletterSource yields recent newsletter emails from the mailbox.
type NewsletterSource interface {
	FetchNewsletters(ctx context.Context, daysBack int) ([]domain.Newsletter, error)
}

// ArticleFetcher retrieves best-effort title/body text for article URLs.
type ArticleFetcher interface {
	Fetch(ctx context.Context, url string) domain.Article
	FetchAll(ctx context.Context, urls []string) []domain.Article
}

// InteractionStore persists votes, read-marks, junk filters, and senders.
type InteractionStore interface {
	SaveInteraction(ctx context.Context, in domain.Interaction) error
	UpdateVote(ctx context.Context, articleURL string, vote int) error
	MarkRead(ctx context.Context, articleURL string) error
	ReadArticleURLs(ctx context.Context) ([]string, error)
	JunkFilters(ctx context.Context) ([]domain.JunkFilter, error)
	AddJunkFilter(ctx context.Context, filter domain.JunkFilter, articleURL, articleTitle string) error
	SourceScores(ctx context.Context) (map[string]int, error)
}

// SenderStore manages the tracked newsletter sender list.
type SenderStore interface {
	AddSender(ctx context.Context, email, name string) error
	RemoveSender(ctx context.Context, email string) error
	Senders(ctx context.Context) ([]domain.Sender, error)
}

// Summarizer attaches summaries to articles and writes the digest overview.
type Summarizer interface {
	SummarizeAll(ctx context.Context, articles []domain.Article) []domain.Article
	DigestSummary(ctx context.Context, categorized domain.Categorized) string
}

// DigestSender renders and delivers the final digest to the recipient.
type DigestSender interface {
	SendDigest(ctx context.Context, categorized domain.Categorized, summary string) error
}

// ProgressSink receives structured run events from the pipeline. The
// service layer owns the thread-safe last-run snapshot; the pipeline
// itself holds no global state.
type ProgressSink interface {
	RunStarted()
	NewslettersFound(count int)
	ArticlesCounted(count int)
	RunFinished(outcome domain.RunOutcome, err error)
}
