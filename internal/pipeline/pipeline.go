package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"NewsletterDigest/internal/domain"
	"NewsletterDigest/internal/extract"
	"NewsletterDigest/internal/ports"
)

// Deps wires all driven adapters into the digest pipeline.
type Deps struct {
	Source       ports.NewsletterSource
	Extractor    *extract.URLExtractor
	Fetcher      ports.ArticleFetcher
	Filter       *ArticleFilter
	Deduplicator *Deduplicator
	JunkFilterer *JunkFilterer
	Ranker       *SourceRanker
	Categorizer  *Categorizer
	Store        ports.InteractionStore
	Summarizer   ports.Summarizer
	Sender       ports.DigestSender
	Progress     ports.ProgressSink
	Logger       *slog.Logger
}

// Pipeline implements the newsletter-to-digest workflow. Data flows
// strictly: newsletters, URLs, raw articles, filtered articles,
// deduplicated articles, junk-filtered articles, ranked articles,
// categorized articles. Each run is invoked from one control thread;
// the caller serializes overlapping runs.
type Pipeline struct {
	deps Deps
}

// New constructs the orchestration component.
func New(deps Deps) *Pipeline {
	return &Pipeline{deps: deps}
}

// Run executes one full digest generation. Empty-result conditions end
// the run early with a distinct outcome and no downstream side effects;
// only configuration and transport problems carry an error.
func (p *Pipeline) Run(ctx context.Context, daysBack int) (domain.RunOutcome, error) {
	d := p.deps
	p.notifyStart()

	if d.Source == nil {
		return p.finish(domain.OutcomeError, fmt.Errorf("newsletter source is not configured"))
	}

	newsletters, err := d.Source.FetchNewsletters(ctx, daysBack)
	if err != nil {
		return p.finish(domain.OutcomeError, fmt.Errorf("fetch newsletters: %w", err))
	}
	if len(newsletters) == 0 {
		p.info("no newsletters found")
		return p.finish(domain.OutcomeNoNewsletters, nil)
	}
	p.notifyNewsletters(len(newsletters))
	p.info("newsletters found", "count", len(newsletters))

	articles := p.collectArticles(ctx, newsletters)
	if len(articles) == 0 {
		p.info("no articles extracted")
		return p.finish(domain.OutcomeNoArticles, nil)
	}
	p.info("articles extracted", "count", len(articles))

	articles = p.dropReadArticles(ctx, articles)

	unique := articles
	if d.Deduplicator != nil {
		unique = d.Deduplicator.Deduplicate(articles)
	}
	if len(unique) == 0 {
		p.info("no unique articles after deduplication")
		return p.finish(domain.OutcomeNoUniqueArticles, nil)
	}
	p.notifyArticles(len(unique))

	unique = p.dropJunk(ctx, unique)
	unique = p.rankBySource(ctx, unique)
	if len(unique) == 0 {
		p.info("no articles left after filtering")
		return p.finish(domain.OutcomeNothingLeft, nil)
	}

	if d.Summarizer != nil {
		unique = d.Summarizer.SummarizeAll(ctx, unique)
	}

	categorized := domain.Categorized{OtherCategory: unique}
	if d.Categorizer != nil {
		categorized = d.Categorizer.Categorize(unique)
	}

	summary := ""
	if d.Summarizer != nil {
		summary = d.Summarizer.DigestSummary(ctx, categorized)
	}

	if d.Sender != nil {
		if err := d.Sender.SendDigest(ctx, categorized, summary); err != nil {
			return p.finish(domain.OutcomeSendFailed, fmt.Errorf("send digest: %w", err))
		}
	}

	p.info("digest sent", "articles", len(unique), "categories", len(categorized))
	return p.finish(domain.OutcomeSuccess, nil)
}

// collectArticles walks newsletters in order, extracts candidate URLs,
// fetches them, and keeps articles surviving the title filter tagged
// with their originating newsletter. No URL is fetched twice per run.
func (p *Pipeline) collectArticles(ctx context.Context, newsletters []domain.Newsletter) []domain.Article {
	d := p.deps

	type origin struct {
		sender  string
		subject string
	}

	var urls []string
	var origins []origin
	seen := map[string]struct{}{}

	for _, newsletter := range newsletters {
		candidates := newsletter.URLs
		if len(candidates) == 0 && d.Extractor != nil {
			candidates = d.Extractor.Extract(newsletter.Body)
		}

		for _, u := range candidates {
			if _, dup := seen[u]; dup {
				continue
			}
			seen[u] = struct{}{}
			urls = append(urls, u)
			origins = append(origins, origin{sender: newsletter.Sender, subject: newsletter.Subject})
		}
	}

	if len(urls) == 0 || d.Fetcher == nil {
		return nil
	}

	fetched := d.Fetcher.FetchAll(ctx, urls)

	var articles []domain.Article
	for i, article := range fetched {
		if d.Filter != nil && !d.Filter.Accept(article) {
			continue
		}
		article.NewsletterSender = origins[i].sender
		article.NewsletterSubject = origins[i].subject
		articles = append(articles, article)
	}
	return articles
}

// dropReadArticles excludes URLs the user already marked as read.
// Store failures fail open: the batch continues unfiltered.
func (p *Pipeline) dropReadArticles(ctx context.Context, articles []domain.Article) []domain.Article {
	if p.deps.Store == nil {
		return articles
	}

	readURLs, err := p.deps.Store.ReadArticleURLs(ctx)
	if err != nil {
		p.warn("load read articles failed", "error", err)
		return articles
	}
	if len(readURLs) == 0 {
		return articles
	}

	read := make(map[string]struct{}, len(readURLs))
	for _, u := range readURLs {
		read[u] = struct{}{}
	}

	kept := make([]domain.Article, 0, len(articles))
	for _, article := range articles {
		if _, isRead := read[article.URL]; isRead {
			continue
		}
		kept = append(kept, article)
	}
	return kept
}

func (p *Pipeline) dropJunk(ctx context.Context, articles []domain.Article) []domain.Article {
	if p.deps.Store == nil || p.deps.JunkFilterer == nil {
		return articles
	}

	filters, err := p.deps.Store.JunkFilters(ctx)
	if err != nil {
		p.warn("load junk filters failed", "error", err)
		return articles
	}
	return p.deps.JunkFilterer.Apply(articles, filters)
}

func (p *Pipeline) rankBySource(ctx context.Context, articles []domain.Article) []domain.Article {
	if p.deps.Ranker == nil {
		return articles
	}

	scores := map[string]int{}
	if p.deps.Store != nil {
		loaded, err := p.deps.Store.SourceScores(ctx)
		if err != nil {
			p.warn("load source scores failed", "error", err)
		} else {
			scores = loaded
		}
	}
	return p.deps.Ranker.Rank(articles, scores)
}

func (p *Pipeline) notifyStart() {
	if p.deps.Progress != nil {
		p.deps.Progress.RunStarted()
	}
}

func (p *Pipeline) notifyNewsletters(count int) {
	if p.deps.Progress != nil {
		p.deps.Progress.NewslettersFound(count)
	}
}

func (p *Pipeline) notifyArticles(count int) {
	if p.deps.Progress != nil {
		p.deps.Progress.ArticlesCounted(count)
	}
}

func (p *Pipeline) finish(outcome domain.RunOutcome, err error) (domain.RunOutcome, error) {
	if p.deps.Progress != nil {
		p.deps.Progress.RunFinished(outcome, err)
	}
	if err != nil {
		p.warn("run finished", "outcome", outcome, "error", err)
	}
	return outcome, err
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.deps.Logger != nil {
		p.deps.Logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.deps.Logger != nil {
		p.deps.Logger.Warn(msg, args...)
	}
}
