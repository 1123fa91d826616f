package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"NewsletterDigest/internal/config"
	"NewsletterDigest/internal/domain"
)

type fakeSource struct {
	newsletters []domain.Newsletter
	err         error
}

func (f *fakeSource) FetchNewsletters(ctx context.Context, daysBack int) ([]domain.Newsletter, error) {
	return f.newsletters, f.err
}

type fakeFetcher struct {
	articles map[string]domain.Article
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) domain.Article {
	if article, ok := f.articles[url]; ok {
		return article
	}
	return domain.Article{URL: url}
}

func (f *fakeFetcher) FetchAll(ctx context.Context, urls []string) []domain.Article {
	results := make([]domain.Article, len(urls))
	for i, u := range urls {
		results[i] = f.Fetch(ctx, u)
	}
	return results
}

type fakeStore struct {
	readURLs []string
	filters  []domain.JunkFilter
	scores   map[string]int
	readErr  error
}

func (f *fakeStore) SaveInteraction(ctx context.Context, in domain.Interaction) error { return nil }
func (f *fakeStore) UpdateVote(ctx context.Context, articleURL string, vote int) error {
	return nil
}
func (f *fakeStore) MarkRead(ctx context.Context, articleURL string) error { return nil }
func (f *fakeStore) ReadArticleURLs(ctx context.Context) ([]string, error) {
	return f.readURLs, f.readErr
}
func (f *fakeStore) JunkFilters(ctx context.Context) ([]domain.JunkFilter, error) {
	return f.filters, nil
}
func (f *fakeStore) AddJunkFilter(ctx context.Context, filter domain.JunkFilter, articleURL, articleTitle string) error {
	return nil
}
func (f *fakeStore) SourceScores(ctx context.Context) (map[string]int, error) {
	return f.scores, nil
}

type fakeSummarizer struct{}

func (fakeSummarizer) SummarizeAll(ctx context.Context, articles []domain.Article) []domain.Article {
	for i := range articles {
		articles[i].Summary = "summary of " + articles[i].Title
	}
	return articles
}

func (fakeSummarizer) DigestSummary(ctx context.Context, categorized domain.Categorized) string {
	return "digest overview"
}

type fakeSender struct {
	categorized domain.Categorized
	summary     string
	calls       int
	err         error
}

func (f *fakeSender) SendDigest(ctx context.Context, categorized domain.Categorized, summary string) error {
	f.calls++
	f.categorized = categorized
	f.summary = summary
	return f.err
}

type progressRecorder struct {
	started     int
	newsletters int
	articles    int
	outcome     domain.RunOutcome
	finished    int
}

func (p *progressRecorder) RunStarted()                { p.started++ }
func (p *progressRecorder) NewslettersFound(count int) { p.newsletters = count }
func (p *progressRecorder) ArticlesCounted(count int)  { p.articles = count }
func (p *progressRecorder) RunFinished(outcome domain.RunOutcome, err error) {
	p.finished++
	p.outcome = outcome
}

func goodArticle(url, title string) domain.Article {
	return domain.Article{
		URL:          url,
		Title:        title,
		Text:         "body text for " + title,
		ExtractionOK: true,
	}
}

func newTestPipeline(deps Deps) *Pipeline {
	h := config.DefaultHeuristics()
	if deps.Filter == nil {
		deps.Filter = NewArticleFilter(h)
	}
	if deps.Deduplicator == nil {
		deps.Deduplicator = NewDeduplicator(0.7, h, nil)
	}
	if deps.JunkFilterer == nil {
		deps.JunkFilterer = NewJunkFilterer(nil)
	}
	if deps.Ranker == nil {
		deps.Ranker = NewSourceRanker(nil)
	}
	if deps.Categorizer == nil {
		deps.Categorizer = NewCategorizer(h)
	}
	return New(deps)
}

func TestRunNoSourceConfigured(t *testing.T) {
	t.Parallel()

	progress := &progressRecorder{}
	p := newTestPipeline(Deps{Progress: progress})

	outcome, err := p.Run(context.Background(), 1)

	if outcome != domain.OutcomeError || err == nil {
		t.Fatalf("outcome = %s, err = %v", outcome, err)
	}
	if progress.started != 1 || progress.finished != 1 {
		t.Fatalf("progress events: started %d finished %d", progress.started, progress.finished)
	}
}

func TestRunSourceFailure(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(Deps{
		Source: &fakeSource{err: errors.New("mailbox unreachable")},
	})

	outcome, err := p.Run(context.Background(), 1)

	if outcome != domain.OutcomeError {
		t.Fatalf("outcome = %s", outcome)
	}
	if err == nil || !strings.Contains(err.Error(), "mailbox unreachable") {
		t.Fatalf("err = %v", err)
	}
}

func TestRunNoNewsletters(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	progress := &progressRecorder{}
	p := newTestPipeline(Deps{
		Source:   &fakeSource{},
		Sender:   sender,
		Progress: progress,
	})

	outcome, err := p.Run(context.Background(), 1)

	if outcome != domain.OutcomeNoNewsletters || err != nil {
		t.Fatalf("outcome = %s, err = %v", outcome, err)
	}
	if sender.calls != 0 {
		t.Fatalf("no digest may be sent, got %d calls", sender.calls)
	}
	if progress.outcome != domain.OutcomeNoNewsletters {
		t.Fatalf("progress outcome = %s", progress.outcome)
	}
}

func TestRunNoArticles(t *testing.T) {
	t.Parallel()

	// Every fetch fails extraction, so the title filter drops everything.
	p := newTestPipeline(Deps{
		Source: &fakeSource{newsletters: []domain.Newsletter{
			{Sender: "a@example.com", URLs: []string{"https://example.com/broken"}},
		}},
		Fetcher: &fakeFetcher{},
	})

	outcome, err := p.Run(context.Background(), 1)

	if outcome != domain.OutcomeNoArticles || err != nil {
		t.Fatalf("outcome = %s, err = %v", outcome, err)
	}
}

func TestRunFullFlowSuccess(t *testing.T) {
	t.Parallel()

	newsletters := []domain.Newsletter{
		{Sender: "politics@example.com", Subject: "Daily Brief", URLs: []string{
			"https://example.com/senate",
			"https://example.com/already-read",
		}},
		{Sender: "tech@example.com", Subject: "Tech Weekly", URLs: []string{
			"https://example.com/startup",
			"https://example.com/senate",
		}},
	}
	fetcher := &fakeFetcher{articles: map[string]domain.Article{
		"https://example.com/senate":       goodArticle("https://example.com/senate", "Senate Passes Landmark Vote"),
		"https://example.com/already-read": goodArticle("https://example.com/already-read", "Congress Budget Standoff Continues"),
		"https://example.com/startup":      goodArticle("https://example.com/startup", "AI Startup Ships New Software"),
	}}
	store := &fakeStore{
		readURLs: []string{"https://example.com/already-read"},
		scores:   map[string]int{"tech@example.com": 2},
	}
	sender := &fakeSender{}
	progress := &progressRecorder{}

	p := newTestPipeline(Deps{
		Source:     &fakeSource{newsletters: newsletters},
		Fetcher:    fetcher,
		Store:      store,
		Summarizer: fakeSummarizer{},
		Sender:     sender,
		Progress:   progress,
	})

	outcome, err := p.Run(context.Background(), 1)

	if outcome != domain.OutcomeSuccess || err != nil {
		t.Fatalf("outcome = %s, err = %v", outcome, err)
	}
	if sender.calls != 1 {
		t.Fatalf("sender calls = %d", sender.calls)
	}
	if sender.summary != "digest overview" {
		t.Fatalf("summary = %q", sender.summary)
	}
	if total := sender.categorized.TotalArticles(); total != 2 {
		t.Fatalf("digest contains %d articles, want 2", total)
	}
	for _, bucket := range sender.categorized {
		for _, article := range bucket {
			if article.URL == "https://example.com/already-read" {
				t.Fatalf("read article leaked into digest")
			}
			if article.Summary == "" {
				t.Fatalf("article %s missing summary", article.URL)
			}
		}
	}
	if progress.newsletters != 2 || progress.articles != 2 {
		t.Fatalf("progress counts: newsletters %d articles %d", progress.newsletters, progress.articles)
	}

	// Sender origin follows the first newsletter that listed the URL.
	tech := sender.categorized["Technology"]
	if len(tech) != 1 || tech[0].NewsletterSender != "tech@example.com" {
		t.Fatalf("technology bucket = %v", tech)
	}
}

func TestRunJunkFiltersApplied(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{articles: map[string]domain.Article{
		"https://spam.example.com/story": goodArticle("https://spam.example.com/story", "Completely Ordinary Headline"),
	}}
	store := &fakeStore{
		filters: []domain.JunkFilter{{Pattern: "spam.example.com", Type: domain.PatternDomain}},
	}
	sender := &fakeSender{}

	p := newTestPipeline(Deps{
		Source: &fakeSource{newsletters: []domain.Newsletter{
			{Sender: "a@example.com", URLs: []string{"https://spam.example.com/story"}},
		}},
		Fetcher: fetcher,
		Store:   store,
		Sender:  sender,
	})

	outcome, err := p.Run(context.Background(), 1)

	if outcome != domain.OutcomeNothingLeft || err != nil {
		t.Fatalf("outcome = %s, err = %v", outcome, err)
	}
	if sender.calls != 0 {
		t.Fatalf("digest must not be sent, got %d calls", sender.calls)
	}
}

func TestRunReadStoreFailsOpen(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{articles: map[string]domain.Article{
		"https://example.com/story": goodArticle("https://example.com/story", "Senate Passes Landmark Vote"),
	}}
	store := &fakeStore{readErr: errors.New("connection refused")}
	sender := &fakeSender{}

	p := newTestPipeline(Deps{
		Source: &fakeSource{newsletters: []domain.Newsletter{
			{Sender: "a@example.com", URLs: []string{"https://example.com/story"}},
		}},
		Fetcher: fetcher,
		Store:   store,
		Sender:  sender,
	})

	outcome, err := p.Run(context.Background(), 1)

	if outcome != domain.OutcomeSuccess || err != nil {
		t.Fatalf("store failure must not abort the run: outcome = %s, err = %v", outcome, err)
	}
	if sender.calls != 1 {
		t.Fatalf("sender calls = %d", sender.calls)
	}
}

func TestRunSendFailure(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{articles: map[string]domain.Article{
		"https://example.com/story": goodArticle("https://example.com/story", "Senate Passes Landmark Vote"),
	}}
	sender := &fakeSender{err: errors.New("smtp auth failed")}
	progress := &progressRecorder{}

	p := newTestPipeline(Deps{
		Source: &fakeSource{newsletters: []domain.Newsletter{
			{Sender: "a@example.com", URLs: []string{"https://example.com/story"}},
		}},
		Fetcher:  fetcher,
		Sender:   sender,
		Progress: progress,
	})

	outcome, err := p.Run(context.Background(), 1)

	if outcome != domain.OutcomeSendFailed || err == nil {
		t.Fatalf("outcome = %s, err = %v", outcome, err)
	}
	if progress.outcome != domain.OutcomeSendFailed {
		t.Fatalf("progress outcome = %s", progress.outcome)
	}
}
