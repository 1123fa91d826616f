package fetch

import (
	"context"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"NewsletterDigest/internal/domain"
	"NewsletterDigest/internal/ports"
)

const (
	userAgent        = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	minContentLength = 200
	defaultWorkers   = 8
)

var contentClassExpr = regexp.MustCompile(`(?i)article|content|post|story`)

// Fetcher retrieves best-effort title/body text from article pages.
// Every failure mode (network, timeout, parse) degrades to an article
// with ExtractionOK=false; callers never see an error.
type Fetcher struct {
	client  *http.Client
	workers int
	logger  *slog.Logger
}

var _ ports.ArticleFetcher = (*Fetcher)(nil)

// NewFetcher wires an HTTP client; timeout defaults to 10s and the
// worker count to 8 when zero values are given.
func NewFetcher(client *http.Client, timeout time.Duration, workers int, logger *slog.Logger) *Fetcher {
	if client == nil {
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Fetcher{client: client, workers: workers, logger: logger}
}

// Fetch downloads and extracts one article.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) domain.Article {
	article := domain.Article{URL: pageURL}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		f.debug("build request failed", "url", pageURL, "error", err)
		return article
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		f.debug("fetch failed", "url", pageURL, "error", err)
		return article
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		f.debug("parse failed", "url", pageURL, "error", err)
		return article
	}

	article.Title = strings.TrimSpace(doc.Find("title").First().Text())
	article.Text = extractBody(doc)
	article.ExtractionOK = article.Text != ""

	if article.ExtractionOK {
		f.debug("extracted article", "url", pageURL, "title", article.Title)
	}
	return article
}

func (f *Fetcher) debug(msg string, args ...any) {
	if f.logger != nil {
		f.logger.Debug(msg, args...)
	}
}

// FetchAll runs fetches across a bounded worker pool and returns the
// results in input order so downstream stages see discovery order.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string) []domain.Article {
	results := make([]domain.Article, len(urls))
	sem := make(chan struct{}, f.workers)

	var wg sync.WaitGroup
	for i, pageURL := range urls {
		wg.Add(1)
		go func(idx int, u string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[idx] = f.Fetch(ctx, u)
		}(i, pageURL)
	}
	wg.Wait()

	return results
}

// extractBody concatenates paragraph text from the first content-like
// containers until more than minContentLength characters accumulate.
func extractBody(doc *goquery.Document) string {
	var text strings.Builder

	doc.Find("article, main, div").EachWithBreak(func(_ int, container *goquery.Selection) bool {
		class, _ := container.Attr("class")
		if !contentClassExpr.MatchString(class) {
			return true
		}

		var parts []string
		container.Find("p").Each(func(_ int, p *goquery.Selection) {
			parts = append(parts, p.Text())
		})
		text.WriteString(strings.Join(parts, " "))

		return text.Len() <= minContentLength
	})

	return strings.TrimSpace(text.String())
}
