package extract

import (
	"reflect"
	"testing"

	"NewsletterDigest/internal/config"
)

func newTestExtractor() *URLExtractor {
	return NewURLExtractor(config.DefaultHeuristics(), nil)
}

func TestExtractAnchors(t *testing.T) {
	t.Parallel()

	body := `<html><body>
	<a href="https://example.com/story-one">Story</a>
	<a href="/relative/path">Relative</a>
	<a href="https://example.com/story-two">Other</a>
	</body></html>`

	urls := newTestExtractor().Extract(body)

	want := []string{"https://example.com/story-one", "https://example.com/story-two"}
	if !reflect.DeepEqual(urls, want) {
		t.Fatalf("unexpected urls: %v", urls)
	}
}

func TestExtractRegexFallback(t *testing.T) {
	t.Parallel()

	body := "Check out https://example.com/plain-text-story for details."

	urls := newTestExtractor().Extract(body)

	if len(urls) != 1 || urls[0] != "https://example.com/plain-text-story" {
		t.Fatalf("unexpected urls: %v", urls)
	}
}

func TestExtractUnwrapsRedirects(t *testing.T) {
	t.Parallel()

	body := `<a href="https://track.example.com/click?url=https%3A%2F%2Fnews.example.com%2Farticle">go</a>`

	urls := newTestExtractor().Extract(body)

	found := false
	for _, u := range urls {
		if u == "https://news.example.com/article" {
			found = true
		}
	}
	if !found {
		t.Fatalf("wrapped url not unwrapped: %v", urls)
	}
}

func TestExtractDropsExcludedPatterns(t *testing.T) {
	t.Parallel()

	body := `<a href="https://example.com/unsubscribe?id=1">bye</a>
	<a href="https://news.example.com/good-story">story</a>
	<a href="https://example.com/privacy">privacy</a>`

	urls := newTestExtractor().Extract(body)

	if len(urls) != 1 || urls[0] != "https://news.example.com/good-story" {
		t.Fatalf("exclusion filter failed: %v", urls)
	}
}

func TestExtractDropsSocialHomepages(t *testing.T) {
	t.Parallel()

	body := `<a href="https://linkedin.com/">social</a>
	<a href="https://linkedin.com/pulse/industry-report">post</a>`

	urls := newTestExtractor().Extract(body)

	if len(urls) != 1 || urls[0] != "https://linkedin.com/pulse/industry-report" {
		t.Fatalf("social homepage filter failed: %v", urls)
	}
}

func TestExtractDeduplicatesDecodedForms(t *testing.T) {
	t.Parallel()

	body := `<a href="https://example.com/a%20story">one</a>
	<a href="https://example.com/a story">two</a>`

	urls := newTestExtractor().Extract(body)

	count := 0
	for _, u := range urls {
		if u == "https://example.com/a story" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("decoded forms not merged: %v", urls)
	}
}

func TestExtractIdempotent(t *testing.T) {
	t.Parallel()

	body := `<html><body>
	<a href="https://example.com/one">1</a>
	<a href="https://track.example.com/r?u=https%3A%2F%2Fexample.com%2Ftwo">2</a>
	plain https://example.com/three text
	</body></html>`

	e := newTestExtractor()
	first := e.Extract(body)
	second := e.Extract(body)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("extraction not idempotent: %v vs %v", first, second)
	}
}

func TestExtractMalformedHTMLDegradesToRegex(t *testing.T) {
	t.Parallel()

	body := "<<<not html>>> but https://example.com/survivor is here"

	urls := newTestExtractor().Extract(body)

	if len(urls) != 1 || urls[0] != "https://example.com/survivor" {
		t.Fatalf("regex fallback failed: %v", urls)
	}
}
