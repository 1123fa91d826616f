package extract

import (
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"NewsletterDigest/internal/config"
)

var urlExpr = regexp.MustCompile(`https?://(?:www\.)?[-a-zA-Z0-9@:%._+~#=]{1,256}\.[a-zA-Z0-9()]{1,6}\b(?:[-a-zA-Z0-9()@:%_+.~#?&/=]*)`)

// URLExtractor turns raw newsletter bodies (HTML or plain text) into a
// deduplicated, filtered list of candidate article URLs.
type URLExtractor struct {
	heuristics config.Heuristics
	logger     *slog.Logger
}

// NewURLExtractor wires the heuristic tables used for filtering.
func NewURLExtractor(heuristics config.Heuristics, logger *slog.Logger) *URLExtractor {
	return &URLExtractor{heuristics: heuristics, logger: logger}
}

// Extract returns candidate article URLs in first-seen order, each at
// most once in its percent-decoded form. Malformed HTML degrades to the
// regex scan; nothing here ever fails.
func (e *URLExtractor) Extract(body string) []string {
	candidates := newOrderedSet()

	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(body)); err == nil {
		doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
			href, _ := a.Attr("href")
			if strings.HasPrefix(href, "http") {
				candidates.add(href)
			}
		})
	}

	for _, match := range urlExpr.FindAllString(body, -1) {
		candidates.add(match)
	}

	decoded := newOrderedSet()
	for _, raw := range candidates.items {
		u := percentDecode(raw)
		decoded.add(u)

		for _, wrapped := range e.unwrapRedirects(u) {
			decoded.add(wrapped)
		}
	}

	filtered := make([]string, 0, len(decoded.items))
	for _, u := range decoded.items {
		if e.keep(u) {
			filtered = append(filtered, u)
		}
	}

	if e.logger != nil {
		e.logger.Debug("extracted urls", "candidates", len(decoded.items), "kept", len(filtered))
	}
	return filtered
}

// unwrapRedirects pulls article URLs out of tracking/redirect wrappers
// by inspecting a fixed set of recognized query parameter names.
func (e *URLExtractor) unwrapRedirects(rawURL string) []string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}

	query := parsed.Query()
	var unwrapped []string
	for _, param := range e.heuristics.RedirectParams {
		values, ok := query[param]
		if !ok || len(values) == 0 {
			continue
		}
		if wrapped := values[0]; strings.HasPrefix(wrapped, "http") {
			unwrapped = append(unwrapped, percentDecode(wrapped))
		}
	}
	return unwrapped
}

func (e *URLExtractor) keep(rawURL string) bool {
	lower := strings.ToLower(rawURL)

	for _, pattern := range e.heuristics.URLExcludePatterns {
		if strings.Contains(lower, pattern) {
			return false
		}
	}

	for _, domain := range e.heuristics.SocialHomepages {
		if lower == "https://"+domain || lower == "https://"+domain+"/" ||
			lower == "http://"+domain || lower == "http://"+domain+"/" {
			return false
		}
	}

	return true
}

// percentDecode decodes %XX escapes, keeping the input untouched when
// it contains invalid escape sequences.
func percentDecode(raw string) string {
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

type orderedSet struct {
	items []string
	seen  map[string]struct{}
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: map[string]struct{}{}}
}

func (s *orderedSet) add(item string) {
	if _, ok := s.seen[item]; ok {
		return
	}
	s.seen[item] = struct{}{}
	s.items = append(s.items, item)
}
