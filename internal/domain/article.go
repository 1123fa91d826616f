package domain

import "time"

// Newsletter is one mailbox email classified as a subscription/news email.
// Immutable once fetched; only the URL extractor consumes it.
type Newsletter struct {
	Sender    string
	Subject   string
	Date      string
	Body      string
	URLs      []string
	MessageID string
}

// Article is a candidate piece of content reachable from a newsletter.
// URL is the unique key within a run. Later stages only attach Summary
// and Category; URL/Title/Text never change after fetching.
type Article struct {
	URL          string
	Title        string
	Text         string
	ExtractionOK bool

	NewsletterSender  string
	NewsletterSubject string

	Summary  string
	Category string
}

// PatternType distinguishes how a junk filter pattern matches.
type PatternType string

const (
	PatternTitle  PatternType = "title"
	PatternDomain PatternType = "domain"
)

// JunkFilter is a persisted substring rule excluding future articles.
type JunkFilter struct {
	Pattern string
	Type    PatternType
}

// Interaction records a user's vote/read state for one article URL.
type Interaction struct {
	ArticleURL    string
	ArticleTitle  string
	ArticleSource string
	Vote          int
	IsRead        bool
	CreatedAt     time.Time
}

// Sender is a tracked newsletter sender address.
type Sender struct {
	Email     string
	Name      string
	CreatedAt time.Time
}
