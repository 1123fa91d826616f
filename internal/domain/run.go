package domain

import "time"

// RunOutcome enumerates the terminal states of one pipeline run.
// Empty-result outcomes are expected, reportable conditions, not errors.
type RunOutcome string

const (
	OutcomeNotRun           RunOutcome = "not_run"
	OutcomeRunning          RunOutcome = "running"
	OutcomeSuccess          RunOutcome = "success"
	OutcomeNoNewsletters    RunOutcome = "no_newsletters"
	OutcomeNoArticles       RunOutcome = "no_articles"
	OutcomeNoUniqueArticles RunOutcome = "no_unique_articles"
	OutcomeNothingLeft      RunOutcome = "no_articles_after_filtering"
	OutcomeSendFailed       RunOutcome = "send_failed"
	OutcomeError            RunOutcome = "error"
)

// RunReport is the structured snapshot of the last pipeline invocation.
type RunReport struct {
	Timestamp       time.Time
	Outcome         RunOutcome
	NewsletterCount int
	ArticleCount    int
	Err             string
}

// Categorized maps category names to articles in ranker output order.
// Empty categories are never present.
type Categorized map[string][]Article

// TotalArticles sums the bucket sizes.
func (c Categorized) TotalArticles() int {
	total := 0
	for _, articles := range c {
		total += len(articles)
	}
	return total
}
