package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"NewsletterDigest/internal/config"
	"NewsletterDigest/internal/domain"
	"NewsletterDigest/internal/ports"
)

const (
	summaryWords     = 80
	articleCharLimit = 3000

	articleSystemPrompt  = "You are a helpful assistant that summarizes news articles concisely."
	overviewSystemPrompt = "You are a helpful assistant that summarizes news trends."
)

// Summarizer attaches summaries to articles via the OpenAI chat
// completions API, falling back to extractive summaries whenever the
// API is unconfigured or fails. A summary always exists afterwards.
type Summarizer struct {
	client     *openai.Client
	model      openai.ChatModel
	categories []config.CategoryKeywords
	logger     *slog.Logger
}

var _ ports.Summarizer = (*Summarizer)(nil)

// NewSummarizer builds the adapter. An empty API key disables the API
// entirely; only the extractive fallback runs.
func NewSummarizer(cfg config.OpenAIConfig, heuristics config.Heuristics, logger *slog.Logger) *Summarizer {
	s := &Summarizer{
		model:      openai.ChatModel(cfg.Model),
		categories: heuristics.Categories,
		logger:     logger,
	}
	if cfg.APIKey != "" {
		client := openai.NewClient(option.WithAPIKey(cfg.APIKey))
		s.client = &client
	}
	return s
}

// SummarizeAll fills in the Summary field for every article that does
// not already carry one.
func (s *Summarizer) SummarizeAll(ctx context.Context, articles []domain.Article) []domain.Article {
	for i := range articles {
		if articles[i].Summary == "" {
			articles[i].Summary = s.summarize(ctx, articles[i])
		}
	}
	return articles
}

func (s *Summarizer) summarize(ctx context.Context, article domain.Article) string {
	if s.client == nil {
		return ExtractiveSummary(article, summaryWords)
	}

	text := runePrefix(article.Text, articleCharLimit)

	prompt := fmt.Sprintf(`Summarize the following news article in %d words or less.
Focus on the key facts and main points.

Title: %s

Article:
%s

Summary:`, summaryWords, article.Title, text)

	summary, err := s.complete(ctx, articleSystemPrompt, prompt)
	if err != nil {
		s.warn("ai summarization failed", "title", article.Title, "error", err)
		return ExtractiveSummary(article, summaryWords)
	}
	return summary
}

// DigestSummary describes the digest contents, optionally adding an AI
// one-sentence overview of the leading category's top headlines.
func (s *Summarizer) DigestSummary(ctx context.Context, categorized domain.Categorized) string {
	names := s.orderedCategories(categorized)

	var b strings.Builder
	fmt.Fprintf(&b, "Your daily news digest contains %d unique articles across %d categories: %s. ",
		categorized.TotalArticles(), len(names), strings.Join(names, ", "))

	if s.client == nil || len(names) == 0 {
		return b.String()
	}

	top := categorized[names[0]]
	if len(top) > 3 {
		top = top[:3]
	}
	var titles []string
	for _, article := range top {
		titles = append(titles, "- "+article.Title)
	}

	prompt := fmt.Sprintf(`Based on these top news headlines, write a one-sentence overview of today's key news themes:

%s

Overview:`, strings.Join(titles, "\n"))

	overview, err := s.complete(ctx, overviewSystemPrompt, prompt)
	if err != nil {
		s.warn("digest overview failed", "error", err)
		return b.String()
	}
	b.WriteString(overview)
	return b.String()
}

func (s *Summarizer) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: s.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// orderedCategories returns the non-empty category names in canonical
// declaration order, with Other last.
func (s *Summarizer) orderedCategories(categorized domain.Categorized) []string {
	var names []string
	for _, category := range s.categories {
		if len(categorized[category.Name]) > 0 {
			names = append(names, category.Name)
		}
	}
	if len(categorized["Other"]) > 0 {
		names = append(names, "Other")
	}
	return names
}

// runePrefix returns the first n characters of s, never splitting a
// multibyte sequence.
func runePrefix(s string, n int) string {
	for i := range s {
		if n == 0 {
			return s[:i]
		}
		n--
	}
	return s
}

func (s *Summarizer) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}

// ExtractiveSummary builds a summary from the article's first sentences
// up to maxWords, word-truncating when no whole sentence fits, and
// falling back to the title for empty text.
func ExtractiveSummary(article domain.Article, maxWords int) string {
	text := article.Text
	if text == "" {
		if article.Title != "" {
			return article.Title
		}
		return "No summary available"
	}

	sentences := strings.Split(strings.ReplaceAll(text, "\n", " "), ". ")

	var summary strings.Builder
	wordCount := 0
	for _, sentence := range sentences {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}

		words := len(strings.Fields(sentence))
		if wordCount+words > maxWords {
			break
		}
		summary.WriteString(sentence)
		summary.WriteString(". ")
		wordCount += words
	}

	if summary.Len() == 0 {
		words := strings.Fields(text)
		if len(words) > maxWords {
			words = words[:maxWords]
		}
		return strings.Join(words, " ") + "..."
	}

	return strings.TrimSpace(summary.String())
}
