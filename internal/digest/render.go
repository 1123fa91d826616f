package digest

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"NewsletterDigest/internal/config"
	"NewsletterDigest/internal/domain"
)

// Renderer turns the categorized article set into the digest HTML.
type Renderer struct {
	categories []config.CategoryKeywords
	tmpl       *template.Template
}

// NewRenderer compiles the digest template.
func NewRenderer(heuristics config.Heuristics) *Renderer {
	return &Renderer{
		categories: heuristics.Categories,
		tmpl:       template.Must(template.New("digest").Parse(digestTemplate)),
	}
}

type articleView struct {
	URL     string
	Title   string
	Source  string
	Summary string
}

type categoryView struct {
	Name     string
	Articles []articleView
}

type digestView struct {
	Date        string
	Total       int
	Summary     string
	Categories  []categoryView
	GeneratedAt string
}

// Render produces the HTML body for one digest email.
func (r *Renderer) Render(categorized domain.Categorized, summary string, now time.Time) (string, error) {
	view := digestView{
		Date:        now.Format("January 2, 2006"),
		Total:       categorized.TotalArticles(),
		Summary:     summary,
		GeneratedAt: now.Format("2006-01-02 15:04:05"),
	}

	for _, name := range r.orderedNames(categorized) {
		category := categoryView{Name: name}
		for _, article := range categorized[name] {
			category.Articles = append(category.Articles, articleView{
				URL:     article.URL,
				Title:   article.Title,
				Source:  displaySource(article.NewsletterSender),
				Summary: articleSummary(article),
			})
		}
		view.Categories = append(view.Categories, category)
	}

	var b strings.Builder
	if err := r.tmpl.Execute(&b, view); err != nil {
		return "", fmt.Errorf("render digest: %w", err)
	}
	return b.String(), nil
}

// Subject returns the digest email subject line for the given day.
func Subject(now time.Time) string {
	return "Your Daily News Digest - " + now.Format("January 2, 2006")
}

func (r *Renderer) orderedNames(categorized domain.Categorized) []string {
	var names []string
	for _, category := range r.categories {
		if len(categorized[category.Name]) > 0 {
			names = append(names, category.Name)
		}
	}
	if len(categorized["Other"]) > 0 {
		names = append(names, "Other")
	}
	return names
}

// displaySource reduces a raw "From" header to the readable name part.
func displaySource(sender string) string {
	if sender == "" {
		return "Unknown Source"
	}
	if i := strings.Index(sender, "<"); i >= 0 {
		if name := strings.TrimSpace(sender[:i]); name != "" {
			return name
		}
	}
	return sender
}

func articleSummary(article domain.Article) string {
	if article.Summary != "" {
		return article.Summary
	}
	return runePrefix(article.Text, 300) + "..."
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

const digestTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<style>
body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; line-height: 1.6; color: #333; max-width: 700px; margin: 0 auto; padding: 20px; background-color: #f5f5f5; }
.container { background-color: white; border-radius: 8px; padding: 30px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
.header { border-bottom: 3px solid #2c5aa0; padding-bottom: 20px; margin-bottom: 30px; }
h1 { color: #2c5aa0; margin: 0 0 10px 0; font-size: 28px; }
.date { color: #666; font-size: 14px; }
.summary { background-color: #f8f9fa; padding: 15px; border-left: 4px solid #2c5aa0; margin-bottom: 30px; font-style: italic; color: #555; }
.stats { background-color: #e8f4f8; padding: 10px 15px; border-radius: 5px; margin-bottom: 20px; font-size: 14px; color: #2c5aa0; }
.category { margin-bottom: 40px; }
.category-title { color: #2c5aa0; font-size: 22px; margin-bottom: 20px; padding-bottom: 10px; border-bottom: 2px solid #e0e0e0; }
.article { margin-bottom: 25px; padding-bottom: 25px; border-bottom: 1px solid #e0e0e0; }
.article:last-child { border-bottom: none; }
.article-title { font-size: 18px; font-weight: 600; margin-bottom: 10px; }
.article-title a { color: #1a1a1a; text-decoration: none; }
.article-meta { font-size: 12px; color: #888; margin-bottom: 10px; }
.article-summary { color: #444; font-size: 15px; line-height: 1.7; }
.footer { margin-top: 40px; padding-top: 20px; border-top: 2px solid #e0e0e0; text-align: center; color: #888; font-size: 13px; }
</style>
</head>
<body>
<div class="container">
  <div class="header">
    <h1>Your Daily News Digest</h1>
    <div class="date">{{.Date}}</div>
  </div>
  <div class="stats"><strong>{{.Total}}</strong> unique articles from your newsletters</div>
{{if .Summary}}  <div class="summary">{{.Summary}}</div>
{{end}}{{range .Categories}}  <div class="category">
    <h2 class="category-title">{{.Name}} ({{len .Articles}})</h2>
{{range .Articles}}    <div class="article">
      <div class="article-title"><a href="{{.URL}}" target="_blank">{{.Title}}</a></div>
      <div class="article-meta">Source: {{.Source}}</div>
      <div class="article-summary">{{.Summary}}</div>
    </div>
{{end}}  </div>
{{end}}  <div class="footer">
    <p>This digest was automatically generated from your newsletter subscriptions.</p>
    <p>Generated on {{.GeneratedAt}}</p>
  </div>
</div>
</body>
</html>
`
