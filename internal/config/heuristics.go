package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CategoryKeywords binds one digest category to its scoring keywords.
// Declaration order matters: ties between equal-scoring categories are
// resolved in favor of the earlier one.
type CategoryKeywords struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// Heuristics groups every keyword/pattern table the pipeline consumes.
// They ship with compiled defaults and can be replaced wholesale from a
// YAML file without touching pipeline logic.
type Heuristics struct {
	BoilerplateTitles    []string           `yaml:"boilerplateTitles"`
	MinTitleLength       int                `yaml:"minTitleLength"`
	URLExcludePatterns   []string           `yaml:"urlExcludePatterns"`
	SocialHomepages      []string           `yaml:"socialHomepages"`
	RedirectParams       []string           `yaml:"redirectParams"`
	TitleStopWords       []string           `yaml:"titleStopWords"`
	JunkPatternStopWords []string           `yaml:"junkPatternStopWords"`
	ContentStopWords     []string           `yaml:"contentStopWords"`
	Categories           []CategoryKeywords `yaml:"categories"`
	NewsletterKeywords   []string           `yaml:"newsletterKeywords"`
	NewsDomains          []string           `yaml:"newsDomains"`
}

// LoadHeuristics returns the compiled defaults, replaced section by
// section from the YAML file at path when it is non-empty.
func LoadHeuristics(path string) (Heuristics, error) {
	h := DefaultHeuristics()
	if path == "" {
		return h, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return h, fmt.Errorf("read heuristics %s: %w", path, err)
	}

	var override Heuristics
	if err := yaml.Unmarshal(raw, &override); err != nil {
		return h, fmt.Errorf("parse heuristics %s: %w", path, err)
	}

	return mergeHeuristics(h, override), nil
}

func mergeHeuristics(base, override Heuristics) Heuristics {
	if len(override.BoilerplateTitles) > 0 {
		base.BoilerplateTitles = override.BoilerplateTitles
	}
	if override.MinTitleLength > 0 {
		base.MinTitleLength = override.MinTitleLength
	}
	if len(override.URLExcludePatterns) > 0 {
		base.URLExcludePatterns = override.URLExcludePatterns
	}
	if len(override.SocialHomepages) > 0 {
		base.SocialHomepages = override.SocialHomepages
	}
	if len(override.RedirectParams) > 0 {
		base.RedirectParams = override.RedirectParams
	}
	if len(override.TitleStopWords) > 0 {
		base.TitleStopWords = override.TitleStopWords
	}
	if len(override.JunkPatternStopWords) > 0 {
		base.JunkPatternStopWords = override.JunkPatternStopWords
	}
	if len(override.ContentStopWords) > 0 {
		base.ContentStopWords = override.ContentStopWords
	}
	if len(override.Categories) > 0 {
		base.Categories = override.Categories
	}
	if len(override.NewsletterKeywords) > 0 {
		base.NewsletterKeywords = override.NewsletterKeywords
	}
	if len(override.NewsDomains) > 0 {
		base.NewsDomains = override.NewsDomains
	}
	return base
}

// DefaultHeuristics returns the compiled-in tables.
func DefaultHeuristics() Heuristics {
	return Heuristics{
		BoilerplateTitles: []string{
			"contact us", "privacy policy", "cookie notice", "cookie policy",
			"sign in", "log in", "login", "register", "registration",
			"linkedin", "facebook", "instagram", "twitter", "youtube",
			"app store", "google play", "terms of use", "terms and conditions",
			"subscribe", "unsubscribe", "join now", "newsletter",
			"explore hbr", "about hbr", "follow hbr", "manage my account",
			"view all", "see all", "browse", "home page",
			"advertising", "partnerships", "solutions for", "data & visuals",
		},
		MinTitleLength: 15,
		URLExcludePatterns: []string{
			"unsubscribe", "tracking", "pixel", "beacon", "email-open",
			"facebook.com", "instagram.com", "twitter.com", "x.com",
			"linkedin.com/login", "linkedin.com/in/", "linkedin.com/company",
			"youtube.com", "tiktok.com", "pinterest.com", "spotify.com",
			"/contact", "/privacy", "/terms", "/signin", "/login", "/signup",
			"/unsubscribe", "/preferences", "/settings", "/account",
			"app-store", "play.google", "itunes.apple",
			"schema.org", "mailto:", "tel:", "sms:",
			"/feed", "/rss", "/sitemap",
		},
		SocialHomepages: []string{
			"facebook.com", "instagram.com", "linkedin.com", "twitter.com",
			"youtube.com", "tiktok.com", "pinterest.com",
		},
		RedirectParams: []string{"url", "u", "redirect", "link", "target", "destination", "goto"},
		TitleStopWords: []string{
			"the", "a", "an", "in", "on", "at", "to", "for", "of", "and", "or", "but",
		},
		JunkPatternStopWords: []string{
			"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for",
			"of", "with", "by", "from", "as", "is", "was", "are", "were", "been",
			"be", "have", "has", "had", "do", "does", "did", "will", "would",
			"could", "should", "may", "might", "must", "can", "this", "that",
			"these", "those", "i", "you", "he", "she", "it", "we", "they",
			"what", "which", "who", "whom", "how", "why", "when", "where",
			"your", "our", "their", "its", "my", "his", "her", "new", "now",
		},
		ContentStopWords: []string{
			"a", "about", "above", "after", "again", "against", "all", "am", "an",
			"and", "any", "are", "as", "at", "be", "because", "been", "before",
			"being", "below", "between", "both", "but", "by", "can", "could",
			"did", "do", "does", "doing", "down", "during", "each", "few", "for",
			"from", "further", "had", "has", "have", "having", "he", "her",
			"here", "hers", "herself", "him", "himself", "his", "how", "i", "if",
			"in", "into", "is", "it", "its", "itself", "just", "me", "more",
			"most", "my", "myself", "no", "nor", "not", "now", "of", "off", "on",
			"once", "only", "or", "other", "our", "ours", "ourselves", "out",
			"over", "own", "s", "same", "she", "should", "so", "some", "such",
			"t", "than", "that", "the", "their", "theirs", "them", "themselves",
			"then", "there", "these", "they", "this", "those", "through", "to",
			"too", "under", "until", "up", "very", "was", "we", "were", "what",
			"when", "where", "which", "while", "who", "whom", "why", "will",
			"with", "would", "you", "your", "yours", "yourself", "yourselves",
		},
		Categories: []CategoryKeywords{
			{Name: "Politics", Keywords: []string{
				"election", "congress", "senate", "president", "governor",
				"political", "vote", "campaign", "democrat", "republican",
			}},
			{Name: "Business & Economy", Keywords: []string{
				"market", "stock", "economy", "business", "financial",
				"company", "revenue", "profit", "trade", "economic",
			}},
			{Name: "Technology", Keywords: []string{
				"tech", "ai", "software", "app", "digital",
				"cyber", "computer", "startup", "innovation", "data",
			}},
			{Name: "Science & Health", Keywords: []string{
				"study", "research", "health", "medical", "science",
				"climate", "disease", "vaccine", "treatment", "environment",
			}},
			{Name: "World News", Keywords: []string{
				"international", "global", "country", "nation", "foreign",
				"embassy", "war", "conflict", "treaty",
			}},
			{Name: "Sports", Keywords: []string{
				"game", "team", "player", "sport", "championship",
				"league", "score", "match", "tournament",
			}},
			{Name: "Culture & Entertainment", Keywords: []string{
				"film", "movie", "music", "art", "book",
				"culture", "entertainment", "celebrity", "show", "theater",
			}},
		},
		NewsletterKeywords: []string{
			"newsletter", "digest", "daily brief", "morning brief",
			"weekly roundup", "today in", "this week", "breaking news",
			"daily update", "news roundup", "top stories",
		},
		NewsDomains: []string{
			"nytimes.com", "wsj.com", "washingtonpost.com", "axios.com",
			"politico.com", "bloomberg.com", "reuters.com", "cnn.com",
			"bbc.com", "theguardian.com", "forbes.com", "economist.com",
			"substack.com", "medium.com", "news", "newsletter",
		},
	}
}
