package pipeline

import (
	"testing"

	"NewsletterDigest/internal/config"
	"NewsletterDigest/internal/domain"
)

func TestArticleFilter(t *testing.T) {
	t.Parallel()

	f := NewArticleFilter(config.DefaultHeuristics())

	cases := []struct {
		name    string
		article domain.Article
		want    bool
	}{
		{
			"real article accepted",
			domain.Article{Title: "Global Markets Rally After Policy Shift", Text: "body", ExtractionOK: true},
			true,
		},
		{
			"extraction failure rejected",
			domain.Article{Title: "Global Markets Rally After Policy Shift", ExtractionOK: false},
			false,
		},
		{
			"boilerplate marker rejected despite length",
			domain.Article{Title: "Subscribe to our Newsletter", Text: "body", ExtractionOK: true},
			false,
		},
		{
			"short title rejected",
			domain.Article{Title: "Hi", Text: "body", ExtractionOK: true},
			false,
		},
		{
			"privacy policy rejected",
			domain.Article{Title: "Privacy Policy | Example News", Text: "body", ExtractionOK: true},
			false,
		},
		{
			"short multibyte title rejected despite byte length",
			domain.Article{Title: "日本の選挙速報まとめ", Text: "body", ExtractionOK: true},
			false,
		},
		{
			"long multibyte title accepted",
			domain.Article{Title: "Übernahmeangebot für Münchner Industriekonzern", Text: "body", ExtractionOK: true},
			true,
		},
	}

	for _, tc := range cases {
		if got := f.Accept(tc.article); got != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}
