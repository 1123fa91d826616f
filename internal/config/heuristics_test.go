package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefaultHeuristicsTables(t *testing.T) {
	t.Parallel()

	h := DefaultHeuristics()

	if h.MinTitleLength != 15 {
		t.Errorf("min title length = %d", h.MinTitleLength)
	}
	if len(h.BoilerplateTitles) == 0 || len(h.URLExcludePatterns) == 0 {
		t.Error("compiled tables must be non-empty")
	}
	if len(h.Categories) != 7 {
		t.Errorf("categories = %d, want 7", len(h.Categories))
	}
	if h.Categories[0].Name != "Politics" {
		t.Errorf("first category = %q", h.Categories[0].Name)
	}
}

func TestLoadHeuristicsEmptyPath(t *testing.T) {
	t.Parallel()

	h, err := LoadHeuristics("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(h, DefaultHeuristics()) {
		t.Error("empty path must yield the defaults")
	}
}

func TestLoadHeuristicsSectionOverride(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "heuristics.yaml")
	raw := `
minTitleLength: 20
titleStopWords: ["the", "a"]
categories:
  - name: Science
    keywords: ["lab", "study"]
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatal(err)
	}

	h, err := LoadHeuristics(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if h.MinTitleLength != 20 {
		t.Errorf("min title length = %d", h.MinTitleLength)
	}
	if !reflect.DeepEqual(h.TitleStopWords, []string{"the", "a"}) {
		t.Errorf("title stop words = %v", h.TitleStopWords)
	}
	if len(h.Categories) != 1 || h.Categories[0].Name != "Science" {
		t.Errorf("categories = %v", h.Categories)
	}
	// Untouched sections keep the compiled defaults.
	if len(h.BoilerplateTitles) != len(DefaultHeuristics().BoilerplateTitles) {
		t.Error("boilerplate table should be untouched")
	}
}

func TestLoadHeuristicsMissingFile(t *testing.T) {
	t.Parallel()

	h, err := LoadHeuristics(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if !reflect.DeepEqual(h, DefaultHeuristics()) {
		t.Error("defaults must be returned alongside the error")
	}
}
