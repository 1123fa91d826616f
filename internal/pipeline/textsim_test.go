package pipeline

import (
	"strings"
	"testing"

	"NewsletterDigest/internal/config"
)

func titleStops() map[string]struct{} {
	return wordSet(config.DefaultHeuristics().TitleStopWords)
}

func contentStops() map[string]struct{} {
	return wordSet(config.DefaultHeuristics().ContentStopWords)
}

func TestTitleSimilarityHighOverlap(t *testing.T) {
	t.Parallel()

	sim := titleSimilarity("Fed Raises Interest Rates Again", "Fed Raises Interest Rates", titleStops())
	if sim <= 0.6 {
		t.Fatalf("expected similarity above 0.6, got %f", sim)
	}
}

func TestTitleSimilarityModerateOverlap(t *testing.T) {
	t.Parallel()

	// Three shared tokens out of seven distinct: inside the suspect band.
	sim := titleSimilarity("Fed Raises Interest Rates Again", "Federal Reserve Raises Interest Rates", titleStops())
	if sim <= 0.3 || sim > 0.6 {
		t.Fatalf("expected similarity in (0.3, 0.6], got %f", sim)
	}
}

func TestTitleSimilarityStopWordsRemoved(t *testing.T) {
	t.Parallel()

	sim := titleSimilarity("The Market And The Economy", "Market Economy", titleStops())
	if sim != 1.0 {
		t.Fatalf("stop words should not dilute similarity, got %f", sim)
	}
}

func TestTitleSimilarityDegenerateInputs(t *testing.T) {
	t.Parallel()

	stops := titleStops()
	if sim := titleSimilarity("", "anything here", stops); sim != 0 {
		t.Fatalf("empty title must yield 0, got %f", sim)
	}
	if sim := titleSimilarity("the a an", "the of and", stops); sim != 0 {
		t.Fatalf("stop-word-only titles must yield 0, got %f", sim)
	}
}

func TestContentSimilarityIdenticalTexts(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("central bank policy decision moved bond yields sharply today ", 5)
	sim := contentSimilarity(text, text, contentStops(), 1000)
	if sim < 0.999 {
		t.Fatalf("identical texts should score ~1, got %f", sim)
	}
}

func TestContentSimilarityDisjointTexts(t *testing.T) {
	t.Parallel()

	sim := contentSimilarity(
		"quarterly earnings revenue guidance margins forecast",
		"playoff touchdown quarterback stadium overtime kickoff",
		contentStops(), 1000)
	if sim != 0 {
		t.Fatalf("disjoint vocabularies should score 0, got %f", sim)
	}
}

func TestContentSimilarityDegenerateInputs(t *testing.T) {
	t.Parallel()

	stops := contentStops()
	if sim := contentSimilarity("", "some text here", stops, 1000); sim != 0 {
		t.Fatalf("empty text must yield 0, got %f", sim)
	}
	if sim := contentSimilarity("the and of", "with from into", stops, 1000); sim != 0 {
		t.Fatalf("stop-word-only text must yield 0, got %f", sim)
	}
}

func TestBuildVocabularyCapsFeatures(t *testing.T) {
	t.Parallel()

	counts1 := map[string]int{"alpha": 5, "beta": 3, "gamma": 1}
	counts2 := map[string]int{"beta": 2, "delta": 1}

	vocab := buildVocabulary(counts1, counts2, 2)
	if len(vocab) != 2 {
		t.Fatalf("expected 2 terms, got %v", vocab)
	}
	if vocab[0] != "alpha" || vocab[1] != "beta" {
		t.Fatalf("expected most frequent terms first, got %v", vocab)
	}
}
