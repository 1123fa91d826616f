package pipeline

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// tokenExpr matches words of two or more characters, mirroring the
// tokenization the content vectorizer is defined against.
var tokenExpr = regexp.MustCompile(`\w\w+`)

// titleSimilarity computes Jaccard similarity over lowercased,
// whitespace-tokenized titles with stop words removed. Returns 0 when
// either token set ends up empty, so tiny vocabularies never produce
// spurious matches.
func titleSimilarity(title1, title2 string, stopWords map[string]struct{}) float64 {
	if title1 == "" || title2 == "" {
		return 0
	}

	words1 := tokenSet(title1, stopWords)
	words2 := tokenSet(title2, stopWords)
	if len(words1) == 0 || len(words2) == 0 {
		return 0
	}

	intersection := 0
	for word := range words1 {
		if _, ok := words2[word]; ok {
			intersection++
		}
	}
	union := len(words1) + len(words2) - intersection
	if union == 0 {
		return 0
	}

	return float64(intersection) / float64(union)
}

func tokenSet(text string, stopWords map[string]struct{}) map[string]struct{} {
	set := map[string]struct{}{}
	for _, word := range strings.Fields(strings.ToLower(text)) {
		if _, stop := stopWords[word]; !stop {
			set[word] = struct{}{}
		}
	}
	return set
}

// contentSimilarity computes cosine similarity of TF-IDF vectors built
// jointly over the two texts: stop words removed, vocabulary capped at
// maxFeatures terms (most frequent first), smoothed IDF, l2-normalized
// term weights. Degenerate input yields 0, never an error.
func contentSimilarity(text1, text2 string, stopWords map[string]struct{}, maxFeatures int) float64 {
	if text1 == "" || text2 == "" {
		return 0
	}

	counts1 := termCounts(text1, stopWords)
	counts2 := termCounts(text2, stopWords)
	if len(counts1) == 0 || len(counts2) == 0 {
		return 0
	}

	vocab := buildVocabulary(counts1, counts2, maxFeatures)

	vec1 := tfidfVector(counts1, counts2, vocab)
	vec2 := tfidfVector(counts2, counts1, vocab)

	return dot(vec1, vec2)
}

func termCounts(text string, stopWords map[string]struct{}) map[string]int {
	counts := map[string]int{}
	for _, token := range tokenExpr.FindAllString(strings.ToLower(text), -1) {
		if _, stop := stopWords[token]; !stop {
			counts[token]++
		}
	}
	return counts
}

// buildVocabulary keeps at most maxFeatures terms, preferring higher
// combined frequency, then alphabetical order for determinism.
func buildVocabulary(counts1, counts2 map[string]int, maxFeatures int) []string {
	totals := map[string]int{}
	for term, n := range counts1 {
		totals[term] += n
	}
	for term, n := range counts2 {
		totals[term] += n
	}

	terms := make([]string, 0, len(totals))
	for term := range totals {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if totals[terms[i]] != totals[terms[j]] {
			return totals[terms[i]] > totals[terms[j]]
		}
		return terms[i] < terms[j]
	})

	if maxFeatures > 0 && len(terms) > maxFeatures {
		terms = terms[:maxFeatures]
	}
	return terms
}

// tfidfVector weights raw term counts by smoothed inverse document
// frequency over the two-document corpus and l2-normalizes the result.
func tfidfVector(own, other map[string]int, vocab []string) []float64 {
	const docs = 2

	vec := make([]float64, len(vocab))
	var norm float64
	for i, term := range vocab {
		tf := float64(own[term])
		if tf == 0 {
			continue
		}

		df := 0
		if own[term] > 0 {
			df++
		}
		if other[term] > 0 {
			df++
		}

		idf := math.Log(float64(1+docs)/float64(1+df)) + 1
		vec[i] = tf * idf
		norm += vec[i] * vec[i]
	}

	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
