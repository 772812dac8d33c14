package engine

import (
	"regexp"
	"strings"
)

var wordRe = regexp.MustCompile(`[a-zA-Z0-9]+`)

// WordOverlap returns the fraction of a's word set also present in b's
// word set: |intersection| / max(1, |words(a)|). Tokens are lower-cased
// alphanumeric runs; 0.0 if either side has no tokens.
//
// This is a cheap proxy for "did the reply engage with the request's
// vocabulary". It is NOT a measure of factual correctness and must not
// be read as ground-truth accuracy.
func WordOverlap(a, b string) float64 {
	aWords := wordSet(a)
	bWords := wordSet(b)
	if len(aWords) == 0 || len(bWords) == 0 {
		return 0.0
	}

	overlap := 0
	for w := range aWords {
		if _, ok := bWords[w]; ok {
			overlap++
		}
	}
	return float64(overlap) / float64(max(1, len(aWords)))
}

func wordSet(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, w := range wordRe.FindAllString(strings.ToLower(s), -1) {
		out[w] = struct{}{}
	}
	return out
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
