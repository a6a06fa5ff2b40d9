// Package scoring holds the pure scoring functions used by the exercise pipelines.
// Nothing in this package performs I/O.
package scoring

import (
	"strings"

	"speakscore/internal/util"
)

// Tokenize lower-cases text and splits it on whitespace. Punctuation stays attached to words.
func Tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

// WordEditDistance returns the minimum number of word substitutions, deletions
// and insertions needed to turn ref into hyp.
func WordEditDistance(ref, hyp []string) int {
	if len(ref) == 0 {
		return len(hyp)
	}
	if len(hyp) == 0 {
		return len(ref)
	}

	prev := make([]int, len(hyp)+1)
	curr := make([]int, len(hyp)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ref); i++ {
		curr[0] = i
		for j := 1; j <= len(hyp); j++ {
			cost := 1
			if ref[i-1] == hyp[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(hyp)]
}

// WordErrorRate computes WER between reference and hypothesis after lower-casing both.
// An empty reference yields 0 when the hypothesis is also empty and 1 otherwise.
func WordErrorRate(reference, hypothesis string) float64 {
	ref := Tokenize(reference)
	hyp := Tokenize(hypothesis)
	if len(ref) == 0 {
		if len(hyp) == 0 {
			return 0
		}
		return 1
	}
	return float64(WordEditDistance(ref, hyp)) / float64(len(ref))
}

// LexicalScore converts WER into a pronunciation score in [0, 100].
func LexicalScore(reference, hypothesis string) float64 {
	return util.Clamp((1-WordErrorRate(reference, hypothesis))*100, 0, 100)
}
