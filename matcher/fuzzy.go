package matcher

import (
	"github.com/hbollon/go-edlib"
)

// partialRatio computes the spec's "partial ratio": the best Levenshtein
// similarity (in [0, 1]) between term and any substring window of candidate
// whose rune length equals term's rune length. When candidate is shorter
// than term, the whole candidate is scored as a single window.
//
// This is the reference windowed scan the spec requires, but each window is
// scored by go-edlib's StringsSimilarity rather than a hand-rolled edit
// distance table — go-edlib is the one Levenshtein-similarity primitive
// available anywhere in the retrieved corpus (mirrored from
// internal/semantic/fuzzy_matcher.go), so it plays the role of the spec's
// "accelerated partial-ratio" scorer. cutoff is used as an early-exit: once a
// window reaches it, the scan stops without checking the remaining windows.
func partialRatio(term, candidate string, cutoff float64) float64 {
	termRunes := []rune(term)
	candidateRunes := []rune(candidate)

	if len(termRunes) == 0 {
		if len(candidateRunes) == 0 {
			return 1
		}
		return 0
	}

	if len(candidateRunes) <= len(termRunes) {
		return similarity(term, candidate)
	}

	best := 0.0
	windowLen := len(termRunes)
	for start := 0; start+windowLen <= len(candidateRunes); start++ {
		window := string(candidateRunes[start : start+windowLen])
		score := similarity(term, window)
		if score > best {
			best = score
		}
		if best >= cutoff {
			break
		}
	}
	return best
}

// similarity wraps go-edlib's Levenshtein distance as a [0, 1] similarity
// score, following the same idiom as
// internal/semantic/fuzzy_matcher.go's levenshteinSimilarity: go-edlib's
// StringsSimilarity already normalises the raw edit distance by the longer
// operand's length, so the result is used directly.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	score, err := edlib.StringsSimilarity(a, b, edlib.Levenshtein)
	if err != nil {
		return 0
	}
	return float64(score)
}
