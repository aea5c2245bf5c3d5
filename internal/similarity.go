package internal

import "github.com/sergi/go-diff/diffmatchpatch"

// LevenshteinSimilarity returns 1 - distance/maxLen in [0, 1]. Two empty
// strings are identical.
func LevenshteinSimilarity(a, b string) float64 {
	maxLen := max(len(a), len(b))
	if maxLen == 0 {
		return 1.0
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	dist := dmp.DiffLevenshtein(diffs)

	return 1.0 - float64(dist)/float64(maxLen)
}
