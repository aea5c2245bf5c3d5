package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshteinSimilarityIdentical(t *testing.T) {
	assert.Equal(t, 1.0, LevenshteinSimilarity("hello world", "hello world"))
	assert.Equal(t, 1.0, LevenshteinSimilarity("", ""))
}

func TestLevenshteinSimilarityDisjoint(t *testing.T) {
	sim := LevenshteinSimilarity("aaaa", "bbbb")
	assert.Equal(t, 0.0, sim)
}

func TestLevenshteinSimilarityNearMatch(t *testing.T) {
	a := "The quick brown fox jumps over the lazy dog"
	b := "The quick brown fox jumps over the lazy cat"
	sim := LevenshteinSimilarity(a, b)
	assert.Greater(t, sim, 0.9)
	assert.Less(t, sim, 1.0)
}

func TestLevenshteinSimilarityEmptyOneSide(t *testing.T) {
	assert.Equal(t, 0.0, LevenshteinSimilarity("abc", ""))
	assert.Equal(t, 0.0, LevenshteinSimilarity("", "abc"))
}

func TestLevenshteinSimilaritySymmetric(t *testing.T) {
	a := "governance is stable"
	b := "governance is unstable"
	assert.InDelta(t, LevenshteinSimilarity(a, b), LevenshteinSimilarity(b, a), 1e-9)
}
