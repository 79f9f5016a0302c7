// Package similarity provides the ranking math for chunk retrieval: cosine
// distance over embedding vectors, and a keyword score used when embeddings
// are unavailable
package similarity

import (
	"math"
	"strings"

	"voxanote/internal/core/textnorm"
)

// MinWordLen is the shortest query token considered for keyword matching
const MinWordLen = 2

// CosineDistance returns 1 - cosine similarity: 0 means identical direction,
// 2 means opposite. Mismatched or zero-magnitude vectors rank last
func CosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 2
	}
	var dot, magA, magB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}
	if magA == 0 || magB == 0 {
		return 2
	}
	return 1 - dot/(math.Sqrt(magA)*math.Sqrt(magB))
}

// QueryWords folds the query and keeps words longer than MinWordLen runes
func QueryWords(query string) []string {
	return textnorm.Words(query, MinWordLen)
}

// KeywordScore counts how many distinct query words appear as substrings of
// the folded text and returns (q - matched) / q, so lower is better. A query
// with no usable words scores 1 for every chunk
func KeywordScore(queryWords []string, text string) float64 {
	if len(queryWords) == 0 {
		return 1
	}
	folded := textnorm.Fold(text)
	matched := 0
	for _, w := range queryWords {
		if strings.Contains(folded, w) {
			matched++
		}
	}
	return float64(len(queryWords)-matched) / float64(len(queryWords))
}
