package similarity_test

import (
	"math"
	"testing"

	"voxanote/internal/core/similarity"
)

func TestCosineDistance_Orientation(t *testing.T) {
	t.Parallel()

	same := similarity.CosineDistance([]float32{1, 0}, []float32{2, 0})
	if math.Abs(same) > 1e-9 {
		t.Fatalf("parallel vectors should have distance 0, got %v", same)
	}

	orth := similarity.CosineDistance([]float32{1, 0}, []float32{0, 1})
	if math.Abs(orth-1) > 1e-9 {
		t.Fatalf("orthogonal vectors should have distance 1, got %v", orth)
	}

	opp := similarity.CosineDistance([]float32{1, 0}, []float32{-1, 0})
	if math.Abs(opp-2) > 1e-9 {
		t.Fatalf("opposite vectors should have distance 2, got %v", opp)
	}
}

func TestCosineDistance_DegenerateVectorsRankLast(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		a, b []float32
	}{
		{"mismatched lengths", []float32{1, 2}, []float32{1}},
		{"empty", nil, nil},
		{"zero magnitude", []float32{0, 0}, []float32{1, 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := similarity.CosineDistance(tc.a, tc.b); got != 2 {
				t.Fatalf("expected max distance 2, got %v", got)
			}
		})
	}
}

func TestKeywordScore_CountsDistinctWords(t *testing.T) {
	t.Parallel()

	words := similarity.QueryWords("What about The Budget meeting")
	if len(words) == 0 {
		t.Fatal("expected usable query words")
	}

	full := similarity.KeywordScore(words, "the budget meeting covered what happened about everything")
	if full != 0 {
		t.Fatalf("all words matched, expected 0 got %v", full)
	}

	none := similarity.KeywordScore(words, "completely unrelated")
	if none != 1 {
		t.Fatalf("no words matched, expected 1 got %v", none)
	}

	partial := similarity.KeywordScore(words, "we discussed the budget")
	if partial <= 0 || partial >= 1 {
		t.Fatalf("partial match should land strictly between 0 and 1, got %v", partial)
	}
}

func TestKeywordScore_NoUsableWordsScoresOne(t *testing.T) {
	t.Parallel()

	// every token is at or under the length cutoff
	words := similarity.QueryWords("a an to is")
	if len(words) != 0 {
		t.Fatalf("expected no usable words, got %v", words)
	}
	if got := similarity.KeywordScore(words, "anything at all"); got != 1 {
		t.Fatalf("expected score 1, got %v", got)
	}
}

func TestKeywordScore_FoldsCase(t *testing.T) {
	t.Parallel()

	words := similarity.QueryWords("BUDGET")
	if got := similarity.KeywordScore(words, "the Budget review"); got != 0 {
		t.Fatalf("case-folded match expected 0, got %v", got)
	}
}
