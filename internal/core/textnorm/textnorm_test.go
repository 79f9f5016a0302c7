package textnorm_test

import (
	"testing"

	"voxanote/internal/core/textnorm"
)

func TestFold_CaseAndWidth(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello world"},
		{"ＦＵＬＬＷＩＤＴＨ", "fullwidth"},
		{"  spaced\t\tout  ", "spaced out"},
		{"Straße", "strasse"},
	}
	for _, tc := range cases {
		if got := textnorm.Fold(tc.in); got != tc.want {
			t.Fatalf("Fold(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestWords_LengthFilter(t *testing.T) {
	t.Parallel()

	got := textnorm.Words("A quick FIX to it", 2)
	want := []string{"quick", "fix"}
	if len(got) != len(want) {
		t.Fatalf("Words returned %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Words returned %v, want %v", got, want)
		}
	}
}
