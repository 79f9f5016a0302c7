// Package textnorm provides the deterministic text folding used by keyword
// matching when embedding-based search is unavailable
// Pipeline order
// 1 UTF-8 repair drop invalid bytes
// 2 Unicode NFKC normalization
// 3 Case folding
// 4 Collapse whitespace to single spaces and trim
package textnorm

import (
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		// order matters and mirrors the documented pipeline
		return transform.Chain(
			norm.NFKC,
			cases.Fold(), // unicode case folding
		)
	},
}

// Fold returns the folded form of s following the pipeline described above
func Fold(s string) string {
	if s == "" {
		return ""
	}

	// 1 repair UTF-8 drop invalid bytes
	s = strings.ToValidUTF8(s, "")

	// 2-3 transform via pooled chain then reset and return it
	tr := chainPool.Get().(transform.Transformer)
	ns, _, _ := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)

	// 4 collapse whitespace and trim
	return collapseSpaces(ns)
}

// Words folds s and splits it into whitespace-delimited tokens of more than
// min runes; shorter tokens carry too little signal for substring matching
func Words(s string, min int) []string {
	folded := Fold(s)
	if folded == "" {
		return nil
	}
	fields := strings.Fields(folded)
	out := make([]string, 0, len(fields))
	for _, w := range fields {
		if len([]rune(w)) > min {
			out = append(out, w)
		}
	}
	return out
}

func collapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			if !space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = true
			continue
		}
		space = false
		b.WriteRune(r)
	}
	return strings.TrimRight(b.String(), " ")
}
