// Package chunker splits a transcript into retrieval-sized candidates.
// Time-aligned provider segments are preferred; without them the transcript
// is split on paragraph boundaries
package chunker

import (
	"regexp"
	"strings"
)

// Segment is a time-bounded span emitted by the speech-to-text provider
type Segment struct {
	Start float64
	End   float64
	Text  string
}

// Candidate is one chunk candidate; offsets are nil for paragraph splits
type Candidate struct {
	Text  string
	Start *float64
	End   *float64
}

var paragraphSplit = regexp.MustCompile(`\n\n+`)

// Split produces ordered chunk candidates from a transcript.
// With segments: one candidate per non-blank segment, offsets and order kept.
// Without: paragraph-level split on blank lines, empties dropped.
// A blank transcript yields zero candidates; that is valid, not an error
func Split(transcript string, segments []Segment) []Candidate {
	if len(segments) > 0 {
		out := make([]Candidate, 0, len(segments))
		for _, s := range segments {
			if strings.TrimSpace(s.Text) == "" {
				continue
			}
			start, end := s.Start, s.End
			out = append(out, Candidate{Text: s.Text, Start: &start, End: &end})
		}
		return out
	}

	parts := paragraphSplit.Split(transcript, -1)
	out := make([]Candidate, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, Candidate{Text: p})
	}
	return out
}
