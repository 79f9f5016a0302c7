package chunker_test

import (
	"testing"

	"voxanote/internal/core/chunker"
)

func TestSplit_SegmentsSkipBlank(t *testing.T) {
	t.Parallel()

	segs := []chunker.Segment{
		{Start: 0, End: 2, Text: "a"},
		{Start: 2, End: 4, Text: "   "},
		{Start: 4, End: 6, Text: "b"},
	}
	got := chunker.Split("ignored", segs)

	if len(got) != 2 {
		t.Fatalf("expected 2 candidates got %d", len(got))
	}
	if got[0].Text != "a" || got[1].Text != "b" {
		t.Fatalf("unexpected texts %q and %q", got[0].Text, got[1].Text)
	}
	if got[0].Start == nil || *got[0].Start != 0 || got[0].End == nil || *got[0].End != 2 {
		t.Fatal("first candidate lost its offsets")
	}
	if got[1].Start == nil || *got[1].Start != 4 {
		t.Fatal("blank segment shifted later offsets")
	}
}

func TestSplit_ParagraphsWhenNoSegments(t *testing.T) {
	t.Parallel()

	got := chunker.Split("Hello world.\n\nGoodbye.", nil)

	if len(got) != 2 {
		t.Fatalf("expected 2 candidates got %d", len(got))
	}
	if got[0].Text != "Hello world." || got[1].Text != "Goodbye." {
		t.Fatalf("unexpected texts %q and %q", got[0].Text, got[1].Text)
	}
	if got[0].Start != nil || got[0].End != nil {
		t.Fatal("paragraph candidates must not carry offsets")
	}
}

func TestSplit_ParagraphsTrimAndDropEmpty(t *testing.T) {
	t.Parallel()

	got := chunker.Split("  one  \n\n\n\n  \n\ntwo", nil)

	if len(got) != 2 {
		t.Fatalf("expected 2 candidates got %d", len(got))
	}
	if got[0].Text != "one" || got[1].Text != "two" {
		t.Fatalf("unexpected texts %q and %q", got[0].Text, got[1].Text)
	}
}

func TestSplit_BlankTranscriptYieldsNone(t *testing.T) {
	t.Parallel()

	if got := chunker.Split("   \n\n  ", nil); len(got) != 0 {
		t.Fatalf("expected no candidates got %d", len(got))
	}
	if got := chunker.Split("", nil); len(got) != 0 {
		t.Fatalf("expected no candidates for empty transcript got %d", len(got))
	}
}

func TestSplit_AllBlankSegmentsYieldsNone(t *testing.T) {
	t.Parallel()

	segs := []chunker.Segment{{Start: 0, End: 1, Text: " "}, {Start: 1, End: 2, Text: "\t"}}
	if got := chunker.Split("text", segs); len(got) != 0 {
		t.Fatalf("expected no candidates got %d", len(got))
	}
}
