// Package domain holds recording types shared across the processing verticals
package domain

import (
	"strings"
	"time"
)

// Status is the recording lifecycle state
type Status string

// Lifecycle states. pending moves through uploaded and processing to ready;
// any stage failure lands on error
const (
	StatusPending    Status = "pending"
	StatusUploaded   Status = "uploaded"
	StatusProcessing Status = "processing"
	StatusReady      Status = "ready"
	StatusError      Status = "error"
)

// Valid reports whether s is a known lifecycle state
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusUploaded, StatusProcessing, StatusReady, StatusError:
		return true
	}
	return false
}

// Segment is a time-bounded span of transcript text
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Transcript is the structured transcript payload stored alongside the flat text
type Transcript struct {
	Segments []Segment `json:"segments"`
}

// Summary is the structured note summary produced by the language model
type Summary struct {
	Title         string   `json:"title"`
	BulletSummary []string `json:"bullet_summary"`
	ActionItems   []string `json:"action_items"`
	Topics        []string `json:"topics"`
	KeyEntities   []string `json:"key_entities"`
	KeyDates      []string `json:"key_dates"`
}

// Recording is one voice note and everything derived from it
type Recording struct {
	ID             string      `json:"id"`
	Title          string      `json:"title"`
	DurationSec    int         `json:"duration_sec"`
	StorageURL     string      `json:"storage_url,omitempty"`
	TranscriptText string      `json:"transcript_text,omitempty"`
	Transcript     *Transcript `json:"transcript_json,omitempty"`
	Summary        *Summary    `json:"summary_json,omitempty"`
	Status         Status      `json:"status"`
	ErrorMessage   string      `json:"error_message,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
}

// SourceKind discriminates where the pipeline gets its transcript from
type SourceKind int

const (
	// SourceInline means the transcript came in with the recording
	SourceInline SourceKind = iota + 1

	// SourceAudio means the transcript must be produced from stored audio
	SourceAudio
)

// Source is the resolved pipeline input for one recording. It is decided
// once at pipeline entry so later stages never re-branch on raw fields
type Source struct {
	Kind       SourceKind
	Text       string
	Segments   []Segment
	StorageURL string
}

// ResolveSource classifies a recording into its processing source.
// An inline transcript wins over stored audio; a recording with neither
// cannot be processed
func ResolveSource(rec Recording) (Source, bool) {
	if strings.TrimSpace(rec.TranscriptText) != "" {
		src := Source{Kind: SourceInline, Text: rec.TranscriptText}
		if rec.Transcript != nil {
			src.Segments = rec.Transcript.Segments
		}
		return src, true
	}
	if rec.StorageURL != "" {
		return Source{Kind: SourceAudio, StorageURL: rec.StorageURL}, true
	}
	return Source{}, false
}
