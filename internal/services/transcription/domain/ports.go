// Package domain holds the transcription gateway contracts
package domain

import (
	"context"

	recdomain "voxanote/internal/services/recordings/domain"
)

// Result is what a speech-to-text provider returns for one audio file
type Result struct {
	Text     string
	Duration float64
	Segments []recdomain.Segment
}

// Provider converts audio bytes into transcript text with timed segments
type Provider interface {
	Transcribe(ctx context.Context, filename string, audio []byte) (Result, error)
}

// AudioFetcher loads recorded audio from object storage
type AudioFetcher interface {
	Fetch(ctx context.Context, bucket, key string) ([]byte, error)
}

// CheckpointWriter persists transcription progress; satisfied by the
// recordings repository
type CheckpointWriter interface {
	SetStatus(ctx context.Context, id string, st recdomain.Status) error
	SaveTranscript(ctx context.Context, id, text string, tr recdomain.Transcript, st recdomain.Status) error
}
