package domain

import "context"

// ServicePort defines the recording lifecycle contract
type ServicePort interface {
	Create(ctx context.Context, in CreateInput) (Recording, error)
	List(ctx context.Context) ([]Recording, error)
	Get(ctx context.Context, id string) (Recording, error)
	Delete(ctx context.Context, id string) error

	// Process accepts a pipeline run for the recording and returns before it
	// finishes; progress is observed through Status
	Process(ctx context.Context, id string) (ProcessAck, error)
	Status(ctx context.Context, id string) (StatusView, error)
}

// Transcriber turns stored audio into transcript text and segments,
// checkpointing its result before returning
type Transcriber interface {
	Transcribe(ctx context.Context, recordingID, storageURL string) (string, []Segment, error)
}

// Summarizer produces and persists the structured summary for a transcript
type Summarizer interface {
	Summarize(ctx context.Context, recordingID, transcript string) (Summary, error)
}

// Indexer makes a transcript searchable; indexed may be less than total when
// individual chunks fail
type Indexer interface {
	Index(ctx context.Context, recordingID, transcript string, segments []Segment) (indexed, total int, err error)
}
