// Package domain holds the transcript chunk types and retrieval contracts
package domain

import "context"

// Chunk is one indexed span of a transcript. Offsets are nil for chunks that
// came from paragraph splitting rather than timed segments
type Chunk struct {
	ID          string   `json:"id"`
	RecordingID string   `json:"recording_id"`
	Index       int      `json:"chunk_index"`
	Text        string   `json:"text"`
	StartSec    *float64 `json:"start_sec"`
	EndSec      *float64 `json:"end_sec"`
}

// IndexReport says how much of a transcript made it into the chunk store
type IndexReport struct {
	Indexed int
	Total   int
}

// Embedder produces one vector per input text, in input order
type Embedder interface {
	EmbedBatch(ctx context.Context, inputs []string) ([][]float32, error)
}
