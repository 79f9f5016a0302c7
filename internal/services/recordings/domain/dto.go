package domain

// CreateInput is the payload for creating a recording. Either an inline
// transcript or a storage URL for uploaded audio may be supplied; neither is
// also accepted, the recording just cannot be processed until one exists
type CreateInput struct {
	Title          string `json:"title" validate:"required,min=1"`
	DurationSec    int    `json:"duration_sec" validate:"required,gt=0"`
	TranscriptText string `json:"transcript_text,omitempty" validate:"omitempty"`
	StorageURL     string `json:"storage_url,omitempty" validate:"omitempty,url"`
}

// StatusView is the diagnostic projection returned by the status endpoint
type StatusView struct {
	ID            string `json:"id"`
	Status        Status `json:"status"`
	StorageURL    string `json:"storage_url,omitempty"`
	HasTranscript bool   `json:"has_transcript"`
	HasSummary    bool   `json:"has_summary"`
	ErrorMessage  string `json:"error_message,omitempty"`
}

// ProcessAck is returned when a processing run has been accepted
type ProcessAck struct {
	ID     string `json:"id"`
	Status Status `json:"status"`
}
