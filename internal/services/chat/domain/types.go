// Package domain holds chat message types and answer contracts
package domain

import (
	"context"
	"time"

	retrdomain "voxanote/internal/services/retrieval/domain"
)

// Role is who authored a chat message
type Role string

// Message roles
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn in a recording's chat history
type Message struct {
	ID          string    `json:"id"`
	RecordingID string    `json:"recording_id"`
	Role        Role      `json:"role"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}

// Citation points a reader at the chunk an answer drew from
type Citation struct {
	Text     string   `json:"text"`
	StartSec *float64 `json:"start_sec"`
	EndSec   *float64 `json:"end_sec"`
}

// Answer is a grounded model response with its supporting chunks
type Answer struct {
	Answer    string     `json:"answer"`
	Citations []Citation `json:"citations"`
}

// AskInput is the chat request payload
type AskInput struct {
	Question string `json:"question" validate:"required,min=1"`
}

// AskResponse is the chat endpoint payload
type AskResponse struct {
	ID        string     `json:"id"`
	Answer    string     `json:"answer"`
	Citations []Citation `json:"citations"`
}

// ServicePort defines the chat contract
type ServicePort interface {
	Messages(ctx context.Context, recordingID string) ([]Message, error)
	Ask(ctx context.Context, recordingID, question string) (Answer, error)
}

// Searcher retrieves the best-matching transcript chunks for a question
type Searcher interface {
	Search(ctx context.Context, recordingID, query string, limit int) ([]retrdomain.Chunk, error)
}

// Completer runs one system+user completion against the language model
type Completer interface {
	Complete(ctx context.Context, system, user string, jsonMode bool) (string, error)
}
