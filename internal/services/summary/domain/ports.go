// Package domain holds the summarizer contracts
package domain

import (
	"context"

	recdomain "voxanote/internal/services/recordings/domain"
)

// Completer runs one system+user completion against the language model
type Completer interface {
	Complete(ctx context.Context, system, user string, jsonMode bool) (string, error)
}

// Writer persists the finished summary; satisfied by the recordings repository
type Writer interface {
	SaveSummary(ctx context.Context, id string, sum recdomain.Summary) error
}
