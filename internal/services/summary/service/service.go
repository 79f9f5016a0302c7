// Package service contains the summarizer workflow
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	perr "voxanote/internal/platform/errors"
	"voxanote/internal/platform/logger"
	recdomain "voxanote/internal/services/recordings/domain"
	"voxanote/internal/services/summary/domain"
)

const systemPrompt = "You are an assistant that summarizes meeting or personal voice notes into structured JSON."

const userPromptFormat = `
Summarize the following transcript into this JSON structure:
{
  "title": string,
  "bullet_summary": string[5],
  "action_items": string[],
  "topics": string[],
  "key_entities": string[] (optional),
  "key_dates": string[] (optional)
}

Transcript:
%s
`

// Svc produces and persists structured summaries
type Svc struct {
	completer domain.Completer
	writer    domain.Writer
	log       logger.Logger
}

// New creates a summary service
func New(completer domain.Completer, writer domain.Writer) *Svc {
	if completer == nil {
		panic("summary.Service requires a non nil Completer")
	}
	if writer == nil {
		panic("summary.Service requires a non nil Writer")
	}
	return &Svc{completer: completer, writer: writer, log: *logger.Named("summary")}
}

// Summarize asks the model for a JSON summary of the transcript, fills
// defaults for anything the model left out, persists the whole value, and
// returns it. Each run replaces the previous summary entirely
func (s *Svc) Summarize(ctx context.Context, recordingID, transcript string) (recdomain.Summary, error) {
	raw, err := s.completer.Complete(ctx, systemPrompt, fmt.Sprintf(userPromptFormat, transcript), true)
	if err != nil {
		return recdomain.Summary{}, err
	}

	sum, err := decode(raw)
	if err != nil {
		return recdomain.Summary{}, err
	}

	if err := s.writer.SaveSummary(ctx, recordingID, sum); err != nil {
		return recdomain.Summary{}, err
	}
	logger.C(ctx).Info().Str("title", sum.Title).Int("bullets", len(sum.BulletSummary)).Msg("summary stored")
	return sum, nil
}

// decode parses the model's JSON and normalizes it: a missing or blank title
// becomes "Untitled", missing lists become empty, never nil
func decode(raw string) (recdomain.Summary, error) {
	var sum recdomain.Summary
	if err := json.Unmarshal([]byte(raw), &sum); err != nil {
		return recdomain.Summary{}, perr.Wrap(err, perr.ErrorCodeUpstream, "summary is not valid json")
	}
	if strings.TrimSpace(sum.Title) == "" {
		sum.Title = "Untitled"
	}
	if sum.BulletSummary == nil {
		sum.BulletSummary = []string{}
	}
	if sum.ActionItems == nil {
		sum.ActionItems = []string{}
	}
	if sum.Topics == nil {
		sum.Topics = []string{}
	}
	if sum.KeyEntities == nil {
		sum.KeyEntities = []string{}
	}
	if sum.KeyDates == nil {
		sum.KeyDates = []string{}
	}
	return sum, nil
}
