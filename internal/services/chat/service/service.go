// Package service contains the grounded question answering workflow
package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"voxanote/internal/modkit/repokit"
	"voxanote/internal/platform/logger"
	"voxanote/internal/services/chat/domain"
	"voxanote/internal/services/chat/repo"
	retrdomain "voxanote/internal/services/retrieval/domain"
)

// ContextChunks is how many retrieved chunks ground each answer
const ContextChunks = 5

const systemPrompt = "You are an assistant that answers questions about a single transcript. " +
	"Use ONLY the provided chunks; if the answer is not present, say you do not know. " +
	"Cite chunks by referencing their timestamps."

// Service defines the service contract for chat
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner

	searcher  domain.Searcher
	completer domain.Completer
	log       logger.Logger
}

// New creates a chat service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], searcher domain.Searcher, completer domain.Completer) *Svc {
	if db == nil {
		panic("chat.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("chat.Service requires a non nil Repo binder")
	}
	if searcher == nil {
		panic("chat.Service requires a non nil Searcher")
	}
	if completer == nil {
		panic("chat.Service requires a non nil Completer")
	}
	return &Svc{
		Repo:      binder.Bind(db),
		binder:    binder,
		db:        db,
		searcher:  searcher,
		completer: completer,
		log:       *logger.Named("chat"),
	}
}

// Messages returns the recording's chat history, oldest first
func (s *Svc) Messages(ctx context.Context, recordingID string) ([]domain.Message, error) {
	return s.Repo.ListMessages(ctx, recordingID)
}

// Ask answers a question using only the recording's transcript chunks. The
// question and the answer are appended to the history in that order, and the
// retrieved chunks come back verbatim as citations. A recording with no
// chunks still gets an answer, just an ungrounded one with no citations
func (s *Svc) Ask(ctx context.Context, recordingID, question string) (domain.Answer, error) {
	history, err := s.Repo.ListMessages(ctx, recordingID)
	if err != nil {
		return domain.Answer{}, err
	}

	chunks, err := s.searcher.Search(ctx, recordingID, question, ContextChunks)
	if err != nil {
		return domain.Answer{}, err
	}
	logger.C(ctx).Debug().Int("history", len(history)).Int("chunks", len(chunks)).Msg("answering question")

	user := fmt.Sprintf("Transcript context:\n%s\n\nQuestion: %s", groundingContext(chunks), question)
	answer, err := s.completer.Complete(ctx, systemPrompt, user, false)
	if err != nil {
		return domain.Answer{}, err
	}

	if _, err := s.Repo.AddMessage(ctx, recordingID, domain.RoleUser, question); err != nil {
		return domain.Answer{}, err
	}
	if _, err := s.Repo.AddMessage(ctx, recordingID, domain.RoleAssistant, answer); err != nil {
		return domain.Answer{}, err
	}

	citations := make([]domain.Citation, 0, len(chunks))
	for _, c := range chunks {
		citations = append(citations, domain.Citation{Text: c.Text, StartSec: c.StartSec, EndSec: c.EndSec})
	}
	return domain.Answer{Answer: answer, Citations: citations}, nil
}

// groundingContext renders retrieved chunks as numbered, timestamped blocks
// the model can cite
func groundingContext(chunks []retrdomain.Chunk) string {
	blocks := make([]string, 0, len(chunks))
	for i, c := range chunks {
		blocks = append(blocks, fmt.Sprintf("Chunk %d [%ss - %ss]:\n%s", i+1, offset(c.StartSec), offset(c.EndSec), c.Text))
	}
	return strings.Join(blocks, "\n\n")
}

func offset(v *float64) string {
	if v == nil {
		return "?"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
