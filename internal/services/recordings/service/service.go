// Package service contains the recording lifecycle workflows
package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"voxanote/internal/modkit/repokit"
	perr "voxanote/internal/platform/errors"
	"voxanote/internal/platform/logger"
	"voxanote/internal/platform/tasks"
	"voxanote/internal/services/recordings/domain"
	"voxanote/internal/services/recordings/repo"
)

// Service defines the service contract for recordings
type Service interface{ domain.ServicePort }

// Config tunes pipeline behavior
type Config struct {
	// SettleDelay is how long to wait before reading freshly uploaded audio,
	// giving the object store time to commit the upload
	SettleDelay time.Duration
}

// Svc implements the Service interface
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner

	log    logger.Logger
	runner *tasks.Runner

	transcriber domain.Transcriber
	summarizer  domain.Summarizer
	indexer     domain.Indexer

	settle time.Duration
}

// New creates a recordings service
func New(
	db repokit.TxRunner,
	binder repokit.Binder[repo.Repo],
	runner *tasks.Runner,
	transcriber domain.Transcriber,
	summarizer domain.Summarizer,
	indexer domain.Indexer,
	cfg Config,
) *Svc {
	if db == nil {
		panic("recordings.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("recordings.Service requires a non nil Repo binder")
	}
	if runner == nil {
		panic("recordings.Service requires a non nil task runner")
	}
	if summarizer == nil {
		panic("recordings.Service requires a non nil Summarizer")
	}
	if indexer == nil {
		panic("recordings.Service requires a non nil Indexer")
	}
	return &Svc{
		Repo:        binder.Bind(db),
		binder:      binder,
		db:          db,
		log:         *logger.Named("recordings"),
		runner:      runner,
		transcriber: transcriber,
		summarizer:  summarizer,
		indexer:     indexer,
		settle:      cfg.SettleDelay,
	}
}

// Create stores a new recording. An inline transcript makes it processable
// immediately; a storage URL defers transcription to the pipeline
func (s *Svc) Create(ctx context.Context, in domain.CreateInput) (domain.Recording, error) {
	rec := domain.Recording{
		ID:             uuid.NewString(),
		Title:          in.Title,
		DurationSec:    in.DurationSec,
		StorageURL:     in.StorageURL,
		TranscriptText: strings.TrimSpace(in.TranscriptText),
		Status:         domain.StatusPending,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, rec); err != nil {
		return domain.Recording{}, err
	}
	return rec, nil
}

// List returns all recordings, newest first
func (s *Svc) List(ctx context.Context) ([]domain.Recording, error) {
	return s.Repo.List(ctx)
}

// Get returns one recording by id
func (s *Svc) Get(ctx context.Context, id string) (domain.Recording, error) {
	return s.Repo.Get(ctx, id)
}

// Delete removes a recording and everything derived from it
func (s *Svc) Delete(ctx context.Context, id string) error {
	return s.Repo.Delete(ctx, id)
}

// Status returns the diagnostic projection used to poll pipeline progress
func (s *Svc) Status(ctx context.Context, id string) (domain.StatusView, error) {
	rec, err := s.Repo.Get(ctx, id)
	if err != nil {
		return domain.StatusView{}, err
	}
	return domain.StatusView{
		ID:            rec.ID,
		Status:        rec.Status,
		StorageURL:    rec.StorageURL,
		HasTranscript: strings.TrimSpace(rec.TranscriptText) != "",
		HasSummary:    rec.Summary != nil,
		ErrorMessage:  rec.ErrorMessage,
	}, nil
}

// Process accepts a pipeline run and returns once the recording is marked
// processing; the work itself runs on a spawned task. Concurrent runs on the
// same recording are not serialized: each stage writes whole values, so the
// last writer wins
func (s *Svc) Process(ctx context.Context, id string) (domain.ProcessAck, error) {
	if _, err := s.Repo.Get(ctx, id); err != nil {
		return domain.ProcessAck{}, err
	}
	if err := s.Repo.SetStatus(ctx, id, domain.StatusProcessing); err != nil {
		return domain.ProcessAck{}, err
	}

	s.runner.Spawn("process "+id, func(taskCtx context.Context) error {
		return s.pipeline(taskCtx, id)
	})

	return domain.ProcessAck{ID: id, Status: domain.StatusProcessing}, nil
}

// pipeline runs resolve, transcribe, summarize, index, ready. Any stage
// failure except indexing marks the recording failed with the stage's message
func (s *Svc) pipeline(ctx context.Context, id string) error {
	ctx = logger.WithRecording(ctx, id)
	log := logger.C(ctx)

	// re-fetch inside the task so a transcript written between accept and run
	// is picked up
	rec, err := s.Repo.Get(ctx, id)
	if err != nil {
		return s.fail(ctx, id, err)
	}

	src, ok := domain.ResolveSource(rec)
	if !ok {
		return s.fail(ctx, id, perr.InvalidArgf("no transcript text or storage url available"))
	}

	text, segments := src.Text, src.Segments
	if src.Kind == domain.SourceAudio {
		if err := settle(ctx, s.settle); err != nil {
			return s.fail(ctx, id, err)
		}
		if s.transcriber == nil {
			return s.fail(ctx, id, perr.Unavailablef("transcription is not configured"))
		}
		text, segments, err = s.transcriber.Transcribe(ctx, id, src.StorageURL)
		if err != nil {
			return s.fail(ctx, id, err)
		}
	}

	if _, err := s.summarizer.Summarize(ctx, id, text); err != nil {
		return s.fail(ctx, id, err)
	}

	// indexing failures degrade chat, they do not fail the note
	indexed, total, err := s.indexer.Index(ctx, id, text, segments)
	if err != nil {
		log.Warn().Err(err).Msg("chunk indexing failed; chat will be limited")
	} else if indexed < total {
		log.Warn().Int("indexed", indexed).Int("total", total).Msg("chunk indexing partially failed")
	}

	if err := s.Repo.SetStatus(ctx, id, domain.StatusReady); err != nil {
		return s.fail(ctx, id, err)
	}
	log.Info().Msg("recording ready")
	return nil
}

func (s *Svc) fail(ctx context.Context, id string, cause error) error {
	if err := s.Repo.SetFailure(ctx, id, cause.Error()); err != nil {
		logger.C(ctx).Error().Err(err).Msg("could not record pipeline failure")
	}
	return cause
}

func settle(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
