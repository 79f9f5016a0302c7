// Package service contains the transcription gateway workflow
package service

import (
	"context"
	"path"
	"time"

	"voxanote/internal/adapters/blob"
	"voxanote/internal/core/fallback"
	perr "voxanote/internal/platform/errors"
	"voxanote/internal/platform/logger"
	recdomain "voxanote/internal/services/recordings/domain"
	"voxanote/internal/services/transcription/domain"
)

// Config tunes the provider retry loop
type Config struct {
	// Attempts is the max provider calls per recording; default 3
	Attempts int

	// BackoffStep scales linearly with the attempt number; default 2s
	BackoffStep time.Duration
}

// Svc turns stored audio into a persisted transcript checkpoint
type Svc struct {
	provider   domain.Provider
	fetcher    domain.AudioFetcher
	checkpoint domain.CheckpointWriter
	log        logger.Logger
	cfg        Config
}

// New creates a transcription service
func New(provider domain.Provider, fetcher domain.AudioFetcher, checkpoint domain.CheckpointWriter, cfg Config) *Svc {
	if provider == nil {
		panic("transcription.Service requires a non nil Provider")
	}
	if fetcher == nil {
		panic("transcription.Service requires a non nil AudioFetcher")
	}
	if checkpoint == nil {
		panic("transcription.Service requires a non nil CheckpointWriter")
	}
	if cfg.Attempts <= 0 {
		cfg.Attempts = 3
	}
	if cfg.BackoffStep <= 0 {
		cfg.BackoffStep = 2 * time.Second
	}
	return &Svc{
		provider:   provider,
		fetcher:    fetcher,
		checkpoint: checkpoint,
		log:        *logger.Named("transcription"),
		cfg:        cfg,
	}
}

// Transcribe downloads the audio behind storageURL, runs speech-to-text with
// retry on transient provider failures, and checkpoints the transcript with
// status uploaded before returning it. Permanent provider failures are
// surfaced on the first attempt
func (s *Svc) Transcribe(ctx context.Context, recordingID, storageURL string) (string, []recdomain.Segment, error) {
	log := logger.C(ctx)

	bucket, key, err := blob.ParseURL(storageURL)
	if err != nil {
		return "", nil, err
	}

	if err := s.checkpoint.SetStatus(ctx, recordingID, recdomain.StatusProcessing); err != nil {
		return "", nil, err
	}

	audio, err := s.fetcher.Fetch(ctx, bucket, key)
	if err != nil {
		return "", nil, perr.WithOp(err, "fetch audio")
	}
	log.Debug().Str("bucket", bucket).Str("key", key).Int("bytes", len(audio)).Msg("audio fetched")

	policy := fallback.Policy{
		Attempts: s.cfg.Attempts,
		Backoff:  func(attempt int) time.Duration { return time.Duration(attempt) * s.cfg.BackoffStep },
		Classify: func(err error) fallback.Class {
			if perr.IsTransientUpstream(err) {
				return fallback.ClassRetry
			}
			return fallback.ClassAbort
		},
	}
	result, err := fallback.Run(ctx, policy, fallback.Strategy[domain.Result]{
		Name: "speech-to-text",
		Run: func(ctx context.Context) (domain.Result, error) {
			return s.provider.Transcribe(ctx, path.Base(key), audio)
		},
	})
	if err != nil {
		return "", nil, err
	}

	tr := recdomain.Transcript{Segments: result.Segments}
	if err := s.checkpoint.SaveTranscript(ctx, recordingID, result.Text, tr, recdomain.StatusUploaded); err != nil {
		return "", nil, err
	}
	log.Info().Int("segments", len(result.Segments)).Int("chars", len(result.Text)).Msg("transcript checkpointed")
	return result.Text, result.Segments, nil
}
