// Package api assembles the service verticals and mounts them on the HTTP router
package api

import (
	"context"
	stdhttp "net/http"
	"time"

	"voxanote/internal/adapters/blob"
	"voxanote/internal/adapters/openai"
	"voxanote/internal/modkit"
	"voxanote/internal/platform/config"
	"voxanote/internal/platform/logger"
	phttp "voxanote/internal/platform/net/http"
	"voxanote/internal/platform/net/middleware"
	"voxanote/internal/platform/store"
	"voxanote/internal/platform/tasks"

	chathttp "voxanote/internal/services/chat/http"
	chatrepo "voxanote/internal/services/chat/repo"
	chatsvc "voxanote/internal/services/chat/service"
	recdomain "voxanote/internal/services/recordings/domain"
	recmodule "voxanote/internal/services/recordings/module"
	recrepo "voxanote/internal/services/recordings/repo"
	recsvc "voxanote/internal/services/recordings/service"
	retrrepo "voxanote/internal/services/retrieval/repo"
	retrsvc "voxanote/internal/services/retrieval/service"
	sumsvc "voxanote/internal/services/summary/service"
	trdomain "voxanote/internal/services/transcription/domain"
	trsvc "voxanote/internal/services/transcription/service"
)

// Options are the API options
type Options struct {
	Config config.Conf
	Store  *store.Store
	Logger *logger.Logger

	// AI is the language-model client used for transcription, summaries,
	// embeddings, and chat
	AI *openai.Client

	// Blob is the audio object store; nil disables audio-sourced processing
	Blob *blob.Store
}

// Mount wires the verticals together and mounts their routes
func Mount(r phttp.Router, opt Options) {
	deps := modkit.Deps{
		Log: *opt.Logger,
		Cfg: opt.Config,
		PG:  opt.Store.PG,
	}

	r.Use(middleware.RealIP())
	r.Use(middleware.RequestID())
	r.Use(middleware.RecoverJSON)
	r.Use(middleware.AccessLogZerolog(middleware.AccessLogOptions{
		Slow: opt.Config.MayDuration("SLOW_REQUEST", 2*time.Second),
	}))
	r.Use(middleware.CORS(middleware.CORSOptions{}))

	runner := tasks.NewRunner(deps.Log, opt.Config.MayDuration("PROCESS_TIMEOUT", 10*time.Minute))

	ai := aiGateway{cli: opt.AI}
	recRepo := recrepo.NewPG().Bind(deps.PG)

	retrieval := retrsvc.New(deps.PG, retrrepo.NewPG(), opt.AI)
	summarizer := sumsvc.New(ai, recRepo)

	var transcriber recdomain.Transcriber
	if opt.Blob != nil {
		transcriber = trsvc.New(ai, opt.Blob, recRepo, trsvc.Config{
			Attempts:    opt.Config.MayInt("TRANSCRIBE_ATTEMPTS", 3),
			BackoffStep: opt.Config.MayDuration("TRANSCRIBE_BACKOFF", 2*time.Second),
		})
	}

	recordings := recsvc.New(deps.PG, recrepo.NewPG(), runner, transcriber, summarizer, retrieval, recsvc.Config{
		SettleDelay: opt.Config.MayDuration("PROCESS_SETTLE_DELAY", 2*time.Second),
	})
	chat := chatsvc.New(deps.PG, chatrepo.NewPG(), retrieval, ai)

	mods := []modkit.Module{
		recmodule.New(recordings, func(rr phttp.Router) {
			chathttp.Register(rr, chat)
		}),
	}

	r.Get("/healthz", phttp.Handle(func(req *stdhttp.Request) phttp.Response {
		if err := opt.Store.Guard(req.Context()); err != nil {
			return phttp.Error(err)
		}
		return phttp.OK(map[string]string{"status": "ok"})
	}))

	for _, m := range mods {
		m.MountRoutes(r)
	}
}

// aiGateway adapts the openai client to the narrow per-vertical ports
type aiGateway struct{ cli *openai.Client }

func (g aiGateway) Transcribe(ctx context.Context, filename string, audio []byte) (trdomain.Result, error) {
	t, err := g.cli.Transcribe(ctx, filename, audio)
	if err != nil {
		return trdomain.Result{}, err
	}
	segs := make([]recdomain.Segment, 0, len(t.Segments))
	for _, s := range t.Segments {
		segs = append(segs, recdomain.Segment{Start: s.Start, End: s.End, Text: s.Text})
	}
	return trdomain.Result{Text: t.Text, Duration: t.Duration, Segments: segs}, nil
}

func (g aiGateway) Complete(ctx context.Context, system, user string, jsonMode bool) (string, error) {
	return g.cli.Complete(ctx, []openai.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}, jsonMode)
}
