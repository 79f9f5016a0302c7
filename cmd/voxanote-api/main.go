package main

import (
	"context"

	"voxanote/internal/adapters/blob"
	"voxanote/internal/adapters/openai"
	"voxanote/internal/platform/config"
	"voxanote/internal/platform/logger"
	phttp "voxanote/internal/platform/net/http"
	"voxanote/internal/platform/store"

	"voxanote/internal/services/api"
)

func main() {
	// service-scoped config for HTTP etc (VOXA_API_*)
	root := config.New()
	apiCfg := root.Prefix("VOXA_API_")
	pgCfg := root.Prefix("SERVICE_PGSQL_")

	// bring up logging early
	logger.Init(logger.FromEnv())
	l := logger.Get()

	st, err := store.Open(
		context.Background(),
		store.Config{
			PG: store.PGConfig{
				Enabled:     true,
				URL:         pgCfg.MustString("DBURL"),
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", true),
			},
		},
		store.WithLogger(*l),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	ai := openai.New(openai.FromConf(root), nil)

	// the object store is optional: without it only inline-transcript notes
	// can be processed
	var objects *blob.Store
	if root.MayString("S3_ENDPOINT", "") != "" {
		objects, err = blob.New(blob.FromConf(root))
		if err != nil {
			l.Panic().Err(err).Msg("blob store connect failed")
		}
	} else {
		l.Warn().Msg("S3_ENDPOINT unset; audio-sourced recordings cannot be processed")
	}

	srv := phttp.NewServer(apiCfg)

	api.Mount(
		srv.Router(),
		api.Options{
			Config: apiCfg,
			Store:  st,
			Logger: l,
			AI:     ai,
			Blob:   objects,
		},
	)

	if err := srv.Run(context.Background()); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
