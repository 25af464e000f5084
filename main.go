package main

import (
	"context"
	"net/http"
	"time"

	"github.com/raushankrgupta/merchant-dashboard/api"
	"github.com/raushankrgupta/merchant-dashboard/backend"
	"github.com/raushankrgupta/merchant-dashboard/catalog"
	"github.com/raushankrgupta/merchant-dashboard/config"
	"github.com/raushankrgupta/merchant-dashboard/drafts"
	"github.com/raushankrgupta/merchant-dashboard/logx"
	"github.com/raushankrgupta/merchant-dashboard/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to load config")
	}
	logx.Init(cfg.Env())

	ctx := context.Background()

	client, err := backend.NewClient(cfg.BackendURL, cfg.BackendTimeout)
	if err != nil {
		logx.Fatal().Err(err).Msg("Invalid backend URL")
	}

	store := catalog.NewStore(client)
	if err := store.Refresh(ctx); err != nil {
		// the page still renders; the next creation or wizard open refetches
		logx.Warn().Err(err).Str("backend", client.BaseURL).Msg("Initial catalog refresh failed")
	}

	draftStore, closeDrafts, err := drafts.FromConfig(ctx, cfg)
	if err != nil {
		logx.Fatal().Err(err).Str("driver", cfg.DraftStore).Msg("Failed to open draft store")
	}
	defer closeDrafts()

	assets, err := storage.FromConfig(ctx, cfg)
	if err != nil {
		logx.Fatal().Err(err).Str("driver", cfg.StorageDriver).Msg("Failed to open asset storage")
	}

	if sweeper, ok := assets.(storage.Sweeper); ok {
		go storage.RunJanitor(ctx, sweeper, cfg.StagedImageMaxAge, cfg.StagedImageSweepEvery)
	}

	server, err := api.NewServer(cfg, client, store, draftStore, assets)
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to build server")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logx.Info().
		Str("port", cfg.Port).
		Str("backend", client.BaseURL).
		Str("drafts", cfg.DraftStore).
		Str("storage", cfg.StorageDriver).
		Msg("Server starting")
	if err := srv.ListenAndServe(); err != nil {
		logx.Fatal().Err(err).Msg("Server failed to start")
	}
}
