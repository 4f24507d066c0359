package main

import (
	"context"
	"log/slog"
	"time"

	"contentsync/internal/api"
	"contentsync/internal/assets"
	"contentsync/internal/content"
	"contentsync/internal/markdown"
	"contentsync/internal/metrics"
	"contentsync/internal/publish"
	"contentsync/internal/source"
)

func runPublish() error {
	ctx, cancel := signalContext()
	defer cancel()

	store, err := source.Open(CLI.Publish.SourceRoot)
	if err != nil {
		return err
	}
	if err := store.Load(); err != nil {
		return err
	}

	client, err := newAuthedClient(ctx)
	if err != nil {
		return err
	}
	return publishAll(ctx, client, store, CLI.Publish.DeployAssetsDir, CLI.Publish.DaysAgo)
}

// publishAll clears the API caches and submits the recent batch. Cache
// invalidation is best-effort; a failure never blocks publishing.
func publishAll(ctx context.Context, client *api.Client, store *source.Store, deployDir string, daysAgo int) error {
	if err := client.InvalidateCaches(ctx); err != nil {
		slog.Warn("Cache invalidation failed", "error", err)
	}

	builder := content.NewBuilder(content.DefaultSkipPatterns, markdown.NewRenderer(), store.BaseURL())
	syncer := assets.NewSynchronizer(assets.SniffValidator{}, metrics.NoopRecorder{})
	orch := publish.NewOrchestrator(builder, client, syncer, store, deployDir, metrics.NoopRecorder{})

	since := time.Now().AddDate(0, 0, -daysAgo)
	slog.Info("Publishing batch", "since", since.Format(time.DateOnly), "daysAgo", daysAgo)

	published := orch.PublishBatch(ctx, store.Articles(since), content.TypeArticle)
	published += orch.PublishBatch(ctx, store.Pages(since), content.TypePage)

	slog.Info("Batch complete", "published", published)
	return nil
}
