package main

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"contentsync/internal/api"
	"contentsync/internal/content"
	"contentsync/internal/credentials"
	"contentsync/internal/markdown"
	"contentsync/internal/metrics"
	"contentsync/internal/source"
	"contentsync/internal/watch"
)

func runWatch() error {
	ctx, cancel := signalContext()
	defer cancel()

	store, err := source.Open(CLI.Watch.SourceRoot)
	if err != nil {
		return err
	}

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if CLI.Watch.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		prom := metrics.NewPrometheusRecorder(reg)
		recorder = prom

		server := &http.Server{Addr: CLI.Watch.MetricsAddr, Handler: metrics.Handler(reg)}
		go func() {
			slog.Info("Serving metrics", "addr", CLI.Watch.MetricsAddr)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("Metrics server failed", "error", err)
			}
		}()
		defer func() {
			_ = server.Close()
		}()
	}

	builder := content.NewBuilder(content.DefaultSkipPatterns, markdown.NewRenderer(), store.BaseURL())
	controller := watch.NewController(watch.Config{
		Store:       store,
		Client:      api.NewClient(CLI.APIURL),
		Credentials: credentials.Default(),
		Service:     CLI.Service,
		Author:      CLI.Author,
		DeployDir:   CLI.Watch.DeployAssetsDir,
		Builder:     builder,
		Recorder:    recorder,
	})
	return controller.Run(ctx)
}
