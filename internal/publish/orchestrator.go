// Package publish drives the submit loop: build a payload, post it, sync
// its assets, strictly one item at a time.
package publish

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"contentsync/internal/api"
	"contentsync/internal/assets"
	"contentsync/internal/content"
	"contentsync/internal/metrics"
)

// publishDelay paces requests so a batch never hammers the API.
const publishDelay = 150 * time.Millisecond

// AssetSource enumerates the media files belonging to an item.
type AssetSource interface {
	AssetsFor(item *content.Item, contentType content.Type) ([]content.Asset, error)
}

// Orchestrator publishes items sequentially with per-item failure isolation.
type Orchestrator struct {
	builder  *content.Builder
	client   *api.Client
	assets   *assets.Synchronizer
	source   AssetSource
	deploy   string
	recorder metrics.Recorder
	delay    time.Duration
	runID    string
}

// NewOrchestrator wires the publish loop. deployDir is the root the deploy
// tree; article assets land under its articles/ subdirectory.
func NewOrchestrator(builder *content.Builder, client *api.Client, sync *assets.Synchronizer,
	source AssetSource, deployDir string, recorder metrics.Recorder) *Orchestrator {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Orchestrator{
		builder:  builder,
		client:   client,
		assets:   sync,
		source:   source,
		deploy:   deployDir,
		recorder: recorder,
		delay:    publishDelay,
		runID:    uuid.NewString(),
	}
}

// PublishBatch submits items one by one and returns how many were actually
// attempted. Skip-filtered items and items whose payload cannot be built are
// not counted and add no delay; a failed submit still counts as attempted.
func (o *Orchestrator) PublishBatch(ctx context.Context, items []*content.Item, contentType content.Type) int {
	attempted := 0
	for _, item := range items {
		payload, err := o.builder.Build(item, contentType)
		if err != nil {
			slog.Error("Payload build failed", "path", item.Path, "error", err, "run", o.runID)
			o.recorder.IncPublishResult(string(contentType), metrics.ResultBuildFailed)
			continue
		}
		if payload == nil {
			slog.Debug("Skipping filtered item", "path", item.Path, "run", o.runID)
			o.recorder.IncSkipped(string(contentType))
			continue
		}

		o.publishPayload(ctx, item, payload, contentType)
		attempted++

		select {
		case <-ctx.Done():
			slog.Warn("Batch interrupted", "published", attempted, "run", o.runID)
			return attempted
		case <-time.After(o.delay):
		}
	}
	return attempted
}

// PublishItem submits a single item without pacing. It reports whether the
// item was publishable at all (false = skip-filtered).
func (o *Orchestrator) PublishItem(ctx context.Context, item *content.Item, contentType content.Type) (bool, error) {
	payload, err := o.builder.Build(item, contentType)
	if err != nil {
		o.recorder.IncPublishResult(string(contentType), metrics.ResultBuildFailed)
		return false, err
	}
	if payload == nil {
		o.recorder.IncSkipped(string(contentType))
		return false, nil
	}
	o.publishPayload(ctx, item, payload, contentType)
	return true, nil
}

// publishPayload posts one payload; transport failures are logged and
// recorded, never propagated, so a bad item cannot sink its siblings.
func (o *Orchestrator) publishPayload(ctx context.Context, item *content.Item, payload *content.Payload, contentType content.Type) {
	start := time.Now()
	result, err := o.client.CreateContent(ctx, payload)
	o.recorder.ObservePublishDuration(time.Since(start))
	if err != nil {
		slog.Error("Publish failed", "path", payload.Path, "error", err, "run", o.runID)
		o.recorder.IncPublishResult(string(contentType), metrics.ResultFailed)
		return
	}

	slog.Info("Published", "id", result.ID, "path", result.Path, "run", o.runID)
	o.recorder.IncPublishResult(string(contentType), metrics.ResultSuccess)
	o.syncAssets(item, contentType)
}

func (o *Orchestrator) syncAssets(item *content.Item, contentType content.Type) {
	if o.source == nil || o.assets == nil {
		return
	}
	itemAssets, err := o.source.AssetsFor(item, contentType)
	if err != nil {
		slog.Error("Asset enumeration failed", "path", item.Path, "error", err, "run", o.runID)
		return
	}
	if len(itemAssets) == 0 {
		return
	}

	dest := o.deploy
	if contentType == content.TypeArticle {
		dest = filepath.Join(dest, "articles")
	}
	o.assets.Sync(itemAssets, dest)
}
