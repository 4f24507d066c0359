// Package metrics provides observability hooks for publish runs.
package metrics

import "time"

// ResultLabel enumerates publish outcome categories for counters.
type ResultLabel string

const (
	ResultSuccess     ResultLabel = "success"
	ResultFailed      ResultLabel = "failed"
	ResultBuildFailed ResultLabel = "build_failed"
)

// Recorder defines observability hooks for publish and asset-sync activity.
// Implementations may forward to Prometheus, OpenTelemetry, etc. All methods
// must be safe on the NoopRecorder so injection stays optional.
type Recorder interface {
	IncPublishResult(contentType string, result ResultLabel)
	ObservePublishDuration(d time.Duration)
	IncSkipped(contentType string)
	IncAssetCopy(success bool)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncPublishResult(string, ResultLabel) {}
func (NoopRecorder) ObservePublishDuration(time.Duration) {}
func (NoopRecorder) IncSkipped(string)                    {}
func (NoopRecorder) IncAssetCopy(bool)                    {}
