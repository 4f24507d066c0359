package metrics

import (
	"net/http"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once            sync.Once
	publishResults  *prom.CounterVec
	publishDuration prom.Histogram
	skipped         *prom.CounterVec
	assetCopies     *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.publishResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "contentsync",
			Name:      "publish_results_total",
			Help:      "Publish attempts by content type and outcome",
		}, []string{"content_type", "result"})
		pr.publishDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "contentsync",
			Name:      "publish_duration_seconds",
			Help:      "Duration of individual content publish calls",
			Buckets:   prom.DefBuckets,
		})
		pr.skipped = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "contentsync",
			Name:      "skipped_items_total",
			Help:      "Items excluded by skip patterns",
		}, []string{"content_type"})
		pr.assetCopies = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "contentsync",
			Name:      "asset_copies_total",
			Help:      "Asset copy results by success/failure",
		}, []string{"result"})
		reg.MustRegister(pr.publishResults, pr.publishDuration, pr.skipped, pr.assetCopies)
	})
	return pr
}

func (p *PrometheusRecorder) IncPublishResult(contentType string, result ResultLabel) {
	if p == nil || p.publishResults == nil {
		return
	}
	p.publishResults.WithLabelValues(contentType, string(result)).Inc()
}

func (p *PrometheusRecorder) ObservePublishDuration(d time.Duration) {
	if p == nil || p.publishDuration == nil {
		return
	}
	p.publishDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncSkipped(contentType string) {
	if p == nil || p.skipped == nil {
		return
	}
	p.skipped.WithLabelValues(contentType).Inc()
}

func (p *PrometheusRecorder) IncAssetCopy(success bool) {
	if p == nil || p.assetCopies == nil {
		return
	}
	res := "failed"
	if success {
		res = "success"
	}
	p.assetCopies.WithLabelValues(res).Inc()
}

// Handler returns an HTTP handler exposing the registry, for watch mode.
func Handler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
