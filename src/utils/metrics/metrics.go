package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pass outcomes.
const (
	PassCommitted = "committed"
	PassStale     = "stale"
	PassCancelled = "cancelled"
	PassFailed    = "failed"
)

// Recorder holds the Prometheus collectors of the portfolio pipeline. A nil *Recorder
// is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	AssetResolutions *prometheus.CounterVec // labels: outcome=ok|degraded
	Passes           *prometheus.CounterVec // labels: outcome
	PassDuration     prometheus.Histogram
	AlertsPublished  prometheus.Counter
	TradeSyncs       *prometheus.CounterVec // labels: outcome
}

// NewRecorder registers the collectors on a dedicated registry, together with the Go
// runtime and process collectors.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		AssetResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cryptotracker_asset_resolutions_total",
			Help: "Holdings resolved by the price/pnl resolver, by outcome",
		}, []string{"outcome"}),
		Passes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cryptotracker_portfolio_passes_total",
			Help: "Portfolio aggregation passes, by outcome",
		}, []string{"outcome"}),
		PassDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cryptotracker_portfolio_pass_duration_seconds",
			Help:    "Wall time of one aggregation pass",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		AlertsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cryptotracker_alerts_published_total",
			Help: "Risk alerts handed to the alert broker",
		}),
		TradeSyncs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cryptotracker_trade_syncs_total",
			Help: "Incremental trade syncs, by outcome",
		}, []string{"outcome"}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.AssetResolutions,
		r.Passes,
		r.PassDuration,
		r.AlertsPublished,
		r.TradeSyncs,
	)
	return r
}

func (r *Recorder) ObserveResolution(degraded bool) {
	if r == nil {
		return
	}
	outcome := "ok"
	if degraded {
		outcome = "degraded"
	}
	r.AssetResolutions.WithLabelValues(outcome).Inc()
}

func (r *Recorder) ObservePass(outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.Passes.WithLabelValues(outcome).Inc()
	r.PassDuration.Observe(elapsed.Seconds())
}

func (r *Recorder) ObserveAlerts(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.AlertsPublished.Add(float64(n))
}

func (r *Recorder) ObserveTradeSync(outcome string) {
	if r == nil {
		return
	}
	r.TradeSyncs.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
