package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cryptotracker/src/utils/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := metrics.NewRecorder()

	r.ObserveResolution(false)
	r.ObserveResolution(true)
	r.ObserveResolution(true)
	r.ObservePass(metrics.PassCommitted, 120*time.Millisecond)
	r.ObservePass(metrics.PassStale, 80*time.Millisecond)
	r.ObserveAlerts(2)
	r.ObserveAlerts(0)
	r.ObserveTradeSync("ok")

	assert.Equal(t, 1.0, testutil.ToFloat64(r.AssetResolutions.WithLabelValues("ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.AssetResolutions.WithLabelValues("degraded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Passes.WithLabelValues(metrics.PassStale)))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.AlertsPublished))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.TradeSyncs.WithLabelValues("ok")))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "cryptotracker_portfolio_passes_total")
}

func TestNilRecorder(t *testing.T) {
	var r *metrics.Recorder
	assert.NotPanics(t, func() {
		r.ObserveResolution(true)
		r.ObservePass(metrics.PassFailed, time.Second)
		r.ObserveAlerts(3)
		r.ObserveTradeSync("failed")
	})

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
