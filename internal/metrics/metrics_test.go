package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord(t *testing.T) {
	m := New()

	m.RecordPlan("daily", "fallback", 3, 2*time.Second)
	m.RecordPlan("daily", "synthesized", 1, time.Second)
	m.RecordFallback("daily", "retries_exhausted")
	m.RecordRepair("weekly", true)
	m.RecordArchiveFailure()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.PlansTotal.WithLabelValues("daily", "fallback")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FallbackReasons.WithLabelValues("daily", "retries_exhausted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RepairsTotal.WithLabelValues("weekly", "fixed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ArchiveFailures))
	assert.Equal(t, 1, testutil.CollectAndCount(m.GenerationTries))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordPlan("daily", "fallback", 1, time.Second)
		m.RecordFallback("daily", "x")
		m.RecordRepair("daily", false)
		m.RecordArchiveFailure()
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.RecordPlan("custom", "synthesized", 2, time.Second)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `planner_plans_total{kind="custom",origin="synthesized"} 1`)
}
