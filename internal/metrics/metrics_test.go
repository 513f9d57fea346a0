package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	m := New()
	m.ObserveComputation("group", 0.01)
	m.ObserveComputation("group", 0.02)
	m.CacheLookup("hit")
	m.CacheLookup("miss")
	m.CacheLookup("miss")
	m.ConsistencyFailure()
	m.CacheExpired(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.computations.WithLabelValues("group")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.consistencyErrors))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.cacheEvictions))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "groupledger_report_cache_lookups_total")
	assert.Contains(t, string(body), "go_goroutines")
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveComputation("group", 1)
	m.CacheLookup("hit")
	m.ConsistencyFailure()
	m.CacheExpired(1)
}
