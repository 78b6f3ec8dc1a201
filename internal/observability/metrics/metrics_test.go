package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCalculationAndRefresh(t *testing.T) {
	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	m.RecordCalculation(ResultSaved)
	m.RecordCalculation(ResultSaved)
	m.RecordCalculation(ResultFailed)
	m.RecordRefresh(ResultSuccess, 12)
	m.RecordRefresh(ResultFailed, 0)
	m.SetFactorEntries(7)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.calculations.WithLabelValues(ResultSaved)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.calculations.WithLabelValues(ResultFailed)))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.refreshItems))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.refreshRuns.WithLabelValues(ResultFailed)))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.factorEntries))
}

func TestNewReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := New(reg)
	require.NoError(t, err)
	second, err := New(reg)
	require.NoError(t, err)

	first.RecordCalculation(ResultSaved)
	assert.Equal(t, 1.0, testutil.ToFloat64(second.calculations.WithLabelValues(ResultSaved)))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordCalculation(ResultSaved)
	m.RecordRefresh(ResultSuccess, 1)
	m.SetFactorEntries(1)
}

func TestGinMiddlewareCountsRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	r := gin.New()
	r.Use(GinMiddleware(m))
	r.GET("/api/records", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/records", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues(http.MethodGet, "/api/records", "200")))
}
