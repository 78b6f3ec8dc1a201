package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus instruments for the API and the dataset refresher.
type Metrics struct {
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	calculations  *prometheus.CounterVec
	factorEntries prometheus.Gauge
	refreshRuns   *prometheus.CounterVec
	refreshItems  prometheus.Gauge
}

const (
	ResultSaved   = "saved"
	ResultFailed  = "failed"
	ResultSuccess = "success"
)

// New registers the instruments on reg. Collectors already registered by an earlier
// instance are reused.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{}
	var err error

	if m.httpRequests, err = registerCounterVec(reg, prometheus.CounterOpts{
		Name: "custoscarbon_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"}); err != nil {
		return nil, err
	}
	if m.httpDuration, err = registerHistogramVec(reg, prometheus.HistogramOpts{
		Name:    "custoscarbon_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"}); err != nil {
		return nil, err
	}
	if m.calculations, err = registerCounterVec(reg, prometheus.CounterOpts{
		Name: "custoscarbon_calculations_total",
		Help: "Emission calculations by result.",
	}, []string{"result"}); err != nil {
		return nil, err
	}
	if m.factorEntries, err = registerGauge(reg, prometheus.GaugeOpts{
		Name: "custoscarbon_factor_entries",
		Help: "Emission factors loaded at startup.",
	}); err != nil {
		return nil, err
	}
	if m.refreshRuns, err = registerCounterVec(reg, prometheus.CounterOpts{
		Name: "custoscarbon_refresh_runs_total",
		Help: "Dataset refresher runs by result.",
	}, []string{"result"}); err != nil {
		return nil, err
	}
	if m.refreshItems, err = registerGauge(reg, prometheus.GaugeOpts{
		Name: "custoscarbon_refresh_items",
		Help: "Items written by the last successful refresh.",
	}); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Metrics) RecordCalculation(result string) {
	if m == nil {
		return
	}
	m.calculations.WithLabelValues(result).Inc()
}

func (m *Metrics) SetFactorEntries(n int) {
	if m == nil {
		return
	}
	m.factorEntries.Set(float64(n))
}

func (m *Metrics) RecordRefresh(result string, items int) {
	if m == nil {
		return
	}
	m.refreshRuns.WithLabelValues(result).Inc()
	if result == ResultSuccess {
		m.refreshItems.Set(float64(items))
	}
}

// GinMiddleware records request counts and latency per route.
func GinMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func registerCounterVec(reg prometheus.Registerer, opts prometheus.CounterOpts, labels []string) (*prometheus.CounterVec, error) {
	c := prometheus.NewCounterVec(opts, labels)
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return c, nil
}

func registerHistogramVec(reg prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) (*prometheus.HistogramVec, error) {
	h := prometheus.NewHistogramVec(opts, labels)
	if err := reg.Register(h); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return h, nil
}

func registerGauge(reg prometheus.Registerer, opts prometheus.GaugeOpts) (prometheus.Gauge, error) {
	g := prometheus.NewGauge(opts)
	if err := reg.Register(g); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return g, nil
}
