package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API and
// the scheduling engine.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	dbQueryDuration *prometheus.HistogramVec

	rosterRuns         *prometheus.CounterVec
	rosterRunDuration  *prometheus.HistogramVec
	rosterCriticalGaps prometheus.Counter
	rosterFairness     *prometheus.GaugeVec
	generatorCalls     *prometheus.CounterVec
}

// NewMetricsService registers core Prometheus collectors on a private
// registry so tests can instantiate the service repeatedly.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	dbQueryDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database queries",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})

	rosterRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "roster_runs_total",
		Help: "Scheduling runs by mode and outcome",
	}, []string{"mode", "outcome"})

	rosterRunDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "roster_run_duration_seconds",
		Help:    "Duration of scheduling runs",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
	}, []string{"mode"})

	rosterCriticalGaps := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "roster_critical_gaps_total",
		Help: "Dates left unstaffed across all runs",
	})

	rosterFairness := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "roster_fairness_score",
		Help: "Salary-factor fairness score of the last computed month",
	}, []string{"month"})

	generatorCalls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "generator_calls_total",
		Help: "External generator calls by scope and outcome",
	}, []string{"scope", "outcome"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheHits, cacheMisses,
		dbQueryDuration, rosterRuns, rosterRunDuration, rosterCriticalGaps,
		rosterFairness, generatorCalls, goroutines)

	return &MetricsService{
		registry:           registry,
		handler:            promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
		cacheHits:          cacheHits,
		cacheMisses:        cacheMisses,
		dbQueryDuration:    dbQueryDuration,
		rosterRuns:         rosterRuns,
		rosterRunDuration:  rosterRunDuration,
		rosterCriticalGaps: rosterCriticalGaps,
		rosterFairness:     rosterFairness,
		generatorCalls:     generatorCalls,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records one served request.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labels := []string{method, path, strconv.Itoa(status)}
	m.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(labels...).Inc()
}

// ObserveCache records a cache lookup outcome.
func (m *MetricsService) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}

// ObserveDBQuery records one query's duration under a stable label.
func (m *MetricsService) ObserveDBQuery(query string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(query).Observe(duration.Seconds())
}

// ObserveRosterRun records one assemble or validate run.
func (m *MetricsService) ObserveRosterRun(mode, outcome string, criticalGaps int, duration time.Duration) {
	if m == nil {
		return
	}
	m.rosterRuns.WithLabelValues(mode, outcome).Inc()
	m.rosterRunDuration.WithLabelValues(mode).Observe(duration.Seconds())
	if criticalGaps > 0 {
		m.rosterCriticalGaps.Add(float64(criticalGaps))
	}
}

// SetFairnessScore publishes the latest balance score for a month label
// like "2025-08".
func (m *MetricsService) SetFairnessScore(month string, score float64) {
	if m == nil {
		return
	}
	m.rosterFairness.WithLabelValues(month).Set(score)
}

// ObserveGeneratorCall records one external generator call.
func (m *MetricsService) ObserveGeneratorCall(scope, outcome string) {
	if m == nil {
		return
	}
	m.generatorCalls.WithLabelValues(scope, outcome).Inc()
}
