// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "shortener"

// Metrics groups the service collectors. A nil *Metrics records nothing.
type Metrics struct {
	cacheLookups       *prometheus.CounterVec
	linksCreated       prometheus.Counter
	codeCollisions     prometheus.Counter
	codeSpaceExhausted prometheus.Counter
	hitFailures        prometheus.Counter
	requests           *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
}

// New registers all collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Cache lookups during resolution, by result.",
		}, []string{"result"}),
		linksCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "links_created_total",
			Help:      "Short links created.",
		}),
		codeCollisions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "code_collisions_total",
			Help:      "Generated codes that were already taken.",
		}),
		codeSpaceExhausted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "code_space_exhausted_total",
			Help:      "Shorten calls that ran out of code generation attempts.",
		}),
		hitFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hit_record_failures_total",
			Help:      "Hit counter updates that failed.",
		}),
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by operation and status.",
		}, []string{"operation", "method", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "method"}),
	}
}

func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}

	m.cacheLookups.WithLabelValues("hit").Inc()
}

func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}

	m.cacheLookups.WithLabelValues("miss").Inc()
}

func (m *Metrics) LinkCreated() {
	if m == nil {
		return
	}

	m.linksCreated.Inc()
}

func (m *Metrics) CodeCollision() {
	if m == nil {
		return
	}

	m.codeCollisions.Inc()
}

func (m *Metrics) CodeSpaceExhausted() {
	if m == nil {
		return
	}

	m.codeSpaceExhausted.Inc()
}

func (m *Metrics) HitRecordFailed() {
	if m == nil {
		return
	}

	m.hitFailures.Inc()
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(operation, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}

	m.requests.WithLabelValues(operation, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(operation, method).Observe(elapsed.Seconds())
}
