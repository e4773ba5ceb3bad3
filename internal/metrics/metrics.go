// Package metrics exports conversion counters and HTTP latency to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"attitude-engine/pkg/attitude"
)

const namespace = "attitude"

// Recorder implements attitude.Observer on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	conversions *prometheus.CounterVec
	gimbalLocks *prometheus.CounterVec
	shadow      prometheus.Counter
	degenerate  *prometheus.CounterVec
	errors      *prometheus.CounterVec
	requests    *prometheus.HistogramVec
}

var _ attitude.Observer = (*Recorder)(nil)

// New creates a Recorder. Process and Go runtime collectors are registered too.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversions_total",
			Help:      "Conversions completed, by input representation and Euler order.",
		}, []string{"source", "order"}),
		gimbalLocks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gimbal_locks_total",
			Help:      "Conversions whose Euler angles were at a singular boundary.",
		}, []string{"lock_type"}),
		shadow: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mrp_shadow_total",
			Help:      "Conversions that reported the MRP shadow set.",
		}),
		degenerate: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "degenerate_inputs_total",
			Help:      "Inputs replaced by the identity rotation.",
		}, []string{"source"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversion_errors_total",
			Help:      "Rejected conversion requests.",
		}, []string{"source"}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status code.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"route", "code"}),
	}
	r.registry.MustRegister(
		r.conversions, r.gimbalLocks, r.shadow, r.degenerate, r.errors, r.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) ObserveConversion(source attitude.Source, res *attitude.ConversionResult) {
	r.conversions.WithLabelValues(string(source), res.Euler.Order).Inc()
	if res.Euler.GimbalLock != nil {
		r.gimbalLocks.WithLabelValues(res.Euler.GimbalLock.LockType).Inc()
	}
	if res.MRP.IsShadow {
		r.shadow.Inc()
	}
	if res.Degenerate {
		r.degenerate.WithLabelValues(string(source)).Inc()
	}
}

func (r *Recorder) ObserveError(source attitude.Source, _ error) {
	r.errors.WithLabelValues(string(source)).Inc()
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Instrument wraps next and records its latency under route.
func (r *Recorder) Instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sw, req)
		r.requests.WithLabelValues(route, strconv.Itoa(sw.code)).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
