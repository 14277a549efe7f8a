// Package metrics exposes admission and HTTP metrics to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records admission verdicts, tenant lookups and HTTP responses.
// It satisfies admission.Recorder.
type Collector struct {
	verdicts      *prometheus.CounterVec
	lookups       *prometheus.CounterVec
	lookupLatency prometheus.Histogram
	httpStatus    *prometheus.CounterVec
	httpLatency   prometheus.Histogram
}

// NewCollector creates a Collector and registers it on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		verdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "menugate_admission_verdicts_total",
			Help: "Admission verdicts by pipeline, kind and reason.",
		}, []string{"pipeline", "kind", "reason"}),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "menugate_tenant_lookups_total",
			Help: "Tenant directory lookups by result (hit, miss, error).",
		}, []string{"result"}),
		lookupLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "menugate_tenant_lookup_seconds",
			Help:    "Tenant directory lookup latency in seconds.",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "menugate_http_responses_total",
			Help: "HTTP responses by status code.",
		}, []string{"status_code"}),
		httpLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "menugate_http_request_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.verdicts,
		c.lookups,
		c.lookupLatency,
		c.httpStatus,
		c.httpLatency,
	)

	return c
}

func (c *Collector) RecordVerdict(pipeline, kind, reason string) {
	c.verdicts.WithLabelValues(pipeline, kind, reason).Inc()
}

func (c *Collector) RecordTenantLookup(result string, d time.Duration) {
	c.lookups.WithLabelValues(result).Inc()
	c.lookupLatency.Observe(d.Seconds())
}

func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

func (c *Collector) RecordHTTPLatency(d time.Duration) {
	c.httpLatency.Observe(d.Seconds())
}

// Handler serves gatherer in the Prometheus exposition format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
