// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "papalote"

// Coupon application outcomes.
const (
	OutcomeApplied  = "applied"
	OutcomeRejected = "rejected"
)

// Metrics groups the collectors registered by the API.
type Metrics struct {
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
	CouponApplications *prometheus.CounterVec
	SearchQueries      prometheus.Counter
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		CouponApplications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coupon_applications_total",
			Help:      "Coupon applications by code and outcome.",
		}, []string{"code", "outcome"}),
		SearchQueries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_queries_total",
			Help:      "Product searches served.",
		}),
	}
}

// CouponApplied records the outcome of applying code. Unknown codes are
// folded into a single label value to keep cardinality bounded.
func (m *Metrics) CouponApplied(code string, known, applied bool) {
	if m == nil {
		return
	}
	if !known {
		code = "unknown"
	}
	outcome := OutcomeRejected
	if applied {
		outcome = OutcomeApplied
	}
	m.CouponApplications.WithLabelValues(code, outcome).Inc()
}
