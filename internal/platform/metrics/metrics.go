package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
// Each instance owns its registry so tests can create as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	TransferTransitions  *prometheus.CounterVec
	RiskClassifications  *prometheus.CounterVec
	AuditPublishFailures prometheus.Counter
	HTTPRequestDuration  *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		TransferTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "compliance_transfer_transitions_total",
			Help: "Successful transfer request state changes by audit action and resulting status",
		}, []string{"action", "status"}),
		RiskClassifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "compliance_transfer_risk_classifications_total",
			Help: "Risk levels assigned at submission",
		}, []string{"risk_level"}),
		AuditPublishFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "compliance_transfer_audit_publish_failures_total",
			Help: "Audit events that could not be published to the audit stream",
		}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "compliance_transfer_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// IncTransition counts a committed transition. Safe on a nil receiver.
func (m *Metrics) IncTransition(action, status string) {
	if m == nil {
		return
	}
	m.TransferTransitions.WithLabelValues(action, status).Inc()
}

// IncRiskClassification counts a risk level assigned at submission. Safe on a nil receiver.
func (m *Metrics) IncRiskClassification(level string) {
	if m == nil {
		return
	}
	m.RiskClassifications.WithLabelValues(level).Inc()
}

// IncAuditPublishFailure counts a failed audit stream publish. Safe on a nil receiver.
func (m *Metrics) IncAuditPublishFailure() {
	if m == nil {
		return
	}
	m.AuditPublishFailures.Inc()
}

// ObserveHTTPRequest records the latency of a finished request. Safe on a nil receiver.
func (m *Metrics) ObserveHTTPRequest(route, method, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestDuration.WithLabelValues(route, method, status).Observe(d.Seconds())
}
