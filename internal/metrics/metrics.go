// Package metrics holds the Prometheus counters for account operations.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics is the set of counters the services increment. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry      *prometheus.Registry
	otpIssued     *prometheus.CounterVec
	otpConsumed   *prometheus.CounterVec
	logins        *prometheus.CounterVec
	registrations *prometheus.CounterVec
	deliveries    *prometheus.CounterVec
}

// New registers the counters plus Go and process collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		otpIssued: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "authify",
			Name:      "otp_issued_total",
			Help:      "One-time passcodes issued, by purpose.",
		}, []string{"purpose"}),
		otpConsumed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "authify",
			Name:      "otp_consumed_total",
			Help:      "One-time passcode submissions, by purpose and result.",
		}, []string{"purpose", "result"}),
		logins: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "authify",
			Name:      "logins_total",
			Help:      "Login attempts, by outcome.",
		}, []string{"outcome"}),
		registrations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "authify",
			Name:      "registrations_total",
			Help:      "Registration attempts, by outcome.",
		}, []string{"outcome"}),
		deliveries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "authify",
			Name:      "notification_deliveries_total",
			Help:      "Mail deliveries, by kind and outcome.",
		}, []string{"kind", "outcome"}),
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) OTPIssued(purpose string) {
	if m == nil {
		return
	}
	m.otpIssued.WithLabelValues(purpose).Inc()
}

// OTPConsumed records a submission; result is "success" or the failure kind (missing, mismatch, expired).
func (m *Metrics) OTPConsumed(purpose, result string) {
	if m == nil {
		return
	}
	m.otpConsumed.WithLabelValues(purpose, result).Inc()
}

func (m *Metrics) Login(outcome string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Registration(outcome string) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Delivery(kind, outcome string) {
	if m == nil {
		return
	}
	m.deliveries.WithLabelValues(kind, outcome).Inc()
}
