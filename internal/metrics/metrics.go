// Package metrics exposes console counters on a private Prometheus registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Login outcomes.
const (
	LoginSuccess     = "success"
	LoginFailure     = "failure"
	LoginLocked      = "locked"
	LoginProvisional = "provisional"
)

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	LoginAttempts  *prometheus.CounterVec
	Lockouts       prometheus.Counter
	ActiveSessions prometheus.Gauge
	SindicatoOps   *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		LoginAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sociodash",
			Name:      "login_attempts_total",
			Help:      "Login attempts by outcome.",
		}, []string{"result"}),
		Lockouts: f.NewCounter(prometheus.CounterOpts{
			Namespace: "sociodash",
			Name:      "lockouts_total",
			Help:      "Usernames locked after repeated failures.",
		}),
		ActiveSessions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "sociodash",
			Name:      "sessions_active",
			Help:      "Session tokens currently held in memory, expired ones included until next check.",
		}),
		SindicatoOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sociodash",
			Name:      "sindicato_operations_total",
			Help:      "Sindicato registrations and deletions.",
		}, []string{"op"}),
	}
}

func (m *Metrics) ObserveLogin(result string) {
	if m == nil {
		return
	}
	m.LoginAttempts.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveLockout() {
	if m == nil {
		return
	}
	m.Lockouts.Inc()
}

func (m *Metrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.ActiveSessions.Set(float64(n))
}

func (m *Metrics) ObserveSindicato(op string) {
	if m == nil {
		return
	}
	m.SindicatoOps.WithLabelValues(op).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
