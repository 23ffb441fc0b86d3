package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// IdentityMetrics records outcomes for the identity core: login attempts,
// membership resolver queries, and admin transfers.
type IdentityMetrics struct {
	loginOutcomes    *prometheus.CounterVec
	resolverDuration *prometheus.HistogramVec
	transferOutcomes *prometheus.CounterVec
}

// NewIdentityMetrics registers the identity metrics on the provided registerer.
func NewIdentityMetrics(reg prometheus.Registerer) *IdentityMetrics {
	if reg == nil {
		return &IdentityMetrics{}
	}
	loginOutcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "login_attempts_total",
		Help: "Login attempts by outcome.",
	}, []string{"outcome"})
	resolverDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "membership_resolver_duration_seconds",
		Help:    "Duration of membership resolver queries in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})
	transferOutcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "admin_transfers_total",
		Help: "District admin transfer attempts by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(loginOutcomes, resolverDuration, transferOutcomes)
	return &IdentityMetrics{
		loginOutcomes:    loginOutcomes,
		resolverDuration: resolverDuration,
		transferOutcomes: transferOutcomes,
	}
}

// IncLogin increments the login counter for the given outcome.
func (m *IdentityMetrics) IncLogin(outcome string) {
	if m == nil || m.loginOutcomes == nil {
		return
	}
	m.loginOutcomes.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveResolver records the duration for the named resolver query.
func (m *IdentityMetrics) ObserveResolver(query string, duration time.Duration) {
	if m == nil || m.resolverDuration == nil {
		return
	}
	m.resolverDuration.WithLabelValues(normalizeLabel(query)).Observe(duration.Seconds())
}

// IncTransfer increments the transfer counter for the given outcome.
func (m *IdentityMetrics) IncTransfer(outcome string) {
	if m == nil || m.transferOutcomes == nil {
		return
	}
	m.transferOutcomes.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
