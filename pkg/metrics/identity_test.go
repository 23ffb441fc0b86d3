package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestIdentityMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewIdentityMetrics(reg)

	m.IncLogin("success")
	m.IncLogin("success")
	m.IncLogin("invalid_credentials")
	m.IncTransfer("")
	m.ObserveResolver("members_of_lodge", 25*time.Millisecond)

	if got := testutil.ToFloat64(m.loginOutcomes.WithLabelValues("success")); got != 2 {
		t.Fatalf("expected 2 successful logins recorded, got %v", got)
	}
	if got := testutil.ToFloat64(m.loginOutcomes.WithLabelValues("invalid_credentials")); got != 1 {
		t.Fatalf("expected 1 failed login recorded, got %v", got)
	}
	if got := testutil.ToFloat64(m.transferOutcomes.WithLabelValues("unknown")); got != 1 {
		t.Fatalf("expected empty outcome to be normalized, got %v", got)
	}
}

func TestIdentityMetricsNilSafe(t *testing.T) {
	var m *IdentityMetrics
	m.IncLogin("success")
	m.IncTransfer("denied")
	m.ObserveResolver("members_of_lodge", time.Second)

	unregistered := NewIdentityMetrics(nil)
	unregistered.IncLogin("success")
}
