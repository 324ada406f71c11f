package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/ysmai/enginemon/internal/fsm"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Ticks.Inc()
	m.Ticks.Inc()
	if got := testutil.ToFloat64(m.Ticks); got != 2 {
		t.Errorf("ticks counter = %v, want 2", got)
	}

	m.RecordTransition(fsm.StateCritical)
	if got := testutil.ToFloat64(m.Transitions.WithLabelValues("CRITICAL")); got != 1 {
		t.Errorf("critical transition counter = %v, want 1", got)
	}

	m.Temperature.Set(74.5)
	if got := testutil.ToFloat64(m.Temperature); got != 74.5 {
		t.Errorf("temperature gauge = %v, want 74.5", got)
	}

	m.SetState(fsm.StateAlertHigh)
	if got := testutil.ToFloat64(m.State); got != 2 {
		t.Errorf("state gauge = %v, want 2 for ALERT_HIGH", got)
	}

	m.PredictorFailures.Inc()
	if got := testutil.ToFloat64(m.PredictorFailures); got != 1 {
		t.Errorf("predictor failure counter = %v, want 1", got)
	}
}

// Two engines must not race to register the same collectors in one
// registry; separate registries isolate them.
func TestNew_SeparateRegistries(t *testing.T) {
	a := New(prometheus.NewRegistry())
	b := New(prometheus.NewRegistry())
	a.Ticks.Inc()
	if got := testutil.ToFloat64(b.Ticks); got != 0 {
		t.Errorf("second registry tick counter = %v, want 0", got)
	}
}
