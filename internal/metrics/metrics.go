// Package metrics exposes Prometheus instrumentation for the monitoring
// engine: tick and transition counters, the committed state, and the
// latest primary measurement.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ysmai/enginemon/internal/fsm"
)

// stateValues maps each operating state to a stable numeric encoding for
// the state gauge.
var stateValues = map[fsm.State]float64{
	fsm.StateNormal:    0,
	fsm.StateAlertLow:  1,
	fsm.StateAlertHigh: 2,
	fsm.StateCritical:  3,
	fsm.StateMLFault:   4,
}

// Metrics holds the engine's Prometheus collectors.
type Metrics struct {
	Ticks             prometheus.Counter
	Transitions       *prometheus.CounterVec
	PredictorFailures prometheus.Counter
	Temperature       prometheus.Gauge
	State             prometheus.Gauge
	HistoryLength     prometheus.Gauge
}

// New creates and registers the engine metrics with the given registerer.
// Pass prometheus.DefaultRegisterer in production and a fresh
// prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "enginemon_ticks_total",
			Help: "Total monitoring ticks executed.",
		}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "enginemon_state_transitions_total",
			Help: "Committed state transitions by destination state.",
		}, []string{"to_state"}),
		PredictorFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "enginemon_predictor_failures_total",
			Help: "Fault-predictor calls that errored or timed out.",
		}),
		Temperature: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "enginemon_temperature_fahrenheit",
			Help: "Latest simulated asset temperature.",
		}),
		State: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "enginemon_state",
			Help: "Committed operating state (0=NORMAL 1=ALERT_LOW 2=ALERT_HIGH 3=CRITICAL 4=ML_PREDICTED_FAULT).",
		}),
		HistoryLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "enginemon_history_length",
			Help: "Readings currently held in the bounded history.",
		}),
	}

	reg.MustRegister(m.Ticks, m.Transitions, m.PredictorFailures,
		m.Temperature, m.State, m.HistoryLength)

	return m
}

// SetState records the committed operating state on the state gauge.
func (m *Metrics) SetState(s fsm.State) {
	m.State.Set(stateValues[s])
}

// RecordTransition counts a committed transition into the given state.
func (m *Metrics) RecordTransition(to fsm.State) {
	m.Transitions.WithLabelValues(string(to)).Inc()
}
