// Package fsm implements the debounced operating-state machine for the
// monitored asset. An instantaneous condition level must persist for a
// configurable dwell time before it is committed as the operating state,
// which keeps single noisy samples from flapping alerts.
//
// This package has no clock of its own: time always arrives as a
// time.Time parameter, so transitions are fully reproducible in tests.
package fsm

import (
	"fmt"
	"time"

	"github.com/ysmai/enginemon/internal/condition"
)

// State is the committed, debounced operating state of the asset.
type State string

const (
	StateNormal    State = "NORMAL"
	StateAlertHigh State = "ALERT_HIGH"
	StateAlertLow  State = "ALERT_LOW"
	StateCritical  State = "CRITICAL"

	// StateMLFault is reserved for predictor-driven displays. The
	// rule-based machine never transitions into it: predictions are
	// advisory metadata and stay out of the safety state.
	StateMLFault State = "ML_PREDICTED_FAULT"
)

// FromLevel maps an instantaneous condition level to its corresponding
// operating state.
func FromLevel(l condition.Level) State {
	switch l {
	case condition.AlertHigh:
		return StateAlertHigh
	case condition.AlertLow:
		return StateAlertLow
	case condition.Critical:
		return StateCritical
	default:
		return StateNormal
	}
}

// Machine tracks the committed state and the dwell timer for the
// currently deviating condition. It is not safe for concurrent use;
// the engine serializes access.
type Machine struct {
	debounce time.Duration

	current   State
	last      State
	stateTime time.Time // when current was committed

	// pending is the candidate state the dwell timer is measuring.
	// pendingSince is zero when no deviation is being timed.
	pending      State
	pendingSince time.Time
}

// New creates a machine in StateNormal. A zero debounce duration
// degenerates to immediate transitions.
func New(debounce time.Duration, now time.Time) *Machine {
	return &Machine{
		debounce:  debounce,
		current:   StateNormal,
		last:      StateNormal,
		stateTime: now,
	}
}

// Observe feeds one instantaneous condition level into the machine and
// returns the committed state plus whether a transition was committed on
// this observation.
//
// A level matching the committed state clears the dwell timer: the timer
// only measures contiguous deviation. A level differing from both the
// committed state and the pending candidate restarts the timer, so a
// deviation that escalates mid-dwell (ALERT_HIGH to CRITICAL) is timed
// from the escalation, not from the original excursion.
func (m *Machine) Observe(level condition.Level, now time.Time) (State, bool) {
	target := FromLevel(level)

	if target == m.current {
		m.clearPending()
		return m.current, false
	}

	if m.pendingSince.IsZero() || m.pending != target {
		m.pending = target
		m.pendingSince = now
	}

	if now.Sub(m.pendingSince) >= m.debounce {
		m.last = m.current
		m.current = target
		m.stateTime = now
		m.clearPending()
		return m.current, true
	}

	return m.current, false
}

// Reset returns the machine to StateNormal and clears the dwell timer.
func (m *Machine) Reset(now time.Time) {
	m.current = StateNormal
	m.last = StateNormal
	m.stateTime = now
	m.clearPending()
}

// Current returns the committed state.
func (m *Machine) Current() State { return m.current }

// Last returns the state committed before the current one.
func (m *Machine) Last() State { return m.last }

// StateTime returns when the current state was committed.
func (m *Machine) StateTime() time.Time { return m.stateTime }

// Debounce returns the configured dwell duration.
func (m *Machine) Debounce() time.Duration { return m.debounce }

func (m *Machine) clearPending() {
	m.pending = ""
	m.pendingSince = time.Time{}
}

// AlertMessage returns the operator-facing message for a state, or ""
// for StateNormal.
func AlertMessage(s State, highThreshold, lowThreshold float64) string {
	switch s {
	case StateAlertHigh:
		return fmt.Sprintf("HIGH TEMPERATURE: exceeds %.1f°F", highThreshold)
	case StateAlertLow:
		return fmt.Sprintf("LOW TEMPERATURE: below %.1f°F", lowThreshold)
	case StateCritical:
		return fmt.Sprintf("CRITICAL TEMPERATURE: exceeds %.1f°F", highThreshold+10)
	case StateMLFault:
		return "ML FAULT DETECTION: abnormal condition detected"
	default:
		return ""
	}
}
