// Package models defines the telemetry and event data structures shared
// across the agent. These structures are serialized to JSON for the
// presentation layer.
package models

import (
	"time"

	"github.com/ysmai/enginemon/internal/condition"
	"github.com/ysmai/enginemon/internal/fsm"
)

// SensorReading is one point-in-time sample of the simulated asset.
// Readings are immutable once emitted by the engine.
type SensorReading struct {
	Timestamp      time.Time        `json:"timestamp"`
	SimulationTime float64          `json:"simulation_time"` // seconds since monitoring started
	Temperature    float64          `json:"temperature_f"`
	RPM            int              `json:"rpm"`
	OilPressure    float64          `json:"oil_pressure_psi"`
	Vibration      float64          `json:"vibration_mms"`
	Voltage        float64          `json:"voltage_v"`
	Condition      condition.Level  `json:"condition"`
	Fault          *FaultPrediction `json:"fault_prediction,omitempty"`
}

// FaultPrediction is the advisory output of the fault predictor for one
// reading. Nil on a reading means the predictor was disabled or
// unavailable for that tick.
type FaultPrediction struct {
	Detected         bool    `json:"detected"`
	Confidence       float64 `json:"confidence"` // in [0, 1]
	VibrationAnomaly bool    `json:"vibration_anomaly"`
}

// Alert severity labels. Critical is reserved for transitions into the
// CRITICAL state; every other transition is a warning.
const (
	SeverityCritical = "CRITICAL"
	SeverityWarning  = "WARNING"
)

// AlertEvent records one committed state transition.
type AlertEvent struct {
	ID       string    `json:"id"`
	Time     time.Time `json:"time"`
	From     fsm.State `json:"from_state"`
	To       fsm.State `json:"to_state"`
	Severity string    `json:"severity"`
	Message  string    `json:"message"`
}

// Maintenance task priorities: 1 is urgent (CRITICAL transitions), 2
// covers every other non-normal state.
const (
	PriorityUrgent   = 1
	PriorityStandard = 2
)

// TaskStatusPending is the initial status of every scheduled task.
const TaskStatusPending = "Pending"

// MaintenanceTask is a work item scheduled in reaction to an alert.
type MaintenanceTask struct {
	ID          string    `json:"id"`
	Created     time.Time `json:"created"`
	Priority    int       `json:"priority"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Confidence  float64   `json:"confidence"`
}

// TickResult is the engine's per-tick output for display.
type TickResult struct {
	Reading      SensorReading    `json:"reading"`
	State        fsm.State        `json:"state"`
	StateChanged bool             `json:"state_changed"`
	Alert        *AlertEvent      `json:"alert,omitempty"`
	Task         *MaintenanceTask `json:"task,omitempty"`
}

// DebugSnapshot exposes the engine's internals for diagnostics.
type DebugSnapshot struct {
	Running        bool      `json:"running"`
	CurrentState   fsm.State `json:"current_state"`
	LastState      fsm.State `json:"last_state"`
	StateTimestamp time.Time `json:"state_timestamp"`
	HighThreshold  float64   `json:"high_threshold"`
	LowThreshold   float64   `json:"low_threshold"`
	DebounceSec    float64   `json:"debounce_sec"`
	MLEnabled      bool      `json:"ml_enabled"`
	MLReady        bool      `json:"ml_ready"`
	TickCount      int       `json:"tick_count"`
}
