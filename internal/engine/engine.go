// Package engine orchestrates the condition-monitoring loop: each tick
// generates a synthetic reading, classifies it, feeds the debounced
// state machine, consults the fault predictor, and records alerts and
// maintenance tasks on committed transitions. The engine exclusively
// owns the bounded history, alert log, and task queue; readers get
// immutable snapshots.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ysmai/enginemon/internal/condition"
	"github.com/ysmai/enginemon/internal/config"
	"github.com/ysmai/enginemon/internal/fsm"
	"github.com/ysmai/enginemon/internal/metrics"
	"github.com/ysmai/enginemon/internal/models"
	"github.com/ysmai/enginemon/internal/predictor"
	"github.com/ysmai/enginemon/internal/simulator"
	"github.com/ysmai/enginemon/internal/store"
)

// Engine drives the monitoring loop for one simulated asset. All state
// is guarded by a single mutex: at most one tick executes at a time, and
// lifecycle calls are safe concurrently with an in-flight tick.
type Engine struct {
	mu sync.Mutex

	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
	gen     *simulator.Generator
	machine *fsm.Machine
	pred    predictor.Predictor

	running   bool
	startTime time.Time
	tickCount int

	history *store.Log[models.SensorReading]
	alerts  *store.Log[models.AlertEvent]
	tasks   *store.Log[models.MaintenanceTask]

	// now is the clock source; tests replace it for reproducible runs.
	now func() time.Time
}

// New creates an Engine from a validated configuration. An invalid
// configuration is fatal: the engine cannot be constructed until it is
// corrected. A nil predictor with ML enabled gets the built-in
// heuristic; with ML disabled the predictor is never consulted.
func New(cfg *config.Config, pred predictor.Predictor, m *metrics.Metrics, logger *zap.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ML.Enabled && pred == nil {
		pred = predictor.NewHeuristic(cfg.Thresholds.High, nil)
	}

	e := &Engine{
		cfg:     cfg,
		logger:  logger,
		metrics: m,
		gen:     simulator.New(cfg.Simulation.InitialTemp, cfg.Simulation.DriftRate, nil),
		pred:    pred,
		history: store.NewLog[models.SensorReading](cfg.Buffers.History),
		alerts:  store.NewLog[models.AlertEvent](cfg.Buffers.Alerts),
		tasks:   store.NewLog[models.MaintenanceTask](cfg.Buffers.Tasks),
		now:     time.Now,
	}
	e.machine = fsm.New(cfg.Thresholds.Debounce.Duration, e.now())
	return e, nil
}

// Start begins a monitoring run. The start time is set once per run;
// calling Start on a running engine is a no-op.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		return
	}
	if e.startTime.IsZero() {
		e.startTime = e.now()
	}
	e.running = true
	e.logger.Info("Monitoring started",
		zap.Time("start_time", e.startTime),
		zap.Float64("high_threshold", e.cfg.Thresholds.High),
		zap.Float64("low_threshold", e.cfg.Thresholds.Low),
		zap.Duration("debounce", e.cfg.Thresholds.Debounce.Duration))
}

// Stop halts ticking. All history, alerts, and tasks are preserved;
// Start resumes the same run.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return
	}
	e.running = false
	e.logger.Info("Monitoring stopped", zap.Int("ticks", e.tickCount))
}

// Reset stops the engine and clears all accumulated state: history,
// alert log, task queue, tick count, and the state machine.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.running = false
	e.startTime = time.Time{}
	e.tickCount = 0
	e.history.Clear()
	e.alerts.Clear()
	e.tasks.Clear()
	e.machine.Reset(e.now())
	if e.metrics != nil {
		e.metrics.SetState(e.machine.Current())
		e.metrics.HistoryLength.Set(0)
	}
	e.logger.Info("Monitoring reset")
}

// Tick executes one monitoring cycle. It is a no-op returning (nil, nil)
// unless the engine is running. The context bounds only the predictor
// call; generation and classification cannot fail.
func (e *Engine) Tick(ctx context.Context) (*models.TickResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return nil, nil
	}

	now := e.now()
	simTime := now.Sub(e.startTime).Seconds()
	if simTime < 0 {
		return nil, fmt.Errorf("negative elapsed time %.3fs: clock moved before start time", simTime)
	}

	sample := e.gen.Generate(simTime, e.tickCount)
	level := condition.Classify(sample.Temperature, e.cfg.Thresholds.High, e.cfg.Thresholds.Low)
	state, changed := e.machine.Observe(level, now)

	var fault *models.FaultPrediction
	if e.cfg.ML.Enabled {
		pred := predictor.Consult(ctx, e.pred, e.cfg.ML.Timeout.Duration,
			float64(sample.RPM), sample.OilPressure, sample.Temperature, sample.Vibration,
			e.logger)
		if pred != nil {
			fault = &models.FaultPrediction{
				Detected:         pred.Detected,
				Confidence:       pred.Confidence,
				VibrationAnomaly: pred.VibrationAnomaly,
			}
		} else if e.pred != nil && e.pred.Ready() && e.metrics != nil {
			e.metrics.PredictorFailures.Inc()
		}
	}

	reading := models.SensorReading{
		Timestamp:      now,
		SimulationTime: simTime,
		Temperature:    sample.Temperature,
		RPM:            sample.RPM,
		OilPressure:    sample.OilPressure,
		Vibration:      sample.Vibration,
		Voltage:        sample.Voltage,
		Condition:      level,
		Fault:          fault,
	}
	e.history.Append(reading)
	e.tickCount++

	if e.metrics != nil {
		e.metrics.Ticks.Inc()
		e.metrics.Temperature.Set(sample.Temperature)
		e.metrics.SetState(state)
		e.metrics.HistoryLength.Set(float64(e.history.Len()))
	}

	result := &models.TickResult{
		Reading:      reading,
		State:        state,
		StateChanged: changed,
	}
	if changed {
		result.Alert = e.recordAlert(now, state)
		if state != fsm.StateNormal {
			result.Task = e.scheduleTask(now, state, fault)
		}
	}

	e.logger.Debug("Tick",
		zap.Float64("sim_time", simTime),
		zap.Float64("temperature", sample.Temperature),
		zap.String("condition", string(level)),
		zap.String("state", string(state)),
		zap.Bool("state_changed", changed))

	return result, nil
}

// recordAlert appends the alert for a committed transition. Called with
// e.mu held.
func (e *Engine) recordAlert(now time.Time, to fsm.State) *models.AlertEvent {
	from := e.machine.Last()

	severity := models.SeverityWarning
	if to == fsm.StateCritical {
		severity = models.SeverityCritical
	}
	message := fsm.AlertMessage(to, e.cfg.Thresholds.High, e.cfg.Thresholds.Low)
	if message == "" {
		message = fmt.Sprintf("State changed %s to %s", from, to)
	}

	alert := models.AlertEvent{
		ID:       uuid.NewString(),
		Time:     now,
		From:     from,
		To:       to,
		Severity: severity,
		Message:  message,
	}
	e.alerts.Append(alert)
	if e.metrics != nil {
		e.metrics.RecordTransition(to)
	}

	e.logger.Warn("State transition",
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.String("severity", severity))

	return &alert
}

// scheduleTask appends the maintenance task for a non-normal transition.
// Called with e.mu held.
func (e *Engine) scheduleTask(now time.Time, state fsm.State, fault *models.FaultPrediction) *models.MaintenanceTask {
	priority := models.PriorityStandard
	if state == fsm.StateCritical {
		priority = models.PriorityUrgent
	}
	confidence := 0.0
	if fault != nil {
		confidence = fault.Confidence
	}

	task := models.MaintenanceTask{
		ID:          uuid.NewString(),
		Created:     now,
		Priority:    priority,
		Description: taskDescription(state),
		Status:      models.TaskStatusPending,
		Confidence:  confidence,
	}
	e.tasks.Append(task)

	e.logger.Info("Maintenance task scheduled",
		zap.Int("priority", priority),
		zap.String("description", task.Description))

	return &task
}

func taskDescription(state fsm.State) string {
	switch state {
	case fsm.StateAlertLow:
		return "Verify heater and ambient insulation"
	case fsm.StateMLFault:
		return "Review predicted fault report"
	default:
		return "Inspect cooling system"
	}
}

// Run drives the engine from a ticker until the context is cancelled,
// then stops it. An immediate tick runs before the first interval
// elapses. The single loop serializes all ticks.
func (e *Engine) Run(ctx context.Context) {
	e.Start()

	ticker := time.NewTicker(e.cfg.Simulation.TickInterval.Duration)
	defer ticker.Stop()

	e.runTick(ctx)

	for {
		select {
		case <-ctx.Done():
			e.Stop()
			return
		case <-ticker.C:
			e.runTick(ctx)
		}
	}
}

func (e *Engine) runTick(ctx context.Context) {
	if _, err := e.Tick(ctx); err != nil {
		e.logger.Error("Tick failed", zap.Error(err))
	}
}

// Running reports whether the engine is in a monitoring run.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// CurrentState returns the committed operating state.
func (e *Engine) CurrentState() fsm.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.Current()
}

// History returns a copy of the bounded reading history, most recent
// last.
func (e *Engine) History() []models.SensorReading {
	return e.history.Snapshot()
}

// Alerts returns a copy of the alert log, most recent last.
func (e *Engine) Alerts() []models.AlertEvent {
	return e.alerts.Snapshot()
}

// Tasks returns a copy of the maintenance task queue, most recent last.
func (e *Engine) Tasks() []models.MaintenanceTask {
	return e.tasks.Snapshot()
}

// DebugSnapshot returns the engine internals for diagnostics.
func (e *Engine) DebugSnapshot() models.DebugSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	return models.DebugSnapshot{
		Running:        e.running,
		CurrentState:   e.machine.Current(),
		LastState:      e.machine.Last(),
		StateTimestamp: e.machine.StateTime(),
		HighThreshold:  e.cfg.Thresholds.High,
		LowThreshold:   e.cfg.Thresholds.Low,
		DebounceSec:    e.machine.Debounce().Seconds(),
		MLEnabled:      e.cfg.ML.Enabled,
		MLReady:        e.pred != nil && e.pred.Ready(),
		TickCount:      e.tickCount,
	}
}
