// Package predictor defines the fault-prediction collaborator interface
// and a built-in heuristic implementation. Predictions are advisory
// metadata on a reading: the engine consults the predictor best-effort,
// bounded by a timeout, and a failed or slow predictor never fails a
// tick and never influences the rule-based operating state.
package predictor

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Prediction is the predictor's judgment for one reading.
type Prediction struct {
	Detected         bool
	Confidence       float64 // in [0, 1]
	VibrationAnomaly bool
}

// Predictor is the collaborator interface the engine consults once per
// tick. Implementations must respect context cancellation.
type Predictor interface {
	// Ready reports whether the predictor has been initialized and can
	// serve predictions. The engine checks this before first use.
	Ready() bool

	// Predict returns a fault judgment for the given measurements.
	Predict(ctx context.Context, rpm, pressure, temperature, vibration float64) (Prediction, error)
}

// Consult calls p with a hard timeout and degrades every failure mode
// (not ready, error, timeout) to nil. The call runs in its own goroutine
// so a misbehaving predictor that ignores its context cannot stall the
// tick; its late result is discarded.
func Consult(ctx context.Context, p Predictor, timeout time.Duration, rpm, pressure, temperature, vibration float64, logger *zap.Logger) *Prediction {
	if p == nil || !p.Ready() {
		return nil
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		pred Prediction
		err  error
	}
	ch := make(chan outcome, 1)
	go func() {
		pred, err := p.Predict(callCtx, rpm, pressure, temperature, vibration)
		ch <- outcome{pred, err}
	}()

	select {
	case out := <-ch:
		if out.err != nil {
			logger.Warn("Fault predictor failed", zap.Error(out.err))
			return nil
		}
		return &out.pred
	case <-callCtx.Done():
		logger.Warn("Fault predictor timed out", zap.Duration("timeout", timeout))
		return nil
	}
}

// Vibration above this level (mm/s) is flagged as anomalous.
const vibrationAnomalyLimit = 18.0

// Heuristic is the built-in threshold-based predictor used when no
// trained model is wired in. It flags a fault when temperature exceeds
// the high threshold, with a confidence drawn from [0.85, 0.99].
type Heuristic struct {
	highThreshold float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewHeuristic creates a Heuristic predictor. A nil rng gets a
// time-seeded source.
func NewHeuristic(highThreshold float64, rng *rand.Rand) *Heuristic {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Heuristic{
		highThreshold: highThreshold,
		rng:           rng,
	}
}

// Ready always returns true; the heuristic needs no model files.
func (h *Heuristic) Ready() bool { return true }

// Predict applies the threshold rules.
func (h *Heuristic) Predict(ctx context.Context, rpm, pressure, temperature, vibration float64) (Prediction, error) {
	if err := ctx.Err(); err != nil {
		return Prediction{}, err
	}

	h.mu.Lock()
	confidence := 0.85 + h.rng.Float64()*0.14
	h.mu.Unlock()

	return Prediction{
		Detected:         temperature > h.highThreshold,
		Confidence:       math.Round(confidence*100) / 100,
		VibrationAnomaly: vibration > vibrationAnomalyLimit,
	}, nil
}
