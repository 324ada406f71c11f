package predictor

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestHeuristic_Predict(t *testing.T) {
	h := NewHeuristic(85, rand.New(rand.NewSource(1)))

	tests := []struct {
		name         string
		temp, vib    float64
		wantDetected bool
		wantAnomaly  bool
	}{
		{"nominal", 70, 5, false, false},
		{"hot", 90, 5, true, false},
		{"shaking", 70, 20, false, true},
		{"hot and shaking", 95, 25, true, true},
		{"exactly at threshold is not a fault", 85, 18, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred, err := h.Predict(context.Background(), 1800, 42, tt.temp, tt.vib)
			if err != nil {
				t.Fatal(err)
			}
			if pred.Detected != tt.wantDetected {
				t.Errorf("Detected = %v, want %v", pred.Detected, tt.wantDetected)
			}
			if pred.VibrationAnomaly != tt.wantAnomaly {
				t.Errorf("VibrationAnomaly = %v, want %v", pred.VibrationAnomaly, tt.wantAnomaly)
			}
			if pred.Confidence < 0.85 || pred.Confidence > 0.99 {
				t.Errorf("Confidence = %v, want within [0.85, 0.99]", pred.Confidence)
			}
		})
	}
}

func TestHeuristic_PredictCancelled(t *testing.T) {
	h := NewHeuristic(85, rand.New(rand.NewSource(1)))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := h.Predict(ctx, 1800, 42, 70, 5); err == nil {
		t.Error("Predict on cancelled context returned nil error")
	}
}

type failingPredictor struct{}

func (failingPredictor) Ready() bool { return true }
func (failingPredictor) Predict(context.Context, float64, float64, float64, float64) (Prediction, error) {
	return Prediction{}, errors.New("model not loaded")
}

type stalledPredictor struct{}

func (stalledPredictor) Ready() bool { return true }
func (stalledPredictor) Predict(ctx context.Context, _, _, _, _ float64) (Prediction, error) {
	// Ignores its context entirely.
	time.Sleep(5 * time.Second)
	return Prediction{Detected: true}, nil
}

type notReadyPredictor struct{}

func (notReadyPredictor) Ready() bool { return false }
func (notReadyPredictor) Predict(context.Context, float64, float64, float64, float64) (Prediction, error) {
	return Prediction{Detected: true}, nil
}

func TestConsult_Success(t *testing.T) {
	h := NewHeuristic(85, rand.New(rand.NewSource(1)))
	got := Consult(context.Background(), h, time.Second, 1800, 42, 95, 25, zap.NewNop())
	if got == nil {
		t.Fatal("Consult returned nil for a healthy predictor")
	}
	if !got.Detected {
		t.Error("Detected = false, want true for 95°F against 85°F threshold")
	}
}

func TestConsult_DegradesToNil(t *testing.T) {
	tests := []struct {
		name string
		p    Predictor
	}{
		{"nil predictor", nil},
		{"not ready", notReadyPredictor{}},
		{"erroring", failingPredictor{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Consult(context.Background(), tt.p, time.Second, 0, 0, 0, 0, zap.NewNop()); got != nil {
				t.Errorf("Consult = %+v, want nil", got)
			}
		})
	}
}

// A predictor that ignores its context must not stall the caller beyond
// the timeout.
func TestConsult_TimeoutBoundsStalledPredictor(t *testing.T) {
	start := time.Now()
	got := Consult(context.Background(), stalledPredictor{}, 50*time.Millisecond, 0, 0, 0, 0, zap.NewNop())
	elapsed := time.Since(start)

	if got != nil {
		t.Errorf("Consult = %+v, want nil on timeout", got)
	}
	if elapsed > time.Second {
		t.Errorf("Consult blocked for %v, want return shortly after the 50ms timeout", elapsed)
	}
}
