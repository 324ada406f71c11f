package condition

import "testing"

func TestClassify(t *testing.T) {
	const (
		high = 85.0
		low  = 50.0
	)

	tests := []struct {
		name string
		temp float64
		want Level
	}{
		{"well below low", 30, AlertLow},
		{"exactly low", 50, AlertLow},
		{"just above low", 50.01, Normal},
		{"mid range", 70, Normal},
		{"just below high", 84.99, Normal},
		{"exactly high", 85, AlertHigh},
		{"between high and critical", 90, AlertHigh},
		{"just below critical", 94.99, AlertHigh},
		{"exactly critical boundary", 95, Critical},
		{"far above critical", 120, Critical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.temp, high, low); got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.temp, got, tt.want)
			}
		})
	}
}

// The boundary temperature high+10 must classify CRITICAL, not ALERT_HIGH:
// the CRITICAL branch is checked first and both comparisons are inclusive.
func TestClassify_CriticalBoundaryWins(t *testing.T) {
	if got := Classify(95.0, 85.0, 50.0); got != Critical {
		t.Fatalf("Classify(high+10) = %v, want %v", got, Critical)
	}
}
