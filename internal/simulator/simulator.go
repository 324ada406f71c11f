// Package simulator produces synthetic sensor samples for the monitored
// asset. Temperature follows a deterministic piecewise model over
// simulation time so runs are reproducible; secondary sensors use bounded
// randomness clamped to physically plausible ranges.
package simulator

import (
	"math"
	"math/rand"
	"time"
)

// Temperature model phase boundaries (seconds of simulation time).
const (
	warmupEnd = 10.0 // end of warm-up ramp
	steadyEnd = 40.0 // end of near-steady operation
)

// Temperature model rates (°F per second).
const (
	warmupRate = 1.2
	steadyRate = 0.05
)

// warmupGain is the temperature gained over the full warm-up phase.
const warmupGain = warmupEnd * warmupRate

// steadyGain is the drift accumulated over the full near-steady phase,
// carried forward into the degradation phase so the curve is continuous
// at the phase boundary.
const steadyGain = (steadyEnd - warmupEnd) * steadyRate

// Secondary sensor bounds.
const (
	baseRPM   = 1800
	rpmJitter = 200
	maxRPM    = 3000

	minOilPressure = 10.0 // PSI; pump never reads below this
	maxOilPressure = 80.0

	minVibration = 2.0 // mm/s
	maxVibration = 50.0

	minVoltage = 12.2
	maxVoltage = 13.8
)

// Sample is one synthetic reading of all sensors.
type Sample struct {
	Temperature float64
	RPM         int
	OilPressure float64
	Vibration   float64
	Voltage     float64
}

// Temperature computes the deterministic asset temperature (°F) for the
// given simulation time. Three phases: warm-up ramp, near-steady
// operation, then degradation drift at driftRate. The result is rounded
// to 2 decimals. Defined for all simTime >= 0.
func Temperature(simTime, initialTemp, driftRate float64) float64 {
	var temp float64
	switch {
	case simTime <= warmupEnd:
		temp = initialTemp + simTime*warmupRate
	case simTime <= steadyEnd:
		temp = initialTemp + warmupGain + (simTime-warmupEnd)*steadyRate
	default:
		temp = initialTemp + warmupGain + steadyGain + (simTime-steadyEnd)*driftRate
	}
	return round2(temp)
}

// Generator produces one Sample per tick.
type Generator struct {
	initialTemp float64
	driftRate   float64
	rng         *rand.Rand
}

// New creates a Generator. A nil rng gets a time-seeded source; tests
// pass a fixed-seed source for reproducible secondary sensors.
func New(initialTemp, driftRate float64, rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{
		initialTemp: initialTemp,
		driftRate:   driftRate,
		rng:         rng,
	}
}

// Generate produces the sample for the given simulation time and tick
// index. The tick index feeds the slow vibration wear trend.
func (g *Generator) Generate(simTime float64, tick int) Sample {
	rpm := baseRPM + g.rng.Intn(2*rpmJitter+1) - rpmJitter
	rpm = clampInt(rpm, 0, maxRPM)

	oil := 60.0 - float64(rpm)/100.0
	oil = clamp(oil, minOilPressure, maxOilPressure)

	// Random baseline plus a slow wear trend over the run.
	vib := 3.0 + g.rng.Float64()*5.0 + 0.05*float64(tick)
	vib = clamp(vib, minVibration, maxVibration)

	volt := minVoltage + g.rng.Float64()*(maxVoltage-minVoltage)

	return Sample{
		Temperature: Temperature(simTime, g.initialTemp, g.driftRate),
		RPM:         rpm,
		OilPressure: round1(oil),
		Vibration:   round2(vib),
		Voltage:     round2(volt),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
