// Package condition classifies a single temperature reading against the
// configured thresholds. Classification is instantaneous and stateless;
// the debounced operating state is tracked separately by the fsm package.
package condition

// Level is the instantaneous, undebounced classification of one reading.
type Level string

const (
	Normal    Level = "NORMAL"
	AlertLow  Level = "ALERT_LOW"
	AlertHigh Level = "ALERT_HIGH"
	Critical  Level = "CRITICAL"
)

// criticalMargin is how far above the high threshold a reading must be
// before it is classified CRITICAL rather than ALERT_HIGH.
const criticalMargin = 10.0

// Classify maps a temperature to its condition level. The CRITICAL check
// runs before the ALERT_HIGH check so that a reading exactly at
// high+criticalMargin classifies as CRITICAL. All comparisons are
// inclusive (>= / <=).
func Classify(temperature, highThreshold, lowThreshold float64) Level {
	switch {
	case temperature >= highThreshold+criticalMargin:
		return Critical
	case temperature >= highThreshold:
		return AlertHigh
	case temperature <= lowThreshold:
		return AlertLow
	default:
		return Normal
	}
}
