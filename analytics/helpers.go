package analytics

import (
	"math"
	"time"
)

// round2 rounds to 2 decimal places; every rate and monetary aggregate in a
// report goes through it.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// rate returns numerator/denominator as a percentage, 0 when the
// denominator is 0, rounded to 2 decimals.
func rate(numerator, denominator int64) float64 {
	if denominator == 0 {
		return 0
	}
	return round2(float64(numerator) / float64(denominator) * 100)
}

// windowStart returns the beginning of a lookback window of the given
// number of days.
func windowStart(days int) time.Time {
	return time.Now().UTC().AddDate(0, 0, -days)
}
