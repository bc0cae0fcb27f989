// Package stats provides rolling statistics over price and volume series.
// All functions are pure and operate on decimal values so long series do not
// accumulate floating-point drift.
package stats

import (
	"math"

	"github.com/shopspring/decimal"

	"stockwatch/internal/errors"
)

// DefaultMinObservations is the minimum number of observations required for
// a meaningful standard deviation.
const DefaultMinObservations = 2

var hundred = decimal.NewFromInt(100)

// MeanStdDev computes the sample mean and sample standard deviation over the
// last window elements of series. The caller is expected to exclude the
// observation being tested, so a value is never scored against a baseline
// that includes itself.
//
// Returns errors.ErrInsufficientData when fewer than minObs observations are
// available; callers must treat that as "no anomaly can be determined".
func MeanStdDev(series []decimal.Decimal, window, minObs int) (mean, stddev decimal.Decimal, err error) {
	if minObs < DefaultMinObservations {
		minObs = DefaultMinObservations
	}
	if window > len(series) {
		window = len(series)
	}
	if window < minObs {
		return decimal.Zero, decimal.Zero, errors.ErrInsufficientData
	}

	obs := series[len(series)-window:]
	n := decimal.NewFromInt(int64(len(obs)))

	var sum decimal.Decimal
	for _, v := range obs {
		sum = sum.Add(v)
	}
	mean = sum.Div(n)

	var sqDiff decimal.Decimal
	for _, v := range obs {
		d := v.Sub(mean)
		sqDiff = sqDiff.Add(d.Mul(d))
	}
	// Sample variance: divide by n-1.
	variance := sqDiff.Div(n.Sub(decimal.NewFromInt(1)))
	stddev = sqrt(variance)

	return mean, stddev, nil
}

// ZScore returns how many standard deviations value lies from mean. A zero
// standard deviation yields a zero z-score: a flat series cannot be
// anomalous, and this avoids the degenerate division.
func ZScore(value, mean, stddev decimal.Decimal) decimal.Decimal {
	if stddev.IsZero() {
		return decimal.Zero
	}
	return value.Sub(mean).Div(stddev)
}

// PercentChanges returns the day-over-day percent change series for a close
// price series. The result has len(closes)-1 elements; a zero previous close
// contributes a zero change rather than a division blowup.
func PercentChanges(closes []decimal.Decimal) []decimal.Decimal {
	if len(closes) < 2 {
		return nil
	}
	changes := make([]decimal.Decimal, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		prev := closes[i-1]
		if prev.IsZero() {
			changes = append(changes, decimal.Zero)
			continue
		}
		changes = append(changes, closes[i].Sub(prev).Div(prev).Mul(hundred))
	}
	return changes
}

// VolumeSeries converts raw volumes to decimals for statistical scoring.
func VolumeSeries(volumes []int64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(volumes))
	for i, v := range volumes {
		out[i] = decimal.NewFromInt(v)
	}
	return out
}

// sqrt computes the square root of a non-negative decimal. The intermediate
// float64 round-trip is fine here: standard deviations feed z-score
// comparisons, not money arithmetic.
func sqrt(d decimal.Decimal) decimal.Decimal {
	f, _ := d.Float64()
	if f <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(math.Sqrt(f))
}
