// Package anomaly flags abnormal trading volume and price movement per stock.
//
// Detection scores the latest observation against a trailing window with a
// z-score rather than a fixed absolute threshold: volume and volatility vary
// by orders of magnitude across stocks, and a relative measure calibrates
// itself without per-stock tuning.
package anomaly

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"stockwatch/internal/errors"
	"stockwatch/internal/models"
	"stockwatch/internal/stats"
	"stockwatch/internal/store"
)

// Config holds detection parameters.
type Config struct {
	// Window is the number of preceding trading days forming the baseline.
	Window int
	// Threshold is the absolute z-score at which an observation is flagged.
	Threshold float64
	// MinObservations is the minimum baseline size for a meaningful stddev.
	MinObservations int
}

// DefaultConfig returns the default detection parameters.
func DefaultConfig() Config {
	return Config{
		Window:          20,
		Threshold:       3.0,
		MinObservations: stats.DefaultMinObservations,
	}
}

// Detector evaluates the latest observation of volume and price change
// against the historical distribution. It is stateless and read-only over
// the repository; deduplication of resulting events is the alert store's
// responsibility.
type Detector struct {
	repo      store.TimeSeriesRepository
	window    int
	threshold decimal.Decimal
	minObs    int
}

// NewDetector creates a detector over the given repository.
func NewDetector(repo store.TimeSeriesRepository, cfg Config) *Detector {
	if cfg.Window <= 0 {
		cfg.Window = DefaultConfig().Window
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultConfig().Threshold
	}
	if cfg.MinObservations < stats.DefaultMinObservations {
		cfg.MinObservations = stats.DefaultMinObservations
	}
	return &Detector{
		repo:      repo,
		window:    cfg.Window,
		threshold: decimal.NewFromFloat(cfg.Threshold),
		minObs:    cfg.MinObservations,
	}
}

// DetectVolumeAnomaly checks whether the latest day's volume is abnormal
// relative to the preceding window. Returns (nil, nil) when there is no
// anomaly or not enough history to tell; an error only signals a repository
// failure.
func (d *Detector) DetectVolumeAnomaly(ctx context.Context, symbol string) (*models.AnomalyEvent, error) {
	points, err := d.repo.GetLatest(ctx, symbol, d.window+1)
	if err != nil {
		return nil, errors.NewDataError("prices", symbol, "fetching latest volumes", err)
	}
	if len(points) < 2 {
		return nil, nil
	}

	latest := points[len(points)-1]
	baseline := stats.VolumeSeries(volumes(points[:len(points)-1]))

	z, severity, ok := d.score(decimal.NewFromInt(latest.Volume), baseline)
	if !ok {
		return nil, nil
	}

	return &models.AnomalyEvent{
		Symbol:   symbol,
		Kind:     models.AnomalyVolumeSpike,
		Severity: severity,
		ZScore:   z,
		Message: fmt.Sprintf("volume %d is %s standard deviations from the %d-day average",
			latest.Volume, z.StringFixed(2), len(baseline)),
		ObservedDate: latest.Date,
	}, nil
}

// DetectPriceAnomaly applies the same mechanics to the day-over-day percent
// change of close price. Kind is price_jump.
func (d *Detector) DetectPriceAnomaly(ctx context.Context, symbol string) (*models.AnomalyEvent, error) {
	// One extra point: a window of changes needs window+1 closes.
	points, err := d.repo.GetLatest(ctx, symbol, d.window+2)
	if err != nil {
		return nil, errors.NewDataError("prices", symbol, "fetching latest closes", err)
	}

	changes := stats.PercentChanges(closes(points))
	if len(changes) < 2 {
		return nil, nil
	}

	latest := points[len(points)-1]
	latestChange := changes[len(changes)-1]
	baseline := changes[:len(changes)-1]

	z, severity, ok := d.score(latestChange, baseline)
	if !ok {
		return nil, nil
	}

	return &models.AnomalyEvent{
		Symbol:   symbol,
		Kind:     models.AnomalyPriceJump,
		Severity: severity,
		ZScore:   z,
		Message: fmt.Sprintf("close moved %s%% day-over-day, %s standard deviations from the %d-day average",
			latestChange.StringFixed(2), z.StringFixed(2), len(baseline)),
		ObservedDate: latest.Date,
	}, nil
}

// score computes the z-score and severity of value against the baseline
// series. ok is false when the baseline is too small to judge or the value
// is below threshold.
func (d *Detector) score(value decimal.Decimal, baseline []decimal.Decimal) (decimal.Decimal, models.Severity, bool) {
	mean, stddev, err := stats.MeanStdDev(baseline, d.window, d.minObs)
	if err != nil {
		// Insufficient history means "cannot be determined", not a failure.
		return decimal.Zero, "", false
	}

	if stddev.IsZero() {
		if value.Equal(mean) {
			// Fully flat series: nothing can be anomalous.
			return decimal.Zero, "", false
		}
		// Flat baseline with a deviating observation: the move is unboundedly
		// many standard deviations out. Saturate the score at the high tier.
		z := d.threshold.Add(decimal.NewFromInt(2))
		if value.LessThan(mean) {
			z = z.Neg()
		}
		return z, models.SeverityHigh, true
	}

	z := stats.ZScore(value, mean, stddev)
	severity := d.classify(z)
	if severity == "" {
		return decimal.Zero, "", false
	}
	return z, severity, true
}

// classify maps an absolute z-score to a severity tier. The threshold
// boundary itself is inclusive and maps to low. An empty severity means the
// score is below threshold.
func (d *Detector) classify(z decimal.Decimal) models.Severity {
	abs := z.Abs()
	if abs.LessThan(d.threshold) {
		return ""
	}
	excess := abs.Sub(d.threshold)
	switch {
	case excess.LessThan(decimal.NewFromInt(1)):
		return models.SeverityLow
	case excess.LessThan(decimal.NewFromInt(2)):
		return models.SeverityMedium
	default:
		return models.SeverityHigh
	}
}

func volumes(points []models.PricePoint) []int64 {
	out := make([]int64, len(points))
	for i, p := range points {
		out[i] = p.Volume
	}
	return out
}

func closes(points []models.PricePoint) []decimal.Decimal {
	out := make([]decimal.Decimal, len(points))
	for i, p := range points {
		out[i] = p.Close
	}
	return out
}
