// Package sweep runs the periodic anomaly detection pass over tracked stocks.
package sweep

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"stockwatch/internal/anomaly"
	"stockwatch/internal/logging"
	"stockwatch/internal/models"
	"stockwatch/internal/notify"
	"stockwatch/internal/store"
)

// Outcome is the isolated result of checking a single symbol. A failed
// symbol never aborts the sweep for the others.
type Outcome struct {
	Symbol string
	Events []models.AnomalyEvent
	Err    error
}

// Summary aggregates one sweep run.
type Summary struct {
	StartedAt     time.Time
	Duration      time.Duration
	Processed     int
	AlertsCreated int
	Deduplicated  int
	Errors        int
	Outcomes      []Outcome
}

// Runner iterates tracked stocks, runs both detectors per stock, and
// forwards detected anomalies to the alert store. Running the same sweep
// twice over the same data yields the same summary counts except that
// already-persisted alerts count as deduplicated instead of created.
type Runner struct {
	store    store.DataStore
	detector *anomaly.Detector
	notifier notify.Notifier
	list     string
	logger   zerolog.Logger
}

// NewRunner creates a sweep runner over the given store and detector.
// listName selects the watchlist to sweep; empty means "default".
func NewRunner(ds store.DataStore, detector *anomaly.Detector, listName string, logger zerolog.Logger) *Runner {
	if listName == "" {
		listName = "default"
	}
	return &Runner{
		store:    ds,
		detector: detector,
		notifier: notify.NewNoOpNotifier(),
		list:     listName,
		logger:   logging.WithOperation(logger, "sweep"),
	}
}

// SetNotifier sets the channel fresh alerts are delivered to. Only alerts the
// store actually created are delivered, never deduplicated ones.
func (r *Runner) SetNotifier(n notify.Notifier) {
	if n != nil {
		r.notifier = n
	}
}

// Run executes one detection sweep. Symbols come from the configured
// watchlist; when the watchlist is empty, every symbol with price data is
// swept instead.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	started := time.Now()

	symbols, err := r.store.GetWatchlist(ctx, r.list)
	if err != nil {
		return nil, err
	}
	if len(symbols) == 0 {
		symbols, err = r.store.ListSymbols(ctx)
		if err != nil {
			return nil, err
		}
	}

	summary := &Summary{
		StartedAt: started,
		Outcomes:  make([]Outcome, 0, len(symbols)),
	}

	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		outcome := r.checkSymbol(ctx, symbol, summary)
		summary.Outcomes = append(summary.Outcomes, outcome)
		summary.Processed++
		if outcome.Err != nil {
			summary.Errors++
		}
	}

	summary.Duration = time.Since(started)
	logging.LogSweep(r.logger, summary.Processed, summary.AlertsCreated, summary.Errors, summary.Duration)
	return summary, nil
}

// checkSymbol runs both detectors for one symbol and persists any events.
// All failures are captured in the outcome rather than propagated.
func (r *Runner) checkSymbol(ctx context.Context, symbol string, summary *Summary) Outcome {
	outcome := Outcome{Symbol: symbol}
	logger := logging.WithSymbol(r.logger, symbol)

	detections := []func(context.Context, string) (*models.AnomalyEvent, error){
		r.detector.DetectVolumeAnomaly,
		r.detector.DetectPriceAnomaly,
	}

	for _, detect := range detections {
		event, err := detect(ctx, symbol)
		if err != nil {
			logger.Warn().Err(err).Msg("Detection failed")
			outcome.Err = err
			continue
		}
		if event == nil {
			continue
		}

		outcome.Events = append(outcome.Events, *event)
		logging.LogAnomaly(logger, event.Symbol, string(event.Kind), string(event.Severity), event.ZScore.StringFixed(2))

		alert, created, err := r.store.CreateAlert(ctx, *event)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to persist alert")
			outcome.Err = err
			continue
		}
		if created {
			summary.AlertsCreated++
			logging.LogAlertCreated(logger, alert.ID, alert.Symbol, string(alert.Kind))
			if err := r.notifier.NotifyAlert(ctx, alert); err != nil {
				// Delivery failures never fail the sweep; the alert is persisted.
				logger.Warn().Err(err).Str("alert_id", alert.ID).Msg("Alert delivery failed")
			}
		} else {
			summary.Deduplicated++
			logger.Debug().Str("alert_id", alert.ID).Msg("Alert already exists")
		}
	}

	return outcome
}
