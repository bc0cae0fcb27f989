package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AnomalyKind represents the kind of anomaly detected.
type AnomalyKind string

const (
	// AnomalyVolumeSpike indicates abnormal trading volume.
	AnomalyVolumeSpike AnomalyKind = "volume_spike"
	// AnomalyPriceJump indicates an abnormal day-over-day price move.
	AnomalyPriceJump AnomalyKind = "price_jump"
)

// Severity represents how far beyond the detection threshold an anomaly lies.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// AnomalyEvent is a single detected anomaly for one stock on one day.
// Events are produced by the detector and persisted (deduplicated) by the
// alert store; the detector itself holds no state.
type AnomalyEvent struct {
	Symbol       string
	Kind         AnomalyKind
	Severity     Severity
	ZScore       decimal.Decimal
	Message      string
	ObservedDate time.Time
}
