package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Alert is the persisted form of an AnomalyEvent. The store deduplicates on
// (symbol, kind, observed date) so re-running a sweep never creates
// duplicate alerts.
type Alert struct {
	ID           string
	Symbol       string
	Kind         AnomalyKind
	Severity     Severity
	ZScore       decimal.Decimal
	Message      string
	ObservedDate time.Time
	CreatedAt    time.Time
}
