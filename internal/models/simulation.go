package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ValuePoint is one day on a simulation value curve.
type ValuePoint struct {
	Date  time.Time
	Value decimal.Decimal
}

// SimulationResult is the outcome of a hypothetical buy-and-hold investment
// in a single stock from a start date to the latest available date.
type SimulationResult struct {
	Symbol         string
	AmountInvested decimal.Decimal
	StartDate      time.Time
	EndDate        time.Time
	SharesBought   decimal.Decimal
	StartPrice     decimal.Decimal
	EndPrice       decimal.Decimal
	FinalValue     decimal.Decimal
	AbsoluteReturn decimal.Decimal
	PercentReturn  decimal.Decimal
	ValueCurve     []ValuePoint
}

// ComparisonResult ranks buy-and-hold simulations for several stocks over the
// same amount and start date, best percent return first. Ties are broken by
// symbol lexical order so the ranking is deterministic.
type ComparisonResult struct {
	Amount    decimal.Decimal
	StartDate time.Time
	Rankings  []SimulationResult
}
