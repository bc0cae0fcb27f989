// Package models provides domain models for the stock monitoring application.
package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the canonical format for trading dates.
const DateLayout = "2006-01-02"

// PricePoint represents one day of OHLCV data for a stock.
// Points are immutable once ingested and ordered by date ascending per stock.
type PricePoint struct {
	Date   time.Time
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume int64
}

// Validate checks the OHLC invariant: Low <= Open,Close <= High and Volume >= 0.
func (p PricePoint) Validate() error {
	if p.Date.IsZero() {
		return fmt.Errorf("price point has no date")
	}
	if p.Volume < 0 {
		return fmt.Errorf("%s: negative volume %d", p.Date.Format(DateLayout), p.Volume)
	}
	if p.Low.GreaterThan(p.Open) || p.Low.GreaterThan(p.Close) {
		return fmt.Errorf("%s: low %s above open/close", p.Date.Format(DateLayout), p.Low)
	}
	if p.High.LessThan(p.Open) || p.High.LessThan(p.Close) {
		return fmt.Errorf("%s: high %s below open/close", p.Date.Format(DateLayout), p.High)
	}
	return nil
}

// Stock represents a tracked stock identified by its exchange symbol.
type Stock struct {
	Symbol    string
	Name      string
	CreatedAt time.Time
}
