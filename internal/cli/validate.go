package cli

import (
	"time"

	"github.com/shopspring/decimal"

	"stockwatch/internal/errors"
	"stockwatch/internal/models"
)

// Accepted range for simulation amounts, in rupees.
var (
	minAmount = decimal.NewFromInt(1_000_000)
	maxAmount = decimal.NewFromInt(10_000_000_000)
)

// validateSymbol checks a symbol is uppercase alphanumeric, at most 10 chars.
func validateSymbol(symbol string) error {
	if symbol == "" || len(symbol) > 10 {
		return errors.NewValidationError("symbol", symbol, "must be 1-10 characters")
	}
	for _, c := range symbol {
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return errors.NewValidationError("symbol", symbol, "must be uppercase alphanumeric")
		}
	}
	return nil
}

// validateAmount parses and bounds-checks an investment amount.
func validateAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, errors.NewValidationError("amount", raw, "must be numeric")
	}
	if amount.LessThan(minAmount) || amount.GreaterThan(maxAmount) {
		return decimal.Zero, errors.NewValidationError("amount", raw, "must be between 1,000,000 and 10,000,000,000")
	}
	return amount, nil
}

// validateStartDate parses a start date and checks it is after year 2000 and
// not in the future.
func validateStartDate(raw string) (time.Time, error) {
	d, err := time.ParseInLocation(models.DateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, errors.NewValidationError("start_date", raw, "must be a date in YYYY-MM-DD form")
	}
	if d.Year() <= 2000 {
		return time.Time{}, errors.NewValidationError("start_date", raw, "must be after the year 2000")
	}
	if d.After(time.Now().UTC()) {
		return time.Time{}, errors.NewValidationError("start_date", raw, "must not be in the future")
	}
	return d, nil
}
