// Package simulation provides buy-and-hold investment simulation and
// multi-stock comparison over historical daily prices.
package simulation

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"stockwatch/internal/errors"
	"stockwatch/internal/models"
	"stockwatch/internal/store"
)

var hundred = decimal.NewFromInt(100)

// Engine computes hypothetical buy-and-hold outcomes. It is stateless: every
// call fetches an immutable price snapshot and the same inputs always
// produce the same result.
type Engine struct {
	repo store.TimeSeriesRepository
}

// NewEngine creates a simulation engine over the given repository.
func NewEngine(repo store.TimeSeriesRepository) *Engine {
	return &Engine{repo: repo}
}

// Simulate computes the outcome of investing amount in symbol at the first
// trading day on or after startDate, held to the latest available date.
//
// Fails with a NoDataForRangeError when the symbol has no price point on or
// after startDate. A single-point range yields a one-point value curve and a
// zero return.
func (e *Engine) Simulate(ctx context.Context, symbol string, amount decimal.Decimal, startDate time.Time) (*models.SimulationResult, error) {
	if !amount.IsPositive() {
		return nil, errors.NewValidationError("amount", amount.String(), "must be positive")
	}

	points, err := e.repo.GetPrices(ctx, symbol, startDate, time.Time{})
	if err != nil {
		return nil, errors.NewDataError("prices", symbol, "fetching price range", err)
	}
	if len(points) == 0 {
		return nil, errors.NewNoDataForRangeError(symbol, startDate)
	}

	entry := points[0]
	if !entry.Close.IsPositive() {
		return nil, errors.NewDataError("prices", symbol, "entry close price is not positive", nil)
	}

	shares := amount.Div(entry.Close)

	curve := make([]models.ValuePoint, len(points))
	for i, p := range points {
		curve[i] = models.ValuePoint{
			Date:  p.Date,
			Value: shares.Mul(p.Close),
		}
	}

	last := points[len(points)-1]
	finalValue := curve[len(curve)-1].Value
	absoluteReturn := finalValue.Sub(amount)

	return &models.SimulationResult{
		Symbol:         symbol,
		AmountInvested: amount,
		StartDate:      entry.Date,
		EndDate:        last.Date,
		SharesBought:   shares,
		StartPrice:     entry.Close,
		EndPrice:       last.Close,
		FinalValue:     finalValue,
		AbsoluteReturn: absoluteReturn,
		PercentReturn:  absoluteReturn.Div(amount).Mul(hundred),
		ValueCurve:     curve,
	}, nil
}
