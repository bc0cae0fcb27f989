package simulation

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"stockwatch/internal/errors"
	"stockwatch/internal/models"
)

// Comparison symbol count bounds.
const (
	MinCompareSymbols = 2
	MaxCompareSymbols = 5
)

// Compare runs a buy-and-hold simulation for each symbol with the same
// amount and start date and ranks the results by percent return descending,
// ties broken by symbol lexical order.
//
// The comparison is all-or-nothing: if any symbol lacks data at or after
// startDate the whole call fails with a NoDataForRangeError naming that
// symbol. A partial ranking would be misleading, so no symbol is silently
// dropped.
func (e *Engine) Compare(ctx context.Context, symbols []string, amount decimal.Decimal, startDate time.Time) (*models.ComparisonResult, error) {
	if len(symbols) < MinCompareSymbols || len(symbols) > MaxCompareSymbols {
		return nil, errors.NewValidationError("symbols", len(symbols), "comparison requires 2 to 5 symbols")
	}
	seen := make(map[string]struct{}, len(symbols))
	for _, sym := range symbols {
		if _, dup := seen[sym]; dup {
			return nil, errors.NewValidationError("symbols", sym, "symbols must be distinct")
		}
		seen[sym] = struct{}{}
	}

	rankings := make([]models.SimulationResult, 0, len(symbols))
	for _, sym := range symbols {
		result, err := e.Simulate(ctx, sym, amount, startDate)
		if err != nil {
			return nil, err
		}
		rankings = append(rankings, *result)
	}

	sort.Slice(rankings, func(i, j int) bool {
		if !rankings[i].PercentReturn.Equal(rankings[j].PercentReturn) {
			return rankings[i].PercentReturn.GreaterThan(rankings[j].PercentReturn)
		}
		return rankings[i].Symbol < rankings[j].Symbol
	})

	return &models.ComparisonResult{
		Amount:    amount,
		StartDate: startDate,
		Rankings:  rankings,
	}, nil
}
