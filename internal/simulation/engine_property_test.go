package simulation

import (
	"context"
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"

	"stockwatch/internal/models"
	"stockwatch/internal/store"
)

func seedRandomCloses(t *testing.T, ds store.DataStore, symbol string, cents []int64) {
	t.Helper()
	points := make([]models.PricePoint, len(cents))
	for i, c := range cents {
		price := decimal.New(c, -2)
		points[i] = models.PricePoint{
			Date:   baseDate.AddDate(0, 0, i),
			Open:   price,
			High:   price,
			Low:    price,
			Close:  price,
			Volume: 1_000_000,
		}
	}
	if err := ds.SavePrices(context.Background(), symbol, points); err != nil {
		t.Fatalf("SavePrices() error = %v", err)
	}
}

// The opening value of the curve must equal the invested amount up to
// division rounding: the position is bought at the entry close, so the
// curve starts where the money went in.
func TestProperty_CurveStartsAtAmount(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("curve opens at invested amount", prop.ForAll(
		func(amountLakh int64, cents []int64) bool {
			ds := store.NewMemoryStore()
			seedRandomCloses(t, ds, "PRP", cents)

			amount := decimal.NewFromInt(amountLakh * 100_000)
			result, err := NewEngine(ds).Simulate(context.Background(), "PRP", amount, baseDate)
			if err != nil {
				return false
			}

			diff := result.ValueCurve[0].Value.Sub(amount).Abs()
			// Div carries 16 decimal digits, so the round trip is within a paisa.
			return diff.LessThan(decimal.New(1, -2))
		},
		gen.Int64Range(10, 100_000),
		gen.SliceOfN(10, gen.Int64Range(1_00, 10_000_00)),
	))

	properties.Property("simulation is deterministic", prop.ForAll(
		func(amountLakh int64, cents []int64) bool {
			ds := store.NewMemoryStore()
			seedRandomCloses(t, ds, "DET", cents)

			amount := decimal.NewFromInt(amountLakh * 100_000)
			engine := NewEngine(ds)
			first, err := engine.Simulate(context.Background(), "DET", amount, baseDate)
			if err != nil {
				return false
			}
			second, err := engine.Simulate(context.Background(), "DET", amount, baseDate)
			if err != nil {
				return false
			}
			return first.PercentReturn.Equal(second.PercentReturn) &&
				first.FinalValue.Equal(second.FinalValue) &&
				first.SharesBought.Equal(second.SharesBought)
		},
		gen.Int64Range(10, 100_000),
		gen.SliceOfN(8, gen.Int64Range(1_00, 10_000_00)),
	))

	properties.TestingRun(t)
}

// Rankings must come out sorted by percent return descending with symbol
// order breaking ties, regardless of the input symbol order.
func TestProperty_CompareRankingsSorted(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("rankings sorted descending", prop.ForAll(
		func(series [][]int64) bool {
			ds := store.NewMemoryStore()
			symbols := make([]string, len(series))
			for i, cents := range series {
				symbols[i] = fmt.Sprintf("SYM%d", i)
				seedRandomCloses(t, ds, symbols[i], cents)
			}

			result, err := NewEngine(ds).Compare(context.Background(), symbols, decimal.NewFromInt(1_000_000), baseDate)
			if err != nil {
				return false
			}
			for i := 1; i < len(result.Rankings); i++ {
				prev, cur := result.Rankings[i-1], result.Rankings[i]
				if prev.PercentReturn.LessThan(cur.PercentReturn) {
					return false
				}
				if prev.PercentReturn.Equal(cur.PercentReturn) && prev.Symbol > cur.Symbol {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(4, gen.SliceOfN(6, gen.Int64Range(1_00, 10_000_00))),
	))

	properties.TestingRun(t)
}
