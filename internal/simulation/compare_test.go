package simulation

import (
	"context"
	"testing"

	"stockwatch/internal/errors"
	"stockwatch/internal/store"
)

func TestCompareRanksBestFirst(t *testing.T) {
	// CCC returns 50%, DDD 20%: CCC ranks first.
	ds := store.NewMemoryStore()
	seedCloses(t, ds, "CCC", "100", "150")
	seedCloses(t, ds, "DDD", "100", "120")

	engine := NewEngine(ds)
	result, err := engine.Compare(context.Background(), []string{"DDD", "CCC"}, dec("10000000"), baseDate)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}

	if len(result.Rankings) != 2 {
		t.Fatalf("len(Rankings) = %d, want 2", len(result.Rankings))
	}
	if result.Rankings[0].Symbol != "CCC" || result.Rankings[1].Symbol != "DDD" {
		t.Errorf("ranking order = %s, %s, want CCC, DDD",
			result.Rankings[0].Symbol, result.Rankings[1].Symbol)
	}
	if !result.Rankings[0].PercentReturn.Equal(dec("50")) {
		t.Errorf("CCC PercentReturn = %s, want 50", result.Rankings[0].PercentReturn)
	}
	if !result.Rankings[1].PercentReturn.Equal(dec("20")) {
		t.Errorf("DDD PercentReturn = %s, want 20", result.Rankings[1].PercentReturn)
	}
}

func TestCompareTieBrokenBySymbol(t *testing.T) {
	ds := store.NewMemoryStore()
	seedCloses(t, ds, "BBB", "100", "110")
	seedCloses(t, ds, "AAA", "200", "220")

	engine := NewEngine(ds)
	result, err := engine.Compare(context.Background(), []string{"BBB", "AAA"}, dec("1000000"), baseDate)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if result.Rankings[0].Symbol != "AAA" {
		t.Errorf("tied ranking starts with %s, want AAA", result.Rankings[0].Symbol)
	}
}

func TestCompareMissingSymbolFailsWhole(t *testing.T) {
	// EEE has no data: the comparison fails naming EEE, no partial ranking.
	ds := store.NewMemoryStore()
	seedCloses(t, ds, "CCC", "100", "150")
	seedCloses(t, ds, "DDD", "100", "120")

	engine := NewEngine(ds)
	result, err := engine.Compare(context.Background(), []string{"CCC", "DDD", "EEE"}, dec("1000000"), baseDate)
	if result != nil {
		t.Fatalf("Compare() = %+v, want nil on failure", result)
	}
	var noData *errors.NoDataForRangeError
	if !errors.As(err, &noData) {
		t.Fatalf("Compare() error = %v, want NoDataForRangeError", err)
	}
	if noData.Symbol != "EEE" {
		t.Errorf("error names %q, want EEE", noData.Symbol)
	}
}

func TestCompareSymbolCountBounds(t *testing.T) {
	ds := store.NewMemoryStore()
	seedCloses(t, ds, "AAA", "100", "110")
	engine := NewEngine(ds)

	tests := []struct {
		name    string
		symbols []string
	}{
		{"one symbol", []string{"AAA"}},
		{"six symbols", []string{"A1", "A2", "A3", "A4", "A5", "A6"}},
		{"duplicate", []string{"AAA", "AAA"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Compare(context.Background(), tt.symbols, dec("1000000"), baseDate)
			if !errors.Is(err, errors.ErrInputValidation) {
				t.Errorf("Compare(%v) error = %v, want validation error", tt.symbols, err)
			}
		})
	}
}

func TestCompareSameInputsForAll(t *testing.T) {
	// Every ranking entry carries the shared amount and its own entry date.
	ds := store.NewMemoryStore()
	seedCloses(t, ds, "XXX", "50", "55")
	seedCloses(t, ds, "YYY", "80", "72")

	engine := NewEngine(ds)
	amount := dec("2500000")
	result, err := engine.Compare(context.Background(), []string{"XXX", "YYY"}, amount, baseDate)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if !result.Amount.Equal(amount) {
		t.Errorf("Amount = %s, want %s", result.Amount, amount)
	}
	for _, r := range result.Rankings {
		if !r.AmountInvested.Equal(amount) {
			t.Errorf("%s AmountInvested = %s, want %s", r.Symbol, r.AmountInvested, amount)
		}
	}
	if !result.Rankings[1].PercentReturn.Equal(dec("-10")) {
		t.Errorf("YYY PercentReturn = %s, want -10", result.Rankings[1].PercentReturn)
	}
}
