package stats

import (
	"testing"

	"github.com/shopspring/decimal"

	"stockwatch/internal/errors"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decs(vals ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(vals))
	for i, v := range vals {
		out[i] = dec(v)
	}
	return out
}

func TestMeanStdDev(t *testing.T) {
	tests := []struct {
		name       string
		series     []decimal.Decimal
		window     int
		wantMean   string
		wantStdDev string
	}{
		{
			name:       "flat series has zero stddev",
			series:     decs("100", "100", "100", "100"),
			window:     4,
			wantMean:   "100",
			wantStdDev: "0",
		},
		{
			name:   "two observations",
			series: decs("10", "20"),
			window: 2,
			// Sample stddev of {10, 20}: sqrt(50) ≈ 7.07
			wantMean:   "15",
			wantStdDev: "7.0710678118654755",
		},
		{
			name:       "window selects the tail",
			series:     decs("1000000", "100", "100", "100"),
			window:     3,
			wantMean:   "100",
			wantStdDev: "0",
		},
		{
			name:       "window larger than series uses what is available",
			series:     decs("100", "100"),
			window:     50,
			wantMean:   "100",
			wantStdDev: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mean, stddev, err := MeanStdDev(tt.series, tt.window, DefaultMinObservations)
			if err != nil {
				t.Fatalf("MeanStdDev() error = %v", err)
			}
			if !mean.Equal(dec(tt.wantMean)) {
				t.Errorf("mean = %s, want %s", mean, tt.wantMean)
			}
			if !stddev.Equal(dec(tt.wantStdDev)) {
				t.Errorf("stddev = %s, want %s", stddev, tt.wantStdDev)
			}
		})
	}
}

func TestMeanStdDevInsufficientData(t *testing.T) {
	tests := []struct {
		name   string
		series []decimal.Decimal
		window int
		minObs int
	}{
		{"empty series", nil, 20, 2},
		{"single observation", decs("100"), 20, 2},
		{"below configured minimum", decs("100", "200", "300"), 3, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := MeanStdDev(tt.series, tt.window, tt.minObs)
			if !errors.Is(err, errors.ErrInsufficientData) {
				t.Errorf("MeanStdDev() error = %v, want ErrInsufficientData", err)
			}
		})
	}
}

func TestZScore(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		mean   string
		stddev string
		want   string
	}{
		{"three sigma above", "130", "100", "10", "3"},
		{"two sigma below", "80", "100", "10", "-2"},
		{"at the mean", "100", "100", "10", "0"},
		{"zero stddev yields zero", "5000000", "1000000", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ZScore(dec(tt.value), dec(tt.mean), dec(tt.stddev))
			if !got.Equal(dec(tt.want)) {
				t.Errorf("ZScore() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestPercentChanges(t *testing.T) {
	changes := PercentChanges(decs("100", "110", "99"))
	if len(changes) != 2 {
		t.Fatalf("len(changes) = %d, want 2", len(changes))
	}
	if !changes[0].Equal(dec("10")) {
		t.Errorf("changes[0] = %s, want 10", changes[0])
	}
	if !changes[1].Equal(dec("-10")) {
		t.Errorf("changes[1] = %s, want -10", changes[1])
	}
}

func TestPercentChangesShortSeries(t *testing.T) {
	if got := PercentChanges(decs("100")); got != nil {
		t.Errorf("PercentChanges(single) = %v, want nil", got)
	}
	if got := PercentChanges(nil); got != nil {
		t.Errorf("PercentChanges(nil) = %v, want nil", got)
	}
}

func TestPercentChangesZeroPrevious(t *testing.T) {
	changes := PercentChanges(decs("0", "100"))
	if len(changes) != 1 || !changes[0].IsZero() {
		t.Errorf("changes = %v, want single zero", changes)
	}
}
