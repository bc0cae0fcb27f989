package cli

import (
	"testing"

	"stockwatch/internal/errors"
)

func TestValidateSymbol(t *testing.T) {
	tests := []struct {
		symbol  string
		wantErr bool
	}{
		{"RELIANCE", false},
		{"TCS", false},
		{"M3M", false},
		{"A", false},
		{"ABCDEFGHIJ", false},
		{"", true},
		{"ABCDEFGHIJK", true},
		{"reliance", true},
		{"REL-IANCE", true},
		{"REL IANCE", true},
	}
	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			err := validateSymbol(tt.symbol)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateSymbol(%q) error = %v, wantErr %v", tt.symbol, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrInputValidation) {
				t.Errorf("validateSymbol(%q) error = %v, want validation error", tt.symbol, err)
			}
		})
	}
}

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"minimum", "1000000", "1000000", false},
		{"maximum", "10000000000", "10000000000", false},
		{"mid range", "2500000.50", "2500000.5", false},
		{"below minimum", "999999", "", true},
		{"above maximum", "10000000001", "", true},
		{"zero", "0", "", true},
		{"negative", "-5000000", "", true},
		{"not a number", "ten lakh", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := validateAmount(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateAmount(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if !tt.wantErr && got.String() != tt.want {
				t.Errorf("validateAmount(%q) = %s, want %s", tt.raw, got, tt.want)
			}
		})
	}
}

func TestValidateStartDate(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", "2024-01-15", false},
		{"just after cutoff", "2001-01-01", false},
		{"year 2000", "2000-12-31", true},
		{"far future", "2099-01-01", true},
		{"wrong layout", "15-01-2024", true},
		{"not a date", "someday", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validateStartDate(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateStartDate(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
		})
	}
}
