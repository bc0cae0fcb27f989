package store

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"stockwatch/internal/models"
)

// priceRow is the CSV shape for daily OHLCV history exports.
type priceRow struct {
	Date   string `csv:"date"`
	Open   string `csv:"open"`
	High   string `csv:"high"`
	Low    string `csv:"low"`
	Close  string `csv:"close"`
	Volume int64  `csv:"volume"`
}

// IngestCSV reads daily OHLCV rows from a CSV file and upserts them for the
// given symbol. Rows violating the OHLC invariant fail the whole file so a
// partially bad export never half-loads.
func IngestCSV(ctx context.Context, ds DataStore, symbol, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var rows []*priceRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	points := make([]models.PricePoint, 0, len(rows))
	for i, row := range rows {
		p, err := row.toPricePoint()
		if err != nil {
			return 0, fmt.Errorf("row %d: %w", i+1, err)
		}
		if err := p.Validate(); err != nil {
			return 0, fmt.Errorf("row %d: %w", i+1, err)
		}
		points = append(points, p)
	}

	if err := ds.SavePrices(ctx, symbol, points); err != nil {
		return 0, err
	}
	return len(points), nil
}

func (r *priceRow) toPricePoint() (models.PricePoint, error) {
	var p models.PricePoint

	d, err := time.ParseInLocation(models.DateLayout, r.Date, time.UTC)
	if err != nil {
		return p, fmt.Errorf("invalid date %q: %w", r.Date, err)
	}
	p.Date = d
	p.Volume = r.Volume

	for _, field := range []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"open", r.Open, &p.Open},
		{"high", r.High, &p.High},
		{"low", r.Low, &p.Low},
		{"close", r.Close, &p.Close},
	} {
		v, err := decimal.NewFromString(field.raw)
		if err != nil {
			return p, fmt.Errorf("invalid %s %q: %w", field.name, field.raw, err)
		}
		*field.dst = v
	}
	return p, nil
}
