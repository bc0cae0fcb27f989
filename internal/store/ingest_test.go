package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prices.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestIngestCSV(t *testing.T) {
	path := writeCSV(t, `date,open,high,low,close,volume
2024-01-01,100.50,105.00,99.25,104.10,1500000
2024-01-02,104.10,108.75,103.00,107.20,1800000
2024-01-03,107.20,107.50,101.80,102.35,2100000
`)

	ds := NewMemoryStore()
	n, err := IngestCSV(context.Background(), ds, "AAA", path)
	if err != nil {
		t.Fatalf("IngestCSV() error = %v", err)
	}
	if n != 3 {
		t.Errorf("IngestCSV() = %d rows, want 3", n)
	}

	points, err := ds.GetLatest(context.Background(), "AAA", 10)
	if err != nil {
		t.Fatalf("GetLatest() error = %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("len(points) = %d, want 3", len(points))
	}
	if points[0].Close.String() != "104.1" && points[0].Close.String() != "104.10" {
		t.Errorf("first close = %s, want 104.10", points[0].Close)
	}
	if points[2].Volume != 2_100_000 {
		t.Errorf("last volume = %d, want 2100000", points[2].Volume)
	}
}

func TestIngestCSVBadRowFailsWholeFile(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{
			"low above high",
			`date,open,high,low,close,volume
2024-01-01,100,105,99,104,1500000
2024-01-02,104,108,110,107,1800000
`,
		},
		{
			"bad date",
			`date,open,high,low,close,volume
2024-01-01,100,105,99,104,1500000
01/02/2024,104,108,103,107,1800000
`,
		},
		{
			"bad price",
			`date,open,high,low,close,volume
2024-01-01,100,105,99,104,1500000
2024-01-02,abc,108,103,107,1800000
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := NewMemoryStore()
			n, err := IngestCSV(context.Background(), ds, "AAA", writeCSV(t, tt.csv))
			if err == nil {
				t.Fatal("IngestCSV() accepted a bad row")
			}
			if n != 0 {
				t.Errorf("IngestCSV() = %d, want 0 on failure", n)
			}
			points, getErr := ds.GetLatest(context.Background(), "AAA", 10)
			if getErr != nil {
				t.Fatalf("GetLatest() error = %v", getErr)
			}
			if len(points) != 0 {
				t.Errorf("%d points loaded from a rejected file, want 0", len(points))
			}
		})
	}
}

func TestIngestCSVMissingFile(t *testing.T) {
	_, err := IngestCSV(context.Background(), NewMemoryStore(), "AAA", filepath.Join(t.TempDir(), "absent.csv"))
	if err == nil {
		t.Fatal("IngestCSV() on a missing file returned nil error")
	}
}
