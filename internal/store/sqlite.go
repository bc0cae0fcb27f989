// Package store provides data persistence implementations.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	apperrors "stockwatch/internal/errors"
	"stockwatch/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Daily OHLCV price points. Decimal columns are stored as TEXT so no
	-- precision is lost on the round trip.
	CREATE TABLE IF NOT EXISTS prices (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		date TEXT NOT NULL,
		open TEXT NOT NULL,
		high TEXT NOT NULL,
		low TEXT NOT NULL,
		close TEXT NOT NULL,
		volume INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(symbol, date)
	);

	-- Persisted anomaly alerts, deduplicated per symbol/kind/day.
	CREATE TABLE IF NOT EXISTS alerts (
		id TEXT PRIMARY KEY,
		symbol TEXT NOT NULL,
		kind TEXT NOT NULL,
		severity TEXT NOT NULL,
		z_score TEXT NOT NULL,
		message TEXT,
		observed_date TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(symbol, kind, observed_date)
	);

	-- Named watchlists of tracked symbols.
	CREATE TABLE IF NOT EXISTS watchlists (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		list_name TEXT NOT NULL DEFAULT 'default',
		added_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(symbol, list_name)
	);

	CREATE INDEX IF NOT EXISTS idx_prices_symbol_date ON prices(symbol, date);
	CREATE INDEX IF NOT EXISTS idx_alerts_symbol ON alerts(symbol);
	CREATE INDEX IF NOT EXISTS idx_alerts_observed ON alerts(observed_date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Price Methods
// ============================================================================

// SavePrices upserts price points for a symbol.
func (s *SQLiteStore) SavePrices(ctx context.Context, symbol string, points []models.PricePoint) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO prices (symbol, date, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("invalid price point for %s: %w", symbol, err)
		}
		_, err := stmt.ExecContext(ctx,
			symbol,
			p.Date.Format(models.DateLayout),
			p.Open.String(),
			p.High.String(),
			p.Low.String(),
			p.Close.String(),
			p.Volume,
		)
		if err != nil {
			return fmt.Errorf("failed to save price point: %w", err)
		}
	}

	return tx.Commit()
}

// GetPrices returns price points for symbol within [from, to], ascending.
func (s *SQLiteStore) GetPrices(ctx context.Context, symbol string, from, to time.Time) ([]models.PricePoint, error) {
	query := `SELECT date, open, high, low, close, volume FROM prices WHERE symbol = ?`
	args := []interface{}{symbol}

	if !from.IsZero() {
		query += ` AND date >= ?`
		args = append(args, from.Format(models.DateLayout))
	}
	if !to.IsZero() {
		query += ` AND date <= ?`
		args = append(args, to.Format(models.DateLayout))
	}
	query += ` ORDER BY date ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query prices: %w", err)
	}
	defer rows.Close()

	return scanPricePoints(rows)
}

// GetLatest returns the most recent n price points for symbol, ascending.
func (s *SQLiteStore) GetLatest(ctx context.Context, symbol string, n int) ([]models.PricePoint, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, open, high, low, close, volume FROM prices
		WHERE symbol = ? ORDER BY date DESC LIMIT ?
	`, symbol, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest prices: %w", err)
	}
	defer rows.Close()

	points, err := scanPricePoints(rows)
	if err != nil {
		return nil, err
	}

	// Query is newest-first; callers expect ascending order.
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
	return points, nil
}

// ListSymbols returns every symbol with at least one price point.
func (s *SQLiteStore) ListSymbols(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT symbol FROM prices ORDER BY symbol ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query symbols: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return nil, fmt.Errorf("failed to scan symbol: %w", err)
		}
		symbols = append(symbols, sym)
	}
	return symbols, rows.Err()
}

func scanPricePoints(rows *sql.Rows) ([]models.PricePoint, error) {
	var points []models.PricePoint
	for rows.Next() {
		var (
			date                  string
			open, high, low, clos string
			volume                int64
		)
		if err := rows.Scan(&date, &open, &high, &low, &clos, &volume); err != nil {
			return nil, fmt.Errorf("failed to scan price point: %w", err)
		}
		p, err := parsePricePoint(date, open, high, low, clos, volume)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func parsePricePoint(date, open, high, low, clos string, volume int64) (models.PricePoint, error) {
	var p models.PricePoint
	d, err := time.ParseInLocation(models.DateLayout, date, time.UTC)
	if err != nil {
		return p, fmt.Errorf("failed to parse date %q: %w", date, err)
	}
	p.Date = d
	p.Volume = volume
	for _, field := range []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"open", open, &p.Open},
		{"high", high, &p.High},
		{"low", low, &p.Low},
		{"close", clos, &p.Close},
	} {
		v, err := decimal.NewFromString(field.raw)
		if err != nil {
			return p, fmt.Errorf("failed to parse %s %q: %w", field.name, field.raw, err)
		}
		*field.dst = v
	}
	return p, nil
}

// ============================================================================
// Alert Methods
// ============================================================================

// CreateAlert persists an anomaly event as an alert. INSERT OR IGNORE on the
// (symbol, kind, observed_date) unique key provides the dedup guarantee; the
// returned bool reports whether a new row was created.
func (s *SQLiteStore) CreateAlert(ctx context.Context, event models.AnomalyEvent) (*models.Alert, bool, error) {
	alert := &models.Alert{
		ID:           uuid.NewString(),
		Symbol:       event.Symbol,
		Kind:         event.Kind,
		Severity:     event.Severity,
		ZScore:       event.ZScore,
		Message:      event.Message,
		ObservedDate: event.ObservedDate,
		CreatedAt:    time.Now().UTC(),
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO alerts (id, symbol, kind, severity, z_score, message, observed_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, alert.ID, alert.Symbol, string(alert.Kind), string(alert.Severity),
		alert.ZScore.String(), alert.Message,
		alert.ObservedDate.Format(models.DateLayout), alert.CreatedAt)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create alert: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("failed to read insert result: %w", err)
	}
	if affected > 0 {
		return alert, true, nil
	}

	// Deduplicated: return the existing alert.
	existing, err := s.getAlertByKey(ctx, event.Symbol, event.Kind, event.ObservedDate)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (s *SQLiteStore) getAlertByKey(ctx context.Context, symbol string, kind models.AnomalyKind, observed time.Time) (*models.Alert, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, symbol, kind, severity, z_score, message, observed_date, created_at
		FROM alerts WHERE symbol = ? AND kind = ? AND observed_date = ?
	`, symbol, string(kind), observed.Format(models.DateLayout))

	alert, err := scanAlert(row)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing alert: %w", err)
	}
	return alert, nil
}

// GetAlerts returns alerts matching the filter, newest first.
func (s *SQLiteStore) GetAlerts(ctx context.Context, filter AlertFilter) ([]models.Alert, error) {
	query := `SELECT id, symbol, kind, severity, z_score, message, observed_date, created_at FROM alerts WHERE 1=1`
	var args []interface{}

	if filter.Symbol != "" {
		query += ` AND symbol = ?`
		args = append(args, filter.Symbol)
	}
	if filter.Kind != "" {
		query += ` AND kind = ?`
		args = append(args, string(filter.Kind))
	}
	if !filter.Since.IsZero() {
		query += ` AND observed_date >= ?`
		args = append(args, filter.Since.Format(models.DateLayout))
	}
	query += ` ORDER BY observed_date DESC, symbol ASC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []models.Alert
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, *alert)
	}
	return alerts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAlert(row rowScanner) (*models.Alert, error) {
	var (
		a                      models.Alert
		kind, severity, zScore string
		observed               string
	)
	if err := row.Scan(&a.ID, &a.Symbol, &kind, &severity, &zScore, &a.Message, &observed, &a.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to scan alert: %w", err)
	}
	a.Kind = models.AnomalyKind(kind)
	a.Severity = models.Severity(severity)

	z, err := decimal.NewFromString(zScore)
	if err != nil {
		return nil, fmt.Errorf("failed to parse z-score %q: %w", zScore, err)
	}
	a.ZScore = z

	d, err := time.ParseInLocation(models.DateLayout, observed, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("failed to parse observed date %q: %w", observed, err)
	}
	a.ObservedDate = d

	return &a, nil
}

// ============================================================================
// Watchlist Methods
// ============================================================================

// AddToWatchlist adds a symbol to a watchlist.
func (s *SQLiteStore) AddToWatchlist(ctx context.Context, symbol, listName string) error {
	if listName == "" {
		listName = "default"
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO watchlists (symbol, list_name) VALUES (?, ?)
	`, symbol, listName)
	if err != nil {
		return fmt.Errorf("failed to add to watchlist: %w", err)
	}
	return nil
}

// RemoveFromWatchlist removes a symbol from a watchlist.
func (s *SQLiteStore) RemoveFromWatchlist(ctx context.Context, symbol, listName string) error {
	if listName == "" {
		listName = "default"
	}
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM watchlists WHERE symbol = ? AND list_name = ?
	`, symbol, listName)
	if err != nil {
		return fmt.Errorf("failed to remove from watchlist: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check removal: %w", err)
	}
	if affected == 0 {
		return apperrors.Wrapf(apperrors.ErrDataNotFound, "%s is not on watchlist %s", symbol, listName)
	}
	return nil
}

// GetWatchlist retrieves all symbols in a watchlist.
func (s *SQLiteStore) GetWatchlist(ctx context.Context, listName string) ([]string, error) {
	if listName == "" {
		listName = "default"
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT symbol FROM watchlists WHERE list_name = ? ORDER BY symbol ASC
	`, listName)
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlist: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return nil, fmt.Errorf("failed to scan watchlist symbol: %w", err)
		}
		symbols = append(symbols, sym)
	}
	return symbols, rows.Err()
}
