// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"stockwatch/internal/models"
)

// TimeSeriesRepository supplies ordered daily price records per stock.
// Detection and simulation engines only require read access; each call
// returns an immutable snapshot ordered by date ascending.
type TimeSeriesRepository interface {
	// GetPrices returns price points for symbol within [from, to]. A zero
	// from or to leaves that side of the range open.
	GetPrices(ctx context.Context, symbol string, from, to time.Time) ([]models.PricePoint, error)
	// GetLatest returns the most recent n price points for symbol, ordered
	// by date ascending. Fewer than n points may be returned.
	GetLatest(ctx context.Context, symbol string, n int) ([]models.PricePoint, error)
}

// AlertStore persists anomaly events as alerts, deduplicating on
// (symbol, kind, observed date).
type AlertStore interface {
	// CreateAlert persists an anomaly event. The returned bool is false when
	// an equivalent alert already existed and no new row was created.
	CreateAlert(ctx context.Context, event models.AnomalyEvent) (*models.Alert, bool, error)
	// GetAlerts returns alerts matching the filter, newest first.
	GetAlerts(ctx context.Context, filter AlertFilter) ([]models.Alert, error)
}

// WatchlistStore manages named lists of tracked symbols.
type WatchlistStore interface {
	AddToWatchlist(ctx context.Context, symbol, listName string) error
	RemoveFromWatchlist(ctx context.Context, symbol, listName string) error
	GetWatchlist(ctx context.Context, listName string) ([]string, error)
}

// DataStore is the combined persistence interface.
type DataStore interface {
	TimeSeriesRepository
	AlertStore
	WatchlistStore

	// SavePrices upserts price points for a symbol (ingestion path).
	SavePrices(ctx context.Context, symbol string, points []models.PricePoint) error
	// ListSymbols returns every symbol with at least one price point.
	ListSymbols(ctx context.Context) ([]string, error)

	Close() error
}

// AlertFilter represents filters for querying alerts.
type AlertFilter struct {
	Symbol string
	Kind   models.AnomalyKind
	Since  time.Time
	Limit  int
}
