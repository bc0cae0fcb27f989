package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "stockwatch/internal/errors"
	"stockwatch/internal/models"
)

// MemoryStore is an in-memory DataStore. It backs tests and dry runs the way
// the production store backs the service, including alert deduplication.
type MemoryStore struct {
	mu         sync.RWMutex
	prices     map[string][]models.PricePoint
	alerts     []models.Alert
	alertKeys  map[string]int // symbol|kind|date -> index into alerts
	watchlists map[string][]string
}

// NewMemoryStore creates a new in-memory data store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		prices:     make(map[string][]models.PricePoint),
		alertKeys:  make(map[string]int),
		watchlists: make(map[string][]string),
	}
}

// SavePrices upserts price points for a symbol.
func (m *MemoryStore) SavePrices(ctx context.Context, symbol string, points []models.PricePoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	byDate := make(map[string]models.PricePoint, len(m.prices[symbol])+len(points))
	for _, p := range m.prices[symbol] {
		byDate[p.Date.Format(models.DateLayout)] = p
	}
	for _, p := range points {
		if err := p.Validate(); err != nil {
			return err
		}
		byDate[p.Date.Format(models.DateLayout)] = p
	}

	merged := make([]models.PricePoint, 0, len(byDate))
	for _, p := range byDate {
		merged = append(merged, p)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Date.Before(merged[j].Date) })
	m.prices[symbol] = merged
	return nil
}

// GetPrices returns price points for symbol within [from, to], ascending.
func (m *MemoryStore) GetPrices(ctx context.Context, symbol string, from, to time.Time) ([]models.PricePoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.PricePoint
	for _, p := range m.prices[symbol] {
		if !from.IsZero() && p.Date.Before(from) {
			continue
		}
		if !to.IsZero() && p.Date.After(to) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// GetLatest returns the most recent n price points for symbol, ascending.
func (m *MemoryStore) GetLatest(ctx context.Context, symbol string, n int) ([]models.PricePoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pts := m.prices[symbol]
	if len(pts) > n {
		pts = pts[len(pts)-n:]
	}
	out := make([]models.PricePoint, len(pts))
	copy(out, pts)
	return out, nil
}

// ListSymbols returns every symbol with at least one price point.
func (m *MemoryStore) ListSymbols(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	symbols := make([]string, 0, len(m.prices))
	for sym := range m.prices {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)
	return symbols, nil
}

// CreateAlert persists an anomaly event, deduplicating per symbol/kind/day.
func (m *MemoryStore) CreateAlert(ctx context.Context, event models.AnomalyEvent) (*models.Alert, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := event.Symbol + "|" + string(event.Kind) + "|" + event.ObservedDate.Format(models.DateLayout)
	if idx, ok := m.alertKeys[key]; ok {
		existing := m.alerts[idx]
		return &existing, false, nil
	}

	alert := models.Alert{
		ID:           uuid.NewString(),
		Symbol:       event.Symbol,
		Kind:         event.Kind,
		Severity:     event.Severity,
		ZScore:       event.ZScore,
		Message:      event.Message,
		ObservedDate: event.ObservedDate,
		CreatedAt:    time.Now().UTC(),
	}
	m.alertKeys[key] = len(m.alerts)
	m.alerts = append(m.alerts, alert)
	return &alert, true, nil
}

// GetAlerts returns alerts matching the filter, newest first.
func (m *MemoryStore) GetAlerts(ctx context.Context, filter AlertFilter) ([]models.Alert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Alert
	for _, a := range m.alerts {
		if filter.Symbol != "" && a.Symbol != filter.Symbol {
			continue
		}
		if filter.Kind != "" && a.Kind != filter.Kind {
			continue
		}
		if !filter.Since.IsZero() && a.ObservedDate.Before(filter.Since) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ObservedDate.Equal(out[j].ObservedDate) {
			return out[i].ObservedDate.After(out[j].ObservedDate)
		}
		return out[i].Symbol < out[j].Symbol
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// AddToWatchlist adds a symbol to a watchlist.
func (m *MemoryStore) AddToWatchlist(ctx context.Context, symbol, listName string) error {
	if listName == "" {
		listName = "default"
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.watchlists[listName] {
		if s == symbol {
			return nil
		}
	}
	m.watchlists[listName] = append(m.watchlists[listName], symbol)
	sort.Strings(m.watchlists[listName])
	return nil
}

// RemoveFromWatchlist removes a symbol from a watchlist.
func (m *MemoryStore) RemoveFromWatchlist(ctx context.Context, symbol, listName string) error {
	if listName == "" {
		listName = "default"
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.watchlists[listName]
	for i, s := range list {
		if s == symbol {
			m.watchlists[listName] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return apperrors.Wrapf(apperrors.ErrDataNotFound, "%s is not on watchlist %s", symbol, listName)
}

// GetWatchlist retrieves all symbols in a watchlist.
func (m *MemoryStore) GetWatchlist(ctx context.Context, listName string) ([]string, error) {
	if listName == "" {
		listName = "default"
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, len(m.watchlists[listName]))
	copy(out, m.watchlists[listName])
	return out, nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}
