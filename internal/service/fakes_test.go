package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/medstock/backend-go/internal/domain"
)

// fakeLedger is an in-memory LedgerRepository with the same ordering
// semantics as the postgres implementation. Safe for concurrent use so
// tests can exercise the writer under -race.
type fakeLedger struct {
	mu     sync.Mutex
	rows   []domain.Transaction
	nextID int64
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{nextID: 1}
}

func (f *fakeLedger) ListTransactions(_ context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Transaction, 0)
	for _, tx := range f.rows {
		if filter.LocationID != 0 && tx.LocationID != filter.LocationID {
			continue
		}
		if filter.ItemID != 0 && tx.ItemID != filter.ItemID {
			continue
		}
		if !filter.DateFrom.IsZero() && tx.Date.Before(filter.DateFrom) {
			continue
		}
		if !filter.DateTo.IsZero() && tx.Date.After(filter.DateTo) {
			continue
		}
		out = append(out, tx)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeLedger) MaxTransactionDate(_ context.Context) (*time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.rows) == 0 {
		return nil, nil
	}
	max := f.rows[0].Date
	for _, tx := range f.rows[1:] {
		if tx.Date.After(max) {
			max = tx.Date
		}
	}
	return &max, nil
}

func (f *fakeLedger) LatestBefore(_ context.Context, locationID, itemID int64, date time.Time) (*domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var best *domain.Transaction
	for i := range f.rows {
		tx := f.rows[i]
		if tx.LocationID != locationID || tx.ItemID != itemID || !tx.Date.Before(date) {
			continue
		}
		if best == nil || tx.Date.After(best.Date) || (tx.Date.Equal(best.Date) && tx.ID > best.ID) {
			best = &f.rows[i]
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

func (f *fakeLedger) LatestForPair(_ context.Context, locationID, itemID int64) (*domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var best *domain.Transaction
	for i := range f.rows {
		tx := f.rows[i]
		if tx.LocationID != locationID || tx.ItemID != itemID {
			continue
		}
		if best == nil || tx.Date.After(best.Date) || (tx.Date.Equal(best.Date) && tx.ID > best.ID) {
			best = &f.rows[i]
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

func (f *fakeLedger) Insert(_ context.Context, tx *domain.Transaction) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *tx
	stored.ID = f.nextID
	f.nextID++
	f.rows = append(f.rows, stored)
	return stored.ID, nil
}

func (f *fakeLedger) CountTransactions(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows), nil
}

func (f *fakeLedger) DateRange(_ context.Context) (*time.Time, *time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.rows) == 0 {
		return nil, nil, nil
	}
	min, max := f.rows[0].Date, f.rows[0].Date
	for _, tx := range f.rows[1:] {
		if tx.Date.Before(min) {
			min = tx.Date
		}
		if tx.Date.After(max) {
			max = tx.Date
		}
	}
	return &min, &max, nil
}

func (f *fakeLedger) DailyIssued(_ context.Context, from, to time.Time, _, _ string) ([]domain.TrendPoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	byDay := make(map[time.Time]int)
	for _, tx := range f.rows {
		if tx.Date.Before(from) || tx.Date.After(to) {
			continue
		}
		byDay[tx.Date] += tx.Issued
	}
	points := make([]domain.TrendPoint, 0, len(byDay))
	for d, issued := range byDay {
		points = append(points, domain.TrendPoint{Date: d, Issued: issued})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points, nil
}

func (f *fakeLedger) DeleteAll(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := int64(len(f.rows))
	f.rows = nil
	return n, nil
}

// fakeCatalog is an in-memory CatalogRepository.
type fakeCatalog struct {
	locations []domain.Location
	items     []domain.Item
	nextID    int64
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{nextID: 1}
}

func (f *fakeCatalog) addLocation(loc domain.Location) domain.Location {
	loc.ID = f.nextID
	f.nextID++
	f.locations = append(f.locations, loc)
	return loc
}

func (f *fakeCatalog) addItem(item domain.Item) domain.Item {
	item.ID = f.nextID
	f.nextID++
	f.items = append(f.items, item)
	return item
}

func (f *fakeCatalog) ListLocations(_ context.Context) ([]domain.Location, error) {
	return append([]domain.Location(nil), f.locations...), nil
}

func (f *fakeCatalog) ListItems(_ context.Context) ([]domain.Item, error) {
	return append([]domain.Item(nil), f.items...), nil
}

func (f *fakeCatalog) GetLocation(_ context.Context, id int64) (*domain.Location, error) {
	for i := range f.locations {
		if f.locations[i].ID == id {
			cp := f.locations[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalog) GetItem(_ context.Context, id int64) (*domain.Item, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			cp := f.items[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalog) GetLocationByName(_ context.Context, name string) (*domain.Location, error) {
	for i := range f.locations {
		if strings.EqualFold(f.locations[i].Name, name) {
			cp := f.locations[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalog) GetItemByName(_ context.Context, name string) (*domain.Item, error) {
	for i := range f.items {
		if strings.EqualFold(f.items[i].Name, name) {
			cp := f.items[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalog) CreateLocation(_ context.Context, loc *domain.Location) (int64, error) {
	stored := f.addLocation(*loc)
	return stored.ID, nil
}

func (f *fakeCatalog) CreateItem(_ context.Context, item *domain.Item) (int64, error) {
	stored := f.addItem(*item)
	return stored.ID, nil
}

func (f *fakeCatalog) CountLocations(_ context.Context) (int, error) {
	return len(f.locations), nil
}

func (f *fakeCatalog) CountItems(_ context.Context) (int, error) {
	return len(f.items), nil
}

func (f *fakeCatalog) DeleteAllLocations(_ context.Context) (int64, error) {
	n := int64(len(f.locations))
	f.locations = nil
	return n, nil
}

func (f *fakeCatalog) DeleteAllItems(_ context.Context) (int64, error) {
	n := int64(len(f.items))
	f.items = nil
	return n, nil
}
