// internal/repository/repository.go
package repository

import (
	"context"
	"time"

	"github.com/medstock/backend-go/internal/domain"
)

// LedgerRepository is the read/append surface over the transaction ledger.
// The ledger is append-only: no update or per-row delete exists, only the
// bulk wipe used by the reset operation.
type LedgerRepository interface {
	// ListTransactions returns transactions matching the filter, ordered by
	// (date, id) ascending.
	ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error)

	// MaxTransactionDate returns the ledger's most recent transaction date,
	// or nil when the ledger is empty.
	MaxTransactionDate(ctx context.Context) (*time.Time, error)

	// LatestBefore returns the most recent transaction for the pair dated
	// strictly before the given date, or nil when none exists. Same-date
	// rows break ties by highest id.
	LatestBefore(ctx context.Context, locationID, itemID int64, date time.Time) (*domain.Transaction, error)

	// LatestForPair returns the pair's most recent transaction overall,
	// or nil when the pair has no history.
	LatestForPair(ctx context.Context, locationID, itemID int64) (*domain.Transaction, error)

	// Insert appends a transaction and returns its assigned id.
	Insert(ctx context.Context, tx *domain.Transaction) (int64, error)

	// CountTransactions returns the total number of ledger rows.
	CountTransactions(ctx context.Context) (int, error)

	// DateRange returns the min and max transaction dates, nil/nil when empty.
	DateRange(ctx context.Context) (*time.Time, *time.Time, error)

	// DailyIssued aggregates total issued per day over [from, to], optionally
	// narrowed by case-insensitive substring matches on item/location names.
	DailyIssued(ctx context.Context, from, to time.Time, itemFilter, locationFilter string) ([]domain.TrendPoint, error)

	// DeleteAll wipes the ledger and returns the number of deleted rows.
	DeleteAll(ctx context.Context) (int64, error)
}

// CatalogRepository manages the location and item reference tables.
type CatalogRepository interface {
	ListLocations(ctx context.Context) ([]domain.Location, error)
	ListItems(ctx context.Context) ([]domain.Item, error)

	GetLocation(ctx context.Context, id int64) (*domain.Location, error)
	GetItem(ctx context.Context, id int64) (*domain.Item, error)

	// Name lookups are exact-match and used to enforce uniqueness on create.
	GetLocationByName(ctx context.Context, name string) (*domain.Location, error)
	GetItemByName(ctx context.Context, name string) (*domain.Item, error)

	CreateLocation(ctx context.Context, loc *domain.Location) (int64, error)
	CreateItem(ctx context.Context, item *domain.Item) (int64, error)

	CountLocations(ctx context.Context) (int, error)
	CountItems(ctx context.Context) (int, error)

	DeleteAllLocations(ctx context.Context) (int64, error)
	DeleteAllItems(ctx context.Context) (int64, error)
}
