package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/medstock/backend-go/internal/domain"
	"github.com/medstock/backend-go/internal/metrics"
	"github.com/medstock/backend-go/internal/repository"
	"github.com/rs/zerolog/log"
)

const defaultEnteredBy = "staff"

// InventoryService owns ledger writes and the location/item catalog.
type InventoryService struct {
	ledger  repository.LedgerRepository
	catalog repository.CatalogRepository
	locks   *pairLocks
}

func NewInventoryService(ledger repository.LedgerRepository, catalog repository.CatalogRepository) *InventoryService {
	return &InventoryService{
		ledger:  ledger,
		catalog: catalog,
		locks:   newPairLocks(),
	}
}

// AppendTransaction validates and appends one ledger entry. The opening
// stock chains off the most recent prior transaction for the pair; a pair
// with no history starts from the item's minimum-stock threshold. A negative
// closing stock rejects the whole entry with no write.
func (s *InventoryService) AppendTransaction(
	ctx context.Context,
	locationID, itemID int64,
	date time.Time,
	received, issued int,
	notes, enteredBy string,
) (*domain.AppendResult, error) {
	if received < 0 {
		return nil, domain.Validationf("received must be >= 0, got %d", received)
	}
	if issued < 0 {
		return nil, domain.Validationf("issued must be >= 0, got %d", issued)
	}
	if date.IsZero() {
		return nil, domain.Validationf("transaction date is required")
	}

	location, err := s.catalog.GetLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, &domain.NotFoundError{Entity: "location", ID: locationID}
	}

	item, err := s.catalog.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, &domain.NotFoundError{Entity: "item", ID: itemID}
	}

	// Serialize the read-prior/write step per pair so concurrent appends
	// cannot chain off the same predecessor.
	unlock := s.locks.acquire(locationID, itemID)
	defer unlock()

	prior, err := s.ledger.LatestBefore(ctx, locationID, itemID, date)
	if err != nil {
		return nil, err
	}

	openingStock := item.MinStock
	if prior != nil {
		openingStock = prior.ClosingStock
	}

	closingStock := openingStock + received - issued
	if closingStock < 0 {
		metrics.TransactionsRejected.Inc()
		return nil, domain.Validationf(
			"invalid transaction: closing stock cannot be negative (would be %d)", closingStock)
	}

	tx := &domain.Transaction{
		LocationID:   locationID,
		ItemID:       itemID,
		Date:         date,
		OpeningStock: openingStock,
		Received:     received,
		Issued:       issued,
		ClosingStock: closingStock,
		Notes:        nullString(notes),
		EnteredBy:    orDefault(enteredBy, defaultEnteredBy),
	}

	id, err := s.ledger.Insert(ctx, tx)
	if err != nil {
		return nil, err
	}
	metrics.TransactionsAppended.Inc()

	return &domain.AppendResult{
		TransactionID: id,
		LocationID:    locationID,
		ItemID:        itemID,
		Date:          date,
		OpeningStock:  openingStock,
		Received:      received,
		Issued:        issued,
		ClosingStock:  closingStock,
	}, nil
}

// AppendBatch applies the single-transaction logic per item independently.
// The batch is not a database transaction: one bad line never rolls back the
// others, and the report lists every outcome.
func (s *InventoryService) AppendBatch(
	ctx context.Context,
	locationID int64,
	date time.Time,
	items []domain.BatchItem,
	enteredBy string,
) (*domain.BatchReport, error) {
	location, err := s.catalog.GetLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, &domain.NotFoundError{Entity: "location", ID: locationID}
	}

	report := &domain.BatchReport{
		Successes: []domain.AppendResult{},
		Failures:  []domain.BatchFailure{},
	}

	for _, line := range items {
		result, err := s.AppendTransaction(ctx, locationID, line.ItemID, date,
			line.Received, line.Issued, line.Notes, enteredBy)
		if err != nil {
			report.Failures = append(report.Failures, domain.BatchFailure{
				ItemID: line.ItemID,
				Error:  err.Error(),
			})
			continue
		}
		report.Successes = append(report.Successes, *result)
	}

	return report, nil
}

// CreateLocation adds a catalog location. Names are unique; type is
// case-normalized.
func (s *InventoryService) CreateLocation(ctx context.Context, name, locType, region, address string) (*domain.Location, error) {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return nil, domain.Validationf("location name must be at least 2 characters")
	}
	locType = strings.ToLower(strings.TrimSpace(locType))
	if locType == "" {
		return nil, domain.Validationf("location type is required")
	}
	region = strings.TrimSpace(region)
	if region == "" {
		return nil, domain.Validationf("location region is required")
	}

	existing, err := s.catalog.GetLocationByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Validationf("location with name %q already exists", name)
	}

	loc := &domain.Location{
		Name:    name,
		Type:    locType,
		Region:  region,
		Address: nullString(strings.TrimSpace(address)),
	}
	id, err := s.catalog.CreateLocation(ctx, loc)
	if err != nil {
		return nil, err
	}
	loc.ID = id
	return loc, nil
}

// CreateItem adds a catalog item. Category and unit are case-normalized;
// min_stock doubles as the cold-start opening stock for new pairs.
func (s *InventoryService) CreateItem(ctx context.Context, name, category, unit string, leadTimeDays, minStock int) (*domain.Item, error) {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return nil, domain.Validationf("item name must be at least 2 characters")
	}
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		return nil, domain.Validationf("item category is required")
	}
	unit = strings.ToLower(strings.TrimSpace(unit))
	if unit == "" {
		return nil, domain.Validationf("item unit is required")
	}
	if leadTimeDays < 1 || leadTimeDays > 365 {
		return nil, domain.Validationf("lead_time_days must be between 1 and 365, got %d", leadTimeDays)
	}
	if minStock < 0 {
		return nil, domain.Validationf("min_stock must be >= 0, got %d", minStock)
	}

	existing, err := s.catalog.GetItemByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Validationf("item with name %q already exists", name)
	}

	item := &domain.Item{
		Name:         name,
		Category:     category,
		Unit:         unit,
		LeadTimeDays: leadTimeDays,
		MinStock:     minStock,
	}
	id, err := s.catalog.CreateItem(ctx, item)
	if err != nil {
		return nil, err
	}
	item.ID = id
	return item, nil
}

func (s *InventoryService) ListLocations(ctx context.Context) ([]domain.Location, error) {
	return s.catalog.ListLocations(ctx)
}

func (s *InventoryService) ListItems(ctx context.Context) ([]domain.Item, error) {
	return s.catalog.ListItems(ctx)
}

// LocationStock is one row of the per-location stock listing.
type LocationStock struct {
	ItemID       int64  `json:"item_id"`
	ItemName     string `json:"item_name"`
	Category     string `json:"category"`
	Unit         string `json:"unit"`
	CurrentStock int    `json:"current_stock"`
}

// LocationItems lists every configured item with its latest closing stock at
// the location; items with no history report zero.
func (s *InventoryService) LocationItems(ctx context.Context, locationID int64) (*domain.Location, []LocationStock, error) {
	location, err := s.catalog.GetLocation(ctx, locationID)
	if err != nil {
		return nil, nil, err
	}
	if location == nil {
		return nil, nil, &domain.NotFoundError{Entity: "location", ID: locationID}
	}

	items, err := s.catalog.ListItems(ctx)
	if err != nil {
		return nil, nil, err
	}

	result := make([]LocationStock, 0, len(items))
	for _, item := range items {
		stock := 0
		latest, err := s.ledger.LatestForPair(ctx, locationID, item.ID)
		if err != nil {
			return nil, nil, err
		}
		if latest != nil {
			stock = latest.ClosingStock
		}
		result = append(result, LocationStock{
			ItemID:       item.ID,
			ItemName:     item.Name,
			Category:     item.Category,
			Unit:         item.Unit,
			CurrentStock: stock,
		})
	}
	return location, result, nil
}

// CurrentStock returns the latest closing stock for a pair, or nil when the
// pair has no transaction history. "No history" is data, not an error.
func (s *InventoryService) CurrentStock(ctx context.Context, locationID, itemID int64) (*int, error) {
	latest, err := s.ledger.LatestForPair(ctx, locationID, itemID)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return nil, nil
	}
	stock := latest.ClosingStock
	return &stock, nil
}

// ResetReport lists what a bulk reset deleted.
type ResetReport struct {
	DeletedTransactions int64 `json:"deleted_transactions"`
	DeletedItems        int64 `json:"deleted_items"`
	DeletedLocations    int64 `json:"deleted_locations"`
}

// ResetAll wipes the ledger and the catalog. The only supported deletion,
// and it must be explicitly confirmed.
func (s *InventoryService) ResetAll(ctx context.Context, confirm bool) (*ResetReport, error) {
	if !confirm {
		return nil, domain.Validationf("set confirm=true to reset all inventory data")
	}

	deletedTx, err := s.ledger.DeleteAll(ctx)
	if err != nil {
		return nil, err
	}
	deletedItems, err := s.catalog.DeleteAllItems(ctx)
	if err != nil {
		return nil, err
	}
	deletedLocations, err := s.catalog.DeleteAllLocations(ctx)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int64("transactions", deletedTx).
		Int64("items", deletedItems).
		Int64("locations", deletedLocations).
		Msg("inventory data reset")

	return &ResetReport{
		DeletedTransactions: deletedTx,
		DeletedItems:        deletedItems,
		DeletedLocations:    deletedLocations,
	}, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
