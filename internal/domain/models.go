// internal/domain/models.go
package domain

import (
	"database/sql"
	"time"
)

// Location represents a facility that holds stock (hospital, clinic, warehouse).
type Location struct {
	ID        int64          `json:"id" db:"id"`
	Name      string         `json:"name" db:"name"`
	Type      string         `json:"type" db:"type"`
	Region    string         `json:"region" db:"region"`
	Address   sql.NullString `json:"address,omitempty" db:"address"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}

// Item represents a stocked product (medicine, consumable).
type Item struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Category     string    `json:"category" db:"category"`
	Unit         string    `json:"unit" db:"unit"`
	LeadTimeDays int       `json:"lead_time_days" db:"lead_time_days"`
	MinStock     int       `json:"min_stock" db:"min_stock"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Transaction is one append-only daily stock movement for a (location, item) pair.
// closing_stock = opening_stock + received - issued, and is never negative.
type Transaction struct {
	ID           int64          `json:"id" db:"id"`
	LocationID   int64          `json:"location_id" db:"location_id"`
	ItemID       int64          `json:"item_id" db:"item_id"`
	Date         time.Time      `json:"date" db:"date"`
	OpeningStock int            `json:"opening_stock" db:"opening_stock"`
	Received     int            `json:"received" db:"received"`
	Issued       int            `json:"issued" db:"issued"`
	ClosingStock int            `json:"closing_stock" db:"closing_stock"`
	Notes        sql.NullString `json:"notes,omitempty" db:"notes"`
	EnteredBy    string         `json:"entered_by" db:"entered_by"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
}

// StockHealthRecord is the derived per-(location, item) classification for the
// ledger's most recent transaction date. Never persisted; recomputed on demand.
type StockHealthRecord struct {
	LocationID    int64        `json:"location_id"`
	LocationName  string       `json:"location_name"`
	LocationType  string       `json:"location_type"`
	ItemID        int64        `json:"item_id"`
	ItemName      string       `json:"item_name"`
	Category      string       `json:"category"`
	Unit          string       `json:"unit"`
	LeadTimeDays  int          `json:"lead_time_days"`
	MinStock      int          `json:"min_stock"`
	CurrentStock  int          `json:"current_stock"`
	AvgDailyUsage *float64     `json:"avg_daily_usage"`
	DaysRemaining float64      `json:"days_remaining"`
	HealthStatus  HealthStatus `json:"health_status"`
	LastUpdated   time.Time    `json:"last_updated"`
}

// TransactionFilter narrows ledger reads. Zero values mean "no filter".
type TransactionFilter struct {
	LocationID int64
	ItemID     int64
	DateFrom   time.Time
	DateTo     time.Time
}

// AppendResult reports the computed chain values for a persisted transaction.
type AppendResult struct {
	TransactionID int64     `json:"transaction_id"`
	LocationID    int64     `json:"location_id"`
	ItemID        int64     `json:"item_id"`
	Date          time.Time `json:"date"`
	OpeningStock  int       `json:"opening_stock"`
	Received      int       `json:"received"`
	Issued        int       `json:"issued"`
	ClosingStock  int       `json:"closing_stock"`
}

// BatchItem is one line of a batch entry request.
type BatchItem struct {
	ItemID   int64  `json:"item_id"`
	Received int    `json:"received"`
	Issued   int    `json:"issued"`
	Notes    string `json:"notes,omitempty"`
}

// BatchFailure pairs a failed batch line with the reason it was rejected.
type BatchFailure struct {
	ItemID int64  `json:"item_id"`
	Error  string `json:"error"`
}

// BatchReport is the partial-success outcome of a batch append. The batch is a
// convenience loop, not a database transaction: successes stand even when other
// lines fail.
type BatchReport struct {
	Successes []AppendResult `json:"successes"`
	Failures  []BatchFailure `json:"failures"`
}

// LedgerOverview summarizes configured data and transaction coverage.
type LedgerOverview struct {
	Locations     int        `json:"locations"`
	Items         int        `json:"items"`
	Transactions  int        `json:"transactions"`
	FirstDate     *time.Time `json:"transaction_start_date"`
	LastDate      *time.Time `json:"transaction_end_date"`
	HasData       bool       `json:"has_data"`
}

// TrendPoint is one day of aggregated issued quantity.
type TrendPoint struct {
	Date   time.Time `json:"date" db:"date"`
	Issued int       `json:"issued" db:"issued"`
}

// ConsumptionTrend is the trailing daily-usage series for the trends tool.
type ConsumptionTrend struct {
	StartDate       time.Time    `json:"start_date"`
	EndDate         time.Time    `json:"end_date"`
	DaysRequested   int          `json:"days_requested"`
	Points          []TrendPoint `json:"points"`
	TotalIssued     int          `json:"total_issued"`
	AvgDailyIssued  float64      `json:"avg_daily_issued"`
	PeakDailyIssued int          `json:"peak_daily_issued"`
}
