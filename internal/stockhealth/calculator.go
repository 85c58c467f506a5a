package stockhealth

import (
	"sort"
	"time"

	"github.com/medstock/backend-go/internal/domain"
)

// Calculator derives health records from ledger snapshots. It holds no
// mutable state; the same inputs always produce the same output.
type Calculator struct {
	cfg Config
}

// NewCalculator creates a calculator. Zero fields in cfg fall back to the
// defaults from DefaultConfig.
func NewCalculator(cfg Config) *Calculator {
	def := DefaultConfig()
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = def.WindowDays
	}
	if cfg.CriticalBelow <= 0 {
		cfg.CriticalBelow = def.CriticalBelow
	}
	if cfg.WarningThrough <= 0 {
		cfg.WarningThrough = def.WarningThrough
	}
	if cfg.SafetyFactor <= 0 {
		cfg.SafetyFactor = def.SafetyFactor
	}
	if cfg.AlertCap <= 0 {
		cfg.AlertCap = def.AlertCap
	}
	if cfg.ReorderCap <= 0 {
		cfg.ReorderCap = def.ReorderCap
	}
	if cfg.StockHealthCap <= 0 {
		cfg.StockHealthCap = def.StockHealthCap
	}
	if cfg.LowStockChartCap <= 0 {
		cfg.LowStockChartCap = def.LowStockChartCap
	}
	return &Calculator{cfg: cfg}
}

// Config returns the effective configuration.
func (c *Calculator) Config() Config { return c.cfg }

type pairKey struct {
	locationID int64
	itemID     int64
}

// Compute classifies every (location, item) pair with a transaction on the
// ledger's most recent transaction date. An empty ledger yields an empty
// result, not an error. Pairs without a reference-date transaction do not
// appear at all; the heatmap synthesizes UNKNOWN for those cells.
func (c *Calculator) Compute(
	transactions []domain.Transaction,
	locations map[int64]domain.Location,
	items map[int64]domain.Item,
) []domain.StockHealthRecord {
	if len(transactions) == 0 {
		return []domain.StockHealthRecord{}
	}

	referenceDate := maxDate(transactions)
	windowStart := referenceDate.AddDate(0, 0, -c.cfg.WindowDays)

	// current_stock = closing stock of the latest reference-date row per pair.
	// Same-day corrections are permitted, so the highest-id row wins.
	current := make(map[pairKey]domain.Transaction)
	usageSum := make(map[pairKey]float64)
	usageCount := make(map[pairKey]int)

	for _, tx := range transactions {
		key := pairKey{tx.LocationID, tx.ItemID}

		if sameDay(tx.Date, referenceDate) {
			if prev, ok := current[key]; !ok || tx.ID > prev.ID {
				current[key] = tx
			}
		}

		if !tx.Date.Before(windowStart) && !tx.Date.After(referenceDate) {
			usageSum[key] += float64(tx.Issued)
			usageCount[key]++
		}
	}

	records := make([]domain.StockHealthRecord, 0, len(current))
	for key, tx := range current {
		loc, ok := locations[key.locationID]
		if !ok {
			continue
		}
		item, ok := items[key.itemID]
		if !ok {
			continue
		}

		var avgUsage *float64
		if n := usageCount[key]; n > 0 {
			v := usageSum[key] / float64(n)
			avgUsage = &v
		}

		days := DaysRemaining(tx.ClosingStock, avgUsage)

		records = append(records, domain.StockHealthRecord{
			LocationID:    loc.ID,
			LocationName:  loc.Name,
			LocationType:  loc.Type,
			ItemID:        item.ID,
			ItemName:      item.Name,
			Category:      item.Category,
			Unit:          item.Unit,
			LeadTimeDays:  item.LeadTimeDays,
			MinStock:      item.MinStock,
			CurrentStock:  tx.ClosingStock,
			AvgDailyUsage: avgUsage,
			DaysRemaining: days,
			HealthStatus:  c.Classify(days),
			LastUpdated:   tx.Date,
		})
	}

	// Map iteration order is random; keep output deterministic for callers
	// and for the idempotence guarantee.
	sort.Slice(records, func(i, j int) bool {
		if records[i].LocationID != records[j].LocationID {
			return records[i].LocationID < records[j].LocationID
		}
		return records[i].ItemID < records[j].ItemID
	})

	return records
}

// DaysRemaining estimates supply coverage. Usage that is absent or
// non-positive maps to the sentinel; otherwise the value is fractional,
// never floored.
func DaysRemaining(currentStock int, avgDailyUsage *float64) float64 {
	if avgDailyUsage == nil || *avgDailyUsage <= 0 {
		return DaysRemainingSentinel
	}
	return float64(currentStock) / *avgDailyUsage
}

// Classify maps days_remaining onto a health status. Both boundary values
// belong to WARNING; the sentinel classifies HEALTHY.
func (c *Calculator) Classify(daysRemaining float64) domain.HealthStatus {
	switch {
	case daysRemaining < c.cfg.CriticalBelow:
		return domain.StatusCritical
	case daysRemaining <= c.cfg.WarningThrough:
		return domain.StatusWarning
	default:
		return domain.StatusHealthy
	}
}

func maxDate(transactions []domain.Transaction) time.Time {
	max := transactions[0].Date
	for _, tx := range transactions[1:] {
		if tx.Date.After(max) {
			max = tx.Date
		}
	}
	return max
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
