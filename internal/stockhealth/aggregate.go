package stockhealth

import (
	"sort"

	"github.com/medstock/backend-go/internal/domain"
)

// BuildHeatmap reduces a health-record set to sorted unique name axes and a
// status matrix. A cell with no record is UNKNOWN — "no data for this cell"
// stays distinguishable from every computed status.
func BuildHeatmap(records []domain.StockHealthRecord) Heatmap {
	locationSet := make(map[string]struct{})
	itemSet := make(map[string]struct{})
	lookup := make(map[[2]string]domain.HealthStatus, len(records))

	for _, r := range records {
		locationSet[r.LocationName] = struct{}{}
		itemSet[r.ItemName] = struct{}{}
		lookup[[2]string{r.LocationName, r.ItemName}] = r.HealthStatus
	}

	locations := sortedKeys(locationSet)
	items := sortedKeys(itemSet)

	matrix := make([][]domain.HealthStatus, len(items))
	for i, itemName := range items {
		row := make([]domain.HealthStatus, len(locations))
		for j, locationName := range locations {
			if status, ok := lookup[[2]string{locationName, itemName}]; ok {
				row[j] = status
			} else {
				row[j] = domain.StatusUnknown
			}
		}
		matrix[i] = row
	}

	if records == nil {
		records = []domain.StockHealthRecord{}
	}
	return Heatmap{
		Locations: locations,
		Items:     items,
		Matrix:    matrix,
		Details:   records,
	}
}

// Summarize partitions health counts by status, category, and distinct
// location/item ids. Totals count records, not catalog entries.
func Summarize(records []domain.StockHealthRecord) Summary {
	var s Summary
	s.Categories = make(map[string]*CategoryBreakdown)

	locationIDs := make(map[int64]struct{})
	itemIDs := make(map[int64]struct{})

	for _, r := range records {
		locationIDs[r.LocationID] = struct{}{}
		itemIDs[r.ItemID] = struct{}{}

		cat, ok := s.Categories[r.Category]
		if !ok {
			cat = &CategoryBreakdown{}
			s.Categories[r.Category] = cat
		}
		cat.Total++

		switch r.HealthStatus {
		case domain.StatusCritical:
			s.HealthSummary.Critical++
			cat.Critical++
		case domain.StatusWarning:
			s.HealthSummary.Warning++
			cat.Warning++
		case domain.StatusHealthy:
			s.HealthSummary.Healthy++
			cat.Healthy++
		}
	}

	s.Overview.DistinctLocations = len(locationIDs)
	s.Overview.DistinctItems = len(itemIDs)
	s.Overview.TotalRecords = len(records)
	return s
}

// LowStockFeed selects records below their configured floor, most severely
// short first. min_stock of 0 is treated as ratio 1: never a division error
// and never prioritized.
func (c *Calculator) LowStockFeed(records []domain.StockHealthRecord) []LowStockEntry {
	entries := make([]LowStockEntry, 0)
	for _, r := range records {
		if r.CurrentStock >= r.MinStock {
			continue
		}
		ratio := 1.0
		if r.MinStock > 0 {
			ratio = float64(r.CurrentStock) / float64(r.MinStock)
		}
		entries = append(entries, LowStockEntry{Record: r, Ratio: ratio})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Ratio < entries[j].Ratio
	})

	if len(entries) > c.cfg.LowStockChartCap {
		entries = entries[:c.cfg.LowStockChartCap]
	}
	return entries
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
