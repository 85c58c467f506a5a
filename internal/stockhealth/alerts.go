package stockhealth

import (
	"sort"
	"strings"

	"github.com/medstock/backend-go/internal/domain"
)

// FilterAlerts selects records matching the requested severity and orders
// them by urgency. Only CRITICAL and WARNING are accepted; anything else is
// a validation error so misspelled severities never silently return nothing.
//
// Ordering substitutes 0 for the 999 sentinel: a pair that holds stock but
// shows no measurable consumption ranks as most urgent, not least. Purchase
// order generation downstream depends on this ordering.
func (c *Calculator) FilterAlerts(
	records []domain.StockHealthRecord,
	severity domain.HealthStatus,
	locationFilter string,
) ([]domain.StockHealthRecord, error) {
	if severity != domain.StatusCritical && severity != domain.StatusWarning {
		return nil, domain.Validationf("severity must be CRITICAL or WARNING, got %q", severity)
	}

	matched := make([]domain.StockHealthRecord, 0)
	needle := strings.ToLower(strings.TrimSpace(locationFilter))
	for _, r := range records {
		if r.HealthStatus != severity {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(r.LocationName), needle) {
			continue
		}
		matched = append(matched, r)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return alertSortKey(matched[i]) < alertSortKey(matched[j])
	})

	if len(matched) > c.cfg.AlertCap {
		matched = matched[:c.cfg.AlertCap]
	}
	return matched, nil
}

func alertSortKey(r domain.StockHealthRecord) float64 {
	if r.DaysRemaining == DaysRemainingSentinel {
		return 0
	}
	return r.DaysRemaining
}

// FilterRecords applies optional case-insensitive substring filters on item
// and location names and caps the result for conversational consumers.
func (c *Calculator) FilterRecords(
	records []domain.StockHealthRecord,
	itemFilter, locationFilter string,
) []domain.StockHealthRecord {
	itemNeedle := strings.ToLower(strings.TrimSpace(itemFilter))
	locNeedle := strings.ToLower(strings.TrimSpace(locationFilter))

	matched := make([]domain.StockHealthRecord, 0)
	for _, r := range records {
		if itemNeedle != "" && !strings.Contains(strings.ToLower(r.ItemName), itemNeedle) {
			continue
		}
		if locNeedle != "" && !strings.Contains(strings.ToLower(r.LocationName), locNeedle) {
			continue
		}
		matched = append(matched, r)
	}

	if len(matched) > c.cfg.StockHealthCap {
		matched = matched[:c.cfg.StockHealthCap]
	}
	return matched
}
