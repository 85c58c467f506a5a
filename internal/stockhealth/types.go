package stockhealth

import "github.com/medstock/backend-go/internal/domain"

// DaysRemainingSentinel stands in for "effectively unlimited supply" when a
// pair has no measurable usage in the trailing window.
const DaysRemainingSentinel = 999

// Config carries the tunables of the derivation engine. All values have
// working defaults so the zero-config path matches production behavior.
type Config struct {
	WindowDays       int     // trailing usage window, in days before the reference date
	CriticalBelow    float64 // days_remaining strictly below this is CRITICAL
	WarningThrough   float64 // days_remaining up to and including this is WARNING
	SafetyFactor     float64 // reorder buffer multiplier
	AlertCap         int     // max records returned by alert queries
	ReorderCap       int     // max reorder suggestions
	StockHealthCap   int     // max records for generic stock-health queries
	LowStockChartCap int     // max entries in the low-stock chart feed
}

// DefaultConfig mirrors the historical behavior: 7-day window, 3/7 day
// thresholds, 2x safety factor, caps of 20/15/30/5.
func DefaultConfig() Config {
	return Config{
		WindowDays:       7,
		CriticalBelow:    3,
		WarningThrough:   7,
		SafetyFactor:     2.0,
		AlertCap:         20,
		ReorderCap:       15,
		StockHealthCap:   30,
		LowStockChartCap: 5,
	}
}

// Heatmap is the matrix view of health statuses. Rows follow Items, columns
// follow Locations; cells with no record hold StatusUnknown.
type Heatmap struct {
	Locations []string                   `json:"locations"`
	Items     []string                   `json:"items"`
	Matrix    [][]domain.HealthStatus    `json:"matrix"`
	Details   []domain.StockHealthRecord `json:"details"`
}

// CategoryBreakdown counts records per health status within one item category.
type CategoryBreakdown struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	Warning  int `json:"warning"`
	Healthy  int `json:"healthy"`
}

// Summary rolls a health-record set into overview counts. DistinctLocations
// and DistinctItems count ids appearing in the record set — items without a
// reference-date transaction are not included, which can be fewer than the
// configured catalog counts (those are reported separately by the overview).
type Summary struct {
	Overview struct {
		DistinctLocations int `json:"total_locations"`
		DistinctItems     int `json:"total_items"`
		TotalRecords      int `json:"total_records"`
	} `json:"overview"`
	HealthSummary struct {
		Critical int `json:"critical"`
		Warning  int `json:"warning"`
		Healthy  int `json:"healthy"`
	} `json:"health_summary"`
	Categories map[string]*CategoryBreakdown `json:"categories"`
}

// LowStockEntry is one point of the dashboard low-stock chart feed.
type LowStockEntry struct {
	Record domain.StockHealthRecord `json:"record"`
	Ratio  float64                  `json:"ratio"`
}
