package stockhealth

import (
	"testing"
	"time"

	"github.com/medstock/backend-go/internal/domain"
)

func day(offset int) time.Time {
	base := time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, offset)
}

func testCatalog() (map[int64]domain.Location, map[int64]domain.Item) {
	locations := map[int64]domain.Location{
		1: {ID: 1, Name: "Apollo Hospital - Mumbai", Type: "hospital", Region: "West"},
		2: {ID: 2, Name: "City Clinic - Delhi", Type: "clinic", Region: "North"},
	}
	items := map[int64]domain.Item{
		10: {ID: 10, Name: "Paracetamol 500mg", Category: "painkiller", Unit: "tablets", LeadTimeDays: 7, MinStock: 100},
		11: {ID: 11, Name: "Amoxicillin 250mg", Category: "antibiotic", Unit: "capsules", LeadTimeDays: 5, MinStock: 50},
	}
	return locations, items
}

// chain builds a contiguous run of daily transactions for one pair, ending on
// the final entry's date with the given closing stock.
func chain(locationID, itemID int64, startID int64, endOffset int, issued []int, closing int) []domain.Transaction {
	txs := make([]domain.Transaction, 0, len(issued))
	stock := closing
	// walk backwards so closing stocks chain up to the requested final value
	closings := make([]int, len(issued))
	for i := len(issued) - 1; i >= 0; i-- {
		closings[i] = stock
		stock += issued[i] // pretend everything issued was previously on hand
	}
	for i, iss := range issued {
		txs = append(txs, domain.Transaction{
			ID:           startID + int64(i),
			LocationID:   locationID,
			ItemID:       itemID,
			Date:         day(endOffset - (len(issued) - 1 - i)),
			OpeningStock: closings[i] + iss,
			Issued:       iss,
			ClosingStock: closings[i],
		})
	}
	return txs
}

func TestComputeEmptyLedger(t *testing.T) {
	calc := NewCalculator(Config{})
	locations, items := testCatalog()

	records := calc.Compute(nil, locations, items)
	if records == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(records) != 0 {
		t.Fatalf("expected no records for empty ledger, got %d", len(records))
	}
}

func TestComputeSteadyUsageScenario(t *testing.T) {
	// current_stock=100, issued 20/day over the trailing week -> 5 days left.
	calc := NewCalculator(Config{})
	locations, items := testCatalog()

	txs := chain(1, 10, 1, 0, []int{20, 20, 20, 20, 20, 20, 20}, 100)
	records := calc.Compute(txs, locations, items)

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	r := records[0]
	if r.CurrentStock != 100 {
		t.Errorf("current_stock = %d, want 100", r.CurrentStock)
	}
	if r.AvgDailyUsage == nil || *r.AvgDailyUsage != 20 {
		t.Errorf("avg_daily_usage = %v, want 20", r.AvgDailyUsage)
	}
	if r.DaysRemaining != 5.0 {
		t.Errorf("days_remaining = %v, want 5.0", r.DaysRemaining)
	}
	if r.HealthStatus != domain.StatusWarning {
		t.Errorf("health_status = %s, want WARNING", r.HealthStatus)
	}
	if !r.LastUpdated.Equal(day(0)) {
		t.Errorf("last_updated = %v, want %v", r.LastUpdated, day(0))
	}
}

func TestComputeStockedOutIsCritical(t *testing.T) {
	calc := NewCalculator(Config{})
	locations, items := testCatalog()

	txs := chain(1, 10, 1, 0, []int{20, 20, 20}, 0)
	records := calc.Compute(txs, locations, items)

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].DaysRemaining != 0 {
		t.Errorf("days_remaining = %v, want 0", records[0].DaysRemaining)
	}
	if records[0].HealthStatus != domain.StatusCritical {
		t.Errorf("health_status = %s, want CRITICAL", records[0].HealthStatus)
	}
}

func TestComputeNoUsageYieldsSentinel(t *testing.T) {
	calc := NewCalculator(Config{})
	locations, items := testCatalog()

	txs := []domain.Transaction{
		{ID: 1, LocationID: 1, ItemID: 10, Date: day(0), OpeningStock: 100, Received: 50, ClosingStock: 150},
	}
	records := calc.Compute(txs, locations, items)

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	r := records[0]
	if r.AvgDailyUsage == nil || *r.AvgDailyUsage != 0 {
		t.Errorf("avg_daily_usage = %v, want 0 (zero issued in window)", r.AvgDailyUsage)
	}
	if r.DaysRemaining != DaysRemainingSentinel {
		t.Errorf("days_remaining = %v, want sentinel %d", r.DaysRemaining, DaysRemainingSentinel)
	}
	if r.HealthStatus != domain.StatusHealthy {
		t.Errorf("health_status = %s, want HEALTHY", r.HealthStatus)
	}
}

func TestComputeExcludesPairsWithoutReferenceDateTransaction(t *testing.T) {
	calc := NewCalculator(Config{})
	locations, items := testCatalog()

	txs := chain(1, 10, 1, 0, []int{10, 10}, 80)
	// stale pair: last transaction the day before the reference date
	txs = append(txs, domain.Transaction{
		ID: 50, LocationID: 2, ItemID: 11, Date: day(-1),
		OpeningStock: 60, Issued: 10, ClosingStock: 50,
	})

	records := calc.Compute(txs, locations, items)
	if len(records) != 1 {
		t.Fatalf("expected only the reference-date pair, got %d records", len(records))
	}
	if records[0].LocationID != 1 || records[0].ItemID != 10 {
		t.Errorf("unexpected pair in result: %+v", records[0])
	}
}

func TestComputeSameDayCorrectionLatestRowWins(t *testing.T) {
	calc := NewCalculator(Config{})
	locations, items := testCatalog()

	txs := []domain.Transaction{
		{ID: 1, LocationID: 1, ItemID: 10, Date: day(0), OpeningStock: 100, Issued: 30, ClosingStock: 70},
		// same-day correction chained off the first row
		{ID: 2, LocationID: 1, ItemID: 10, Date: day(0), OpeningStock: 70, Received: 20, ClosingStock: 90},
	}
	records := calc.Compute(txs, locations, items)

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].CurrentStock != 90 {
		t.Errorf("current_stock = %d, want 90 (latest same-day row)", records[0].CurrentStock)
	}
}

func TestComputeWindowExcludesOlderTransactions(t *testing.T) {
	calc := NewCalculator(Config{})
	locations, items := testCatalog()

	txs := []domain.Transaction{
		// outside the 7-day window, must not pollute the average
		{ID: 1, LocationID: 1, ItemID: 10, Date: day(-8), OpeningStock: 1000, Issued: 900, ClosingStock: 100},
		{ID: 2, LocationID: 1, ItemID: 10, Date: day(-7), OpeningStock: 100, Issued: 10, ClosingStock: 90},
		{ID: 3, LocationID: 1, ItemID: 10, Date: day(0), OpeningStock: 90, Issued: 30, ClosingStock: 60},
	}
	records := calc.Compute(txs, locations, items)

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if got := *records[0].AvgDailyUsage; got != 20 {
		t.Errorf("avg_daily_usage = %v, want 20 (mean of 10 and 30)", got)
	}
}

func TestComputeIsIdempotent(t *testing.T) {
	calc := NewCalculator(Config{})
	locations, items := testCatalog()

	txs := chain(1, 10, 1, 0, []int{5, 15, 10}, 40)
	txs = append(txs, chain(2, 11, 100, 0, []int{8, 8, 8}, 24)...)

	first := calc.Compute(txs, locations, items)
	second := calc.Compute(txs, locations, items)

	if len(first) != len(second) {
		t.Fatalf("result sizes differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].LocationID != second[i].LocationID ||
			first[i].ItemID != second[i].ItemID ||
			first[i].DaysRemaining != second[i].DaysRemaining ||
			first[i].HealthStatus != second[i].HealthStatus {
			t.Errorf("record %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestClassifyBoundaries(t *testing.T) {
	calc := NewCalculator(Config{})

	tests := []struct {
		days float64
		want domain.HealthStatus
	}{
		{0, domain.StatusCritical},
		{2.999, domain.StatusCritical},
		{3.0, domain.StatusWarning},
		{5.0, domain.StatusWarning},
		{7.0, domain.StatusWarning},
		{7.001, domain.StatusHealthy},
		{DaysRemainingSentinel, domain.StatusHealthy},
	}
	for _, tt := range tests {
		if got := calc.Classify(tt.days); got != tt.want {
			t.Errorf("Classify(%v) = %s, want %s", tt.days, got, tt.want)
		}
	}
}
