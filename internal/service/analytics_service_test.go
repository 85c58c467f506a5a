package service

import (
	"context"
	"errors"
	"testing"

	"github.com/medstock/backend-go/internal/domain"
	"github.com/medstock/backend-go/internal/stockhealth"
)

// seedSteadyUsage loads a week of 20/day consumption ending with 100 on hand:
// 5 days of supply, WARNING.
func seedSteadyUsage(t *testing.T, svc *InventoryService, loc domain.Location, item domain.Item) {
	t.Helper()
	ctx := context.Background()
	// opening starts from min_stock 100; keep receiving to stay positive
	for i := -6; i <= -1; i++ {
		if _, err := svc.AppendTransaction(ctx, loc.ID, item.ID, testDate(i), 20, 20, "", ""); err != nil {
			t.Fatalf("seed day %d: %v", i, err)
		}
	}
	if _, err := svc.AppendTransaction(ctx, loc.ID, item.ID, testDate(0), 20, 20, "", ""); err != nil {
		t.Fatalf("seed final day: %v", err)
	}
}

func newAnalyticsFixture() (*InventoryService, *AnalyticsService, *fakeLedger, *fakeCatalog) {
	ledger := newFakeLedger()
	catalog := newFakeCatalog()
	inventory := NewInventoryService(ledger, catalog)
	analytics := NewAnalyticsService(ledger, catalog, stockhealth.NewCalculator(stockhealth.Config{}), nil)
	return inventory, analytics, ledger, catalog
}

func TestComputeStockHealthEmptyLedger(t *testing.T) {
	_, analytics, _, _ := newAnalyticsFixture()

	records, err := analytics.ComputeStockHealth(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Fatalf("expected empty slice, got %v", records)
	}
}

func TestComputeStockHealthSteadyUsage(t *testing.T) {
	inventory, analytics, _, catalog := newAnalyticsFixture()
	loc, item := seedCatalog(catalog)
	seedSteadyUsage(t, inventory, loc, item)

	records, err := analytics.ComputeStockHealth(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
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
}

func TestAlertsCarryReorderRecommendation(t *testing.T) {
	inventory, analytics, _, catalog := newAnalyticsFixture()
	loc, item := seedCatalog(catalog)
	seedSteadyUsage(t, inventory, loc, item)

	alerts, err := analytics.Alerts(context.Background(), "warning", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	// 20/day x 7 lead days x 2.0 safety - 100 on hand = 180
	if alerts[0].RecommendedReorder != 180 {
		t.Errorf("recommended_reorder = %d, want 180", alerts[0].RecommendedReorder)
	}
}

func TestAlertsRejectsUnknownSeverity(t *testing.T) {
	_, analytics, _, _ := newAnalyticsFixture()

	_, err := analytics.Alerts(context.Background(), "HEALTHY", "")
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestReorderSuggestionsUrgency(t *testing.T) {
	inventory, analytics, _, catalog := newAnalyticsFixture()
	loc, _ := seedCatalog(catalog)
	fast := catalog.addItem(domain.Item{Name: "IV Fluid 500ml", Category: "fluid", Unit: "bags", LeadTimeDays: 4, MinStock: 60})

	ctx := context.Background()
	// burn down to zero on the reference date: days_remaining 0, HIGH urgency
	if _, err := inventory.AppendTransaction(ctx, loc.ID, fast.ID, testDate(-1), 0, 30, "", ""); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := inventory.AppendTransaction(ctx, loc.ID, fast.ID, testDate(0), 0, 30, "", ""); err != nil {
		t.Fatalf("seed: %v", err)
	}

	suggestions, err := analytics.ReorderSuggestions(ctx, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(suggestions) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(suggestions))
	}
	s := suggestions[0]
	if s.Urgency != "HIGH" {
		t.Errorf("urgency = %s, want HIGH", s.Urgency)
	}
	// avg usage 30/day x 4 lead days x 2.0 safety - 0 on hand = 240
	if s.RecommendedQuantity != 240 {
		t.Errorf("recommended_quantity = %d, want 240", s.RecommendedQuantity)
	}
}

func TestLocationSummaryStatus(t *testing.T) {
	inventory, analytics, _, catalog := newAnalyticsFixture()
	loc, item := seedCatalog(catalog)
	seedSteadyUsage(t, inventory, loc, item)

	summary, err := analytics.LocationSummary(context.Background(), "apollo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary == nil {
		t.Fatal("expected a summary, got nil")
	}
	if summary.TotalItems != 1 || summary.Warning != 1 {
		t.Errorf("unexpected counts: %+v", summary)
	}
	if summary.Status != "STABLE" {
		t.Errorf("status = %s, want STABLE (no criticals)", summary.Status)
	}

	missing, err := analytics.LocationSummary(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unmatched location, got %+v", missing)
	}
}

func TestOverviewCountsCatalogNotSnapshot(t *testing.T) {
	inventory, analytics, _, catalog := newAnalyticsFixture()
	loc, item := seedCatalog(catalog)
	catalog.addItem(domain.Item{Name: "Surgical Gloves", Category: "consumable", Unit: "pairs", LeadTimeDays: 3, MinStock: 500})
	seedSteadyUsage(t, inventory, loc, item)

	overview, err := analytics.Overview(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if overview.Items != 2 {
		t.Errorf("overview items = %d, want 2 (catalog count)", overview.Items)
	}
	if !overview.HasData {
		t.Error("expected has_data true")
	}

	// the snapshot summary only sees the transacting pair
	sum, err := analytics.Summary(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.Overview.DistinctItems != 1 {
		t.Errorf("summary distinct items = %d, want 1", sum.Overview.DistinctItems)
	}
}

func TestConsumptionTrendsClampAndAggregates(t *testing.T) {
	inventory, analytics, _, catalog := newAnalyticsFixture()
	loc, item := seedCatalog(catalog)
	seedSteadyUsage(t, inventory, loc, item)

	trend, err := analytics.ConsumptionTrends(context.Background(), "", "", 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trend == nil {
		t.Fatal("expected a trend, got nil")
	}
	if trend.DaysRequested != 90 {
		t.Errorf("days_requested = %d, want clamped to 90", trend.DaysRequested)
	}
	if len(trend.Points) != 7 {
		t.Fatalf("expected 7 points, got %d", len(trend.Points))
	}
	if trend.TotalIssued != 140 {
		t.Errorf("total_issued = %d, want 140", trend.TotalIssued)
	}
	if trend.PeakDailyIssued != 20 {
		t.Errorf("peak_daily_issued = %d, want 20", trend.PeakDailyIssued)
	}
	if trend.AvgDailyIssued != 20 {
		t.Errorf("avg_daily_issued = %v, want 20", trend.AvgDailyIssued)
	}
}

func TestConsumptionTrendsEmptyLedger(t *testing.T) {
	_, analytics, _, _ := newAnalyticsFixture()

	trend, err := analytics.ConsumptionTrends(context.Background(), "", "", 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trend != nil {
		t.Errorf("expected nil trend for empty ledger, got %+v", trend)
	}
}

func TestDashboardStats(t *testing.T) {
	inventory, analytics, _, catalog := newAnalyticsFixture()
	loc, item := seedCatalog(catalog)
	seedSteadyUsage(t, inventory, loc, item)

	stats, err := analytics.DashboardStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.HealthSummary.Warning != 1 {
		t.Errorf("warning count = %d, want 1", stats.HealthSummary.Warning)
	}
	// 100 on hand vs min_stock 100: not below threshold, no low-stock entry
	if len(stats.LowStock) != 0 {
		t.Errorf("low_stock entries = %d, want 0", len(stats.LowStock))
	}
	if stats.Categories["painkiller"] == nil || stats.Categories["painkiller"].Warning != 1 {
		t.Errorf("unexpected category breakdown: %+v", stats.Categories)
	}
}

func TestHeatmapMarksUnknownCells(t *testing.T) {
	inventory, analytics, _, catalog := newAnalyticsFixture()
	loc, item := seedCatalog(catalog)
	other := catalog.addLocation(domain.Location{Name: "City Clinic - Delhi", Type: "clinic", Region: "North"})
	gloves := catalog.addItem(domain.Item{Name: "Surgical Gloves", Category: "consumable", Unit: "pairs", LeadTimeDays: 3, MinStock: 500})
	seedSteadyUsage(t, inventory, loc, item)

	ctx := context.Background()
	if _, err := inventory.AppendTransaction(ctx, other.ID, gloves.ID, testDate(0), 100, 10, "", ""); err != nil {
		t.Fatalf("seed: %v", err)
	}

	hm, err := analytics.Heatmap(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hm.Items) != 2 || len(hm.Locations) != 2 {
		t.Fatalf("axes = %d items x %d locations, want 2x2", len(hm.Items), len(hm.Locations))
	}

	cell := func(itemName, locName string) domain.HealthStatus {
		var row, col = -1, -1
		for i, name := range hm.Items {
			if name == itemName {
				row = i
			}
		}
		for j, name := range hm.Locations {
			if name == locName {
				col = j
			}
		}
		if row < 0 || col < 0 {
			t.Fatalf("axis missing %q / %q", itemName, locName)
		}
		return hm.Matrix[row][col]
	}

	if got := cell(item.Name, loc.Name); got != domain.StatusWarning {
		t.Errorf("transacting cell = %s, want WARNING", got)
	}
	// pairs that never transacted on the reference date have no record
	if got := cell(item.Name, other.Name); got != domain.StatusUnknown {
		t.Errorf("missing cell = %s, want UNKNOWN", got)
	}
	if got := cell(gloves.Name, loc.Name); got != domain.StatusUnknown {
		t.Errorf("missing cell = %s, want UNKNOWN", got)
	}
}
