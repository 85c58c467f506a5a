package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/medstock/backend-go/internal/cache"
	"github.com/medstock/backend-go/internal/domain"
	"github.com/medstock/backend-go/internal/metrics"
	"github.com/medstock/backend-go/internal/repository"
	"github.com/medstock/backend-go/internal/stockhealth"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	maxTrendDays     = 90
	defaultTrendDays = 14
)

// AnalyticsService derives stock-health views from the ledger. The heavy
// lifting is the pure calculator; this layer handles data access, caching,
// and the shapes consumed by handlers and tools.
type AnalyticsService struct {
	ledger  repository.LedgerRepository
	catalog repository.CatalogRepository
	calc    *stockhealth.Calculator
	cache   cache.HealthCache
}

func NewAnalyticsService(
	ledger repository.LedgerRepository,
	catalog repository.CatalogRepository,
	calc *stockhealth.Calculator,
	cacheImpl cache.HealthCache,
) *AnalyticsService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopHealthCache()
	}
	return &AnalyticsService{ledger: ledger, catalog: catalog, calc: calc, cache: cacheImpl}
}

// ComputeStockHealth classifies every pair with a transaction on the
// ledger's most recent date. An empty ledger yields an empty slice.
func (s *AnalyticsService) ComputeStockHealth(ctx context.Context) ([]domain.StockHealthRecord, error) {
	if records, ok, err := s.cache.GetSnapshot(ctx); err == nil && ok {
		return records, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("stock health: cache get snapshot failed")
	}

	referenceDate, err := s.ledger.MaxTransactionDate(ctx)
	if err != nil {
		return nil, err
	}
	if referenceDate == nil {
		return []domain.StockHealthRecord{}, nil
	}

	windowStart := referenceDate.AddDate(0, 0, -s.calc.Config().WindowDays)

	var (
		transactions []domain.Transaction
		locations    []domain.Location
		items        []domain.Item
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		transactions, err = s.ledger.ListTransactions(gctx, domain.TransactionFilter{
			DateFrom: windowStart,
			DateTo:   *referenceDate,
		})
		return err
	})
	g.Go(func() error {
		var err error
		locations, err = s.catalog.ListLocations(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = s.catalog.ListItems(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	locationsByID := make(map[int64]domain.Location, len(locations))
	for _, loc := range locations {
		locationsByID[loc.ID] = loc
	}
	itemsByID := make(map[int64]domain.Item, len(items))
	for _, item := range items {
		itemsByID[item.ID] = item
	}

	records := s.calc.Compute(transactions, locationsByID, itemsByID)
	metrics.HealthComputations.Inc()

	if err := s.cache.SetSnapshot(ctx, records); err != nil {
		log.Warn().Err(err).Msg("stock health: cache set snapshot failed")
	}

	return records, nil
}

// InvalidateCache drops the cached snapshot, e.g. after a reset.
func (s *AnalyticsService) InvalidateCache(ctx context.Context) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("stock health: cache invalidation failed")
	}
}

// Alert pairs a health record with its reorder recommendation.
type Alert struct {
	domain.StockHealthRecord
	RecommendedReorder int `json:"recommended_reorder"`
}

// Alerts returns records of the requested severity, most urgent first, each
// carrying a reorder recommendation. Severity other than CRITICAL/WARNING is
// a validation error.
func (s *AnalyticsService) Alerts(ctx context.Context, severity, locationFilter string) ([]Alert, error) {
	sev, ok := domain.ParseSeverity(severity)
	if !ok {
		return nil, domain.Validationf("severity must be CRITICAL or WARNING, got %q", severity)
	}

	records, err := s.ComputeStockHealth(ctx)
	if err != nil {
		return nil, err
	}

	filtered, err := s.calc.FilterAlerts(records, sev, locationFilter)
	if err != nil {
		return nil, err
	}

	alerts := make([]Alert, 0, len(filtered))
	for _, r := range filtered {
		alerts = append(alerts, Alert{
			StockHealthRecord: r,
			RecommendedReorder: stockhealth.ReorderQuantity(
				r.AvgDailyUsage, r.LeadTimeDays, r.CurrentStock, s.calc.Config().SafetyFactor),
		})
	}
	return alerts, nil
}

// StockHealth returns the snapshot narrowed by optional item/location
// substring filters, capped for conversational consumers.
func (s *AnalyticsService) StockHealth(ctx context.Context, itemFilter, locationFilter string) ([]domain.StockHealthRecord, error) {
	records, err := s.ComputeStockHealth(ctx)
	if err != nil {
		return nil, err
	}
	return s.calc.FilterRecords(records, itemFilter, locationFilter), nil
}

// Heatmap builds the status matrix across all locations and items.
func (s *AnalyticsService) Heatmap(ctx context.Context) (*stockhealth.Heatmap, error) {
	records, err := s.ComputeStockHealth(ctx)
	if err != nil {
		return nil, err
	}
	hm := stockhealth.BuildHeatmap(records)
	return &hm, nil
}

// Summary rolls the snapshot into overview, health, and category counts.
func (s *AnalyticsService) Summary(ctx context.Context) (*stockhealth.Summary, error) {
	records, err := s.ComputeStockHealth(ctx)
	if err != nil {
		return nil, err
	}
	sum := stockhealth.Summarize(records)
	return &sum, nil
}

// ReorderSuggestion is a purchase-order line proposal for a critical pair.
type ReorderSuggestion struct {
	LocationName        string `json:"location"`
	ItemName            string `json:"item"`
	CurrentStock        int    `json:"current_stock"`
	RecommendedQuantity int    `json:"recommended_quantity"`
	Urgency             string `json:"urgency"`
	Reasoning           string `json:"reasoning"`
}

// ReorderSuggestions proposes order quantities for the most urgent CRITICAL
// pairs, optionally narrowed by location substring.
func (s *AnalyticsService) ReorderSuggestions(ctx context.Context, locationFilter string) ([]ReorderSuggestion, error) {
	records, err := s.ComputeStockHealth(ctx)
	if err != nil {
		return nil, err
	}

	critical, err := s.calc.FilterAlerts(records, domain.StatusCritical, locationFilter)
	if err != nil {
		return nil, err
	}

	capN := s.calc.Config().ReorderCap
	if len(critical) > capN {
		critical = critical[:capN]
	}

	suggestions := make([]ReorderSuggestion, 0, len(critical))
	for _, r := range critical {
		qty := stockhealth.ReorderQuantity(
			r.AvgDailyUsage, r.LeadTimeDays, r.CurrentStock, s.calc.Config().SafetyFactor)

		urgency := "MEDIUM"
		if r.DaysRemaining < 1 {
			urgency = "HIGH"
		}

		usage := 0.0
		if r.AvgDailyUsage != nil {
			usage = *r.AvgDailyUsage
		}
		suggestions = append(suggestions, ReorderSuggestion{
			LocationName:        r.LocationName,
			ItemName:            r.ItemName,
			CurrentStock:        r.CurrentStock,
			RecommendedQuantity: qty,
			Urgency:             urgency,
			Reasoning: fmt.Sprintf("Daily usage: %.1f %s, lead time: %d days",
				usage, r.Unit, r.LeadTimeDays),
		})
	}
	return suggestions, nil
}

// LocationSummary aggregates health counts for locations whose name matches
// the given substring.
type LocationSummary struct {
	LocationName string `json:"location"`
	TotalItems   int    `json:"total_items"`
	Critical     int    `json:"critical_items"`
	Warning      int    `json:"warning_items"`
	Healthy      int    `json:"healthy_items"`
	Status       string `json:"status"`
}

func (s *AnalyticsService) LocationSummary(ctx context.Context, locationName string) (*LocationSummary, error) {
	records, err := s.ComputeStockHealth(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(locationName))
	var matched []domain.StockHealthRecord
	for _, r := range records {
		if needle == "" || strings.Contains(strings.ToLower(r.LocationName), needle) {
			matched = append(matched, r)
		}
	}
	if len(matched) == 0 {
		return nil, nil
	}

	summary := &LocationSummary{LocationName: matched[0].LocationName, TotalItems: len(matched)}
	for _, r := range matched {
		switch r.HealthStatus {
		case domain.StatusCritical:
			summary.Critical++
		case domain.StatusWarning:
			summary.Warning++
		case domain.StatusHealthy:
			summary.Healthy++
		}
	}
	summary.Status = "STABLE"
	if summary.Critical > 0 {
		summary.Status = "NEEDS_ATTENTION"
	}
	return summary, nil
}

// CategoryAnalysis lists records whose category matches the substring,
// capped like alert queries.
func (s *AnalyticsService) CategoryAnalysis(ctx context.Context, category string) ([]domain.StockHealthRecord, error) {
	records, err := s.ComputeStockHealth(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(category))
	matched := make([]domain.StockHealthRecord, 0)
	for _, r := range records {
		if needle == "" || strings.Contains(strings.ToLower(r.Category), needle) {
			matched = append(matched, r)
		}
	}

	if capN := s.calc.Config().AlertCap; len(matched) > capN {
		matched = matched[:capN]
	}
	return matched, nil
}

// DashboardStats is the chart feed for the admin dashboard.
type DashboardStats struct {
	HealthSummary struct {
		Critical int `json:"critical"`
		Warning  int `json:"warning"`
		Healthy  int `json:"healthy"`
	} `json:"health_summary"`
	LowStock   []stockhealth.LowStockEntry               `json:"low_stock"`
	Categories map[string]*stockhealth.CategoryBreakdown `json:"categories"`
}

func (s *AnalyticsService) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	records, err := s.ComputeStockHealth(ctx)
	if err != nil {
		return nil, err
	}

	sum := stockhealth.Summarize(records)
	stats := &DashboardStats{
		LowStock:   s.calc.LowStockFeed(records),
		Categories: sum.Categories,
	}
	stats.HealthSummary.Critical = sum.HealthSummary.Critical
	stats.HealthSummary.Warning = sum.HealthSummary.Warning
	stats.HealthSummary.Healthy = sum.HealthSummary.Healthy
	return stats, nil
}

// Overview reports configured catalog counts and transaction coverage. The
// item/location counts here are catalog totals and intentionally differ from
// the distinct counts in Summary, which only see pairs with current data.
func (s *AnalyticsService) Overview(ctx context.Context) (*domain.LedgerOverview, error) {
	locations, err := s.catalog.CountLocations(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.catalog.CountItems(ctx)
	if err != nil {
		return nil, err
	}
	transactions, err := s.ledger.CountTransactions(ctx)
	if err != nil {
		return nil, err
	}
	first, last, err := s.ledger.DateRange(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.LedgerOverview{
		Locations:    locations,
		Items:        items,
		Transactions: transactions,
		FirstDate:    first,
		LastDate:     last,
		HasData:      transactions > 0,
	}, nil
}

// ConsumptionTrends aggregates daily issued totals over the trailing window,
// clamped to 1..90 days, with optional item/location substring filters.
// Returns nil when the ledger is empty or no rows match.
func (s *AnalyticsService) ConsumptionTrends(ctx context.Context, itemFilter, locationFilter string, days int) (*domain.ConsumptionTrend, error) {
	if days <= 0 {
		days = defaultTrendDays
	}
	if days > maxTrendDays {
		days = maxTrendDays
	}

	latest, err := s.ledger.MaxTransactionDate(ctx)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return nil, nil
	}

	start := latest.AddDate(0, 0, -(days - 1))
	points, err := s.ledger.DailyIssued(ctx, start, *latest, itemFilter, locationFilter)
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, nil
	}

	trend := &domain.ConsumptionTrend{
		StartDate:     start,
		EndDate:       *latest,
		DaysRequested: days,
		Points:        points,
	}
	for _, p := range points {
		trend.TotalIssued += p.Issued
		if p.Issued > trend.PeakDailyIssued {
			trend.PeakDailyIssued = p.Issued
		}
	}
	trend.AvgDailyIssued = float64(trend.TotalIssued) / float64(len(points))
	return trend, nil
}
