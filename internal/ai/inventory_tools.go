package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/medstock/backend-go/internal/service"
)

type stockHealthParams struct {
	Item     string `json:"item,omitempty" jsonschema_description:"Optional item name filter, case-insensitive substring match"`
	Location string `json:"location,omitempty" jsonschema_description:"Optional location name filter, case-insensitive substring match"`
}

type alertParams struct {
	Severity string `json:"severity,omitempty" jsonschema_description:"Alert severity: CRITICAL or WARNING. Defaults to CRITICAL"`
	Location string `json:"location,omitempty" jsonschema_description:"Optional location name filter"`
}

type locationParams struct {
	Location string `json:"location,omitempty" jsonschema_description:"Location name, case-insensitive substring match"`
}

type categoryParams struct {
	Category string `json:"category,omitempty" jsonschema_description:"Item category, case-insensitive substring match"`
}

type trendParams struct {
	Item     string `json:"item,omitempty" jsonschema_description:"Optional item name filter"`
	Location string `json:"location,omitempty" jsonschema_description:"Optional location name filter"`
	Days     int    `json:"days,omitempty" jsonschema_description:"Trailing window in days, 1 to 90. Defaults to 14"`
}

type currentStockParams struct {
	LocationID int64 `json:"location_id" jsonschema_description:"Numeric location id"`
	ItemID     int64 `json:"item_id" jsonschema_description:"Numeric item id"`
}

type emptyParams struct{}

// RegisterInventoryTools wires the analytics read surface into the registry.
// Every tool returns JSON; empty data states come back as informative
// payloads instead of errors so the model can relay them to the user.
func RegisterInventoryTools(r *ToolRegistry, analytics *service.AnalyticsService, inventory *service.InventoryService) {
	r.Register(ToolDefinition{
		Name:        "get_stock_health",
		Description: "Current stock health classification (CRITICAL/WARNING/HEALTHY) for location-item pairs, with days of supply remaining. Optionally filter by item or location name.",
		InputSchema: schemaFor(stockHealthParams{}),
		Handler: func(ctx context.Context, params map[string]any) (string, error) {
			records, err := analytics.StockHealth(ctx, stringParam(params, "item"), stringParam(params, "location"))
			if err != nil {
				return "", err
			}
			if len(records) == 0 {
				return infoPayload("no stock health records match; the ledger may be empty or the filters too narrow")
			}
			return toJSON(map[string]any{"records": records, "total": len(records)})
		},
	})

	r.Register(ToolDefinition{
		Name:        "get_alerts",
		Description: "Stock alerts of a given severity (CRITICAL or WARNING), most urgent first, each with a recommended reorder quantity.",
		InputSchema: schemaFor(alertParams{}),
		Handler: func(ctx context.Context, params map[string]any) (string, error) {
			severity := stringParam(params, "severity")
			if severity == "" {
				severity = "CRITICAL"
			}
			alerts, err := analytics.Alerts(ctx, severity, stringParam(params, "location"))
			if err != nil {
				return "", err
			}
			if len(alerts) == 0 {
				return infoPayload(fmt.Sprintf("no %s alerts right now", severity))
			}
			return toJSON(map[string]any{"alerts": alerts, "total": len(alerts)})
		},
	})

	r.Register(ToolDefinition{
		Name:        "get_reorder_suggestions",
		Description: "Suggested purchase quantities for the most urgent critical items, sized to cover supplier lead time with a safety buffer.",
		InputSchema: schemaFor(locationParams{}),
		Handler: func(ctx context.Context, params map[string]any) (string, error) {
			suggestions, err := analytics.ReorderSuggestions(ctx, stringParam(params, "location"))
			if err != nil {
				return "", err
			}
			if len(suggestions) == 0 {
				return infoPayload("no critical items need reordering")
			}
			return toJSON(map[string]any{"suggestions": suggestions, "total": len(suggestions)})
		},
	})

	r.Register(ToolDefinition{
		Name:        "get_stock_heatmap",
		Description: "Matrix of health statuses across all items and locations. Cells without current data read UNKNOWN.",
		InputSchema: schemaFor(emptyParams{}),
		Handler: func(ctx context.Context, params map[string]any) (string, error) {
			heatmap, err := analytics.Heatmap(ctx)
			if err != nil {
				return "", err
			}
			if len(heatmap.Items) == 0 {
				return infoPayload("no stock data recorded yet")
			}
			return toJSON(heatmap)
		},
	})

	r.Register(ToolDefinition{
		Name:        "get_inventory_summary",
		Description: "Overall counts: locations, items, and records in the current snapshot, health breakdown, and per-category totals.",
		InputSchema: schemaFor(emptyParams{}),
		Handler: func(ctx context.Context, params map[string]any) (string, error) {
			summary, err := analytics.Summary(ctx)
			if err != nil {
				return "", err
			}
			if summary.Overview.TotalRecords == 0 {
				return infoPayload("the ledger has no transactions yet")
			}
			return toJSON(summary)
		},
	})

	r.Register(ToolDefinition{
		Name:        "get_location_summary",
		Description: "Health rollup for one location: item counts per status and whether it needs attention.",
		InputSchema: schemaFor(locationParams{}),
		Handler: func(ctx context.Context, params map[string]any) (string, error) {
			summary, err := analytics.LocationSummary(ctx, stringParam(params, "location"))
			if err != nil {
				return "", err
			}
			if summary == nil {
				return infoPayload("no location matched that name")
			}
			return toJSON(summary)
		},
	})

	r.Register(ToolDefinition{
		Name:        "get_category_analysis",
		Description: "Stock health records for one item category, e.g. antibiotics or consumables.",
		InputSchema: schemaFor(categoryParams{}),
		Handler: func(ctx context.Context, params map[string]any) (string, error) {
			records, err := analytics.CategoryAnalysis(ctx, stringParam(params, "category"))
			if err != nil {
				return "", err
			}
			if len(records) == 0 {
				return infoPayload("no records match that category")
			}
			return toJSON(map[string]any{"records": records, "total": len(records)})
		},
	})

	r.Register(ToolDefinition{
		Name:        "get_consumption_trends",
		Description: "Daily issued totals over a trailing window (1-90 days), with total, average, and peak. Optionally filter by item or location.",
		InputSchema: schemaFor(trendParams{}),
		Handler: func(ctx context.Context, params map[string]any) (string, error) {
			trend, err := analytics.ConsumptionTrends(ctx,
				stringParam(params, "item"), stringParam(params, "location"), intParam(params, "days"))
			if err != nil {
				return "", err
			}
			if trend == nil {
				return infoPayload("no consumption recorded in the requested window")
			}
			return toJSON(trend)
		},
	})

	r.Register(ToolDefinition{
		Name:        "get_current_stock",
		Description: "Latest closing stock for one location-item pair, by numeric ids.",
		InputSchema: schemaFor(currentStockParams{}),
		Handler: func(ctx context.Context, params map[string]any) (string, error) {
			locationID := int64(intParam(params, "location_id"))
			itemID := int64(intParam(params, "item_id"))
			stock, err := inventory.CurrentStock(ctx, locationID, itemID)
			if err != nil {
				return "", err
			}
			if stock == nil {
				return infoPayload("no transactions recorded for this location/item pair")
			}
			return toJSON(map[string]any{
				"location_id":   locationID,
				"item_id":       itemID,
				"current_stock": *stock,
			})
		},
	})

	r.Register(ToolDefinition{
		Name:        "get_overview",
		Description: "Configured catalog sizes and transaction date coverage of the ledger.",
		InputSchema: schemaFor(emptyParams{}),
		Handler: func(ctx context.Context, params map[string]any) (string, error) {
			overview, err := analytics.Overview(ctx)
			if err != nil {
				return "", err
			}
			return toJSON(overview)
		},
	})
}

func stringParam(params map[string]any, key string) string {
	if v, ok := params[key].(string); ok {
		return v
	}
	return ""
}

func intParam(params map[string]any, key string) int {
	// JSON numbers decode as float64
	if v, ok := params[key].(float64); ok {
		return int(v)
	}
	return 0
}

func toJSON(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode tool result: %w", err)
	}
	return string(raw), nil
}

func infoPayload(message string) (string, error) {
	return toJSON(map[string]any{"info": message})
}
