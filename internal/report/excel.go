package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/medstock/backend-go/internal/domain"
	"github.com/medstock/backend-go/internal/service"
	"github.com/medstock/backend-go/internal/stockhealth"
)

const (
	sheetStockHealth = "Stock Health"
	sheetAlerts      = "Alerts"
	sheetHeatmap     = "Heatmap"
)

// buildWorkbook renders the snapshot into a three-sheet workbook: the full
// record list, the urgent alerts with reorder quantities, and the
// item-by-location status matrix.
func buildWorkbook(
	records []domain.StockHealthRecord,
	alerts []service.Alert,
	heatmap *stockhealth.Heatmap,
) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", sheetStockHealth)

	if err := writeStockHealthSheet(f, records); err != nil {
		return nil, err
	}
	if err := writeAlertsSheet(f, alerts); err != nil {
		return nil, err
	}
	if err := writeHeatmapSheet(f, heatmap); err != nil {
		return nil, err
	}

	return f, nil
}

func writeStockHealthSheet(f *excelize.File, records []domain.StockHealthRecord) error {
	headers := []string{
		"Location", "Item", "Category", "Unit",
		"Current Stock", "Avg Daily Usage", "Days Remaining", "Status", "Last Updated",
	}
	if err := writeRow(f, sheetStockHealth, 1, headers); err != nil {
		return err
	}

	for i, r := range records {
		usage := any("n/a")
		if r.AvgDailyUsage != nil {
			usage = *r.AvgDailyUsage
		}
		days := any(r.DaysRemaining)
		if r.DaysRemaining == stockhealth.DaysRemainingSentinel {
			days = "no usage"
		}
		row := []any{
			r.LocationName, r.ItemName, r.Category, r.Unit,
			r.CurrentStock, usage, days, string(r.HealthStatus),
			r.LastUpdated.Format("2006-01-02"),
		}
		if err := writeRow(f, sheetStockHealth, i+2, row); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheetStockHealth, "A", "B", 28)
}

func writeAlertsSheet(f *excelize.File, alerts []service.Alert) error {
	if _, err := f.NewSheet(sheetAlerts); err != nil {
		return err
	}

	headers := []string{
		"Location", "Item", "Current Stock", "Days Remaining",
		"Status", "Lead Time (days)", "Recommended Reorder",
	}
	if err := writeRow(f, sheetAlerts, 1, headers); err != nil {
		return err
	}

	for i, a := range alerts {
		row := []any{
			a.LocationName, a.ItemName, a.CurrentStock, a.DaysRemaining,
			string(a.HealthStatus), a.LeadTimeDays, a.RecommendedReorder,
		}
		if err := writeRow(f, sheetAlerts, i+2, row); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheetAlerts, "A", "B", 28)
}

func writeHeatmapSheet(f *excelize.File, heatmap *stockhealth.Heatmap) error {
	if _, err := f.NewSheet(sheetHeatmap); err != nil {
		return err
	}

	// header row: item axis in column A, locations across
	header := make([]any, 0, len(heatmap.Locations)+1)
	header = append(header, "Item \\ Location")
	for _, loc := range heatmap.Locations {
		header = append(header, loc)
	}
	if err := writeRow(f, sheetHeatmap, 1, header); err != nil {
		return err
	}

	for i, item := range heatmap.Items {
		row := make([]any, 0, len(heatmap.Locations)+1)
		row = append(row, item)
		for j := range heatmap.Locations {
			row = append(row, string(heatmap.Matrix[i][j]))
		}
		if err := writeRow(f, sheetHeatmap, i+2, row); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheetHeatmap, "A", "A", 28)
}

func writeRow[T any](f *excelize.File, sheet string, rowNum int, values []T) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
		if err != nil {
			return fmt.Errorf("cell coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	return nil
}
