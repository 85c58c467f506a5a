// Package report renders the stock-health snapshot into Excel workbooks and
// archives them in object storage when one is configured.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/medstock/backend-go/internal/domain"
	"github.com/medstock/backend-go/internal/service"
	"github.com/medstock/backend-go/internal/storage"
)

const (
	reportPrefix    = "reports/"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type Service struct {
	analytics *service.AnalyticsService
	store     storage.ObjectStorage // nil when archiving is disabled
}

func NewService(analytics *service.AnalyticsService, store storage.ObjectStorage) *Service {
	return &Service{analytics: analytics, store: store}
}

// Result describes one generated report.
type Result struct {
	Filename    string `json:"filename"`
	ObjectKey   string `json:"object_key,omitempty"`
	Archived    bool   `json:"archived"`
	RecordCount int    `json:"record_count"`
	AlertCount  int    `json:"alert_count"`
}

// Generate builds the stock-health workbook from the current snapshot and
// uploads it when storage is configured. The bytes are always returned so the
// caller can also serve the file directly.
func (s *Service) Generate(ctx context.Context) (*Result, []byte, error) {
	records, err := s.analytics.ComputeStockHealth(ctx)
	if err != nil {
		return nil, nil, err
	}

	alerts, err := s.criticalAndWarningAlerts(ctx)
	if err != nil {
		return nil, nil, err
	}

	heatmap, err := s.analytics.Heatmap(ctx)
	if err != nil {
		return nil, nil, err
	}

	workbook, err := buildWorkbook(records, alerts, heatmap)
	if err != nil {
		return nil, nil, fmt.Errorf("build report workbook: %w", err)
	}
	buf, err := workbook.WriteToBuffer()
	if err != nil {
		return nil, nil, fmt.Errorf("encode report workbook: %w", err)
	}

	result := &Result{
		Filename:    fmt.Sprintf("stock_health_%s.xlsx", time.Now().UTC().Format("20060102_150405")),
		RecordCount: len(records),
		AlertCount:  len(alerts),
	}

	if s.store != nil {
		key := reportPrefix + result.Filename
		if err := s.store.UploadObject(ctx, key, buf.Bytes(), xlsxContentType); err != nil {
			// the workbook is still usable; archiving is best-effort
			log.Warn().Err(err).Str("key", key).Msg("report archive upload failed")
		} else {
			result.ObjectKey = key
			result.Archived = true
		}
	}

	return result, buf.Bytes(), nil
}

// ListArchived returns previously archived reports.
func (s *Service) ListArchived(ctx context.Context) ([]storage.ObjectInfo, error) {
	if s.store == nil {
		return []storage.ObjectInfo{}, nil
	}
	return s.store.ListObjects(ctx, reportPrefix)
}

func (s *Service) criticalAndWarningAlerts(ctx context.Context) ([]service.Alert, error) {
	critical, err := s.analytics.Alerts(ctx, string(domain.StatusCritical), "")
	if err != nil {
		return nil, err
	}
	warning, err := s.analytics.Alerts(ctx, string(domain.StatusWarning), "")
	if err != nil {
		return nil, err
	}
	return append(critical, warning...), nil
}
