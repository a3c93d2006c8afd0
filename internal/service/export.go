package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/report"
)

type Export struct {
	PDF []byte
	// URL is set when the report was uploaded.
	URL string
}

type ExportService struct {
	history  *HistoryService
	uploader ReportUploader
	now      clock
}

func NewExportService(history *HistoryService, uploader ReportUploader) *ExportService {
	return &ExportService{history: history, uploader: uploader, now: time.Now}
}

// DailyLogs renders the recent daily records to PDF and uploads it when an
// uploader is configured.
func (s *ExportService) DailyLogs(ctx context.Context, n int) (Export, error) {
	records, err := s.history.Records(ctx, n)
	if err != nil {
		return Export{}, err
	}
	now := s.now()
	pdf, err := report.DailyLogs(records, now)
	if err != nil {
		return Export{}, err
	}
	out := Export{PDF: pdf}
	if s.uploader == nil {
		return out, nil
	}
	key := fmt.Sprintf("reports/daily-logs-%s.pdf", now.UTC().Format("20060102T150405Z"))
	url, err := s.uploader.UploadReport(ctx, key, pdf, report.ContentType)
	if err != nil {
		return Export{}, fmt.Errorf("upload report: %w", err)
	}
	out.URL = url
	return out, nil
}
