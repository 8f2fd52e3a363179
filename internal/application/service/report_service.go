package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/internal/domain/enum"
	"github.com/sangkips/pos-console/internal/infrastructure/export"
	"github.com/sangkips/pos-console/pkg/apperror"
)

// Report is a generated workbook ready for download
type Report struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ReportService exports analytics and sales history as XLSX
type ReportService struct {
	analytics *AnalyticsService
	history   *SalesHistoryService
	now       func() time.Time
}

// NewReportService creates a new report service
func NewReportService(analytics *AnalyticsService, history *SalesHistoryService) *ReportService {
	return &ReportService{analytics: analytics, history: history, now: time.Now}
}

func (s *ReportService) fileName(prefix string) string {
	return fmt.Sprintf("%s_%s.xlsx", prefix, s.now().Format("20060102_1504"))
}

// Baskets exports the category shares and best sellers
func (s *ReportService) Baskets(ctx context.Context, actor *entity.User) (*Report, error) {
	if actor == nil || !actor.Can(enum.CapExportReports) {
		return nil, apperror.ErrForbidden
	}
	report, err := s.analytics.Baskets(ctx, actor)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := export.WriteBasketReport(&buf, *report); err != nil {
		return nil, fmt.Errorf("failed to write basket report: %w", err)
	}
	return &Report{FileName: s.fileName("Canastos"), ContentType: export.ContentType, Data: buf.Bytes()}, nil
}

// SalesHistory exports every sale visible to actor
func (s *ReportService) SalesHistory(ctx context.Context, actor *entity.User) (*Report, error) {
	if actor == nil || !actor.Can(enum.CapExportReports) {
		return nil, apperror.ErrForbidden
	}
	groups, err := s.history.ListHistory(ctx, actor)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := export.WriteSalesHistory(&buf, groups); err != nil {
		return nil, fmt.Errorf("failed to write sales history: %w", err)
	}
	return &Report{FileName: s.fileName("HistorialVentas"), ContentType: export.ContentType, Data: buf.Bytes()}, nil
}
