package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-console/internal/application/service"
	"github.com/sangkips/pos-console/internal/presentation/http/dto/response"
)

// ReportHandler serves the XLSX downloads
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Baskets downloads the basket report
// @Summary Export baskets
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Router /reports/baskets [get]
func (h *ReportHandler) Baskets(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	report, err := h.reportService.Baskets(c.Request.Context(), user)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Attachment(c, report.FileName, report.ContentType, report.Data)
}

// SalesHistory downloads the sales history report
func (h *ReportHandler) SalesHistory(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	report, err := h.reportService.SalesHistory(c.Request.Context(), user)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Attachment(c, report.FileName, report.ContentType, report.Data)
}
