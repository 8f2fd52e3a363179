package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-console/internal/application/service"
	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-console/internal/presentation/http/dto/response"
)

// AnalyticsHandler handles the basket and dashboard screens
type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// Baskets returns sales shares by category and the best-selling products
func (h *AnalyticsHandler) Baskets(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	report, err := h.analyticsService.Baskets(c.Request.Context(), user)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Baskets retrieved successfully", report)
}

// Dashboard handles getting the sales summary of a date range
// @Summary Dashboard
// @Tags analytics
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Router /analytics/dashboard [get]
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req request.DashboardRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	summary, err := h.analyticsService.Dashboard(c.Request.Context(), user, entity.DateRange{From: req.From, To: req.To})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Dashboard retrieved successfully", summary)
}

// TopSales returns the best-selling products, empty for roles without the ranking
func (h *AnalyticsHandler) TopSales(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	top, err := h.analyticsService.TopSales(c.Request.Context(), user)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Top sales retrieved successfully", top)
}
