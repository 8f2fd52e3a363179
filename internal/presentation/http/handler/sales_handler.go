package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-console/internal/application/service"
	"github.com/sangkips/pos-console/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-console/internal/presentation/http/dto/response"
)

// SalesHandler handles the sales history screen
type SalesHandler struct {
	historyService *service.SalesHistoryService
}

// NewSalesHandler creates a new sales history handler
func NewSalesHandler(historyService *service.SalesHistoryService) *SalesHandler {
	return &SalesHandler{historyService: historyService}
}

// List handles listing recorded sales grouped by seller
// @Summary Sales history
// @Tags sales
// @Produce json
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /sales [get]
func (h *SalesHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	groups, err := h.historyService.ListHistory(c.Request.Context(), user)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sales retrieved successfully", groups)
}

// Open shows one sale in the detail dialog, optionally for editing
// @Summary Open a sale
// @Tags sales
// @Accept json
// @Produce json
// @Param id path string true "Sale ID"
// @Param request body request.OpenSaleRequest false "Edit mode"
// @Success 200 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Router /sales/{id}/open [post]
func (h *SalesHandler) Open(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req request.OpenSaleRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body")
			return
		}
	}

	open, err := h.historyService.Open(c.Request.Context(), user, c.Param("id"), req.Edit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale opened", open)
}

// Current returns the open sale
func (h *SalesHandler) Current(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	open, err := h.historyService.Current(user)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Sale retrieved successfully", open)
}

// SetQuantity changes the quantity of an item of the open sale
func (h *SalesHandler) SetQuantity(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	index, ok := indexParam(c, "index")
	if !ok {
		return
	}

	var req request.DraftQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	open, err := h.historyService.SetQuantity(user, index, req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Quantity updated", open)
}

// RemoveItem removes an item of the open sale
func (h *SalesHandler) RemoveItem(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	index, ok := indexParam(c, "index")
	if !ok {
		return
	}

	open, err := h.historyService.RemoveItem(user, index)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Product removed", open)
}

// AddProduct adds a catalog product to the open sale
func (h *SalesHandler) AddProduct(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req request.DraftProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	open, err := h.historyService.AddProduct(c.Request.Context(), user, req.Code, req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Product added", open)
}

// Save writes the edited sale back to the backend
// @Summary Save the edited sale
// @Tags sales
// @Produce json
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Router /sales/current/save [post]
func (h *SalesHandler) Save(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	draft, err := h.historyService.Save(c.Request.Context(), user)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Sale updated successfully", draft)
}

// Close discards the open sale
func (h *SalesHandler) Close(c *gin.Context) {
	h.historyService.Close()
	response.OK(c, "Sale closed", nil)
}

// Delete handles deleting a recorded sale
func (h *SalesHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.historyService.Delete(c.Request.Context(), user, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Sale deleted successfully", nil)
}
