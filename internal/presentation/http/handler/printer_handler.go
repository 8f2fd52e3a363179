package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-console/internal/application/service"
	"github.com/sangkips/pos-console/internal/presentation/http/dto/response"
)

// PrinterHandler handles printer-related HTTP requests.
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// GetStatus returns the current printer connection status.
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	status := h.printerService.GetStatus(c.Request.Context())
	response.OK(c, "Printer status retrieved", status)
}

// TestPrint sends a test page to the printer.
func (h *PrinterHandler) TestPrint(c *gin.Context) {
	ticket, err := h.printerService.TestPrint(c.Request.Context())
	if err != nil {
		// The ticket is still useful when printing is disabled
		response.OK(c, "Test print completed (printer may be disabled)", gin.H{
			"ticket":  ticket,
			"warning": err.Error(),
		})
		return
	}

	response.OK(c, "Test page sent to printer", gin.H{
		"ticket": ticket,
	})
}

// PrintLastSale prints the ticket of the last finalized sale.
// @Summary Print last sale
// @Tags printer
// @Produce json
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /printer/last-sale [post]
func (h *PrinterHandler) PrintLastSale(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	ticket, err := h.printerService.PrintLastSale(c.Request.Context(), user)
	if err != nil {
		if ticket != nil {
			response.OK(c, "Ticket generated but printing failed", gin.H{
				"ticket":  ticket,
				"warning": err.Error(),
			})
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, "Ticket printed successfully", gin.H{
		"ticket": ticket,
	})
}
