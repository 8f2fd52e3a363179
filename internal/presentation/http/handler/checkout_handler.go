package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-console/internal/application/service"
	"github.com/sangkips/pos-console/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-console/internal/presentation/http/dto/response"
)

// CheckoutHandler drives the point-of-sale screen
type CheckoutHandler struct {
	builder        *service.SaleBuilder
	productService *service.ProductService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(builder *service.SaleBuilder, productService *service.ProductService) *CheckoutHandler {
	return &CheckoutHandler{builder: builder, productService: productService}
}

// State returns the pending sale and the receipt step
// @Summary Checkout state
// @Tags checkout
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /checkout [get]
func (h *CheckoutHandler) State(c *gin.Context) {
	response.OK(c, "Checkout retrieved successfully", h.builder.State())
}

// Lookup opens the product lookup dialog
// @Summary Look up a product by code
// @Tags checkout
// @Accept json
// @Produce json
// @Param request body request.LookupRequest true "Product code"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /checkout/lookup [post]
func (h *CheckoutHandler) Lookup(c *gin.Context) {
	var req request.LookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	product, err := h.builder.LookupProduct(c.Request.Context(), req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product found", product)
}

// DismissLookup closes the lookup dialog
func (h *CheckoutHandler) DismissLookup(c *gin.Context) {
	h.builder.DismissLookup()
	response.OK(c, "Lookup dismissed", h.builder.State())
}

// AddLine adds the looked-up product, or the product with the given code
// @Summary Add a line to the pending sale
// @Tags checkout
// @Accept json
// @Produce json
// @Param request body request.AddLineRequest true "Line"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Router /checkout/lines [post]
func (h *CheckoutHandler) AddLine(c *gin.Context) {
	var req request.AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	var (
		state service.CheckoutState
		err   error
	)
	if code := strings.TrimSpace(req.Code); code != "" {
		product, lookupErr := h.productService.GetProduct(c.Request.Context(), code)
		if lookupErr != nil {
			response.Error(c, lookupErr)
			return
		}
		state, err = h.builder.AddLine(*product, req.Quantity)
	} else {
		state, err = h.builder.AddLookedUp(req.Quantity)
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product added", state)
}

// RemoveLine removes one line of the pending sale
func (h *CheckoutHandler) RemoveLine(c *gin.Context) {
	index, ok := indexParam(c, "index")
	if !ok {
		return
	}
	state, err := h.builder.RemoveLine(index)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Product removed", state)
}

// Cancel empties the pending sale
func (h *CheckoutHandler) Cancel(c *gin.Context) {
	state, err := h.builder.Cancel()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Sale cancelled", state)
}

// Finalize submits the pending sale to the backend
// @Summary Finalize the pending sale
// @Tags checkout
// @Produce json
// @Param Idempotency-Key header string false "Replay guard"
// @Success 201 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /checkout/finalize [post]
func (h *CheckoutHandler) Finalize(c *gin.Context) {
	sale, err := h.builder.Finalize(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale registered successfully", gin.H{
		"sale":  sale,
		"state": h.builder.State(),
	})
}

// OptInReceipt answers yes to the receipt prompt
func (h *CheckoutHandler) OptInReceipt(c *gin.Context) {
	state, err := h.builder.OptInReceipt()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Enter the customer details", state)
}

// DeclineReceipt answers no to the receipt prompt
func (h *CheckoutHandler) DeclineReceipt(c *gin.Context) {
	state, err := h.builder.DeclineReceipt()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt skipped", state)
}

// CancelReceipt closes the customer form without a receipt
func (h *CheckoutHandler) CancelReceipt(c *gin.Context) {
	state, err := h.builder.CancelReceipt()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt cancelled", state)
}

// SetCustomerField applies one change to the customer form
func (h *CheckoutHandler) SetCustomerField(c *gin.Context) {
	var req request.CustomerFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	state, err := h.builder.SetCustomerField(req.Field, req.Value)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Customer form updated", state)
}

// BlurNationalID validates the national ID when its field loses focus
func (h *CheckoutHandler) BlurNationalID(c *gin.Context) {
	state, err := h.builder.BlurNationalID()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "National ID checked", state)
}

// LookupCustomer fills the form with a known customer
func (h *CheckoutHandler) LookupCustomer(c *gin.Context) {
	customer, err := h.builder.LookupCustomer(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Customer found", gin.H{
		"customer": customer,
		"state":    h.builder.State(),
	})
}

// CreateReceipt issues the receipt of the last sale
// @Summary Create the customer receipt
// @Tags checkout
// @Produce json
// @Param Idempotency-Key header string false "Replay guard"
// @Success 201 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Router /checkout/receipt [post]
func (h *CheckoutHandler) CreateReceipt(c *gin.Context) {
	receipt, err := h.builder.CreateReceipt(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Receipt created successfully", gin.H{
		"receipt": receipt,
		"state":   h.builder.State(),
	})
}

// ReceiptDocument downloads the PDF of a receipt
// @Summary Download a receipt
// @Tags checkout
// @Produce application/pdf
// @Param id path string true "Receipt ID"
// @Router /checkout/receipts/{id}/document [get]
func (h *CheckoutHandler) ReceiptDocument(c *gin.Context) {
	doc, fileName, err := h.builder.ReceiptDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, fileName, "application/pdf", doc)
}
