package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-console/internal/application/service"
	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-console/internal/presentation/http/dto/response"
)

// ProductHandler handles catalog HTTP requests
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

func productForm(req *request.ProductRequest) *entity.ProductForm {
	return &entity.ProductForm{
		Code:           req.Code,
		Name:           req.Name,
		Category:       req.Category,
		CustomCategory: req.CustomCategory,
		Price:          req.Price,
		Stock:          req.Stock,
	}
}

// List handles listing products
// @Summary List products
// @Tags products
// @Produce json
// @Param search query string false "Code or name"
// @Param category query string false "Category"
// @Param page query int false "Page"
// @Param per_page query int false "Items per page"
// @Success 200 {object} response.APIResponse
// @Router /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var filter request.ProductFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.productService.ListProducts(c.Request.Context(), &service.ProductFilterParams{
		Pagination: pageParams(filter.Page, filter.PerPage),
		Search:     filter.Search,
		Category:   filter.Category,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Products retrieved successfully", result)
}

// Get handles getting a product by code
func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.productService.GetProduct(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Product retrieved successfully", product)
}

// EditForm returns the product prepared for the edit form
func (h *ProductHandler) EditForm(c *gin.Context) {
	form, err := h.productService.EditForm(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Product form retrieved successfully", form)
}

// Create handles creating a product
// @Summary Create product
// @Tags products
// @Accept json
// @Produce json
// @Param request body request.ProductRequest true "Product"
// @Success 201 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Router /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req request.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), productForm(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Product created successfully", product)
}

// Update handles updating a product
func (h *ProductHandler) Update(c *gin.Context) {
	var req request.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), c.Param("code"), productForm(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product updated successfully", product)
}

// Delete handles deleting a product
func (h *ProductHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.productService.DeleteProduct(c.Request.Context(), user, c.Param("code")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Product deleted successfully", nil)
}

// Categories lists the standard categories of the product form
func (h *ProductHandler) Categories(c *gin.Context) {
	response.OK(c, "Categories retrieved successfully", h.productService.Categories())
}
