package service

import (
	"context"
	"sort"
	"strings"

	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/internal/domain/enum"
	"github.com/sangkips/pos-console/internal/domain/repository"
	"github.com/sangkips/pos-console/pkg/apperror"
	"github.com/sangkips/pos-console/pkg/pagination"
)

// ProductService handles product-related operations
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// ProductFilterParams filters the catalog table
type ProductFilterParams struct {
	Pagination *pagination.PaginationParams
	// Search matches code or name, case-insensitively
	Search   string
	Category string
}

// ListProducts returns one page of the catalog, sorted by name
func (s *ProductService) ListProducts(ctx context.Context, params *ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	if params == nil {
		params = &ProductFilterParams{}
	}
	search := strings.ToLower(strings.TrimSpace(params.Search))
	filtered := make([]entity.Product, 0, len(products))
	for _, p := range products {
		if params.Category != "" && !strings.EqualFold(p.Category, params.Category) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Code), search) {
			continue
		}
		filtered = append(filtered, p)
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return strings.ToLower(filtered[i].Name) < strings.ToLower(filtered[j].Name)
	})

	return pagination.Paginate(filtered, params.Pagination), nil
}

// GetProduct retrieves a product by barcode
func (s *ProductService) GetProduct(ctx context.Context, code string) (*entity.Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperror.NewFieldError("code", "Please enter the barcode to search")
	}
	return s.productRepo.GetByCode(ctx, code)
}

// EditForm loads a product into the edit form
func (s *ProductService) EditForm(ctx context.Context, code string) (*entity.ProductForm, error) {
	p, err := s.GetProduct(ctx, code)
	if err != nil {
		return nil, err
	}
	form := entity.FormFromProduct(*p)
	return &form, nil
}

func validateProductForm(form *entity.ProductForm, missing string) (*entity.Product, error) {
	if strings.TrimSpace(form.Name) == "" || form.Category == "" || form.Price <= 0 || form.Stock < 0 {
		return nil, apperror.NewValidationError(missing)
	}
	if !enum.IsStandardCategory(form.Category) {
		return nil, apperror.NewFieldError("category", "Please choose a category from the list")
	}
	if form.Category == enum.CustomCategory && strings.TrimSpace(form.CustomCategory) == "" {
		return nil, apperror.NewFieldError("custom_category", "Please enter a custom category")
	}
	return &entity.Product{
		Code:     strings.TrimSpace(form.Code),
		Name:     strings.TrimSpace(form.Name),
		Category: strings.TrimSpace(form.EffectiveCategory()),
		Price:    form.Price,
		Stock:    form.Stock,
	}, nil
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, form *entity.ProductForm) (*entity.Product, error) {
	if strings.TrimSpace(form.Code) == "" {
		return nil, apperror.NewFieldError("code", "The barcode is required")
	}
	product, err := validateProductForm(form, "Please complete all fields to save the product")
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct replaces the product with the given barcode
func (s *ProductService) UpdateProduct(ctx context.Context, code string, form *entity.ProductForm) (*entity.Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperror.NewFieldError("code", "The barcode is required to update the product")
	}
	product, err := validateProductForm(form, "Please complete all fields to update the product")
	if err != nil {
		return nil, err
	}
	if product.Code == "" {
		product.Code = code
	}
	if err := s.productRepo.Update(ctx, code, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct deletes a product. Only roles with the delete capability may do it.
func (s *ProductService) DeleteProduct(ctx context.Context, actor *entity.User, code string) error {
	if actor == nil || !actor.Can(enum.CapDeleteProducts) {
		return apperror.ErrForbidden
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return apperror.NewFieldError("code", "The barcode is required")
	}
	return s.productRepo.Delete(ctx, code)
}

// Categories lists the categories offered by the product form
func (s *ProductService) Categories() []string {
	return append([]string(nil), enum.StandardCategories...)
}
