package backend

import (
	"context"
	"net/http"

	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/internal/domain/repository"
	"github.com/sangkips/pos-console/pkg/apperror"
)

type productRepository struct {
	client *Client
}

// NewProductRepository creates a new catalog repository
func NewProductRepository(client *Client) repository.ProductRepository {
	return &productRepository{client: client}
}

func (r *productRepository) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	var env productEnvelope
	err := r.client.do(ctx, request{
		method:   http.MethodGet,
		path:     pathf("/get-product-barra/%s", code),
		resource: "Product",
		fallback: "Could not look up the product",
	}, &env)
	if err != nil {
		return nil, err
	}
	if env.Product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	p := env.Product.toEntity()
	return &p, nil
}

func (r *productRepository) List(ctx context.Context) ([]entity.Product, error) {
	var env productsEnvelope
	err := r.client.do(ctx, request{
		method:   http.MethodGet,
		path:     "/get-products",
		fallback: "Could not load the products",
	}, &env)
	if err != nil {
		return nil, err
	}
	products := make([]entity.Product, 0, len(env.Products))
	for _, p := range env.Products {
		products = append(products, p.toEntity())
	}
	return products, nil
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	return r.client.do(ctx, request{
		method:   http.MethodPost,
		path:     "/create-product",
		body:     productFromEntity(product),
		fallback: "Could not create the product",
	}, nil)
}

func (r *productRepository) Update(ctx context.Context, code string, product *entity.Product) error {
	return r.client.do(ctx, request{
		method:   http.MethodPut,
		path:     pathf("/update-product/%s", code),
		body:     productFromEntity(product),
		resource: "Product",
		fallback: "Could not update the product",
	}, nil)
}

func (r *productRepository) Delete(ctx context.Context, code string) error {
	return r.client.do(ctx, request{
		method:   http.MethodDelete,
		path:     pathf("/delete-product/%s", code),
		resource: "Product",
		fallback: "Could not delete the product",
	}, nil)
}
