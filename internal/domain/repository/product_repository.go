package repository

import (
	"context"

	"github.com/sangkips/pos-console/internal/domain/entity"
)

// ProductRepository defines the catalog operations of the backend
type ProductRepository interface {
	// GetByCode returns a NotFound AppError when no product has the code
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	List(ctx context.Context) ([]entity.Product, error)
	Create(ctx context.Context, product *entity.Product) error
	Update(ctx context.Context, code string, product *entity.Product) error
	Delete(ctx context.Context, code string) error
}
