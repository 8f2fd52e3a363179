package repository

import (
	"context"

	"github.com/sangkips/pos-console/internal/domain/entity"
)

// UserRepository defines the user administration operations of the backend
type UserRepository interface {
	List(ctx context.Context) ([]entity.User, error)
	Create(ctx context.Context, form *entity.UserForm) error
	Update(ctx context.Context, id string, form *entity.UserForm) error
	Delete(ctx context.Context, id string) error
}
