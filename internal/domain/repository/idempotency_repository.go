package repository

import (
	"context"
	"time"

	"github.com/sangkips/pos-console/internal/domain/entity"
)

// IdempotencyRepository defines the interface for idempotency key operations
type IdempotencyRepository interface {
	// GetByKey returns nil and no error when the key is unknown
	GetByKey(ctx context.Context, key, userID string) (*entity.IdempotencyKey, error)
	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
	// DeleteExpired removes keys expired at now
	DeleteExpired(ctx context.Context, now time.Time) error
}
