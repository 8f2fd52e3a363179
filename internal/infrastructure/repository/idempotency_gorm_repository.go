package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sangkips/pos-console/internal/domain/entity"
	domainRepo "github.com/sangkips/pos-console/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormIdempotencyRepository struct {
	db *gorm.DB
}

// NewGormIdempotencyRepository keeps idempotency keys in PostgreSQL so a retry after a
// console restart is still answered from the stored response
func NewGormIdempotencyRepository(db *gorm.DB) domainRepo.IdempotencyRepository {
	return &gormIdempotencyRepository{db: db}
}

func (r *gormIdempotencyRepository) GetByKey(ctx context.Context, key, userID string) (*entity.IdempotencyKey, error) {
	var ikey entity.IdempotencyKey
	err := r.db.WithContext(ctx).
		Where("key = ? AND user_id = ?", key, userID).
		First(&ikey).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ikey, nil
}

func (r *gormIdempotencyRepository) Create(ctx context.Context, ikey *entity.IdempotencyKey) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(ikey).Error
}

func (r *gormIdempotencyRepository) DeleteExpired(ctx context.Context, now time.Time) error {
	return r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&entity.IdempotencyKey{}).Error
}
