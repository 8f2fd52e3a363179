// Package repository holds the stores the console owns, as opposed to the backend-backed
// repositories in package backend.
package repository

import (
	"context"
	"sync"
	"time"

	"github.com/sangkips/pos-console/internal/domain/entity"
	domainRepo "github.com/sangkips/pos-console/internal/domain/repository"
)

type idempotencyKeyID struct {
	key    string
	userID string
}

type idempotencyRepository struct {
	mu   sync.Mutex
	keys map[idempotencyKeyID]entity.IdempotencyKey
}

// NewIdempotencyRepository creates an in-memory idempotency repository. Keys do not
// survive a restart.
func NewIdempotencyRepository() domainRepo.IdempotencyRepository {
	return &idempotencyRepository{keys: make(map[idempotencyKeyID]entity.IdempotencyKey)}
}

func (r *idempotencyRepository) GetByKey(_ context.Context, key, userID string) (*entity.IdempotencyKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ikey, ok := r.keys[idempotencyKeyID{key: key, userID: userID}]
	if !ok {
		return nil, nil
	}
	ikey.ResponseBody = append([]byte(nil), ikey.ResponseBody...)
	return &ikey, nil
}

func (r *idempotencyRepository) Create(_ context.Context, ikey *entity.IdempotencyKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *ikey
	stored.ResponseBody = append([]byte(nil), ikey.ResponseBody...)
	r.keys[idempotencyKeyID{key: ikey.Key, userID: ikey.UserID}] = stored
	return nil
}

func (r *idempotencyRepository) DeleteExpired(_ context.Context, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, ikey := range r.keys {
		if ikey.IsExpired(now) {
			delete(r.keys, id)
		}
	}
	return nil
}
