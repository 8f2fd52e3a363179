package repository

import (
	"context"

	"github.com/sangkips/pos-console/internal/domain/entity"
)

// SaleRepository defines the sales ledger operations of the backend
type SaleRepository interface {
	// Create submits the lines and total and returns the server-assigned sale id
	Create(ctx context.Context, lines []entity.PendingSaleLine, total float64) (string, error)
	// ListHistory returns the sales visible to the operator, grouped by seller.
	// ownerID is used for the synthetic group when the backend returns a flat list.
	ListHistory(ctx context.Context, ownerID string) ([]entity.SalesGroup, error)
	Update(ctx context.Context, saleID string, items []entity.SaleItem) error
	Delete(ctx context.Context, saleID string) error
}
