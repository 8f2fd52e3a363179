package repository

import (
	"context"

	"github.com/sangkips/pos-console/internal/domain/entity"
)

// CustomerRepository defines the customer directory operations of the backend
type CustomerRepository interface {
	// GetByNationalID returns a NotFound AppError when the customer is unknown
	GetByNationalID(ctx context.Context, nationalID string) (*entity.Customer, error)
}

// ReceiptRepository defines the receipt (nota de venta) operations of the backend
type ReceiptRepository interface {
	// Create issues a receipt for saleID and returns its id
	Create(ctx context.Context, saleID string, customer entity.Customer, total float64) (string, error)
	// Document downloads the PDF of a receipt
	Document(ctx context.Context, receiptID string) ([]byte, error)
}
