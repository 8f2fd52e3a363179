package backend

import (
	"context"
	"net/http"

	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/internal/domain/repository"
	"github.com/sangkips/pos-console/pkg/apperror"
)

type saleRepository struct {
	client *Client
}

// NewSaleRepository creates a new sales ledger repository
func NewSaleRepository(client *Client) repository.SaleRepository {
	return &saleRepository{client: client}
}

func (r *saleRepository) Create(ctx context.Context, lines []entity.PendingSaleLine, total float64) (string, error) {
	var resp createSaleResponse
	err := r.client.do(ctx, request{
		method:   http.MethodPost,
		path:     "/create-venta",
		body:     newCreateSaleRequest(lines, total),
		fallback: "Could not create the sale",
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.Sale == nil || resp.Sale.ID == "" {
		return "", apperror.NewServerError(http.StatusOK, "", "Could not create the sale")
	}
	return resp.Sale.ID, nil
}

func (r *saleRepository) ListHistory(ctx context.Context, ownerID string) ([]entity.SalesGroup, error) {
	var env historyEnvelope
	err := r.client.do(ctx, request{
		method:   http.MethodGet,
		path:     "/get-ventas",
		fallback: "Could not load the sales",
	}, &env)
	if err != nil {
		return nil, err
	}
	if env.Sales == nil {
		return nil, apperror.NewNotFoundError("Sales")
	}
	return groupHistory(*env.Sales, ownerID), nil
}

func (r *saleRepository) Update(ctx context.Context, saleID string, items []entity.SaleItem) error {
	return r.client.do(ctx, request{
		method:   http.MethodPut,
		path:     pathf("/update-venta/%s", saleID),
		body:     newUpdateSaleRequest(items),
		resource: "Sale",
		fallback: "Could not update the sale",
	}, nil)
}

func (r *saleRepository) Delete(ctx context.Context, saleID string) error {
	return r.client.do(ctx, request{
		method:   http.MethodDelete,
		path:     pathf("/delete-venta/%s", saleID),
		resource: "Sale",
		fallback: "Could not delete the sale",
	}, nil)
}
