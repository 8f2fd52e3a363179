package backend

import (
	"context"
	"net/http"

	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/internal/domain/repository"
	"github.com/sangkips/pos-console/pkg/apperror"
)

type customerRepository struct {
	client *Client
}

// NewCustomerRepository creates a new customer directory repository
func NewCustomerRepository(client *Client) repository.CustomerRepository {
	return &customerRepository{client: client}
}

func (r *customerRepository) GetByNationalID(ctx context.Context, nationalID string) (*entity.Customer, error) {
	var env customerEnvelope
	err := r.client.do(ctx, request{
		method:   http.MethodGet,
		path:     pathf("/verificar-cliente/%s", nationalID),
		resource: "Customer",
		fallback: "An error occurred while looking up the customer",
	}, &env)
	if err != nil {
		return nil, err
	}
	if env.Customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	c := env.Customer.toEntity()
	return &c, nil
}

type receiptRepository struct {
	client *Client
}

// NewReceiptRepository creates a new receipt repository
func NewReceiptRepository(client *Client) repository.ReceiptRepository {
	return &receiptRepository{client: client}
}

func (r *receiptRepository) Create(ctx context.Context, saleID string, customer entity.Customer, total float64) (string, error) {
	var resp createReceiptResponse
	err := r.client.do(ctx, request{
		method: http.MethodPost,
		path:   "/create-nota",
		body: createReceiptRequest{
			SaleID: saleID,
			Customer: customerDTO{
				Name:       customer.Name,
				NationalID: customer.NationalID,
				Phone:      customer.Phone,
				Address:    customer.Address,
			},
			Total: total,
		},
		fallback: "Could not create the receipt, please try again",
	}, &resp)
	if err != nil {
		return "", err
	}
	// validation failures may come back with a 2xx status
	if len(resp.Errors) > 0 {
		return "", apperror.NewServerError(http.StatusUnprocessableEntity, joinMessages(resp.Errors), "Could not create the receipt, please try again")
	}
	if resp.Receipt == nil || resp.Receipt.ID == "" {
		return "", apperror.NewServerError(http.StatusOK, "", "Could not create the receipt, please try again")
	}
	return resp.Receipt.ID, nil
}

func (r *receiptRepository) Document(ctx context.Context, receiptID string) ([]byte, error) {
	return r.client.download(ctx, request{
		method:   http.MethodGet,
		path:     pathf("/nota-pdf/%s", receiptID),
		resource: "Receipt",
		fallback: "Could not generate the PDF, please try again",
	})
}
