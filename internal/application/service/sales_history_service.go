package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/internal/domain/enum"
	"github.com/sangkips/pos-console/internal/domain/repository"
	"github.com/sangkips/pos-console/pkg/apperror"
)

var errNoDraft = apperror.NewConflictError("No sale is open for editing")

// OpenSale is the sale shown in the history detail dialog
type OpenSale struct {
	Draft    *entity.SaleDraft `json:"draft"`
	Editable bool              `json:"editable"`
}

// SalesHistoryService lists recorded sales and edits one of them at a time
type SalesHistoryService struct {
	sales    repository.SaleRepository
	products repository.ProductRepository
	logger   *slog.Logger

	mu       sync.Mutex
	draft    *entity.SaleDraft
	editable bool
}

// NewSalesHistoryService creates a new sales history service
func NewSalesHistoryService(sales repository.SaleRepository, products repository.ProductRepository, logger *slog.Logger) *SalesHistoryService {
	return &SalesHistoryService{
		sales:    sales,
		products: products,
		logger:   logger.With("component", "sales_history"),
	}
}

// ListHistory returns the sales visible to actor grouped by seller
func (s *SalesHistoryService) ListHistory(ctx context.Context, actor *entity.User) ([]entity.SalesGroup, error) {
	if actor == nil || !actor.Can(enum.CapViewSalesHistory) {
		return nil, apperror.ErrForbidden
	}
	groups, err := s.sales.ListHistory(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, apperror.NewNotFoundError("Sales")
	}
	return groups, nil
}

func (s *SalesHistoryService) findSale(ctx context.Context, actor *entity.User, saleID string) (*entity.SaleRecord, error) {
	groups, err := s.ListHistory(ctx, actor)
	if err != nil {
		return nil, err
	}
	for _, g := range groups {
		for i := range g.Sales {
			if g.Sales[i].ID == saleID {
				return &g.Sales[i], nil
			}
		}
	}
	return nil, apperror.NewNotFoundError("Sale")
}

// CanEdit reports whether actor may change sale
func CanEdit(actor *entity.User, sale *entity.SaleRecord) bool {
	if actor == nil {
		return false
	}
	if actor.Can(enum.CapEditAnySale) {
		return true
	}
	return actor.Can(enum.CapEditOwnSales) && sale.Seller.ID != "" && sale.Seller.ID == actor.ID
}

// Open loads a sale into the detail dialog. Items missing product details are completed
// from the catalog; a failed lookup keeps the item as recorded. The draft is editable only
// when edit is requested and actor may edit the sale.
func (s *SalesHistoryService) Open(ctx context.Context, actor *entity.User, saleID string, edit bool) (*OpenSale, error) {
	record, err := s.findSale(ctx, actor, saleID)
	if err != nil {
		return nil, err
	}

	draft := entity.NewSaleDraft(*record)
	for i := range draft.Items {
		item := &draft.Items[i]
		if item.IsComplete() || item.Product.Code == "" {
			continue
		}
		p, err := s.products.GetByCode(ctx, item.Product.Code)
		if err != nil {
			s.logger.Warn("could not complete sale item", "sale_id", saleID, "code", item.Product.Code, "error", err)
			continue
		}
		item.Product = *p
	}
	draft.Recalculate()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = draft
	s.editable = edit && CanEdit(actor, record)
	return s.openLocked(actor), nil
}

func (s *SalesHistoryService) openLocked(actor *entity.User) *OpenSale {
	d := *s.draft
	d.Items = append([]entity.SaleItem(nil), s.draft.Items...)
	return &OpenSale{Draft: &d, Editable: s.editable && s.canEditDraftLocked(actor)}
}

func (s *SalesHistoryService) canEditDraftLocked(actor *entity.User) bool {
	return CanEdit(actor, &entity.SaleRecord{ID: s.draft.SaleID, Seller: s.draft.Seller})
}

// editLocked checks that a draft is open for editing and that actor may still change it
func (s *SalesHistoryService) editLocked(actor *entity.User) error {
	if s.draft == nil {
		return errNoDraft
	}
	if !s.editable || !s.canEditDraftLocked(actor) {
		return apperror.ErrForbidden
	}
	return nil
}

// Current returns the open sale as seen by actor
func (s *SalesHistoryService) Current(actor *entity.User) (*OpenSale, error) {
	if actor == nil || !actor.Can(enum.CapViewSalesHistory) {
		return nil, apperror.ErrForbidden
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return nil, errNoDraft
	}
	return s.openLocked(actor), nil
}

// SetQuantity changes the quantity of one item of the open sale
func (s *SalesHistoryService) SetQuantity(actor *entity.User, index, quantity int) (*OpenSale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editLocked(actor); err != nil {
		return nil, err
	}
	if err := s.draft.SetQuantity(index, quantity); err != nil {
		return nil, err
	}
	return s.openLocked(actor), nil
}

// RemoveItem drops one item of the open sale
func (s *SalesHistoryService) RemoveItem(actor *entity.User, index int) (*OpenSale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editLocked(actor); err != nil {
		return nil, err
	}
	if err := s.draft.Remove(index); err != nil {
		return nil, err
	}
	return s.openLocked(actor), nil
}

// AddProduct looks up code in the catalog and adds it to the open sale
func (s *SalesHistoryService) AddProduct(ctx context.Context, actor *entity.User, code string, quantity int) (*OpenSale, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperror.NewFieldError("code", "The barcode cannot be empty")
	}
	if quantity < 1 {
		return nil, apperror.NewFieldError("quantity", "Quantity must be at least 1")
	}

	s.mu.Lock()
	err := s.editLocked(actor)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	p, err := s.products.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editLocked(actor); err != nil {
		return nil, err
	}
	if err := s.draft.AddProduct(*p, quantity); err != nil {
		return nil, err
	}
	return s.openLocked(actor), nil
}

// Save sends the open sale to the backend and closes it
func (s *SalesHistoryService) Save(ctx context.Context, actor *entity.User) (*entity.SaleDraft, error) {
	s.mu.Lock()
	if err := s.editLocked(actor); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	draft := *s.draft
	draft.Items = append([]entity.SaleItem(nil), s.draft.Items...)
	s.mu.Unlock()

	if len(draft.Items) == 0 {
		return nil, apperror.ErrEmptySale
	}
	if err := s.sales.Update(ctx, draft.SaleID, draft.Items); err != nil {
		s.logger.Warn("sale update failed", "sale_id", draft.SaleID, "error", err)
		return nil, err
	}

	s.mu.Lock()
	if s.draft != nil && s.draft.SaleID == draft.SaleID {
		s.draft = nil
		s.editable = false
	}
	s.mu.Unlock()
	s.logger.Info("sale updated", "sale_id", draft.SaleID, "total", draft.Total.StringFixed(2))
	return &draft, nil
}

// Close discards the open sale
func (s *SalesHistoryService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = nil
	s.editable = false
}

// Delete removes a recorded sale
func (s *SalesHistoryService) Delete(ctx context.Context, actor *entity.User, saleID string) error {
	if actor == nil || !actor.Can(enum.CapDeleteSales) {
		return apperror.ErrForbidden
	}
	if strings.TrimSpace(saleID) == "" {
		return apperror.NewFieldError("id", "Sale id is required")
	}
	if err := s.sales.Delete(ctx, saleID); err != nil {
		return err
	}

	s.mu.Lock()
	if s.draft != nil && s.draft.SaleID == saleID {
		s.draft = nil
		s.editable = false
	}
	s.mu.Unlock()
	return nil
}
