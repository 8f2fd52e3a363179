package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/internal/domain/enum"
	"github.com/sangkips/pos-console/internal/domain/repository"
	"github.com/sangkips/pos-console/pkg/apperror"
	"github.com/sangkips/pos-console/pkg/money"
	"github.com/shopspring/decimal"
)

var (
	errReceiptPromptOpen = apperror.NewConflictError("Choose whether to issue a receipt for the last sale first")
	errNoReceiptStep     = apperror.NewConflictError("There is no sale waiting for a receipt")
	errReceiptInFlight   = apperror.NewConflictError("A receipt is already being created")
)

// CheckoutState is a snapshot of the checkout for the UI
type CheckoutState struct {
	Phase      enum.CheckoutPhase       `json:"phase"`
	Lines      []entity.PendingSaleLine `json:"lines"`
	GrandTotal decimal.Decimal          `json:"grand_total"`
	// Lookup is the product shown in the open lookup dialog
	Lookup       *entity.Product         `json:"lookup,omitempty"`
	Submitting   bool                    `json:"submitting"`
	LastSale     *entity.FinalizedSale   `json:"last_sale,omitempty"`
	CustomerForm *entity.CustomerForm    `json:"customer_form,omitempty"`
	Receipt      *entity.CustomerReceipt `json:"receipt,omitempty"`
}

// SaleBuilder owns the single in-progress checkout of the console: the pending sale, the
// product lookup dialog and the optional customer receipt that follows a sale.
//
// All state changes happen under mu. Backend calls are made with mu released; a lookup
// generation counter drops lookup answers that arrive after their dialog was closed, a
// reset generation drops any backend answer that arrives after Reset, and the submitting
// flag rejects a second finalize while one is in flight.
type SaleBuilder struct {
	products  repository.ProductRepository
	sales     repository.SaleRepository
	customers repository.CustomerRepository
	receipts  repository.ReceiptRepository
	logger    *slog.Logger
	now       func() time.Time

	mu            sync.Mutex
	phase         enum.CheckoutPhase
	sale          *entity.PendingSale
	lookup        *entity.Product
	lookupGen     uint64
	resetGen      uint64
	submitting    bool
	last          *entity.FinalizedSale
	form          *entity.CustomerForm
	receipt       *entity.CustomerReceipt
	receiptActive bool
}

// NewSaleBuilder creates an empty checkout
func NewSaleBuilder(
	products repository.ProductRepository,
	sales repository.SaleRepository,
	customers repository.CustomerRepository,
	receipts repository.ReceiptRepository,
	logger *slog.Logger,
) *SaleBuilder {
	return &SaleBuilder{
		products:  products,
		sales:     sales,
		customers: customers,
		receipts:  receipts,
		logger:    logger.With("component", "sale_builder"),
		now:       time.Now,
		phase:     enum.PhaseEmpty,
		sale:      entity.NewPendingSale(),
		form:      entity.NewCustomerForm(),
	}
}

// State returns a copy of the checkout
func (b *SaleBuilder) State() CheckoutState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stateLocked()
}

func (b *SaleBuilder) stateLocked() CheckoutState {
	st := CheckoutState{
		Phase:      b.phase,
		Lines:      b.sale.Snapshot(),
		GrandTotal: b.sale.GrandTotal,
		Submitting: b.submitting,
	}
	if b.lookup != nil {
		p := *b.lookup
		st.Lookup = &p
	}
	if b.last != nil {
		last := *b.last
		st.LastSale = &last
	}
	if b.phase == enum.PhaseReceiptPending {
		form := *b.form
		form.FieldErrors = make(map[string]string, len(b.form.FieldErrors))
		for k, v := range b.form.FieldErrors {
			form.FieldErrors[k] = v
		}
		st.CustomerForm = &form
	}
	if b.receipt != nil {
		r := *b.receipt
		st.Receipt = &r
	}
	return st
}

// LookupProduct queries the catalog by code and opens the lookup dialog with the result.
// The pending sale is not touched. A lookup answered after DismissLookup or a newer
// lookup returns ErrLookupDiscarded.
func (b *SaleBuilder) LookupProduct(ctx context.Context, code string) (*entity.Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperror.NewFieldError("code", "Please enter a product code")
	}

	b.mu.Lock()
	b.lookupGen++
	gen := b.lookupGen
	b.lookup = nil
	b.mu.Unlock()

	product, err := b.products.GetByCode(ctx, code)
	if err != nil {
		if apperror.IsKind(err, apperror.KindNotFound) {
			return nil, apperror.NewNotFoundError("Product")
		}
		b.logger.Warn("product lookup failed", "code", code, "error", err)
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.lookupGen {
		b.logger.Debug("discarding late lookup", "code", code)
		return nil, apperror.ErrLookupDiscarded
	}
	p := *product
	b.lookup = &p
	return product, nil
}

// DismissLookup closes the lookup dialog. A lookup still in flight is discarded.
func (b *SaleBuilder) DismissLookup() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lookupGen++
	b.lookup = nil
}

// AddLookedUp adds the product of the open lookup dialog and closes it
func (b *SaleBuilder) AddLookedUp(quantity int) (CheckoutState, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.lookup == nil {
		return b.stateLocked(), apperror.NewFieldError("product_code", "Please look up a product first")
	}
	if err := b.addLocked(*b.lookup, quantity); err != nil {
		return b.stateLocked(), err
	}
	b.lookup = nil
	b.lookupGen++
	return b.stateLocked(), nil
}

// AddLine adds quantity units of product to the pending sale. A code already in the sale
// has its quantity increased.
func (b *SaleBuilder) AddLine(product entity.Product, quantity int) (CheckoutState, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.addLocked(product, quantity); err != nil {
		return b.stateLocked(), err
	}
	return b.stateLocked(), nil
}

func (b *SaleBuilder) checkLinesEditable() error {
	if b.submitting {
		return apperror.ErrSubmitInFlight
	}
	if !b.phase.AllowsLineChanges() {
		return errReceiptPromptOpen
	}
	return nil
}

func (b *SaleBuilder) addLocked(product entity.Product, quantity int) error {
	if err := b.checkLinesEditable(); err != nil {
		return err
	}
	if err := b.sale.AddLine(product, quantity); err != nil {
		return err
	}
	if b.phase != enum.PhaseBuilding {
		b.receipt = nil
		b.phase = enum.PhaseBuilding
	}
	return nil
}

// RemoveLine removes the line at index. An index outside the sale is a validation error
// and leaves the sale unchanged.
func (b *SaleBuilder) RemoveLine(index int) (CheckoutState, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkLinesEditable(); err != nil {
		return b.stateLocked(), err
	}
	if err := b.sale.RemoveLine(index); err != nil {
		return b.stateLocked(), err
	}
	if b.sale.IsEmpty() {
		b.phase = enum.PhaseEmpty
	}
	return b.stateLocked(), nil
}

// Cancel discards the pending sale
func (b *SaleBuilder) Cancel() (CheckoutState, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkLinesEditable(); err != nil {
		return b.stateLocked(), err
	}
	b.sale.Reset()
	b.lookup = nil
	b.lookupGen++
	b.receipt = nil
	b.phase = enum.PhaseEmpty
	return b.stateLocked(), nil
}

// Finalize submits the pending sale. On success the pending sale is cleared and the
// returned FinalizedSale keeps the submitted lines and total. On failure the pending sale
// is left as it was.
func (b *SaleBuilder) Finalize(ctx context.Context) (*entity.FinalizedSale, error) {
	b.mu.Lock()
	if err := b.checkLinesEditable(); err != nil {
		b.mu.Unlock()
		return nil, err
	}
	if b.sale.IsEmpty() {
		b.mu.Unlock()
		return nil, apperror.ErrEmptySale
	}
	total := b.sale.Recalculate()
	lines := b.sale.Snapshot()
	b.submitting = true
	gen := b.resetGen
	b.mu.Unlock()

	id, err := b.sales.Create(ctx, lines, money.Float(total))

	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.resetGen {
		b.logger.Warn("sale answer arrived after checkout reset", "sale_id", id, "error", err)
		return nil, apperror.ErrCheckoutReset
	}
	b.submitting = false

	if err != nil {
		b.logger.Warn("sale submission failed", "lines", len(lines), "total", total.StringFixed(money.Places), "error", err)
		return nil, err
	}

	finalized := &entity.FinalizedSale{ID: id, Lines: lines, Total: total, CreatedAt: b.now()}
	b.last = finalized
	b.sale.Reset()
	b.lookup = nil
	b.lookupGen++
	b.receipt = nil
	b.form.Reset()
	b.phase = enum.PhaseSubmitted
	b.logger.Info("sale finalized", "sale_id", id, "lines", len(lines), "total", total.StringFixed(money.Places))

	out := *finalized
	return &out, nil
}

// LastSale returns the most recent finalized sale
func (b *SaleBuilder) LastSale() (*entity.FinalizedSale, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.last == nil {
		return nil, false
	}
	out := *b.last
	return &out, true
}

// OptInReceipt answers the receipt prompt with yes and opens the customer form
func (b *SaleBuilder) OptInReceipt() (CheckoutState, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.phase != enum.PhaseSubmitted {
		return b.stateLocked(), errNoReceiptStep
	}
	b.form.Reset()
	b.phase = enum.PhaseReceiptPending
	return b.stateLocked(), nil
}

// DeclineReceipt answers the receipt prompt with no
func (b *SaleBuilder) DeclineReceipt() (CheckoutState, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.phase != enum.PhaseSubmitted {
		return b.stateLocked(), errNoReceiptStep
	}
	b.phase = enum.PhaseEmpty
	return b.stateLocked(), nil
}

// CancelReceipt closes the customer form without issuing a receipt
func (b *SaleBuilder) CancelReceipt() (CheckoutState, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.phase != enum.PhaseReceiptPending {
		return b.stateLocked(), errNoReceiptStep
	}
	if b.receiptActive {
		return b.stateLocked(), errReceiptInFlight
	}
	b.form.Reset()
	b.phase = enum.PhaseEmpty
	return b.stateLocked(), nil
}

// SetCustomerField applies one change to the customer form. Input breaking a field rule
// is rejected and not applied.
func (b *SaleBuilder) SetCustomerField(field, value string) (CheckoutState, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.phase != enum.PhaseReceiptPending {
		return b.stateLocked(), errNoReceiptStep
	}
	if b.receiptActive {
		return b.stateLocked(), errReceiptInFlight
	}
	err := b.form.SetField(field, value)
	return b.stateLocked(), err
}

// BlurNationalID runs the national id length check
func (b *SaleBuilder) BlurNationalID() (CheckoutState, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.phase != enum.PhaseReceiptPending {
		return b.stateLocked(), errNoReceiptStep
	}
	if b.receiptActive {
		return b.stateLocked(), errReceiptInFlight
	}
	err := b.form.BlurNationalID()
	return b.stateLocked(), err
}

// LookupCustomer pre-fills the form from the customer directory using the national id
// already typed. An unknown customer is a NotFound error and leaves the form as is.
func (b *SaleBuilder) LookupCustomer(ctx context.Context) (*entity.Customer, error) {
	b.mu.Lock()
	if b.phase != enum.PhaseReceiptPending {
		b.mu.Unlock()
		return nil, errNoReceiptStep
	}
	nationalID := b.form.Customer.NationalID
	_, badID := b.form.FieldErrors[entity.FieldNationalID]
	gen := b.resetGen
	b.mu.Unlock()

	if nationalID == "" || badID {
		return nil, apperror.NewFieldError(entity.FieldNationalID, "Please enter a valid national ID before continuing")
	}

	customer, err := b.customers.GetByNationalID(ctx, nationalID)
	if err != nil {
		if apperror.IsKind(err, apperror.KindNotFound) {
			return nil, apperror.NewAppError(apperror.KindNotFound, 404,
				"No customer with that national ID, please enter the customer details")
		}
		b.logger.Warn("customer lookup failed", "error", err)
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if gen == b.resetGen && b.phase == enum.PhaseReceiptPending && !b.receiptActive {
		b.form.Fill(*customer)
	}
	return customer, nil
}

// CreateReceipt issues the customer receipt for the last finalized sale and downloads its
// document. On failure the form stays populated. A failed download does not undo the
// receipt; the document can be fetched again with ReceiptDocument.
func (b *SaleBuilder) CreateReceipt(ctx context.Context) (*entity.CustomerReceipt, error) {
	b.mu.Lock()
	if b.phase != enum.PhaseReceiptPending || b.last == nil {
		b.mu.Unlock()
		return nil, errNoReceiptStep
	}
	if b.receiptActive {
		b.mu.Unlock()
		return nil, errReceiptInFlight
	}
	if err := b.form.Validate(); err != nil {
		b.mu.Unlock()
		return nil, err
	}
	customer := b.form.Customer
	sale := *b.last
	b.receiptActive = true
	gen := b.resetGen
	b.mu.Unlock()

	id, err := b.receipts.Create(ctx, sale.ID, customer, money.Float(sale.Total))
	if err != nil {
		b.mu.Lock()
		if gen == b.resetGen {
			b.receiptActive = false
		}
		b.mu.Unlock()
		b.logger.Warn("receipt creation failed", "sale_id", sale.ID, "error", err)
		return nil, err
	}

	receipt := &entity.CustomerReceipt{
		ID:       id,
		SaleID:   sale.ID,
		Customer: customer,
		Total:    sale.Total,
		Lines:    sale.Lines,
		FileName: entity.ReceiptFileName(id),
	}
	doc, docErr := b.receipts.Document(ctx, id)
	if docErr != nil {
		b.logger.Warn("receipt document download failed", "receipt_id", id, "error", docErr)
	} else {
		receipt.Document = doc
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.resetGen {
		b.logger.Warn("receipt answer arrived after checkout reset", "receipt_id", id, "sale_id", sale.ID)
		return nil, apperror.ErrCheckoutReset
	}
	b.receiptActive = false
	b.receipt = receipt
	b.form.Reset()
	b.phase = enum.PhaseReceiptCreated
	b.logger.Info("receipt created", "receipt_id", id, "sale_id", sale.ID)

	out := *receipt
	return &out, nil
}

// ReceiptDocument downloads the document of a receipt
func (b *SaleBuilder) ReceiptDocument(ctx context.Context, receiptID string) ([]byte, string, error) {
	b.mu.Lock()
	if b.receipt != nil && b.receipt.ID == receiptID && len(b.receipt.Document) > 0 {
		doc := b.receipt.Document
		b.mu.Unlock()
		return doc, entity.ReceiptFileName(receiptID), nil
	}
	b.mu.Unlock()

	doc, err := b.receipts.Document(ctx, receiptID)
	if err != nil {
		return nil, "", err
	}

	b.mu.Lock()
	if b.receipt != nil && b.receipt.ID == receiptID {
		b.receipt.Document = doc
	}
	b.mu.Unlock()
	return doc, entity.ReceiptFileName(receiptID), nil
}

// Reset drops the whole checkout, used when the session ends
func (b *SaleBuilder) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sale.Reset()
	b.lookup = nil
	b.lookupGen++
	b.resetGen++
	b.submitting = false
	b.last = nil
	b.receipt = nil
	b.receiptActive = false
	b.form.Reset()
	b.phase = enum.PhaseEmpty
}
