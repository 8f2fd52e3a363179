package entity

import (
	"fmt"
	"time"

	"github.com/sangkips/pos-console/pkg/apperror"
	"github.com/sangkips/pos-console/pkg/money"
	"github.com/shopspring/decimal"
)

// PendingSaleLine is one scanned product of the sale being built
type PendingSaleLine struct {
	ProductCode string          `json:"product_code"`
	Description string          `json:"description"`
	Category    string          `json:"category,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
	// Stock is the availability seen at the last lookup of this code
	Stock int `json:"stock"`
}

func (l *PendingSaleLine) recompute() {
	l.LineTotal = money.LineTotal(l.UnitPrice, l.Quantity)
}

// PendingSale is the in-progress transaction. It has a single owner and no locking of
// its own; the sale builder serializes access.
type PendingSale struct {
	Lines      []PendingSaleLine `json:"lines"`
	GrandTotal decimal.Decimal   `json:"grand_total"`
}

// NewPendingSale returns an empty sale
func NewPendingSale() *PendingSale {
	return &PendingSale{Lines: []PendingSaleLine{}, GrandTotal: money.Zero}
}

// IsEmpty reports whether the sale has no lines
func (s *PendingSale) IsEmpty() bool {
	return len(s.Lines) == 0
}

// AddLine adds quantity units of product. A code already in the sale has its quantity
// increased instead of getting a second line. On error the sale is unchanged.
func (s *PendingSale) AddLine(product Product, quantity int) error {
	if product.Code == "" {
		return apperror.NewFieldError("product_code", "Please select a product")
	}
	if quantity < 1 {
		return apperror.NewFieldError("quantity", "Quantity must be at least 1")
	}
	if quantity > product.Stock {
		return insufficientStock(product)
	}

	for i := range s.Lines {
		line := &s.Lines[i]
		if line.ProductCode != product.Code {
			continue
		}
		if line.Quantity+quantity > product.Stock {
			return insufficientStock(product)
		}
		line.Quantity += quantity
		line.Stock = product.Stock
		line.recompute()
		s.Recalculate()
		return nil
	}

	line := PendingSaleLine{
		ProductCode: product.Code,
		Description: product.Name,
		Category:    product.Category,
		Quantity:    quantity,
		UnitPrice:   product.UnitPrice(),
		Stock:       product.Stock,
	}
	line.recompute()
	s.Lines = append(s.Lines, line)
	s.Recalculate()
	return nil
}

func insufficientStock(p Product) error {
	return apperror.NewFieldError("quantity", fmt.Sprintf("Insufficient stock for product %s", p.Name))
}

// RemoveLine drops the line at index. An index outside the sale is rejected and the
// sale is left as it was.
func (s *PendingSale) RemoveLine(index int) error {
	if index < 0 || index >= len(s.Lines) {
		return apperror.NewFieldError("index", fmt.Sprintf("No line at position %d", index))
	}
	s.Lines = append(s.Lines[:index:index], s.Lines[index+1:]...)
	s.Recalculate()
	return nil
}

// Recalculate recomputes every line total and the grand total from quantities and unit
// prices (round each line, then round the sum) and returns the grand total.
func (s *PendingSale) Recalculate() decimal.Decimal {
	totals := make([]decimal.Decimal, len(s.Lines))
	for i := range s.Lines {
		s.Lines[i].recompute()
		totals[i] = s.Lines[i].LineTotal
	}
	s.GrandTotal = money.Sum(totals...)
	return s.GrandTotal
}

// Snapshot copies the current lines
func (s *PendingSale) Snapshot() []PendingSaleLine {
	out := make([]PendingSaleLine, len(s.Lines))
	copy(out, s.Lines)
	return out
}

// Reset empties the sale
func (s *PendingSale) Reset() {
	s.Lines = []PendingSaleLine{}
	s.GrandTotal = money.Zero
}

// FinalizedSale is the backend-acknowledged sale. The console keeps the submitted lines
// and total because the pending sale is cleared on success.
type FinalizedSale struct {
	ID        string            `json:"id"`
	Lines     []PendingSaleLine `json:"lines"`
	Total     decimal.Decimal   `json:"total"`
	CreatedAt time.Time         `json:"created_at"`
}
