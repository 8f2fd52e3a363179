package entity

import (
	"time"

	"github.com/sangkips/pos-console/pkg/apperror"
	"github.com/sangkips/pos-console/pkg/money"
	"github.com/shopspring/decimal"
)

// Seller identifies who recorded a sale
type Seller struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// OwnSalesSeller labels the sales of the logged-in operator when the backend returns them
// ungrouped
func OwnSalesSeller(userID string) Seller {
	return Seller{ID: userID, FirstName: "Mis", LastName: "Ventas"}
}

// SaleItem is one product line of a recorded sale
type SaleItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// IsComplete reports whether the item carries enough product details to be edited
func (i *SaleItem) IsComplete() bool {
	return i.Product.Name != "" && i.Product.Price != 0
}

// SaleRecord is a sale already stored by the backend
type SaleRecord struct {
	ID     string     `json:"id"`
	Date   time.Time  `json:"date"`
	Seller Seller     `json:"seller"`
	Items  []SaleItem `json:"items"`
	Total  float64    `json:"total"`
}

// SalesGroup holds the sales of one seller
type SalesGroup struct {
	Seller     Seller       `json:"seller"`
	Sales      []SaleRecord `json:"sales"`
	TotalSales float64      `json:"total_sales"`
}

// SaleDraft is the editable copy of a recorded sale
type SaleDraft struct {
	SaleID string          `json:"sale_id"`
	Seller Seller          `json:"seller"`
	Items  []SaleItem      `json:"items"`
	Total  decimal.Decimal `json:"total"`
}

// NewSaleDraft copies record into a draft
func NewSaleDraft(record SaleRecord) *SaleDraft {
	d := &SaleDraft{
		SaleID: record.ID,
		Seller: record.Seller,
		Items:  make([]SaleItem, len(record.Items)),
	}
	copy(d.Items, record.Items)
	d.Recalculate()
	return d
}

// Recalculate sets the draft total to round2(Σ round2(qty × price))
func (d *SaleDraft) Recalculate() decimal.Decimal {
	totals := make([]decimal.Decimal, 0, len(d.Items))
	for _, item := range d.Items {
		totals = append(totals, money.LineTotal(item.Product.UnitPrice(), item.Quantity))
	}
	d.Total = money.Sum(totals...)
	return d.Total
}

func (d *SaleDraft) checkIndex(index int) error {
	if index < 0 || index >= len(d.Items) {
		return apperror.NewFieldError("index", "No product at that position")
	}
	return nil
}

// SetQuantity changes the quantity of the item at index
func (d *SaleDraft) SetQuantity(index, quantity int) error {
	if err := d.checkIndex(index); err != nil {
		return err
	}
	if quantity < 1 {
		return apperror.NewFieldError("quantity", "Quantity must be at least 1")
	}
	d.Items[index].Quantity = quantity
	d.Recalculate()
	return nil
}

// Remove drops the item at index
func (d *SaleDraft) Remove(index int) error {
	if err := d.checkIndex(index); err != nil {
		return err
	}
	d.Items = append(d.Items[:index:index], d.Items[index+1:]...)
	d.Recalculate()
	return nil
}

// AddProduct adds quantity of p, merging into an existing item with the same code
func (d *SaleDraft) AddProduct(p Product, quantity int) error {
	if quantity < 1 {
		return apperror.NewFieldError("quantity", "Quantity must be at least 1")
	}
	for i := range d.Items {
		if d.Items[i].Product.Code == p.Code {
			d.Items[i].Quantity += quantity
			d.Recalculate()
			return nil
		}
	}
	d.Items = append(d.Items, SaleItem{Product: p, Quantity: quantity})
	d.Recalculate()
	return nil
}
