package entity

import (
	"github.com/sangkips/pos-console/internal/domain/enum"
	"github.com/sangkips/pos-console/pkg/money"
	"github.com/shopspring/decimal"
)

// Product is a catalog snapshot as returned by the backend at lookup time
type Product struct {
	ID       string  `json:"id,omitempty"`
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
}

// UnitPrice returns the snapshot price rounded to cents
func (p *Product) UnitPrice() decimal.Decimal {
	return money.Round2(p.Price)
}

// CategoryLabel is the category as displayed, with a placeholder when unset
func (p *Product) CategoryLabel() string {
	if p.Category == "" {
		return "No especificada"
	}
	return p.Category
}

// ProductForm is the create/edit form of the catalog screen.
// Category holds a standard category; CustomCategory is only meaningful when
// Category is "Otros".
type ProductForm struct {
	Code           string  `json:"code"`
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	CustomCategory string  `json:"custom_category,omitempty"`
	Price          float64 `json:"price"`
	Stock          int     `json:"stock"`
}

// EffectiveCategory resolves the category that is actually saved
func (f *ProductForm) EffectiveCategory() string {
	if f.Category == enum.CustomCategory {
		return f.CustomCategory
	}
	return f.Category
}

// FormFromProduct prepares the edit form for p. A category outside the fixed list is shown
// as "Otros" with the original text as the custom category.
func FormFromProduct(p Product) ProductForm {
	form := ProductForm{
		Code:     p.Code,
		Name:     p.Name,
		Category: p.Category,
		Price:    p.Price,
		Stock:    p.Stock,
	}
	if p.Category == enum.CustomCategory || !enum.IsStandardCategory(p.Category) {
		form.Category = enum.CustomCategory
		form.CustomCategory = p.Category
	}
	return form
}
