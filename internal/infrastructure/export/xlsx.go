// Package export writes console reports as XLSX workbooks.
package export

import (
	"fmt"
	"io"

	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of the produced workbooks
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	sheetCategories = "Canastos"
	sheetProducts   = "Mejores Productos"
	sheetSales      = "Ventas"
)

// sheetWriter appends rows to one worksheet
type sheetWriter struct {
	file  *excelize.File
	sheet string
	row   int
}

func newSheet(f *excelize.File, name string, first bool) (*sheetWriter, error) {
	if first {
		if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
			return nil, fmt.Errorf("rename sheet: %w", err)
		}
	} else if _, err := f.NewSheet(name); err != nil {
		return nil, fmt.Errorf("create sheet %s: %w", name, err)
	}
	return &sheetWriter{file: f, sheet: name, row: 1}, nil
}

func (s *sheetWriter) append(values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, s.row)
	if err != nil {
		return err
	}
	if err := s.file.SetSheetRow(s.sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", s.sheet, s.row, err)
	}
	s.row++
	return nil
}

func (s *sheetWriter) header(style int, values ...any) error {
	row := s.row
	if err := s.append(values...); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(values), row)
	if err != nil {
		return err
	}
	first, _ := excelize.CoordinatesToCellName(1, row)
	return s.file.SetCellStyle(s.sheet, first, last, style)
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"D0E7EB"}, Pattern: 1},
	})
}

func write(f *excelize.File, w io.Writer) error {
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// WriteBasketReport writes the category and best-product views, one sheet each
func WriteBasketReport(w io.Writer, report entity.BasketReport) error {
	f := excelize.NewFile()
	defer f.Close()

	style, err := headerStyle(f)
	if err != nil {
		return err
	}

	cats, err := newSheet(f, sheetCategories, true)
	if err != nil {
		return err
	}
	if err := cats.header(style, "Categoría", "Cantidad Vendida", "Ventas Totales", "Porcentaje de Ventas"); err != nil {
		return err
	}
	for _, c := range report.Categories {
		if err := cats.append(c.Category, c.QuantitySold, c.TotalSales, c.SharePercent); err != nil {
			return err
		}
	}

	prods, err := newSheet(f, sheetProducts, false)
	if err != nil {
		return err
	}
	if err := prods.header(style, "Producto", "Categoría", "Cantidad Vendida", "Ventas Totales", "Porcentaje de Ventas"); err != nil {
		return err
	}
	for _, p := range report.Products {
		if err := prods.append(p.Name, p.Category, p.QuantitySold, p.TotalSales, p.SharePercent); err != nil {
			return err
		}
	}

	return write(f, w)
}

// WriteSalesHistory writes one row per sold item, grouped by seller
func WriteSalesHistory(w io.Writer, groups []entity.SalesGroup) error {
	f := excelize.NewFile()
	defer f.Close()

	style, err := headerStyle(f)
	if err != nil {
		return err
	}
	sales, err := newSheet(f, sheetSales, true)
	if err != nil {
		return err
	}
	if err := sales.header(style, "Vendedor", "Venta", "Fecha", "Código", "Producto", "Cantidad", "Precio", "Total Venta"); err != nil {
		return err
	}

	for _, g := range groups {
		seller := g.Seller.FirstName + " " + g.Seller.LastName
		for _, s := range g.Sales {
			date := ""
			if !s.Date.IsZero() {
				date = s.Date.Format("2006-01-02 15:04")
			}
			if len(s.Items) == 0 {
				if err := sales.append(seller, s.ID, date, "", "", 0, 0.0, s.Total); err != nil {
					return err
				}
				continue
			}
			for _, item := range s.Items {
				if err := sales.append(seller, s.ID, date, item.Product.Code, item.Product.Name, item.Quantity, item.Product.Price, s.Total); err != nil {
					return err
				}
			}
		}
	}

	return write(f, w)
}
