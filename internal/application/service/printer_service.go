package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/pkg/apperror"
	"github.com/sangkips/pos-console/pkg/money"
	"github.com/sangkips/pos-console/pkg/printer"
	"github.com/shopspring/decimal"
)

// LastSaleSource provides the most recent finalized sale
type LastSaleSource interface {
	LastSale() (*entity.FinalizedSale, bool)
}

// PrinterService handles ticket formatting and thermal printing.
type PrinterService struct {
	printer     printer.Printer
	sales       LastSaleSource
	header      entity.TicketHeader
	printerType string
	width       int
	logger      *slog.Logger
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	p printer.Printer,
	sales LastSaleSource,
	header entity.TicketHeader,
	printerType string,
	width int,
	logger *slog.Logger,
) *PrinterService {
	return &PrinterService{
		printer:     p,
		sales:       sales,
		header:      header,
		printerType: printerType,
		width:       width,
		logger:      logger.With("component", "printer"),
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus(ctx context.Context) *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != printer.TypeNone && s.printerType != "",
		Connected:  s.printer.Ready(ctx),
		Type:       s.printerType,
	}
}

// TestPrint sends a test page to the printer.
// The ticket is returned so the caller can show it when no printer is attached.
func (s *PrinterService) TestPrint(ctx context.Context) (*entity.Ticket, error) {
	price := decimal.RequireFromString("1.25")
	ticket := entity.Ticket{
		Header:  s.header,
		SaleID:  "TEST-001",
		Date:    time.Now().Format("02/01/2006 15:04"),
		Cashier: "Sistema",
		Items: []entity.TicketItem{
			{Name: "Producto de prueba", Quantity: 2, UnitPrice: price, Total: money.LineTotal(price, 2)},
		},
		Total: money.LineTotal(price, 2),
	}

	if err := s.printer.Print(ctx, FormatTicket(&ticket, s.width)); err != nil {
		return &ticket, fmt.Errorf("test print failed: %w", err)
	}
	return &ticket, nil
}

// PrintLastSale prints the ticket of the most recently finalized sale. A printing failure
// is reported to the caller and never touches the sale.
func (s *PrinterService) PrintLastSale(ctx context.Context, cashier *entity.User) (*entity.Ticket, error) {
	sale, ok := s.sales.LastSale()
	if !ok {
		return nil, apperror.NewNotFoundError("Finalized sale")
	}
	return s.PrintSale(ctx, sale, cashier)
}

// PrintSale prints the ticket of sale
func (s *PrinterService) PrintSale(ctx context.Context, sale *entity.FinalizedSale, cashier *entity.User) (*entity.Ticket, error) {
	name := ""
	if cashier != nil {
		name = cashier.FullName()
	}
	ticket := entity.NewTicket(s.header, *sale, name)

	if err := s.printer.Print(ctx, FormatTicket(&ticket, s.width)); err != nil {
		s.logger.Warn("ticket print failed", "sale_id", sale.ID, "error", err)
		return &ticket, fmt.Errorf("failed to print ticket: %w", err)
	}
	s.logger.Info("ticket printed", "sale_id", sale.ID)
	return &ticket, nil
}

// FormatTicket converts a Ticket into ESC/POS bytes.
func FormatTicket(t *entity.Ticket, width int) []byte {
	doc := printer.NewDocument(width)

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(t.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if t.Header.Address != "" {
		doc.Text(t.Header.Address)
	}
	if t.Header.Phone != "" {
		doc.TextF("Tel: %s", t.Header.Phone)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-').
		Columns("Venta:", t.SaleID).
		Columns("Fecha:", t.Date)
	if t.Cashier != "" {
		doc.Columns("Cajero:", t.Cashier)
	}
	doc.Separator('-')

	for _, item := range t.Items {
		doc.Columns(fmt.Sprintf("%dx %s", item.Quantity, item.Name), money.Format(item.Total))
		if item.Quantity > 1 {
			doc.TextF("  @ %s c/u", money.Format(item.UnitPrice))
		}
	}

	doc.Separator('-').
		SetBold(true).
		Columns("TOTAL:", money.Format(t.Total)).
		SetBold(false).
		Separator('-')

	doc.SetAlign(printer.AlignCenter).
		FeedLines(1).
		Text("Gracias por su compra").
		SetAlign(printer.AlignLeft).
		FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
