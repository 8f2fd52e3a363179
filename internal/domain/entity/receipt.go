package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TicketHeader holds the store header printed at the top of a sale ticket.
type TicketHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// TicketItem represents a single line item on a ticket.
type TicketItem struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// Ticket is the printable view of a finalized sale. It is composed at print time from the
// submitted snapshot.
type Ticket struct {
	Header  TicketHeader    `json:"header"`
	SaleID  string          `json:"sale_id"`
	Date    string          `json:"date"`
	Cashier string          `json:"cashier,omitempty"`
	Items   []TicketItem    `json:"items"`
	Total   decimal.Decimal `json:"total"`
}

// NewTicket builds the ticket for sale
func NewTicket(header TicketHeader, sale FinalizedSale, cashier string) Ticket {
	items := make([]TicketItem, 0, len(sale.Lines))
	for _, l := range sale.Lines {
		items = append(items, TicketItem{
			Name:      l.Description,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Total:     l.LineTotal,
		})
	}
	at := sale.CreatedAt
	if at.IsZero() {
		at = time.Now()
	}
	return Ticket{
		Header:  header,
		SaleID:  sale.ID,
		Date:    at.Format("02/01/2006 15:04"),
		Cashier: cashier,
		Items:   items,
		Total:   sale.Total,
	}
}
