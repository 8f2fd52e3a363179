package backend

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/internal/domain/enum"
	"github.com/sangkips/pos-console/pkg/money"
)

// number accepts a JSON number or a numeric string
type number float64

func (n *number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*n = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "%")
		if s == "" {
			*n = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*n = number(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = number(f)
	return nil
}

type productDTO struct {
	ID       string `json:"_id,omitempty"`
	Code     string `json:"codigoBarra"`
	Name     string `json:"nombre"`
	Category string `json:"categoria"`
	Price    number `json:"precio"`
	Stock    int    `json:"stock"`
}

func (p productDTO) toEntity() entity.Product {
	return entity.Product{
		ID:       p.ID,
		Code:     p.Code,
		Name:     p.Name,
		Category: p.Category,
		Price:    float64(p.Price),
		Stock:    p.Stock,
	}
}

func productFromEntity(p *entity.Product) productDTO {
	return productDTO{
		Code:     p.Code,
		Name:     p.Name,
		Category: p.Category,
		Price:    number(p.Price),
		Stock:    p.Stock,
	}
}

type productEnvelope struct {
	Product *productDTO `json:"product"`
}

type productsEnvelope struct {
	Products []productDTO `json:"products"`
}

type userDTO struct {
	ID        string `json:"_id,omitempty"`
	FirstName string `json:"nombre"`
	LastName  string `json:"apellido"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
	Role      string `json:"role"`
}

func (u userDTO) toEntity() entity.User {
	return entity.User{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      enum.Role(u.Role),
	}
}

func userFromForm(f *entity.UserForm) userDTO {
	return userDTO{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Password:  f.Password,
		Role:      string(f.Role),
	}
}

type usersEnvelope struct {
	Users []userDTO `json:"users"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string  `json:"token"`
	User  userDTO `json:"user"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type forgotPasswordResponse struct {
	Verified bool   `json:"verified"`
	Message  string `json:"message"`
}

type saleLineDTO struct {
	Code     string  `json:"codigoBarra"`
	Quantity int     `json:"cantidad"`
	Price    float64 `json:"precio"`
	Total    float64 `json:"total"`
}

type createSaleRequest struct {
	Products []saleLineDTO `json:"productos"`
	Total    float64       `json:"total"`
}

func newCreateSaleRequest(lines []entity.PendingSaleLine, total float64) createSaleRequest {
	req := createSaleRequest{Products: make([]saleLineDTO, 0, len(lines)), Total: total}
	for _, l := range lines {
		req.Products = append(req.Products, saleLineDTO{
			Code:     l.ProductCode,
			Quantity: l.Quantity,
			Price:    money.Float(l.UnitPrice),
			Total:    money.Float(l.LineTotal),
		})
	}
	return req
}

type idDTO struct {
	ID string `json:"_id"`
}

type createSaleResponse struct {
	Sale *idDTO `json:"venta"`
}

type customerDTO struct {
	Name       string `json:"nombre"`
	NationalID string `json:"ci"`
	Phone      string `json:"telefono"`
	Address    string `json:"direccion"`
}

func (c customerDTO) toEntity() entity.Customer {
	return entity.Customer{Name: c.Name, NationalID: c.NationalID, Phone: c.Phone, Address: c.Address}
}

type customerEnvelope struct {
	Customer *customerDTO `json:"cliente"`
}

type createReceiptRequest struct {
	SaleID   string      `json:"ventaId"`
	Customer customerDTO `json:"cliente"`
	Total    float64     `json:"total"`
}

type validationMessage struct {
	Msg string `json:"msg"`
}

type createReceiptResponse struct {
	Receipt *idDTO              `json:"notaVenta"`
	Errors  []validationMessage `json:"errors"`
}

// nestedProduct is the product of a recorded sale line. The backend sends either the
// populated product document or only its id.
type nestedProduct struct {
	productDTO
}

func (n *nestedProduct) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] == '"' {
		return json.Unmarshal(data, &n.ID)
	}
	return json.Unmarshal(data, &n.productDTO)
}

// saleItemDTO carries both the nested and the flat product fields. When both exist the
// nested value wins.
type saleItemDTO struct {
	Product  nestedProduct `json:"producto"`
	ID       string        `json:"_id"`
	Code     string        `json:"codigoBarra"`
	Name     string        `json:"nombre"`
	Category string        `json:"categoria"`
	Price    number        `json:"precio"`
	Quantity int           `json:"cantidad"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (i saleItemDTO) toEntity() entity.SaleItem {
	nested := i.Product.productDTO
	price := float64(nested.Price)
	if price == 0 {
		price = float64(i.Price)
	}
	return entity.SaleItem{
		Product: entity.Product{
			ID:       firstNonEmpty(nested.ID, i.ID),
			Code:     firstNonEmpty(nested.Code, i.Code),
			Name:     firstNonEmpty(nested.Name, i.Name),
			Category: firstNonEmpty(nested.Category, i.Category),
			Price:    price,
			Stock:    nested.Stock,
		},
		Quantity: i.Quantity,
	}
}

type saleDTO struct {
	ID       string        `json:"_id"`
	Products []saleItemDTO `json:"productos"`
	Total    number        `json:"total"`
	Date     string        `json:"fecha"`
}

func (s saleDTO) toEntity(seller entity.Seller) entity.SaleRecord {
	items := make([]entity.SaleItem, 0, len(s.Products))
	for _, p := range s.Products {
		items = append(items, p.toEntity())
	}
	return entity.SaleRecord{
		ID:     s.ID,
		Date:   parseDate(s.Date),
		Seller: seller,
		Items:  items,
		Total:  float64(s.Total),
	}
}

// historyEntryDTO is one element of the get-ventas list: a seller group when Sales is
// present, a single sale of the operator otherwise.
type historyEntryDTO struct {
	saleDTO
	FirstName  string     `json:"nombre"`
	LastName   string     `json:"apellido"`
	Sales      *[]saleDTO `json:"ventas"`
	TotalSales number     `json:"totalVentas"`
}

type historyEnvelope struct {
	Sales *[]historyEntryDTO `json:"ventas"`
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// groupHistory turns the get-ventas list into seller groups. Flat sales are collected
// under the operator's own group, which is listed first.
func groupHistory(entries []historyEntryDTO, ownerID string) []entity.SalesGroup {
	var groups []entity.SalesGroup
	var own *entity.SalesGroup

	for _, e := range entries {
		if e.Sales != nil {
			seller := entity.Seller{
				ID:        e.ID,
				FirstName: firstNonEmpty(e.FirstName, "Usuario"),
				LastName:  firstNonEmpty(e.LastName, "Desconocido"),
			}
			g := entity.SalesGroup{Seller: seller, Sales: []entity.SaleRecord{}, TotalSales: float64(e.TotalSales)}
			for _, s := range *e.Sales {
				g.Sales = append(g.Sales, s.toEntity(seller))
			}
			groups = append(groups, g)
			continue
		}
		if own == nil {
			own = &entity.SalesGroup{Seller: entity.OwnSalesSeller(ownerID), Sales: []entity.SaleRecord{}}
		}
		own.Sales = append(own.Sales, e.saleDTO.toEntity(own.Seller))
	}

	if own != nil {
		totals := make([]float64, 0, len(own.Sales))
		for _, s := range own.Sales {
			totals = append(totals, s.Total)
		}
		own.TotalSales = sumFloats(totals)
		groups = append([]entity.SalesGroup{*own}, groups...)
	}
	if groups == nil {
		groups = []entity.SalesGroup{}
	}
	return groups
}

func sumFloats(values []float64) float64 {
	total := money.Zero
	for _, v := range values {
		total = total.Add(money.Round2(v))
	}
	return money.Float(total)
}

type updateSaleItemDTO struct {
	Code     string  `json:"codigoBarra"`
	Name     string  `json:"nombre"`
	Category string  `json:"categoria"`
	Price    float64 `json:"precio"`
	Quantity int     `json:"cantidad"`
}

type updateSaleRequest struct {
	Products []updateSaleItemDTO `json:"productos"`
}

func newUpdateSaleRequest(items []entity.SaleItem) updateSaleRequest {
	req := updateSaleRequest{Products: make([]updateSaleItemDTO, 0, len(items))}
	for _, i := range items {
		req.Products = append(req.Products, updateSaleItemDTO{
			Code:     i.Product.Code,
			Name:     i.Product.Name,
			Category: i.Product.Category,
			Price:    i.Product.Price,
			Quantity: i.Quantity,
		})
	}
	return req
}

type categoryShareDTO struct {
	Category     string `json:"_id"`
	QuantitySold int    `json:"cantidaVendida"`
	TotalSales   number `json:"ventaTotales"`
	SharePercent number `json:"porcentajeVentas"`
}

type categorySharesEnvelope struct {
	Shares []categoryShareDTO `json:"porcentajes"`
}

type productShareDTO struct {
	Name         string `json:"nombre"`
	Category     string `json:"categoria"`
	QuantitySold int    `json:"cantidadVendida"`
	TotalSales   number `json:"totalVentas"`
	SharePercent number `json:"porcentajeVentas"`
}

type productSharesEnvelope struct {
	Products []productShareDTO `json:"productos"`
}

type dailySalesDTO struct {
	Date       string `json:"fecha"`
	TotalSales number `json:"totalVentas"`
	SalesCount int    `json:"numeroVentas"`
}

type dashboardDTO struct {
	TotalSales number          `json:"totalDeTodasLasVentas"`
	Days       []dailySalesDTO `json:"ventasPorDia"`
}

type dashboardEnvelope struct {
	Dashboard []*dashboardDTO `json:"dashboardVentas"`
}

type topProductDTO struct {
	ID       string `json:"_id"`
	Name     string `json:"nombre"`
	Quantity int    `json:"cantidad"`
	Total    number `json:"total"`
}

type topProductsEnvelope struct {
	Products []topProductDTO `json:"productosTop"`
}

// errorBody is the shape the backend uses for rejections
type errorBody struct {
	Message string              `json:"message"`
	Error   string              `json:"error"`
	Errors  []validationMessage `json:"errors"`
}

func joinMessages(msgs []validationMessage) string {
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		if m.Msg != "" {
			parts = append(parts, m.Msg)
		}
	}
	return strings.Join(parts, ", ")
}

// backendMessage extracts the human readable message of an error body
func backendMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	if eb.Message != "" {
		return eb.Message
	}
	if msg := joinMessages(eb.Errors); msg != "" {
		return msg
	}
	return eb.Error
}
