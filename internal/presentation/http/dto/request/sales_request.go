package request

// OpenSaleRequest opens a recorded sale in the detail dialog
type OpenSaleRequest struct {
	Edit bool `json:"edit"`
}

// DraftQuantityRequest changes the quantity of one item of the open sale
type DraftQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// DraftProductRequest adds a product to the open sale
type DraftProductRequest struct {
	Code     string `json:"code"`
	Quantity int    `json:"quantity"`
}

// DashboardRequest bounds the dashboard query
type DashboardRequest struct {
	From string `form:"from"`
	To   string `form:"to"`
}
