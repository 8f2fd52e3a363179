package request

// LookupRequest opens the product lookup dialog
type LookupRequest struct {
	Code string `json:"code"`
}

// AddLineRequest adds the looked-up product, or the product with Code when set
type AddLineRequest struct {
	Code     string `json:"code"`
	Quantity int    `json:"quantity"`
}

// CustomerFieldRequest is one change of the receipt form
type CustomerFieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}
