package request

// ProductRequest is the body of product create and update
type ProductRequest struct {
	Code           string  `json:"code" binding:"max=100"`
	Name           string  `json:"name" binding:"max=255"`
	Category       string  `json:"category"`
	CustomCategory string  `json:"custom_category"`
	Price          float64 `json:"price"`
	Stock          int     `json:"stock"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Page     int    `form:"page"`
	PerPage  int    `form:"per_page"`
}
