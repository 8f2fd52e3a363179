package entity

// CategoryShare is the basket view of one product category
type CategoryShare struct {
	Category     string  `json:"category"`
	QuantitySold int     `json:"quantity_sold"`
	TotalSales   float64 `json:"total_sales"`
	SharePercent float64 `json:"share_percent"`
}

// ProductShare is the best-sellers view of one product
type ProductShare struct {
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	QuantitySold int     `json:"quantity_sold"`
	TotalSales   float64 `json:"total_sales"`
	SharePercent float64 `json:"share_percent"`
}

// DailySales aggregates one day of sales
type DailySales struct {
	Date       string  `json:"date"`
	TotalSales float64 `json:"total_sales"`
	SalesCount int     `json:"sales_count"`
}

// DashboardSummary is the sales dashboard for a date range
type DashboardSummary struct {
	TotalSales float64      `json:"total_sales"`
	Days       []DailySales `json:"days"`
}

// DateRange bounds the dashboard query. Empty values leave that side open.
type DateRange struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// TopProduct is an entry of the top sales ranking
type TopProduct struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Total    float64 `json:"total"`
}

// BasketReport bundles both basket views for export
type BasketReport struct {
	Categories []CategoryShare `json:"categories"`
	Products   []ProductShare  `json:"products"`
}
