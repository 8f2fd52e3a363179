package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/internal/domain/repository"
	"github.com/sangkips/pos-console/pkg/apperror"
)

type analyticsRepository struct {
	client *Client
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(client *Client) repository.AnalyticsRepository {
	return &analyticsRepository{client: client}
}

func (r *analyticsRepository) CategoryShares(ctx context.Context) ([]entity.CategoryShare, error) {
	var env categorySharesEnvelope
	err := r.client.do(ctx, request{
		method:   http.MethodGet,
		path:     "/canastos",
		fallback: "Could not load the category baskets",
	}, &env)
	if err != nil {
		return nil, err
	}
	out := make([]entity.CategoryShare, 0, len(env.Shares))
	for _, s := range env.Shares {
		out = append(out, entity.CategoryShare{
			Category:     s.Category,
			QuantitySold: s.QuantitySold,
			TotalSales:   float64(s.TotalSales),
			SharePercent: float64(s.SharePercent),
		})
	}
	return out, nil
}

func (r *analyticsRepository) BestProducts(ctx context.Context) ([]entity.ProductShare, error) {
	var env productSharesEnvelope
	err := r.client.do(ctx, request{
		method:   http.MethodGet,
		path:     "/mejores-productos",
		fallback: "Could not load the best selling products",
	}, &env)
	if err != nil {
		return nil, err
	}
	out := make([]entity.ProductShare, 0, len(env.Products))
	for _, p := range env.Products {
		out = append(out, entity.ProductShare{
			Name:         p.Name,
			Category:     p.Category,
			QuantitySold: p.QuantitySold,
			TotalSales:   float64(p.TotalSales),
			SharePercent: float64(p.SharePercent),
		})
	}
	return out, nil
}

func (r *analyticsRepository) Dashboard(ctx context.Context, dr entity.DateRange) (*entity.DashboardSummary, error) {
	q := url.Values{}
	q.Set("fechaIn", dr.From)
	q.Set("fechaFin", dr.To)

	var env dashboardEnvelope
	err := r.client.do(ctx, request{
		method:   http.MethodGet,
		path:     "/dashboard-ventas",
		query:    q,
		fallback: "Could not load the dashboard",
	}, &env)
	if err != nil {
		return nil, err
	}
	if len(env.Dashboard) == 0 || env.Dashboard[0] == nil {
		return nil, apperror.NewAppError(apperror.KindNotFound, http.StatusNotFound, "No data found to display")
	}

	d := env.Dashboard[0]
	summary := &entity.DashboardSummary{TotalSales: float64(d.TotalSales), Days: make([]entity.DailySales, 0, len(d.Days))}
	for _, day := range d.Days {
		summary.Days = append(summary.Days, entity.DailySales{
			Date:       day.Date,
			TotalSales: float64(day.TotalSales),
			SalesCount: day.SalesCount,
		})
	}
	return summary, nil
}

func (r *analyticsRepository) TopSales(ctx context.Context) ([]entity.TopProduct, error) {
	var env topProductsEnvelope
	err := r.client.do(ctx, request{
		method:   http.MethodGet,
		path:     "/top-ventas",
		fallback: "Could not load the top products",
	}, &env)
	if err != nil {
		return nil, err
	}
	out := make([]entity.TopProduct, 0, len(env.Products))
	for _, p := range env.Products {
		out = append(out, entity.TopProduct{ID: p.ID, Name: p.Name, Quantity: p.Quantity, Total: float64(p.Total)})
	}
	return out, nil
}
