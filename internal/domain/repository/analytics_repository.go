package repository

import (
	"context"

	"github.com/sangkips/pos-console/internal/domain/entity"
)

// AnalyticsRepository defines the reporting operations of the backend
type AnalyticsRepository interface {
	CategoryShares(ctx context.Context) ([]entity.CategoryShare, error)
	BestProducts(ctx context.Context) ([]entity.ProductShare, error)
	// Dashboard returns a NotFound AppError when the range has no data
	Dashboard(ctx context.Context, r entity.DateRange) (*entity.DashboardSummary, error)
	TopSales(ctx context.Context) ([]entity.TopProduct, error)
}
