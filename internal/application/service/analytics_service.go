package service

import (
	"context"
	"strings"
	"time"

	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/internal/domain/enum"
	"github.com/sangkips/pos-console/internal/domain/repository"
	"github.com/sangkips/pos-console/pkg/apperror"
)

const dateLayout = "2006-01-02"

// AnalyticsService serves the basket and dashboard screens
type AnalyticsService struct {
	analyticsRepo repository.AnalyticsRepository
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(analyticsRepo repository.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{analyticsRepo: analyticsRepo}
}

// Baskets returns the category shares and best sellers.
func (s *AnalyticsService) Baskets(ctx context.Context, actor *entity.User) (*entity.BasketReport, error) {
	if actor == nil || !actor.Can(enum.CapViewBaskets) {
		return nil, apperror.ErrForbidden
	}
	categories, err := s.analyticsRepo.CategoryShares(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.analyticsRepo.BestProducts(ctx)
	if err != nil {
		return nil, err
	}
	return &entity.BasketReport{Categories: categories, Products: products}, nil
}

// Dashboard returns the sales summary of a date range
func (s *AnalyticsService) Dashboard(ctx context.Context, actor *entity.User, r entity.DateRange) (*entity.DashboardSummary, error) {
	if actor == nil || !actor.Can(enum.CapViewDashboard) {
		return nil, apperror.ErrForbidden
	}
	r.From = strings.TrimSpace(r.From)
	r.To = strings.TrimSpace(r.To)

	var from, to time.Time
	var err error
	if r.From != "" {
		if from, err = time.Parse(dateLayout, r.From); err != nil {
			return nil, apperror.NewFieldError("from", "Start date must be YYYY-MM-DD")
		}
	}
	if r.To != "" {
		if to, err = time.Parse(dateLayout, r.To); err != nil {
			return nil, apperror.NewFieldError("to", "End date must be YYYY-MM-DD")
		}
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return nil, apperror.NewValidationError("The end date cannot be before the start date")
	}

	return s.analyticsRepo.Dashboard(ctx, r)
}

// TopSales returns the top sales ranking. Roles without the capability get nothing and
// the backend is not called.
func (s *AnalyticsService) TopSales(ctx context.Context, actor *entity.User) ([]entity.TopProduct, error) {
	if actor == nil || !actor.Can(enum.CapViewTopSales) {
		return []entity.TopProduct{}, nil
	}
	return s.analyticsRepo.TopSales(ctx)
}
