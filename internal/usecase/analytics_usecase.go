package usecase

import (
	"context"

	"github.com/shadinbyte/shopease/internal/domain/model"
	repo "github.com/shadinbyte/shopease/internal/repository"
)

// ランキングの件数
const topN = 10

type AnalyticsUsecase struct {
	analyticsRepo repo.AnalyticsRepository
}

func NewAnalyticsUsecase(analyticsRepo repo.AnalyticsRepository) *AnalyticsUsecase {
	return &AnalyticsUsecase{analyticsRepo: analyticsRepo}
}

type DashboardOutput struct {
	TotalProducts   int64  `json:"total_products"`
	TotalCategories int64  `json:"total_categories"`
	TotalCustomers  int64  `json:"total_customers"`
	TotalOrders     int64  `json:"total_orders"`
	PendingOrders   int64  `json:"pending_orders"`
	TotalRevenue    string `json:"total_revenue"`
}

type TopProductOutput struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	TotalSold int64  `json:"total_sold"`
	Price     string `json:"price"`
	Stock     int64  `json:"stock"`
}

type TopCustomerOutput struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	TotalSpent string `json:"total_spent"`
	OrderCount int64  `json:"order_count"`
}

type CategoryRevenueOutput struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	TotalRevenue string `json:"total_revenue"`
}

func (u *AnalyticsUsecase) Dashboard(ctx context.Context) (DashboardOutput, error) {
	s, err := u.analyticsRepo.Dashboard(ctx)
	if err != nil {
		return DashboardOutput{}, errDB()
	}
	return DashboardOutput{
		TotalProducts:   s.TotalProducts,
		TotalCategories: s.TotalCategories,
		TotalCustomers:  s.TotalCustomers,
		TotalOrders:     s.TotalOrders,
		PendingOrders:   s.PendingOrders,
		TotalRevenue:    s.TotalRevenue.StringFixed(2),
	}, nil
}

func (u *AnalyticsUsecase) TopProducts(ctx context.Context) ([]TopProductOutput, error) {
	rows, err := u.analyticsRepo.TopProducts(ctx, topN)
	if err != nil {
		return []TopProductOutput{}, errDB()
	}
	outs := make([]TopProductOutput, 0, len(rows))
	for _, row := range rows {
		outs = append(outs, TopProductOutput{
			ID:        row.ProductID,
			Name:      row.Name,
			TotalSold: row.TotalSold,
			Price:     row.Price.StringFixed(2),
			Stock:     row.Stock,
		})
	}
	return outs, nil
}

func (u *AnalyticsUsecase) TopCustomers(ctx context.Context) ([]TopCustomerOutput, error) {
	rows, err := u.analyticsRepo.TopCustomers(ctx, topN)
	if err != nil {
		return []TopCustomerOutput{}, errDB()
	}
	outs := make([]TopCustomerOutput, 0, len(rows))
	for _, row := range rows {
		outs = append(outs, TopCustomerOutput{
			ID:         row.CustomerID,
			Name:       model.User{FirstName: row.FirstName, LastName: row.LastName}.FullName(),
			Email:      row.Email,
			TotalSpent: row.TotalSpent.StringFixed(2),
			OrderCount: row.OrderCount,
		})
	}
	return outs, nil
}

func (u *AnalyticsUsecase) RevenueByCategory(ctx context.Context) ([]CategoryRevenueOutput, error) {
	rows, err := u.analyticsRepo.RevenueByCategory(ctx)
	if err != nil {
		return []CategoryRevenueOutput{}, errDB()
	}
	outs := make([]CategoryRevenueOutput, 0, len(rows))
	for _, row := range rows {
		outs = append(outs, CategoryRevenueOutput{
			ID:           row.CategoryID,
			Name:         row.Name,
			TotalRevenue: row.TotalRevenue.StringFixed(2),
		})
	}
	return outs, nil
}
