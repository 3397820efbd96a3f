package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

type DashboardStats struct {
	TotalProducts   int64
	TotalCategories int64
	TotalCustomers  int64
	TotalOrders     int64
	PendingOrders   int64
	TotalRevenue    decimal.Decimal
}

type ProductSales struct {
	ProductID int64
	Name      string
	Price     decimal.Decimal
	Stock     int64
	TotalSold int64
}

type CustomerSpending struct {
	CustomerID int64
	FirstName  string
	LastName   string
	Email      string
	TotalSpent decimal.Decimal
	OrderCount int64
}

type CategoryRevenue struct {
	CategoryID   int64
	Name         string
	TotalRevenue decimal.Decimal
}

// 集計は保存済みデータから毎回計算する（キャッシュしない）
type AnalyticsRepository interface {
	Dashboard(ctx context.Context) (DashboardStats, error)
	TopProducts(ctx context.Context, limit int) ([]ProductSales, error)
	TopCustomers(ctx context.Context, limit int) ([]CustomerSpending, error)
	RevenueByCategory(ctx context.Context) ([]CategoryRevenue, error)
}
