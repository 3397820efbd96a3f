package repository

import (
	"context"

	"github.com/shadinbyte/shopease/internal/domain/model"
	repo "github.com/shadinbyte/shopease/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 集計クエリ（読み取り専用）
type AnalyticsGormRepository struct {
	db *gorm.DB
}

func NewAnalyticsGormRepository(db *gorm.DB) *AnalyticsGormRepository {
	return &AnalyticsGormRepository{db: db}
}

func (r *AnalyticsGormRepository) Dashboard(ctx context.Context) (repo.DashboardStats, error) {
	var s repo.DashboardStats
	db := r.db.WithContext(ctx)

	if err := db.Model(&model.Product{}).Where("is_active = ?", true).Count(&s.TotalProducts).Error; err != nil {
		return repo.DashboardStats{}, err
	}
	if err := db.Model(&model.Category{}).Count(&s.TotalCategories).Error; err != nil {
		return repo.DashboardStats{}, err
	}
	if err := db.Model(&model.Customer{}).Count(&s.TotalCustomers).Error; err != nil {
		return repo.DashboardStats{}, err
	}
	if err := db.Model(&model.Order{}).Count(&s.TotalOrders).Error; err != nil {
		return repo.DashboardStats{}, err
	}
	if err := db.Model(&model.Order{}).Where("status = ?", model.OrderStatusPending).Count(&s.PendingOrders).Error; err != nil {
		return repo.DashboardStats{}, err
	}

	//売上は発送済み・配達済みのみ
	var rev struct {
		Total decimal.Decimal
	}
	err := db.Model(&model.Order{}).
		Select("COALESCE(SUM(total_amount), 0) AS total").
		Where("status IN ?", model.RevenueStatuses).
		Scan(&rev).Error
	if err != nil {
		return repo.DashboardStats{}, err
	}
	s.TotalRevenue = rev.Total

	return s, nil
}

func (r *AnalyticsGormRepository) TopProducts(ctx context.Context, limit int) ([]repo.ProductSales, error) {
	var rows []repo.ProductSales
	err := r.db.WithContext(ctx).
		Table("products AS p").
		Select("p.id AS product_id, p.name, p.price, p.stock, COALESCE(SUM(oi.quantity), 0) AS total_sold").
		Joins("LEFT JOIN order_items AS oi ON oi.product_id = p.id").
		Group("p.id, p.name, p.price, p.stock").
		Order("total_sold DESC").Order("p.id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return []repo.ProductSales{}, err
	}
	return rows, nil
}

func (r *AnalyticsGormRepository) TopCustomers(ctx context.Context, limit int) ([]repo.CustomerSpending, error) {
	var rows []repo.CustomerSpending
	err := r.db.WithContext(ctx).
		Table("customers AS c").
		Select(`c.id AS customer_id, u.first_name, u.last_name, u.email,
			COALESCE(SUM(o.total_amount), 0) AS total_spent, COUNT(o.id) AS order_count`).
		Joins("JOIN users AS u ON u.id = c.user_id").
		Joins("LEFT JOIN orders AS o ON o.customer_id = c.id").
		Group("c.id, u.first_name, u.last_name, u.email").
		Order("total_spent DESC").Order("c.id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return []repo.CustomerSpending{}, err
	}
	return rows, nil
}

func (r *AnalyticsGormRepository) RevenueByCategory(ctx context.Context) ([]repo.CategoryRevenue, error) {
	var rows []repo.CategoryRevenue
	err := r.db.WithContext(ctx).
		Table("categories AS c").
		Select("c.id AS category_id, c.name, COALESCE(SUM(oi.subtotal), 0) AS total_revenue").
		Joins("LEFT JOIN products AS p ON p.category_id = c.id").
		Joins("LEFT JOIN order_items AS oi ON oi.product_id = p.id").
		Group("c.id, c.name").
		Order("total_revenue DESC").Order("c.id ASC").
		Scan(&rows).Error
	if err != nil {
		return []repo.CategoryRevenue{}, err
	}
	return rows, nil
}
