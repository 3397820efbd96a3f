package usecase_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shadinbyte/shopease/internal/domain/model"
	"github.com/shadinbyte/shopease/internal/infra/event"
	repo "github.com/shadinbyte/shopease/internal/repository"
	"github.com/shadinbyte/shopease/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	products   repo.ProductRepository
	inventory  repo.InventoryRepository
	customers  repo.CustomerRepository
	users      repo.UserRepository
	auditLogs  repo.AuditLogRepository
}

func (r *TxReposMock) Orders() repo.OrderRepository         { return r.orders }
func (r *TxReposMock) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r *TxReposMock) Products() repo.ProductRepository     { return r.products }
func (r *TxReposMock) Inventory() repo.InventoryRepository  { return r.inventory }
func (r *TxReposMock) Customers() repo.CustomerRepository   { return r.customers }
func (r *TxReposMock) Users() repo.UserRepository           { return r.users }
func (r *TxReposMock) AuditLogs() repo.AuditLogRepository   { return r.auditLogs }

// =====================
// Repository mocks
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindByIDForUpdate(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	return m.Called(ctx, orderID, status).Error(0)
}

func (m *OrderRepoMock) UpdateShipping(ctx context.Context, orderID int64, shippingAddress string, notes string) error {
	return m.Called(ctx, orderID, shippingAddress, notes).Error(0)
}

func (m *OrderRepoMock) RecalculateTotal(ctx context.Context, orderID int64) (decimal.Decimal, error) {
	args := m.Called(ctx, orderID)
	d, _ := args.Get(0).(decimal.Decimal)
	return d, args.Error(1)
}

func (m *OrderRepoMock) Delete(ctx context.Context, orderID int64) error {
	return m.Called(ctx, orderID).Error(0)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	return m.Called(ctx, orderID, items).Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

func (m *OrderItemRepoMock) CountByOrderIDs(ctx context.Context, orderIDs []int64) (map[int64]int64, error) {
	args := m.Called(ctx, orderIDs)
	counts, _ := args.Get(0).(map[int64]int64)
	return counts, args.Error(1)
}

func (m *OrderItemRepoMock) DeleteByOrderID(ctx context.Context, orderID int64) error {
	return m.Called(ctx, orderID).Error(0)
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) ListActive(ctx context.Context, q repo.ProductListQuery) ([]model.Product, error) {
	args := m.Called(ctx, q)
	ps, _ := args.Get(0).([]model.Product)
	return ps, args.Error(1)
}

func (m *ProductRepoMock) ListLowStock(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	ps, _ := args.Get(0).([]model.Product)
	return ps, args.Error(1)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) FindByIDsForUpdate(ctx context.Context, ids []int64) ([]model.Product, error) {
	args := m.Called(ctx, ids)
	ps, _ := args.Get(0).([]model.Product)
	return ps, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *ProductRepoMock) Deactivate(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type InventoryRepoMock struct{ mock.Mock }

func (m *InventoryRepoMock) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	args := m.Called(ctx, productID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *InventoryRepoMock) IncreaseStock(ctx context.Context, productID int64, qty int64) error {
	return m.Called(ctx, productID, qty).Error(0)
}

func (m *InventoryRepoMock) CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error {
	return m.Called(ctx, adjustment).Error(0)
}

type CustomerRepoMock struct{ mock.Mock }

func (m *CustomerRepoMock) List(ctx context.Context) ([]model.Customer, error) {
	args := m.Called(ctx)
	cs, _ := args.Get(0).([]model.Customer)
	return cs, args.Error(1)
}

func (m *CustomerRepoMock) FindByID(ctx context.Context, id int64) (model.Customer, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(model.Customer)
	return c, args.Error(1)
}

func (m *CustomerRepoMock) FindByUserID(ctx context.Context, userID int64) (model.Customer, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Customer)
	return c, args.Error(1)
}

func (m *CustomerRepoMock) Create(ctx context.Context, c model.Customer) (model.Customer, error) {
	args := m.Called(ctx, c)
	created, _ := args.Get(0).(model.Customer)
	return created, args.Error(1)
}

func (m *CustomerRepoMock) Update(ctx context.Context, c model.Customer) error {
	return m.Called(ctx, c).Error(0)
}

func (m *CustomerRepoMock) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *CustomerRepoMock) HasOrders(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type CategoryRepoMock struct{ mock.Mock }

func (m *CategoryRepoMock) List(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	cs, _ := args.Get(0).([]model.Category)
	return cs, args.Error(1)
}

func (m *CategoryRepoMock) FindByID(ctx context.Context, id int64) (model.Category, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(model.Category)
	return c, args.Error(1)
}

func (m *CategoryRepoMock) CountProducts(ctx context.Context, ids []int64) (map[int64]int64, error) {
	args := m.Called(ctx, ids)
	counts, _ := args.Get(0).(map[int64]int64)
	return counts, args.Error(1)
}

func (m *CategoryRepoMock) Create(ctx context.Context, c model.Category) (model.Category, error) {
	args := m.Called(ctx, c)
	created, _ := args.Get(0).(model.Category)
	return created, args.Error(1)
}

func (m *CategoryRepoMock) Update(ctx context.Context, c model.Category) error {
	return m.Called(ctx, c).Error(0)
}

func (m *CategoryRepoMock) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

type AnalyticsRepoMock struct{ mock.Mock }

func (m *AnalyticsRepoMock) Dashboard(ctx context.Context) (repo.DashboardStats, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(repo.DashboardStats)
	return s, args.Error(1)
}

func (m *AnalyticsRepoMock) TopProducts(ctx context.Context, limit int) ([]repo.ProductSales, error) {
	args := m.Called(ctx, limit)
	rows, _ := args.Get(0).([]repo.ProductSales)
	return rows, args.Error(1)
}

func (m *AnalyticsRepoMock) TopCustomers(ctx context.Context, limit int) ([]repo.CustomerSpending, error) {
	args := m.Called(ctx, limit)
	rows, _ := args.Get(0).([]repo.CustomerSpending)
	return rows, args.Error(1)
}

func (m *AnalyticsRepoMock) RevenueByCategory(ctx context.Context) ([]repo.CategoryRevenue, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]repo.CategoryRevenue)
	return rows, args.Error(1)
}

// =====================
// event publisher（送信内容を記録）
// =====================

type publishedEvent struct {
	Topic string
	Event event.OrderEvent
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *recordingPublisher) PublishOrder(_ context.Context, topic string, ev event.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Topic: topic, Event: ev})
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Topic)
	}
	return out
}

// =====================
// helpers
// =====================

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var (
	customerActor = usecase.Actor{UserID: 1, Role: model.RoleCustomer}
	otherActor    = usecase.Actor{UserID: 2, Role: model.RoleCustomer}
	staffActor    = usecase.Actor{UserID: 99, Role: model.RoleStaff}
	anonActor     = usecase.Actor{}
)

// HTTPError の status と code を確認
func assertHTTPError(t *testing.T, err error, status int, code string) {
	t.Helper()
	he, ok := usecase.AsHTTPError(err)
	if assert.True(t, ok, "want *HTTPError, got %v", err) {
		assert.Equal(t, status, he.Status)
		assert.Equal(t, code, he.Code)
	}
}

func assertErrContains(t *testing.T, err error, wantSubstr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), wantSubstr), "err=%q want contains %q", err.Error(), wantSubstr)
	}
}

var fixedTime = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
