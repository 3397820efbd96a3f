package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/shadinbyte/shopease/internal/domain/model"
	"github.com/shadinbyte/shopease/internal/infra/event"
	"github.com/shadinbyte/shopease/internal/logger"
	repo "github.com/shadinbyte/shopease/internal/repository"
	"github.com/shadinbyte/shopease/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	tx        *TxManagerMock
	orders    *OrderRepoMock
	items     *OrderItemRepoMock
	products  *ProductRepoMock
	inventory *InventoryRepoMock
	customers *CustomerRepoMock
	audit     *AuditRepoMock
	events    *recordingPublisher
	uc        *usecase.OrderUsecase
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		tx:        new(TxManagerMock),
		orders:    new(OrderRepoMock),
		items:     new(OrderItemRepoMock),
		products:  new(ProductRepoMock),
		inventory: new(InventoryRepoMock),
		customers: new(CustomerRepoMock),
		audit:     new(AuditRepoMock),
		events:    &recordingPublisher{},
	}
	f.tx.Repos = &TxReposMock{
		orders:     f.orders,
		orderItems: f.items,
		products:   f.products,
		inventory:  f.inventory,
		customers:  f.customers,
		auditLogs:  f.audit,
	}
	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.uc = usecase.NewOrderUsecase(f.tx, f.events, logger.Nop())
	return f
}

var ada = model.Customer{ID: 10, UserID: 1, User: model.User{ID: 1, FirstName: "Ada", LastName: "Lovelace"}}

func widget(stock int64) model.Product {
	return model.Product{ID: 1, Name: "Widget", Price: money("10.00"), Stock: stock, IsActive: true, Image: "products/widget.png"}
}

func gadget(stock int64) model.Product {
	return model.Product{ID: 2, Name: "Gadget", Price: money("5.00"), Stock: stock, IsActive: true}
}

// =====================
// PlaceOrder
// =====================

func TestOrderUsecase_PlaceOrder_Success(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()

	f.customers.On("FindByUserID", mock.Anything, int64(1)).Return(ada, nil)
	f.products.On("FindByIDsForUpdate", mock.Anything, []int64{1, 2}).Return([]model.Product{widget(5), gadget(3)}, nil)
	f.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.CustomerID == 10 && o.Status == model.OrderStatusPending && o.ShippingAddress == "1 Main St"
	})).Return(int64(100), nil)
	f.items.On("CreateBulk", mock.Anything, int64(100), mock.MatchedBy(func(items []model.OrderItem) bool {
		return len(items) == 2 &&
			items[0].Price.Equal(money("10.00")) && items[0].Subtotal.Equal(money("20.00")) &&
			items[1].Price.Equal(money("5.00")) && items[1].Subtotal.Equal(money("5.00"))
	})).Return(nil)
	f.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(1), int64(2)).Return(true, nil)
	f.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(2), int64(1)).Return(true, nil)
	f.inventory.On("CreateAdjustment", mock.Anything, mock.MatchedBy(func(a model.InventoryAdjustment) bool {
		return a.Delta < 0 && a.Reason == model.ReasonOrderPlaced && a.OrderID != nil && *a.OrderID == 100
	})).Return(nil).Twice()
	f.orders.On("RecalculateTotal", mock.Anything, int64(100)).Return(money("25.00"), nil)

	out, err := f.uc.PlaceOrder(ctx, customerActor, usecase.PlaceOrderInput{
		ShippingAddress: " 1 Main St ",
		Items: []usecase.PlaceOrderLine{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(100), out.ID)
	assert.Equal(t, "pending", out.Status)
	assert.Equal(t, "25.00", out.TotalAmount)
	assert.Equal(t, "Ada Lovelace", out.CustomerName)
	assert.Equal(t, int64(10), out.Customer.ID)
	assert.Equal(t, "Ada Lovelace", out.Customer.FullName)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "Widget", out.Items[0].ProductName)
	assert.Equal(t, "products/widget.png", out.Items[0].ProductImage)
	assert.Equal(t, "20.00", out.Items[0].Subtotal)

	assert.Equal(t, []string{event.TopicOrderPlaced}, f.events.topics())

	f.tx.AssertExpectations(t)
	f.orders.AssertExpectations(t)
	f.items.AssertExpectations(t)
	f.inventory.AssertExpectations(t)
}

func TestOrderUsecase_PlaceOrder_InsufficientStock_NoWrites(t *testing.T) {
	f := newOrderFixture()

	f.customers.On("FindByUserID", mock.Anything, int64(1)).Return(ada, nil)
	f.products.On("FindByIDsForUpdate", mock.Anything, []int64{1, 2}).Return([]model.Product{widget(1), gadget(3)}, nil)

	_, err := f.uc.PlaceOrder(context.Background(), customerActor, usecase.PlaceOrderInput{
		ShippingAddress: "1 Main St",
		Items: []usecase.PlaceOrderLine{
			{ProductID: 2, Quantity: 1},
			{ProductID: 1, Quantity: 2},
		},
	})

	assertHTTPError(t, err, http.StatusBadRequest, usecase.CodeInsufficientStock)
	assertErrContains(t, err, "Widget")
	f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.inventory.AssertNotCalled(t, "DecreaseStockIfEnough", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, f.events.topics())
}

// 同じ商品の複数行は合計で在庫判定する
func TestOrderUsecase_PlaceOrder_DuplicateLinesAreSummed(t *testing.T) {
	f := newOrderFixture()

	f.customers.On("FindByUserID", mock.Anything, int64(1)).Return(ada, nil)
	f.products.On("FindByIDsForUpdate", mock.Anything, []int64{1}).Return([]model.Product{widget(5)}, nil)

	_, err := f.uc.PlaceOrder(context.Background(), customerActor, usecase.PlaceOrderInput{
		ShippingAddress: "1 Main St",
		Items: []usecase.PlaceOrderLine{
			{ProductID: 1, Quantity: 3},
			{ProductID: 1, Quantity: 3},
		},
	})

	assertHTTPError(t, err, http.StatusBadRequest, usecase.CodeInsufficientStock)
	f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderUsecase_PlaceOrder_ProductUnavailable(t *testing.T) {
	tests := []struct {
		name   string
		locked []model.Product
	}{
		{"inactive", []model.Product{{ID: 1, Name: "Widget", Price: money("10.00"), Stock: 5, IsActive: false}}},
		{"missing", []model.Product{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOrderFixture()
			f.customers.On("FindByUserID", mock.Anything, int64(1)).Return(ada, nil)
			f.products.On("FindByIDsForUpdate", mock.Anything, []int64{1}).Return(tt.locked, nil)

			_, err := f.uc.PlaceOrder(context.Background(), customerActor, usecase.PlaceOrderInput{
				ShippingAddress: "1 Main St",
				Items:           []usecase.PlaceOrderLine{{ProductID: 1, Quantity: 1}},
			})

			assertHTTPError(t, err, http.StatusBadRequest, usecase.CodeProductUnavailable)
			f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestOrderUsecase_PlaceOrder_InvalidInput_NoTx(t *testing.T) {
	tests := []struct {
		name  string
		actor usecase.Actor
		in    usecase.PlaceOrderInput
		code  string
	}{
		{"anonymous", anonActor, usecase.PlaceOrderInput{ShippingAddress: "x", Items: []usecase.PlaceOrderLine{{ProductID: 1, Quantity: 1}}}, usecase.CodeUnauthorized},
		{"no items", customerActor, usecase.PlaceOrderInput{ShippingAddress: "x"}, usecase.CodeValidation},
		{"zero quantity", customerActor, usecase.PlaceOrderInput{ShippingAddress: "x", Items: []usecase.PlaceOrderLine{{ProductID: 1, Quantity: 0}}}, usecase.CodeValidation},
		{"blank address", customerActor, usecase.PlaceOrderInput{ShippingAddress: "  ", Items: []usecase.PlaceOrderLine{{ProductID: 1, Quantity: 1}}}, usecase.CodeValidation},
		{"bad product id", customerActor, usecase.PlaceOrderInput{ShippingAddress: "x", Items: []usecase.PlaceOrderLine{{ProductID: 0, Quantity: 1}}}, usecase.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOrderFixture()

			_, err := f.uc.PlaceOrder(context.Background(), tt.actor, tt.in)

			he, ok := usecase.AsHTTPError(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, he.Code)
			f.tx.AssertNotCalled(t, "WithinTx", mock.Anything)
		})
	}
}

func TestOrderUsecase_PlaceOrder_NoCustomerProfile(t *testing.T) {
	f := newOrderFixture()
	f.customers.On("FindByUserID", mock.Anything, int64(1)).Return(model.Customer{}, repo.ErrNotFound)

	_, err := f.uc.PlaceOrder(context.Background(), customerActor, usecase.PlaceOrderInput{
		ShippingAddress: "1 Main St",
		Items:           []usecase.PlaceOrderLine{{ProductID: 1, Quantity: 1}},
	})

	assertHTTPError(t, err, http.StatusNotFound, usecase.CodeNotFound)
}

// 条件付き減算に負けた場合（同時注文）はtxごと失敗させる
func TestOrderUsecase_PlaceOrder_ConditionalDecrementLost(t *testing.T) {
	f := newOrderFixture()

	f.customers.On("FindByUserID", mock.Anything, int64(1)).Return(ada, nil)
	f.products.On("FindByIDsForUpdate", mock.Anything, []int64{1}).Return([]model.Product{widget(1)}, nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(int64(100), nil)
	f.items.On("CreateBulk", mock.Anything, int64(100), mock.Anything).Return(nil)
	f.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(1), int64(1)).Return(false, nil)

	_, err := f.uc.PlaceOrder(context.Background(), customerActor, usecase.PlaceOrderInput{
		ShippingAddress: "1 Main St",
		Items:           []usecase.PlaceOrderLine{{ProductID: 1, Quantity: 1}},
	})

	assertHTTPError(t, err, http.StatusBadRequest, usecase.CodeInsufficientStock)
	f.orders.AssertNotCalled(t, "RecalculateTotal", mock.Anything, mock.Anything)
	assert.Empty(t, f.events.topics())
}

// DB上の合計が明細と食い違えば注文を成立させない
func TestOrderUsecase_PlaceOrder_TotalMismatchRollsBack(t *testing.T) {
	f := newOrderFixture()

	f.customers.On("FindByUserID", mock.Anything, int64(1)).Return(ada, nil)
	f.products.On("FindByIDsForUpdate", mock.Anything, []int64{1}).Return([]model.Product{widget(5)}, nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(int64(100), nil)
	f.items.On("CreateBulk", mock.Anything, int64(100), mock.Anything).Return(nil)
	f.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(1), int64(2)).Return(true, nil)
	f.inventory.On("CreateAdjustment", mock.Anything, mock.Anything).Return(nil)
	f.orders.On("RecalculateTotal", mock.Anything, int64(100)).Return(money("10.00"), nil)

	_, err := f.uc.PlaceOrder(context.Background(), customerActor, usecase.PlaceOrderInput{
		ShippingAddress: "1 Main St",
		Items:           []usecase.PlaceOrderLine{{ProductID: 1, Quantity: 2}},
	})

	assertHTTPError(t, err, http.StatusInternalServerError, usecase.CodeInternal)
	assert.Empty(t, f.events.topics())
}

// イベント送信失敗でも注文は成立
func TestOrderUsecase_PlaceOrder_PublishFailureIgnored(t *testing.T) {
	f := newOrderFixture()
	f.events.err = errors.New("broker down")

	f.customers.On("FindByUserID", mock.Anything, int64(1)).Return(ada, nil)
	f.products.On("FindByIDsForUpdate", mock.Anything, []int64{1}).Return([]model.Product{widget(5)}, nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(int64(100), nil)
	f.items.On("CreateBulk", mock.Anything, int64(100), mock.Anything).Return(nil)
	f.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(1), int64(1)).Return(true, nil)
	f.inventory.On("CreateAdjustment", mock.Anything, mock.Anything).Return(nil)
	f.orders.On("RecalculateTotal", mock.Anything, int64(100)).Return(money("10.00"), nil)

	out, err := f.uc.PlaceOrder(context.Background(), customerActor, usecase.PlaceOrderInput{
		ShippingAddress: "1 Main St",
		Items:           []usecase.PlaceOrderLine{{ProductID: 1, Quantity: 1}},
	})

	require.NoError(t, err)
	assert.Equal(t, "10.00", out.TotalAmount)
	assert.Len(t, f.events.topics(), 1)
}

// =====================
// CancelOrder
// =====================

func placedItems() []model.OrderItem {
	return []model.OrderItem{
		{ID: 1, OrderID: 100, ProductID: 1, Quantity: 2, Price: money("10.00"), Subtotal: money("20.00")},
		{ID: 2, OrderID: 100, ProductID: 2, Quantity: 1, Price: money("5.00"), Subtotal: money("5.00")},
	}
}

func TestOrderUsecase_CancelOrder_RestoresStock(t *testing.T) {
	f := newOrderFixture()

	f.orders.On("FindByIDForUpdate", mock.Anything, int64(100)).
		Return(model.Order{ID: 100, CustomerID: 10, Status: model.OrderStatusProcessing}, nil)
	f.customers.On("FindByUserID", mock.Anything, int64(1)).Return(ada, nil)
	f.items.On("ListByOrderID", mock.Anything, int64(100)).Return(placedItems(), nil)
	f.inventory.On("IncreaseStock", mock.Anything, int64(1), int64(2)).Return(nil).Once()
	f.inventory.On("IncreaseStock", mock.Anything, int64(2), int64(1)).Return(nil).Once()
	f.inventory.On("CreateAdjustment", mock.Anything, mock.MatchedBy(func(a model.InventoryAdjustment) bool {
		return a.Delta > 0 && a.Reason == model.ReasonOrderCancelled
	})).Return(nil).Twice()
	f.orders.On("UpdateStatus", mock.Anything, int64(100), model.OrderStatusCancelled).Return(nil)
	f.orders.On("FindByID", mock.Anything, int64(100)).
		Return(model.Order{ID: 100, CustomerID: 10, Status: model.OrderStatusCancelled, TotalAmount: money("25.00")}, nil)

	out, err := f.uc.CancelOrder(context.Background(), customerActor, 100)
	require.NoError(t, err)

	assert.Equal(t, "cancelled", out.Status)
	assert.Equal(t, "25.00", out.TotalAmount)
	assert.Equal(t, []string{event.TopicOrderCancelled}, f.events.topics())

	f.inventory.AssertExpectations(t)
	f.orders.AssertExpectations(t)
}

func TestOrderUsecase_CancelOrder_InvalidTransition(t *testing.T) {
	for _, st := range []model.OrderStatus{model.OrderStatusShipped, model.OrderStatusDelivered, model.OrderStatusCancelled} {
		t.Run(string(st), func(t *testing.T) {
			f := newOrderFixture()
			f.orders.On("FindByIDForUpdate", mock.Anything, int64(100)).
				Return(model.Order{ID: 100, CustomerID: 10, Status: st}, nil)

			_, err := f.uc.CancelOrder(context.Background(), staffActor, 100)

			assertHTTPError(t, err, http.StatusBadRequest, usecase.CodeInvalidTransition)
			f.inventory.AssertNotCalled(t, "IncreaseStock", mock.Anything, mock.Anything, mock.Anything)
			f.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
			assert.Empty(t, f.events.topics())
		})
	}
}

// 他人の注文は404
func TestOrderUsecase_CancelOrder_NotOwner(t *testing.T) {
	f := newOrderFixture()
	f.orders.On("FindByIDForUpdate", mock.Anything, int64(100)).
		Return(model.Order{ID: 100, CustomerID: 10, Status: model.OrderStatusPending}, nil)
	f.customers.On("FindByUserID", mock.Anything, int64(2)).Return(model.Customer{ID: 20, UserID: 2}, nil)

	_, err := f.uc.CancelOrder(context.Background(), otherActor, 100)

	assertHTTPError(t, err, http.StatusNotFound, usecase.CodeNotFound)
	f.inventory.AssertNotCalled(t, "IncreaseStock", mock.Anything, mock.Anything, mock.Anything)
}

// =====================
// List / Get
// =====================

func TestOrderUsecase_ListOrders_StaffSeesAll(t *testing.T) {
	f := newOrderFixture()

	orders := []model.Order{
		{ID: 11, CustomerID: 20, Status: model.OrderStatusPending, TotalAmount: money("5.00")},
		{ID: 10, CustomerID: 10, Status: model.OrderStatusShipped, TotalAmount: money("25.00"), Customer: ada},
	}
	f.orders.On("List", mock.Anything, repo.OrderListFilter{}).Return(orders, nil)
	f.items.On("CountByOrderIDs", mock.Anything, []int64{11, 10}).Return(map[int64]int64{10: 2, 11: 1}, nil)

	outs, err := f.uc.ListOrders(context.Background(), staffActor, "")
	require.NoError(t, err)

	require.Len(t, outs, 2)
	assert.Equal(t, int64(1), outs[0].ItemsCount)
	assert.Equal(t, "Ada Lovelace", outs[1].CustomerName)
	assert.Equal(t, "25.00", outs[1].TotalAmount)
	f.customers.AssertNotCalled(t, "FindByUserID", mock.Anything, mock.Anything)
}

func TestOrderUsecase_ListOrders_CustomerSeesOwn(t *testing.T) {
	f := newOrderFixture()

	customerID := int64(10)
	f.customers.On("FindByUserID", mock.Anything, int64(1)).Return(ada, nil)
	f.orders.On("List", mock.Anything, repo.OrderListFilter{CustomerID: &customerID, Status: model.OrderStatusPending}).
		Return([]model.Order{{ID: 10, CustomerID: 10, Status: model.OrderStatusPending}}, nil)
	f.items.On("CountByOrderIDs", mock.Anything, []int64{10}).Return(map[int64]int64{10: 2}, nil)

	outs, err := f.uc.ListOrders(context.Background(), customerActor, "pending")
	require.NoError(t, err)
	require.Len(t, outs, 1)
	assert.Equal(t, int64(2), outs[0].ItemsCount)
	f.orders.AssertExpectations(t)
}

func TestOrderUsecase_ListOrders_InvalidStatus(t *testing.T) {
	f := newOrderFixture()

	_, err := f.uc.ListOrders(context.Background(), staffActor, "lost")
	assertHTTPError(t, err, http.StatusBadRequest, usecase.CodeValidation)
}

func TestOrderUsecase_GetOrder_StaffCanReadAny(t *testing.T) {
	f := newOrderFixture()
	o := model.Order{ID: 100, CustomerID: 10, Status: model.OrderStatusPending, TotalAmount: money("25.00"), Customer: ada}
	f.orders.On("FindByID", mock.Anything, int64(100)).Return(o, nil)
	f.items.On("ListByOrderID", mock.Anything, int64(100)).Return(placedItems(), nil)

	out, err := f.uc.GetOrder(context.Background(), staffActor, 100)
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)
	assert.Equal(t, "Ada Lovelace", out.CustomerName)
}

// 他人の注文は存在しないものとして扱う
func TestOrderUsecase_GetOrder_OtherCustomerGets404(t *testing.T) {
	f := newOrderFixture()
	f.orders.On("FindByID", mock.Anything, int64(100)).
		Return(model.Order{ID: 100, CustomerID: 10, Status: model.OrderStatusPending, Customer: ada}, nil)
	f.customers.On("FindByUserID", mock.Anything, int64(2)).Return(model.Customer{ID: 20, UserID: 2}, nil)

	_, err := f.uc.GetOrder(context.Background(), otherActor, 100)

	assertHTTPError(t, err, http.StatusNotFound, usecase.CodeNotFound)
	f.items.AssertNotCalled(t, "ListByOrderID", mock.Anything, mock.Anything)
}

func TestOrderUsecase_GetOrder_OwnerReads(t *testing.T) {
	f := newOrderFixture()
	f.orders.On("FindByID", mock.Anything, int64(100)).
		Return(model.Order{ID: 100, CustomerID: 10, Status: model.OrderStatusPending, TotalAmount: money("25.00"), Customer: ada}, nil)
	f.customers.On("FindByUserID", mock.Anything, int64(1)).Return(ada, nil)
	f.items.On("ListByOrderID", mock.Anything, int64(100)).Return(placedItems(), nil)

	out, err := f.uc.GetOrder(context.Background(), customerActor, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(100), out.ID)
}

// =====================
// UpdateOrder
// =====================

func strPtr(s string) *string { return &s }

func TestOrderUsecase_UpdateOrder_StatusRequiresStaff(t *testing.T) {
	f := newOrderFixture()
	f.orders.On("FindByIDForUpdate", mock.Anything, int64(100)).
		Return(model.Order{ID: 100, CustomerID: 10, Status: model.OrderStatusPending}, nil)
	f.customers.On("FindByUserID", mock.Anything, int64(1)).Return(ada, nil)

	_, err := f.uc.UpdateOrder(context.Background(), customerActor, 100, usecase.UpdateOrderInput{Status: strPtr("shipped")})

	assertHTTPError(t, err, http.StatusForbidden, usecase.CodeForbidden)
	f.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderUsecase_UpdateOrder_StaffMovesForward(t *testing.T) {
	f := newOrderFixture()
	f.orders.On("FindByIDForUpdate", mock.Anything, int64(100)).
		Return(model.Order{ID: 100, CustomerID: 10, Status: model.OrderStatusPending}, nil)
	f.orders.On("UpdateStatus", mock.Anything, int64(100), model.OrderStatusShipped).Return(nil)
	f.audit.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionUpdateOrderStatus && l.ResourceID == 100 && l.ActorUserID == 99
	})).Return(nil)
	f.orders.On("FindByID", mock.Anything, int64(100)).
		Return(model.Order{ID: 100, CustomerID: 10, Status: model.OrderStatusShipped}, nil)
	f.items.On("ListByOrderID", mock.Anything, int64(100)).Return(placedItems(), nil)

	out, err := f.uc.UpdateOrder(context.Background(), staffActor, 100, usecase.UpdateOrderInput{Status: strPtr("shipped")})
	require.NoError(t, err)

	assert.Equal(t, "shipped", out.Status)
	assert.Equal(t, []string{event.TopicOrderStatusUpdated}, f.events.topics())
	f.audit.AssertExpectations(t)
}

func TestOrderUsecase_UpdateOrder_BackwardMoveRejected(t *testing.T) {
	f := newOrderFixture()
	f.orders.On("FindByIDForUpdate", mock.Anything, int64(100)).
		Return(model.Order{ID: 100, CustomerID: 10, Status: model.OrderStatusShipped}, nil)

	_, err := f.uc.UpdateOrder(context.Background(), staffActor, 100, usecase.UpdateOrderInput{Status: strPtr("processing")})

	assertHTTPError(t, err, http.StatusBadRequest, usecase.CodeInvalidTransition)
	f.audit.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderUsecase_UpdateOrder_AddressOnlyWhilePending(t *testing.T) {
	f := newOrderFixture()
	f.orders.On("FindByIDForUpdate", mock.Anything, int64(100)).
		Return(model.Order{ID: 100, CustomerID: 10, Status: model.OrderStatusShipped}, nil)
	f.customers.On("FindByUserID", mock.Anything, int64(1)).Return(ada, nil)

	_, err := f.uc.UpdateOrder(context.Background(), customerActor, 100, usecase.UpdateOrderInput{ShippingAddress: strPtr("2 Side St")})

	assertHTTPError(t, err, http.StatusBadRequest, usecase.CodeInvalidTransition)
	f.orders.AssertNotCalled(t, "UpdateShipping", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderUsecase_UpdateOrder_OwnerEditsAddress(t *testing.T) {
	f := newOrderFixture()
	f.orders.On("FindByIDForUpdate", mock.Anything, int64(100)).
		Return(model.Order{ID: 100, CustomerID: 10, Status: model.OrderStatusPending, ShippingAddress: "1 Main St", OrderNotes: "ring twice"}, nil)
	f.customers.On("FindByUserID", mock.Anything, int64(1)).Return(ada, nil)
	f.orders.On("UpdateShipping", mock.Anything, int64(100), "2 Side St", "ring twice").Return(nil)
	f.orders.On("FindByID", mock.Anything, int64(100)).
		Return(model.Order{ID: 100, CustomerID: 10, Status: model.OrderStatusPending, ShippingAddress: "2 Side St"}, nil)
	f.items.On("ListByOrderID", mock.Anything, int64(100)).Return(placedItems(), nil)

	out, err := f.uc.UpdateOrder(context.Background(), customerActor, 100, usecase.UpdateOrderInput{ShippingAddress: strPtr("2 Side St")})
	require.NoError(t, err)
	assert.Equal(t, "2 Side St", out.ShippingAddress)
	assert.Empty(t, f.events.topics())
	f.orders.AssertExpectations(t)
}

// =====================
// DeleteOrder
// =====================

func TestOrderUsecase_DeleteOrder_StaffRestoresStock(t *testing.T) {
	f := newOrderFixture()
	f.orders.On("FindByIDForUpdate", mock.Anything, int64(100)).
		Return(model.Order{ID: 100, CustomerID: 10, Status: model.OrderStatusPending, TotalAmount: money("25.00")}, nil)
	f.items.On("ListByOrderID", mock.Anything, int64(100)).Return(placedItems(), nil)
	f.inventory.On("IncreaseStock", mock.Anything, mock.Anything, mock.Anything).Return(nil).Twice()
	f.inventory.On("CreateAdjustment", mock.Anything, mock.MatchedBy(func(a model.InventoryAdjustment) bool {
		return a.Reason == model.ReasonOrderDeleted
	})).Return(nil).Twice()
	f.items.On("DeleteByOrderID", mock.Anything, int64(100)).Return(nil)
	f.orders.On("Delete", mock.Anything, int64(100)).Return(nil)
	f.audit.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionDeleteOrder
	})).Return(nil)

	require.NoError(t, f.uc.DeleteOrder(context.Background(), staffActor, 100))

	f.inventory.AssertExpectations(t)
	f.orders.AssertExpectations(t)
	f.audit.AssertExpectations(t)
}

func TestOrderUsecase_DeleteOrder_DeliveredKeepsStock(t *testing.T) {
	f := newOrderFixture()
	f.orders.On("FindByIDForUpdate", mock.Anything, int64(100)).
		Return(model.Order{ID: 100, CustomerID: 10, Status: model.OrderStatusDelivered}, nil)
	f.items.On("DeleteByOrderID", mock.Anything, int64(100)).Return(nil)
	f.orders.On("Delete", mock.Anything, int64(100)).Return(nil)
	f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, f.uc.DeleteOrder(context.Background(), staffActor, 100))
	f.inventory.AssertNotCalled(t, "IncreaseStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderUsecase_DeleteOrder_CustomerForbidden(t *testing.T) {
	f := newOrderFixture()

	err := f.uc.DeleteOrder(context.Background(), customerActor, 100)
	assertHTTPError(t, err, http.StatusForbidden, usecase.CodeForbidden)
	f.tx.AssertNotCalled(t, "WithinTx", mock.Anything)
}
