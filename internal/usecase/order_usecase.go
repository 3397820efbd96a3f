package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/shadinbyte/shopease/internal/domain/model"
	"github.com/shadinbyte/shopease/internal/infra/event"
	"github.com/shadinbyte/shopease/internal/logger"
	repo "github.com/shadinbyte/shopease/internal/repository"

	"github.com/shopspring/decimal"
)

type OrderUsecase struct {
	tx     repo.TransactionManager
	events event.Publisher
	log    *logger.Logger
}

func NewOrderUsecase(tx repo.TransactionManager, events event.Publisher, log *logger.Logger) *OrderUsecase {
	return &OrderUsecase{tx: tx, events: events, log: log.WithComponent("order_usecase")}
}

type PlaceOrderLine struct {
	ProductID int64
	Quantity  int64
}

type PlaceOrderInput struct {
	ShippingAddress string
	OrderNotes      string
	Items           []PlaceOrderLine
}

// nil は変更しない
type UpdateOrderInput struct {
	ShippingAddress *string
	OrderNotes      *string
	Status          *string
}

type OrderItemOutput struct {
	ID           int64  `json:"id"`
	ProductID    int64  `json:"product"`
	ProductName  string `json:"product_name"`
	ProductImage string `json:"product_image"`
	Quantity     int64  `json:"quantity"`
	Price        string `json:"price"`
	Subtotal     string `json:"subtotal"`
}

// 詳細は顧客プロフィールを丸ごと持つ
type OrderOutput struct {
	ID              int64             `json:"id"`
	Customer        CustomerOutput    `json:"customer"`
	CustomerName    string            `json:"customer_name"`
	Status          string            `json:"status"`
	ShippingAddress string            `json:"shipping_address"`
	OrderNotes      string            `json:"order_notes"`
	TotalAmount     string            `json:"total_amount"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	Items           []OrderItemOutput `json:"items"`
}

// 一覧用（明細は件数のみ）
type OrderSummaryOutput struct {
	ID           int64     `json:"id"`
	CustomerID   int64     `json:"customer"`
	CustomerName string    `json:"customer_name"`
	Status       string    `json:"status"`
	TotalAmount  string    `json:"total_amount"`
	ItemsCount   int64     `json:"items_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *OrderUsecase) PlaceOrder(ctx context.Context, actor Actor, in PlaceOrderInput) (OrderOutput, error) {
	if !actor.Authenticated() {
		return OrderOutput{}, errUnauthorized()
	}

	address := strings.TrimSpace(in.ShippingAddress)
	if address == "" {
		return OrderOutput{}, errValidation("shipping_address required")
	}
	if len(in.Items) == 0 {
		return OrderOutput{}, errValidation("order must contain at least one item")
	}

	//同じ商品の行は合計数量で在庫を見る
	need := make(map[int64]int64, len(in.Items))
	for _, line := range in.Items {
		if line.ProductID <= 0 {
			return OrderOutput{}, errValidation("invalid product id")
		}
		if line.Quantity < 1 {
			return OrderOutput{}, errValidation("quantity must be >= 1")
		}
		need[line.ProductID] += line.Quantity
	}
	ids := make([]int64, 0, len(need))
	for id := range need {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var out OrderOutput

	//注文処理はトランザクション
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		customer, err := r.Customers().FindByUserID(ctx, actor.UserID)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound("customer profile not found")
		}
		if err != nil {
			return errDB()
		}

		//商品行ロック（id順）
		locked, err := r.Products().FindByIDsForUpdate(ctx, ids)
		if err != nil {
			return errDB()
		}
		products := make(map[int64]model.Product, len(locked))
		for _, p := range locked {
			products[p.ID] = p
		}

		//書き込み前に全行を検証
		for _, id := range ids {
			p, ok := products[id]
			if !ok || !p.IsActive {
				return NewCodedError(http.StatusBadRequest, CodeProductUnavailable,
					fmt.Sprintf("product %d is not available", id))
			}
			if !p.CanFulfil(need[id]) {
				return NewCodedError(http.StatusBadRequest, CodeInsufficientStock,
					fmt.Sprintf("insufficient stock for %s (available %d, requested %d)", p.Name, p.Stock, need[id]))
			}
		}

		// 注文作成
		orderID, err := r.Orders().Create(ctx, model.Order{
			CustomerID:      customer.ID,
			Status:          model.OrderStatusPending,
			ShippingAddress: address,
			OrderNotes:      in.OrderNotes,
		})
		if err != nil {
			return errDB()
		}

		//スナップショット
		items := make([]model.OrderItem, 0, len(in.Items))
		for _, line := range in.Items {
			items = append(items, model.NewOrderItem(products[line.ProductID], line.Quantity))
		}
		if err := r.OrderItems().CreateBulk(ctx, orderID, items); err != nil {
			return errDB()
		}

		//在庫減算
		for _, id := range ids {
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, id, need[id])
			if err != nil {
				return errDB()
			}
			if !ok {
				return NewCodedError(http.StatusBadRequest, CodeInsufficientStock,
					fmt.Sprintf("insufficient stock for %s", products[id].Name))
			}
			if err := r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{
				ProductID:   id,
				ActorUserID: actor.UserID,
				OrderID:     &orderID,
				Delta:       -need[id],
				Reason:      model.ReasonOrderPlaced,
			}); err != nil {
				return errDB()
			}
		}

		//合計は保存済み明細から計算し直す
		total, err := r.Orders().RecalculateTotal(ctx, orderID)
		if err != nil {
			return errDB()
		}
		//保存された明細と作った明細が一致しなければロールバック
		if want := model.SumSubtotals(items); !total.Equal(want) {
			u.log.Error("order total mismatch", "order_id", orderID, "stored", total.StringFixed(2), "expected", want.StringFixed(2))
			return errDB()
		}

		now := time.Now()
		for i := range items {
			items[i].Product = products[items[i].ProductID]
		}
		out = toOrderOutput(model.Order{
			ID:              orderID,
			CustomerID:      customer.ID,
			Status:          model.OrderStatusPending,
			ShippingAddress: address,
			OrderNotes:      in.OrderNotes,
			TotalAmount:     total,
			CreatedAt:       now,
			UpdatedAt:       now,
			Customer:        customer,
		}, items)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}

	u.publish(ctx, event.TopicOrderPlaced, out, actor)
	return out, nil
}

// スタッフは全件、顧客は自分の注文のみ（新しい順）
func (u *OrderUsecase) ListOrders(ctx context.Context, actor Actor, status string) ([]OrderSummaryOutput, error) {
	if !actor.Authenticated() {
		return []OrderSummaryOutput{}, errUnauthorized()
	}

	f := repo.OrderListFilter{Status: model.OrderStatus(strings.TrimSpace(status))}
	if f.Status != "" && !f.Status.Valid() {
		return []OrderSummaryOutput{}, errValidation("invalid status")
	}

	var outs []OrderSummaryOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if !actor.IsStaff() {
			customer, err := r.Customers().FindByUserID(ctx, actor.UserID)
			if errors.Is(err, repo.ErrNotFound) {
				outs = []OrderSummaryOutput{}
				return nil
			}
			if err != nil {
				return errDB()
			}
			f.CustomerID = &customer.ID
		}

		orders, err := r.Orders().List(ctx, f)
		if err != nil {
			return errDB()
		}

		ids := make([]int64, 0, len(orders))
		for _, o := range orders {
			ids = append(ids, o.ID)
		}
		counts, err := r.OrderItems().CountByOrderIDs(ctx, ids)
		if err != nil {
			return errDB()
		}

		outs = make([]OrderSummaryOutput, 0, len(orders))
		for _, o := range orders {
			outs = append(outs, OrderSummaryOutput{
				ID:           o.ID,
				CustomerID:   o.CustomerID,
				CustomerName: o.Customer.FullName(),
				Status:       string(o.Status),
				TotalAmount:  o.TotalAmount.StringFixed(2),
				ItemsCount:   counts[o.ID],
				CreatedAt:    o.CreatedAt,
				UpdatedAt:    o.UpdatedAt,
			})
		}
		return nil
	})

	if err != nil {
		return []OrderSummaryOutput{}, err
	}
	return outs, nil
}

func (u *OrderUsecase) GetOrder(ctx context.Context, actor Actor, orderID int64) (OrderOutput, error) {
	if !actor.Authenticated() {
		return OrderOutput{}, errUnauthorized()
	}
	if orderID <= 0 {
		return OrderOutput{}, errValidation("invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound("order not found")
		}
		if err != nil {
			return errDB()
		}
		if err := checkVisible(ctx, r, actor, o); err != nil {
			return err
		}

		out, err = loadOrderOutput(ctx, r, orderID)
		return err
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 発送前なら在庫を戻して cancelled にする
func (u *OrderUsecase) CancelOrder(ctx context.Context, actor Actor, orderID int64) (OrderOutput, error) {
	if !actor.Authenticated() {
		return OrderOutput{}, errUnauthorized()
	}
	if orderID <= 0 {
		return OrderOutput{}, errValidation("invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByIDForUpdate(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound("order not found")
		}
		if err != nil {
			return errDB()
		}
		if err := checkVisible(ctx, r, actor, o); err != nil {
			return err
		}

		if err := cancelInTx(ctx, r, actor, o); err != nil {
			return err
		}

		out, err = loadOrderOutput(ctx, r, orderID)
		return err
	})
	if err != nil {
		return OrderOutput{}, err
	}

	u.publish(ctx, event.TopicOrderCancelled, out, actor)
	return out, nil
}

// 顧客は pending の間だけ配送先・メモを変更できる。ステータス変更はスタッフのみ
func (u *OrderUsecase) UpdateOrder(ctx context.Context, actor Actor, orderID int64, in UpdateOrderInput) (OrderOutput, error) {
	if !actor.Authenticated() {
		return OrderOutput{}, errUnauthorized()
	}
	if orderID <= 0 {
		return OrderOutput{}, errValidation("invalid id")
	}

	var next model.OrderStatus
	if in.Status != nil {
		next = model.OrderStatus(strings.TrimSpace(*in.Status))
		if !next.Valid() {
			return OrderOutput{}, errValidation("invalid status")
		}
	}
	if in.ShippingAddress != nil && strings.TrimSpace(*in.ShippingAddress) == "" {
		return OrderOutput{}, errValidation("shipping_address required")
	}

	var (
		out        OrderOutput
		statusFrom model.OrderStatus
		changed    bool
	)

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByIDForUpdate(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound("order not found")
		}
		if err != nil {
			return errDB()
		}
		if err := checkVisible(ctx, r, actor, o); err != nil {
			return err
		}
		statusFrom = o.Status

		//配送先・メモ
		if in.ShippingAddress != nil || in.OrderNotes != nil {
			if o.Status != model.OrderStatusPending {
				return errTransition("order can only be edited while pending")
			}
			address := o.ShippingAddress
			if in.ShippingAddress != nil {
				address = strings.TrimSpace(*in.ShippingAddress)
			}
			notes := o.OrderNotes
			if in.OrderNotes != nil {
				notes = *in.OrderNotes
			}
			if err := r.Orders().UpdateShipping(ctx, orderID, address, notes); err != nil {
				return errDB()
			}
		}

		// すでに同じなら何もしない
		if in.Status != nil && next != o.Status {
			if !actor.IsStaff() {
				return errForbidden()
			}
			if err := changeStatusInTx(ctx, r, actor, o, next); err != nil {
				return err
			}
			changed = true
		}

		out, err = loadOrderOutput(ctx, r, orderID)
		return err
	})
	if err != nil {
		return OrderOutput{}, err
	}

	if changed {
		topic := event.TopicOrderStatusUpdated
		if next == model.OrderStatusCancelled {
			topic = event.TopicOrderCancelled
		}
		u.log.Info("order status changed", "order_id", orderID, "from", statusFrom, "to", next, "actor_user_id", actor.UserID)
		u.publish(ctx, topic, out, actor)
	}
	return out, nil
}

// スタッフのみ。在庫を確保したままの注文は戻してから消す
func (u *OrderUsecase) DeleteOrder(ctx context.Context, actor Actor, orderID int64) error {
	if !actor.Authenticated() {
		return errUnauthorized()
	}
	if !actor.IsStaff() {
		return errForbidden()
	}
	if orderID <= 0 {
		return errValidation("invalid id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByIDForUpdate(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound("order not found")
		}
		if err != nil {
			return errDB()
		}

		if o.Status.HoldsStock() {
			if err := restoreStock(ctx, r, actor, orderID, model.ReasonOrderDeleted); err != nil {
				return err
			}
		}

		if err := r.OrderItems().DeleteByOrderID(ctx, orderID); err != nil {
			return errDB()
		}
		if err := r.Orders().Delete(ctx, orderID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return errNotFound("order not found")
			}
			return errDB()
		}

		return writeAudit(ctx, r, actor, model.AuditActionDeleteOrder, model.AuditResourceOrder, orderID,
			map[string]any{"status": o.Status, "total_amount": o.TotalAmount.StringFixed(2)},
			map[string]any{"deleted": true},
		)
	})
}

// 他人の注文は「存在しない扱い」にする
func checkVisible(ctx context.Context, r repo.TxRepos, actor Actor, o model.Order) error {
	if actor.IsStaff() {
		return nil
	}
	customer, err := r.Customers().FindByUserID(ctx, actor.UserID)
	if errors.Is(err, repo.ErrNotFound) {
		return errNotFound("order not found")
	}
	if err != nil {
		return errDB()
	}
	if o.CustomerID != customer.ID {
		return errNotFound("order not found")
	}
	return nil
}

func cancelInTx(ctx context.Context, r repo.TxRepos, actor Actor, o model.Order) error {
	if o.Status == model.OrderStatusCancelled {
		return errTransition("order is already cancelled")
	}
	if !o.Status.Cancellable() {
		return errTransition("cannot cancel order that has been shipped or delivered")
	}

	if err := restoreStock(ctx, r, actor, o.ID, model.ReasonOrderCancelled); err != nil {
		return err
	}
	if err := r.Orders().UpdateStatus(ctx, o.ID, model.OrderStatusCancelled); err != nil {
		return errDB()
	}
	return nil
}

// 前進のみ。cancelled はキャンセル処理に流す
func changeStatusInTx(ctx context.Context, r repo.TxRepos, actor Actor, o model.Order, next model.OrderStatus) error {
	if next == model.OrderStatusCancelled {
		if err := cancelInTx(ctx, r, actor, o); err != nil {
			return err
		}
	} else {
		if !o.Status.CanMoveTo(next) {
			return errTransition(fmt.Sprintf("cannot change status from %s to %s", o.Status, next))
		}
		if err := r.Orders().UpdateStatus(ctx, o.ID, next); err != nil {
			return errDB()
		}
	}

	return writeAudit(ctx, r, actor, model.AuditActionUpdateOrderStatus, model.AuditResourceOrder, o.ID,
		map[string]any{"status": o.Status},
		map[string]any{"status": next},
	)
}

// 在庫戻し
func restoreStock(ctx context.Context, r repo.TxRepos, actor Actor, orderID int64, reason string) error {
	items, err := r.OrderItems().ListByOrderID(ctx, orderID)
	if err != nil {
		return errDB()
	}
	for _, it := range items {
		if err := r.Inventory().IncreaseStock(ctx, it.ProductID, it.Quantity); err != nil {
			return errDB()
		}
		if err := r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{
			ProductID:   it.ProductID,
			ActorUserID: actor.UserID,
			OrderID:     &orderID,
			Delta:       it.Quantity,
			Reason:      reason,
		}); err != nil {
			return errDB()
		}
	}
	return nil
}

func loadOrderOutput(ctx context.Context, r repo.TxRepos, orderID int64) (OrderOutput, error) {
	o, err := r.Orders().FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderOutput{}, errNotFound("order not found")
	}
	if err != nil {
		return OrderOutput{}, errDB()
	}
	items, err := r.OrderItems().ListByOrderID(ctx, orderID)
	if err != nil {
		return OrderOutput{}, errDB()
	}
	return toOrderOutput(o, items), nil
}

// イベント送信はコミット後。失敗しても注文は成立している
func (u *OrderUsecase) publish(ctx context.Context, topic string, out OrderOutput, actor Actor) {
	o := model.Order{
		ID:         out.ID,
		CustomerID: out.Customer.ID,
		Status:     model.OrderStatus(out.Status),
	}
	o.TotalAmount, _ = decimal.NewFromString(out.TotalAmount)

	if err := u.events.PublishOrder(ctx, topic, event.NewOrderEvent(o, actor.UserID)); err != nil {
		u.log.Warn("publish order event failed", "topic", topic, "order_id", out.ID, "error", err)
	}
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ID:           it.ID,
			ProductID:    it.ProductID,
			ProductName:  it.Product.Name,
			ProductImage: it.Product.Image,
			Quantity:     it.Quantity,
			Price:        it.Price.StringFixed(2),
			Subtotal:     it.Subtotal.StringFixed(2),
		})
	}

	customer := toCustomerOutput(o.Customer)
	customer.ID = o.CustomerID

	return OrderOutput{
		ID:              o.ID,
		Customer:        customer,
		CustomerName:    o.Customer.FullName(),
		Status:          string(o.Status),
		ShippingAddress: o.ShippingAddress,
		OrderNotes:      o.OrderNotes,
		TotalAmount:     o.TotalAmount.StringFixed(2),
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		Items:           outItems,
	}
}
