package handler

import (
	"net/http"

	"github.com/shadinbyte/shopease/internal/authz"
	"github.com/shadinbyte/shopease/internal/usecase"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	uc     *usecase.OrderUsecase
	guards Guards
}

func NewOrderHandler(uc *usecase.OrderUsecase, guards Guards) *OrderHandler {
	return &OrderHandler{uc: uc, guards: guards}
}

// 商品は "product"。旧クライアントの "product_id" も受ける
type orderItemRequest struct {
	Product   int64 `json:"product"`
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

func (r orderItemRequest) line() usecase.PlaceOrderLine {
	id := r.Product
	if id == 0 {
		id = r.ProductID
	}
	return usecase.PlaceOrderLine{ProductID: id, Quantity: r.Quantity}
}

type OrderCreateRequest struct {
	ShippingAddress string             `json:"shipping_address"`
	OrderNotes      string             `json:"order_notes"`
	Items           []orderItemRequest `json:"items"`
}

type OrderUpdateRequest struct {
	ShippingAddress *string `json:"shipping_address"`
	OrderNotes      *string `json:"order_notes"`
	Status          *string `json:"status"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/orders")
	read := h.guards.Require(authz.ObjOrders, authz.ActRead)
	write := h.guards.Require(authz.ObjOrders, authz.ActWrite)

	g.POST("", h.create, write...)
	g.GET("", h.list, read...)
	g.GET("/:id", h.detail, read...)
	g.PUT("/:id", h.update, write...)
	g.PATCH("/:id", h.update, write...)
	g.POST("/:id/cancel", h.cancel, write...)
	g.DELETE("/:id", h.delete, h.guards.Require(authz.ObjOrders, authz.ActManage)...)
}

func (h *OrderHandler) create(c echo.Context) error {
	var req OrderCreateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	lines := make([]usecase.PlaceOrderLine, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, it.line())
	}

	out, err := h.uc.PlaceOrder(c.Request().Context(), actorFromContext(c), usecase.PlaceOrderInput{
		ShippingAddress: req.ShippingAddress,
		OrderNotes:      req.OrderNotes,
		Items:           lines,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

// ?status= で絞り込み
func (h *OrderHandler) list(c echo.Context) error {
	out, err := h.uc.ListOrders(c.Request().Context(), actorFromContext(c), c.QueryParam("status"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) detail(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	out, err := h.uc.GetOrder(c.Request().Context(), actorFromContext(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) update(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	var req OrderUpdateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.UpdateOrder(c.Request().Context(), actorFromContext(c), id, usecase.UpdateOrderInput{
		ShippingAddress: req.ShippingAddress,
		OrderNotes:      req.OrderNotes,
		Status:          req.Status,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) cancel(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	out, err := h.uc.CancelOrder(c.Request().Context(), actorFromContext(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) delete(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	if err := h.uc.DeleteOrder(c.Request().Context(), actorFromContext(c), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
