package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shadinbyte/shopease/internal/authz"
	"github.com/shadinbyte/shopease/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// /products の公開APIとスタッフ用の書き込み
type ProductHandler struct {
	uc     *usecase.ProductUsecase
	guards Guards
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase, guards Guards) *ProductHandler {
	return &ProductHandler{uc: uc, guards: guards}
}

// priceは "10.00" でも 10 でも受け付ける
type productRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int64           `json:"stock"`
	CategoryID  *int64           `json:"category"`
	IsActive    *bool            `json:"is_active"`
	Image       *string          `json:"image"`
}

func (r productRequest) input() usecase.ProductInput {
	return usecase.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.Stock,
		CategoryID:  r.CategoryID,
		IsActive:    r.IsActive,
		Image:       r.Image,
	}
}

func (h *ProductHandler) RegisterRoutes(e *echo.Echo) {
	write := h.guards.Require(authz.ObjCatalog, authz.ActWrite)

	e.GET("/products", h.list)
	//:id より先に登録
	e.GET("/products/low_stock", h.lowStock)
	e.GET("/products/:id", h.detail)

	e.POST("/products", h.create, write...)
	e.PUT("/products/:id", h.update(false), write...)
	e.PATCH("/products/:id", h.update(true), write...)
	e.DELETE("/products/:id", h.delete, write...)
}

func (h *ProductHandler) list(c echo.Context) error {
	var in usecase.ListProductsInput

	if v := c.QueryParam("category"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return badRequest(c, "invalid category")
		}
		in.CategoryID = &id
	}
	in.InStock = strings.EqualFold(c.QueryParam("in_stock"), "true")
	in.Search = c.QueryParam("search")

	out, err := h.uc.List(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) lowStock(c echo.Context) error {
	out, err := h.uc.LowStock(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) detail(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	p, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) create(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.Create(c.Request().Context(), actorFromContext(c), req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *ProductHandler) update(partial bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return badRequest(c, "invalid id")
		}

		var req productRequest
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "invalid body")
		}

		out, err := h.uc.Update(c.Request().Context(), actorFromContext(c), id, req.input(), partial)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, out)
	}
}

// 論理削除（is_active=false）
func (h *ProductHandler) delete(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	if err := h.uc.Deactivate(c.Request().Context(), actorFromContext(c), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
