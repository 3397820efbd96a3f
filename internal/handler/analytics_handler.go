package handler

import (
	"net/http"

	"github.com/shadinbyte/shopease/internal/authz"
	"github.com/shadinbyte/shopease/internal/usecase"

	"github.com/labstack/echo/v4"
)

// スタッフ向けの集計
type AnalyticsHandler struct {
	uc     *usecase.AnalyticsUsecase
	guards Guards
}

func NewAnalyticsHandler(uc *usecase.AnalyticsUsecase, guards Guards) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc, guards: guards}
}

func (h *AnalyticsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/analytics", h.guards.Require(authz.ObjAnalytics, authz.ActRead)...)

	g.GET("/dashboard", h.dashboard)
	g.GET("/top-products", h.topProducts)
	g.GET("/top-customers", h.topCustomers)
	g.GET("/revenue-by-category", h.revenueByCategory)
}

func (h *AnalyticsHandler) dashboard(c echo.Context) error {
	out, err := h.uc.Dashboard(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AnalyticsHandler) topProducts(c echo.Context) error {
	out, err := h.uc.TopProducts(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AnalyticsHandler) topCustomers(c echo.Context) error {
	out, err := h.uc.TopCustomers(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AnalyticsHandler) revenueByCategory(c echo.Context) error {
	out, err := h.uc.RevenueByCategory(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
