package server

import (
	"net/http"

	"github.com/shadinbyte/shopease/internal/handler"

	"github.com/labstack/echo/v4"
)

// 起動時に組み立てたハンドラ一式
type Handlers struct {
	Auth      *handler.AuthHandler
	Category  *handler.CategoryHandler
	Product   *handler.ProductHandler
	Customer  *handler.CustomerHandler
	Order     *handler.OrderHandler
	Analytics *handler.AnalyticsHandler
	Admin     *handler.AdminUserHandler
}

type routeRegistrar interface {
	RegisterRoutes(e *echo.Echo)
}

func RegisterRoutes(e *echo.Echo, h Handlers) {
	registerHealth(e)

	for _, r := range []routeRegistrar{h.Auth, h.Category, h.Product, h.Customer, h.Order, h.Analytics, h.Admin} {
		r.RegisterRoutes(e)
	}
}

func registerHealth(e *echo.Echo) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}
