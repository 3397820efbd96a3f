package middleware

import (
	"net/http"

	"github.com/shadinbyte/shopease/internal/usecase"

	"github.com/labstack/echo/v4"
)

// handler.ErrorResponse と同じ形
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized", Code: usecase.CodeUnauthorized})
}

func forbidden(c echo.Context) error {
	return c.JSON(http.StatusForbidden, errorResponse{Error: "forbidden", Code: usecase.CodeForbidden})
}
