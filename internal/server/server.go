package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/shadinbyte/shopease/internal/handler"
	"github.com/shadinbyte/shopease/internal/logger"
	"github.com/shadinbyte/shopease/internal/middleware"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

const shutdownTimeout = 10 * time.Second

// echoの組み立てとルート登録
func New(log *logger.Logger, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.HTTPErrorHandler = errorHandler(e)

	RegisterRoutes(e, h)
	return e
}

// echo自身のエラー（404ルートなど）も {"error","code"} にそろえる
func errorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		msg := "internal error"
		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			if m, ok := he.Message.(string); ok {
				msg = m
			}
		}

		code := "INTERNAL"
		switch status {
		case http.StatusNotFound:
			code = "NOT_FOUND"
		case http.StatusMethodNotAllowed, http.StatusBadRequest:
			code = "VALIDATION_ERROR"
		case http.StatusUnauthorized:
			code = "UNAUTHORIZED"
		case http.StatusForbidden:
			code = "FORBIDDEN"
		}

		if err := c.JSON(status, handler.ErrorResponse{Error: msg, Code: code}); err != nil {
			e.Logger.Error(err)
		}
	}
}

// ctxがキャンセルされるまで待ち、その後graceful shutdown
func Start(ctx context.Context, e *echo.Echo, addr string, log *logger.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
