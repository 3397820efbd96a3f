package middleware

import (
	"context"
	"log/slog"

	"github.com/shadinbyte/shopease/internal/logger"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// 1リクエスト1行のアクセスログ
func RequestLogger(log *logger.Logger) echo.MiddlewareFunc {
	l := log.WithComponent("http")

	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Error != nil || v.Status >= 500 {
				level = slog.LevelError
			}

			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			}
			if userID, ok := c.Get(CtxUserIDKey).(int64); ok {
				attrs = append(attrs, slog.Int64("user_id", userID))
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}

			l.LogAttrs(context.Background(), level, "request", attrs...)
			return nil
		},
	})
}
