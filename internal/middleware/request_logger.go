package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// リクエストごとに1行ログを出す
// エラーは先にHTTPErrorHandlerへ渡して、確定したstatusを残す
func RequestLogger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			if err := next(c); err != nil {
				c.Error(err)
			}

			req := c.Request()
			status := c.Response().Status

			ev := logger.Info()
			if status >= 500 {
				ev = logger.Error()
			}

			username := "anonymous"
			if p, ok := PrincipalFrom(c); ok {
				username = p.Username
			}

			ev.Str("request_id", RequestIDFrom(c)).
				Str("user", username).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", status).
				Dur("latency", time.Since(start)).
				Msg("request completed")
			return nil
		}
	}
}
