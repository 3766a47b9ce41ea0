package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"StepPull/pkg/logger"
)

// RequestLogging logs one structured line per request. A nil logger disables
// the middleware.
func RequestLogging(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if log == nil {
			return next
		}
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			log.Info("http request",
				logger.String("method", c.Request().Method),
				logger.String("uri", c.Request().RequestURI),
				logger.String("remote", c.Request().RemoteAddr),
				logger.Int("status", c.Response().Status),
				logger.Duration("latency", time.Since(start)),
			)
			return err
		}
	}
}
