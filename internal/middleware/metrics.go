package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"paypal-payments-gateway/internal/metric"
)

func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			status := c.Response().Status
			if err != nil && !c.Response().Committed {
				// not written yet
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}

			metric.ObserveRequest(time.Since(start), status)
			return err
		}
	}
}
