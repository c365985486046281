package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// AdminAuth lets a request through when it carries the admin bearer token.
// An empty token closes the admin routes.
func AdminAuth(token string) echo.MiddlewareFunc {
	return bearerAuth(token, "invalid admin token")
}

// StorefrontAuth guards the routes that take cart contents and prices. Only
// the shop back end holds the token, so browsers cannot set the amount.
// An empty token closes the routes.
func StorefrontAuth(token string) echo.MiddlewareFunc {
	return bearerAuth(token, "invalid storefront token")
}

func bearerAuth(token, message string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			given, ok := strings.CutPrefix(auth, "Bearer ")
			if token == "" || !ok || subtle.ConstantTimeCompare([]byte(given), []byte(token)) != 1 {
				return echo.NewHTTPError(http.StatusUnauthorized, message)
			}
			return next(c)
		}
	}
}
