package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// LoginRequired はログイン必須のルート用ガード。
func LoginRequired() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !ActorFrom(c).Authenticated() {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			return next(c)
		}
	}
}

// StaffGuard はスタッフだけ許可。
func StaffGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			a := ActorFrom(c)
			if !a.Authenticated() {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			if !a.Staff() {
				return c.JSON(http.StatusForbidden, errorJSON("staff only"))
			}
			return next(c)
		}
	}
}
