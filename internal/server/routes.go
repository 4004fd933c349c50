package server

import (
	"net/http"

	"studio/internal/config"
	"studio/internal/infra/session"
	appmw "studio/internal/middleware"

	"github.com/labstack/echo/v4"
)

// /api以下に全ルートを登録する。
func RegisterRoutes(e *echo.Echo, cfg config.Config, sessions session.Store, h Handlers) {
	api := e.Group("/api")
	api.Use(appmw.SessionAuth(cfg.JWTSecret, sessions))

	h.Auth.RegisterRoutes(api)
	h.Cart.RegisterRoutes(api)
	h.Order.RegisterRoutes(api)
	h.Service.RegisterRoutes(api)
	h.Executor.RegisterRoutes(api)
	h.News.RegisterRoutes(api)
	h.Portfolio.RegisterRoutes(api)
	h.Review.RegisterRoutes(api)
	h.Message.RegisterRoutes(api)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}
