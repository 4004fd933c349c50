package server

import (
	"context"
	"net/http"
	"time"

	"studio/internal/config"
	"studio/internal/infra/session"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type RouteRegistrar interface {
	RegisterRoutes(g *echo.Group)
}

// Handlers はルート登録に必要なハンドラ一式。
type Handlers struct {
	Auth      RouteRegistrar
	Cart      RouteRegistrar
	Order     RouteRegistrar
	Service   RouteRegistrar
	Executor  RouteRegistrar
	News      RouteRegistrar
	Portfolio RouteRegistrar
	Review    RouteRegistrar
	Message   RouteRegistrar
}

// New はechoを組み立てる。起動はStartで。
func New(cfg config.Config, logger *zap.Logger, sessions session.Store, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(requestLogger(logger))

	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.FEURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderContentType, "X-CSRF-Token"},
		AllowCredentials: true,
	}))

	//CSRFトークンはcookieで配ってX-CSRF-Tokenヘッダで返してもらう
	e.Use(echomw.CSRFWithConfig(echomw.CSRFConfig{
		TokenLookup:    "header:X-CSRF-Token",
		CookieName:     "csrftoken",
		CookiePath:     "/",
		CookieSecure:   cfg.IsProd(),
		CookieSameSite: http.SameSiteLaxMode,
	}))

	RegisterRoutes(e, cfg, sessions, h)

	return e
}

// Start はサーバーを起動し、ctxのキャンセルで猶予付きシャットダウンする。
func Start(ctx context.Context, e *echo.Echo, addr string, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	}
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
				logger.Error("request", fields...)
				return nil
			}
			logger.Info("request", fields...)
			return nil
		},
	})
}
