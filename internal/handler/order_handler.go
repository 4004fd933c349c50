package handler

import (
	"context"
	"net/http"
	"time"

	"studio/internal/authz"
	"studio/internal/middleware"
	"studio/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/orders のHTTP。全ルートでログイン必須。
type OrderHandler struct {
	uc *usecase.OrderUsecase
}

// DI
func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

type CreateOrderRequest struct {
	ServiceID  int64  `json:"service_id"`
	ExecutorID *int64 `json:"executor_id"`
	//RFC3339。省略時は24時間後。
	ScheduledAt *time.Time `json:"scheduled_at"`
}

func (h *OrderHandler) RegisterRoutes(g *echo.Group) {
	//ステータス一覧は公開
	g.GET("/order-statuses", h.listStatuses)

	orders := g.Group("/orders", middleware.LoginRequired())
	orders.GET("", h.list)
	orders.GET("/:id", h.detail)
	orders.POST("", h.create)
	orders.POST("/:id/mark-processing", h.markProcessing)
	orders.POST("/:id/mark-completed", h.markCompleted)
	orders.POST("/:id/cancel", h.cancel)
}

func (h *OrderHandler) list(c echo.Context) error {
	page, limit := pageParams(c)

	orders, total, err := h.uc.ListOrders(c.Request().Context(), middleware.ActorFrom(c), usecase.OrderListInput{
		Page:       page,
		Limit:      limit,
		StatusCode: c.QueryParam("status"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return paginated(c, total, page, limit, orders)
}

func (h *OrderHandler) detail(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	out, err := h.uc.GetOrder(c.Request().Context(), middleware.ActorFrom(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) create(c echo.Context) error {
	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.CreateOrder(c.Request().Context(), middleware.ActorFrom(c), usecase.CreateOrderInput{
		ServiceID:   req.ServiceID,
		ExecutorID:  req.ExecutorID,
		ScheduledAt: req.ScheduledAt,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) markProcessing(c echo.Context) error {
	return h.transition(c, h.uc.MarkProcessing)
}

func (h *OrderHandler) markCompleted(c echo.Context) error {
	return h.transition(c, h.uc.MarkCompleted)
}

func (h *OrderHandler) cancel(c echo.Context) error {
	return h.transition(c, h.uc.Cancel)
}

func (h *OrderHandler) transition(c echo.Context, fn func(ctx context.Context, a authz.Actor, id int64) (usecase.OrderResponse, error)) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	out, err := fn(c.Request().Context(), middleware.ActorFrom(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) listStatuses(c echo.Context) error {
	out, err := h.uc.ListStatuses(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
