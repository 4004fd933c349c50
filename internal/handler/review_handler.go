package handler

import (
	"net/http"

	"studio/internal/middleware"
	"studio/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/reviews のHTTP。読み取りは公開、投稿はログイン必須。
type ReviewHandler struct {
	uc *usecase.ReviewUsecase
}

// DI
func NewReviewHandler(uc *usecase.ReviewUsecase) *ReviewHandler {
	return &ReviewHandler{uc: uc}
}

type CreateReviewRequest struct {
	ExecutorID int64  `json:"executor_id"`
	OrderID    *int64 `json:"order_id"`
	Rating     int64  `json:"rating"`
	Comment    string `json:"comment"`
}

type UpdateReviewRequest struct {
	Rating  int64  `json:"rating"`
	Comment string `json:"comment"`
}

func (h *ReviewHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/reviews", h.list)
	g.GET("/reviews/:id", h.detail)

	auth := g.Group("/reviews", middleware.LoginRequired())
	auth.POST("", h.create)
	auth.PUT("/:id", h.update)
	auth.DELETE("/:id", h.remove)
}

func (h *ReviewHandler) list(c echo.Context) error {
	page, limit := pageParams(c)

	executorID, err := optInt64Query(c, "executor_id")
	if err != nil {
		return err
	}
	orderID, err := optInt64Query(c, "order_id")
	if err != nil {
		return err
	}
	rating, err := optInt64Query(c, "rating")
	if err != nil {
		return err
	}

	items, total, err := h.uc.List(c.Request().Context(), usecase.ReviewListInput{
		Page:       page,
		Limit:      limit,
		ExecutorID: executorID,
		OrderID:    orderID,
		Rating:     rating,
	})
	if err != nil {
		return writeError(c, err)
	}
	return paginated(c, total, page, limit, items)
}

func (h *ReviewHandler) detail(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	out, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReviewHandler) create(c echo.Context) error {
	var req CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Create(c.Request().Context(), middleware.ActorFrom(c), usecase.ReviewInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *ReviewHandler) update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req UpdateReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Update(c.Request().Context(), middleware.ActorFrom(c), id, req.Rating, req.Comment)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReviewHandler) remove(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Request().Context(), middleware.ActorFrom(c), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
