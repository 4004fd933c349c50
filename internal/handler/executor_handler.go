package handler

import (
	"net/http"

	"studio/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/executors の公開API
type ExecutorHandler struct {
	uc *usecase.ExecutorUsecase
}

// DI
func NewExecutorHandler(uc *usecase.ExecutorUsecase) *ExecutorHandler {
	return &ExecutorHandler{uc: uc}
}

func (h *ExecutorHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/executors", h.list)
	g.GET("/executors/:id", h.detail)
}

func (h *ExecutorHandler) list(c echo.Context) error {
	page, limit := pageParams(c)

	executors, total, err := h.uc.List(c.Request().Context(), usecase.ExecutorListInput{
		Page:  page,
		Limit: limit,
		Q:     c.QueryParam("q"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return paginated(c, total, page, limit, executors)
}

func (h *ExecutorHandler) detail(c echo.Context) error {
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
