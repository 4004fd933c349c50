package handler

import (
	"net/http"

	"studio/internal/middleware"
	"studio/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/portfolios のHTTP。読み取りは公開、書き込みは実施者本人かスタッフ。
type PortfolioHandler struct {
	uc *usecase.PortfolioUsecase
}

// DI
func NewPortfolioHandler(uc *usecase.PortfolioUsecase) *PortfolioHandler {
	return &PortfolioHandler{uc: uc}
}

type PortfolioRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	VideoLink   string `json:"video_link"`
	ExecutorID  *int64 `json:"executor_id"`
}

func (h *PortfolioHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/portfolios", h.list)
	g.GET("/portfolios/:id", h.detail)

	auth := g.Group("/portfolios", middleware.LoginRequired())
	auth.POST("", h.create)
	auth.PUT("/:id", h.update)
	auth.DELETE("/:id", h.remove)
	auth.POST("/:id/image", h.uploadImage)
}

func (h *PortfolioHandler) list(c echo.Context) error {
	page, limit := pageParams(c)

	executorID, err := optInt64Query(c, "executor_id")
	if err != nil {
		return err
	}

	items, total, err := h.uc.List(c.Request().Context(), usecase.PortfolioListInput{
		Page:       page,
		Limit:      limit,
		ExecutorID: executorID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return paginated(c, total, page, limit, items)
}

func (h *PortfolioHandler) detail(c echo.Context) error {
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

func (h *PortfolioHandler) create(c echo.Context) error {
	var req PortfolioRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Create(c.Request().Context(), middleware.ActorFrom(c), usecase.PortfolioInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *PortfolioHandler) update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req PortfolioRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Update(c.Request().Context(), middleware.ActorFrom(c), id, usecase.PortfolioInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PortfolioHandler) remove(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Request().Context(), middleware.ActorFrom(c), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PortfolioHandler) uploadImage(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "image is required"})
	}
	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid file"})
	}
	defer src.Close()

	out, err := h.uc.UploadImage(c.Request().Context(), middleware.ActorFrom(c), id,
		fh.Filename, fh.Header.Get("Content-Type"), src, fh.Size)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
