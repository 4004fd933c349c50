package handler

import (
	"net/http"

	"studio/internal/middleware"
	"studio/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/news のHTTP。読み取りは公開、書き込みはスタッフのみ。
type NewsHandler struct {
	uc *usecase.NewsUsecase
}

// DI
func NewNewsHandler(uc *usecase.NewsUsecase) *NewsHandler {
	return &NewsHandler{uc: uc}
}

type NewsRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (h *NewsHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/news", h.list)
	g.GET("/news/:id", h.detail)

	staff := g.Group("/news", middleware.StaffGuard())
	staff.POST("", h.create)
	staff.PUT("/:id", h.update)
	staff.DELETE("/:id", h.remove)
	staff.POST("/:id/pdf", h.uploadPDF)
}

func (h *NewsHandler) list(c echo.Context) error {
	page, limit := pageParams(c)

	items, total, err := h.uc.List(c.Request().Context(), usecase.NewsListInput{
		Page:  page,
		Limit: limit,
		Q:     c.QueryParam("q"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return paginated(c, total, page, limit, items)
}

func (h *NewsHandler) detail(c echo.Context) error {
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

func (h *NewsHandler) create(c echo.Context) error {
	var req NewsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Create(c.Request().Context(), middleware.ActorFrom(c), usecase.NewsInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *NewsHandler) update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req NewsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Update(c.Request().Context(), middleware.ActorFrom(c), id, usecase.NewsInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *NewsHandler) remove(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Request().Context(), middleware.ActorFrom(c), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *NewsHandler) uploadPDF(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("pdf")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "pdf is required"})
	}
	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid file"})
	}
	defer src.Close()

	out, err := h.uc.UploadPDF(c.Request().Context(), middleware.ActorFrom(c), id, fh.Filename, src, fh.Size)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
