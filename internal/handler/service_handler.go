package handler

import (
	"net/http"

	"studio/internal/middleware"
	"studio/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// /api/services のHTTP。読み取りは公開、書き込みはスタッフ/実施者。
type ServiceHandler struct {
	uc *usecase.ServiceUsecase
}

// DI
func NewServiceHandler(uc *usecase.ServiceUsecase) *ServiceHandler {
	return &ServiceHandler{uc: uc}
}

type ServiceRequest struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	DurationHours int64           `json:"duration_hours"`
}

func (h *ServiceHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/services", h.list)
	g.GET("/services/:id", h.detail)

	auth := g.Group("/services", middleware.LoginRequired())
	auth.POST("", h.create)
	auth.PUT("/:id", h.update)
	auth.DELETE("/:id", h.remove)
	auth.POST("/:id/photo", h.uploadPhoto)
}

func (h *ServiceHandler) list(c echo.Context) error {
	page, limit := pageParams(c)

	var minPrice, maxPrice *decimal.Decimal
	if v := c.QueryParam("min_price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid min_price"})
		}
		minPrice = &d
	}
	if v := c.QueryParam("max_price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid max_price"})
		}
		maxPrice = &d
	}

	services, total, err := h.uc.List(c.Request().Context(), usecase.ServiceListInput{
		Page:     page,
		Limit:    limit,
		Q:        c.QueryParam("q"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Sort:     c.QueryParam("sort"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return paginated(c, total, page, limit, services)
}

func (h *ServiceHandler) detail(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	s, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *ServiceHandler) create(c echo.Context) error {
	var req ServiceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	s, err := h.uc.Create(c.Request().Context(), middleware.ActorFrom(c), usecase.ServiceInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, s)
}

func (h *ServiceHandler) update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req ServiceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	s, err := h.uc.Update(c.Request().Context(), middleware.ActorFrom(c), id, usecase.ServiceInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *ServiceHandler) remove(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Request().Context(), middleware.ActorFrom(c), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ServiceHandler) uploadPhoto(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("photo")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "photo is required"})
	}
	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid file"})
	}
	defer src.Close()

	s, err := h.uc.UploadPhoto(c.Request().Context(), middleware.ActorFrom(c), id,
		fh.Filename, fh.Header.Get("Content-Type"), src, fh.Size)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}
