package handler

import (
	"net/http"

	"studio/internal/middleware"
	"studio/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/cartのHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type AddCartRequest struct {
	ServiceID int64 `json:"service_id"`
	//省略時は1
	Quantity *int64 `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int64 `json:"quantity"`
}

func (h *CartHandler) RegisterRoutes(g *echo.Group) {
	cart := g.Group("/cart")
	cart.Use(middleware.LoginRequired())

	cart.GET("", h.getCart)
	cart.POST("/items", h.addItem)
	cart.PATCH("/items/:id", h.updateItem)
	cart.DELETE("/items/:id", h.removeItem)
	cart.DELETE("", h.clear)
}

func (h *CartHandler) getCart(c echo.Context) error {
	out, err := h.uc.GetCart(c.Request().Context(), middleware.ActorFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) addItem(c echo.Context) error {
	var req AddCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	qty := int64(1)
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	out, err := h.uc.AddItem(c.Request().Context(), middleware.ActorFrom(c), usecase.AddItemInput{
		ServiceID: req.ServiceID,
		Quantity:  qty,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *CartHandler) updateItem(c echo.Context) error {
	itemID, err := pathID(c)
	if err != nil {
		return err
	}

	var req UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.UpdateItem(c.Request().Context(), middleware.ActorFrom(c), itemID, req.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) removeItem(c echo.Context) error {
	itemID, err := pathID(c)
	if err != nil {
		return err
	}

	out, err := h.uc.RemoveItem(c.Request().Context(), middleware.ActorFrom(c), itemID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) clear(c echo.Context) error {
	out, err := h.uc.ClearCart(c.Request().Context(), middleware.ActorFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
