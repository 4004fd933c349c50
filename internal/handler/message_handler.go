package handler

import (
	"net/http"

	"studio/internal/middleware"
	"studio/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/messages のHTTP。全ルートでログイン必須。
type MessageHandler struct {
	uc *usecase.MessageUsecase
}

// DI
func NewMessageHandler(uc *usecase.MessageUsecase) *MessageHandler {
	return &MessageHandler{uc: uc}
}

type SendMessageRequest struct {
	ReceiverID int64  `json:"receiver_id"`
	Content    string `json:"content"`
}

func (h *MessageHandler) RegisterRoutes(g *echo.Group) {
	msgs := g.Group("/messages", middleware.LoginRequired())
	msgs.GET("", h.list)
	msgs.GET("/:id", h.detail)
	msgs.POST("", h.send)
	msgs.POST("/:id/mark-read", h.markRead)
	msgs.DELETE("/:id", h.remove)
}

func (h *MessageHandler) list(c echo.Context) error {
	page, limit := pageParams(c)

	items, total, err := h.uc.List(c.Request().Context(), middleware.ActorFrom(c), usecase.MessageListInput{
		Page:       page,
		Limit:      limit,
		OnlyUnread: c.QueryParam("unread") == "true",
	})
	if err != nil {
		return writeError(c, err)
	}
	return paginated(c, total, page, limit, items)
}

func (h *MessageHandler) detail(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	out, err := h.uc.Get(c.Request().Context(), middleware.ActorFrom(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *MessageHandler) send(c echo.Context) error {
	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Send(c.Request().Context(), middleware.ActorFrom(c), usecase.SendMessageInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *MessageHandler) markRead(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	out, err := h.uc.MarkRead(c.Request().Context(), middleware.ActorFrom(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *MessageHandler) remove(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Request().Context(), middleware.ActorFrom(c), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
