package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"studio/internal/authz"
	"studio/internal/domain/model"
	repo "studio/internal/repository"
)

// MessageUsecase はユーザー間メッセージ。参加者のみ閲覧可。
type MessageUsecase struct {
	messageRepo repo.MessageRepository
	userRepo    repo.UserRepository
}

func NewMessageUsecase(messageRepo repo.MessageRepository, userRepo repo.UserRepository) *MessageUsecase {
	return &MessageUsecase{messageRepo: messageRepo, userRepo: userRepo}
}

type MessageListInput struct {
	Page       int
	Limit      int
	OnlyUnread bool
}

type SendMessageInput struct {
	ReceiverID int64
	Content    string
}

type MessageResponse struct {
	ID       int64         `json:"id"`
	Sender   *OrderUserRef `json:"sender"`
	Receiver *OrderUserRef `json:"receiver"`
	Content  string        `json:"content"`
	SentAt   time.Time     `json:"sent_at"`
	IsRead   bool          `json:"is_read"`
}

// List は自分が送信者または受信者のメッセージ一覧。
func (u *MessageUsecase) List(ctx context.Context, actor authz.Actor, in MessageListInput) ([]MessageResponse, int64, error) {
	if !actor.Authenticated() {
		return nil, 0, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	page, limit := normalizePage(in.Page, in.Limit)
	items, total, err := u.messageRepo.List(ctx, repo.MessageListQuery{
		Page:          page,
		Limit:         limit,
		ParticipantID: actor.UserID,
		OnlyUnread:    in.OnlyUnread,
	})
	if err != nil {
		return nil, 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	resp := make([]MessageResponse, 0, len(items))
	for _, m := range items {
		r, err := u.buildResponse(ctx, m)
		if err != nil {
			return nil, 0, err
		}
		resp = append(resp, r)
	}
	return resp, total, nil
}

func (u *MessageUsecase) Get(ctx context.Context, actor authz.Actor, id int64) (MessageResponse, error) {
	m, err := u.findParticipating(ctx, actor, id)
	if err != nil {
		return MessageResponse{}, err
	}
	return u.buildResponse(ctx, m)
}

// Send はメッセージ送信。受信者が実在することを確認する。
func (u *MessageUsecase) Send(ctx context.Context, actor authz.Actor, in SendMessageInput) (MessageResponse, error) {
	if !actor.Authenticated() {
		return MessageResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(in.Content) == "" {
		return MessageResponse{}, NewHTTPError(http.StatusBadRequest, "content is required")
	}
	if in.ReceiverID == actor.UserID {
		return MessageResponse{}, NewHTTPError(http.StatusBadRequest, "cannot message yourself")
	}

	receiver, err := u.userRepo.FindByID(ctx, in.ReceiverID)
	if err != nil {
		return MessageResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if receiver == nil {
		return MessageResponse{}, NewHTTPError(http.StatusNotFound, "receiver not found")
	}

	senderID := actor.UserID
	receiverID := in.ReceiverID
	m, err := u.messageRepo.Create(ctx, model.Message{
		SenderID:   &senderID,
		ReceiverID: &receiverID,
		Content:    in.Content,
		SentAt:     time.Now(),
	})
	if err != nil {
		return MessageResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.buildResponse(ctx, m)
}

// MarkRead は既読化。受信者本人のみ。
func (u *MessageUsecase) MarkRead(ctx context.Context, actor authz.Actor, id int64) (MessageResponse, error) {
	m, err := u.findParticipating(ctx, actor, id)
	if err != nil {
		return MessageResponse{}, err
	}

	if m.ReceiverID == nil || *m.ReceiverID != actor.UserID {
		return MessageResponse{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}

	if err := u.messageRepo.MarkRead(ctx, m.ID); err != nil {
		return MessageResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	m.IsRead = true
	return u.buildResponse(ctx, m)
}

// Delete はメッセージ削除。参加者またはスタッフ。
func (u *MessageUsecase) Delete(ctx context.Context, actor authz.Actor, id int64) error {
	if !actor.Authenticated() {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	m, err := u.messageRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "message not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if !actor.Staff() && !authz.IsMessageParticipant(actor, m) {
		return NewHTTPError(http.StatusForbidden, "forbidden")
	}

	if err := u.messageRepo.Delete(ctx, id); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *MessageUsecase) findParticipating(ctx context.Context, actor authz.Actor, id int64) (model.Message, error) {
	if !actor.Authenticated() {
		return model.Message{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	m, err := u.messageRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Message{}, NewHTTPError(http.StatusNotFound, "message not found")
		}
		return model.Message{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if !actor.Staff() && !authz.IsMessageParticipant(actor, m) {
		return model.Message{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}
	return m, nil
}

func (u *MessageUsecase) buildResponse(ctx context.Context, m model.Message) (MessageResponse, error) {
	resp := MessageResponse{
		ID:      m.ID,
		Content: m.Content,
		SentAt:  m.SentAt,
		IsRead:  m.IsRead,
	}

	ref := func(id *int64) (*OrderUserRef, error) {
		if id == nil {
			return nil, nil
		}
		user, err := u.userRepo.FindByID(ctx, *id)
		if err != nil {
			return nil, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if user == nil {
			return &OrderUserRef{ID: *id, Username: "deleted user", Deleted: true}, nil
		}
		return &OrderUserRef{ID: user.ID, Username: user.Username, DisplayName: user.DisplayName()}, nil
	}

	var err error
	if resp.Sender, err = ref(m.SenderID); err != nil {
		return MessageResponse{}, err
	}
	if resp.Receiver, err = ref(m.ReceiverID); err != nil {
		return MessageResponse{}, err
	}
	return resp, nil
}
