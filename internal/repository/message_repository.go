package repository

import (
	"context"

	"studio/internal/domain/model"
)

type MessageListQuery struct {
	Page  int
	Limit int

	//送信者または受信者として一致するユーザー
	ParticipantID int64
	OnlyUnread    bool
}

type MessageRepository interface {
	List(ctx context.Context, q MessageListQuery) ([]model.Message, int64, error)
	FindByID(ctx context.Context, id int64) (model.Message, error)
	Create(ctx context.Context, m model.Message) (model.Message, error)
	MarkRead(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}
