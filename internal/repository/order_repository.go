package repository

import (
	"context"
	"time"

	"studio/internal/domain/model"
)

// 自分が関係する注文の絞り込み。ExecutorIDはexecutorプロフィール持ちのみ。
type OrderListFilter struct {
	Page  int
	Limit int

	//クライアントまたは実施者として一致する注文。両方nilでスタッフの全件。
	ClientID   *int64
	ExecutorID *int64

	StatusCode string
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	List(ctx context.Context, f OrderListFilter) ([]model.Order, int64, error)
	Create(ctx context.Context, order model.Order) (int64, error)
	UpdateStatus(ctx context.Context, orderID int64, statusID int64, completedAt *time.Time) error
}

// ステータスのルックアップ。固定4件、起動時シード。
type OrderStatusRepository interface {
	List(ctx context.Context) ([]model.OrderStatus, error)
	FindByID(ctx context.Context, id int64) (model.OrderStatus, error)
	FindByCode(ctx context.Context, code model.OrderStatusCode) (model.OrderStatus, error)
	Seed(ctx context.Context) error
}
