package repository

import (
	"context"
	"errors"

	"studio/internal/domain/model"
)

// upsert競争に負けてリトライでも解決できなかった場合
var ErrConflict = errors.New("conflict")

type CartItemRepository interface {
	ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error)
	// 同一サービスは数量プラス。行ロック＋(cart_id, service_id)一意制約で原子的に。
	UpsertByCartAndService(ctx context.Context, cartID int64, serviceID int64, addQty int64) (model.CartItem, error)
	UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error
	DeleteByID(ctx context.Context, cartItemID int64) error
	FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error)
	IsOwnedByUser(ctx context.Context, cartItemID int64, userID int64) (bool, error)
}
