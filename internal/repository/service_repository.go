package repository

import (
	"context"
	"errors"

	"studio/internal/domain/model"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("not found")

// 一覧検索
type ServiceListQuery struct {
	Page     int
	Limit    int
	Q        string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     string
}

// サービスの永続化（保存・取得）だけを約束。
type ServiceRepository interface {
	List(ctx context.Context, q ServiceListQuery) ([]model.Service, int64, error)
	FindByID(ctx context.Context, id int64) (model.Service, error)

	Create(ctx context.Context, s model.Service) (model.Service, error)
	Update(ctx context.Context, s model.Service) error
	//削除。ordersのservice_idはSET NULLで残る。
	Delete(ctx context.Context, id int64) error
}
