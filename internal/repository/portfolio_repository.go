package repository

import (
	"context"

	"studio/internal/domain/model"
)

type PortfolioListQuery struct {
	Page  int
	Limit int
	//実施者での絞り込み
	ExecutorID *int64
}

type PortfolioRepository interface {
	List(ctx context.Context, q PortfolioListQuery) ([]model.Portfolio, int64, error)
	FindByID(ctx context.Context, id int64) (model.Portfolio, error)
	Create(ctx context.Context, p model.Portfolio) (model.Portfolio, error)
	Update(ctx context.Context, p model.Portfolio) error
	Delete(ctx context.Context, id int64) error
}
