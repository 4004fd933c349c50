package repository

import (
	"context"

	"studio/internal/domain/model"
)

type ReviewListQuery struct {
	Page  int
	Limit int

	ExecutorID *int64
	OrderID    *int64
	Rating     *int64
}

type ReviewRepository interface {
	List(ctx context.Context, q ReviewListQuery) ([]model.Review, int64, error)
	FindByID(ctx context.Context, id int64) (model.Review, error)
	Create(ctx context.Context, r model.Review) (model.Review, error)
	Update(ctx context.Context, r model.Review) error
	Delete(ctx context.Context, id int64) error
}
