package repository

import (
	"context"

	"studio/internal/domain/model"
)

type NewsListQuery struct {
	Page  int
	Limit int
	//タイトル・本文の部分一致
	Q string
}

type NewsRepository interface {
	List(ctx context.Context, q NewsListQuery) ([]model.News, int64, error)
	FindByID(ctx context.Context, id int64) (model.News, error)
	Create(ctx context.Context, n model.News) (model.News, error)
	Update(ctx context.Context, n model.News) error
	Delete(ctx context.Context, id int64) error
}
