package repository

import (
	"context"

	"studio/internal/domain/model"
)

type ExecutorListQuery struct {
	Page  int
	Limit int
	//username・specializationの部分一致
	Q string
}

// 実施者プロフィールの取得窓口
type ExecutorRepository interface {
	List(ctx context.Context, q ExecutorListQuery) ([]model.Executor, int64, error)
	FindByID(ctx context.Context, id int64) (model.Executor, error)
	FindByUserID(ctx context.Context, userID int64) (model.Executor, error)
	//実施者が提供するサービスのリンク一覧
	ListServiceLinks(ctx context.Context, executorID int64) ([]model.ExecutorService, error)
}
