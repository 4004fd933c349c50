package repository

import (
	"context"
	"errors"
	"strings"

	"studio/internal/domain/model"
	repo "studio/internal/repository"

	"gorm.io/gorm"
)

type ExecutorGormRepository struct {
	db *gorm.DB
}

// DI
func NewExecutorGormRepository(db *gorm.DB) *ExecutorGormRepository {
	return &ExecutorGormRepository{db: db}
}

// 公開一覧。username/specializationの部分一致検索に対応。
func (r *ExecutorGormRepository) List(ctx context.Context, q repo.ExecutorListQuery) ([]model.Executor, int64, error) {
	var executors []model.Executor
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Executor{})

	if strings.TrimSpace(q.Q) != "" {
		like := "%" + strings.TrimSpace(q.Q) + "%"
		tx = tx.Joins("join users on users.id = executors.user_id").
			Where("users.username ILIKE ? OR executors.specialization ILIKE ?", like, like)
	}

	if err := tx.Count(&total).Error; err != nil {
		return []model.Executor{}, 0, err
	}

	offset := (q.Page - 1) * q.Limit
	if err := tx.Order("executors.id asc").
		Offset(offset).Limit(q.Limit).Find(&executors).Error; err != nil {
		return []model.Executor{}, 0, err
	}

	return executors, total, nil
}

func (r *ExecutorGormRepository) FindByID(ctx context.Context, id int64) (model.Executor, error) {
	var e model.Executor
	err := r.db.WithContext(ctx).First(&e, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Executor{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Executor{}, err
	}
	return e, nil
}

func (r *ExecutorGormRepository) FindByUserID(ctx context.Context, userID int64) (model.Executor, error) {
	var e model.Executor
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Executor{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Executor{}, err
	}
	return e, nil
}

// 実施者の提供サービスリンク一覧
func (r *ExecutorGormRepository) ListServiceLinks(ctx context.Context, executorID int64) ([]model.ExecutorService, error) {
	var links []model.ExecutorService
	if err := r.db.WithContext(ctx).
		Where("executor_id = ?", executorID).
		Order("service_id asc").
		Find(&links).Error; err != nil {
		return []model.ExecutorService{}, err
	}
	return links, nil
}
