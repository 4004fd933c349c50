package repository

import (
	"context"
	"errors"

	"studio/internal/domain/model"
	repo "studio/internal/repository"

	"gorm.io/gorm"
)

type ReviewGormRepository struct {
	db *gorm.DB
}

// DI
func NewReviewGormRepository(db *gorm.DB) *ReviewGormRepository {
	return &ReviewGormRepository{db: db}
}

// 作成日時の降順で一覧。実施者/注文/評価での絞り込みに対応。
func (r *ReviewGormRepository) List(ctx context.Context, q repo.ReviewListQuery) ([]model.Review, int64, error) {
	var reviews []model.Review
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Review{})

	if q.ExecutorID != nil {
		tx = tx.Where("executor_id = ?", *q.ExecutorID)
	}
	if q.OrderID != nil {
		tx = tx.Where("order_id = ?", *q.OrderID)
	}
	if q.Rating != nil {
		tx = tx.Where("rating = ?", *q.Rating)
	}

	if err := tx.Count(&total).Error; err != nil {
		return []model.Review{}, 0, err
	}

	offset := (q.Page - 1) * q.Limit
	if err := tx.Order("created_at desc").Order("id desc").
		Offset(offset).Limit(q.Limit).Find(&reviews).Error; err != nil {
		return []model.Review{}, 0, err
	}

	return reviews, total, nil
}

func (r *ReviewGormRepository) FindByID(ctx context.Context, id int64) (model.Review, error) {
	var rv model.Review
	err := r.db.WithContext(ctx).First(&rv, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Review{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Review{}, err
	}
	return rv, nil
}

func (r *ReviewGormRepository) Create(ctx context.Context, rv model.Review) (model.Review, error) {
	if err := r.db.WithContext(ctx).Create(&rv).Error; err != nil {
		return model.Review{}, err
	}
	return rv, nil
}

func (r *ReviewGormRepository) Update(ctx context.Context, rv model.Review) error {
	res := r.db.WithContext(ctx).Model(&model.Review{}).Where("id = ?", rv.ID).Updates(map[string]interface{}{
		"rating":  rv.Rating,
		"comment": rv.Comment,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ReviewGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Review{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
