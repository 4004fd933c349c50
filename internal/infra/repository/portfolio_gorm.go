package repository

import (
	"context"
	"errors"

	"studio/internal/domain/model"
	repo "studio/internal/repository"

	"gorm.io/gorm"
)

type PortfolioGormRepository struct {
	db *gorm.DB
}

// DI
func NewPortfolioGormRepository(db *gorm.DB) *PortfolioGormRepository {
	return &PortfolioGormRepository{db: db}
}

// 追加日時の降順で一覧。実施者での絞り込みに対応。
func (r *PortfolioGormRepository) List(ctx context.Context, q repo.PortfolioListQuery) ([]model.Portfolio, int64, error) {
	var works []model.Portfolio
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Portfolio{})

	if q.ExecutorID != nil {
		tx = tx.Where("executor_id = ?", *q.ExecutorID)
	}

	if err := tx.Count(&total).Error; err != nil {
		return []model.Portfolio{}, 0, err
	}

	offset := (q.Page - 1) * q.Limit
	if err := tx.Order("uploaded_at desc").Order("id desc").
		Offset(offset).Limit(q.Limit).Find(&works).Error; err != nil {
		return []model.Portfolio{}, 0, err
	}

	return works, total, nil
}

func (r *PortfolioGormRepository) FindByID(ctx context.Context, id int64) (model.Portfolio, error) {
	var p model.Portfolio
	err := r.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Portfolio{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Portfolio{}, err
	}
	return p, nil
}

func (r *PortfolioGormRepository) Create(ctx context.Context, p model.Portfolio) (model.Portfolio, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.Portfolio{}, err
	}
	return p, nil
}

func (r *PortfolioGormRepository) Update(ctx context.Context, p model.Portfolio) error {
	res := r.db.WithContext(ctx).Model(&model.Portfolio{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"title":       p.Title,
		"image_url":   p.ImageURL,
		"video_link":  p.VideoLink,
		"description": p.Description,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *PortfolioGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Portfolio{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
