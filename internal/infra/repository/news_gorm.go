package repository

import (
	"context"
	"errors"
	"strings"

	"studio/internal/domain/model"
	repo "studio/internal/repository"

	"gorm.io/gorm"
)

type NewsGormRepository struct {
	db *gorm.DB
}

// DI
func NewNewsGormRepository(db *gorm.DB) *NewsGormRepository {
	return &NewsGormRepository{db: db}
}

// 公開日時の降順で一覧。
func (r *NewsGormRepository) List(ctx context.Context, q repo.NewsListQuery) ([]model.News, int64, error) {
	var news []model.News
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.News{})

	if strings.TrimSpace(q.Q) != "" {
		like := "%" + strings.TrimSpace(q.Q) + "%"
		tx = tx.Where("title ILIKE ? OR content ILIKE ?", like, like)
	}

	if err := tx.Count(&total).Error; err != nil {
		return []model.News{}, 0, err
	}

	offset := (q.Page - 1) * q.Limit
	if err := tx.Order("published_at desc").Order("id desc").
		Offset(offset).Limit(q.Limit).Find(&news).Error; err != nil {
		return []model.News{}, 0, err
	}

	return news, total, nil
}

func (r *NewsGormRepository) FindByID(ctx context.Context, id int64) (model.News, error) {
	var n model.News
	err := r.db.WithContext(ctx).First(&n, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.News{}, repo.ErrNotFound
	}
	if err != nil {
		return model.News{}, err
	}
	return n, nil
}

func (r *NewsGormRepository) Create(ctx context.Context, n model.News) (model.News, error) {
	if err := r.db.WithContext(ctx).Create(&n).Error; err != nil {
		return model.News{}, err
	}
	return n, nil
}

func (r *NewsGormRepository) Update(ctx context.Context, n model.News) error {
	res := r.db.WithContext(ctx).Model(&model.News{}).Where("id = ?", n.ID).Updates(map[string]interface{}{
		"title":   n.Title,
		"content": n.Content,
		"pdf_url": n.PDFURL,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *NewsGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.News{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
