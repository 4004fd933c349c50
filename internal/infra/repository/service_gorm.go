package repository

import (
	"context"
	"errors"
	"strings"

	"studio/internal/domain/model"
	repo "studio/internal/repository"

	"gorm.io/gorm"
)

type ServiceGormRepository struct {
	db *gorm.DB
}

// DI
func NewServiceGormRepository(db *gorm.DB) *ServiceGormRepository {
	return &ServiceGormRepository{db: db}
}

// 検索/価格帯/ソート/ページング付きで一覧を返す。
func (r *ServiceGormRepository) List(ctx context.Context, q repo.ServiceListQuery) ([]model.Service, int64, error) {
	var services []model.Service
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Service{})

	// qはname/descriptionを対象
	if strings.TrimSpace(q.Q) != "" {
		like := "%" + strings.TrimSpace(q.Q) + "%"
		tx = tx.Where("name ILIKE ? OR description ILIKE ?", like, like)
	}

	//価格帯
	if q.MinPrice != nil {
		tx = tx.Where("price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		tx = tx.Where("price <= ?", *q.MaxPrice)
	}

	//total（件数）
	if err := tx.Count(&total).Error; err != nil {
		return []model.Service{}, 0, err
	}

	//sort
	switch q.Sort {
	case "price_asc":
		tx = tx.Order("price asc").Order("id asc")
	case "price_desc":
		tx = tx.Order("price desc").Order("id desc")
	case "duration":
		tx = tx.Order("duration_hours asc").Order("id asc")
	case "created_at":
		tx = tx.Order("created_at desc").Order("id desc")
	default:
		tx = tx.Order("name asc").Order("id asc")
	}

	offset := (q.Page - 1) * q.Limit
	if err := tx.Offset(offset).Limit(q.Limit).Find(&services).Error; err != nil {
		return []model.Service{}, 0, err
	}

	return services, total, nil
}

// IDでサービスを取得
func (r *ServiceGormRepository) FindByID(ctx context.Context, id int64) (model.Service, error) {
	var s model.Service
	err := r.db.WithContext(ctx).First(&s, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Service{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Service{}, err
	}
	return s, nil
}

// サービスの作成
func (r *ServiceGormRepository) Create(ctx context.Context, s model.Service) (model.Service, error) {
	if err := r.db.WithContext(ctx).Create(&s).Error; err != nil {
		return model.Service{}, err
	}
	return s, nil
}

// サービスの更新
func (r *ServiceGormRepository) Update(ctx context.Context, s model.Service) error {
	res := r.db.WithContext(ctx).Model(&model.Service{}).Where("id = ?", s.ID).Updates(map[string]interface{}{
		"name":           s.Name,
		"description":    s.Description,
		"price":          s.Price,
		"duration_hours": s.DurationHours,
		"photo_url":      s.PhotoURL,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// サービス削除。参照する注文はservice_idをNULLにして残す。
func (r *ServiceGormRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Order{}).
			Where("service_id = ?", id).
			Update("service_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("service_id = ?", id).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Service{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}
		return nil
	})
}
