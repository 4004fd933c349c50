package repository

import (
	"context"
	"errors"
	"time"

	"studio/internal/domain/model"
	repo "studio/internal/repository"

	"gorm.io/gorm"
)

type OrderGormRepository struct {
	db *gorm.DB
}

// DI
func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

// IDで注文を取得
func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).First(&o, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

// クライアントまたは実施者として関係する注文の一覧。作成日時の降順。
func (r *OrderGormRepository) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Order{})

	switch {
	case f.ClientID != nil && f.ExecutorID != nil:
		tx = tx.Where("client_id = ? OR executor_id = ?", *f.ClientID, *f.ExecutorID)
	case f.ClientID != nil:
		tx = tx.Where("client_id = ?", *f.ClientID)
	case f.ExecutorID != nil:
		tx = tx.Where("executor_id = ?", *f.ExecutorID)
	}

	if f.StatusCode != "" {
		tx = tx.Joins("join order_statuses on order_statuses.id = orders.status_id").
			Where("order_statuses.code = ?", f.StatusCode)
	}

	if err := tx.Count(&total).Error; err != nil {
		return []model.Order{}, 0, err
	}

	offset := (f.Page - 1) * f.Limit
	if err := tx.Order("orders.created_at desc").Order("orders.id desc").
		Offset(offset).Limit(f.Limit).Find(&orders).Error; err != nil {
		return []model.Order{}, 0, err
	}

	return orders, total, nil
}

// 注文作成
func (r *OrderGormRepository) Create(ctx context.Context, order model.Order) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&order).Error; err != nil {
		return 0, err
	}
	return order.ID, nil
}

// orders.statusとcompleted_atを更新
func (r *OrderGormRepository) UpdateStatus(ctx context.Context, orderID int64, statusID int64, completedAt *time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"status_id":    statusID,
			"completed_at": completedAt,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

type OrderStatusGormRepository struct {
	db *gorm.DB
}

// DI
func NewOrderStatusGormRepository(db *gorm.DB) *OrderStatusGormRepository {
	return &OrderStatusGormRepository{db: db}
}

func (r *OrderStatusGormRepository) List(ctx context.Context) ([]model.OrderStatus, error) {
	var statuses []model.OrderStatus
	if err := r.db.WithContext(ctx).Order("id asc").Find(&statuses).Error; err != nil {
		return []model.OrderStatus{}, err
	}
	return statuses, nil
}

func (r *OrderStatusGormRepository) FindByID(ctx context.Context, id int64) (model.OrderStatus, error) {
	var s model.OrderStatus
	err := r.db.WithContext(ctx).First(&s, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.OrderStatus{}, repo.ErrNotFound
	}
	if err != nil {
		return model.OrderStatus{}, err
	}
	return s, nil
}

func (r *OrderStatusGormRepository) FindByCode(ctx context.Context, code model.OrderStatusCode) (model.OrderStatus, error) {
	var s model.OrderStatus
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.OrderStatus{}, repo.ErrNotFound
	}
	if err != nil {
		return model.OrderStatus{}, err
	}
	return s, nil
}

// 4つの固定ステータスを冪等に投入する。
func (r *OrderStatusGormRepository) Seed(ctx context.Context) error {
	seed := []model.OrderStatus{
		{Code: model.OrderStatusNew, DisplayName: "Новый"},
		{Code: model.OrderStatusProcessing, DisplayName: "В обработке"},
		{Code: model.OrderStatusCompleted, DisplayName: "Выполнен"},
		{Code: model.OrderStatusCancelled, DisplayName: "Отменён"},
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, s := range seed {
			var existing model.OrderStatus
			err := tx.Where("code = ?", s.Code).First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if err := tx.Create(&s).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
