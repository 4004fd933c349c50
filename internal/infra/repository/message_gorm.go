package repository

import (
	"context"
	"errors"

	"studio/internal/domain/model"
	repo "studio/internal/repository"

	"gorm.io/gorm"
)

type MessageGormRepository struct {
	db *gorm.DB
}

// DI
func NewMessageGormRepository(db *gorm.DB) *MessageGormRepository {
	return &MessageGormRepository{db: db}
}

// 自分が送信者または受信者のメッセージ。送信日時の降順。
func (r *MessageGormRepository) List(ctx context.Context, q repo.MessageListQuery) ([]model.Message, int64, error) {
	var msgs []model.Message
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Message{}).
		Where("sender_id = ? OR receiver_id = ?", q.ParticipantID, q.ParticipantID)

	if q.OnlyUnread {
		tx = tx.Where("is_read = ? AND receiver_id = ?", false, q.ParticipantID)
	}

	if err := tx.Count(&total).Error; err != nil {
		return []model.Message{}, 0, err
	}

	offset := (q.Page - 1) * q.Limit
	if err := tx.Order("sent_at desc").Order("id desc").
		Offset(offset).Limit(q.Limit).Find(&msgs).Error; err != nil {
		return []model.Message{}, 0, err
	}

	return msgs, total, nil
}

func (r *MessageGormRepository) FindByID(ctx context.Context, id int64) (model.Message, error) {
	var m model.Message
	err := r.db.WithContext(ctx).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Message{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Message{}, err
	}
	return m, nil
}

func (r *MessageGormRepository) Create(ctx context.Context, m model.Message) (model.Message, error) {
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return model.Message{}, err
	}
	return m, nil
}

// 既読フラグを立てる
func (r *MessageGormRepository) MarkRead(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("id = ?", id).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *MessageGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Message{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
