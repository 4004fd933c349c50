package model

import "time"

// 実施者へのレビュー。rating は1〜5。
type Review struct {
	ID         int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64  `gorm:"not null;index" json:"user_id"`
	ExecutorID int64  `gorm:"not null;index" json:"executor_id"`
	OrderID    *int64 `gorm:"index" json:"order_id"`

	Rating  int64  `gorm:"not null" json:"rating"`
	Comment string `gorm:"type:text" json:"comment"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}
