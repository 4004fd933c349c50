package model

import "time"

// 実施者のポートフォリオ作品。
type Portfolio struct {
	ID         int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ExecutorID int64  `gorm:"not null;index" json:"executor_id"`
	Title      string `gorm:"type:varchar(150);not null" json:"title"`

	ImageURL  string `gorm:"type:varchar(500)" json:"image_url"`
	VideoLink string `gorm:"type:varchar(500)" json:"video_link"`

	Description string    `gorm:"type:text" json:"description"`
	UploadedAt  time.Time `gorm:"not null;index" json:"uploaded_at"`
}
