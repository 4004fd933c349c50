package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// スタジオが提供する撮影サービス。
// 価格は固定小数点（numeric）。カート側はスナップショットせず常に現在価格で計算する。
type Service struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"type:varchar(100);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`

	//想定作業時間（時間単位）
	DurationHours int64 `gorm:"not null" json:"duration_hours"`

	//サービス紹介写真のURL
	PhotoURL string `gorm:"type:varchar(500)" json:"photo_url"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"-"`
}
