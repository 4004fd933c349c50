package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 撮影・編集を担当する実施者プロフィール。Userと1:1。
type Executor struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64 `gorm:"not null;uniqueIndex" json:"user_id"`

	Specialization  string `gorm:"type:varchar(100)" json:"specialization"`
	ExperienceYears int64  `gorm:"not null;default:0" json:"experience_years"`

	//外部ポートフォリオへのリンク
	PortfolioLink string `gorm:"type:varchar(500)" json:"portfolio_link"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

// 実施者が提供するサービス（中間テーブル）。
// custom_priceがあれば基本価格より優先。
type ExecutorService struct {
	ID         int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	ExecutorID int64 `gorm:"not null;index;uniqueIndex:idx_executor_service" json:"executor_id"`
	ServiceID  int64 `gorm:"not null;index;uniqueIndex:idx_executor_service" json:"service_id"`

	CustomPrice *decimal.Decimal `gorm:"type:numeric(10,2)" json:"custom_price"`
}

// 実効価格（個別価格があればそれ、無ければ基本価格）。
func (es ExecutorService) EffectivePrice(base decimal.Decimal) decimal.Decimal {
	if es.CustomPrice != nil {
		return *es.CustomPrice
	}
	return base
}
