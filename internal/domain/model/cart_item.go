package model

import "time"

// カートの明細。(cart, service)で一意、同一サービス追加は数量加算になる。
// 金額はスナップショットせず、読み出し毎にservicesの現在価格から再計算する。
type CartItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID    int64     `gorm:"not null;index;uniqueIndex:idx_cart_service" json:"cart_id"`
	ServiceID int64     `gorm:"not null;index;uniqueIndex:idx_cart_service" json:"service_id"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	AddedAt   time.Time `gorm:"not null;autoCreateTime" json:"added_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"-"`
}
