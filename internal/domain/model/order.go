package model

import "time"

type OrderStatusCode string

const (
	OrderStatusNew        OrderStatusCode = "new"
	OrderStatusProcessing OrderStatusCode = "processing"
	OrderStatusCompleted  OrderStatusCode = "completed"
	OrderStatusCancelled  OrderStatusCode = "cancelled"
)

// completed/cancelledは終端。以後の遷移は不可。
func (c OrderStatusCode) Terminal() bool {
	return c == OrderStatusCompleted || c == OrderStatusCancelled
}

// 注文ステータスのルックアップ行。起動時にシードされる固定集合。
type OrderStatus struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Code        OrderStatusCode `gorm:"type:varchar(50);uniqueIndex;not null" json:"status_name"`
	DisplayName string          `gorm:"type:varchar(100);not null" json:"status_display"`
}

// クライアントからの1サービス分の依頼。
// client/executor/serviceは削除時SET NULL。読み出し側はプレースホルダで埋める。
type Order struct {
	ID         int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ClientID   *int64 `gorm:"index" json:"client_id"`
	ExecutorID *int64 `gorm:"index" json:"executor_id"`
	ServiceID  *int64 `gorm:"index" json:"service_id"`
	StatusID   int64  `gorm:"not null;index" json:"status_id"`

	CreatedAt   time.Time  `gorm:"not null;index" json:"created_at"`
	ScheduledAt time.Time  `gorm:"not null" json:"scheduled_at"`
	CompletedAt *time.Time `json:"completed_at"`
}
