package model

import "time"

// ユーザー間メッセージ。sender/receiverは削除時SET NULL。
type Message struct {
	ID         int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	SenderID   *int64 `gorm:"index" json:"sender_id"`
	ReceiverID *int64 `gorm:"index" json:"receiver_id"`

	Content string    `gorm:"type:text;not null" json:"content"`
	SentAt  time.Time `gorm:"not null;index" json:"sent_at"`
	IsRead  bool      `gorm:"not null;default:false;index" json:"is_read"`
}
