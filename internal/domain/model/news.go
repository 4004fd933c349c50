package model

import "time"

// ニュース/ブログ記事。authorは削除時SET NULL。
type News struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"type:varchar(200);not null" json:"title"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	PublishedAt time.Time `gorm:"not null;index" json:"published_at"`
	AuthorID    *int64    `gorm:"index" json:"author_id"`

	//添付PDFのURL
	PDFURL string `gorm:"type:varchar(500)" json:"pdf_url"`
}
