package model

import "time"

// サイト上での役割。executorはexecutorsテーブルの有無から導出する。
type Role string

const (
	RoleAnonymous Role = "ANONYMOUS"
	RoleUser      Role = "USER"
	RoleExecutor  Role = "EXECUTOR"
	RoleStaff     Role = "STAFF"
)

type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"column:password_hash;not null" json:"-"`

	FirstName string `gorm:"type:varchar(150)" json:"first_name"`
	LastName  string `gorm:"type:varchar(150)" json:"last_name"`

	//電話番号
	Phone string `gorm:"type:varchar(20)" json:"phone_number"`

	//アバター画像のURL（メディアストレージ上）
	AvatarURL string `gorm:"type:varchar(500)" json:"avatar_url"`

	//スタッフ（管理者）フラグ
	IsStaff  bool `gorm:"not null;default:false" json:"is_staff"`
	IsActive bool `gorm:"not null;default:true" json:"is_active"`

	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `gorm:"not null;autoCreateTime" json:"date_joined"`
	UpdatedAt   time.Time  `gorm:"not null;autoUpdateTime" json:"-"`
}

// 表示名。フルネームが無ければusername。
func (u User) DisplayName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Username
	}
	if u.LastName == "" {
		return u.FirstName
	}
	if u.FirstName == "" {
		return u.LastName
	}
	return u.FirstName + " " + u.LastName
}
