package repository

import (
	"context"
	"errors"

	"studio/internal/domain/model"
)

// ユーザーが見つかりませんを統一
var ErrUserNotFound = errors.New("user not found")

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	//ログイン識別子（usernameまたはemail）から1件取得する。
	FindByIdentifier(ctx context.Context, identifier string) (*model.User, error)
	// プロフィール更新・最終ログイン更新など
	Update(ctx context.Context, user *model.User) error
}
