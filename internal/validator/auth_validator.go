package validator

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"studio/internal/repository"
	"studio/internal/usecase"
)

var (
	// 入力が不正
	ErrInvalidInput = errors.New("invalid input")

	// username/emailが既に使用済み
	ErrIdentifierTaken = errors.New("identifier already used")
)

type authValidator struct {
	users repository.UserRepository
}

// Usecaseは interface を依存注入
func NewAuthValidator(users repository.UserRepository) usecase.AuthValidator {
	return &authValidator{users: users}
}

// サインアップの入力を検証
func (v *authValidator) ValidateRegister(ctx context.Context, username, email, password string) error {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	// 必須チェック
	if username == "" || email == "" || password == "" {
		return ErrInvalidInput
	}

	// username形式（英数と._-、3〜150文字）
	if !isUsernameLike(username) {
		return ErrInvalidInput
	}

	// email形式
	if !isEmailLike(email) {
		return ErrInvalidInput
	}

	// パスワード最低文字数（8）
	if len(password) < 8 {
		return ErrInvalidInput
	}

	// 重複チェック（DBが必要）
	if u, err := v.users.FindByIdentifier(ctx, username); err == nil && u != nil {
		return ErrIdentifierTaken
	}
	if u, err := v.users.FindByIdentifier(ctx, email); err == nil && u != nil {
		return ErrIdentifierTaken
	}

	return nil
}

// ログインの入力を検証。identifierはusernameでもemailでも良い。
func (v *authValidator) ValidateLogin(ctx context.Context, identifier, password string) error {
	if strings.TrimSpace(identifier) == "" || password == "" {
		return ErrInvalidInput
	}
	return nil
}

// パスワード変更の入力を検証
func (v *authValidator) ValidateChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return ErrInvalidInput
	}
	if len(newPassword) < 8 {
		return ErrInvalidInput
	}
	return nil
}

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9._-]{3,150}$`)
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

func isUsernameLike(s string) bool {
	return usernameRe.MatchString(s)
}

// 簡易メール形式をチェック
func isEmailLike(s string) bool {
	return emailRe.MatchString(s)
}
