package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"studio/internal/authz"
	"studio/internal/domain/model"
	"studio/internal/infra/session"
	"studio/internal/infra/storage"
	repo "studio/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// 入力検証はvalidatorパッケージに委譲（依存はinterfaceで逆転）。
type AuthValidator interface {
	ValidateRegister(ctx context.Context, username, email, password string) error
	ValidateLogin(ctx context.Context, identifier, password string) error
	ValidateChangePassword(ctx context.Context, oldPassword, newPassword string) error
}

// cookieに入るJWTのクレーム。実体のセッションはRedis側。
type SessionClaims struct {
	UserID int64  `json:"sub,string"`
	SID    string `json:"sid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// SignSessionToken はセッションIDを包んだJWTを署名する。
func SignSessionToken(secret string, claims SessionClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseSessionToken は署名と有効期限を検証してクレームを返す。
func ParseSessionToken(secret, tokenString string) (SessionClaims, error) {
	var claims SessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return SessionClaims{}, err
	}
	if !token.Valid {
		return SessionClaims{}, errors.New("invalid token")
	}
	return claims, nil
}

// AuthUsecase は登録・ログイン・プロフィール管理。
// 認証はcookieのJWTに入ったsidをRedisセッションと突き合わせて行う。
type AuthUsecase struct {
	userRepo     repo.UserRepository
	executorRepo repo.ExecutorRepository
	sessions     session.Store
	validator    AuthValidator
	media        storage.MediaStore

	jwtSecret  string
	sessionTTL time.Duration
}

func NewAuthUsecase(
	userRepo repo.UserRepository,
	executorRepo repo.ExecutorRepository,
	sessions session.Store,
	validator AuthValidator,
	media storage.MediaStore,
	jwtSecret string,
	sessionTTL time.Duration,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:     userRepo,
		executorRepo: executorRepo,
		sessions:     sessions,
		validator:    validator,
		media:        media,
		jwtSecret:    jwtSecret,
		sessionTTL:   sessionTTL,
	}
}

type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

type LoginInput struct {
	//usernameまたはemail
	Identifier string
	Password   string
}

type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Email     *string
}

type ProfileResponse struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Phone       string     `json:"phone_number"`
	AvatarURL   string     `json:"avatar_url"`
	Role        model.Role `json:"role"`
	IsStaff     bool       `json:"is_staff"`
	ExecutorID  *int64     `json:"executor_id,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at"`
	DateJoined  time.Time  `json:"date_joined"`
}

// ログイン成功時の戻り。tokenはhandlerがcookieに入れる。
type AuthResult struct {
	Profile ProfileResponse
	Token   string
	SID     string
}

// Register は新規登録して即ログイン状態にする。
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	if err := u.validator.ValidateRegister(ctx, in.Username, in.Email, in.Password); err != nil {
		return AuthResult{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResult{}, NewHTTPError(http.StatusInternalServerError, "hash error")
	}

	user := &model.User{
		Username:     strings.TrimSpace(in.Username),
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Phone:        strings.TrimSpace(in.Phone),
		IsActive:     true,
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		//validatorの重複チェックとinsertの間の競争はDBの一意制約が拾う
		return AuthResult{}, NewHTTPError(http.StatusConflict, "username or email already used")
	}

	return u.issueSession(ctx, user)
}

// Login はusernameまたはemailでログインする。
func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (AuthResult, error) {
	if err := u.validator.ValidateLogin(ctx, in.Identifier, in.Password); err != nil {
		return AuthResult{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := u.userRepo.FindByIdentifier(ctx, strings.TrimSpace(in.Identifier))
	if err != nil {
		return AuthResult{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	//存在しない場合もパスワード不一致と同じ応答（列挙攻撃対策）
	if user == nil || !user.IsActive {
		return AuthResult{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return AuthResult{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := u.userRepo.Update(ctx, user); err != nil {
		return AuthResult{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.issueSession(ctx, user)
}

// Logout はセッションを破棄する。cookieの失効はhandler側。
func (u *AuthUsecase) Logout(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	if err := u.sessions.Delete(ctx, sid); err != nil && !errors.Is(err, session.ErrSessionNotFound) {
		return NewHTTPError(http.StatusInternalServerError, "session error")
	}
	return nil
}

// CurrentUser はログイン中ユーザーのプロフィール。
func (u *AuthUsecase) CurrentUser(ctx context.Context, actor authz.Actor) (ProfileResponse, error) {
	if !actor.Authenticated() {
		return ProfileResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := u.userRepo.FindByID(ctx, actor.UserID)
	if err != nil {
		return ProfileResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if user == nil {
		return ProfileResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	return u.buildProfile(ctx, user), nil
}

// UpdateProfile は部分更新。nilのフィールドは触らない。
func (u *AuthUsecase) UpdateProfile(ctx context.Context, actor authz.Actor, in UpdateProfileInput) (ProfileResponse, error) {
	if !actor.Authenticated() {
		return ProfileResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := u.userRepo.FindByID(ctx, actor.UserID)
	if err != nil {
		return ProfileResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if user == nil {
		return ProfileResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if in.FirstName != nil {
		user.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		user.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Phone != nil {
		user.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if email == "" {
			return ProfileResponse{}, NewHTTPError(http.StatusBadRequest, "invalid email")
		}
		user.Email = email
	}

	if err := u.userRepo.Update(ctx, user); err != nil {
		return ProfileResponse{}, NewHTTPError(http.StatusConflict, "email already used")
	}

	return u.buildProfile(ctx, user), nil
}

// ChangePassword は現パスワード確認のうえ更新し、全セッションを破棄する。
// 呼び出し元は再ログインが必要。
func (u *AuthUsecase) ChangePassword(ctx context.Context, actor authz.Actor, oldPassword, newPassword string) error {
	if !actor.Authenticated() {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := u.validator.ValidateChangePassword(ctx, oldPassword, newPassword); err != nil {
		return NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := u.userRepo.FindByID(ctx, actor.UserID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if user == nil {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return NewHTTPError(http.StatusForbidden, "wrong password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "hash error")
	}

	user.PasswordHash = string(hash)
	if err := u.userRepo.Update(ctx, user); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.sessions.DeleteAllForUser(ctx, user.ID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "session error")
	}
	return nil
}

// UploadAvatar はアバター画像を保存してURLを記録する。
func (u *AuthUsecase) UploadAvatar(ctx context.Context, actor authz.Actor, filename, contentType string, r io.Reader, size int64) (ProfileResponse, error) {
	if !actor.Authenticated() {
		return ProfileResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := u.userRepo.FindByID(ctx, actor.UserID)
	if err != nil {
		return ProfileResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if user == nil {
		return ProfileResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	url, err := u.media.Save(ctx, "users/avatars", filename, contentType, r, size)
	if err != nil {
		return ProfileResponse{}, NewHTTPError(http.StatusInternalServerError, "upload failed")
	}

	user.AvatarURL = url
	if err := u.userRepo.Update(ctx, user); err != nil {
		return ProfileResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildProfile(ctx, user), nil
}

// セッションを発行する。ロールはIsStaff・executorプロフィール有無から導出。
func (u *AuthUsecase) issueSession(ctx context.Context, user *model.User) (AuthResult, error) {
	role, executorID, err := u.resolveRole(ctx, user)
	if err != nil {
		return AuthResult{}, err
	}

	sid := uuid.NewString()
	sess := session.Session{
		UserID:     user.ID,
		Role:       role,
		ExecutorID: executorID,
		CreatedAt:  time.Now(),
	}
	if err := u.sessions.Save(ctx, sid, sess, u.sessionTTL); err != nil {
		return AuthResult{}, NewHTTPError(http.StatusInternalServerError, "session error")
	}

	claims := SessionClaims{
		UserID: user.ID,
		SID:    sid,
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(u.sessionTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := SignSessionToken(u.jwtSecret, claims)
	if err != nil {
		return AuthResult{}, NewHTTPError(http.StatusInternalServerError, "token error")
	}

	profile := u.buildProfile(ctx, user)
	return AuthResult{Profile: profile, Token: token, SID: sid}, nil
}

func (u *AuthUsecase) resolveRole(ctx context.Context, user *model.User) (model.Role, *int64, error) {
	if user.IsStaff {
		return model.RoleStaff, u.lookupExecutorID(ctx, user.ID), nil
	}
	if id := u.lookupExecutorID(ctx, user.ID); id != nil {
		return model.RoleExecutor, id, nil
	}
	return model.RoleUser, nil, nil
}

func (u *AuthUsecase) lookupExecutorID(ctx context.Context, userID int64) *int64 {
	ex, err := u.executorRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil
	}
	return &ex.ID
}

func (u *AuthUsecase) buildProfile(ctx context.Context, user *model.User) ProfileResponse {
	role, executorID, _ := u.resolveRole(ctx, user)
	return ProfileResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Phone:       user.Phone,
		AvatarURL:   user.AvatarURL,
		Role:        role,
		IsStaff:     user.IsStaff,
		ExecutorID:  executorID,
		LastLoginAt: user.LastLoginAt,
		DateJoined:  user.CreatedAt,
	}
}
