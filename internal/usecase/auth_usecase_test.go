package usecase_test

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"studio/internal/authz"
	"studio/internal/domain/model"
	repo "studio/internal/repository"
	"studio/internal/infra/session"
	"studio/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// Redisの代わりのインメモリセッションストア。
type memSessionStore struct {
	mu       sync.Mutex
	sessions map[string]session.Session
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: map[string]session.Session{}}
}

func (s *memSessionStore) Save(ctx context.Context, sid string, sess session.Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sid] = sess
	return nil
}

func (s *memSessionStore) Find(ctx context.Context, sid string) (session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sid]
	if !ok {
		return session.Session{}, session.ErrSessionNotFound
	}
	return sess, nil
}

func (s *memSessionStore) Delete(ctx context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sid)
	return nil
}

func (s *memSessionStore) DeleteAllForUser(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for sid, sess := range s.sessions {
		if sess.UserID == userID {
			delete(s.sessions, sid)
		}
	}
	return nil
}

// 全部通すvalidator（入力検証そのものはvalidatorパッケージ側でテスト）。
type passValidator struct{}

func (passValidator) ValidateRegister(ctx context.Context, username, email, password string) error {
	return nil
}
func (passValidator) ValidateLogin(ctx context.Context, identifier, password string) error {
	return nil
}
func (passValidator) ValidateChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	return nil
}

func newAuthFixture(t *testing.T) (*usecase.AuthUsecase, *UserRepoMock, *ExecutorRepoMock, *memSessionStore) {
	t.Helper()
	users := new(UserRepoMock)
	execs := new(ExecutorRepoMock)
	store := newMemSessionStore()
	uc := usecase.NewAuthUsecase(users, execs, store, passValidator{}, nil, "test-secret", time.Hour)
	return uc, users, execs, store
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(h)
}

func TestAuthUsecase_Login_IssuesVerifiableSession(t *testing.T) {
	uc, users, execs, store := newAuthFixture(t)

	user := &model.User{ID: 7, Username: "bob", PasswordHash: hashOf(t, "secret123"), IsActive: true}
	users.On("FindByIdentifier", mock.Anything, "bob").Return(user, nil)
	users.On("Update", mock.Anything, user).Return(nil)
	execs.On("FindByUserID", mock.Anything, int64(7)).Return(model.Executor{}, repo.ErrNotFound)

	out, err := uc.Login(context.Background(), usecase.LoginInput{Identifier: "bob", Password: "secret123"})
	assert.NoError(t, err)
	assert.Equal(t, "bob", out.Profile.Username)
	assert.Equal(t, model.RoleUser, out.Profile.Role)

	//発行されたJWTは同じシークレットで検証でき、sidがセッションストアにある
	claims, err := usecase.ParseSessionToken("test-secret", out.Token)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)

	sess, err := store.Find(context.Background(), claims.SID)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), sess.UserID)

	//last_login_atが更新されている
	assert.NotNil(t, user.LastLoginAt)
}

func TestAuthUsecase_Login_WrongPassword(t *testing.T) {
	uc, users, _, _ := newAuthFixture(t)

	user := &model.User{ID: 7, Username: "bob", PasswordHash: hashOf(t, "secret123"), IsActive: true}
	users.On("FindByIdentifier", mock.Anything, "bob").Return(user, nil)

	_, err := uc.Login(context.Background(), usecase.LoginInput{Identifier: "bob", Password: "wrong"})
	assertHTTPStatus(t, err, http.StatusUnauthorized)
}

func TestAuthUsecase_Login_UnknownUserSameError(t *testing.T) {
	uc, users, _, _ := newAuthFixture(t)

	users.On("FindByIdentifier", mock.Anything, "nobody").Return((*model.User)(nil), nil)

	//存在しないユーザーもパスワード不一致と同じ401
	_, err := uc.Login(context.Background(), usecase.LoginInput{Identifier: "nobody", Password: "x"})
	assertHTTPStatus(t, err, http.StatusUnauthorized)
}

func TestAuthUsecase_Login_InactiveUserRejected(t *testing.T) {
	uc, users, _, _ := newAuthFixture(t)

	user := &model.User{ID: 7, Username: "bob", PasswordHash: hashOf(t, "secret123"), IsActive: false}
	users.On("FindByIdentifier", mock.Anything, "bob").Return(user, nil)

	_, err := uc.Login(context.Background(), usecase.LoginInput{Identifier: "bob", Password: "secret123"})
	assertHTTPStatus(t, err, http.StatusUnauthorized)
}

func TestAuthUsecase_Login_ExecutorRole(t *testing.T) {
	uc, users, execs, _ := newAuthFixture(t)

	user := &model.User{ID: 7, Username: "ann", PasswordHash: hashOf(t, "secret123"), IsActive: true}
	users.On("FindByIdentifier", mock.Anything, "ann").Return(user, nil)
	users.On("Update", mock.Anything, user).Return(nil)
	execs.On("FindByUserID", mock.Anything, int64(7)).Return(model.Executor{ID: 2, UserID: 7}, nil)

	out, err := uc.Login(context.Background(), usecase.LoginInput{Identifier: "ann", Password: "secret123"})
	assert.NoError(t, err)
	assert.Equal(t, model.RoleExecutor, out.Profile.Role)
	if assert.NotNil(t, out.Profile.ExecutorID) {
		assert.Equal(t, int64(2), *out.Profile.ExecutorID)
	}
}

func TestAuthUsecase_Logout_RemovesSession(t *testing.T) {
	uc, users, execs, store := newAuthFixture(t)

	user := &model.User{ID: 7, Username: "bob", PasswordHash: hashOf(t, "secret123"), IsActive: true}
	users.On("FindByIdentifier", mock.Anything, "bob").Return(user, nil)
	users.On("Update", mock.Anything, user).Return(nil)
	execs.On("FindByUserID", mock.Anything, int64(7)).Return(model.Executor{}, repo.ErrNotFound)

	out, err := uc.Login(context.Background(), usecase.LoginInput{Identifier: "bob", Password: "secret123"})
	assert.NoError(t, err)

	assert.NoError(t, uc.Logout(context.Background(), out.SID))

	_, err = store.Find(context.Background(), out.SID)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	//2回目のログアウトも成功扱い
	assert.NoError(t, uc.Logout(context.Background(), out.SID))
}

func TestAuthUsecase_ChangePassword_RevokesAllSessions(t *testing.T) {
	uc, users, execs, store := newAuthFixture(t)

	user := &model.User{ID: 7, Username: "bob", PasswordHash: hashOf(t, "oldpassword"), IsActive: true}
	users.On("FindByIdentifier", mock.Anything, "bob").Return(user, nil)
	users.On("FindByID", mock.Anything, int64(7)).Return(user, nil)
	users.On("Update", mock.Anything, user).Return(nil)
	execs.On("FindByUserID", mock.Anything, int64(7)).Return(model.Executor{}, repo.ErrNotFound)

	//2端末でログイン
	s1, err := uc.Login(context.Background(), usecase.LoginInput{Identifier: "bob", Password: "oldpassword"})
	assert.NoError(t, err)
	s2, err := uc.Login(context.Background(), usecase.LoginInput{Identifier: "bob", Password: "oldpassword"})
	assert.NoError(t, err)

	actor := authz.Actor{UserID: 7, Role: model.RoleUser}
	err = uc.ChangePassword(context.Background(), actor, "oldpassword", "newpassword1")
	assert.NoError(t, err)

	//全セッションが失効している
	_, err = store.Find(context.Background(), s1.SID)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
	_, err = store.Find(context.Background(), s2.SID)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	//新しいハッシュで検証できる
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("newpassword1")))
}

func TestAuthUsecase_ChangePassword_WrongOldPassword(t *testing.T) {
	uc, users, _, _ := newAuthFixture(t)

	user := &model.User{ID: 7, Username: "bob", PasswordHash: hashOf(t, "oldpassword"), IsActive: true}
	users.On("FindByID", mock.Anything, int64(7)).Return(user, nil)

	actor := authz.Actor{UserID: 7, Role: model.RoleUser}
	err := uc.ChangePassword(context.Background(), actor, "nope", "newpassword1")
	assertHTTPStatus(t, err, http.StatusForbidden)
}

func TestParseSessionToken_WrongSecret(t *testing.T) {
	token, err := usecase.SignSessionToken("secret-a", usecase.SessionClaims{UserID: 7, SID: "sid-1"})
	assert.NoError(t, err)

	_, err = usecase.ParseSessionToken("secret-b", token)
	assert.Error(t, err)
}
