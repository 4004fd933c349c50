package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"studio/internal/domain/model"
	"studio/internal/infra/session"
	"studio/internal/middleware"
	"studio/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret"

type memStore struct {
	mu       sync.Mutex
	sessions map[string]session.Session
}

func newMemStore() *memStore {
	return &memStore{sessions: map[string]session.Session{}}
}

func (s *memStore) Save(ctx context.Context, sid string, sess session.Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sid] = sess
	return nil
}

func (s *memStore) Find(ctx context.Context, sid string) (session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sid]
	if !ok {
		return session.Session{}, session.ErrSessionNotFound
	}
	return sess, nil
}

func (s *memStore) Delete(ctx context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sid)
	return nil
}

func (s *memStore) DeleteAllForUser(ctx context.Context, userID int64) error {
	return nil
}

func signedCookie(t *testing.T, secret, sid string, userID int64) *http.Cookie {
	t.Helper()
	token, err := usecase.SignSessionToken(secret, usecase.SessionClaims{
		UserID: userID,
		SID:    sid,
		Role:   string(model.RoleUser),
	})
	assert.NoError(t, err)
	return &http.Cookie{Name: middleware.SessionCookieName, Value: token}
}

func runRequest(store session.Store, cookie *http.Cookie, mws ...echo.MiddlewareFunc) (*httptest.ResponseRecorder, *echo.Echo) {
	e := echo.New()
	e.Use(middleware.SessionAuth(testSecret, store))
	for _, mw := range mws {
		e.Use(mw)
	}
	e.GET("/me", func(c echo.Context) error {
		a := middleware.ActorFrom(c)
		return c.JSON(http.StatusOK, map[string]interface{}{
			"user_id":       a.UserID,
			"authenticated": a.Authenticated(),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec, e
}

func TestSessionAuth_ValidCookiePopulatesActor(t *testing.T) {
	store := newMemStore()
	store.sessions["sid-1"] = session.Session{UserID: 7, Role: model.RoleUser}

	rec, _ := runRequest(store, signedCookie(t, testSecret, "sid-1", 7))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"authenticated":true`)
	assert.Contains(t, rec.Body.String(), `"user_id":7`)
}

func TestSessionAuth_NoCookieIsAnonymous(t *testing.T) {
	rec, _ := runRequest(newMemStore(), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"authenticated":false`)
}

func TestSessionAuth_ForgedTokenIsAnonymous(t *testing.T) {
	store := newMemStore()
	store.sessions["sid-1"] = session.Session{UserID: 7, Role: model.RoleUser}

	//別のシークレットで署名されたトークンは無視される
	rec, _ := runRequest(store, signedCookie(t, "other-secret", "sid-1", 7))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"authenticated":false`)
}

func TestSessionAuth_RevokedSessionIsAnonymous(t *testing.T) {
	//JWTは有効だがRedis側のセッションが消えている（ログアウト後）
	rec, _ := runRequest(newMemStore(), signedCookie(t, testSecret, "sid-gone", 7))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"authenticated":false`)
}

func TestLoginRequired(t *testing.T) {
	store := newMemStore()
	store.sessions["sid-1"] = session.Session{UserID: 7, Role: model.RoleUser}

	rec, _ := runRequest(store, nil, middleware.LoginRequired())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = runRequest(store, signedCookie(t, testSecret, "sid-1", 7), middleware.LoginRequired())
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStaffGuard(t *testing.T) {
	store := newMemStore()
	store.sessions["sid-user"] = session.Session{UserID: 7, Role: model.RoleUser}
	store.sessions["sid-staff"] = session.Session{UserID: 1, Role: model.RoleStaff}

	rec, _ := runRequest(store, signedCookie(t, testSecret, "sid-user", 7), middleware.StaffGuard())
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = runRequest(store, signedCookie(t, testSecret, "sid-staff", 1), middleware.StaffGuard())
	assert.Equal(t, http.StatusOK, rec.Code)
}
