package middleware

import (
	"errors"
	"net/http"

	"studio/internal/authz"
	"studio/internal/infra/session"
	"studio/internal/usecase"

	"github.com/labstack/echo/v4"
)

const (
	// cookie名
	SessionCookieName = "session"

	CtxActorKey = "actor" // authz.Actor
	CtxSIDKey   = "sid"   // string
)

// SessionAuth はcookieのJWTを検証し、sidをRedisセッションと突き合わせて
// contextにactorを入れる。未ログインでも落とさずAnonymousを入れる
// （公開エンドポイントと保護エンドポイントでミドルウェアを分けない）。
func SessionAuth(jwtSecret string, sessions session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(CtxActorKey, authz.Anonymous())

			cookie, err := c.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			claims, err := usecase.ParseSessionToken(jwtSecret, cookie.Value)
			if err != nil {
				//壊れた・期限切れのcookieはanonymous扱い
				return next(c)
			}

			sess, err := sessions.Find(c.Request().Context(), claims.SID)
			if err != nil {
				if errors.Is(err, session.ErrSessionNotFound) {
					//ログアウト済みなどでRedis側に無い
					return next(c)
				}
				return c.JSON(http.StatusInternalServerError, errorJSON("session error"))
			}

			//contextへ保存
			c.Set(CtxActorKey, authz.Actor{
				UserID:     sess.UserID,
				Role:       sess.Role,
				ExecutorID: sess.ExecutorID,
			})
			c.Set(CtxSIDKey, claims.SID)

			return next(c)
		}
	}
}

// ActorFrom はSessionAuthが入れたactorを取り出す。無ければAnonymous。
func ActorFrom(c echo.Context) authz.Actor {
	if a, ok := c.Get(CtxActorKey).(authz.Actor); ok {
		return a
	}
	return authz.Anonymous()
}

// SIDFrom は現在のセッションID。未ログインなら空文字。
func SIDFrom(c echo.Context) string {
	if sid, ok := c.Get(CtxSIDKey).(string); ok {
		return sid
	}
	return ""
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}
