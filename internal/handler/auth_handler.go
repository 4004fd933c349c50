package handler

import (
	"net/http"
	"time"

	"studio/internal/middleware"
	"studio/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/auth と /api/profile のHTTP。
// ログイン成功でHttpOnly cookieにJWTを入れる。
type AuthHandler struct {
	uc *usecase.AuthUsecase

	cookieSecure bool
	sessionTTL   time.Duration
}

// DI
func NewAuthHandler(uc *usecase.AuthUsecase, cookieSecure bool, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{uc: uc, cookieSecure: cookieSecure, sessionTTL: sessionTTL}
}

type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone_number"`
}

type LoginRequest struct {
	//usernameまたはemail
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type UpdateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone_number"`
	Email     *string `json:"email"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (h *AuthHandler) RegisterRoutes(g *echo.Group) {
	auth := g.Group("/auth")
	auth.POST("/register", h.register)
	auth.POST("/login", h.login)
	auth.POST("/logout", h.logout)
	auth.GET("/status", h.status)
	auth.GET("/csrf", h.csrf)

	profile := g.Group("/profile", middleware.LoginRequired())
	profile.GET("", h.getProfile)
	profile.PATCH("", h.updateProfile)
	profile.POST("/password", h.changePassword)
	profile.POST("/avatar", h.uploadAvatar)
}

func (h *AuthHandler) register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Register(c.Request().Context(), usecase.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		return writeError(c, err)
	}

	h.setSessionCookie(c, out.Token)
	return c.JSON(http.StatusCreated, out.Profile)
}

func (h *AuthHandler) login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Login(c.Request().Context(), usecase.LoginInput{
		Identifier: req.Identifier,
		Password:   req.Password,
	})
	if err != nil {
		return writeError(c, err)
	}

	h.setSessionCookie(c, out.Token)
	return c.JSON(http.StatusOK, out.Profile)
}

// ログアウトは常に成功扱い（未ログインでも200）。
func (h *AuthHandler) logout(c echo.Context) error {
	if err := h.uc.Logout(c.Request().Context(), middleware.SIDFrom(c)); err != nil {
		return writeError(c, err)
	}

	h.clearSessionCookie(c)
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

// ログイン状態の確認。未ログインなら{authenticated:false}を200で返す。
func (h *AuthHandler) status(c echo.Context) error {
	actor := middleware.ActorFrom(c)
	if !actor.Authenticated() {
		return c.JSON(http.StatusOK, map[string]interface{}{"authenticated": false})
	}

	profile, err := h.uc.CurrentUser(c.Request().Context(), actor)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"authenticated": true,
		"user":          profile,
	})
}

// CSRFミドルウェアが発行したトークンを返す（cookieにも入っている）。
func (h *AuthHandler) csrf(c echo.Context) error {
	token, _ := c.Get("csrf").(string)
	return c.JSON(http.StatusOK, map[string]string{"csrf_token": token})
}

func (h *AuthHandler) getProfile(c echo.Context) error {
	out, err := h.uc.CurrentUser(c.Request().Context(), middleware.ActorFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) updateProfile(c echo.Context) error {
	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.UpdateProfile(c.Request().Context(), middleware.ActorFrom(c), usecase.UpdateProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Email:     req.Email,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// パスワード変更後は全セッションが落ちるのでcookieも消す。
func (h *AuthHandler) changePassword(c echo.Context) error {
	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.ChangePassword(c.Request().Context(), middleware.ActorFrom(c), req.OldPassword, req.NewPassword); err != nil {
		return writeError(c, err)
	}

	h.clearSessionCookie(c)
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

func (h *AuthHandler) uploadAvatar(c echo.Context) error {
	fh, err := c.FormFile("avatar")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "avatar is required"})
	}
	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid file"})
	}
	defer src.Close()

	out, err := h.uc.UploadAvatar(c.Request().Context(), middleware.ActorFrom(c),
		fh.Filename, fh.Header.Get("Content-Type"), src, fh.Size)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) setSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
