package client

import (
	"context"
	"net/http"
)

type RegisterInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone_number,omitempty"`
}

// Register は新規登録。成功するとログイン済みになる。
func (c *Client) Register(ctx context.Context, in RegisterInput) (Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", nil, in, &out); err != nil {
		return Profile{}, err
	}
	return out, nil
}

// Login はusernameまたはemailでログインする。
func (c *Client) Login(ctx context.Context, identifier, password string) (Profile, error) {
	body := map[string]string{"identifier": identifier, "password": password}
	var out Profile
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, body, &out); err != nil {
		return Profile{}, err
	}
	return out, nil
}

func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil, nil)
	if err == nil {
		c.mu.Lock()
		c.cart = nil
		c.mu.Unlock()
	}
	return err
}

type AuthStatus struct {
	Authenticated bool     `json:"authenticated"`
	User          *Profile `json:"user"`
}

func (c *Client) Status(ctx context.Context) (AuthStatus, error) {
	var out AuthStatus
	if err := c.do(ctx, http.MethodGet, "/api/auth/status", nil, nil, &out); err != nil {
		return AuthStatus{}, err
	}
	return out, nil
}

func (c *Client) GetProfile(ctx context.Context) (Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodGet, "/api/profile", nil, nil, &out); err != nil {
		return Profile{}, err
	}
	return out, nil
}

type UpdateProfileInput struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone_number,omitempty"`
	Email     *string `json:"email,omitempty"`
}

func (c *Client) UpdateProfile(ctx context.Context, in UpdateProfileInput) (Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodPatch, "/api/profile", nil, in, &out); err != nil {
		return Profile{}, err
	}
	return out, nil
}

// ChangePassword は成功すると全セッションが失効する。再ログインが必要。
func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	body := map[string]string{"old_password": oldPassword, "new_password": newPassword}
	return c.do(ctx, http.MethodPost, "/api/profile/password", nil, body, nil)
}
