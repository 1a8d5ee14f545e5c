package client

import (
	"context"
	"net/http"
)

// AuthAPI covers /auth
type AuthAPI struct {
	c *Client
}

// SignupRequest registers a normal user
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Address  string `json:"address,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// AuthPayload is returned by login and signup
type AuthPayload struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// Login exchanges credentials for a token
func (a *AuthAPI) Login(ctx context.Context, email, password string) (*AuthPayload, error) {
	var out AuthPayload
	if err := a.c.Do(ctx, http.MethodPost, "/auth/login", nil, loginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Signup creates a normal user account and logs it in
func (a *AuthAPI) Signup(ctx context.Context, req SignupRequest) (*AuthPayload, error) {
	var out AuthPayload
	if err := a.c.Do(ctx, http.MethodPost, "/auth/signup", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Profile fetches the account behind the current token
func (a *AuthAPI) Profile(ctx context.Context) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := a.c.Do(ctx, http.MethodGet, "/auth/profile", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// ChangePassword replaces the current user's password
func (a *AuthAPI) ChangePassword(ctx context.Context, current, next string) error {
	body := changePasswordRequest{CurrentPassword: current, NewPassword: next}
	return a.c.Do(ctx, http.MethodPut, "/auth/change-password", nil, body, nil)
}
