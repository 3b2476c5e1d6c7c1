package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// AuthClient handles backend auth (GoTrue) operations.
type AuthClient struct {
	client *Client
}

// SignUp creates a new auth identity. The backend signs the identity in
// immediately, so a session is returned.
func (a *AuthClient) SignUp(ctx context.Context, req SignUpRequest) (*Session, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	resp, err := a.client.request(ctx, "POST", a.client.authURL+"/signup", body, nil)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, parseError(resp.Body, resp.StatusCode)
	}

	var session Session
	if err := json.Unmarshal(resp.Body, &session); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &session, nil
}

// SignInWithPassword authenticates a user with email/password.
func (a *AuthClient) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	body, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	resp, err := a.client.request(ctx, "POST", a.client.authURL+"/token?grant_type=password", body, nil)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, parseError(resp.Body, resp.StatusCode)
	}

	var session Session
	if err := json.Unmarshal(resp.Body, &session); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &session, nil
}

// RefreshToken exchanges a refresh token for a fresh session.
func (a *AuthClient) RefreshToken(ctx context.Context, refreshToken string) (*Session, error) {
	body, err := json.Marshal(map[string]string{
		"refresh_token": refreshToken,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	resp, err := a.client.request(ctx, "POST", a.client.authURL+"/token?grant_type=refresh_token", body, nil)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, parseError(resp.Body, resp.StatusCode)
	}

	var session Session
	if err := json.Unmarshal(resp.Body, &session); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &session, nil
}

// GetUser retrieves the identity behind an access token.
func (a *AuthClient) GetUser(ctx context.Context, accessToken string) (*User, error) {
	resp, err := a.client.requestWithToken(ctx, "GET", a.client.authURL+"/user", nil, nil, accessToken)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, parseError(resp.Body, resp.StatusCode)
	}

	var user User
	if err := json.Unmarshal(resp.Body, &user); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &user, nil
}

// UpdateUser updates the current identity. Used for password updates during
// the reset flow.
func (a *AuthClient) UpdateUser(ctx context.Context, accessToken string, updates map[string]interface{}) (*User, error) {
	body, err := json.Marshal(updates)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	resp, err := a.client.requestWithToken(ctx, "PUT", a.client.authURL+"/user", body, nil, accessToken)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, parseError(resp.Body, resp.StatusCode)
	}

	var user User
	if err := json.Unmarshal(resp.Body, &user); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &user, nil
}

// SignOut revokes the session behind an access token.
func (a *AuthClient) SignOut(ctx context.Context, accessToken string) error {
	resp, err := a.client.requestWithToken(ctx, "POST", a.client.authURL+"/logout", nil, nil, accessToken)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		return parseError(resp.Body, resp.StatusCode)
	}
	return nil
}

// ResetPasswordForEmail sends a password reset email. redirectTo is where the
// emailed link lands, typically the app's /reset-password route.
func (a *AuthClient) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	body, err := json.Marshal(map[string]string{
		"email": email,
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	urlStr := a.client.authURL + "/recover"
	if redirectTo != "" {
		urlStr += "?redirect_to=" + url.QueryEscape(redirectTo)
	}

	resp, err := a.client.request(ctx, "POST", urlStr, body, nil)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		return parseError(resp.Body, resp.StatusCode)
	}
	return nil
}
