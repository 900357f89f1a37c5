// Package supabase is a thin REST client for the Supabase GoTrue identity
// provider. Authentication and session management are fully delegated to
// it — this service never stores or verifies credentials locally.
package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/config"
)

// ErrNotConfigured is returned when the Supabase URL or API key is missing.
var ErrNotConfigured = errors.New("supabase URL or API key not set")

// AuthError reports a non-2xx response from GoTrue.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("supabase auth returned %d: %s", e.StatusCode, e.Message)
}

// User is the provider-owned user profile.
type User struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email"`
	UserMetadata map[string]interface{} `json:"user_metadata,omitempty"`
}

// Session is a provider-issued token pair.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	User         *User  `json:"user,omitempty"`
}

// AuthResult is what GoTrue returns from sign-up, sign-in, refresh and OTP
// verification. Session is nil when the provider created the user but did
// not log them in (e.g. email confirmation pending).
type AuthResult struct {
	Session *Session
	User    *User
}

// SignUpCredentials is the payload for creating a new user.
type SignUpCredentials struct {
	Email      string
	Password   string
	Metadata   map[string]interface{}
	RedirectTo string
}

// Client talks to the GoTrue REST API under /auth/v1.
type Client struct {
	http *resty.Client
}

// New creates a Client from configuration.
func New(cfg *config.Config) (*Client, error) {
	if cfg.SupabaseURL == "" || cfg.SupabaseAPIKey == "" {
		return nil, ErrNotConfigured
	}

	rc := resty.New().
		SetBaseURL(strings.TrimRight(cfg.SupabaseURL, "/") + "/auth/v1").
		SetHeader("apikey", cfg.SupabaseAPIKey).
		SetHeader("Content-Type", "application/json")

	return &Client{http: rc}, nil
}

// SignUp registers a new user. GoTrue sends a confirmation email unless
// auto-confirm is enabled for the project.
func (c *Client) SignUp(ctx context.Context, creds SignUpCredentials) (*AuthResult, error) {
	req := c.http.R().SetContext(ctx).SetBody(map[string]interface{}{
		"email":    creds.Email,
		"password": creds.Password,
		"data":     creds.Metadata,
	})
	if creds.RedirectTo != "" {
		req.SetQueryParam("redirect_to", creds.RedirectTo)
	}

	resp, err := req.Post("/signup")
	if err != nil {
		return nil, fmt.Errorf("supabase signup: %w", err)
	}
	return decodeAuthResult(resp)
}

// SignInWithPassword exchanges email + password for a session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*AuthResult, error) {
	resp, err := c.http.R().SetContext(ctx).
		SetQueryParam("grant_type", "password").
		SetBody(map[string]string{"email": email, "password": password}).
		Post("/token")
	if err != nil {
		return nil, fmt.Errorf("supabase signin: %w", err)
	}
	return decodeAuthResult(resp)
}

// RefreshSession exchanges a refresh token for a fresh session.
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*AuthResult, error) {
	resp, err := c.http.R().SetContext(ctx).
		SetQueryParam("grant_type", "refresh_token").
		SetBody(map[string]string{"refresh_token": refreshToken}).
		Post("/token")
	if err != nil {
		return nil, fmt.Errorf("supabase refresh: %w", err)
	}
	return decodeAuthResult(resp)
}

// VerifyOTP verifies the emailed code and, on success, logs the user in.
func (c *Client) VerifyOTP(ctx context.Context, email, token, otpType string) (*AuthResult, error) {
	resp, err := c.http.R().SetContext(ctx).
		SetBody(map[string]string{"email": email, "token": token, "type": otpType}).
		Post("/verify")
	if err != nil {
		return nil, fmt.Errorf("supabase verify: %w", err)
	}
	return decodeAuthResult(resp)
}

// RequestPasswordReset asks GoTrue to email a password-reset link.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	resp, err := c.http.R().SetContext(ctx).
		SetBody(map[string]string{"email": email}).
		Post("/recover")
	if err != nil {
		return fmt.Errorf("supabase recover: %w", err)
	}
	if !resp.IsSuccess() {
		return newAuthError(resp)
	}
	return nil
}

// UpdatePassword sets a new password for the user the access token belongs to.
func (c *Client) UpdatePassword(ctx context.Context, accessToken, newPassword string) error {
	resp, err := c.http.R().SetContext(ctx).
		SetAuthToken(accessToken).
		SetBody(map[string]string{"password": newPassword}).
		Put("/user")
	if err != nil {
		return fmt.Errorf("supabase update user: %w", err)
	}
	if !resp.IsSuccess() {
		return newAuthError(resp)
	}
	return nil
}

// SignOut revokes the session behind the access token.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	resp, err := c.http.R().SetContext(ctx).
		SetAuthToken(accessToken).
		Post("/logout")
	if err != nil {
		return fmt.Errorf("supabase logout: %w", err)
	}
	if !resp.IsSuccess() {
		return newAuthError(resp)
	}
	return nil
}

// GetUser fetches the user profile behind an access token.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	resp, err := c.http.R().SetContext(ctx).
		SetAuthToken(accessToken).
		Get("/user")
	if err != nil {
		return nil, fmt.Errorf("supabase get user: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, newAuthError(resp)
	}

	var user User
	if err := json.Unmarshal(resp.Body(), &user); err != nil {
		return nil, fmt.Errorf("decode supabase user: %w", err)
	}
	return &user, nil
}

// decodeAuthResult handles the two shapes GoTrue responds with: a session
// envelope (access_token + user) or, for unconfirmed sign-ups, a bare user
// object.
func decodeAuthResult(resp *resty.Response) (*AuthResult, error) {
	if !resp.IsSuccess() {
		return nil, newAuthError(resp)
	}

	var session Session
	if err := json.Unmarshal(resp.Body(), &session); err != nil {
		return nil, fmt.Errorf("decode supabase session: %w", err)
	}

	if session.AccessToken != "" {
		return &AuthResult{Session: &session, User: session.User}, nil
	}

	var user User
	if err := json.Unmarshal(resp.Body(), &user); err != nil {
		return nil, fmt.Errorf("decode supabase user: %w", err)
	}
	if user.ID == "" {
		return &AuthResult{}, nil
	}
	return &AuthResult{User: &user}, nil
}

// newAuthError extracts the provider's message from the several error body
// shapes GoTrue uses.
func newAuthError(resp *resty.Response) *AuthError {
	var body struct {
		ErrorDescription string `json:"error_description"`
		Msg              string `json:"msg"`
		Message          string `json:"message"`
	}
	_ = json.Unmarshal(resp.Body(), &body)

	message := body.ErrorDescription
	if message == "" {
		message = body.Msg
	}
	if message == "" {
		message = body.Message
	}
	if message == "" {
		message = strings.TrimSpace(string(resp.Body()))
	}

	return &AuthError{StatusCode: resp.StatusCode(), Message: message}
}
