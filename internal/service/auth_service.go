package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/config"
	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/supabase"
)

// Cookie lifetimes for the provider-issued token pair.
const (
	AccessTokenMaxAge  = 3600   // 1 hour
	RefreshTokenMaxAge = 604800 // 7 days

	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

// Claims are the fields this service reads out of a Supabase access token.
// Supabase signs access tokens with the project JWT secret (HS256), so they
// can be validated locally without a round trip to the provider.
type Claims struct {
	jwt.RegisteredClaims
	Email        string                 `json:"email,omitempty"`
	UserMetadata map[string]interface{} `json:"user_metadata,omitempty"`
}

// UserID returns the provider-owned user id (the token subject).
func (c *Claims) UserID() string {
	return c.Subject
}

// AuthService exchanges credentials for sessions and validates them.
// All session state lives at the identity provider.
type AuthService struct {
	cfg      *config.Config
	provider *supabase.Client
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, provider *supabase.Client) *AuthService {
	return &AuthService{cfg: cfg, provider: provider}
}

// SignUp registers a new user with the provider. The redirect URL points the
// confirmation email back at the frontend's sign-in page.
func (s *AuthService) SignUp(ctx context.Context, email, password string, metadata map[string]interface{}) (*supabase.AuthResult, error) {
	return s.provider.SignUp(ctx, supabase.SignUpCredentials{
		Email:      email,
		Password:   password,
		Metadata:   metadata,
		RedirectTo: s.cfg.FrontendRedirectURL + "/signin",
	})
}

// SignIn authenticates an existing user.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*supabase.AuthResult, error) {
	return s.provider.SignInWithPassword(ctx, email, password)
}

// Refresh exchanges a refresh token for a new session.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*supabase.AuthResult, error) {
	return s.provider.RefreshSession(ctx, refreshToken)
}

// VerifyOTP verifies the emailed sign-up code.
func (s *AuthService) VerifyOTP(ctx context.Context, email, token, otpType string) (*supabase.AuthResult, error) {
	return s.provider.VerifyOTP(ctx, email, token, otpType)
}

// RequestPasswordReset asks the provider to send a reset email.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	return s.provider.RequestPasswordReset(ctx, email)
}

// UpdatePassword sets a new password for the authenticated user.
func (s *AuthService) UpdatePassword(ctx context.Context, accessToken, newPassword string) error {
	return s.provider.UpdatePassword(ctx, accessToken, newPassword)
}

// SignOut revokes the session at the provider. Best-effort: callers clear
// cookies regardless of the outcome.
func (s *AuthService) SignOut(ctx context.Context, accessToken string) error {
	return s.provider.SignOut(ctx, accessToken)
}

// GetUser fetches the profile behind an access token from the provider.
func (s *AuthService) GetUser(ctx context.Context, accessToken string) (*supabase.User, error) {
	return s.provider.GetUser(ctx, accessToken)
}

// ValidateToken parses and validates a Supabase access token locally,
// returning its claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.SupabaseJWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

// SecureCookies reports whether session cookies should carry the Secure
// flag. Off only in debug mode so local HTTP development works.
func (s *AuthService) SecureCookies() bool {
	return s.cfg.GinMode != "debug"
}
