package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/middleware"
	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/response"
	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/service"
	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/supabase"
	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/validator"
)

// AuthHandler handles authentication endpoints. Credentials are only ever
// forwarded to the identity provider; sessions come back as HttpOnly
// cookies.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SignUpRequest is the payload for registering a new user.
type SignUpRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username" binding:"required,min=3"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
}

// SignInRequest is the payload for authenticating an existing user.
type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest is the payload for refreshing a session. The cookie takes
// precedence when both are present.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// PasswordResetRequest asks for a reset email.
type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// PasswordResetConfirmRequest sets the new password.
type PasswordResetConfirmRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// VerifyOTPRequest verifies the emailed sign-up code.
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	Token string `json:"token" binding:"required"`
	Type  string `json:"type"`
}

// SignUp godoc
// POST /auth/signup
// Registers a new user with the identity provider. When the sign-up is
// auto-confirmed a session is issued immediately; otherwise the provider
// sends a confirmation email.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	metadata := map[string]interface{}{
		"first_name": req.FirstName,
		"last_name":  req.LastName,
		"username":   req.Username,
	}

	result, err := h.authService.SignUp(c.Request.Context(), req.Email, req.Password, metadata)
	if err != nil {
		failAuth(c, http.StatusBadRequest, err)
		return
	}

	h.setSessionCookies(c, result.Session)
	response.Success(c, http.StatusOK, gin.H{"user": result.User})
}

// SignIn godoc
// POST /auth/signin
// Authenticates an existing user and sets the session cookies.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req SignInRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.authService.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		failAuth(c, http.StatusBadRequest, err)
		return
	}

	if result.Session == nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrNoSession)
		return
	}

	h.setSessionCookies(c, result.Session)
	response.Success(c, http.StatusOK, gin.H{"user": result.User})
}

// Refresh godoc
// POST /auth/refresh
// Exchanges the refresh token (cookie preferred, payload fallback) for a
// fresh session.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	_ = c.ShouldBindJSON(&req) // Body is optional when the cookie is set

	refreshToken, _ := c.Cookie(service.RefreshTokenCookie)
	if refreshToken == "" {
		refreshToken = req.RefreshToken
	}
	if refreshToken == "" {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		failAuth(c, http.StatusUnauthorized, err)
		return
	}

	if result.Session == nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrNoSession)
		return
	}

	h.setSessionCookies(c, result.Session)
	response.Success(c, http.StatusOK, gin.H{"user": result.User})
}

// VerifyOTP godoc
// POST /auth/verify
// Verifies the 6-digit code from the confirmation email. On success the
// user is confirmed and logged in.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	otpType := req.Type
	if otpType == "" {
		otpType = "signup"
	}

	result, err := h.authService.VerifyOTP(c.Request.Context(), req.Email, req.Token, otpType)
	if err != nil {
		failAuth(c, http.StatusBadRequest, err)
		return
	}

	if result.Session == nil {
		response.Success(c, http.StatusOK, gin.H{"message": "verification successful; no session created"})
		return
	}

	h.setSessionCookies(c, result.Session)
	response.Success(c, http.StatusOK, gin.H{"user": result.User})
}

// RequestPasswordReset godoc
// POST /auth/password-reset/request
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req PasswordResetRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.authService.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		failAuth(c, http.StatusBadRequest, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "password-reset email sent"})
}

// ConfirmPasswordReset godoc
// POST /auth/password-reset/confirm
// Sets a new password for the authenticated user (the reset link logs the
// user in first).
func (h *AuthHandler) ConfirmPasswordReset(c *gin.Context) {
	var req PasswordResetConfirmRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	token := middleware.ExtractAccessToken(c)
	if token == "" {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.authService.UpdatePassword(c.Request.Context(), token, req.NewPassword); err != nil {
		failAuth(c, http.StatusBadRequest, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "password updated successfully"})
}

// SignOut godoc
// POST /auth/signout
// Revokes the provider session (best-effort) and clears the cookies.
func (h *AuthHandler) SignOut(c *gin.Context) {
	if token := middleware.ExtractAccessToken(c); token != "" {
		if err := h.authService.SignOut(c.Request.Context(), token); err != nil {
			// Cookie clearing below still signs the browser out.
			_ = c.Error(err)
		}
	}

	h.clearSessionCookies(c)
	response.Success(c, http.StatusOK, gin.H{"message": "signed out"})
}

// Me godoc
// GET /auth/me
// Returns the current authenticated user with explicit profile fields.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	meta := claims.UserMetadata
	response.Success(c, http.StatusOK, gin.H{
		"user": gin.H{
			"id":         claims.UserID(),
			"email":      claims.Email,
			"first_name": metaString(meta, "first_name"),
			"last_name":  metaString(meta, "last_name"),
			"username":   metaString(meta, "username"),
		},
	})
}

func (h *AuthHandler) setSessionCookies(c *gin.Context, session *supabase.Session) {
	if session == nil {
		return
	}

	secure := h.authService.SecureCookies()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(service.AccessTokenCookie, session.AccessToken, service.AccessTokenMaxAge, "/", "", secure, true)
	c.SetCookie(service.RefreshTokenCookie, session.RefreshToken, service.RefreshTokenMaxAge, "/", "", secure, true)
}

func (h *AuthHandler) clearSessionCookies(c *gin.Context) {
	secure := h.authService.SecureCookies()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(service.AccessTokenCookie, "", -1, "/", "", secure, true)
	c.SetCookie(service.RefreshTokenCookie, "", -1, "/", "", secure, true)
}

// failAuth relays the identity provider's message with the provider's
// status when it sent one, else the handler's default status.
func failAuth(c *gin.Context, defaultStatus int, err error) {
	var authErr *supabase.AuthError
	if errors.As(err, &authErr) {
		status := defaultStatus
		if authErr.StatusCode == http.StatusUnauthorized || authErr.StatusCode == http.StatusTooManyRequests {
			status = authErr.StatusCode
		}
		response.FailWithMessage(c, status, response.ErrAuthProvider, authErr.Message)
		return
	}

	response.FailWithMessage(c, defaultStatus, response.ErrAuthProvider, err.Error())
}

func metaString(meta map[string]interface{}, key string) string {
	if meta == nil {
		return ""
	}
	if v, ok := meta[key].(string); ok {
		return v
	}
	return ""
}
