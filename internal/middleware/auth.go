package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/response"
	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/service"
)

const (
	// ContextKeyClaims is the Gin context key for access-token claims.
	ContextKeyClaims = "claims"
	// ContextKeyAccessToken is the Gin context key for the raw access token.
	ContextKeyAccessToken = "access_token_raw"
)

// RequireAuth validates the Supabase access token from the session cookie,
// falling back to the Authorization header for non-browser clients.
func RequireAuth(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := ExtractAccessToken(c)
		if tokenStr == "" {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		claims, err := authService.ValidateToken(tokenStr)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Set(ContextKeyAccessToken, tokenStr)
		c.Next()
	}
}

// ExtractAccessToken pulls the access token from the cookie first, then the
// Authorization header. Empty string when neither is present.
func ExtractAccessToken(c *gin.Context) string {
	if cookie, err := c.Cookie(service.AccessTokenCookie); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}
	return ""
}

// GetClaims retrieves the access-token claims from the Gin context.
func GetClaims(c *gin.Context) *service.Claims {
	val, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil
	}
	claims, ok := val.(*service.Claims)
	if !ok {
		return nil
	}
	return claims
}
