package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/config"
	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/response"
	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/service"
	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/supabase"
	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/validator"
)

func newAuthHandlerRouter(t *testing.T, provider http.Handler) *gin.Engine {
	t.Helper()
	validator.Setup()

	srv := httptest.NewServer(provider)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		GinMode:             "debug",
		SupabaseURL:         srv.URL,
		SupabaseAPIKey:      "anon-key",
		FrontendRedirectURL: "https://app.example.com",
	}
	client, err := supabase.New(cfg)
	require.NoError(t, err)

	h := NewAuthHandler(service.NewAuthService(cfg, client))

	r := gin.New()
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/signup", h.SignUp)
		authGroup.POST("/signin", h.SignIn)
		authGroup.POST("/refresh", h.Refresh)
		authGroup.POST("/signout", h.SignOut)
	}
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func sessionBody() string {
	return `{
		"access_token": "at-1",
		"refresh_token": "rt-1",
		"token_type": "bearer",
		"expires_in": 3600,
		"user": {"id": "u-1", "email": "jane@example.com"}
	}`
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestSignInSetsSessionCookies(t *testing.T) {
	r := newAuthHandlerRouter(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(sessionBody()))
	}))

	w := postJSON(r, "/auth/signin", `{"email": "jane@example.com", "password": "hunter22x"}`)
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	access := cookieByName(cookies, service.AccessTokenCookie)
	require.NotNil(t, access)
	assert.Equal(t, "at-1", access.Value)
	assert.Equal(t, service.AccessTokenMaxAge, access.MaxAge)
	assert.True(t, access.HttpOnly)
	assert.False(t, access.Secure, "debug mode serves plain HTTP locally")

	refresh := cookieByName(cookies, service.RefreshTokenCookie)
	require.NotNil(t, refresh)
	assert.Equal(t, "rt-1", refresh.Value)
	assert.Equal(t, service.RefreshTokenMaxAge, refresh.MaxAge)
	assert.True(t, refresh.HttpOnly)
}

func TestSignInValidationFailure(t *testing.T) {
	r := newAuthHandlerRouter(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		t.Error("provider must not be called on invalid input")
	}))

	w := postJSON(r, "/auth/signin", `{"email": "not-an-email", "password": ""}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeEnvelope(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, response.ErrValidation, resp.Error.Code)
	assert.NotEmpty(t, resp.Error.Fields)
}

func TestSignInRelaysProviderError(t *testing.T) {
	r := newAuthHandlerRouter(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error_description": "Invalid login credentials"}`))
	}))

	w := postJSON(r, "/auth/signin", `{"email": "jane@example.com", "password": "wrongpass1"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeEnvelope(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, response.ErrAuthProvider, resp.Error.Code)
	assert.Equal(t, "Invalid login credentials", resp.Error.Message)
}

func TestRefreshPrefersCookieOverBody(t *testing.T) {
	var gotToken string
	r := newAuthHandlerRouter(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(req.Body).Decode(&body)
		gotToken = body["refresh_token"]
		_, _ = w.Write([]byte(sessionBody()))
	}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", strings.NewReader(`{"refresh_token": "from-body"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: service.RefreshTokenCookie, Value: "from-cookie"})
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "from-cookie", gotToken)
}

func TestRefreshWithoutTokenIs401(t *testing.T) {
	r := newAuthHandlerRouter(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		t.Error("provider must not be called without a refresh token")
	}))

	w := postJSON(r, "/auth/refresh", `{}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSignOutClearsCookies(t *testing.T) {
	r := newAuthHandlerRouter(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/signout", nil)
	req.AddCookie(&http.Cookie{Name: service.AccessTokenCookie, Value: "at-1"})
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	access := cookieByName(w.Result().Cookies(), service.AccessTokenCookie)
	require.NotNil(t, access)
	assert.Empty(t, access.Value)
	assert.Less(t, access.MaxAge, 0)
}
