package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/config"
)

func testSupabase(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New(&config.Config{
		SupabaseURL:    srv.URL,
		SupabaseAPIKey: "anon-key",
	})
	require.NoError(t, err)
	return client
}

func TestNewRequiresConfiguration(t *testing.T) {
	_, err := New(&config.Config{})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = New(&config.Config{SupabaseURL: "https://proj.supabase.co"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSignInDecodesSessionEnvelope(t *testing.T) {
	client := testSupabase(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/v1/token", r.URL.Path)
		require.Equal(t, "password", r.URL.Query().Get("grant_type"))
		require.Equal(t, "anon-key", r.Header.Get("apikey"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "jane@example.com", body["email"])

		_, _ = w.Write([]byte(`{
			"access_token": "at",
			"refresh_token": "rt",
			"token_type": "bearer",
			"expires_in": 3600,
			"user": {"id": "u-1", "email": "jane@example.com"}
		}`))
	}))

	result, err := client.SignInWithPassword(context.Background(), "jane@example.com", "hunter22")
	require.NoError(t, err)
	require.NotNil(t, result.Session)
	assert.Equal(t, "at", result.Session.AccessToken)
	assert.Equal(t, "rt", result.Session.RefreshToken)
	require.NotNil(t, result.User)
	assert.Equal(t, "u-1", result.User.ID)
}

func TestSignUpDecodesBareUserWhenConfirmationPending(t *testing.T) {
	client := testSupabase(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/v1/signup", r.URL.Path)
		require.Equal(t, "https://app.example.com/signin", r.URL.Query().Get("redirect_to"))
		_, _ = w.Write([]byte(`{"id": "u-2", "email": "new@example.com"}`))
	}))

	result, err := client.SignUp(context.Background(), SignUpCredentials{
		Email:      "new@example.com",
		Password:   "hunter22",
		RedirectTo: "https://app.example.com/signin",
	})
	require.NoError(t, err)
	assert.Nil(t, result.Session)
	require.NotNil(t, result.User)
	assert.Equal(t, "u-2", result.User.ID)
}

func TestRefreshSendsRefreshGrant(t *testing.T) {
	client := testSupabase(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "refresh_token", r.URL.Query().Get("grant_type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "rt-old", body["refresh_token"])

		_, _ = w.Write([]byte(`{"access_token": "at-new", "refresh_token": "rt-new"}`))
	}))

	result, err := client.RefreshSession(context.Background(), "rt-old")
	require.NoError(t, err)
	require.NotNil(t, result.Session)
	assert.Equal(t, "at-new", result.Session.AccessToken)
}

func TestAuthErrorMessageShapes(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"error_description", `{"error_description": "Invalid login credentials"}`, "Invalid login credentials"},
		{"msg", `{"msg": "Email not confirmed"}`, "Email not confirmed"},
		{"message", `{"message": "Something broke"}`, "Something broke"},
		{"raw body", `plain text failure`, "plain text failure"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := testSupabase(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(tc.body))
			}))

			_, err := client.SignInWithPassword(context.Background(), "x@example.com", "bad")
			require.Error(t, err)

			var authErr *AuthError
			require.True(t, errors.As(err, &authErr))
			assert.Equal(t, http.StatusBadRequest, authErr.StatusCode)
			assert.Equal(t, tc.want, authErr.Message)
		})
	}
}

func TestSignOutUsesAccessToken(t *testing.T) {
	var gotAuth string
	client := testSupabase(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/v1/logout", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))

	err := client.SignOut(context.Background(), "at-123")
	require.NoError(t, err)
	assert.Equal(t, "Bearer at-123", gotAuth)
}

func TestGetUser(t *testing.T) {
	client := testSupabase(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/v1/user", r.URL.Path)
		_, _ = w.Write([]byte(`{"id": "u-9", "email": "me@example.com", "user_metadata": {"full_name": "Me"}}`))
	}))

	user, err := client.GetUser(context.Background(), "at")
	require.NoError(t, err)
	assert.Equal(t, "u-9", user.ID)
	assert.Equal(t, "Me", user.UserMetadata["full_name"])
}
