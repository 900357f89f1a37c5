package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCompressRouter(body string) *gin.Engine {
	r := gin.New()
	r.Use(Compress())
	r.GET("/payload", func(c *gin.Context) {
		c.String(http.StatusOK, body)
	})
	return r
}

func getPayload(r *gin.Engine, acceptEncoding string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/payload", nil)
	if acceptEncoding != "" {
		req.Header.Set("Accept-Encoding", acceptEncoding)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestCompressLargeResponse(t *testing.T) {
	body := strings.Repeat(`{"name": "module"} `, 200)
	w := getPayload(newCompressRouter(body), "gzip, br")

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "br", w.Header().Get("Content-Encoding"))
	assert.Equal(t, "Accept-Encoding", w.Header().Get("Vary"))

	decoded, err := io.ReadAll(brotli.NewReader(w.Body))
	require.NoError(t, err)
	assert.Equal(t, body, string(decoded))
}

func TestCompressSkipsSmallResponse(t *testing.T) {
	w := getPayload(newCompressRouter(`{"status": "ok"}`), "br")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, `{"status": "ok"}`, w.Body.String())
}

func TestCompressSkipsWithoutAcceptHeader(t *testing.T) {
	body := strings.Repeat("x", 4096)
	w := getPayload(newCompressRouter(body), "gzip")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, body, w.Body.String())
}
