package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/response"
	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/service"
)

// LogHandler ingests structured diagnostic events from the frontend.
type LogHandler struct {
	logService *service.LogService
	maxBytes   int64
}

// NewLogHandler creates a new LogHandler.
func NewLogHandler(logService *service.LogService, maxBytes int64) *LogHandler {
	return &LogHandler{logService: logService, maxBytes: maxBytes}
}

// Health godoc
// GET /logs/health
func (h *LogHandler) Health(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"status": "ok",
		"ts":     time.Now().UTC().Format(time.RFC3339),
	})
}

// Ingest godoc
// POST /logs
// Validates and records one frontend log entry. Oversized payloads are
// rejected before parsing.
func (h *LogHandler) Ingest(c *gin.Context) {
	if !strings.HasPrefix(c.ContentType(), "application/json") {
		response.Fail(c, http.StatusUnsupportedMediaType, response.ErrUnsupportedMedia)
		return
	}

	// Read at most one byte past the cap so oversize is detectable without
	// buffering an arbitrarily large body.
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, h.maxBytes+1))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}
	if int64(len(body)) > h.maxBytes {
		response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrPayloadTooLarge)
		return
	}

	var entry service.ClientLogEntry
	if err := json.Unmarshal(body, &entry); err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	origin := service.ClientLogOrigin{
		Path:      c.Request.URL.Path,
		IP:        clientIP(c),
		UserAgent: c.GetHeader("User-Agent"),
		Referer:   c.GetHeader("Referer"),
		Origin:    c.GetHeader("Origin"),
	}

	if err := h.logService.Ingest(entry, origin, int64(len(body))); err != nil {
		switch {
		case errors.Is(err, service.ErrLogTooLarge):
			response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrPayloadTooLarge)
		case errors.Is(err, service.ErrLogInvalidLevel), errors.Is(err, service.ErrLogMessageRequired):
			response.FailWithMessage(c, http.StatusBadRequest, response.ErrInvalidPayload, err.Error())
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": "ok"})
}

func clientIP(c *gin.Context) string {
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}
