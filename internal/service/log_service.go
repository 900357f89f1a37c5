package service

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Client log validation errors.
var (
	ErrLogMessageRequired = errors.New("`message` must be a non-empty string")
	ErrLogInvalidLevel    = errors.New("`level` must be one of: debug, info, warn, error")
	ErrLogTooLarge        = errors.New("log payload too large")
)

// ClientLogEntry is a diagnostic event submitted by the frontend.
type ClientLogEntry struct {
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Meta      map[string]interface{} `json:"meta,omitempty"`
	Timestamp string                 `json:"timestamp,omitempty"`
	Env       string                 `json:"env,omitempty"`
}

// ClientLogOrigin describes where an ingested entry came from.
type ClientLogOrigin struct {
	Path      string `json:"path"`
	IP        string `json:"ip"`
	UserAgent string `json:"user_agent,omitempty"`
	Referer   string `json:"referer,omitempty"`
	Origin    string `json:"origin,omitempty"`
}

// clientLogRecord is the enriched JSONL line written to the sink.
type clientLogRecord struct {
	ServerTS string `json:"ts_server"`
	ClientTS string `json:"ts_client,omitempty"`
	Env      string `json:"env,omitempty"`
	ClientLogOrigin
	Level   string                 `json:"level"`
	Message string                 `json:"message"`
	Meta    map[string]interface{} `json:"meta,omitempty"`
}

// LogService ingests structured frontend log records: it validates them,
// enriches them with server-side context, emits them through a dedicated
// zerolog sub-logger and appends a durable JSONL copy.
type LogService struct {
	log      zerolog.Logger
	dir      string
	maxBytes int64

	mu sync.Mutex
}

// NewLogService creates a new LogService writing JSONL copies under dir.
func NewLogService(log zerolog.Logger, dir string, maxBytes int64) *LogService {
	return &LogService{log: log, dir: dir, maxBytes: maxBytes}
}

// Ingest validates and records one client log entry. rawSize is the size of
// the request body as received.
func (s *LogService) Ingest(entry ClientLogEntry, origin ClientLogOrigin, rawSize int64) error {
	if s.maxBytes > 0 && rawSize > s.maxBytes {
		return ErrLogTooLarge
	}

	level := strings.ToLower(entry.Level)
	if level == "" {
		level = "info"
	}
	switch level {
	case "debug", "info", "warn", "error":
	default:
		return ErrLogInvalidLevel
	}

	message := strings.TrimSpace(entry.Message)
	if message == "" {
		return ErrLogMessageRequired
	}

	record := clientLogRecord{
		ServerTS:        time.Now().UTC().Format(time.RFC3339),
		ClientTS:        entry.Timestamp,
		Env:             entry.Env,
		ClientLogOrigin: origin,
		Level:           level,
		Message:         message,
		Meta:            entry.Meta,
	}

	line, err := json.Marshal(record)
	if err != nil {
		return err
	}

	event := s.log.Info()
	switch level {
	case "error":
		event = s.log.Error()
	case "warn":
		event = s.log.Warn()
	case "debug":
		event = s.log.Debug()
	}
	event.RawJSON("client_log", line).Msg(message)

	// Durable JSONL copy. File IO failures never fail ingestion.
	s.appendLine(line)

	return nil
}

func (s *LogService) appendLine(line []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		s.log.Warn().Err(err).Msg("Client log dir unavailable")
		return
	}

	path := filepath.Join(s.dir, "frontend.jsonl")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		s.log.Warn().Err(err).Msg("Client log file unavailable")
		return
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		s.log.Warn().Err(err).Msg("Client log append failed")
	}
}
